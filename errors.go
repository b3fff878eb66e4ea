package armature

import (
	"errors"
	"fmt"
	"io/fs"
)

// User errors. Operations returning them leave the scene unchanged.
var (
	ErrNoSelection      = errors.New("armature: no object selected")
	ErrNotJoint         = errors.New("armature: selected object is not a joint")
	ErrKeyframeNotFound = errors.New("armature: no keyframe at frame")
	ErrInvalidFrame     = errors.New("armature: frame must not be negative")
	ErrNameTaken        = errors.New("armature: joint name already in use")
	ErrInvalidName      = errors.New("armature: joint name must be a single non-empty word")
	ErrCycle            = errors.New("armature: reparent would create a cycle")
	ErrForeignNode      = errors.New("armature: node does not belong to this scene")
	ErrUnknownJoint     = errors.New("armature: no joint with that name")
)

// DataError describes a malformed record in a scene file. Load skips the
// record and keeps going.
type DataError struct {
	Line  int    // 1-based line where the problem was found
	Joint string // joint record the line belongs to, if known
	Err   error
}

func (e *DataError) Error() string {
	if e.Joint != "" {
		return fmt.Sprintf("armature: line %d (joint %q): %v", e.Line, e.Joint, e.Err)
	}
	return fmt.Sprintf("armature: line %d: %v", e.Line, e.Err)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// IsUserError reports whether err is one of the recoverable user errors
// above or a file that could not be opened (directly or wrapped).
func IsUserError(err error) bool {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return true
	}
	for _, target := range []error{
		ErrNoSelection, ErrNotJoint, ErrKeyframeNotFound, ErrInvalidFrame,
		ErrNameTaken, ErrInvalidName, ErrCycle, ErrForeignNode, ErrUnknownJoint,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
