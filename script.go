package armature

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// scriptStep is a single editor command in a script.
type scriptStep struct {
	Action   string  `yaml:"action"`
	Name     string  `yaml:"name,omitempty"`
	Parent   string  `yaml:"parent,omitempty"`
	Additive bool    `yaml:"additive,omitempty"`
	X        float64 `yaml:"x,omitempty"`
	Y        float64 `yaml:"y,omitempty"`
	Z        float64 `yaml:"z,omitempty"`
	Axis     string  `yaml:"axis,omitempty"`
	Degrees  float64 `yaml:"degrees,omitempty"`
	Frame    int     `yaml:"frame,omitempty"`
	Frames   int     `yaml:"frames,omitempty"`
	Enabled  bool    `yaml:"enabled,omitempty"`
	Path     string  `yaml:"path,omitempty"`
}

// scriptDoc is the top-level structure of a script file.
type scriptDoc struct {
	Steps []scriptStep `yaml:"steps"`
}

// scriptActions lists the accepted actions: the editor's trigger vocabulary.
var scriptActions = map[string]bool{
	"add-joint":       true, // add a joint under the selection (or under parent)
	"delete":          true, // delete the selection, reparenting its children
	"select":          true, // select a joint by name
	"clear-selection": true,
	"reparent":        true, // move joint name under parent ("" or "None" for root)
	"rename":          true, // rename the selection to name
	"translate":       true, // move the selection by (x, y, z)
	"rotate":          true, // rotate the selection by degrees about axis
	"key":             true, // set a keyframe at the current frame
	"delete-key":      true, // delete the keyframe at the current frame
	"reset-keys":      true, // clear the selection's timeline
	"reset-rotation":  true,
	"toggle-play":     true,
	"play":            true,
	"stop":            true,
	"next":            true, // step forward
	"prev":            true, // step back
	"frame":           true, // jump to frame
	"tick":            true, // run frames ticks (default 1)
	"ease":            true, // enable or disable ease interpolation
	"save":            true,
	"load":            true,
}

// Script sequences editor commands against a Scene, one command per Step.
// It is the headless counterpart of a keyboard session and is used by the
// CLI and by tests.
type Script struct {
	steps  []scriptStep
	cursor int
}

// ParseScript parses a YAML (or JSON) script of the form
//
//	steps:
//	  - action: add-joint
//	  - action: translate
//	    x: 2
//	  - action: key
func ParseScript(data []byte) (*Script, error) {
	var doc scriptDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("armature: parse script: %w", err)
	}
	if len(doc.Steps) == 0 {
		return nil, fmt.Errorf("armature: parse script: no steps")
	}
	for i, st := range doc.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("armature: parse script: step %d: unknown action %q", i+1, st.Action)
		}
		if st.Action == "rotate" {
			if _, ok := ParseAxis(st.Axis); !ok {
				return nil, fmt.Errorf("armature: parse script: step %d: bad axis %q", i+1, st.Axis)
			}
		}
		if (st.Action == "save" || st.Action == "load") && st.Path == "" {
			return nil, fmt.Errorf("armature: parse script: step %d: %s needs a path", i+1, st.Action)
		}
	}
	return &Script{steps: doc.Steps}, nil
}

// LoadScript reads and parses a script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("armature: read script: %w", err)
	}
	return ParseScript(data)
}

// Len returns the number of steps.
func (sc *Script) Len() int {
	return len(sc.steps)
}

// Done reports whether every step has been executed.
func (sc *Script) Done() bool {
	return sc.cursor >= len(sc.steps)
}

// Rewind moves back to the first step.
func (sc *Script) Rewind() {
	sc.cursor = 0
}

// Step executes the next command. The returned error describes a failed
// command; the script still advances past it.
func (sc *Script) Step(s *Scene) error {
	if sc.Done() {
		return nil
	}
	i := sc.cursor
	st := sc.steps[i]
	sc.cursor++
	if err := runStep(s, st); err != nil {
		s.log.Warn("script step failed", zap.Int("step", i+1), zap.String("action", st.Action), zap.Error(err))
		return fmt.Errorf("step %d (%s): %w", i+1, st.Action, err)
	}
	return nil
}

// Run executes every remaining step. Failing steps do not stop the run;
// their errors are joined in the result.
func (sc *Script) Run(s *Scene) error {
	var errs []error
	for !sc.Done() {
		if err := sc.Step(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func runStep(s *Scene, st scriptStep) error {
	switch st.Action {
	case "add-joint":
		parent := s.PrimarySelection()
		if st.Parent != "" {
			if parent = s.JointByName(st.Parent); parent == nil {
				return fmt.Errorf("%w: %q", ErrUnknownJoint, st.Parent)
			}
		}
		if st.Name != "" {
			if !validName(st.Name) {
				return ErrInvalidName
			}
			if s.JointByName(st.Name) != nil {
				return ErrNameTaken
			}
		}
		n := s.AddJoint(parent)
		if st.Name != "" {
			return s.Rename(n, st.Name)
		}
	case "delete":
		return s.DeleteSelected()
	case "select":
		n := s.JointByName(st.Name)
		if n == nil {
			return fmt.Errorf("%w: %q", ErrUnknownJoint, st.Name)
		}
		s.Select(n, st.Additive)
	case "clear-selection":
		s.ClearSelection()
	case "reparent":
		n := s.JointByName(st.Name)
		if n == nil {
			return fmt.Errorf("%w: %q", ErrUnknownJoint, st.Name)
		}
		var parent *Node
		if st.Parent != "" && st.Parent != noParent {
			if parent = s.JointByName(st.Parent); parent == nil {
				return fmt.Errorf("%w: %q", ErrUnknownJoint, st.Parent)
			}
		}
		return s.Reparent(n, parent)
	case "rename":
		n := s.PrimarySelection()
		if n == nil {
			return ErrNoSelection
		}
		return s.Rename(n, st.Name)
	case "translate":
		return s.ApplyTranslation(Vec3{st.X, st.Y, st.Z})
	case "rotate":
		axis, _ := ParseAxis(st.Axis)
		return s.ApplyRotation(axis, st.Degrees)
	case "key":
		return s.KeySelected()
	case "delete-key":
		return s.DeleteSelectedKeyframe()
	case "reset-keys":
		return s.ResetSelectedKeyframes()
	case "reset-rotation":
		return s.ResetRotation()
	case "toggle-play":
		s.Toggle()
	case "play":
		s.Play()
	case "stop":
		s.Stop()
	case "next":
		s.StepForward()
	case "prev":
		s.StepBack()
	case "frame":
		s.SetFrame(st.Frame)
	case "tick":
		frames := max(st.Frames, 1)
		for range frames {
			s.Update()
		}
	case "ease":
		s.SetEase(st.Enabled)
	case "save":
		return s.SaveFile(st.Path)
	case "load":
		_, err := s.LoadFile(st.Path)
		return err
	}
	return nil
}
