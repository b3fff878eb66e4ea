package armature

import "github.com/go-gl/mathgl/mgl64"

// Vec3 is a 3D vector used for positions, Euler rotations (degrees), scales
// and directions throughout the API.
type Vec3 = mgl64.Vec3

// Mat4 is a column-major 4x4 homogeneous transform.
type Mat4 = mgl64.Mat4

// NodeID identifies a node inside its scene's arena. The zero value means
// "no node".
type NodeID uint32

// NodeKind distinguishes plain scene objects from skeleton joints.
type NodeKind uint8

const (
	NodeKindPlain NodeKind = iota // scene object without a timeline (ground plane, props)
	NodeKindJoint                 // named skeleton joint carrying a keyframe timeline
)

// String returns the kind name used in logs and the CLI.
func (k NodeKind) String() string {
	switch k {
	case NodeKindPlain:
		return "plain"
	case NodeKindJoint:
		return "joint"
	default:
		return "unknown"
	}
}

// Axis selects a rotation channel.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// String returns "x", "y" or "z".
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "?"
	}
}

// ParseAxis converts "x", "y" or "z" (either case) to an Axis.
func ParseAxis(s string) (Axis, bool) {
	switch s {
	case "x", "X":
		return AxisX, true
	case "y", "Y":
		return AxisY, true
	case "z", "Z":
		return AxisZ, true
	}
	return 0, false
}

// unit returns the unit vector along the axis.
func (a Axis) unit() Vec3 {
	var v Vec3
	v[a] = 1
	return v
}

// Ray is a half-line used for picking. Dir does not need to be normalized.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// Pose holds the three transform channels of a node.
type Pose struct {
	Position Vec3 `json:"position"`
	Rotation Vec3 `json:"rotation"`
	Scale    Vec3 `json:"scale"`
}

// IdentityPose is the rest pose: origin, no rotation, unit scale.
var IdentityPose = Pose{Scale: Vec3{1, 1, 1}}

// Frame range and step defaults.
const (
	DefaultFrameBegin = 1   // first frame of the playback range
	DefaultFrameEnd   = 501 // last frame of the playback range
	PlaybackStep      = 1   // frames advanced per tick while playing
	ScrubStep         = 5   // frames moved per manual step while stopped

	// DefaultJointRadius is the bounding sphere radius of new joints.
	DefaultJointRadius = 1.0

	// DefaultDragRotateFactor converts drag distance in world units to degrees.
	DefaultDragRotateFactor = 20.0
)
