package armature

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/tanema/gween/ease"
	"go.uber.org/zap"
)

// Scene is the top-level object that owns every node, the selection and the
// playback state of one editing session. A Scene is not safe for concurrent
// use; hand other goroutines a Snapshot instead.
type Scene struct {
	// Arena
	nodes  map[NodeID]*Node
	order  []NodeID // scene order: creation/load order, used by Save and Nodes
	nextID NodeID

	// Editor state
	selection    []NodeID
	jointCounter int

	// Playback
	playback PlaybackState
	curve    ease.TweenFunc // custom ease curve; nil means SigmoidEase

	cfg   Config
	log   *zap.Logger
	sink  EventSink
	debug bool
}

// NewScene creates an empty scene configured with DefaultConfig.
func NewScene() *Scene {
	cfg := DefaultConfig()
	s := &Scene{
		nodes: make(map[NodeID]*Node),
		cfg:   cfg,
		log:   zap.NewNop(),
		playback: PlaybackState{
			Frame: cfg.FrameBegin,
			Begin: cfg.FrameBegin,
			End:   cfg.FrameEnd,
		},
	}
	return s
}

// SetLogger installs the logger used for status messages. nil restores the
// no-op logger.
func (s *Scene) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	s.log = l
}

// Logger returns the scene's logger.
func (s *Scene) Logger() *zap.Logger {
	return s.log
}

// SetEventSink sets the optional receiver of edit events.
func (s *Scene) SetEventSink(sink EventSink) {
	s.sink = sink
}

// SetDebugMode enables or disables debug checks. When enabled, tree depth and
// child count warnings are logged and Validate runs after every structural
// edit.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// Update advances playback by one tick. Call it once per rendered frame.
func (s *Scene) Update() {
	s.Tick()
}

// --- Node creation ---

// NewNode creates a plain (non-joint) root node. Plain nodes have no
// bounding radius, so they are not pickable until Radius is set.
func (s *Scene) NewNode(name string) *Node {
	n := &Node{Name: name, Kind: NodeKindPlain}
	nodeDefaults(n)
	s.insert(n)
	return n
}

// NewJoint creates a root joint with the given unique name.
func (s *Scene) NewJoint(name string) (*Node, error) {
	if !validName(name) {
		return nil, ErrInvalidName
	}
	if s.JointByName(name) != nil {
		return nil, ErrNameTaken
	}
	return s.newJoint(name), nil
}

func (s *Scene) newJoint(name string) *Node {
	n := &Node{
		Name:     name,
		Kind:     NodeKindJoint,
		Radius:   s.cfg.JointRadius,
		Timeline: &Timeline{},
	}
	nodeDefaults(n)
	s.insert(n)
	return n
}

// insert assigns an id and stores n in the arena.
func (s *Scene) insert(n *Node) {
	s.nextID++
	n.ID = s.nextID
	n.scene = s
	s.nodes[n.ID] = n
	s.order = append(s.order, n.ID)
}

// remove drops n from the arena, the scene order and the selection. Links
// must already be fixed up by the caller.
func (s *Scene) remove(n *Node) {
	delete(s.nodes, n.ID)
	for i, id := range s.order {
		if id == n.ID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.deselect(n)
	n.scene = nil
	n.parent = 0
	n.children = nil
}

// nextJointName returns the next free "joint<N>" name.
func (s *Scene) nextJointName() string {
	for {
		name := "joint" + strconv.Itoa(s.jointCounter)
		s.jointCounter++
		if s.JointByName(name) == nil {
			return name
		}
	}
}

// syncJointCounter moves the counter past every existing joint<N> name.
func (s *Scene) syncJointCounter() {
	for _, n := range s.Joints() {
		rest, ok := strings.CutPrefix(n.Name, "joint")
		if !ok {
			continue
		}
		if v, err := strconv.Atoi(rest); err == nil && v >= s.jointCounter {
			s.jointCounter = v + 1
		}
	}
}

// validName reports whether name can round-trip through the file format.
func validName(name string) bool {
	if name == "" || name == "None" {
		return false
	}
	return strings.IndexFunc(name, unicode.IsSpace) < 0
}

// --- Lookup ---

// Node returns the node with the given id, or nil.
func (s *Scene) Node(id NodeID) *Node {
	return s.nodes[id]
}

// Contains reports whether n belongs to this scene.
func (s *Scene) Contains(n *Node) bool {
	return n != nil && n.scene == s && s.nodes[n.ID] == n
}

// Len returns the number of nodes in the scene.
func (s *Scene) Len() int {
	return len(s.nodes)
}

// Nodes returns every node in scene order.
func (s *Scene) Nodes() []*Node {
	out := make([]*Node, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.nodes[id])
	}
	return out
}

// Joints returns every joint in scene order.
func (s *Scene) Joints() []*Node {
	var out []*Node
	for _, id := range s.order {
		if n := s.nodes[id]; n.Kind == NodeKindJoint {
			out = append(out, n)
		}
	}
	return out
}

// Roots returns the parentless nodes in scene order.
func (s *Scene) Roots() []*Node {
	var out []*Node
	for _, id := range s.order {
		if n := s.nodes[id]; n.parent == 0 {
			out = append(out, n)
		}
	}
	return out
}

// JointByName returns the joint with the given name, or nil.
func (s *Scene) JointByName(name string) *Node {
	for _, id := range s.order {
		if n := s.nodes[id]; n.Kind == NodeKindJoint && n.Name == name {
			return n
		}
	}
	return nil
}

// Rename changes a joint's name, keeping names unique.
func (s *Scene) Rename(n *Node, name string) error {
	if !s.Contains(n) {
		return ErrForeignNode
	}
	if !validName(name) {
		return ErrInvalidName
	}
	if other := s.JointByName(name); other != nil && other != n {
		return ErrNameTaken
	}
	n.Name = name
	return nil
}

// Clear removes every node and resets selection and playback to the
// configured defaults.
func (s *Scene) Clear() {
	s.ClearSelection()
	for _, n := range s.Nodes() {
		s.remove(n)
	}
	s.jointCounter = 0
	s.playback = PlaybackState{
		Frame: s.cfg.FrameBegin,
		Begin: s.cfg.FrameBegin,
		End:   s.cfg.FrameEnd,
		Ease:  s.playback.Ease,
	}
}

// removeJoints drops every joint, detaching plain nodes that hung below one.
// The selection is cleared, plain nodes included.
func (s *Scene) removeJoints() {
	s.ClearSelection()
	for _, n := range s.Joints() {
		for _, c := range n.Children() {
			if c.Kind != NodeKindJoint {
				c.RemoveFromParent()
			}
		}
		n.RemoveFromParent()
	}
	for _, n := range s.Joints() {
		s.remove(n)
	}
	s.jointCounter = 0
}
