package armature

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// The scene file is a line-oriented dump with one record per joint:
//
//	Joint: <name>
//	Parent: <name|None>
//	Position: (x, y, z)
//	Rotation: (x, y, z)
//	Scale: (x, y, z)
//	KeyFrames:
//	  Frame: <int>
//	    Position: (x, y, z)
//	    Rotation: (x, y, z)
//	    Scale: (x, y, z)
//	<blank line>
//
// KeyFrames is only written for joints with keyframes. Plain nodes are not
// saved.

const noParent = "None"

// Save writes every joint in scene order.
func (s *Scene) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, n := range s.Joints() {
		parent := noParent
		if p := n.Parent(); p.IsJoint() {
			parent = p.Name
		}
		fmt.Fprintf(bw, "Joint: %s\n", n.Name)
		fmt.Fprintf(bw, "Parent: %s\n", parent)
		fmt.Fprintf(bw, "Position: %s\n", formatVec(n.Position))
		fmt.Fprintf(bw, "Rotation: %s\n", formatVec(n.Rotation))
		fmt.Fprintf(bw, "Scale: %s\n", formatVec(n.Scale))
		if n.Timeline.Len() > 0 {
			bw.WriteString("KeyFrames:\n")
			for _, kf := range n.Timeline.keys {
				fmt.Fprintf(bw, "  Frame: %d\n", kf.Frame)
				fmt.Fprintf(bw, "    Position: %s\n", formatVec(kf.Position))
				fmt.Fprintf(bw, "    Rotation: %s\n", formatVec(kf.Rotation))
				fmt.Fprintf(bw, "    Scale: %s\n", formatVec(kf.Scale))
			}
		}
		bw.WriteString("\n")
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("armature: save scene: %w", err)
	}
	return nil
}

// SaveFile writes the scene to path, creating or truncating it.
func (s *Scene) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		s.log.Warn("file could not be opened for saving", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("armature: save scene: %w", err)
	}
	if err := s.Save(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("armature: save scene: %w", err)
	}
	s.log.Info("scene saved", zap.String("path", path), zap.Int("joints", len(s.Joints())))
	return nil
}

// LoadReport summarizes a Load.
type LoadReport struct {
	Joints    int     // joints created
	Keyframes int     // keyframes stored across all joints
	Skipped   []error // *DataError for every record, keyframe or line that was dropped
}

// Err joins the skipped-record errors, or returns nil when the file was clean.
func (r LoadReport) Err() error {
	return errors.Join(r.Skipped...)
}

// Load replaces the scene's joints with the ones read from r. Plain nodes
// are kept. Parent references may point forward in the file. Malformed
// records are skipped and listed in the report; the returned error is only
// set when r itself fails, in which case the scene is unchanged.
//
// After loading, every joint is posed at its first keyframe, the selection is
// cleared, playback stops and the range becomes [1, last keyed frame].
func (s *Scene) Load(r io.Reader) (LoadReport, error) {
	records, skipped, err := parseScene(r)
	if err != nil {
		return LoadReport{}, fmt.Errorf("armature: load scene: %w", err)
	}
	report := LoadReport{Skipped: skipped}

	s.removeJoints()

	// Pass 1: create joints in file order.
	byName := make(map[string]*Node, len(records))
	built := make([]*jointRecord, 0, len(records))
	for _, rec := range records {
		if _, dup := byName[rec.name]; dup {
			report.Skipped = append(report.Skipped, &DataError{Line: rec.line, Joint: rec.name, Err: ErrNameTaken})
			continue
		}
		n := s.newJoint(rec.name)
		n.SetPose(rec.pose)
		for _, kf := range rec.keys {
			n.Timeline.Set(kf)
		}
		byName[rec.name] = n
		built = append(built, rec)
		report.Joints++
		report.Keyframes += n.Timeline.Len()
	}

	// Pass 2: link parents, now that every name is known.
	for _, rec := range built {
		if rec.parent == "" || rec.parent == noParent {
			continue
		}
		n := byName[rec.name]
		p := byName[rec.parent]
		switch {
		case p == nil:
			report.Skipped = append(report.Skipped, &DataError{
				Line: rec.parentLine, Joint: rec.name,
				Err: fmt.Errorf("parent %q is not defined", rec.parent),
			})
		case !p.AddChild(n):
			report.Skipped = append(report.Skipped, &DataError{
				Line: rec.parentLine, Joint: rec.name,
				Err: fmt.Errorf("parent %q: %w", rec.parent, ErrCycle),
			})
		}
	}

	// Start from the first keyframe and reset the playback range.
	end := 0
	for _, n := range s.Joints() {
		if first, ok := n.Timeline.First(); ok {
			n.SetPose(first.Pose())
		}
		if last, ok := n.Timeline.Last(); ok {
			end = max(end, last.Frame)
		}
	}
	s.playback.Playing = false
	s.playback.Begin = 1
	s.playback.End = end
	s.playback.Frame = 1
	s.syncJointCounter()

	for _, e := range report.Skipped {
		s.log.Warn("skipped malformed record", zap.Error(e))
	}
	s.emit(EditEvent{Type: EventSceneLoaded, Frame: s.playback.Frame})
	s.log.Info("scene loaded", zap.Int("joints", report.Joints), zap.Int("keyframes", report.Keyframes), zap.Int("frame_end", end))
	s.debugValidate("Load")
	return report, nil
}

// LoadFile opens path and loads it.
func (s *Scene) LoadFile(path string) (LoadReport, error) {
	f, err := os.Open(path)
	if err != nil {
		s.log.Warn("failed to open file", zap.String("path", path), zap.Error(err))
		return LoadReport{}, fmt.Errorf("armature: load scene: %w", err)
	}
	defer f.Close()
	return s.Load(f)
}

// --- Parsing ---

type jointRecord struct {
	line       int
	name       string
	parent     string
	parentLine int
	pose       Pose
	keys       []Keyframe
}

// sceneParser accumulates records while scanning lines.
type sceneParser struct {
	records []*jointRecord
	skipped []error

	cur    *jointRecord
	curBad bool
	kf     *Keyframe
	kfLine int
	kfBad  bool
}

func parseScene(r io.Reader) ([]*jointRecord, []error, error) {
	p := &sceneParser{}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		p.parseLine(line, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	p.finishRecord()
	return p.records, p.skipped, nil
}

func (p *sceneParser) parseLine(line int, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		// Blank lines end a keyframe block and separate joints.
		p.finishKeyframe()
		return
	}
	key, val, ok := strings.Cut(text, ":")
	if !ok {
		p.fail(line, fmt.Errorf("unrecognized line %q", text), false)
		return
	}
	val = strings.TrimSpace(val)

	if key == "Joint" {
		p.finishRecord()
		p.cur = &jointRecord{line: line, name: val, pose: IdentityPose}
		if !validName(val) {
			p.fail(line, fmt.Errorf("invalid joint name %q", val), true)
		}
		return
	}
	if p.cur == nil {
		p.fail(line, fmt.Errorf("%q outside a joint record", text), false)
		return
	}

	switch key {
	case "Parent":
		p.cur.parent = val
		p.cur.parentLine = line
	case "KeyFrames":
		p.finishKeyframe()
	case "Frame":
		p.finishKeyframe()
		p.kf = &Keyframe{Frame: UnsetFrame, Scale: Vec3{1, 1, 1}}
		p.kfLine = line
		frame, err := strconv.Atoi(val)
		if err != nil {
			p.failKeyframe(line, fmt.Errorf("frame %q: %w", val, err))
			return
		}
		p.kf.Frame = frame
	case "Position", "Rotation", "Scale":
		v, err := parseVec(val)
		if err != nil {
			err = fmt.Errorf("%s: %w", strings.ToLower(key), err)
			if p.kf != nil {
				p.failKeyframe(line, err)
			} else {
				p.fail(line, err, true)
			}
			return
		}
		pos, rot, scl := &p.cur.pose.Position, &p.cur.pose.Rotation, &p.cur.pose.Scale
		if p.kf != nil {
			pos, rot, scl = &p.kf.Position, &p.kf.Rotation, &p.kf.Scale
		}
		switch key {
		case "Position":
			*pos = v
		case "Rotation":
			*rot = v
		case "Scale":
			*scl = v
		}
	default:
		p.fail(line, fmt.Errorf("unrecognized field %q", key), false)
	}
}

// fail records a DataError. With skipRecord the current joint record is
// dropped when it finishes.
func (p *sceneParser) fail(line int, err error, skipRecord bool) {
	name := ""
	if p.cur != nil {
		name = p.cur.name
	}
	p.skipped = append(p.skipped, &DataError{Line: line, Joint: name, Err: err})
	if skipRecord {
		p.curBad = true
	}
}

// failKeyframe records a DataError and drops the current keyframe block.
func (p *sceneParser) failKeyframe(line int, err error) {
	p.skipped = append(p.skipped, &DataError{Line: line, Joint: p.cur.name, Err: err})
	p.kfBad = true
}

func (p *sceneParser) finishKeyframe() {
	if p.kf == nil {
		return
	}
	switch {
	case p.kfBad:
	case p.kf.Frame < 0:
		p.skipped = append(p.skipped, &DataError{Line: p.kfLine, Joint: p.cur.name, Err: ErrInvalidFrame})
	default:
		p.cur.keys = append(p.cur.keys, *p.kf)
	}
	p.kf = nil
	p.kfBad = false
}

func (p *sceneParser) finishRecord() {
	if p.cur == nil {
		return
	}
	p.finishKeyframe()
	if !p.curBad {
		p.records = append(p.records, p.cur)
	}
	p.cur = nil
	p.curBad = false
}

// formatVec renders v as "(x, y, z)" with the shortest exact decimals.
func formatVec(v Vec3) string {
	return "(" + formatFloat(v[0]) + ", " + formatFloat(v[1]) + ", " + formatFloat(v[2]) + ")"
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// parseVec parses "(x, y, z)".
func parseVec(s string) (Vec3, error) {
	inner, ok := strings.CutPrefix(strings.TrimSpace(s), "(")
	if ok {
		inner, ok = strings.CutSuffix(inner, ")")
	}
	if !ok {
		return Vec3{}, fmt.Errorf("malformed vector %q", s)
	}
	parts := strings.Split(inner, ",")
	if len(parts) != 3 {
		return Vec3{}, fmt.Errorf("vector %q needs 3 components", s)
	}
	var v Vec3
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Vec3{}, fmt.Errorf("vector %q: %w", s, err)
		}
		v[i] = f
	}
	return v, nil
}
