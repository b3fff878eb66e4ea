package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phanxgames/armature"
)

var (
	sampleFrame int
	useEase     bool
	playTicks   int
	playJoint   string
)

// runInfo prints a table of the joints in a scene file.
func runInfo(cmd *cobra.Command, args []string) error {
	s, report, err := openScene(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	pb := s.Playback()
	fmt.Fprintf(out, "%s: %d joints, %d keyframes, frames %d-%d\n",
		args[0], report.Joints, report.Keyframes, pb.Begin, pb.End)
	for _, e := range report.Skipped {
		fmt.Fprintf(out, "  skipped: %v\n", e)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "JOINT\tPARENT\tDEPTH\tKEYFRAMES")
	snap := s.Snapshot()
	for _, j := range snap.Joints {
		n := s.Node(j.ID)
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", j.Name, j.Parent, n.Depth(), formatFrames(n.Timeline.Frames()))
	}
	return tw.Flush()
}

// runSample prints every joint's pose at --frame.
func runSample(cmd *cobra.Command, args []string) error {
	s, _, err := openScene(args[0])
	if err != nil {
		return err
	}
	s.SetEase(useEase)
	s.SetFrame(sampleFrame)
	logger.Debug("sampled scene", zap.Int("frame", s.Frame()), zap.Stringer("interpolation", s.Interpolation()))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "frame %d (%s)\n", s.Frame(), s.Interpolation())
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "JOINT\tPOSITION\tROTATION\tSCALE\tWORLD")
	for _, j := range s.Snapshot().Joints {
		writePose(tw, j)
	}
	return tw.Flush()
}

// runPlay advances playback --ticks times.
func runPlay(cmd *cobra.Command, args []string) error {
	s, _, err := openScene(args[0])
	if err != nil {
		return err
	}
	var joint *armature.Node
	if playJoint != "" {
		if joint = s.JointByName(playJoint); joint == nil {
			return fmt.Errorf("%w: %q", armature.ErrUnknownJoint, playJoint)
		}
	}
	s.SetEase(useEase)
	s.Play()

	out := cmd.OutOrStdout()
	for range max(playTicks, 0) {
		s.Update()
		if joint == nil {
			fmt.Fprintf(out, "frame %d\n", s.Frame())
			continue
		}
		p := joint.Pose()
		fmt.Fprintf(out, "frame %d\t%s\t%s\n", s.Frame(), formatVec(p.Position), formatVec(p.Rotation))
	}
	s.Stop()
	return nil
}

func writePose(w io.Writer, j armature.JointSnapshot) {
	p := j.Pose
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", j.Name,
		formatVec(p.Position), formatVec(p.Rotation), formatVec(p.Scale), formatVec(j.WorldPosition))
}

func formatVec(v armature.Vec3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v[0], v[1], v[2])
}

func formatFrames(frames []int) string {
	if len(frames) == 0 {
		return "-"
	}
	parts := make([]string, len(frames))
	for i, f := range frames {
		parts[i] = fmt.Sprint(f)
	}
	return strings.Join(parts, ",")
}
