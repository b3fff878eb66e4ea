package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/phanxgames/armature"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "armature",
	Short: "Inspect, script and preview armature scene files",
	Long: `armature works with skeleton scene files: joint hierarchies with
keyframed poses stored in the line-based scene format.

Use "info" and "sample" to inspect a file, "play" to step its animation
headless, "run" to apply an editing script, and "preview" to serve a live
view over HTTP and websockets.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var infoCmd = &cobra.Command{
	Use:   "info [scene-file]",
	Short: "List the joints, parents and keyframes of a scene file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

var sampleCmd = &cobra.Command{
	Use:   "sample [scene-file]",
	Short: "Print every joint's pose at one frame",
	Long: `Loads the scene, moves the playback cursor to --frame and prints the
interpolated pose of every joint. Joints with fewer than two keyframes keep
their stored pose.

Example:
  armature sample walk.txt --frame 12 --ease`,
	Args: cobra.ExactArgs(1),
	RunE: runSample,
}

var playCmd = &cobra.Command{
	Use:   "play [scene-file]",
	Short: "Advance playback headless and print each frame",
	Long: `Starts playback and runs --ticks updates, printing the frame after
each one. Playback wraps from the last frame back to the first. With --joint
the joint's position and rotation are printed as well.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

var runCmd = &cobra.Command{
	Use:   "run [script]",
	Short: "Apply an editing script to a scene",
	Long: `Executes a YAML or JSON editing script step by step. Steps that fail
are reported and skipped; the rest still run.

Example:
  armature run rig.yaml --in base.txt --out rigged.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

var previewCmd = &cobra.Command{
	Use:   "preview [scene-file]",
	Short: "Serve a live preview of a scene over HTTP",
	Long: `Loads the scene and serves it:

  GET  /api/v1/scene                  current snapshot
  GET  /api/v1/joints/{name}          one joint
  POST /api/v1/playback/toggle        play or stop
  POST /api/v1/playback/frame/{n}     move the cursor
  GET  /ws/playback                   snapshot stream

With --watch the file is reloaded whenever it changes on disk.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML settings file (default: built-in settings)")

	sampleCmd.Flags().IntVarP(&sampleFrame, "frame", "f", 1, "Frame to sample")
	sampleCmd.Flags().BoolVar(&useEase, "ease", false, "Blend with the ease curve instead of linearly")

	playCmd.Flags().IntVarP(&playTicks, "ticks", "n", 10, "Number of playback updates")
	playCmd.Flags().StringVarP(&playJoint, "joint", "j", "", "Joint whose pose is printed each frame")
	playCmd.Flags().BoolVar(&useEase, "ease", false, "Blend with the ease curve instead of linearly")

	runCmd.Flags().StringVar(&scriptIn, "in", "", "Scene file to load before the script runs")
	runCmd.Flags().StringVar(&scriptOut, "out", "", "Scene file to save after the script runs")

	previewCmd.Flags().StringVar(&previewAddr, "addr", "127.0.0.1:8080", "Listen address")
	previewCmd.Flags().IntVar(&previewFPS, "fps", 30, "Playback updates per second")
	previewCmd.Flags().BoolVarP(&previewWatch, "watch", "w", false, "Reload the scene file when it changes")
	previewCmd.Flags().StringVar(&previewOrigin, "allow-origin", "", "CORS origin allowed to call the API")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(previewCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads --config, or returns the built-in settings.
func loadConfig() (armature.Config, error) {
	if configPath == "" {
		return armature.DefaultConfig(), nil
	}
	return armature.LoadConfig(configPath)
}

// newScene builds a scene with the active settings and logger.
func newScene() (*armature.Scene, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	s := armature.NewScene()
	s.SetLogger(logger.Named("scene"))
	if err := s.ApplyConfig(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// openScene builds a scene and loads path into it. Skipped records are
// logged and do not fail the command.
func openScene(path string) (*armature.Scene, armature.LoadReport, error) {
	s, err := newScene()
	if err != nil {
		return nil, armature.LoadReport{}, err
	}
	report, err := s.LoadFile(path)
	if err != nil {
		return nil, report, err
	}
	if len(report.Skipped) > 0 {
		logger.Warn("scene file has malformed records",
			zap.String("path", path), zap.Int("skipped", len(report.Skipped)))
	}
	return s, report, nil
}
