package armature

import (
	"fmt"
	"os"
	"sort"

	"github.com/tanema/gween/ease"
	"gopkg.in/yaml.v3"
)

// Config holds the tunables of an editing session. The zero value is not
// useful; start from DefaultConfig.
type Config struct {
	FrameBegin       int     `yaml:"frame_begin"`
	FrameEnd         int     `yaml:"frame_end"`
	Ease             bool    `yaml:"ease"`
	Easing           string  `yaml:"easing"` // curve used when Ease is on; see EasingNames
	JointRadius      float64 `yaml:"joint_radius"`
	DragRotateFactor float64 `yaml:"drag_rotate_factor"`
	Debug            bool    `yaml:"debug"`
}

// DefaultConfig returns the stock editor settings.
func DefaultConfig() Config {
	return Config{
		FrameBegin:       DefaultFrameBegin,
		FrameEnd:         DefaultFrameEnd,
		Easing:           "sigmoid",
		JointRadius:      DefaultJointRadius,
		DragRotateFactor: DefaultDragRotateFactor,
	}
}

// easings maps config names to curves. "sigmoid" is the built-in default.
var easings = map[string]ease.TweenFunc{
	"sigmoid":      SigmoidEase,
	"linear":       ease.Linear,
	"in-out-quad":  ease.InOutQuad,
	"in-out-cubic": ease.InOutCubic,
	"in-out-quart": ease.InOutQuart,
	"in-out-sine":  ease.InOutSine,
	"in-out-expo":  ease.InOutExpo,
	"in-out-circ":  ease.InOutCirc,
	"in-out-back":  ease.InOutBack,
	"out-bounce":   ease.OutBounce,
}

// EasingNames lists the accepted values of Config.Easing in sorted order.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for k := range easings {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// EasingByName returns the curve registered under name.
func EasingByName(name string) (ease.TweenFunc, bool) {
	fn, ok := easings[name]
	return fn, ok
}

// Validate checks ranges and names.
func (c Config) Validate() error {
	if c.FrameBegin < 0 {
		return fmt.Errorf("armature: frame_begin %d is negative", c.FrameBegin)
	}
	if c.FrameEnd < c.FrameBegin {
		return fmt.Errorf("armature: frame_end %d is before frame_begin %d", c.FrameEnd, c.FrameBegin)
	}
	if c.JointRadius <= 0 {
		return fmt.Errorf("armature: joint_radius must be positive, got %v", c.JointRadius)
	}
	if c.Easing != "" {
		if _, ok := easings[c.Easing]; !ok {
			return fmt.Errorf("armature: unknown easing %q", c.Easing)
		}
	}
	return nil
}

// ParseConfig decodes YAML over DefaultConfig, so omitted keys keep their
// defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("armature: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("armature: read config: %w", err)
	}
	return ParseConfig(data)
}

// ApplyConfig installs cfg on the scene: playback range and ease mode, the
// ease curve, joint defaults and debug checks. The current frame is clamped
// into the new range.
func (s *Scene) ApplyConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.cfg = cfg
	s.curve = nil
	if cfg.Easing != "" && cfg.Easing != "sigmoid" {
		s.curve = easings[cfg.Easing]
	}
	s.debug = cfg.Debug
	s.playback.Ease = cfg.Ease
	s.SetRange(cfg.FrameBegin, cfg.FrameEnd)
	return nil
}

// Config returns the active configuration.
func (s *Scene) Config() Config {
	return s.cfg
}
