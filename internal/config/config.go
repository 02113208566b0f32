// Package config holds the game's runtime settings. Values come from the
// built-in defaults, then an optional YAML file, then command-line flags.
package config

import (
	_ "embed"
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"chosenoffset.com/christmasbits/internal/entity"
	"chosenoffset.com/christmasbits/internal/world/collision"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// MaxStepCeiling bounds the path-walk iteration ceilings.
const MaxStepCeiling = 1000

// Config holds every setting the game reads at startup
type Config struct {
	Window    WindowConfig       `koanf:"window"`
	Assets    AssetsConfig       `koanf:"assets"`
	Maps      MapsConfig         `koanf:"maps"`
	Dialogs   DialogsConfig      `koanf:"dialogs"`
	Camera    CameraConfig       `koanf:"camera"`
	Movement  MovementConfig     `koanf:"movement"`
	Story     StoryConfig        `koanf:"story"`
	Collision collision.Patterns `koanf:"collision"`
	Log       LogConfig          `koanf:"log"`
	Debug     bool               `koanf:"debug"`
}

// WindowConfig sizes the game window
type WindowConfig struct {
	Width  int     `koanf:"width"`  // Logical screen width in pixels
	Height int     `koanf:"height"` // Logical screen height in pixels
	Title  string  `koanf:"title"`
	Scale  float64 `koanf:"scale"` // Text scale factor
}

// AssetsConfig locates images
type AssetsConfig struct {
	Dir string `koanf:"dir"`
}

// MapsConfig names the two Tiled maps
type MapsConfig struct {
	Overworld string `koanf:"overworld"`
	Venue     string `koanf:"venue"`
}

// DialogsConfig points at an optional script file layered over the
// embedded scripts
type DialogsConfig struct {
	File string `koanf:"file"`
}

// CameraConfig defines the dead zone in tiles
type CameraConfig struct {
	PadX int `koanf:"pad_x"`
	PadY int `koanf:"pad_y"`
}

// MovementConfig paces scripted walks and animation
type MovementConfig struct {
	CutsceneInterval time.Duration `koanf:"cutscene_interval"`  // Delay between player cutscene steps
	EscortInterval   time.Duration `koanf:"escort_interval"`    // Delay between escort steps
	CutsceneMaxSteps int           `koanf:"cutscene_max_steps"` // Iteration ceiling for player walks
	EscortMaxSteps   int           `koanf:"escort_max_steps"`   // Iteration ceiling for escort walks
	RunThreshold     time.Duration `koanf:"run_threshold"`      // Player counts as moving this long after a step
	KeyRepeat        time.Duration `koanf:"key_repeat"`         // Step interval while a direction key is held
	NPCRunThreshold  time.Duration `koanf:"npc_run_threshold"`
}

// StoryConfig places the scripted beats on the maps
type StoryConfig struct {
	PlayerStart    entity.Position `koanf:"player_start"`
	IntroTarget    entity.Position `koanf:"intro_target"`
	VenueStart     entity.Position `koanf:"venue_start"`
	VenueTarget    entity.Position `koanf:"venue_target"`
	EpilogueAnchor entity.Position `koanf:"epilogue_anchor"`
}

// LogConfig selects the log handler
type LogConfig struct {
	Format string `koanf:"format"` // "text" or "json"
	Level  string `koanf:"level"`
}

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"assets":        "assets.dir",
	"overworld-map": "maps.overworld",
	"venue-map":     "maps.venue",
	"dialogs":       "dialogs.file",
	"scale":         "window.scale",
	"log-format":    "log.format",
	"log-level":     "log.level",
	"debug":         "debug",
}

// RegisterFlags adds the flags Load understands to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("assets", "", "asset directory")
	fs.String("overworld-map", "", "overworld Tiled JSON map")
	fs.String("venue-map", "", "venue Tiled JSON map")
	fs.String("dialogs", "", "extra dialog script file (YAML or JSON)")
	fs.Float64("scale", 0, "text scale factor")
	fs.String("log-format", "", "log format (json or text)")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.Bool("debug", false, "show debug overlay")
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := Load("", nil)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load builds the configuration. path may be empty; a named file that does
// not exist is an error. Only flags the user set override file values.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider(defaultsYAML), yaml.Parser()); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "defaults").Wrap(err)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrapf(err, "config file")
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrapf(err, "parse config file")
		}
	}

	if fs != nil {
		provider := posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(fs, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "flags").Wrap(err)
		}
	}

	cfg := &Config{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").Wrapf(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func invalid(field string, format string, args ...any) error {
	return oops.Code("CONFIG_INVALID").With("field", field).Errorf(format, args...)
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return invalid("window", "window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.Scale <= 0 {
		return invalid("window.scale", "scale must be positive, got %v", c.Window.Scale)
	}
	if c.Maps.Overworld == "" {
		return invalid("maps.overworld", "overworld map is required")
	}
	if c.Camera.PadX < 0 || c.Camera.PadY < 0 {
		return invalid("camera", "camera padding must not be negative")
	}

	m := c.Movement
	for field, d := range map[string]time.Duration{
		"movement.cutscene_interval": m.CutsceneInterval,
		"movement.escort_interval":   m.EscortInterval,
		"movement.run_threshold":     m.RunThreshold,
		"movement.npc_run_threshold": m.NPCRunThreshold,
		"movement.key_repeat":        m.KeyRepeat,
	} {
		if d <= 0 {
			return invalid(field, "%s must be positive, got %v", field, d)
		}
	}
	for field, n := range map[string]int{
		"movement.cutscene_max_steps": m.CutsceneMaxSteps,
		"movement.escort_max_steps":   m.EscortMaxSteps,
	} {
		if n < 1 || n > MaxStepCeiling {
			return invalid(field, "%s must be between 1 and %d, got %d", field, MaxStepCeiling, n)
		}
	}

	if c.Log.Format != "json" && c.Log.Format != "text" {
		return invalid("log.format", "log format must be 'json' or 'text', got %q", c.Log.Format)
	}

	if _, err := collision.NewClassifier(c.Collision); err != nil {
		return oops.Code("CONFIG_INVALID").With("field", "collision").Wrap(err)
	}
	return nil
}
