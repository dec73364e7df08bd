// Package config loads program settings. Values are layered lowest to highest:
// built-in defaults, a TOML file, the environment, then command-line flags
// applied by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"snippets/internal/field"
)

const (
	// DefaultFile is read from the working directory when no file is named.
	DefaultFile = "snippets.toml"
	// SeedEnv overrides the configured seed.
	SeedEnv = "SNIPPETS_SEED"
)

var ErrInvalid = errors.New("invalid config")

// Duration is a time.Duration written in TOML as a string such as "3s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type Window struct {
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Title     string `toml:"title"`
	Resizable bool   `toml:"resizable"`
}

type Field struct {
	Sprites  int      `toml:"sprites"`
	MaxSpeed float64  `toml:"max_speed"`
	Pause    Duration `toml:"pause"`
	Top      float64  `toml:"top"`
	Bottom   float64  `toml:"bottom"`
	SpreadX  float64  `toml:"spread_x"`
	SpreadZ  float64  `toml:"spread_z"`
}

type Audio struct {
	Enabled bool    `toml:"enabled"`
	Volume  float64 `toml:"volume"`
}

type Config struct {
	// Seed drives every random draw. Zero picks one from the clock.
	Seed     uint64 `toml:"seed"`
	LogLevel string `toml:"log_level"`

	Window Window `toml:"window"`
	Field  Field  `toml:"field"`
	Audio  Audio  `toml:"audio"`
}

func Default() Config {
	f := field.DefaultOptions()
	return Config{
		LogLevel: "info",
		Window: Window{
			Width:     1280,
			Height:    800,
			Title:     "Falling Snippets",
			Resizable: true,
		},
		Field: Field{
			Sprites:  f.Sprites,
			MaxSpeed: float64(f.MaxSpeed),
			Pause:    Duration{f.PauseFor},
			Top:      float64(f.Top),
			Bottom:   float64(f.Bottom),
			SpreadX:  float64(f.SpreadX),
			SpreadZ:  float64(f.SpreadZ),
		},
		Audio: Audio{
			Enabled: true,
			Volume:  0.5,
		},
	}
}

// Load returns the defaults overlaid with the TOML file at path and the
// environment. An empty path reads DefaultFile if it exists. Unknown keys are
// an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if _, err := os.Stat(path); err == nil || explicit {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			names := make([]string, len(keys))
			for i, k := range keys {
				names[i] = k.String()
			}
			return Config{}, fmt.Errorf("%w: %s: unknown keys %s", ErrInvalid, path, strings.Join(names, ", "))
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	s, ok := lookup(SeedEnv)
	if !ok || s == "" {
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %s=%q: %v", ErrInvalid, SeedEnv, s, err)
	}
	c.Seed = v
	return nil
}

// Validate reports every out-of-range setting at once.
func (c Config) Validate() error {
	var errs []error
	bad := func(key, format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s: %s", ErrInvalid, key, fmt.Sprintf(format, args...)))
	}

	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		bad("log_level", "%v", err)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		bad("window", "size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Field.Sprites <= 0 {
		bad("field.sprites", "must be positive, got %d", c.Field.Sprites)
	}
	if c.Field.MaxSpeed < 0 {
		bad("field.max_speed", "must not be negative, got %v", c.Field.MaxSpeed)
	}
	if c.Field.Pause.Duration <= 0 {
		bad("field.pause", "must be positive, got %v", c.Field.Pause.Duration)
	}
	if c.Field.Bottom >= c.Field.Top {
		bad("field.bottom", "%v must be below top %v", c.Field.Bottom, c.Field.Top)
	}
	if c.Field.SpreadX < 0 || c.Field.SpreadZ < 0 {
		bad("field.spread", "must not be negative, got x=%v z=%v", c.Field.SpreadX, c.Field.SpreadZ)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		bad("audio.volume", "must be in [0,1], got %v", c.Audio.Volume)
	}
	return errors.Join(errs...)
}

// ParseLogLevel maps a level name to a logger level. Empty means info.
func ParseLogLevel(s string) (log.Level, error) {
	if s == "" {
		return log.InfoLevel, nil
	}
	return log.ParseLevel(s)
}

// SeedOrClock returns the configured seed, or one derived from now when unset.
func (c Config) SeedOrClock(now time.Time) uint64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return uint64(now.UnixNano())
}

// FieldOptions converts the [field] section, keeping the remaining defaults.
func (c Config) FieldOptions() field.Options {
	o := field.DefaultOptions()
	o.Sprites = c.Field.Sprites
	o.MaxSpeed = float32(c.Field.MaxSpeed)
	o.PauseFor = c.Field.Pause.Duration
	o.Top = float32(c.Field.Top)
	o.Bottom = float32(c.Field.Bottom)
	o.SpreadX = float32(c.Field.SpreadX)
	o.SpreadZ = float32(c.Field.SpreadZ)
	return o
}
