// Package config loads the simulator's TOML configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"gosuda.org/dodesc"
)

var ErrInvalid = errors.New("config: invalid configuration")

// Duration is a time.Duration written as a string ("16ms", "2s") in TOML.
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

type Config struct {
	Region Region `toml:"region"`
	Log    Log    `toml:"log"`
	Sim    Sim    `toml:"sim"`
}

// Region describes the shared region both roles map.
type Region struct {
	Path        string `toml:"path"`
	Slots       int    `toml:"slots"`
	RingSize    int    `toml:"ring_size"`
	BufferCount int    `toml:"buffer_count"`
	BufferSize  int    `toml:"buffer_size"`
	Pin         bool   `toml:"pin"` // mlock the mapping
}

type Log struct {
	Level string `toml:"level"`
}

// Sim drives the simulated producer and consumer.
type Sim struct {
	DisplayObjects int      `toml:"display_objects"`
	FrameRate      int      `toml:"frame_rate"`   // Consumer polls per second
	StaticEvery    int      `toml:"static_every"` // Producer frames between static writes
	DebugEvery     int      `toml:"debug_every"`  // Producer frames between debug writes
	LockHold       Duration `toml:"lock_hold"`    // Extra time the producer keeps the lock per write
	Duration       Duration `toml:"duration"`     // 0 runs until interrupted
}

func Default() *Config {
	l := dodesc.DefaultLayout()
	return &Config{
		Region: Region{
			Path:        "/dev/shm/dodesc",
			Slots:       l.Slots,
			RingSize:    l.RingSize,
			BufferCount: l.BufferCount,
			BufferSize:  l.BufferSize,
		},
		Log: Log{Level: "info"},
		Sim: Sim{
			DisplayObjects: 2,
			FrameRate:      60,
			StaticEvery:    120,
			DebugEvery:     1,
		},
	}
}

// Load reads the file at path over the defaults. Unknown keys are an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	c := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("config: %s", strict.String())
		}
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if err := c.Layout().Validate(); err != nil {
		return fmt.Errorf("%w: region: %w", ErrInvalid, err)
	}
	if c.Region.Path == "" {
		return fmt.Errorf("%w: region.path is empty", ErrInvalid)
	}
	if c.Sim.DisplayObjects < 1 || c.Sim.DisplayObjects > c.Region.Slots {
		return fmt.Errorf("%w: sim.display_objects must be within 1..%d", ErrInvalid, c.Region.Slots)
	}
	if c.Sim.FrameRate < 1 {
		return fmt.Errorf("%w: sim.frame_rate must be positive", ErrInvalid)
	}
	if c.Sim.StaticEvery < 1 || c.Sim.DebugEvery < 1 {
		return fmt.Errorf("%w: sim cadences must be positive", ErrInvalid)
	}
	if c.Sim.LockHold < 0 || c.Sim.Duration < 0 {
		return fmt.Errorf("%w: sim durations must not be negative", ErrInvalid)
	}
	return nil
}

// Layout returns the region layout the configuration describes.
func (c *Config) Layout() dodesc.Layout {
	return dodesc.Layout{
		Slots:       c.Region.Slots,
		RingSize:    c.Region.RingSize,
		BufferCount: c.Region.BufferCount,
		BufferSize:  c.Region.BufferSize,
	}
}

// FrameInterval is the time between two consumer polls.
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.Sim.FrameRate)
}

// Encode writes c as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}
