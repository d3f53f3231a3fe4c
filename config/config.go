// SPDX-License-Identifier: EPL-2.0

// Package config holds the box wiring and the asset bindings.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/ik5/soundbox/hw"
)

// Transport names.
const (
	TransportDMA   = "dma"
	TransportTimer = "timer"
)

// NoPin disables an optional output such as the amplifier enable.
const NoPin = -1

// Config is the box configuration.
type Config struct {
	SampleRate uint32 `json:"sample_rate"`

	FirstButtonPin uint8  `json:"first_button_pin"`
	Buttons        int    `json:"buttons"`
	Edge           string `json:"edge"`
	Pull           string `json:"pull"`

	AudioPin  uint8  `json:"audio_pin"`
	AmpPin    int    `json:"amp_pin"`
	Bits      uint8  `json:"bits"`
	Headroom  uint16 `json:"headroom"`
	IdleLevel uint16 `json:"idle_level"`
	Transport string `json:"transport"`

	// Gain is applied while converting assets.
	Gain float64 `json:"gain"`
	// Sounds maps a button index to an asset path.
	Sounds map[string]string `json:"sounds,omitempty"`
	// Loop lists buttons whose clips repeat until stopped.
	Loop []int `json:"loop,omitempty"`

	LogLevel string `json:"log_level,omitempty"`
}

// Default is the DMA board: 10-bit levels with headroom, buttons pulled up and active low,
// amplifier enable on pin 16.
func Default() Config {
	return Config{
		SampleRate:     22050,
		FirstButtonPin: 0,
		Buttons:        12,
		Edge:           "falling",
		Pull:           "up",
		AudioPin:       15,
		AmpPin:         16,
		Bits:           10,
		Headroom:       65,
		IdleLevel:      0,
		Transport:      TransportDMA,
		Gain:           2,
		LogLevel:       "info",
	}
}

// Simple is the timer board: 8-bit levels, buttons pulled down and active high, no
// amplifier enable, idle at midpoint.
func Simple() Config {
	c := Default()
	c.Edge = "rising"
	c.Pull = "down"
	c.AmpPin = NoPin
	c.Bits = 8
	c.Headroom = 0
	c.IdleLevel = 127
	c.Transport = TransportTimer

	return c
}

// Load overlays the JSON file at path on Default. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Save writes c to path as indented JSON.
func (c Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

func (c Config) Validate() error {
	if c.SampleRate == 0 {
		return ErrSampleRate
	}
	if c.Buttons <= 0 || int(c.FirstButtonPin)+c.Buttons > 256 {
		return fmt.Errorf("%w: %d buttons from pin %d", ErrButtons, c.Buttons, c.FirstButtonPin)
	}
	if _, err := c.ActivationEdge(); err != nil {
		return err
	}
	if _, err := c.PinPull(); err != nil {
		return err
	}
	if c.Transport != TransportDMA && c.Transport != TransportTimer {
		return fmt.Errorf("%w: %q", ErrTransport, c.Transport)
	}

	top, err := c.Resolution().Top()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrResolution, err)
	}
	if c.IdleLevel > top {
		return fmt.Errorf("%w: idle level %d above top %d", ErrResolution, c.IdleLevel, top)
	}

	if _, err := c.SoundMap(); err != nil {
		return err
	}
	for _, i := range c.Loop {
		if i < 0 || i >= c.Buttons {
			return fmt.Errorf("%w: loop button %d", ErrSound, i)
		}
	}
	if _, err := c.Level(); err != nil {
		return err
	}

	return nil
}

func (c Config) Resolution() hw.Resolution {
	return hw.Resolution{Bits: c.Bits, Headroom: c.Headroom}
}

// Top is the duty-cycle wrap value, 0 for an invalid resolution.
func (c Config) Top() uint16 {
	top, _ := c.Resolution().Top()
	return top
}

func (c Config) ActivationEdge() (hw.Edge, error) {
	switch strings.ToLower(c.Edge) {
	case "rising":
		return hw.EdgeRising, nil
	case "falling", "":
		return hw.EdgeFalling, nil
	case "both":
		return hw.EdgeRising | hw.EdgeFalling, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrEdge, c.Edge)
}

func (c Config) PinPull() (hw.Pull, error) {
	switch strings.ToLower(c.Pull) {
	case "up", "":
		return hw.PullUp, nil
	case "down":
		return hw.PullDown, nil
	case "none":
		return hw.PullNone, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrPull, c.Pull)
}

// SoundMap parses Sounds into button index order.
func (c Config) SoundMap() (map[int]string, error) {
	out := make(map[int]string, len(c.Sounds))
	for k, path := range c.Sounds {
		i, err := strconv.Atoi(k)
		if err != nil || i < 0 || i >= c.Buttons {
			return nil, fmt.Errorf("%w: button %q", ErrSound, k)
		}
		if path == "" {
			return nil, fmt.Errorf("%w: button %d has no path", ErrSound, i)
		}
		out[i] = path
	}

	return out, nil
}

// Looping reports whether button i is listed in Loop.
func (c Config) Looping(i int) bool {
	return slices.Contains(c.Loop, i)
}

// Level is the slog level named by LogLevel.
func (c Config) Level() (slog.Level, error) {
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrLogLevel, c.LogLevel)
	}

	return l, nil
}
