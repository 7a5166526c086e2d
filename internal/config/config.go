// Package config loads the engine configuration: stability delays, the
// event logic poll period, creation defaults and the callback panic policy.
// Values come from defaults, then an optional YAML file, then WINHOST_*
// environment overrides.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/winhost/internal/geom"
	"github.com/1broseidon/winhost/internal/host"
)

// Bounds is a rectangle in OS pixels as it appears in the config file.
type Bounds struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Rect converts to the engine rectangle type.
func (b Bounds) Rect() geom.Rect {
	return geom.Rect{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
}

// Config is the full configuration surface. All delays and periods are in
// seconds; zero delays make every notification confirm at the next drain,
// which is what deterministic tests want.
type Config struct {
	StateStabilityDelay  float64 `yaml:"state_stability_delay" envconfig:"STATE_STABILITY_DELAY"`
	HiddenStabilityDelay float64 `yaml:"hidden_stability_delay" envconfig:"HIDDEN_STABILITY_DELAY"`
	AntiFlickerDelay     float64 `yaml:"anti_flicker_delay" envconfig:"ANTI_FLICKER_DELAY"`
	EventPollPeriod      float64 `yaml:"event_poll_period" envconfig:"EVENT_POLL_PERIOD"`

	// DefaultBoundsTarget selects whether DefaultBounds applies to the
	// client area or the window frame: "client" (default) or "window".
	DefaultBoundsTarget string `yaml:"default_bounds_target" envconfig:"DEFAULT_BOUNDS_TARGET"`
	DefaultBounds       Bounds `yaml:"default_bounds"`

	// CallbackPanicPolicy is "forward" (default) or "repanic".
	CallbackPanicPolicy string `yaml:"callback_panic_policy" envconfig:"CALLBACK_PANIC_POLICY"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		StateStabilityDelay:  0.5,
		HiddenStabilityDelay: 1.5,
		AntiFlickerDelay:     0.2,
		EventPollPeriod:      0.1,
		DefaultBoundsTarget:  "client",
		CallbackPanicPolicy:  "forward",
	}
}

// Validate rejects values the engine cannot run with.
func (c Config) Validate() error {
	if c.StateStabilityDelay < 0 {
		return fmt.Errorf("state_stability_delay must not be negative, got %v", c.StateStabilityDelay)
	}
	if c.HiddenStabilityDelay < 0 {
		return fmt.Errorf("hidden_stability_delay must not be negative, got %v", c.HiddenStabilityDelay)
	}
	if c.AntiFlickerDelay < 0 {
		return fmt.Errorf("anti_flicker_delay must not be negative, got %v", c.AntiFlickerDelay)
	}
	if c.EventPollPeriod <= 0 {
		return fmt.Errorf("event_poll_period must be positive, got %v", c.EventPollPeriod)
	}
	switch c.DefaultBoundsTarget {
	case "client", "window":
	default:
		return fmt.Errorf("default_bounds_target must be %q or %q, got %q", "client", "window", c.DefaultBoundsTarget)
	}
	switch c.CallbackPanicPolicy {
	case "forward", "repanic":
	default:
		return fmt.Errorf("callback_panic_policy must be %q or %q, got %q", "forward", "repanic", c.CallbackPanicPolicy)
	}
	return nil
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

// HostOptions translates the config into registry options.
func (c Config) HostOptions(logger *slog.Logger) host.Options {
	target := host.BoundsClient
	if c.DefaultBoundsTarget == "window" {
		target = host.BoundsWindow
	}
	policy := host.PanicForward
	if c.CallbackPanicPolicy == "repanic" {
		policy = host.PanicRepanic
	}

	return host.Options{
		StateStability:  seconds(c.StateStabilityDelay),
		HiddenStability: seconds(c.HiddenStabilityDelay),
		AntiFlicker:     seconds(c.AntiFlickerDelay),
		PollPeriod:      seconds(c.EventPollPeriod),
		DefaultBounds:   c.DefaultBounds.Rect(),
		BoundsTarget:    target,
		PanicPolicy:     policy,
		Logger:          logger,
	}
}
