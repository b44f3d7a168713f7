package app

import (
	"flag"
	"fmt"
	"strings"

	"chooch-fx/internal/core"
	"chooch-fx/internal/field"
	"chooch-fx/internal/session"
)

// kvList collects repeatable key=value flags.
type kvList []string

func (l *kvList) String() string {
	return strings.Join(*l, ",")
}

func (l *kvList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

// Config represents the command-line parameters shared by the fx tools.
type Config struct {
	Effects string
	Width   int
	Height  int
	TPS     int
	Seed    int64
	// Presets is an optional YAML file layered over the built-in presets.
	Presets string
	Set     kvList
	// Store selects the session flag backend: memory or gdata.
	Store   string
	Session string
	AppName string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Effects: "ambient,smoke-reveal,cursor-trail",
		Width:   800,
		Height:  600,
		TPS:     60,
		Store:   "memory",
		AppName: "chooch_fx",
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Effects, "effects", c.Effects, "comma separated effects to launch")
	fs.IntVar(&c.Width, "width", c.Width, "viewport width in pixels")
	fs.IntVar(&c.Height, "height", c.Height, "viewport height in pixels")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed (0 picks one from the clock)")
	fs.StringVar(&c.Presets, "config", c.Presets, "YAML file with preset overrides")
	fs.Var(&c.Set, "set", "preset parameter override in key=value form (repeatable)")
	fs.StringVar(&c.Store, "store", c.Store, "session flag store: memory or gdata")
	fs.StringVar(&c.Session, "session", c.Session, "session token for the gdata store")
}

// EffectNames splits the effects flag.
func (c *Config) EffectNames() []string {
	var names []string
	for _, name := range strings.Split(c.Effects, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Overrides parses the -set flags. Malformed entries are skipped.
func (c *Config) Overrides() map[string]string {
	out := map[string]string{}
	for _, kv := range c.Set {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			continue
		}
		out[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return out
}

// Size returns the configured viewport.
func (c *Config) Size() core.Size {
	return core.Size{W: c.Width, H: c.Height}
}

// RNG returns a seeded source, or an unseeded one when Seed is 0.
func (c *Config) RNG() *core.RNG {
	if c.Seed == 0 {
		return core.NewUnseeded()
	}
	return core.NewRNG(c.Seed)
}

// LoadPresets registers the YAML overrides, if any, and checks the requested effects
// exist.
func (c *Config) LoadPresets() error {
	if c.Presets != "" {
		if err := field.LoadPresets(c.Presets); err != nil {
			return err
		}
	}
	for _, name := range c.EffectNames() {
		if _, ok := field.Lookup(name); !ok {
			return fmt.Errorf("unknown effect %q (have %s)", name, strings.Join(field.Names(), ", "))
		}
	}
	return nil
}

// OpenStore builds the session flag store.
func (c *Config) OpenStore() (session.Store, error) {
	switch c.Store {
	case "", "memory":
		return session.NewMemory(), nil
	case "gdata":
		return session.OpenGdata(c.AppName, c.Session)
	default:
		return nil, fmt.Errorf("unknown store %q", c.Store)
	}
}
