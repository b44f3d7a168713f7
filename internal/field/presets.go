package field

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var defaultPresets []byte

type presetFile struct {
	Presets map[string]yaml.Node `yaml:"presets"`
}

var presets = map[string]Preset{}

// Register adds or replaces a preset under its name.
func Register(p Preset) {
	if p.Name == "" {
		return
	}
	presets[p.Name] = p
}

// Lookup returns a copy of the named preset.
func Lookup(name string) (Preset, bool) {
	p, ok := presets[name]
	return p, ok
}

// Names lists the registered presets in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParsePresets decodes a presets document on top of the registered presets. Keys
// omitted for an existing preset keep their current values; unknown names create new
// presets. Nothing is registered unless every preset in the document validates.
func ParsePresets(data []byte) ([]Preset, error) {
	var doc presetFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse presets YAML: %w", err)
	}
	names := make([]string, 0, len(doc.Presets))
	for name := range doc.Presets {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Preset, 0, len(names))
	for _, name := range names {
		node := doc.Presets[name]
		p, _ := Lookup(name)
		if err := node.Decode(&p); err != nil {
			return nil, fmt.Errorf("failed to decode preset %q: %w", name, err)
		}
		p.Name = name
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("invalid presets config: %w", err)
		}
		out = append(out, p)
	}
	return out, nil
}

// LoadPresets reads a YAML file and registers its presets.
func LoadPresets(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read presets file: %w", err)
	}
	parsed, err := ParsePresets(data)
	if err != nil {
		return err
	}
	for _, p := range parsed {
		Register(p)
	}
	return nil
}

// FromMap applies flag-style key=value overrides to a preset. Unknown keys and
// unparsable values are ignored.
func FromMap(p Preset, cfg map[string]string) Preset {
	for key, raw := range cfg {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		p.Set(key, v)
	}
	return p
}

func init() {
	parsed, err := ParsePresets(defaultPresets)
	if err != nil {
		panic(err)
	}
	for _, p := range parsed {
		Register(p)
	}
}
