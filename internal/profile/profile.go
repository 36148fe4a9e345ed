package profile

import (
	"fmt"
	"os"

	"github.com/AnyUserName/icns2ico/internal/encoder"
	"github.com/AnyUserName/icns2ico/internal/raster"
	"gopkg.in/yaml.v3"
)

// Profile defines the size ladder and rendering parameters of a conversion.
type Profile struct {
	Name        string `yaml:"name"`
	Sizes       []int  `yaml:"sizes"`        // canvas edges, rendered in this order
	Filter      string `yaml:"filter"`       // resampler name, see raster.Filters
	Compression string `yaml:"compression"`  // png level: default, best, fast, none
	KeepPadding bool   `yaml:"keep_padding"` // skip transparent-border cropping
}

// Built-in profiles.
var profiles = map[string]Profile{
	"default": {
		Name:   "default",
		Sizes:  raster.DefaultSizes,
		Filter: raster.DefaultFilter,
	},
	"windows": {
		Name:   "windows",
		Sizes:  []int{256, 128, 64, 48, 32, 24, 16},
		Filter: raster.DefaultFilter,
	},
	"favicon": {
		Name:        "favicon",
		Sizes:       []int{48, 32, 16},
		Filter:      "catmullrom",
		Compression: "best",
	},
}

// Get returns a profile by name. Falls back to default if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		p.Sizes = append([]int(nil), p.Sizes...)
		return p
	}
	p := profiles["default"]
	p.Sizes = append([]int(nil), p.Sizes...)
	p.Name = name // preserve requested name
	return p
}

// Load reads a YAML profile file. Fields left out of the file keep the
// values of the default profile.
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}
	p := Get("default")
	p.Name = path
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse profile %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// Validate rejects ladders and settings the renderer cannot honour.
func (p Profile) Validate() error {
	if len(p.Sizes) == 0 {
		return fmt.Errorf("no sizes")
	}
	seen := map[int]bool{}
	for _, s := range p.Sizes {
		if s < 1 || s > raster.MaxSize {
			return fmt.Errorf("size %d outside 1..%d", s, raster.MaxSize)
		}
		if seen[s] {
			return fmt.Errorf("duplicate size %d", s)
		}
		seen[s] = true
	}
	if _, err := raster.Filter(p.Filter); err != nil {
		return err
	}
	if _, err := encoder.ParseLevel(p.Compression); err != nil {
		return err
	}
	return nil
}
