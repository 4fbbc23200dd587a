// Package presets holds the named board configurations players pick from.
package presets

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/beka-birhanu/vinom-sweeper/game/topology"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownPreset = errors.New("unknown preset")
	ErrInvalidPreset = errors.New("preset needs exactly one of mines and mine_prob")
)

//go:embed presets.yaml
var builtin []byte

// Preset names a topology and how to mine it.
type Preset struct {
	Name     string        `yaml:"name" json:"name"`
	Topology topology.Spec `yaml:"topology" json:"topology"`
	Mines    int           `yaml:"mines,omitempty" json:"mines,omitempty"`
	MineProb float64       `yaml:"mine_prob,omitempty" json:"mine_prob,omitempty"`
}

// Validate checks the mining parameters.
func (p Preset) Validate() error {
	if (p.Mines > 0) == (p.MineProb > 0) {
		return fmt.Errorf("%w: %s", ErrInvalidPreset, p.Name)
	}
	if p.MineProb < 0 || p.MineProb > 1 || p.Mines < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidPreset, p.Name)
	}
	return nil
}

// Catalog is an ordered, name indexed list of presets.
type Catalog struct {
	presets []Preset
	byName  map[string]int
}

// Parse reads a YAML list of presets.
func Parse(data []byte) (*Catalog, error) {
	var list []Preset
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parsing presets: %w", err)
	}

	c := &Catalog{byName: make(map[string]int, len(list))}
	for _, p := range list {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byName[p.Name]; dup {
			return nil, fmt.Errorf("duplicate preset %q", p.Name)
		}
		c.byName[p.Name] = len(c.presets)
		c.presets = append(c.presets, p)
	}
	return c, nil
}

// Builtin returns the presets shipped with the server.
func Builtin() *Catalog {
	c, err := Parse(builtin)
	if err != nil {
		panic(err)
	}
	return c
}

// Get looks a preset up by name.
func (c *Catalog) Get(name string) (Preset, error) {
	i, ok := c.byName[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return c.presets[i], nil
}

// All returns the presets in file order.
func (c *Catalog) All() []Preset {
	return append([]Preset(nil), c.presets...)
}
