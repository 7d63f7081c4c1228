// vi:set ai sm nu ts=4 sw=4 fileencoding=utf-8:

////////////////////////////////////////////////////////////////////////////////////////
//                                                                                    //
//                                      Policy                                        //
//                                                                                    //
// Numeric safety limits enforced during evaluation. Defaults match §4.5 of the       //
// specification. Policy also knows how to load/save itself as YAML so a CLI caller   //
// can point --config at a file instead of accepting the built-in defaults.           //
//                                                                                    //
////////////////////////////////////////////////////////////////////////////////////////

package dice

import (
	"io"

	"gopkg.in/yaml.v3"
)

// Policy holds the configurable numeric limits a Context enforces while
// evaluating. Field names and defaults mirror §4.5 of the specification.
type Policy struct {
	MaxDiceCount      int64 `yaml:"max_dice_count"`
	MaxSides          int64 `yaml:"max_sides"`
	MaxExplosionDepth int64 `yaml:"max_explosion_depth"`
	AllowNegativeDice bool  `yaml:"allow_negative_dice"`
	StrictMode        bool  `yaml:"strict_mode"`
}

// DefaultPolicy returns the specification's default limits.
func DefaultPolicy() Policy {
	return Policy{
		MaxDiceCount:      1000,
		MaxSides:          1000000,
		MaxExplosionDepth: 10,
		AllowNegativeDice: false,
		StrictMode:        false,
	}
}

// LoadPolicyYAML reads a Policy from r, starting from DefaultPolicy so a
// config file only needs to mention the limits it wants to override.
func LoadPolicyYAML(r io.Reader) (Policy, error) {
	p := DefaultPolicy()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&p); err != nil && err != io.EOF {
		return Policy{}, err
	}
	return p, nil
}

// MarshalYAML renders p as YAML, e.g. to seed a starter config file.
func (p Policy) MarshalYAML() (any, error) {
	type plain Policy
	return plain(p), nil
}
