// vi:set ai sm nu ts=4 sw=4 fileencoding=utf-8:

package dice

import (
	"bytes"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDefaultPolicyValues(t *testing.T) {
	p := DefaultPolicy()
	if p.MaxDiceCount != 1000 || p.MaxSides != 1000000 || p.MaxExplosionDepth != 10 {
		t.Errorf("DefaultPolicy() = %#v", p)
	}
	if p.AllowNegativeDice || p.StrictMode {
		t.Errorf("DefaultPolicy() should leave both boolean flags off, got %#v", p)
	}
}

func TestLoadPolicyYAMLOverridesOnlyGivenFields(t *testing.T) {
	r := strings.NewReader("max_dice_count: 10\n")
	p, err := LoadPolicyYAML(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.MaxDiceCount != 10 {
		t.Errorf("MaxDiceCount = %d, want 10", p.MaxDiceCount)
	}
	if p.MaxSides != DefaultPolicy().MaxSides {
		t.Errorf("MaxSides = %d, want the default %d", p.MaxSides, DefaultPolicy().MaxSides)
	}
}

func TestPolicyMarshalYAMLRoundTrips(t *testing.T) {
	p := DefaultPolicy()
	p.StrictMode = true

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if err := enc.Encode(p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := LoadPolicyYAML(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != p {
		t.Errorf("round-tripped policy = %#v, want %#v", got, p)
	}
}
