// vi:set ai sm nu ts=4 sw=4 fileencoding=utf-8:

////////////////////////////////////////////////////////////////////////////////////////
//
// Property-based checks for the universal invariants every evaluation must hold,
// regardless of which specific dice expression produced it: a basic NdS roll's sum
// always falls within [N, N*S], keeping the highest dice never selects more of them
// than were actually rolled, and a conditional select marks no more dice than were
// rolled and sums exactly the dice it marks.
//
////////////////////////////////////////////////////////////////////////////////////////

package dice

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

func TestBasicDiceSumStaysInRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 50).Draw(rt, "count")
		sides := rapid.IntRange(1, 100).Draw(rt, "sides")

		c := NewContext()
		v, err := c.RollExpression(fmt.Sprintf("%dd%d", count, sides))
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		if v < int64(count) || v > int64(count*sides) {
			rt.Fatalf("%dd%d = %d, want in [%d, %d]", count, sides, v, count, count*sides)
		}
	})
}

func TestKeepHighNeverExceedsRollCount(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 20).Draw(rt, "count")
		sides := rapid.IntRange(2, 20).Draw(rt, "sides")
		keep := rapid.IntRange(1, count+5).Draw(rt, "keep")

		c := NewContext()
		v, err := c.RollExpression(fmt.Sprintf("%dd%dkh%d", count, sides, keep))
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		selectedCount := keep
		if selectedCount > count {
			selectedCount = count
		}
		if v < int64(selectedCount) || v > int64(selectedCount*sides) {
			rt.Fatalf("%dd%dkh%d = %d, want in [%d, %d]", count, sides, keep, v,
				selectedCount, selectedCount*sides)
		}
	})
}

func TestTraceLengthMatchesDiceCountAbsentRerolls(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 30).Draw(rt, "count")
		sides := rapid.IntRange(1, 20).Draw(rt, "sides")

		c := NewContext()
		if _, err := c.RollExpression(fmt.Sprintf("%dd%d", count, sides)); err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		if c.Trace().Len() != count {
			rt.Fatalf("trace length = %d, want %d", c.Trace().Len(), count)
		}
	})
}

func TestConditionalSelectCountNeverExceedsDiceCount(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 30).Draw(rt, "count")
		sides := rapid.IntRange(2, 20).Draw(rt, "sides")

		c := NewContext()
		v, err := c.RollExpression(fmt.Sprintf("%dd%ds>=1", count, sides))
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		selected, sum := 0, int64(0)
		for _, e := range c.Trace().Entries() {
			if e.Selected {
				selected++
				sum += int64(e.Result)
			}
		}
		if selected > count {
			rt.Fatalf("selected dice = %d, want in [0, %d]", selected, count)
		}
		if v != sum {
			rt.Fatalf("%dd%ds>=1 = %d, want %d (sum of selected dice)", count, sides, v, sum)
		}
	})
}
