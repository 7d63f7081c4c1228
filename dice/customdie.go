// vi:set ai sm nu ts=4 sw=4 fileencoding=utf-8:

////////////////////////////////////////////////////////////////////////////////////////
//                                                                                    //
//                                   Custom Dice                                      //
//                                                                                    //
// A custom die is a face set {value[, label]} that replaces the usual 1..N range of  //
// a basic die. Inline literals ("1d{-1,0,1}") and named/registered dice share this    //
// one representation, per §3 of the specification.                                  //
//                                                                                    //
////////////////////////////////////////////////////////////////////////////////////////

package dice

// CustomSide is a single face of a CustomDie.
type CustomSide struct {
	Value int64
	Label string
}

// CustomDie is an explicit face set, optionally named for registry lookup.
type CustomDie struct {
	Name      string
	Sides     []CustomSide
	SideCount int
}

// NewCustomDie builds a CustomDie from a copy of sides, taking each Value as
// given. The "implicit value = side index" rule for label-only faces is
// applied earlier, by the parser's parseCustomSide.
func NewCustomDie(name string, sides []CustomSide) *CustomDie {
	cd := &CustomDie{Name: name, Sides: make([]CustomSide, len(sides)), SideCount: len(sides)}
	copy(cd.Sides, sides)
	return cd
}

func (cd *CustomDie) minMax() (min, max int64) {
	if cd.SideCount == 0 {
		return 0, 0
	}
	min, max = cd.Sides[0].Value, cd.Sides[0].Value
	for _, s := range cd.Sides[1:] {
		if s.Value < min {
			min = s.Value
		}
		if s.Value > max {
			max = s.Value
		}
	}
	return
}
