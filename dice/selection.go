// vi:set ai sm nu ts=4 sw=4 fileencoding=utf-8:

////////////////////////////////////////////////////////////////////////////////////////
//                                                                                    //
//                               Selection Descriptor                                 //
//                                                                                    //
// Describes the filter/reroll suffix attached to a DiceFilter node. Exactly one of   //
// {count-based, conditional, reroll} is active for any given Selection, per §3 of    //
// the specification.                                                                 //
//                                                                                    //
////////////////////////////////////////////////////////////////////////////////////////

package dice

// CompareOp is one of the six comparison operators the grammar accepts after
// 's' (conditional select) or 'r' (reroll).
type CompareOp int

const (
	CmpGT CompareOp = iota
	CmpLT
	CmpGTE
	CmpLTE
	CmpEQ
	CmpNEQ
)

func (c CompareOp) String() string {
	switch c {
	case CmpGT:
		return ">"
	case CmpLT:
		return "<"
	case CmpGTE:
		return ">="
	case CmpLTE:
		return "<="
	case CmpEQ:
		return "="
	case CmpNEQ:
		return "<>"
	}
	return "?"
}

// matches reports whether value satisfies "value <op> target".
func (c CompareOp) matches(value, target int64) (bool, *EvalError) {
	switch c {
	case CmpGT:
		return value > target, nil
	case CmpLT:
		return value < target, nil
	case CmpGTE:
		return value >= target, nil
	case CmpLTE:
		return value <= target, nil
	case CmpEQ:
		return value == target, nil
	case CmpNEQ:
		return value != target, nil
	}
	return false, newError(KindInvalidComparison, "unknown comparison operator %v", int(c))
}

// Selection is the filter descriptor attached to a DiceFilter DiceOpNode.
// Field semantics mirror §3 of the specification exactly.
type Selection struct {
	Count             int64
	SelectHigh        bool
	IsDropOperation   bool
	IsConditional     bool
	IsReroll          bool
	ComparisonOp      CompareOp
	ComparisonValue   int64
	OriginalSyntax    string
}

// isCountBased reports whether this selection is a keep/drop-by-count filter,
// i.e. neither conditional nor reroll.
func (s *Selection) isCountBased() bool {
	return !s.IsConditional && !s.IsReroll
}
