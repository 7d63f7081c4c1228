// vi:set ai sm nu ts=4 sw=4 fileencoding=utf-8:

////////////////////////////////////////////////////////////////////////////////////////
//                                                                                    //
//                                    Evaluator                                       //
//                                                                                    //
// Post-order walk of the arena-backed AST, driving an RNG and appending every        //
// atomic roll to a Trace as it goes. One evaluator instance is scoped to a single    //
// Context.evaluate call: it carries no state an evaluation doesn't need again.       //
//                                                                                    //
////////////////////////////////////////////////////////////////////////////////////////

package dice

import "golang.org/x/exp/slices"

// maxRerollAttempts bounds the reroll suffix's retry loop so a selection like
// "r>=1" on a d6 (which could never stop on its own) fails fast instead of
// spinning forever.
const maxRerollAttempts = 100

type evaluator struct {
	a      *arena
	rng    RNG
	trace  *Trace
	policy Policy
	reg    *registry
}

func newEvaluator(a *arena, rng RNG, trace *Trace, policy Policy, reg *registry) *evaluator {
	return &evaluator{a: a, rng: rng, trace: trace, policy: policy, reg: reg}
}

func (e *evaluator) eval(h NodeHandle) (int64, *EvalError) {
	n := e.a.get(h)
	if n == nil {
		return 0, newError(KindNotSupported, "evaluate: invalid node handle")
	}
	switch node := n.(type) {
	case *LiteralNode:
		return node.Value, nil
	case *BinaryOpNode:
		return e.evalBinaryOp(node)
	case *DiceOpNode:
		return e.evalDiceOp(node)
	case *FunctionCallNode:
		return 0, newError(KindNotSupported, "function %q is not supported", node.Name)
	case *AnnotationNode:
		return e.eval(node.Child)
	default:
		return 0, newError(KindNotSupported, "evaluate: unrecognized node type")
	}
}

func (e *evaluator) evalBinaryOp(node *BinaryOpNode) (int64, *EvalError) {
	left, err := e.eval(node.Left)
	if err != nil {
		return 0, err
	}
	right, err := e.eval(node.Right)
	if err != nil {
		return 0, err
	}
	switch node.Op {
	case OpAdd:
		return int64(uint64(left) + uint64(right)), nil
	case OpSub:
		return int64(uint64(left) - uint64(right)), nil
	case OpMul:
		return int64(uint64(left) * uint64(right)), nil
	case OpDiv:
		if right == 0 {
			return 0, newError(KindDivisionByZero, "division by zero")
		}
		return left / right, nil
	default:
		return 0, newError(KindNotSupported, "unknown binary operator")
	}
}

func (e *evaluator) evalDiceOp(node *DiceOpNode) (int64, *EvalError) {
	count, err := e.eval(node.Count)
	if err != nil {
		return 0, err
	}
	if count < 0 && !e.policy.AllowNegativeDice {
		return 0, newError(KindInvalidDiceCount, "negative dice count %d is not permitted", count)
	}
	if count == 0 {
		return 0, newError(KindInvalidDiceCount, "dice count must be positive, got 0")
	}
	absCount := count
	if absCount < 0 {
		absCount = -absCount
	}
	if absCount > e.policy.MaxDiceCount {
		return 0, newError(KindPolicyDiceCount,
			"dice count %d exceeds the policy maximum of %d", absCount, e.policy.MaxDiceCount)
	}

	switch node.Kind {
	case DiceBasic:
		return e.evalBasicOrFilter(node, count, nil)
	case DiceCustom:
		cd, err := e.resolveCustomDie(node)
		if err != nil {
			return 0, err
		}
		return e.evalBasicOrFilter(node, count, cd)
	case DiceFilter:
		if node.CustomDie != nil || node.CustomName != "" {
			cd, err := e.resolveCustomDie(node)
			if err != nil {
				return 0, err
			}
			return e.evalBasicOrFilter(node, count, cd)
		}
		return e.evalBasicOrFilter(node, count, nil)
	default:
		return 0, newError(KindNotSupported, "dice kind %d is not supported", node.Kind)
	}
}

func (e *evaluator) resolveCustomDie(node *DiceOpNode) (*CustomDie, *EvalError) {
	if node.CustomDie != nil {
		return node.CustomDie, nil
	}
	return e.reg.lookup(node.CustomName)
}

// evalBasicOrFilter rolls count dice (either a basic N-sided die or a custom
// face set), records each into the trace, applies node.Selection if present,
// and returns the sum of whichever rolls end up selected.
func (e *evaluator) evalBasicOrFilter(node *DiceOpNode, count int64, cd *CustomDie) (int64, *EvalError) {
	var sides int32
	if cd == nil {
		sidesVal, err := e.eval(node.Sides)
		if err != nil {
			return 0, err
		}
		if sidesVal <= 0 {
			return 0, newError(KindInvalidDiceSides, "dice sides must be positive, got %d", sidesVal)
		}
		if sidesVal > e.policy.MaxSides {
			return 0, newError(KindPolicySides,
				"dice sides %d exceeds the policy maximum of %d", sidesVal, e.policy.MaxSides)
		}
		sides = int32(sidesVal)
	} else if cd.SideCount == 0 {
		return 0, newError(KindEmptyCustomDie, "custom die %q has no sides", cd.Name)
	}

	rolls := make([]int64, count)
	traceIdx := make([]int, count)
	for i := int64(0); i < count; i++ {
		v, traceSides, err := e.rollOne(sides, cd)
		if err != nil {
			return 0, err
		}
		rolls[i] = v
		traceIdx[i] = e.trace.Len()
		e.trace.append(traceSides, int32(v), true)
	}

	if node.Selection != nil {
		if node.Selection.IsReroll {
			if err := e.applyReroll(node.Selection, rolls, traceIdx, sides, cd); err != nil {
				return 0, err
			}
		} else if node.Selection.IsConditional {
			e.applyConditionalSelect(node.Selection, rolls, traceIdx)
		} else {
			e.applyCountSelect(node.Selection, rolls, traceIdx)
		}
	}

	var sum int64
	for i, v := range rolls {
		if e.trace.entries[traceIdx[i]].Selected {
			sum += v
		}
	}
	return sum, nil
}

// rollOne draws a single die, returning its value and the "sides" figure to
// record in the trace (a custom die's declared side count stands in for the
// usual numeric sides column). Custom-die faces are selected by index via
// rng.Rand, falling back to a modulo reduction if the source ever returns a
// value outside [0, side_count) — Rand's own contract rules that out, but
// the reduction costs nothing and guards against a misbehaving custom RNG.
func (e *evaluator) rollOne(sides int32, cd *CustomDie) (int64, int32, *EvalError) {
	if cd != nil {
		idx := int(e.rng.Rand(uint64(cd.SideCount)))
		if idx < 0 || idx >= cd.SideCount {
			idx = ((idx % cd.SideCount) + cd.SideCount) % cd.SideCount
		}
		return cd.Sides[idx].Value, int32(cd.SideCount), nil
	}
	v := e.rng.Roll(sides)
	if v < 0 {
		return 0, 0, newError(KindRngFailure, "rng failed to roll a d%d", sides)
	}
	return int64(v), sides, nil
}

// applyCountSelect implements the keep/drop-by-count suffixes. Clamping (not
// an error) is the resolved behavior when the requested count exceeds how
// many dice were actually rolled.
func (e *evaluator) applyCountSelect(sel *Selection, rolls []int64, traceIdx []int) {
	order := make([]int, len(rolls))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) bool {
		if sel.SelectHigh {
			return rolls[a] > rolls[b]
		}
		return rolls[a] < rolls[b]
	})

	selectCount := sel.Count
	if sel.IsDropOperation {
		selectCount = int64(len(rolls)) - selectCount
	}
	if selectCount < 0 {
		selectCount = 0
	}
	if selectCount > int64(len(rolls)) {
		selectCount = int64(len(rolls))
	}

	for i := range rolls {
		e.trace.entries[traceIdx[i]].Selected = false
	}
	for i := int64(0); i < selectCount; i++ {
		e.trace.entries[traceIdx[order[i]]].Selected = true
	}
}

func (e *evaluator) applyConditionalSelect(sel *Selection, rolls []int64, traceIdx []int) {
	for i, v := range rolls {
		ok, _ := sel.ComparisonOp.matches(v, sel.ComparisonValue)
		e.trace.entries[traceIdx[i]].Selected = ok
	}
}

// applyReroll replaces any die matching the selection's comparison with a
// freshly rolled replacement, up to maxRerollAttempts times per die. Rerolled
// intermediates stay in the trace (marked unselected) ahead of the die's
// final value, preserving the full audit history of the roll.
func (e *evaluator) applyReroll(sel *Selection, rolls []int64, traceIdx []int, sides int32, cd *CustomDie) *EvalError {
	for i := range rolls {
		attempts := 0
		for {
			match, _ := sel.ComparisonOp.matches(rolls[i], sel.ComparisonValue)
			if !match {
				break
			}
			attempts++
			if attempts > maxRerollAttempts {
				return newError(KindRerollLimitExceeded,
					"reroll %s exceeded %d attempts on a single die", sel.OriginalSyntax, maxRerollAttempts)
			}
			e.trace.entries[traceIdx[i]].Selected = false
			v, traceSides, err := e.rollOne(sides, cd)
			if err != nil {
				return err
			}
			rolls[i] = v
			traceIdx[i] = e.trace.Len()
			e.trace.append(traceSides, int32(v), true)
		}
	}
	return nil
}
