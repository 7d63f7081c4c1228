// vi:set ai sm nu ts=4 sw=4 fileencoding=utf-8:

package dice

import "testing"

func parseExpr(t *testing.T, src string, strict bool) (NodeHandle, *arena) {
	t.Helper()
	a := newArena(256)
	p := newParser(src, a, strict)
	root, err := p.parse()
	if err != nil {
		t.Fatalf("parse(%q) unexpected error: %v", src, err)
	}
	return root, a
}

func TestParseLiteral(t *testing.T) {
	root, a := parseExpr(t, "42", false)
	lit, ok := a.get(root).(*LiteralNode)
	if !ok {
		t.Fatalf("root is %T, want *LiteralNode", a.get(root))
	}
	if lit.Value != 42 {
		t.Errorf("lit.Value = %d, want 42", lit.Value)
	}
}

func TestParseArithmeticPrecedence(t *testing.T) {
	// "2 + 3 * 4" should parse as 2 + (3 * 4): the root is a '+' whose
	// right child is a '*'.
	root, a := parseExpr(t, "2 + 3 * 4", false)
	top, ok := a.get(root).(*BinaryOpNode)
	if !ok || top.Op != OpAdd {
		t.Fatalf("root = %#v, want a top-level OpAdd", a.get(root))
	}
	right, ok := a.get(top.Right).(*BinaryOpNode)
	if !ok || right.Op != OpMul {
		t.Fatalf("top.Right = %#v, want an OpMul", a.get(top.Right))
	}
}

func TestParseUnaryMinus(t *testing.T) {
	root, a := parseExpr(t, "-5", false)
	top, ok := a.get(root).(*BinaryOpNode)
	if !ok || top.Op != OpSub {
		t.Fatalf("root = %#v, want an OpSub (0 - 5)", a.get(root))
	}
	zero, ok := a.get(top.Left).(*LiteralNode)
	if !ok || zero.Value != 0 {
		t.Fatalf("top.Left = %#v, want LiteralNode{0}", a.get(top.Left))
	}
}

func TestParseParenthesizedExpression(t *testing.T) {
	root, a := parseExpr(t, "(1 + 2) * 3", false)
	top, ok := a.get(root).(*BinaryOpNode)
	if !ok || top.Op != OpMul {
		t.Fatalf("root = %#v, want a top-level OpMul", a.get(root))
	}
	if _, ok := a.get(top.Left).(*BinaryOpNode); !ok {
		t.Errorf("top.Left = %#v, want a BinaryOpNode", a.get(top.Left))
	}
}

func TestParseBasicDiceImplicitCount(t *testing.T) {
	root, a := parseExpr(t, "d6", false)
	dop, ok := a.get(root).(*DiceOpNode)
	if !ok || dop.Kind != DiceBasic {
		t.Fatalf("root = %#v, want a DiceBasic DiceOpNode", a.get(root))
	}
	count := a.get(dop.Count).(*LiteralNode)
	if count.Value != 1 {
		t.Errorf("implicit count = %d, want 1", count.Value)
	}
}

func TestParseStrictModeRejectsImplicitCount(t *testing.T) {
	a := newArena(64)
	p := newParser("d6", a, true)
	_, err := p.parse()
	if err == nil {
		t.Fatal("expected strict mode to reject an implicit dice count")
	}
}

func TestParseStrictModeRejectsInternalWhitespace(t *testing.T) {
	a := newArena(64)
	p := newParser("3 d 6", a, true)
	_, err := p.parse()
	if err == nil {
		t.Fatal("expected strict mode to reject whitespace inside a dice body")
	}
}

func TestParseKeepHighShorthands(t *testing.T) {
	for _, suffix := range []string{"kh3", "k3", "h3"} {
		root, a := parseExpr(t, "4d6"+suffix, false)
		dop := a.get(root).(*DiceOpNode)
		sel := dop.Selection
		if sel == nil {
			t.Fatalf("%q: expected a Selection", suffix)
		}
		if !sel.SelectHigh || sel.IsDropOperation || sel.Count != 3 {
			t.Errorf("%q: got Selection{SelectHigh:%v, IsDropOperation:%v, Count:%d}, want {true,false,3}",
				suffix, sel.SelectHigh, sel.IsDropOperation, sel.Count)
		}
	}
}

func TestParseKeepLowShorthands(t *testing.T) {
	for _, suffix := range []string{"kl2", "l2"} {
		root, a := parseExpr(t, "4d6"+suffix, false)
		dop := a.get(root).(*DiceOpNode)
		sel := dop.Selection
		if sel.SelectHigh || sel.IsDropOperation || sel.Count != 2 {
			t.Errorf("%q: got %#v, want {SelectHigh:false, IsDropOperation:false, Count:2}", suffix, sel)
		}
	}
}

// TestParseDropEquivalence checks the drop suffixes: dl1 and bare d1 (d ≡ dl)
// both parse as a drop of one die keeping the high remainder, and dh1 as a
// drop of one die keeping the low remainder.
func TestParseDropEquivalence(t *testing.T) {
	rootDrop, a1 := parseExpr(t, "4d6dl1", false)
	selDrop := a1.get(rootDrop).(*DiceOpNode).Selection
	if !selDrop.SelectHigh || !selDrop.IsDropOperation || selDrop.Count != 1 {
		t.Fatalf("dl1 selection = %#v", selDrop)
	}

	rootDropH, a2 := parseExpr(t, "4d6dh1", false)
	selDropH := a2.get(rootDropH).(*DiceOpNode).Selection
	if selDropH.SelectHigh || !selDropH.IsDropOperation || selDropH.Count != 1 {
		t.Fatalf("dh1 selection = %#v", selDropH)
	}

	rootBareD, a3 := parseExpr(t, "4d6d1", false)
	selBareD := a3.get(rootBareD).(*DiceOpNode).Selection
	if !selBareD.SelectHigh || !selBareD.IsDropOperation || selBareD.Count != 1 {
		t.Fatalf("bare d1 (d ≡ dl) selection = %#v, want same as dl1", selBareD)
	}
}

func TestParseConditionalSelect(t *testing.T) {
	root, a := parseExpr(t, "6d6s>=4", false)
	dop := a.get(root).(*DiceOpNode)
	sel := dop.Selection
	if !sel.IsConditional || sel.ComparisonOp != CmpGTE || sel.ComparisonValue != 4 {
		t.Errorf("selection = %#v, want {IsConditional:true, CmpGTE, 4}", sel)
	}
}

func TestParseConditionalSelectDefaults(t *testing.T) {
	// "s" with no operator and no value defaults to "= 1".
	root, a := parseExpr(t, "3d6s", false)
	dop := a.get(root).(*DiceOpNode)
	sel := dop.Selection
	if sel.ComparisonOp != CmpEQ || sel.ComparisonValue != 1 {
		t.Errorf("default selection = %#v, want {CmpEQ, 1}", sel)
	}
}

func TestParseRerollMissingOperatorValue(t *testing.T) {
	a := newArena(64)
	p := newParser("3d6r>=", a, false)
	_, err := p.parse()
	if err == nil {
		t.Fatal("expected a missing-operator-value error")
	}
	if err.Kind != KindParseMissingOperator {
		t.Errorf("err.Kind = %v, want KindParseMissingOperator", err.Kind)
	}
}

func TestParseReroll(t *testing.T) {
	root, a := parseExpr(t, "3d6r<3", false)
	dop := a.get(root).(*DiceOpNode)
	sel := dop.Selection
	if !sel.IsReroll || sel.ComparisonOp != CmpLT || sel.ComparisonValue != 3 {
		t.Errorf("selection = %#v, want {IsReroll:true, CmpLT, 3}", sel)
	}
}

func TestParseInlineCustomDie(t *testing.T) {
	root, a := parseExpr(t, "1d{-1,0,1}", false)
	dop := a.get(root).(*DiceOpNode)
	if dop.Kind != DiceCustom || dop.CustomDie == nil {
		t.Fatalf("root = %#v, want DiceCustom with an inline CustomDie", dop)
	}
	if dop.CustomDie.SideCount != 3 {
		t.Errorf("SideCount = %d, want 3", dop.CustomDie.SideCount)
	}
	want := []int64{-1, 0, 1}
	for i, s := range dop.CustomDie.Sides {
		if s.Value != want[i] {
			t.Errorf("side %d = %d, want %d", i, s.Value, want[i])
		}
	}
}

func TestParseNamedCustomDie(t *testing.T) {
	root, a := parseExpr(t, "1dF", false)
	dop := a.get(root).(*DiceOpNode)
	if dop.Kind != DiceCustom || dop.CustomName != "F" {
		t.Fatalf("root = %#v, want DiceCustom named F", dop)
	}
}

func TestParseUnexpectedTrailingInput(t *testing.T) {
	a := newArena(64)
	p := newParser("1d6 foo", a, false)
	_, err := p.parse()
	if err == nil {
		t.Fatal("expected a trailing-input error")
	}
	if err.Kind != KindParseUnexpectedTrailing {
		t.Errorf("err.Kind = %v, want KindParseUnexpectedTrailing", err.Kind)
	}
}

func TestParseDivisionByZeroIsAnEvaluationError(t *testing.T) {
	// The parser itself has no opinion on division; this just confirms it
	// accepts the syntax and leaves enforcement to the evaluator.
	root, a := parseExpr(t, "1 / 0", false)
	top, ok := a.get(root).(*BinaryOpNode)
	if !ok || top.Op != OpDiv {
		t.Fatalf("root = %#v, want an OpDiv node", a.get(root))
	}
}
