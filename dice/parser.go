// vi:set ai sm nu ts=4 sw=4 fileencoding=utf-8:

////////////////////////////////////////////////////////////////////////////////////////
//                                                                                    //
//                                      Parser                                        //
//                                                                                    //
// Recursive-descent parser over an in-memory rune cursor. Each disambiguation rule   //
// from §4.6 of the specification gets its own named method so the grammar reads the   //
// way the rule list does.                                                           //
//                                                                                    //
////////////////////////////////////////////////////////////////////////////////////////

package dice

type parser struct {
	c      *cursor
	a      *arena
	strict bool
}

func newParser(src string, a *arena, strict bool) *parser {
	return &parser{c: newCursor(src), a: a, strict: strict}
}

func (p *parser) alloc(n Node) (NodeHandle, *EvalError) {
	return p.a.alloc(n)
}

// parse is the grammar's top-level production: expression, followed by a
// rejection of anything but trailing whitespace (disambiguation rule 5).
func (p *parser) parse() (NodeHandle, *EvalError) {
	root, err := p.parseExpression()
	if err != nil {
		return invalidHandle, err
	}
	p.c.skipSpace()
	if !p.c.eof() {
		return invalidHandle, newError(KindParseUnexpectedTrailing,
			"unexpected trailing input at position %d: %q", p.c.pos, string(p.c.src[p.c.pos:]))
	}
	return root, nil
}

func (p *parser) parseExpression() (NodeHandle, *EvalError) {
	return p.parseSum()
}

func (p *parser) parseSum() (NodeHandle, *EvalError) {
	left, err := p.parseProduct()
	if err != nil {
		return invalidHandle, err
	}
	for {
		p.c.skipSpace()
		var op BinaryOperator
		switch p.c.peek() {
		case '+':
			op = OpAdd
		case '-':
			op = OpSub
		default:
			return left, nil
		}
		p.c.advance()
		right, err := p.parseProduct()
		if err != nil {
			return invalidHandle, err
		}
		left, err = p.alloc(&BinaryOpNode{Op: op, Left: left, Right: right})
		if err != nil {
			return invalidHandle, err
		}
	}
}

func (p *parser) parseProduct() (NodeHandle, *EvalError) {
	left, err := p.parseUnary()
	if err != nil {
		return invalidHandle, err
	}
	for {
		p.c.skipSpace()
		var op BinaryOperator
		switch p.c.peek() {
		case '*':
			op = OpMul
		case '/':
			op = OpDiv
		default:
			return left, nil
		}
		p.c.advance()
		right, err := p.parseUnary()
		if err != nil {
			return invalidHandle, err
		}
		left, err = p.alloc(&BinaryOpNode{Op: op, Left: left, Right: right})
		if err != nil {
			return invalidHandle, err
		}
	}
}

// parseUnary realizes "unary -x is expressed as 0 - x; unary +x is identity"
// from §4.6's precedence rules.
func (p *parser) parseUnary() (NodeHandle, *EvalError) {
	p.c.skipSpace()
	switch p.c.peek() {
	case '+':
		p.c.advance()
		return p.parseUnary()
	case '-':
		p.c.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return invalidHandle, err
		}
		zero, err := p.alloc(&LiteralNode{Value: 0})
		if err != nil {
			return invalidHandle, err
		}
		return p.alloc(&BinaryOpNode{Op: OpSub, Left: zero, Right: operand})
	default:
		return p.parsePrimary()
	}
}

func (p *parser) parsePrimary() (NodeHandle, *EvalError) {
	p.c.skipSpace()
	if p.c.peek() == '(' {
		p.c.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return invalidHandle, err
		}
		p.c.skipSpace()
		if p.c.peek() != ')' {
			return invalidHandle, newError(KindParseExpected,
				"expected ')' at position %d", p.c.pos)
		}
		p.c.advance()
		return inner, nil
	}
	return p.parseNumberOrDice()
}

// parseNumberOrDice implements the number/dice disambiguation: a run of
// digits is a plain number literal unless immediately (modulo whitespace,
// forbidden in strict mode) followed by 'd'/'D', in which case the digits
// are the dice count and a dice primary follows.
func (p *parser) parseNumberOrDice() (NodeHandle, *EvalError) {
	p.c.skipSpace()
	digits := ""
	if isDigit(p.c.peek()) {
		digits = p.c.takeDigits()
	}

	lookaheadStart := p.c.pos
	if !p.strict {
		p.c.skipSpace()
	}
	if p.c.peek() == 'd' || p.c.peek() == 'D' {
		return p.parseDice(digits)
	}
	p.c.pos = lookaheadStart

	if digits == "" {
		return invalidHandle, newError(KindParseExpected,
			"expected a number, dice expression, or '(' at position %d", p.c.pos)
	}
	return p.alloc(&LiteralNode{Value: parseInt64Wrapping(digits)})
}

// parseDice implements the "dice" production. The cursor is positioned at
// the 'd'/'D' that introduces the dice body; countDigits is the (possibly
// empty) count already consumed ahead of it.
func (p *parser) parseDice(countDigits string) (NodeHandle, *EvalError) {
	implicitCount := countDigits == ""
	if p.strict && implicitCount {
		return invalidHandle, newError(KindParseExpected,
			"strict mode requires an explicit dice count at position %d", p.c.pos)
	}

	var countValue int64 = 1
	if !implicitCount {
		countValue = parseInt64Wrapping(countDigits)
	}
	countHandle, err := p.alloc(&LiteralNode{Value: countValue})
	if err != nil {
		return invalidHandle, err
	}

	p.c.advance() // consume 'd'/'D'
	if !p.strict {
		p.c.skipSpace()
	} else if isBlank(p.c.peek()) {
		return invalidHandle, newError(KindParseExpected,
			"strict mode forbids whitespace inside a dice body at position %d", p.c.pos)
	}

	node := &DiceOpNode{Count: countHandle, Modifier: invalidHandle}

	switch {
	case p.c.peek() == '{':
		cd, perr := p.parseInlineCustomDie()
		if perr != nil {
			return invalidHandle, perr
		}
		node.Kind = DiceCustom
		node.CustomDie = cd
	case isDigit(p.c.peek()):
		digits := p.c.takeDigits()
		sidesHandle, aerr := p.alloc(&LiteralNode{Value: parseInt64Wrapping(digits)})
		if aerr != nil {
			return invalidHandle, aerr
		}
		node.Kind = DiceBasic
		node.Sides = sidesHandle
	case isLetter(p.c.peek()):
		node.Kind = DiceCustom
		node.CustomName = p.c.takeIdent()
	default:
		return invalidHandle, newError(KindParseExpected,
			"expected dice sides, a custom-die literal, or a custom-die name at position %d", p.c.pos)
	}

	sel, serr := p.parseSelectionSuffix()
	if serr != nil {
		return invalidHandle, serr
	}
	if sel != nil {
		node.Selection = sel
		node.Kind = DiceFilter
	}

	return p.alloc(node)
}

// parseSelectionSuffix implements the selection-suffix production, including
// disambiguation rules 1 and 2 (drop vs. a new dice primary; the k/h/l/d
// shorthand equivalences). A nil, nil return means no suffix was present.
func (p *parser) parseSelectionSuffix() (*Selection, *EvalError) {
	if !p.strict {
		p.c.skipSpace()
	}
	start := p.c.pos
	ch := toLower(p.c.peek())

	switch ch {
	case 'k':
		p.c.advance()
		switch toLower(p.c.peek()) {
		case 'h':
			p.c.advance()
			return p.finishCountSelection(start, true, false)
		case 'l':
			p.c.advance()
			return p.finishCountSelection(start, false, false)
		default:
			return p.finishCountSelection(start, true, false) // k ≡ kh
		}
	case 'h':
		p.c.advance()
		return p.finishCountSelection(start, true, false) // h ≡ kh
	case 'l':
		p.c.advance()
		return p.finishCountSelection(start, false, false) // l ≡ kl
	case 'd':
		p.c.advance()
		switch toLower(p.c.peek()) {
		case 'h':
			p.c.advance()
			return p.finishCountSelection(start, false, true) // dh: keep the low remainder
		case 'l':
			p.c.advance()
			return p.finishCountSelection(start, true, true) // dl: keep the high remainder
		default:
			return p.finishCountSelection(start, true, true) // d ≡ dl
		}
	case 's':
		p.c.advance()
		return p.finishPredicateSelection(start, false)
	case 'r':
		p.c.advance()
		return p.finishPredicateSelection(start, true)
	default:
		return nil, nil
	}
}

func (p *parser) finishCountSelection(start int, selectHigh, isDrop bool) (*Selection, *EvalError) {
	count := int64(1)
	if digits := p.c.takeDigits(); digits != "" {
		count = parseInt64Wrapping(digits)
	}
	return &Selection{
		Count:           count,
		SelectHigh:      selectHigh,
		IsDropOperation: isDrop,
		OriginalSyntax:  string(p.c.src[start:p.c.pos]),
	}, nil
}

// finishPredicateSelection implements disambiguation rule 3 for the 's' and
// 'r' suffixes: a comparison operator with no value is a parse error; the
// absence of both defaults to "= 1".
func (p *parser) finishPredicateSelection(start int, isReroll bool) (*Selection, *EvalError) {
	op, hasOp := p.parseCompareOp()
	value, hasValue := p.parseSignedNumber()

	if hasOp && !hasValue {
		return nil, newError(KindParseMissingOperator,
			"comparison operator %v at position %d requires a value", op, p.c.pos)
	}
	if !hasOp {
		op = CmpEQ
	}
	if !hasValue {
		value = 1
	}

	sel := &Selection{
		ComparisonOp:    op,
		ComparisonValue: value,
		OriginalSyntax:  string(p.c.src[start:p.c.pos]),
	}
	if isReroll {
		sel.IsReroll = true
	} else {
		sel.IsConditional = true
	}
	return sel, nil
}

// parseCompareOp tries the longer two-rune operators before the single-rune
// ones so that e.g. ">=" isn't mis-read as ">" followed by a stray '='.
func (p *parser) parseCompareOp() (CompareOp, bool) {
	switch {
	case p.c.consumeFold(">=") != "":
		return CmpGTE, true
	case p.c.consumeFold("<=") != "":
		return CmpLTE, true
	case p.c.consumeFold("<>") != "":
		return CmpNEQ, true
	case p.c.consumeFold("!=") != "":
		return CmpNEQ, true
	case p.c.consumeFold(">") != "":
		return CmpGT, true
	case p.c.consumeFold("<") != "":
		return CmpLT, true
	case p.c.consumeFold("==") != "":
		return CmpEQ, true
	case p.c.consumeFold("=") != "":
		return CmpEQ, true
	default:
		return 0, false
	}
}

func (p *parser) parseSignedNumber() (int64, bool) {
	start := p.c.pos
	neg := false
	if p.c.peek() == '-' {
		neg = true
		p.c.advance()
	}
	digits := p.c.takeDigits()
	if digits == "" {
		p.c.pos = start
		return 0, false
	}
	v := parseInt64Wrapping(digits)
	if neg {
		v = -v
	}
	return v, true
}

// parseInlineCustomDie implements the inline-custom production. The cursor
// is positioned at the opening '{'. Because this is a real recursive
// descent (rather than a brace-depth regex prescan), embedded commas inside
// quoted labels and any brace-like characters inside a quoted string are
// handled naturally: we only ever look for the grammar's own delimiters
// outside a quoted span. Nested braces are not supported.
func (p *parser) parseInlineCustomDie() (*CustomDie, *EvalError) {
	p.c.advance() // consume '{'
	var sides []CustomSide
	index := int64(0)
	for {
		p.c.skipSpace()
		side, err := p.parseCustomSide(index)
		if err != nil {
			return nil, err
		}
		sides = append(sides, side)
		index++
		p.c.skipSpace()
		switch p.c.peek() {
		case ',':
			p.c.advance()
			continue
		case '}':
			p.c.advance()
			return NewCustomDie("", sides), nil
		default:
			return nil, newError(KindParseExpected,
				"expected ',' or '}' in custom-die literal at position %d", p.c.pos)
		}
	}
}

// parseCustomSide implements the custom-side production: a signed number
// with an optional quoted label, or a bare quoted label whose value is its
// zero-based index in the literal.
func (p *parser) parseCustomSide(index int64) (CustomSide, *EvalError) {
	if p.c.peek() == '"' {
		label, err := p.parseQuotedString()
		if err != nil {
			return CustomSide{}, err
		}
		return CustomSide{Value: index, Label: label}, nil
	}

	value, ok := p.parseSignedNumber()
	if !ok {
		return CustomSide{}, newError(KindParseExpected,
			"expected a signed number or quoted label in custom-die literal at position %d", p.c.pos)
	}
	p.c.skipSpace()
	if p.c.peek() == ':' {
		p.c.advance()
		p.c.skipSpace()
		label, err := p.parseQuotedString()
		if err != nil {
			return CustomSide{}, err
		}
		return CustomSide{Value: value, Label: label}, nil
	}
	return CustomSide{Value: value}, nil
}

func (p *parser) parseQuotedString() (string, *EvalError) {
	if p.c.peek() != '"' {
		return "", newError(KindParseExpected,
			"expected a quoted string at position %d", p.c.pos)
	}
	p.c.advance()
	start := p.c.pos
	for !p.c.eof() && p.c.peek() != '"' {
		p.c.advance()
	}
	if p.c.eof() {
		return "", newError(KindParseExpected, "unterminated quoted string")
	}
	text := string(p.c.src[start:p.c.pos])
	p.c.advance() // closing quote
	return text, nil
}
