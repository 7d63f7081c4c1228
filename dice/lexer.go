// vi:set ai sm nu ts=4 sw=4 fileencoding=utf-8:

////////////////////////////////////////////////////////////////////////////////////////
//                                                                                    //
//                                      Lexer                                         //
//                                                                                    //
// Low-level rune cursor the recursive-descent parser drives directly. There is no    //
// separate token stream: the grammar's heavy overloading of a handful of letters     //
// (d, k, h, l, s, r) needs one-rune lookahead decided in context, which a generic     //
// tokenizer would only get in the way of.                                            //
//                                                                                    //
////////////////////////////////////////////////////////////////////////////////////////

package dice

import (
	"math/big"
	"strconv"
)

type cursor struct {
	src []rune
	pos int
}

func newCursor(s string) *cursor {
	return &cursor{src: []rune(s)}
}

func (c *cursor) eof() bool {
	return c.pos >= len(c.src)
}

func (c *cursor) peek() rune {
	if c.eof() {
		return 0
	}
	return c.src[c.pos]
}

func (c *cursor) peekAt(offset int) rune {
	i := c.pos + offset
	if i < 0 || i >= len(c.src) {
		return 0
	}
	return c.src[i]
}

func (c *cursor) advance() rune {
	r := c.peek()
	if !c.eof() {
		c.pos++
	}
	return r
}

// isBlank reports whether r is one of the ASCII blanks the grammar ignores
// between tokens: space, tab, newline, carriage return.
func isBlank(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// skipSpace consumes any run of blanks at the cursor, returning how many
// runes were skipped. Strict-mode dice-body scanning uses the count to
// reject whitespace where the grammar otherwise tolerates it everywhere.
func (c *cursor) skipSpace() int {
	n := 0
	for !c.eof() && isBlank(c.peek()) {
		c.pos++
		n++
	}
	return n
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r - 'A' + 'a'
	}
	return r
}

// takeDigits consumes a run of decimal digits, returning the text consumed
// (empty if none were present).
func (c *cursor) takeDigits() string {
	start := c.pos
	for !c.eof() && isDigit(c.peek()) {
		c.pos++
	}
	return string(c.src[start:c.pos])
}

// takeIdent consumes letter(letter|digit)*, the "name" production used for
// custom-die references.
func (c *cursor) takeIdent() string {
	if !isLetter(c.peek()) {
		return ""
	}
	start := c.pos
	c.pos++
	for !c.eof() && (isLetter(c.peek()) || isDigit(c.peek())) {
		c.pos++
	}
	return string(c.src[start:c.pos])
}

// parseInt64Wrapping converts a decimal digit string to int64 with silent
// two's-complement wraparound on overflow, per the data model's "overflow is
// wrapping" rule (§3). Ordinary in-range values go through strconv directly.
func parseInt64Wrapping(digits string) int64 {
	if v, err := strconv.ParseInt(digits, 10, 64); err == nil {
		return v
	}
	n := new(big.Int)
	n.SetString(digits, 10)
	var mod big.Int
	mod.SetUint64(^uint64(0))
	mod.Add(&mod, big.NewInt(1)) // 2^64
	n.Mod(n, &mod)
	return int64(n.Uint64())
}

// matchFold reports whether the cursor is positioned at lit, compared
// case-insensitively, without consuming it.
func (c *cursor) matchFold(lit string) bool {
	for i, want := range lit {
		got := c.peekAt(i)
		if toLower(got) != toLower(want) {
			return false
		}
	}
	return true
}

// consumeFold consumes lit (case-insensitively) if present and returns the
// literal text actually consumed (preserving the caller's original casing),
// or "" if lit was not present at the cursor.
func (c *cursor) consumeFold(lit string) string {
	if !c.matchFold(lit) {
		return ""
	}
	start := c.pos
	c.pos += len([]rune(lit))
	return string(c.src[start:c.pos])
}
