// vi:set ai sm nu ts=4 sw=4 fileencoding=utf-8:

////////////////////////////////////////////////////////////////////////////////////////
//                                                                                    //
//                                Custom-Die Registry                                 //
//                                                                                    //
// Maps a name ("F", "fudge") to the CustomDie it refers to, so expressions can       //
// reference a die by name instead of spelling out its faces inline. Lookup is case-  //
// sensitive by design: the grammar's identifiers are, and the specification never    //
// asks for case folding here (unlike the k/h/l/d/s/r operator letters).              //
//                                                                                    //
////////////////////////////////////////////////////////////////////////////////////////

package dice

// registry holds the custom dice a Context knows about by name.
type registry struct {
	dice map[string]*CustomDie
}

func newRegistry() *registry {
	return &registry{dice: make(map[string]*CustomDie)}
}

// register adds or replaces the named die. A nil die or empty name is a
// caller bug, not a data error, so it panics rather than returning *EvalError.
func (r *registry) register(name string, die *CustomDie) {
	if name == "" || die == nil {
		panic("dice: register requires a non-empty name and a non-nil die")
	}
	die.Name = name
	r.dice[name] = die
}

// lookup returns the named die, or KindUnknownCustomDie if no such die is
// registered.
func (r *registry) lookup(name string) (*CustomDie, *EvalError) {
	d, ok := r.dice[name]
	if !ok {
		return nil, newError(KindUnknownCustomDie, "no custom die named %q is registered", name)
	}
	return d, nil
}

// clear empties the registry, standard dice such as "F" included. It does not
// re-register them; Context.Reset does that from its feature set after clearing.
func (r *registry) clear() {
	r.dice = make(map[string]*CustomDie)
}

// len reports how many dice are currently registered.
func (r *registry) len() int {
	return len(r.dice)
}

// fateDie is the standard Fudge/FATE die, registered under the name "F":
// one minus, one blank, one plus.
func fateDie() *CustomDie {
	return NewCustomDie("F", []CustomSide{
		{Value: -1, Label: "-"},
		{Value: 0, Label: " "},
		{Value: 1, Label: "+"},
	})
}

// parseAndRegisterCustomDie parses a standalone "{side, side, ...}" literal
// (the same grammar parseInlineCustomDie uses inside a dice expression) and
// registers the result under name. It gives --die NAME=DEF style CLI flags a
// single entry point that doesn't need to fabricate a whole dice expression.
func parseAndRegisterCustomDie(r *registry, a *arena, name, def string) *EvalError {
	p := newParser(def, a, false)
	if p.c.peek() != '{' {
		return newError(KindParseExpected, "custom-die definition for %q must start with '{'", name)
	}
	cd, err := p.parseInlineCustomDie()
	if err != nil {
		return err
	}
	p.c.skipSpace()
	if !p.c.eof() {
		return newError(KindParseUnexpectedTrailing,
			"unexpected trailing input after custom-die definition for %q", name)
	}
	r.register(name, cd)
	return nil
}
