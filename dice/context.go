// vi:set ai sm nu ts=4 sw=4 fileencoding=utf-8:

////////////////////////////////////////////////////////////////////////////////////////
//                                                                                    //
//                                      Context                                       //
//                                                                                    //
// Context is the engine's single public facade: create one, optionally tune its     //
// RNG/policy, then Parse and Evaluate expressions against it. A Context is not      //
// safe for concurrent use; callers needing concurrency run one Context per          //
// goroutine, matching the "no internal locking" design called out in §5.            //
//                                                                                    //
////////////////////////////////////////////////////////////////////////////////////////

package dice

// Features is a bitset selecting which standard custom dice a new Context
// auto-registers.
type Features int

const (
	// FeatureBasic registers nothing beyond the grammar's built-in numeric dice.
	FeatureBasic Features = 0
	// FeatureFate auto-registers the standard FATE/Fudge die under the name "F".
	FeatureFate Features = 1 << iota
)

// FeatureAll enables every optional standard die the engine knows about.
const FeatureAll = FeatureFate

// defaultArenaCapacity bounds how many AST nodes a single Context can hold
// before Parse starts failing with KindArenaOutOfMemory. It comfortably
// covers any expression a human would type by hand; callers evaluating
// machine-generated expressions can size their own Context accordingly.
const defaultArenaCapacity = 4096

// Context owns one arena, one RNG, one trace, and one policy. Exactly one
// error is remembered at a time: each failing Parse, Evaluate or
// RegisterCustomDie call overwrites LastError, so it holds the most recent
// failure rather than the first one. A successful call does not clear it.
type Context struct {
	arena    *arena
	rng      RNG
	trace    *Trace
	policy   Policy
	registry *registry
	features Features
	lastErr  *EvalError
}

// NewContext creates a Context with the default arena capacity and no
// optional standard dice registered.
func NewContext() *Context {
	return NewContextWithOptions(defaultArenaCapacity, FeatureBasic)
}

// NewContextWithOptions creates a Context with an explicit arena capacity and
// feature set. A capacity <= 0 is clamped to a minimal usable size.
func NewContextWithOptions(arenaCapacity int, features Features) *Context {
	c := &Context{
		arena:    newArena(arenaCapacity),
		rng:      NewDefaultRNG(0),
		trace:    newTrace(),
		policy:   DefaultPolicy(),
		registry: newRegistry(),
		features: features,
	}
	c.applyFeatures()
	return c
}

func (c *Context) applyFeatures() {
	if c.features&FeatureFate != 0 {
		c.registry.register("F", fateDie())
	}
}

// Reset clears the arena and trace for a fresh Parse/Evaluate cycle. The
// registry is cleared and then re-seeded from Context's feature set (so "F"
// reappears if it was enabled at creation, per the resolved behavior for
// registry persistence across Reset); the RNG is left exactly as it is,
// since a caller who installed a deterministic RNG should not have it
// silently reseeded out from under them.
func (c *Context) Reset() {
	c.arena.reset()
	c.trace.clear()
	c.registry.clear()
	c.applyFeatures()
	c.lastErr = nil
}

// SetRNG installs rng as the random source for all subsequent rolls.
func (c *Context) SetRNG(rng RNG) {
	c.rng = rng
}

// SetPolicy installs p as the safety-limit policy for all subsequent parses
// and evaluations.
func (c *Context) SetPolicy(p Policy) {
	c.policy = p
}

// Policy returns the currently installed policy.
func (c *Context) Policy() Policy {
	return c.policy
}

// RegisterCustomDie parses def (a "{side, side, ...}" literal) and registers
// the result under name, making it available to later Parse calls as
// "NdNAME".
func (c *Context) RegisterCustomDie(name, def string) error {
	if err := parseAndRegisterCustomDie(c.registry, c.arena, name, def); err != nil {
		c.lastErr = err
		return err
	}
	return nil
}

// LookupCustomDie returns the die registered under name, if any.
func (c *Context) LookupCustomDie(name string) (*CustomDie, error) {
	cd, err := c.registry.lookup(name)
	if err != nil {
		return nil, err
	}
	return cd, nil
}

// Parse compiles expr into an AST rooted at the returned handle, without
// evaluating it. The handle is only valid until the next Reset.
func (c *Context) Parse(expr string) (NodeHandle, error) {
	p := newParser(expr, c.arena, c.policy.StrictMode)
	root, err := p.parse()
	if err != nil {
		c.lastErr = err
		return invalidHandle, err
	}
	return root, nil
}

// Evaluate walks the AST rooted at root, rolling dice via the Context's
// installed RNG and appending every atomic roll to its Trace. It returns the
// expression's final integer value.
func (c *Context) Evaluate(root NodeHandle) (int64, error) {
	ev := newEvaluator(c.arena, c.rng, c.trace, c.policy, c.registry)
	v, err := ev.eval(root)
	if err != nil {
		c.lastErr = err
		return 0, err
	}
	return v, nil
}

// RollExpression parses and evaluates expr in one call, the common case for
// callers who don't need to hold onto the AST. The trace is cleared first, so
// the returned Trace reflects only this one roll.
func (c *Context) RollExpression(expr string) (int64, error) {
	c.trace.clear()
	root, err := c.Parse(expr)
	if err != nil {
		return 0, err
	}
	return c.Evaluate(root)
}

// LastError returns the most recent recorded failure, or nil if none has been
// recorded since the Context was created, Reset, or ClearError was called.
func (c *Context) LastError() *EvalError {
	return c.lastErr
}

// HasError reports whether LastError would return a non-nil error.
func (c *Context) HasError() bool {
	return c.lastErr != nil
}

// GetError returns the message of the most recent failure, or "" if there
// isn't one.
func (c *Context) GetError() string {
	if c.lastErr == nil {
		return ""
	}
	return c.lastErr.Error()
}

// ClearError discards the remembered failure without otherwise touching the
// Context's arena, trace, or registry.
func (c *Context) ClearError() {
	c.lastErr = nil
}

// ClearCustomDice empties the registry without touching anything else. Any
// feature-enabled standard dice (e.g. "F") are not automatically restored;
// call Reset instead if that's what's wanted.
func (c *Context) ClearCustomDice() {
	c.registry.clear()
}

// ClearTrace empties the trace log without touching the arena or registry.
func (c *Context) ClearTrace() {
	c.trace.clear()
}

// Trace returns the Context's trace log.
func (c *Context) Trace() *Trace {
	return c.trace
}

// Destroy releases c's resources. Go's garbage collector reclaims the
// arena and trace on its own, so this only exists to give callers coming
// from the create/destroy pairing spec a symmetrical call to make; it is
// safe, and a no-op, to skip it entirely.
func (c *Context) Destroy() {
	c.arena = nil
	c.trace = nil
	c.registry = nil
}
