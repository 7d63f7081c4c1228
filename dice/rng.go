// vi:set ai sm nu ts=4 sw=4 fileencoding=utf-8:

////////////////////////////////////////////////////////////////////////////////////////
//                                                                                    //
//                                  RNG Interface                                     //
//                                                                                    //
// Pluggable capability interface for the random source a Context drives. The        //
// default implementation seeds from crypto/rand on Init(0), exactly as the dice      //
// module's own package init() did in the teacher codebase; callers who need a        //
// different source (a test double, a cryptographically hardened one, or one seeded   //
// from a human-readable label) install their own RNG via Context.SetRNG.             //
//                                                                                    //
////////////////////////////////////////////////////////////////////////////////////////

package dice

import (
	cryptorand "crypto/rand"
	"math/big"
	mathrand "math/rand"

	"github.com/dchest/siphash"
)

// RNG is the capability contract every random source a Context can drive must
// satisfy. Roll and Rand never panic: out-of-range requests return the
// documented sentinel instead.
type RNG interface {
	// Init (re)seeds the generator. A seed of zero means "derive a seed from
	// an external source of randomness"; any other value is used verbatim
	// for a fully deterministic sequence.
	Init(seed uint64)

	// Roll returns a value in [1, sides], or -1 if sides <= 0.
	Roll(sides int32) int32

	// Rand returns a value in [0, max), or 0 if max == 0.
	Rand(max uint64) uint64

	// Cleanup releases any internal state. Safe to call more than once.
	Cleanup()
}

// DefaultRNG wraps math/rand.Rand behind the RNG interface. It is the engine's
// built-in deterministic source: same seed, same expression, same trace.
type DefaultRNG struct {
	source *mathrand.Rand
	seed   uint64
}

// NewDefaultRNG constructs a DefaultRNG and seeds it immediately.
func NewDefaultRNG(seed uint64) *DefaultRNG {
	r := &DefaultRNG{}
	r.Init(seed)
	return r
}

func (r *DefaultRNG) Init(seed uint64) {
	if seed == 0 {
		seed = cryptoSeed()
	}
	r.seed = seed
	r.source = mathrand.New(mathrand.NewSource(int64(seed)))
}

func (r *DefaultRNG) Roll(sides int32) int32 {
	if sides <= 0 {
		return -1
	}
	if r.source == nil {
		r.Init(0)
	}
	return int32(r.source.Int31n(sides)) + 1
}

func (r *DefaultRNG) Rand(max uint64) uint64 {
	if max == 0 {
		return 0
	}
	if r.source == nil {
		r.Init(0)
	}
	if max > 1<<63-1 {
		return r.source.Uint64() % max
	}
	return uint64(r.source.Int63n(int64(max)))
}

func (r *DefaultRNG) Cleanup() {
	r.source = nil
}

// Seed returns the seed this generator was last initialized with, primarily
// useful for logging ("rolled with seed %d") when the caller requested
// wall-clock-derived seeding.
func (r *DefaultRNG) Seed() uint64 {
	return r.seed
}

// cryptoSeed derives a fresh seed from the system's cryptographic random
// source, matching the dice module's original package-level seeding: a
// context with no caller-supplied seed should not be predictable.
func cryptoSeed() uint64 {
	n, err := cryptorand.Int(cryptorand.Reader, new(big.Int).SetUint64(^uint64(0)))
	if err != nil {
		// crypto/rand failing is effectively unrecoverable on any real
		// platform; fall back to a fixed but non-zero seed rather than
		// looping forever on a source that will never succeed.
		return 0x9e3779b97f4a7c15
	}
	return n.Uint64()
}

// StringSeededRNG lets a caller seed determinism from an arbitrary string
// label (a player name, a session id) instead of a raw uint64. It hashes the
// label with SipHash-2-4 into a 64-bit seed and delegates everything else to
// a DefaultRNG.
type StringSeededRNG struct {
	DefaultRNG
}

// NewStringSeededRNG derives a seed from label using a fixed SipHash key (the
// key only needs to be stable across calls within one process, not secret;
// this is a convenience derivation, not a security boundary).
func NewStringSeededRNG(label string) *StringSeededRNG {
	const k0, k1 uint64 = 0x646f6c6c617220fe, 0x6473646673647366
	h := siphash.Hash(k0, k1, []byte(label))
	r := &StringSeededRNG{}
	r.Init(h)
	return r
}
