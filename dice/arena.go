// vi:set ai sm nu ts=4 sw=4 fileencoding=utf-8:

////////////////////////////////////////////////////////////////////////////////////////
//                                                                                    //
//                                      Arena                                         //
//                                                                                    //
// Bump-allocation region for AST nodes. A Context owns exactly one arena, pre-sized  //
// at creation time; Reset truncates it back to empty in O(1) without running any     //
// per-node cleanup, matching the "single reset point, no destructors" contract in    //
// the dice-engine specification (§4.1).                                             //
//                                                                                    //
////////////////////////////////////////////////////////////////////////////////////////

package dice

// NodeHandle is an index into an arena's backing storage. Handles are only
// meaningful for the Context that issued them, and become dangling (by
// contract, not by any runtime check) after that Context's Reset.
type NodeHandle int

const invalidHandle NodeHandle = -1

// arena is a fixed-capacity bump allocator for AST nodes. Rather than returning
// raw pointers into a manually managed buffer (the C approach the spec describes),
// this realizes the same "arena + indices" pattern called out in §9 of the
// specification: nodes live in one pre-sized slice and are referenced by handle.
type arena struct {
	nodes []Node
	cap   int
}

func newArena(capacity int) *arena {
	if capacity <= 0 {
		capacity = 1
	}
	return &arena{
		nodes: make([]Node, 0, capacity),
		cap:   capacity,
	}
}

// alloc stores n and returns the handle by which it can be retrieved. It fails
// with KindArenaOutOfMemory once the arena's pre-sized capacity is exhausted;
// the arena never silently grows, since unbounded growth would defeat the
// purpose of a bounded evaluation policy.
func (a *arena) alloc(n Node) (NodeHandle, *EvalError) {
	if len(a.nodes) >= a.cap {
		return invalidHandle, newError(KindArenaOutOfMemory,
			"arena out of memory: requested 1 node, %d of %d already in use", len(a.nodes), a.cap)
	}
	a.nodes = append(a.nodes, n)
	return NodeHandle(len(a.nodes) - 1), nil
}

func (a *arena) get(h NodeHandle) Node {
	if h < 0 || int(h) >= len(a.nodes) {
		return nil
	}
	return a.nodes[h]
}

// reset truncates the arena to empty in O(1); the backing array's capacity is
// untouched, so subsequent allocations reuse (and overwrite) the same memory.
func (a *arena) reset() {
	a.nodes = a.nodes[:0]
}

func (a *arena) len() int {
	return len(a.nodes)
}
