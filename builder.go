package ahocorasick

import "sort"

// Builder accumulates needles and produces a PackedAutomaton. It mirrors
// the teacher's incremental AddPattern/Build shape: call Add repeatedly,
// then Build once. A Builder is not safe for concurrent Add/Build calls.
type Builder[V any] struct {
	// edges[s] is state s's goto trie: byte -> child state, still an
	// unordered map during construction. Packing sorts the keys so the
	// resulting transition order is deterministic regardless of Go's
	// randomized map iteration.
	edges []map[byte]uint32

	// valuesInitial[s] lists payloads that terminate directly at s,
	// before failure-link output propagation.
	valuesInitial [][]V

	caseMode CaseSensitivity
}

// NewBuilder returns a Builder with only the root state.
func NewBuilder[V any]() *Builder[V] {
	return &Builder[V]{
		edges:         []map[byte]uint32{{}},
		valuesInitial: [][]V{nil},
	}
}

// CaseMode records which matching function this automaton is intended for.
// It is documentation only; Build does not alter its behavior based on it.
func (b *Builder[V]) CaseMode(c CaseSensitivity) *Builder[V] {
	b.caseMode = c
	return b
}

// Add inserts needle with the given payload. Duplicate needles are
// allowed; each payload is retained and reported as a separate match. An
// empty needle is a documented no-op (see SPEC_FULL.md open question 1):
// it never makes the root a match state.
func (b *Builder[V]) Add(needle []byte, value V) {
	if len(needle) == 0 {
		return
	}
	state := rootState
	for _, c := range needle {
		next, ok := b.edges[state][c]
		if !ok {
			next = uint32(len(b.edges))
			b.edges[state][c] = next
			b.edges = append(b.edges, map[byte]uint32{})
			b.valuesInitial = append(b.valuesInitial, nil)
		}
		state = next
	}
	b.valuesInitial[state] = append(b.valuesInitial[state], value)
}

// Build finalizes the trie into an immutable PackedAutomaton: failure
// links by one BFS pass, output-set propagation by a second BFS pass over
// the same traversal order, then packing into dense arrays.
func (b *Builder[V]) Build() *PackedAutomaton[V] {
	n := len(b.edges)
	fail := make([]uint32, n)
	order := make([]uint32, 0, n)

	q := newBFSQueue(n)
	q.push(rootState)
	for !q.empty() {
		r := q.pop()
		for c, s := range b.edges[r] {
			fail[s] = computeFail(b.edges, fail, fail[r], c, s)
			q.push(s)
			order = append(order, s)
		}
	}

	values := make([][]V, n)
	values[rootState] = b.valuesInitial[rootState]
	for _, s := range order {
		own := b.valuesInitial[s]
		inherited := values[fail[s]]
		merged := make([]V, 0, len(own)+len(inherited))
		merged = append(merged, own...)
		merged = append(merged, inherited...)
		values[s] = merged
	}

	return b.pack(fail, values)
}

// computeFail implements spec.md §4.1's failure-link recurrence for the
// edge r --c--> s: starting from x = fail(r), repeatedly check whether x
// has a labeled transition on c; if so, target(x, c) is fail(s), unless
// that target is s itself (only possible when r is root), in which case
// fail(s) is root; otherwise fall back via x = fail(x).
func computeFail(edges []map[byte]uint32, fail []uint32, failR uint32, c byte, s uint32) uint32 {
	x := failR
	for {
		if next, ok := edges[x][c]; ok {
			if next == s {
				return rootState
			}
			return next
		}
		if x == rootState {
			return rootState
		}
		x = fail[x]
	}
}

// pack lays out the trie into the four dense arrays PackedAutomaton
// holds, byte-ascending within each state's transition slice.
func (b *Builder[V]) pack(fail []uint32, values [][]V) *PackedAutomaton[V] {
	n := len(b.edges)
	offsets := make([]uint32, n+1)
	transitions := make([]transitionWord, 0, n*2)

	for s := 0; s < n; s++ {
		offsets[s] = uint32(len(transitions))
		for _, key := range sortedByteKeys(b.edges[s]) {
			transitions = append(transitions, labeledTransition(key, b.edges[s][key]))
		}
		transitions = append(transitions, wildcardTransition(fail[s]))
	}
	offsets[n] = uint32(len(transitions))

	a := &PackedAutomaton[V]{
		values:      values,
		transitions: transitions,
		offsets:     offsets,
	}
	for lb := 0; lb < 128; lb++ {
		if next, ok := b.edges[rootState][byte(lb)]; ok {
			a.rootASCII[lb] = labeledTransition(byte(lb), next)
		} else {
			a.rootASCII[lb] = wildcardTransition(rootState)
		}
	}
	return a
}

func sortedByteKeys(m map[byte]uint32) []byte {
	keys := make([]byte, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Build constructs a PackedAutomaton from a slice of needles in one call,
// the shape spec.md §4.1 names directly: build(needles) -> PackedAutomaton.
func Build[V any](needles []Needle[V]) *PackedAutomaton[V] {
	b := NewBuilder[V]()
	for _, nd := range needles {
		b.Add(nd.Bytes, nd.Value)
	}
	return b.Build()
}
