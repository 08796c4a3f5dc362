package optimizer

// generator lazily produces every ordered propellant assignment of length n
// drawn with repetition from a catalog of size base: the Cartesian product
// of the catalog with itself n times, in catalog iteration order. It is an
// explicit odometer rather than a recursive walk, so candidate production is
// restartable and free of stack-depth concerns.
//
// Each assignment is stamped with a generation index, which the search uses
// as the deterministic tie-break key regardless of worker completion order.
type generator struct {
	base int
	n    int
	idx  []int
	done bool
}

func newGenerator(base, n int) *generator {
	g := &generator{base: base, n: n, idx: make([]int, n)}
	// n == 0 has exactly one (empty) assignment. n > 0 with an empty
	// catalog has none.
	if n > 0 && base == 0 {
		g.done = true
	}
	return g
}

// next returns the next assignment as catalog indices, or ok=false when the
// space is exhausted. The returned slice is a fresh copy each call.
func (g *generator) next() ([]int, bool) {
	if g.done {
		return nil, false
	}

	out := make([]int, g.n)
	copy(out, g.idx)

	// Advance the odometer: rightmost position is the fastest digit, so
	// assignments appear in the same order a depth-first recursive
	// extension over the catalog would produce them.
	carry := true
	for i := g.n - 1; i >= 0 && carry; i-- {
		g.idx[i]++
		if g.idx[i] < g.base {
			carry = false
		} else {
			g.idx[i] = 0
		}
	}
	if carry {
		g.done = true
	}
	return out, true
}

// spaceSize returns base^n, the number of assignments the generator yields.
func spaceSize(base, n int) int {
	size := 1
	for i := 0; i < n; i++ {
		size *= base
	}
	return size
}
