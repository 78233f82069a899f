package engine

// Mask marks, per respondent row, inclusion in a computation. Masks never
// leave the engine; callers see only result rows and base sizes.
type Mask []bool

// NewMask returns an all-false mask of the given length.
func NewMask(n int) Mask { return make(Mask, n) }

// AllTrue returns a mask including every row.
func AllTrue(n int) Mask {
	m := make(Mask, n)
	for i := range m {
		m[i] = true
	}
	return m
}

// Count returns the number of included rows.
func (m Mask) Count() int {
	n := 0
	for _, b := range m {
		if b {
			n++
		}
	}
	return n
}

// Clone returns an independent copy.
func (m Mask) Clone() Mask {
	out := make(Mask, len(m))
	copy(out, m)
	return out
}

// Not returns the exact row-wise negation.
func (m Mask) Not() Mask {
	out := make(Mask, len(m))
	for i, b := range m {
		out[i] = !b
	}
	return out
}

// AndWith intersects in place with other.
func (m Mask) AndWith(other Mask) {
	for i := range m {
		m[i] = m[i] && other[i]
	}
}

// OrWith unions in place with other.
func (m Mask) OrWith(other Mask) {
	for i := range m {
		m[i] = m[i] || other[i]
	}
}

// Intersect returns a new mask of rows in both.
func (m Mask) Intersect(other Mask) Mask {
	out := make(Mask, len(m))
	for i := range m {
		out[i] = m[i] && other[i]
	}
	return out
}
