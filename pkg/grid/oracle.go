package grid

// HeightOracle reports the rendered height of an item at the layout's column
// width. Compute calls Height exactly once per index in [0, Count), in
// ascending order, on the calling goroutine. Implementations must not block.
type HeightOracle interface {
	Height(index int) float64
}

// HeightFunc adapts an ordinary function to a HeightOracle.
type HeightFunc func(index int) float64

// Height calls f(index).
func (f HeightFunc) Height(index int) float64 { return f(index) }

// Heights is a HeightOracle backed by precomputed values.
type Heights []float64

// Height returns h[index].
func (h Heights) Height(index int) float64 { return h[index] }

// Uniform returns an oracle that reports the same height for every item.
func Uniform(height float64) HeightOracle {
	return HeightFunc(func(int) float64 { return height })
}
