package random

// Source provides random numbers to the simulation.
// This allows us to inject deterministic implementations for testing
type Source interface {
	// Float64 returns a number in [0, 1)
	Float64() float64

	// IntN returns a number in [0, n). It panics if n <= 0.
	IntN(n int) int
}
