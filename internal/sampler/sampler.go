// Package sampler draws score-weighted random picks without replacement.
package sampler

import "math/rand/v2"

// Epsilon is the floor weight, so zero-score items can still be drawn.
const Epsilon = 1e-6

// Source supplies uniform random numbers in [0,1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// NewSeeded returns a deterministic source for the given seed.
func NewSeeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Sample picks min(n, len(items)) distinct items. Each draw chooses among the
// remaining items with probability proportional to max(Epsilon, score(item)).
// When n covers every item the input order is returned as is.
// A nil src uses the process-wide generator.
func Sample[T any](items []T, n int, score func(T) float64, src Source) []T {
	if n <= 0 || len(items) == 0 {
		return []T{}
	}
	if n >= len(items) {
		return append([]T(nil), items...)
	}
	if src == nil {
		src = globalSource{}
	}

	remaining := append([]T(nil), items...)
	weights := make([]float64, len(remaining))
	for i, it := range remaining {
		w := score(it)
		// also catches NaN
		if !(w > Epsilon) {
			w = Epsilon
		}
		weights[i] = w
	}

	out := make([]T, 0, n)
	for range n {
		var total float64
		for _, w := range weights {
			total += w
		}
		r := src.Float64() * total
		picked := len(remaining) - 1
		for i, w := range weights {
			r -= w
			if r <= 0 {
				picked = i
				break
			}
		}
		out = append(out, remaining[picked])
		remaining = append(remaining[:picked], remaining[picked+1:]...)
		weights = append(weights[:picked], weights[picked+1:]...)
	}
	return out
}
