package expreplay

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// Selector implements functionality for choosing which data should be
// sampled from an experience replay buffer
type Selector interface {
	// choose selects batchSize distinct indices of the ring at which
	// data should be sampled. The caller guarantees that
	// 1 <= batchSize <= r.len().
	choose(r *ring, batchSize int) ([]int, error)
}

// uniformSelector is a Selector which selects data from an experience
// replay buffer uniformly randomly without replacement
type uniformSelector struct {
	source rand.Source
}

// NewUniformSelector returns a new Selector which selects data
// uniformly randomly, without replacement, from an experience replay
// buffer
func NewUniformSelector(seed uint64) Selector {
	return &uniformSelector{source: rand.NewSource(seed)}
}

// choose selects a number of indices at which to draw data from the
// buffer
func (u *uniformSelector) choose(r *ring, batchSize int) ([]int, error) {
	selected := make([]int, batchSize)
	sampleuv.WithoutReplacement(selected, r.len(), u.source)

	return selected, nil
}

// proportionalSelector is a Selector which selects data from a scored
// ring without replacement, with probability proportional to
// score^alpha.
//
// The distribution is recomputed over the whole ring at each call.
type proportionalSelector struct {
	alpha  float64
	source rand.Source
}

// newProportionalSelector returns a new proportionalSelector with
// priority exponent alpha
func newProportionalSelector(alpha float64, seed uint64) *proportionalSelector {
	return &proportionalSelector{alpha: alpha, source: rand.NewSource(seed)}
}

// probabilities returns the probability of selecting each index of
// the ring on a single draw. If the summed weight is not finite and
// positive, the returned slice holds NaN.
func (p *proportionalSelector) probabilities(r *ring) []float64 {
	probability := make([]float64, len(r.scores))
	for i, score := range r.scores {
		probability[i] = math.Pow(score, p.alpha)
	}

	sum := floats.Sum(probability)
	if sum <= 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		for i := range probability {
			probability[i] = math.NaN()
		}
		return probability
	}
	floats.Scale(1/sum, probability)
	return probability
}

// choose selects a number of indices at which to draw data from the
// buffer. Each selected index is removed from further draws.
func (p *proportionalSelector) choose(r *ring, batchSize int) ([]int, error) {
	probability := p.probabilities(r)
	for _, prob := range probability {
		if math.IsNaN(prob) || math.IsInf(prob, 0) {
			return nil, ErrDegeneratePriority
		}
	}
	sampler := sampleuv.NewWeighted(probability, p.source)

	selected := make([]int, batchSize)
	for i := range selected {
		index, ok := sampler.Take()
		if !ok {
			return nil, ErrDegeneratePriority
		}
		selected[i] = index
	}

	return selected, nil
}
