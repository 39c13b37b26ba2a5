package expreplay

import (
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/floats"
)

// MaxAlpha is the largest priority exponent accepted. SentinelPriority
// raised to MaxAlpha, summed over any buffer that fits in memory, stays
// finite.
const MaxAlpha = 10.0

// PrioritisedReplayMemory implements a concrete Prioritiser. It
// stores transitions like a ReplayMemory and also keeps a priority for
// each stored transition. Transitions are sampled without replacement
// with probability proportional to priority^alpha.
//
// Each newly stored transition has priority SentinelPriority. After a
// batch has been used for learning, Update sets the priority of each
// transition in the batch to |error| + e. The floor e keeps every
// transition's probability above zero.
//
// The sampling distribution is recomputed over all stored transitions
// at every call to Sample.
type PrioritisedReplayMemory struct {
	*ReplayMemory
	selector *proportionalSelector

	e     float64 // Priority floor
	alpha float64 // Priority exponent
	beta  float64 // Importance sampling exponent, 0 to disable
}

// NewPrioritised returns a new PrioritisedReplayMemory. The capacity,
// multiStepN, gamma, featureSize, actionSize, and seed parameters are
// as in New. The e parameter is the priority floor added to observed
// errors, alpha the priority exponent, and beta the importance
// sampling exponent. Importance sampling weights are only computed
// for sampled batches when beta > 0, and are never applied by the
// buffer.
func NewPrioritised(capacity, multiStepN int, gamma, e, alpha, beta float64,
	featureSize, actionSize int, seed uint64) (*PrioritisedReplayMemory,
	error) {
	err := validate("newPrioritised", capacity, multiStepN, gamma,
		featureSize, actionSize)
	if err != nil {
		return nil, err
	}
	if err := validatePriority("newPrioritised", e, alpha, beta); err != nil {
		return nil, err
	}

	if alpha == 0 {
		msg := "newPrioritised: alpha = 0, sampling will be uniform"
		fmt.Fprintln(os.Stderr, msg)
	}

	selector := newProportionalSelector(alpha, seed)
	memory := newReplayMemory(capacity, multiStepN, gamma, featureSize,
		actionSize, true, selector)

	return &PrioritisedReplayMemory{
		ReplayMemory: memory,
		selector:     selector,
		e:            e,
		alpha:        alpha,
		beta:         beta,
	}, nil
}

// validatePriority checks the arguments of prioritised replay
func validatePriority(op string, e, alpha, beta float64) error {
	if e <= 0 || math.IsNaN(e) || math.IsInf(e, 0) {
		return newError(op, fmt.Errorf("%w: e must be > 0 \n\thave(%v)",
			ErrInvalidConfig, e))
	}
	if alpha < 0 || alpha > MaxAlpha || math.IsNaN(alpha) {
		return newError(op, fmt.Errorf("%w: alpha must be in [0, %v] "+
			"\n\thave(%v)", ErrInvalidConfig, MaxAlpha, alpha))
	}
	if beta < 0 || beta > 1 || math.IsNaN(beta) {
		return newError(op, fmt.Errorf("%w: beta must be in [0, 1] "+
			"\n\thave(%v)", ErrInvalidConfig, beta))
	}
	return nil
}

// Sample samples and returns a batch of batchSize distinct
// transitions, chosen with probability proportional to
// priority^alpha. The batch Indices should be passed to Update along
// with the errors observed on the batch.
func (p *PrioritisedReplayMemory) Sample(batchSize int) (*Batch, error) {
	batch, err := p.ReplayMemory.Sample(batchSize)
	if err != nil {
		return nil, err
	}

	if p.beta > 0 {
		batch.Weights, err = p.ImportanceWeights(batch.Indices, p.beta)
		if err != nil {
			return nil, err
		}
	}
	return batch, nil
}

// Update sets the priority of the transition at indices[i] to
// |errs[i]| + e. Previous priorities are overwritten. Non-finite
// errors are rejected and nothing is written.
//
// Update does not detect indices whose transitions were overwritten
// after they were sampled.
func (p *PrioritisedReplayMemory) Update(indices []int, errs []float64) error {
	if len(indices) != len(errs) {
		return newError("update", fmt.Errorf("%w: mismatched lengths "+
			"\n\tindices(%v)\n\terrors(%v)", ErrInvalidConfig, len(indices),
			len(errs)))
	}
	if err := p.checkIndices("update", indices); err != nil {
		return err
	}
	for i, value := range errs {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return newError("update", fmt.Errorf("%w: non-finite error "+
				"at %v \n\thave(%v)", ErrDegeneratePriority, indices[i],
				value))
		}
	}

	for i, index := range indices {
		p.storage.scores[index] = math.Abs(errs[i]) + p.e
	}
	return nil
}

// checkIndices ensures that every index refers to a stored transition
func (p *PrioritisedReplayMemory) checkIndices(op string, indices []int) error {
	for _, index := range indices {
		if index < 0 || index >= p.Len() {
			return newError(op, fmt.Errorf("%w: index out of range "+
				"\n\twant([0, %v))\n\thave(%v)", ErrInvalidConfig, p.Len(),
				index))
		}
	}
	return nil
}

// Priority returns the priority of the transition at index i
func (p *PrioritisedReplayMemory) Priority(i int) float64 {
	return p.storage.scores[i]
}

// Priorities returns a copy of the priorities of all stored
// transitions
func (p *PrioritisedReplayMemory) Priorities() []float64 {
	priorities := make([]float64, len(p.storage.scores))
	copy(priorities, p.storage.scores)
	return priorities
}

// Probabilities returns the probability of drawing each stored
// transition as the first element of a batch
func (p *PrioritisedReplayMemory) Probabilities() []float64 {
	return p.selector.probabilities(p.storage)
}

// ImportanceWeights returns the importance sampling weights
// (N·P(i))^-beta of the transitions at indices, normalized so that
// the largest weight is 1. The buffer never applies these weights to
// sampled rewards.
func (p *PrioritisedReplayMemory) ImportanceWeights(indices []int,
	beta float64) ([]float64, error) {
	if err := p.checkIndices("importanceWeights", indices); err != nil {
		return nil, err
	}
	probability := p.Probabilities()
	n := float64(p.Len())

	weights := make([]float64, len(indices))
	for i, index := range indices {
		weights[i] = math.Pow(n*probability[index], -beta)
	}

	if len(weights) > 0 {
		floats.Scale(1/floats.Max(weights), weights)
	}
	return weights, nil
}

// E returns the priority floor
func (p *PrioritisedReplayMemory) E() float64 {
	return p.e
}

// Alpha returns the priority exponent
func (p *PrioritisedReplayMemory) Alpha() float64 {
	return p.alpha
}

// Beta returns the importance sampling exponent
func (p *PrioritisedReplayMemory) Beta() float64 {
	return p.beta
}
