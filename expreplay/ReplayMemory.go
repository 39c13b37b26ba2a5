package expreplay

import (
	"fmt"
	"math"
	"strings"

	"github.com/whathelll/Reinforcement-Learning/timestep"
)

// ReplayMemory implements a concrete ExperienceReplayer where
// transitions are stored in a ring buffer, so that once the buffer is
// full each new transition overwrites the oldest one. Transitions are
// sampled uniformly randomly without replacement.
//
// Pushed transitions first pass through a window of length
// multiStepN + 1, where they are folded into n-step transitions. With
// multiStepN = 0, each pushed transition is stored unchanged.
type ReplayMemory struct {
	storage *ring
	window  *window

	// Outlines how data is sampled
	sampler Selector

	multiStepN  int
	gamma       float64
	featureSize int
	actionSize  int
}

// New returns a new ReplayMemory which holds at most capacity
// transitions. The multiStepN and gamma parameters determine the
// number of extra steps folded into each stored transition and the
// per-step discount used to fold them. The featureSize and actionSize
// parameters define the size of the state and action vectors. The
// seed seeds the uniform sampler.
func New(capacity, multiStepN int, gamma float64, featureSize,
	actionSize int, seed uint64) (*ReplayMemory, error) {
	err := validate("new", capacity, multiStepN, gamma, featureSize,
		actionSize)
	if err != nil {
		return nil, err
	}

	return newReplayMemory(capacity, multiStepN, gamma, featureSize,
		actionSize, false, NewUniformSelector(seed)), nil
}

// newReplayMemory returns a new ReplayMemory without validating its
// arguments. If scored, each slot of the ring also stores a priority.
func newReplayMemory(capacity, multiStepN int, gamma float64, featureSize,
	actionSize int, scored bool, sampler Selector) *ReplayMemory {
	return &ReplayMemory{
		storage:     newRing(capacity, scored),
		window:      newWindow(multiStepN+1, gamma),
		sampler:     sampler,
		multiStepN:  multiStepN,
		gamma:       gamma,
		featureSize: featureSize,
		actionSize:  actionSize,
	}
}

// validate checks the arguments shared by all replay memories
func validate(op string, capacity, multiStepN int, gamma float64,
	featureSize, actionSize int) error {
	if capacity < 1 {
		return newError(op, fmt.Errorf("%w: capacity must be >= 1 "+
			"\n\thave(%v)", ErrInvalidConfig, capacity))
	}
	if multiStepN < 0 {
		return newError(op, fmt.Errorf("%w: multi-step n must be >= 0 "+
			"\n\thave(%v)", ErrInvalidConfig, multiStepN))
	}
	if gamma < 0 || gamma > 1 || math.IsNaN(gamma) {
		return newError(op, fmt.Errorf("%w: gamma must be in [0, 1] "+
			"\n\thave(%v)", ErrInvalidConfig, gamma))
	}
	if featureSize < 1 {
		return newError(op, fmt.Errorf("%w: feature size must be >= 1 "+
			"\n\thave(%v)", ErrInvalidConfig, featureSize))
	}
	if actionSize < 1 {
		return newError(op, fmt.Errorf("%w: action size must be >= 1 "+
			"\n\thave(%v)", ErrInvalidConfig, actionSize))
	}
	return nil
}

// Push adds a transition to the ReplayMemory.
//
// The transition is appended to the n-step window. Once the window
// holds multiStepN + 1 transitions, its oldest transition is folded
// with the rest of the window and stored. If t is done, every
// transition left in the window is folded and stored, so that the
// window is empty at the start of the next episode.
//
// The vectors of t are copied, so later changes to them are not seen
// by the stored transition.
func (r *ReplayMemory) Push(t timestep.Transition) error {
	if err := r.checkShape(t); err != nil {
		return err
	}

	t = timestep.NewTransition(t.State, t.Action, t.NextState, t.Reward,
		t.Done)
	r.window.push(t, r.store)
	return nil
}

// checkShape ensures that t can be stored in the ReplayMemory
func (r *ReplayMemory) checkShape(t timestep.Transition) error {
	if t.State == nil || t.NextState == nil || t.Action == nil {
		return newError("push", fmt.Errorf("%w: nil vector",
			ErrInvalidShape))
	}
	if t.State.Len() != r.featureSize || t.NextState.Len() != r.featureSize {
		return newError("push", fmt.Errorf("%w: invalid feature size "+
			"\n\twant(%v)\n\thave(%v, %v)", ErrInvalidShape, r.featureSize,
			t.State.Len(), t.NextState.Len()))
	}
	if t.Action.Len() != r.actionSize {
		return newError("push", fmt.Errorf("%w: invalid action size "+
			"\n\twant(%v)\n\thave(%v)", ErrInvalidShape, r.actionSize,
			t.Action.Len()))
	}
	return nil
}

// store writes a folded transition to the ring. Scored rings give the
// transition the sentinel priority.
func (r *ReplayMemory) store(t timestep.Transition) {
	r.storage.store(t, SentinelPriority)
}

// EndEpisode discards the transitions waiting in the n-step window
// and returns the number discarded. Call EndEpisode when an episode is
// cut off without a done transition, so that n-step returns never
// cross into the next episode.
func (r *ReplayMemory) EndEpisode() int {
	return r.window.clear()
}

// Sample samples and returns a batch of batchSize distinct
// transitions, chosen uniformly randomly
func (r *ReplayMemory) Sample(batchSize int) (*Batch, error) {
	if r.Len() == 0 {
		return nil, newError("sample", ErrEmptyBuffer)
	}
	if batchSize < 1 {
		return nil, newError("sample", fmt.Errorf("%w: batch size must be "+
			">= 1 \n\thave(%v)", ErrInvalidConfig, batchSize))
	}
	if batchSize > r.Len() {
		return nil, newError("sample", fmt.Errorf("%w \n\twant(<=%v)"+
			"\n\thave(%v)", ErrInsufficientSamples, r.Len(), batchSize))
	}

	indices, err := r.sampler.choose(r.storage, batchSize)
	if err != nil {
		return nil, newError("sample", err)
	}

	return newBatch(r.storage.memory, indices, r.featureSize,
		r.actionSize), nil
}

// At returns the transition stored at index i
func (r *ReplayMemory) At(i int) timestep.Transition {
	return r.storage.memory[i]
}

// InsertOrder returns the indices of the stored transitions, from the
// oldest to the newest
func (r *ReplayMemory) InsertOrder() []int {
	return r.storage.insertOrder()
}

// Len returns the current number of transitions in the ReplayMemory
func (r *ReplayMemory) Len() int {
	return r.storage.len()
}

// Capacity returns the maximum number of transitions that are allowed
// in the ReplayMemory
func (r *ReplayMemory) Capacity() int {
	return r.storage.capacity
}

// Position returns the index that the next stored transition will be
// written to
func (r *ReplayMemory) Position() int {
	return r.storage.position
}

// Pending returns the number of transitions waiting in the n-step
// window
func (r *ReplayMemory) Pending() int {
	return r.window.len()
}

// MultiStepN returns the number of extra steps folded into each
// stored transition
func (r *ReplayMemory) MultiStepN() int {
	return r.multiStepN
}

// Gamma returns the per-step discount used to fold transitions
func (r *ReplayMemory) Gamma() float64 {
	return r.gamma
}

// Discount returns ℽ^(multiStepN+1), the discount to apply when
// bootstrapping from the next state of a stored transition
func (r *ReplayMemory) Discount() float64 {
	return math.Pow(r.gamma, float64(r.multiStepN+1))
}

// FeatureSize returns the size of the state vectors
func (r *ReplayMemory) FeatureSize() int {
	return r.featureSize
}

// ActionSize returns the size of the action vectors
func (r *ReplayMemory) ActionSize() int {
	return r.actionSize
}

// String returns the string representation of the ReplayMemory
func (r *ReplayMemory) String() string {
	var builder strings.Builder
	for i, t := range r.storage.memory {
		builder.WriteString(fmt.Sprintf("%v: %v", i, t))
		if r.storage.scored() {
			builder.WriteString(fmt.Sprintf(" error: %v", r.storage.scores[i]))
		}
		builder.WriteString(" \n")
	}
	return builder.String()
}
