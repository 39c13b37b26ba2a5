// Package expreplay implements experience replay buffers for
// off-policy learning.
//
// Two buffers are provided. ReplayMemory stores transitions in a ring
// buffer and samples them uniformly. PrioritisedReplayMemory also
// tracks a priority for each stored transition and samples
// transitions with probability proportional to priority^alpha.
// Both buffers can fold consecutive transitions into n-step
// transitions before storing them.
//
// An episode that is cut off without a done transition, for example by
// a step limit, loses its tail: EndEpisode discards the up to n
// transitions still waiting in the n-step window, and they are never
// stored.
//
// Buffers are not safe for concurrent use. In particular, the indices
// returned by a prioritised Sample may be overwritten by a concurrent
// Push before the matching Update runs, which silently assigns the
// priority to a different transition. Callers that share a buffer
// between goroutines must serialise the Push/Sample/Update sequence
// themselves.
package expreplay

import (
	"github.com/whathelll/Reinforcement-Learning/timestep"
)

// SentinelPriority is the priority given to each newly stored
// transition so that it is almost surely sampled before its error is
// known
const SentinelPriority = 10000.0

// ExperienceReplayer implements an experience replay buffer
type ExperienceReplayer interface {
	// Push adds a transition to the buffer. Transitions may be
	// buffered and folded into n-step transitions before they are
	// stored.
	Push(t timestep.Transition) error

	// Sample samples a batch of distinct transitions from the buffer
	Sample(batchSize int) (*Batch, error)

	// EndEpisode discards transitions still waiting to be folded into
	// n-step transitions and returns how many were discarded. It
	// should be called when an episode is cut off without reaching a
	// terminal state.
	EndEpisode() int

	// Len returns the current number of transitions in the buffer
	Len() int

	// Capacity returns the maximum number of transitions in the buffer
	Capacity() int

	// Discount returns the discount to apply when bootstrapping from
	// the next state of a stored transition
	Discount() float64
}

// Prioritiser implements an experience replay buffer whose sampling
// distribution is adjusted by the errors observed on sampled batches
type Prioritiser interface {
	ExperienceReplayer

	// Update sets the priorities of the transitions at indices, as
	// returned in a Batch, from the errors observed on them
	Update(indices []int, errs []float64) error
}

var (
	_ ExperienceReplayer = (*ReplayMemory)(nil)
	_ Prioritiser        = (*PrioritisedReplayMemory)(nil)
)
