package expreplay

import (
	"github.com/whathelll/Reinforcement-Learning/timestep"
)

// ring is fixed-capacity storage of transitions which overwrites its
// oldest transition once full.
//
// A scored ring also keeps a priority score for each slot. The score
// array shares the ring's cursor, so a score is always written and
// overwritten together with the transition at the same index.
type ring struct {
	memory   []timestep.Transition
	scores   []float64 // nil when the ring is not scored
	position int
	capacity int
}

// newRing returns a new ring holding at most capacity transitions
func newRing(capacity int, scored bool) *ring {
	var scores []float64
	if scored {
		scores = make([]float64, 0, capacity)
	}

	return &ring{
		memory:   make([]timestep.Transition, 0, capacity),
		scores:   scores,
		position: 0,
		capacity: capacity,
	}
}

// store writes t, and score if the ring is scored, at the current
// position and advances the position. The index written to is
// returned.
func (r *ring) store(t timestep.Transition, score float64) int {
	if len(r.memory) < r.capacity {
		r.memory = append(r.memory, timestep.Transition{})
		if r.scored() {
			r.scores = append(r.scores, 0)
		}
	}

	index := r.position
	r.memory[index] = t
	if r.scored() {
		r.scores[index] = score
	}

	r.position = (r.position + 1) % r.capacity
	return index
}

// scored returns whether the ring keeps priority scores
func (r *ring) scored() bool {
	return r.scores != nil
}

// len returns the number of transitions in the ring
func (r *ring) len() int {
	return len(r.memory)
}

// full returns whether the next store will overwrite a transition
func (r *ring) full() bool {
	return len(r.memory) == r.capacity
}

// insertOrder returns the indices of the ring from the oldest stored
// transition to the newest
func (r *ring) insertOrder() []int {
	order := make([]int, r.len())
	if !r.full() {
		for i := range order {
			order[i] = i
		}
		return order
	}

	for i := range order {
		order[i] = (r.position + i) % r.capacity
	}
	return order
}
