package expreplay

import (
	"github.com/gammazero/deque"
	"github.com/whathelll/Reinforcement-Learning/timestep"
)

// window accumulates consecutive transitions and folds them into
// n-step transitions.
//
// Given the window [t0, t1, ..., t(k-1)], collapsing the window
// removes t0 and emits:
//
//	(t0.State, t0.Action, t(k-1).NextState,
//		t0.Reward + ℽ t1.Reward + ... + ℽ^(k-1) t(k-1).Reward,
//		t(k-1).Done)
//
// The window holds at most n transitions.
type window struct {
	steps *deque.Deque[timestep.Transition]
	n     int
	gamma float64
}

// newWindow returns a new window of length n with discount gamma
func newWindow(n int, gamma float64) *window {
	return &window{
		steps: deque.New[timestep.Transition](),
		n:     n,
		gamma: gamma,
	}
}

// push adds t to the window and passes each n-step transition that
// becomes available to emit. If t is done, the whole window is
// collapsed so that no transitions of the episode are left pending.
func (w *window) push(t timestep.Transition, emit func(timestep.Transition)) {
	w.steps.PushBack(t)

	if w.steps.Len() >= w.n {
		emit(w.collapse())
	}

	if t.Done {
		for w.steps.Len() > 0 {
			emit(w.collapse())
		}
	}
}

// collapse removes the oldest transition in the window and returns
// the n-step transition starting at it
func (w *window) collapse() timestep.Transition {
	last := w.steps.Back()

	reward := 0.0
	discount := 1.0
	for i := 0; i < w.steps.Len(); i++ {
		reward += w.steps.At(i).Reward * discount
		discount *= w.gamma
	}

	head := w.steps.PopFront()
	return timestep.Transition{
		State:     head.State,
		Action:    head.Action,
		NextState: last.NextState,
		Reward:    reward,
		Done:      last.Done,
	}
}

// clear discards all pending transitions and returns how many were
// discarded
func (w *window) clear() int {
	pending := w.steps.Len()
	w.steps.Clear()
	return pending
}

// len returns the number of pending transitions
func (w *window) len() int {
	return w.steps.Len()
}
