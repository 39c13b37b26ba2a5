package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Transition is a single (s, a, s', r, done) record of the
// agent-environment interaction. Transitions are the unit exchanged
// between agents and experience replay buffers.
//
// A Transition should be treated as immutable once constructed.
// NewTransition copies the vectors it is given so that later changes
// to the caller's vectors are not seen by the Transition.
type Transition struct {
	State     mat.Vector
	Action    mat.Vector
	NextState mat.Vector
	Reward    float64
	Done      bool
}

// NewTransition returns a new Transition holding copies of the state,
// action, and next state vectors
func NewTransition(state, action, nextState mat.Vector, reward float64,
	done bool) Transition {
	return Transition{
		State:     mat.VecDenseCopyOf(state),
		Action:    mat.VecDenseCopyOf(action),
		NextState: mat.VecDenseCopyOf(nextState),
		Reward:    reward,
		Done:      done,
	}
}

// NewTransitionFromSteps returns the Transition generated by taking
// action in step and arriving at nextStep. The Transition is done only
// if nextStep is terminal; a truncated nextStep is not done.
func NewTransitionFromSteps(step TimeStep, action mat.Vector,
	nextStep TimeStep) Transition {
	return NewTransition(step.Observation, action, nextStep.Observation,
		nextStep.Reward, nextStep.Terminal())
}

// Equal returns whether two Transitions are structurally equal
func (t Transition) Equal(other Transition) bool {
	return t.Reward == other.Reward &&
		t.Done == other.Done &&
		vecEqual(t.State, other.State) &&
		vecEqual(t.Action, other.Action) &&
		vecEqual(t.NextState, other.NextState)
}

func (t Transition) String() string {
	str := "Transition | State: %v  |  Action: %v  |  Next State: %v  |  " +
		"Reward: %.4f  |  Done: %v"

	return fmt.Sprintf(str, vecData(t.State), vecData(t.Action),
		vecData(t.NextState), t.Reward, t.Done)
}

func vecEqual(a, b mat.Vector) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Len() != b.Len() {
		return false
	}
	return mat.Equal(a, b)
}

func vecData(v mat.Vector) []float64 {
	if v == nil {
		return nil
	}
	return mat.Col(nil, 0, v)
}
