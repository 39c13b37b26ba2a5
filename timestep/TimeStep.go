// Package timestep implements timesteps of the agent-environment
// interaction and the transitions built from consecutive timesteps
package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// StepType denotes the type of step that a TimeStep can be, either the
// first environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// TimeStep packages together a single timestep in an environment.
//
// A Last TimeStep with a Discount of 0 ends the episode in a terminal
// state. A Last TimeStep with a non-zero Discount was cut off, for
// example by a step limit, and the episode could have continued.
type TimeStep struct {
	stepType    StepType
	Reward      float64
	Discount    float64
	Observation mat.Vector
	Number      int
}

// New returns a new TimeStep
func New(t StepType, r, d float64, o mat.Vector, n int) TimeStep {
	return TimeStep{t, r, d, o, n}
}

// First returns whether a TimeStep is the first in an environment
func (t *TimeStep) First() bool {
	return t.stepType == First
}

// Mid returns whether a TimeStep is a middle step in an environment
func (t *TimeStep) Mid() bool {
	return t.stepType == Mid
}

// Last returns whether a TimeStep is the last step in an environment
func (t *TimeStep) Last() bool {
	return t.stepType == Last
}

// Terminal returns whether a TimeStep ended the episode in a terminal
// state
func (t *TimeStep) Terminal() bool {
	return t.Last() && t.Discount == 0
}

// Truncated returns whether a TimeStep ended the episode without
// reaching a terminal state
func (t *TimeStep) Truncated() bool {
	return t.Last() && t.Discount != 0
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  Reward:  %.2f  |  Discount: %.2f  |  " +
		"Step Number:  %v"

	return fmt.Sprintf(str, t.stepType, t.Reward, t.Discount, t.Number)
}
