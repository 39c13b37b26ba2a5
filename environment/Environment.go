// Package environment outlines the interfaces and structs needed to
// implement concrete environments that generate transitions for
// experience replay
package environment

import (
	"github.com/whathelll/Reinforcement-Learning/timestep"
	"gonum.org/v1/gonum/mat"
)

// Ender determines when an episode should be cut off
type Ender interface {
	// End returns the TimeStep to hand back to the agent and whether
	// the episode was ended. An ended TimeStep is Last but keeps its
	// discount, so it is truncated rather than terminal.
	End(t timestep.TimeStep) (timestep.TimeStep, bool)
}

// Environment implements a simulated environment. Reset starts a new
// episode. Step takes an action and returns the next TimeStep along
// with whether the episode ended.
type Environment interface {
	Reset() (timestep.TimeStep, error)
	Step(action mat.Vector) (timestep.TimeStep, bool, error)
	ObservationSpec() Spec
	ActionSpec() Spec
	DiscountSpec() Spec
}
