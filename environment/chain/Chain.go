// Package chain implements a random walk along a chain of states. The
// agent starts in the middle of the chain and moves left or right,
// and the episode ends when either end of the chain is reached.
package chain

import (
	"fmt"

	"github.com/whathelll/Reinforcement-Learning/environment"
	"github.com/whathelll/Reinforcement-Learning/timestep"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

const (
	// Left and Right are the two actions of a Chain
	Left  = 0
	Right = 1

	// GoalReward is the reward for reaching the right end of the chain
	GoalReward = 1.0
)

// Chain implements a chain random walk environment. Observations are
// one-hot vectors of the agent's position. Each action moves the agent
// one state left or right, but with probability slip the agent moves
// in the opposite direction. Reaching the right end gives a reward of
// GoalReward and reaching the left end gives 0. Both ends are
// terminal. Episodes that reach the step limit are truncated.
type Chain struct {
	states   int
	position int
	slip     float64
	discount float64

	rng         *rand.Rand
	ender       environment.Ender
	currentStep timestep.TimeStep
}

// New creates a new Chain with the given number of states, slip
// probability, discount, and episode step limit, and returns it along
// with the first TimeStep of its first episode
func New(states int, slip, discount float64, episodeSteps int,
	seed uint64) (*Chain, timestep.TimeStep, error) {
	if states < 3 {
		return nil, timestep.TimeStep{}, fmt.Errorf("new: states must be "+
			">= 3 \n\thave(%v)", states)
	}
	if slip < 0 || slip > 1 {
		return nil, timestep.TimeStep{}, fmt.Errorf("new: slip must be in "+
			"[0, 1] \n\thave(%v)", slip)
	}
	if discount < 0 || discount > 1 {
		return nil, timestep.TimeStep{}, fmt.Errorf("new: discount must be "+
			"in [0, 1] \n\thave(%v)", discount)
	}
	ender, err := environment.NewStepLimit(episodeSteps)
	if err != nil {
		return nil, timestep.TimeStep{}, fmt.Errorf("new: %w", err)
	}

	c := &Chain{
		states:   states,
		slip:     slip,
		discount: discount,
		rng:      rand.New(rand.NewSource(seed)),
		ender:    ender,
	}
	step, err := c.Reset()
	return c, step, err
}

// Reset resets the Chain to the middle state and returns the first
// TimeStep of the new episode
func (c *Chain) Reset() (timestep.TimeStep, error) {
	c.position = c.states / 2
	c.currentStep = timestep.New(timestep.First, 0, c.discount,
		c.observation(), 0)
	return c.currentStep, nil
}

// Step takes one action in the Chain and returns the next TimeStep
// and whether the episode has ended
func (c *Chain) Step(action mat.Vector) (timestep.TimeStep, bool, error) {
	if c.currentStep.Last() {
		return c.currentStep, true, fmt.Errorf("step: episode has ended, " +
			"call Reset")
	}
	if action == nil || action.Len() != 1 {
		return c.currentStep, false, fmt.Errorf("step: action must have " +
			"length 1")
	}

	a := action.AtVec(0)
	var move int
	switch a {
	case Left:
		move = -1
	case Right:
		move = 1
	default:
		return c.currentStep, false, fmt.Errorf("step: invalid action "+
			"\n\twant(%v or %v)\n\thave(%v)", Left, Right, a)
	}
	if c.slip > 0 && c.rng.Float64() < c.slip {
		move = -move
	}
	c.position += move

	number := c.currentStep.Number + 1
	switch c.position {
	case 0:
		c.currentStep = timestep.New(timestep.Last, 0, 0, c.observation(),
			number)
	case c.states - 1:
		c.currentStep = timestep.New(timestep.Last, GoalReward, 0,
			c.observation(), number)
	default:
		c.currentStep = timestep.New(timestep.Mid, 0, c.discount,
			c.observation(), number)
	}

	c.currentStep, _ = c.ender.End(c.currentStep)
	return c.currentStep, c.currentStep.Last(), nil
}

// observation returns the one-hot encoding of the current position
func (c *Chain) observation() mat.Vector {
	obs := mat.NewVecDense(c.states, nil)
	obs.SetVec(c.position, 1.0)
	return obs
}

// Position returns the index of the agent's current state
func (c *Chain) Position() int {
	return c.position
}

// States returns the number of states in the Chain
func (c *Chain) States() int {
	return c.states
}

// LastTimeStep returns the most recent TimeStep
func (c *Chain) LastTimeStep() timestep.TimeStep {
	return c.currentStep
}

// ObservationSpec returns the observation specification of the Chain
func (c *Chain) ObservationSpec() environment.Spec {
	shape := mat.NewVecDense(c.states, nil)
	lower := mat.NewVecDense(c.states, nil)
	upper := mat.NewVecDense(c.states, nil)
	for i := 0; i < c.states; i++ {
		upper.SetVec(i, 1.0)
	}
	return environment.Spec{Shape: shape, Type: environment.Observation,
		LowerBound: lower, UpperBound: upper,
		Cardinality: environment.Discrete}
}

// ActionSpec returns the action specification of the Chain
func (c *Chain) ActionSpec() environment.Spec {
	return environment.Spec{
		Shape:       mat.NewVecDense(1, nil),
		Type:        environment.Action,
		LowerBound:  mat.NewVecDense(1, []float64{Left}),
		UpperBound:  mat.NewVecDense(1, []float64{Right}),
		Cardinality: environment.Discrete,
	}
}

// DiscountSpec returns the discount specification of the Chain
func (c *Chain) DiscountSpec() environment.Spec {
	return environment.Spec{
		Shape:       mat.NewVecDense(1, nil),
		Type:        environment.Discount,
		LowerBound:  mat.NewVecDense(1, []float64{0}),
		UpperBound:  mat.NewVecDense(1, []float64{c.discount}),
		Cardinality: environment.Continuous,
	}
}

func (c *Chain) String() string {
	return fmt.Sprintf("Chain | States: %v  |  Position: %v  |  Slip: %.2f",
		c.states, c.position, c.slip)
}
