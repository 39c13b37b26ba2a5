package environment

import (
	"fmt"

	"github.com/whathelll/Reinforcement-Learning/timestep"
)

// StepLimit implements the Ender interface to end episodes at specific
// timestep limits
type StepLimit struct {
	episodeSteps int
}

// NewStepLimit creates and returns a new step limit
func NewStepLimit(episodeSteps int) (StepLimit, error) {
	if episodeSteps < 1 {
		return StepLimit{}, fmt.Errorf("newStepLimit: episode steps must "+
			"be >= 1 \n\thave(%v)", episodeSteps)
	}
	return StepLimit{episodeSteps}, nil
}

// End determines whether or not the current episode should be ended.
// If the step number of t has reached the limit and t is not already
// Last, End returns a Last copy of t with the same discount, so that
// the episode is truncated rather than terminated.
func (s StepLimit) End(t timestep.TimeStep) (timestep.TimeStep, bool) {
	if t.Last() {
		return t, true
	}
	if t.Number >= s.episodeSteps {
		return timestep.New(timestep.Last, t.Reward, t.Discount,
			t.Observation, t.Number), true
	}
	return t, false
}

// EpisodeSteps returns the step limit
func (s StepLimit) EpisodeSteps() int {
	return s.episodeSteps
}
