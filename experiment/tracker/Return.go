package tracker

import (
	ts "github.com/whathelll/Reinforcement-Learning/timestep"
)

// Return implements a Tracker that tracks and saves the undiscounted
// return of each episode in an experiment.
// Note that an episode must finish for this Tracker to save its data.
// If the last episode in an experiment does not finish, that episode's
// return will not be saved.
type Return struct {
	episodeReward  float64
	episodeReturns []float64
	filename       string
}

// NewReturn creates and returns a new Return Tracker which will save
// its data at the specified location filename
func NewReturn(filename string) *Return {
	return &Return{filename: filename}
}

// Track tracks the return of each episode. Rewards are accumulated
// until the last TimeStep of an episode, at which point the episode's
// return is cached.
func (r *Return) Track(t ts.TimeStep) {
	if t.First() {
		r.episodeReward = 0
		return
	}

	r.episodeReward += t.Reward
	if t.Last() {
		r.episodeReturns = append(r.episodeReturns, r.episodeReward)
		r.episodeReward = 0
	}
}

// Data returns the returns of all finished episodes
func (r *Return) Data() []float64 {
	data := make([]float64, len(r.episodeReturns))
	copy(data, r.episodeReturns)
	return data
}

// Save saves the data tracked by the Return Tracker to disk
func (r *Return) Save() error {
	return save(r.filename, r.episodeReturns)
}
