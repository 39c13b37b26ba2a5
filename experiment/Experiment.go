// Package experiment implements functionality for running an experiment
// where an agent learns from an experience replay buffer
package experiment

import (
	"fmt"

	"github.com/whathelll/Reinforcement-Learning/experiment/tracker"
)

// Interface Experiment outlines structs that can run experiments.
// Experiments track environment TimeSteps, caching each TimeStep's
// data in RAM to be later saved to disk. The Save() function will then
// take all cached data and save it to disk. The Run() method will run
// all episodes until the maximum timestep limit is reached. The
// RunEpisode() function will run a single episode.
type Experiment interface {
	Run() error
	RunEpisode() (bool, error) // Returns whether the step limit was reached

	// Save all tracked data to disk
	Save() error

	// Adds a new tracker.Tracker to the (possibly already running)
	// experiment
	Register(t tracker.Tracker)
}

// Config represents a configuration of an experiment.
//
// The agent starts learning once Warmup steps have been taken, and
// then performs one batch update every TrainEvery steps using batches
// of BatchSize transitions.
type Config struct {
	MaxSteps   int `json:"max_steps" mapstructure:"max_steps"`
	Warmup     int `json:"warmup" mapstructure:"warmup"`
	TrainEvery int `json:"train_every" mapstructure:"train_every"`
	BatchSize  int `json:"batch_size" mapstructure:"batch_size"`
}

// Validate checks a Config's fields for errors
func (c Config) Validate() error {
	if c.MaxSteps < 1 {
		return fmt.Errorf("validate: max steps must be >= 1 \n\thave(%v)",
			c.MaxSteps)
	}
	if c.Warmup < 0 {
		return fmt.Errorf("validate: warmup must be >= 0 \n\thave(%v)",
			c.Warmup)
	}
	if c.TrainEvery < 1 {
		return fmt.Errorf("validate: train every must be >= 1 \n\thave(%v)",
			c.TrainEvery)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("validate: batch size must be >= 1 \n\thave(%v)",
			c.BatchSize)
	}
	return nil
}
