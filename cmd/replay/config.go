package main

import (
	"fmt"

	"github.com/whathelll/Reinforcement-Learning/agent/linear/qlearning"
	"github.com/whathelll/Reinforcement-Learning/experiment"
	"github.com/whathelll/Reinforcement-Learning/expreplay"
)

// config holds all settings of a replay run
type config struct {
	Seed uint64 `mapstructure:"seed"`

	// Replay buffer
	Capacity    int     `mapstructure:"capacity"`
	MultiStepN  int     `mapstructure:"multi-step-n"`
	Gamma       float64 `mapstructure:"gamma"`
	Prioritised bool    `mapstructure:"prioritised"`
	E           float64 `mapstructure:"e"`
	Alpha       float64 `mapstructure:"alpha"`
	Beta        float64 `mapstructure:"beta"`

	// Environment
	States       int     `mapstructure:"states"`
	Slip         float64 `mapstructure:"slip"`
	EpisodeSteps int     `mapstructure:"episode-steps"`

	// Agent
	Epsilon      float64 `mapstructure:"epsilon"`
	LearningRate float64 `mapstructure:"learning-rate"`

	// Experiment
	MaxSteps   int `mapstructure:"max-steps"`
	Warmup     int `mapstructure:"warmup"`
	TrainEvery int `mapstructure:"train-every"`
	BatchSize  int `mapstructure:"batch-size"`

	// Output
	OutDir   string `mapstructure:"out-dir"`
	Progress bool   `mapstructure:"progress"`
}

// defaultConfig returns a config with sensible defaults
func defaultConfig() *config {
	replay := expreplay.DefaultConfig(10000)
	return &config{
		Seed:         1,
		Capacity:     replay.Capacity,
		MultiStepN:   replay.MultiStepN,
		Gamma:        replay.MultiStepGamma,
		Prioritised:  replay.Prioritised,
		E:            replay.E,
		Alpha:        replay.Alpha,
		Beta:         replay.Beta,
		States:       11,
		Slip:         0.1,
		EpisodeSteps: 200,
		Epsilon:      0.1,
		LearningRate: 0.1,
		MaxSteps:     50000,
		Warmup:       500,
		TrainEvery:   1,
		BatchSize:    32,
		OutDir:       ".",
		Progress:     true,
	}
}

// replay returns the replay buffer configuration
func (c *config) replay() expreplay.Config {
	return expreplay.Config{
		Capacity:       c.Capacity,
		MultiStepN:     c.MultiStepN,
		MultiStepGamma: c.Gamma,
		Prioritised:    c.Prioritised,
		E:              c.E,
		Alpha:          c.Alpha,
		Beta:           c.Beta,
	}
}

// agent returns the agent configuration
func (c *config) agent() qlearning.Config {
	return qlearning.Config{Epsilon: c.Epsilon, LearningRate: c.LearningRate}
}

// experiment returns the experiment configuration
func (c *config) experiment() experiment.Config {
	return experiment.Config{
		MaxSteps:   c.MaxSteps,
		Warmup:     c.Warmup,
		TrainEvery: c.TrainEvery,
		BatchSize:  c.BatchSize,
	}
}

// Validate checks if the configuration is valid
func (c *config) Validate() error {
	if err := c.replay().Validate(); err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	if err := c.agent().Validate(); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	if err := c.experiment().Validate(); err != nil {
		return fmt.Errorf("experiment: %w", err)
	}
	if c.BatchSize > c.Capacity {
		return fmt.Errorf("batch-size must not exceed capacity")
	}
	if c.States < 3 {
		return fmt.Errorf("states must be >= 3")
	}
	if c.EpisodeSteps < 1 {
		return fmt.Errorf("episode-steps must be positive")
	}
	if c.OutDir == "" {
		return fmt.Errorf("out-dir is required")
	}
	return nil
}
