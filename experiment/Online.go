package experiment

import (
	"fmt"

	"github.com/whathelll/Reinforcement-Learning/agent"
	env "github.com/whathelll/Reinforcement-Learning/environment"
	"github.com/whathelll/Reinforcement-Learning/experiment/tracker"
	"github.com/whathelll/Reinforcement-Learning/expreplay"
	ts "github.com/whathelll/Reinforcement-Learning/timestep"
)

// Online is an Experiment that runs an agent online, pushing every
// transition into an experience replay buffer and learning from
// batches sampled from it. No offline evaluation is performed.
//
// If the replay buffer is an expreplay.Prioritiser, the TD errors of
// each batch are used to update the priorities of the batch.
type Online struct {
	env.Environment
	agent.Agent
	replay expreplay.ExperienceReplayer

	config       Config
	currentSteps int
	updates      int
	trackers     []tracker.Tracker
}

var _ Experiment = (*Online)(nil)

// NewOnline creates and returns a new online experiment on a given
// environment with a given agent and replay buffer. The t parameter is
// a slice of tracker.Tracker which determine what data is saved.
func NewOnline(e env.Environment, a agent.Agent,
	replay expreplay.ExperienceReplayer, config Config,
	t ...tracker.Tracker) (*Online, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("newOnline: %w", err)
	}
	return &Online{
		Environment: e,
		Agent:       a,
		replay:      replay,
		config:      config,
		trackers:    t,
	}, nil
}

// Register registers a tracker.Tracker with an Experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t tracker.Tracker) {
	o.trackers = append(o.trackers, t)
}

// RunEpisode runs a single episode of the experiment
func (o *Online) RunEpisode() (bool, error) {
	step, err := o.Environment.Reset()
	if err != nil {
		return false, fmt.Errorf("runEpisode: %w", err)
	}
	o.track(step)

	for !step.Last() && o.currentSteps < o.config.MaxSteps {
		o.currentSteps++

		// Select action, step in environment
		action := o.Agent.SelectAction(step)
		nextStep, _, err := o.Environment.Step(action)
		if err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}

		// Cache the environment step in each Tracker
		o.track(nextStep)

		transition := ts.NewTransitionFromSteps(step, action, nextStep)
		if err := o.replay.Push(transition); err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}
		if nextStep.Truncated() {
			o.replay.EndEpisode()
		}

		if err := o.train(); err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}
		step = nextStep
	}

	// The step limit cut the episode off
	if !step.Last() {
		o.replay.EndEpisode()
	}

	// Return whether or not the max timestep limit has been reached
	return o.currentSteps >= o.config.MaxSteps, nil
}

// train performs a single batch update if one is due
func (o *Online) train() error {
	if o.currentSteps < o.config.Warmup ||
		o.currentSteps%o.config.TrainEvery != 0 ||
		o.replay.Len() < o.config.BatchSize {
		return nil
	}

	batch, err := o.replay.Sample(o.config.BatchSize)
	if err != nil {
		return err
	}

	tdErrors, err := o.Agent.TDErrors(batch, o.replay.Discount())
	if err != nil {
		return err
	}
	if err := o.Agent.Learn(batch, tdErrors); err != nil {
		return err
	}

	if p, ok := o.replay.(expreplay.Prioritiser); ok {
		if err := p.Update(batch.Indices, tdErrors); err != nil {
			return err
		}
	}

	o.updates++
	return nil
}

// Run runs the entire experiment for all timesteps
func (o *Online) Run() error {
	ended := false

	for !ended {
		var err error
		if ended, err = o.RunEpisode(); err != nil {
			return err
		}
	}
	return nil
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			return err
		}
	}
	return nil
}

// CurrentSteps returns the number of steps taken so far
func (o *Online) CurrentSteps() int {
	return o.currentSteps
}

// Updates returns the number of batch updates performed so far
func (o *Online) Updates() int {
	return o.updates
}

// track tracks the current timestep by caching its data in each Tracker
func (o *Online) track(t ts.TimeStep) {
	for _, tracker := range o.trackers {
		tracker.Track(t)
	}
}
