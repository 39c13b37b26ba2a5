package experiment

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whathelll/Reinforcement-Learning/agent/linear/qlearning"
	"github.com/whathelll/Reinforcement-Learning/environment/chain"
	"github.com/whathelll/Reinforcement-Learning/experiment/tracker"
	"github.com/whathelll/Reinforcement-Learning/expreplay"
)

func newTestExperiment(t *testing.T, replay expreplay.ExperienceReplayer,
	states, episodeSteps int, config Config,
	trackers ...tracker.Tracker) *Online {
	env, _, err := chain.New(states, 0.1, 0.9, episodeSteps, 1)
	require.NoError(t, err)

	q, err := qlearning.New(states, 2, 0.1, 0.1, 1)
	require.NoError(t, err)

	o, err := NewOnline(env, q, replay, config, trackers...)
	require.NoError(t, err)
	return o
}

func TestOnlineUniform(t *testing.T) {
	replay, err := expreplay.New(500, 1, 0.9, 5, 1, 1)
	require.NoError(t, err)

	returnFile := filepath.Join(t.TempDir(), "return.bin")
	returns := tracker.NewReturn(returnFile)
	lengths := tracker.NewEpisodeLength(filepath.Join(t.TempDir(),
		"length.bin"))
	config := Config{MaxSteps: 2000, Warmup: 50, TrainEvery: 1, BatchSize: 8}
	o := newTestExperiment(t, replay, 5, 100, config, returns, lengths)

	require.NoError(t, o.Run())
	assert.Equal(t, 2000, o.CurrentSteps())
	assert.Greater(t, o.Updates(), 0)
	assert.Greater(t, replay.Len(), 0)

	require.NotEmpty(t, returns.Data())
	for _, r := range returns.Data() {
		assert.Contains(t, []float64{0, chain.GoalReward}, r)
	}
	assert.Len(t, lengths.Data(), len(returns.Data()))

	require.NoError(t, o.Save())
	data, err := tracker.LoadData(returnFile)
	require.NoError(t, err)
	assert.Equal(t, returns.Data(), data)
}

func TestOnlinePrioritised(t *testing.T) {
	replay, err := expreplay.NewPrioritised(500, 0, 0.9, 0.1, 0.5, 0.4, 5,
		1, 1)
	require.NoError(t, err)

	config := Config{MaxSteps: 500, Warmup: 10, TrainEvery: 2, BatchSize: 4}
	o := newTestExperiment(t, replay, 5, 100, config)

	require.NoError(t, o.Run())
	assert.Greater(t, o.Updates(), 0)

	// Every batch update replaces sentinel priorities with errors
	updated := 0
	for _, priority := range replay.Priorities() {
		if priority != expreplay.SentinelPriority {
			updated++
			assert.GreaterOrEqual(t, priority, replay.E())
		}
	}
	assert.Greater(t, updated, 0)
}

func TestOnlineTruncationClearsWindow(t *testing.T) {
	replay, err := expreplay.New(100, 3, 0.9, 21, 1, 1)
	require.NoError(t, err)

	// Every episode is cut off after a single step, before the chain
	// can reach either end, so no n-step transition is ever completed
	config := Config{MaxSteps: 50, Warmup: 100, TrainEvery: 1, BatchSize: 1}
	o := newTestExperiment(t, replay, 21, 1, config)

	require.NoError(t, o.Run())
	assert.Equal(t, 0, replay.Len())
	assert.Equal(t, 0, replay.Pending())
	assert.Equal(t, 0, o.Updates())
}

func TestConfigValidate(t *testing.T) {
	valid := Config{MaxSteps: 10, Warmup: 0, TrainEvery: 1, BatchSize: 1}
	assert.NoError(t, valid.Validate())

	invalid := []Config{
		{MaxSteps: 0, TrainEvery: 1, BatchSize: 1},
		{MaxSteps: 10, Warmup: -1, TrainEvery: 1, BatchSize: 1},
		{MaxSteps: 10, TrainEvery: 0, BatchSize: 1},
		{MaxSteps: 10, TrainEvery: 1, BatchSize: 0},
	}
	for _, c := range invalid {
		assert.Error(t, c.Validate())
	}
}
