package expreplay

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func newTestPrioritised(t *testing.T, capacity int,
	beta float64) *PrioritisedReplayMemory {
	memory, err := NewPrioritised(capacity, 0, 0.99, 0.1, 0.5, beta, 4, 1, 1)
	require.NoError(t, err)
	return memory
}

func TestPrioritisedAppend(t *testing.T) {
	memory := newTestPrioritised(t, 10, 0)

	for i := 0; i < 20; i++ {
		require.NoError(t, memory.Push(newTestTransition(3, 0, true)))
	}
	assert.Equal(t, 10, memory.Len())
	assert.Len(t, memory.Priorities(), 10)
	for _, priority := range memory.Priorities() {
		assert.Equal(t, SentinelPriority, priority)
	}
}

func TestPrioritisedSample(t *testing.T) {
	memory := newTestPrioritised(t, 10, 0)
	for i := 0; i < 10; i++ {
		require.NoError(t, memory.Push(newTestTransition(i, 0, true)))
	}

	batch, err := memory.Sample(2)
	require.NoError(t, err)

	assertShape(t, batch.S, 2, 4)
	assertShape(t, batch.A, 2, 1)
	assertShape(t, batch.NextS, 2, 4)
	assertShape(t, batch.R, 2, 1)
	assertShape(t, batch.Done, 2, 1)
	require.Len(t, batch.Indices, 2)
	assert.NotEqual(t, batch.Indices[0], batch.Indices[1])
	assert.Nil(t, batch.Weights)
}

func TestPrioritisedSampleWithoutReplacement(t *testing.T) {
	memory := newTestPrioritised(t, 10, 0)
	for i := 0; i < 10; i++ {
		require.NoError(t, memory.Push(newTestTransition(i, 0, false)))
	}
	require.NoError(t, memory.Update([]int{0, 1, 2}, []float64{0, 0, 0}))

	for trial := 0; trial < 100; trial++ {
		batch, err := memory.Sample(10)
		require.NoError(t, err)

		seen := make(map[int]bool)
		for _, index := range batch.Indices {
			assert.False(t, seen[index], "index %v sampled twice", index)
			seen[index] = true
		}
	}
}

func TestPrioritisedSampleErrors(t *testing.T) {
	memory := newTestPrioritised(t, 10, 0)

	_, err := memory.Sample(1)
	assert.True(t, IsEmptyBuffer(err))

	require.NoError(t, memory.Push(newTestTransition(0, 0, false)))
	_, err = memory.Sample(2)
	assert.True(t, IsInsufficientSamples(err))
}

func TestPrioritisedUpdate(t *testing.T) {
	memory := newTestPrioritised(t, 10, 0)
	for i := 0; i < 10; i++ {
		require.NoError(t, memory.Push(newTestTransition(i, 0, true)))
	}

	require.NoError(t, memory.Update([]int{1, 3}, []float64{2, 5}))
	assert.InDelta(t, 2.1, memory.Priority(1), tolerance)
	assert.InDelta(t, 5.1, memory.Priority(3), tolerance)
	assert.Equal(t, SentinelPriority, memory.Priority(0))

	// Updates overwrite rather than accumulate, and use |error|
	require.NoError(t, memory.Update([]int{1}, []float64{-0.4}))
	assert.InDelta(t, 0.5, memory.Priority(1), tolerance)
}

func TestPrioritisedUpdateErrors(t *testing.T) {
	memory := newTestPrioritised(t, 10, 0)
	for i := 0; i < 3; i++ {
		require.NoError(t, memory.Push(newTestTransition(i, 0, false)))
	}

	err := memory.Update([]int{0, 1}, []float64{1})
	assert.True(t, IsInvalidConfig(err))

	err = memory.Update([]int{3}, []float64{1})
	assert.True(t, IsInvalidConfig(err))

	err = memory.Update([]int{-1}, []float64{1})
	assert.True(t, IsInvalidConfig(err))

	// A failed update changes nothing
	err = memory.Update([]int{0, 5}, []float64{1, 1})
	assert.Error(t, err)
	assert.Equal(t, SentinelPriority, memory.Priority(0))
}

func TestPrioritisedSentinelDominance(t *testing.T) {
	memory := newTestPrioritised(t, 10, 0)
	for i := 0; i < 10; i++ {
		require.NoError(t, memory.Push(newTestTransition(i, 0, false)))
	}

	// Score every transition except the last with a zero error
	scored := []int{0, 1, 2, 3, 4, 5, 6, 7, 8}
	require.NoError(t, memory.Update(scored, make([]float64, len(scored))))

	probability := memory.Probabilities()
	assert.InDelta(t, 1.0, floats.Sum(probability), tolerance)
	assert.Greater(t, probability[9], 0.95)
	for _, index := range scored {
		assert.Less(t, probability[index], probability[9]/100)
	}

	draws := 5000
	count := 0
	for i := 0; i < draws; i++ {
		batch, err := memory.Sample(1)
		require.NoError(t, err)
		if batch.Indices[0] == 9 {
			count++
		}
	}
	assert.InDelta(t, probability[9], float64(count)/float64(draws), 0.02)
}

func TestPrioritisedProportional(t *testing.T) {
	memory, err := NewPrioritised(2, 0, 0.99, 0.1, 1.0, 0, 4, 1, 7)
	require.NoError(t, err)
	require.NoError(t, memory.Push(newTestTransition(0, 0, false)))
	require.NoError(t, memory.Push(newTestTransition(1, 0, false)))

	// Priorities 1 and 3 give probabilities 1/4 and 3/4 with alpha = 1
	require.NoError(t, memory.Update([]int{0, 1}, []float64{0.9, 2.9}))
	probability := memory.Probabilities()
	assert.InDelta(t, 0.25, probability[0], tolerance)
	assert.InDelta(t, 0.75, probability[1], tolerance)

	draws := 10000
	count := 0
	for i := 0; i < draws; i++ {
		batch, err := memory.Sample(1)
		require.NoError(t, err)
		if batch.Indices[0] == 0 {
			count++
		}
	}
	assert.InDelta(t, 0.25, float64(count)/float64(draws), 0.02)
}

func TestPrioritisedOverwriteResetsPriority(t *testing.T) {
	memory := newTestPrioritised(t, 3, 0)
	for i := 0; i < 3; i++ {
		require.NoError(t, memory.Push(newTestTransition(i, 0, false)))
	}
	require.NoError(t, memory.Update([]int{0, 1, 2}, []float64{1, 1, 1}))

	// The next push wraps around to slot 0
	require.NoError(t, memory.Push(newTestTransition(3, 0, false)))
	assert.Equal(t, SentinelPriority, memory.Priority(0))
	assert.InDelta(t, 1.1, memory.Priority(1), tolerance)
	assert.InDelta(t, 1.1, memory.Priority(2), tolerance)
	assert.Equal(t, 3.0, memory.At(0).State.AtVec(3))
}

func TestPrioritisedAlphaZeroIsUniform(t *testing.T) {
	memory, err := NewPrioritised(4, 0, 0.99, 0.1, 0, 0, 4, 1, 1)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		require.NoError(t, memory.Push(newTestTransition(i, 0, false)))
	}
	require.NoError(t, memory.Update([]int{0, 1}, []float64{0, 100}))

	for _, p := range memory.Probabilities() {
		assert.InDelta(t, 0.25, p, tolerance)
	}
}

func TestPrioritisedImportanceWeights(t *testing.T) {
	memory := newTestPrioritised(t, 4, 0.4)
	for i := 0; i < 4; i++ {
		require.NoError(t, memory.Push(newTestTransition(i, 1, false)))
	}
	require.NoError(t, memory.Update([]int{0, 1, 2}, []float64{0, 1, 3}))

	batch, err := memory.Sample(4)
	require.NoError(t, err)
	require.Len(t, batch.Weights, 4)
	assert.InDelta(t, 1.0, floats.Max(batch.Weights), tolerance)

	// Rarely drawn transitions get the largest weights
	weights, err := memory.ImportanceWeights([]int{0, 3}, 0.4)
	require.NoError(t, err)
	assert.Greater(t, weights[0], weights[1])
	assert.InDelta(t, 1.0, weights[0], tolerance)

	// Weights are never applied to the sampled rewards
	for i := 0; i < batch.Size(); i++ {
		assert.Equal(t, 1.0, batch.R.At(i, 0))
	}
}

func TestNewPrioritisedInvalid(t *testing.T) {
	tests := []struct {
		name           string
		e, alpha, beta float64
	}{
		{"zero e", 0, 0.5, 0},
		{"negative e", -0.1, 0.5, 0},
		{"negative alpha", 0.1, -0.5, 0},
		{"negative beta", 0.1, 0.5, -0.1},
		{"beta too large", 0.1, 0.5, 1.1},
		{"alpha too large", 0.1, MaxAlpha + 1, 0},
		{"overflowing alpha", 0.1, 80, 0},
		{"infinite alpha", 0.1, math.Inf(1), 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewPrioritised(10, 0, 0.99, test.e, test.alpha,
				test.beta, 4, 1, 1)
			assert.True(t, IsInvalidConfig(err))
		})
	}

	_, err := NewPrioritised(0, 0, 0.99, 0.1, 0.5, 0, 4, 1, 1)
	assert.True(t, IsInvalidConfig(err))
}

func TestPrioritisedMultiStep(t *testing.T) {
	memory, err := NewPrioritised(10, 2, 0.99, 0.1, 0.5, 0, 4, 1, 1)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, memory.Push(newTestTransition(i, 1, false)))
	}
	require.NoError(t, memory.Push(newTestTransition(10, 10, true)))

	require.Equal(t, 6, memory.Len())
	assert.InDelta(t, 11.791, memory.At(3).Reward, tolerance)
	for _, priority := range memory.Priorities() {
		assert.Equal(t, SentinelPriority, priority)
	}
}

func TestPrioritisedImportanceWeightsOutOfRange(t *testing.T) {
	memory := newTestPrioritised(t, 4, 0.4)
	for i := 0; i < 2; i++ {
		require.NoError(t, memory.Push(newTestTransition(i, 1, false)))
	}

	_, err := memory.ImportanceWeights([]int{0, 2}, 0.4)
	assert.True(t, IsInvalidConfig(err))
	_, err = memory.ImportanceWeights([]int{-1}, 0.4)
	assert.True(t, IsInvalidConfig(err))
}

func TestPrioritisedUpdateNonFinite(t *testing.T) {
	tests := []struct {
		name  string
		value float64
	}{
		{"NaN", math.NaN()},
		{"positive infinity", math.Inf(1)},
		{"negative infinity", math.Inf(-1)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			memory := newTestPrioritised(t, 10, 0)
			for i := 0; i < 10; i++ {
				require.NoError(t, memory.Push(newTestTransition(i, 0, false)))
			}

			err := memory.Update([]int{1, 0}, []float64{2, test.value})
			assert.True(t, IsDegeneratePriority(err))
			for _, priority := range memory.Priorities() {
				assert.Equal(t, SentinelPriority, priority)
			}

			batch, err := memory.Sample(3)
			require.NoError(t, err)
			assert.Len(t, batch.Indices, 3)
		})
	}
}

func TestPrioritisedMaxAlpha(t *testing.T) {
	memory, err := NewPrioritised(10, 0, 0.99, 0.1, MaxAlpha, 0, 4, 1, 1)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		require.NoError(t, memory.Push(newTestTransition(i, 0, false)))
	}

	assert.InDelta(t, 1.0, floats.Sum(memory.Probabilities()), tolerance)
	batch, err := memory.Sample(10)
	require.NoError(t, err)
	assert.Len(t, batch.Indices, 10)
}

func TestPrioritisedSampleDegenerate(t *testing.T) {
	for _, value := range []float64{math.NaN(), math.Inf(1), 0} {
		memory := newTestPrioritised(t, 10, 0)
		for i := 0; i < 10; i++ {
			require.NoError(t, memory.Push(newTestTransition(i, 0, false)))
		}

		// Corrupt the stored priorities directly
		for i := range memory.storage.scores {
			if value == 0 || i == 0 {
				memory.storage.scores[i] = value
			}
		}

		_, err := memory.Sample(3)
		assert.True(t, IsDegeneratePriority(err), "priority %v", value)
	}
}
