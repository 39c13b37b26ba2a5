package qlearning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whathelll/Reinforcement-Learning/expreplay"
	"github.com/whathelll/Reinforcement-Learning/timestep"
	"gonum.org/v1/gonum/mat"
)

const tolerance = 1e-9

// newBatch returns a single-transition batch
func newBatch(state, nextState []float64, action, reward float64,
	done bool) *expreplay.Batch {
	d := 0.0
	if done {
		d = 1.0
	}
	return &expreplay.Batch{
		S:       mat.NewDense(1, len(state), state),
		A:       mat.NewDense(1, 1, []float64{action}),
		NextS:   mat.NewDense(1, len(nextState), nextState),
		R:       mat.NewDense(1, 1, []float64{reward}),
		Done:    mat.NewDense(1, 1, []float64{d}),
		Indices: []int{0},
	}
}

func TestQLearningTDErrors(t *testing.T) {
	q, err := New(2, 2, 0.5, 0.1, 1)
	require.NoError(t, err)

	// Q(s, a) = w[a]·s
	w := q.Weights()["weights"]
	w.SetRow(0, []float64{1, 0})
	w.SetRow(1, []float64{0, 2})

	b := newBatch([]float64{1, 0}, []float64{0, 1}, 0, 0.5, false)
	errs, err := q.TDErrors(b, 0.9)
	require.NoError(t, err)
	// 0.5 + 0.9 * max(0, 2) - 1
	assert.InDelta(t, 1.3, errs[0], tolerance)

	b = newBatch([]float64{1, 0}, []float64{0, 1}, 0, 0.5, true)
	errs, err = q.TDErrors(b, 0.9)
	require.NoError(t, err)
	assert.InDelta(t, -0.5, errs[0], tolerance)
}

func TestQLearningLearn(t *testing.T) {
	q, err := New(2, 2, 0.5, 0.1, 1)
	require.NoError(t, err)

	b := newBatch([]float64{1, 0}, []float64{0, 1}, 1, 2, true)
	errs, err := q.TDErrors(b, 0.9)
	require.NoError(t, err)
	require.NoError(t, q.Learn(b, errs))

	w := q.Weights()["weights"]
	assert.InDelta(t, 1.0, w.At(1, 0), tolerance)
	assert.InDelta(t, 0.0, w.At(1, 1), tolerance)
	assert.InDelta(t, 0.0, w.At(0, 0), tolerance)

	// Importance sampling weights scale the update
	b.Weights = []float64{0.5}
	errs, err = q.TDErrors(b, 0.9)
	require.NoError(t, err)
	require.NoError(t, q.Learn(b, errs))
	assert.InDelta(t, 1.25, w.At(1, 0), tolerance)
}

func TestQLearningLearnErrors(t *testing.T) {
	q, err := New(2, 2, 0.5, 0.1, 1)
	require.NoError(t, err)

	b := newBatch([]float64{1, 0}, []float64{0, 1}, 1, 2, true)
	assert.Error(t, q.Learn(b, []float64{1, 2}))

	b = newBatch([]float64{1, 0}, []float64{0, 1}, 2, 2, true)
	_, err = q.TDErrors(b, 0.9)
	assert.Error(t, err)

	b = newBatch([]float64{1, 0, 0}, []float64{0, 1, 0}, 0, 2, true)
	_, err = q.TDErrors(b, 0.9)
	assert.Error(t, err)
}

func TestQLearningSelectAction(t *testing.T) {
	q, err := New(2, 3, 0.5, 0.0, 1)
	require.NoError(t, err)
	q.Weights()["weights"].SetRow(2, []float64{1, 1})

	step := timestep.New(timestep.First, 0, 1,
		mat.NewVecDense(2, []float64{1, 0}), 0)
	for i := 0; i < 10; i++ {
		assert.Equal(t, 2.0, q.SelectAction(step).AtVec(0))
	}

	// Ties are broken over every greedy action
	q.Weights()["weights"].Zero()
	seen := make(map[float64]bool)
	for i := 0; i < 200; i++ {
		seen[q.SelectAction(step).AtVec(0)] = true
	}
	assert.Len(t, seen, 3)
}

func TestQLearningEval(t *testing.T) {
	q, err := New(2, 2, 0.5, 1.0, 1)
	require.NoError(t, err)
	q.Weights()["weights"].SetRow(1, []float64{1, 1})

	step := timestep.New(timestep.First, 0, 1,
		mat.NewVecDense(2, []float64{1, 0}), 0)

	q.Eval()
	assert.True(t, q.IsEval())
	for i := 0; i < 10; i++ {
		assert.Equal(t, 1.0, q.SelectAction(step).AtVec(0))
	}
	q.Train()
	assert.False(t, q.IsEval())
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, Config{Epsilon: 0.1, LearningRate: 0.1}.Validate())
	assert.Error(t, Config{Epsilon: 0.1, LearningRate: 0}.Validate())
	assert.Error(t, Config{Epsilon: 1.1, LearningRate: 0.1}.Validate())

	q, err := Config{Epsilon: 0.1, LearningRate: 0.1}.Create(3, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.1, q.LearningRate())
	assert.Equal(t, 0.1, q.Epsilon())
}
