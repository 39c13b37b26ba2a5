package timestep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNewTransitionCopiesVectors(t *testing.T) {
	state := mat.NewVecDense(4, []float64{0, 1, 2, 3})
	action := mat.NewVecDense(1, []float64{1})
	nextState := mat.NewVecDense(4, []float64{4, 5, 6, 7})

	tr := NewTransition(state, action, nextState, 1.5, false)

	state.SetVec(0, 100)
	action.SetVec(0, 100)
	nextState.SetVec(0, 100)

	assert.Equal(t, 0.0, tr.State.AtVec(0))
	assert.Equal(t, 1.0, tr.Action.AtVec(0))
	assert.Equal(t, 4.0, tr.NextState.AtVec(0))
	assert.Equal(t, 1.5, tr.Reward)
	assert.False(t, tr.Done)
}

func TestTransitionEqual(t *testing.T) {
	a := NewTransition(
		mat.NewVecDense(2, []float64{0, 1}),
		mat.NewVecDense(1, []float64{0}),
		mat.NewVecDense(2, []float64{1, 2}),
		1, true,
	)
	b := NewTransition(
		mat.NewVecDense(2, []float64{0, 1}),
		mat.NewVecDense(1, []float64{0}),
		mat.NewVecDense(2, []float64{1, 2}),
		1, true,
	)
	assert.True(t, a.Equal(b))

	c := b
	c.Reward = 2
	assert.False(t, a.Equal(c))

	d := NewTransition(
		mat.NewVecDense(3, []float64{0, 1, 0}),
		mat.NewVecDense(1, []float64{0}),
		mat.NewVecDense(2, []float64{1, 2}),
		1, true,
	)
	assert.False(t, a.Equal(d))
}

func TestNewTransitionFromSteps(t *testing.T) {
	obs := mat.NewVecDense(2, []float64{1, 0})
	nextObs := mat.NewVecDense(2, []float64{0, 1})
	action := mat.NewVecDense(1, []float64{1})

	first := New(First, 0, 0.99, obs, 0)
	terminal := New(Last, 1, 0, nextObs, 1)
	truncated := New(Last, 1, 0.99, nextObs, 1)

	tr := NewTransitionFromSteps(first, action, terminal)
	require.True(t, tr.Done)
	assert.Equal(t, 1.0, tr.Reward)
	assert.True(t, mat.Equal(obs, tr.State))
	assert.True(t, mat.Equal(nextObs, tr.NextState))

	tr = NewTransitionFromSteps(first, action, truncated)
	assert.False(t, tr.Done)
	assert.True(t, truncated.Truncated())
	assert.False(t, truncated.Terminal())
}
