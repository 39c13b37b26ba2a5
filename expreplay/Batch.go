package expreplay

import (
	"fmt"
	"sync"

	"github.com/whathelll/Reinforcement-Learning/timestep"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

// Batch is a batch of transitions sampled from an experience replay
// buffer, stored as a structure of arrays. Row i of each matrix
// belongs to the transition stored at index Indices[i] of the buffer.
//
// For a batch of size k, state size d, and action size m:
//
//	S     k × d
//	A     k × m   (k × 1 for scalar actions)
//	NextS k × d
//	R     k × 1
//	Done  k × 1   (1 for terminal transitions, 0 otherwise)
type Batch struct {
	S     *mat.Dense
	A     *mat.Dense
	NextS *mat.Dense
	R     *mat.Dense
	Done  *mat.Dense

	// Indices are the buffer indices the batch was drawn from. These
	// are the indices to pass back to Update in prioritised replay.
	Indices []int

	// Weights are the normalized importance sampling weights of the
	// batch. Weights is nil unless the buffer was created with
	// beta > 0, and the weights are never applied by the buffer.
	Weights []float64
}

// newBatch gathers the transitions of memory at indices into a Batch
func newBatch(memory []timestep.Transition, indices []int, featureSize,
	actionSize int) *Batch {
	batchSize := len(indices)

	b := &Batch{
		S:       mat.NewDense(batchSize, featureSize, nil),
		A:       mat.NewDense(batchSize, actionSize, nil),
		NextS:   mat.NewDense(batchSize, featureSize, nil),
		R:       mat.NewDense(batchSize, 1, nil),
		Done:    mat.NewDense(batchSize, 1, nil),
		Indices: indices,
	}

	// Fill the state and action batches. Each goroutine writes to its
	// own row only.
	var wait sync.WaitGroup
	wait.Add(len(indices))
	for i, index := range indices {
		go func(i int, t timestep.Transition) {
			mat.Col(b.S.RawRowView(i), 0, t.State)
			mat.Col(b.A.RawRowView(i), 0, t.Action)
			mat.Col(b.NextS.RawRowView(i), 0, t.NextState)
			wait.Done()
		}(i, memory[index])
	}

	for i, index := range indices {
		b.R.Set(i, 0, memory[index].Reward)
		if memory[index].Done {
			b.Done.Set(i, 0, 1.0)
		}
	}

	wait.Wait()
	return b
}

// Size returns the number of transitions in the batch
func (b *Batch) Size() int {
	return len(b.Indices)
}

// Tensors returns the batch as tensors with the same shapes as the
// batch matrices. The tensors share their backing data with the
// matrices.
func (b *Batch) Tensors() (s, a, nextS, r, done *tensor.Dense) {
	return denseTensor(b.S), denseTensor(b.A), denseTensor(b.NextS),
		denseTensor(b.R), denseTensor(b.Done)
}

// denseTensor returns a tensor backed by the data of m
func denseTensor(m *mat.Dense) *tensor.Dense {
	rows, cols := m.Dims()
	return tensor.New(
		tensor.WithShape(rows, cols),
		tensor.WithBacking(m.RawMatrix().Data),
	)
}

// String returns the string representation of the Batch
func (b *Batch) String() string {
	baseStr := "Indices: %v \nStates: %v \nActions: %v \nRewards: %v" +
		" \nDone: %v \nNext States: %v \nWeights: %v"
	return fmt.Sprintf(baseStr, b.Indices, mat.Formatted(b.S),
		mat.Formatted(b.A), mat.Formatted(b.R.T()), mat.Formatted(b.Done.T()),
		mat.Formatted(b.NextS), b.Weights)
}
