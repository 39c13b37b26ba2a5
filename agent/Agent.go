// Package agent defines the interfaces of agents that learn from
// experience replay
package agent

import (
	"github.com/whathelll/Reinforcement-Learning/expreplay"
	"github.com/whathelll/Reinforcement-Learning/timestep"
	"gonum.org/v1/gonum/mat"
)

// Agent determines the implementation details of an agent or algorithm
//
// An Agent is composed of a Learner, which learns weights, and a Policy
// which chooses actions in each state. The Policy and Learner share
// weights, so that any changes the Learner makes to the weights are
// reflected in the actions the Policy chooses.
type Agent interface {
	Learner
	Policy
}

// Learner implements a learning algorithm that learns from batches of
// transitions sampled from an experience replay buffer
type Learner interface {
	// TDErrors returns the TD error of each transition in the batch,
	// where discount is the discount applied to the value of each
	// transition's next state
	TDErrors(b *expreplay.Batch, discount float64) ([]float64, error)

	// Learn performs a single update using a batch and the TD errors
	// returned by TDErrors for that batch
	Learn(b *expreplay.Batch, tdErrors []float64) error
}

// Policy represents a policy that an agent can have.
//
// Policies determine how agents select actions.
type Policy interface {
	SelectAction(t timestep.TimeStep) *mat.VecDense
	Eval()        // Set policy to evaluation mode
	Train()       // Set policy to training mode
	IsEval() bool // Indicates if in evaluation mode
}
