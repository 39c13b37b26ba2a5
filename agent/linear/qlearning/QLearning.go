// Package qlearning implements the Q-Learning algorithm with linear
// function approximation, learning from batches of replayed
// transitions
package qlearning

import (
	"fmt"

	"github.com/whathelll/Reinforcement-Learning/agent"
	"github.com/whathelll/Reinforcement-Learning/agent/linear/policy"
	"github.com/whathelll/Reinforcement-Learning/expreplay"
	"gonum.org/v1/gonum/mat"
)

// QLearning implements the Q-Learning algorithm. The behaviour policy
// is ε-greedy and the target policy is greedy with respect to the same
// weights.
type QLearning struct {
	*policy.EGreedy
	target       *policy.Greedy
	weights      *mat.Dense
	learningRate float64
}

var _ agent.Agent = (*QLearning)(nil)

// New creates a new QLearning agent with the given number of features
// and actions
func New(features, actions int, learningRate, epsilon float64,
	seed uint64) (*QLearning, error) {
	if features < 1 || actions < 1 {
		return nil, fmt.Errorf("new: features and actions must be >= 1 "+
			"\n\thave(%v, %v)", features, actions)
	}
	if learningRate <= 0 {
		return nil, fmt.Errorf("new: learning rate must be > 0 "+
			"\n\thave(%v)", learningRate)
	}
	if epsilon < 0 || epsilon > 1 {
		return nil, fmt.Errorf("new: epsilon must be in [0, 1] "+
			"\n\thave(%v)", epsilon)
	}

	behaviour := policy.NewEGreedy(epsilon, seed, features, actions)
	target := behaviour.GreedyPolicy
	weights := behaviour.Weights()["weights"]

	return &QLearning{behaviour, target, weights, learningRate}, nil
}

// ActionValues returns the estimated value of each action given an
// observation
func (q *QLearning) ActionValues(obs mat.Vector) *mat.VecDense {
	return q.target.ActionValues(obs)
}

// TDErrors returns the TD error r + discount·(1-done)·max_a' Q(s', a')
// - Q(s, a) of each transition in the batch
func (q *QLearning) TDErrors(b *expreplay.Batch,
	discount float64) ([]float64, error) {
	if err := q.checkBatch(b); err != nil {
		return nil, fmt.Errorf("tdErrors: %w", err)
	}

	errs := make([]float64, b.Size())
	for i := range errs {
		action := int(b.A.At(i, 0))
		state := b.S.RowView(i)
		nextState := b.NextS.RowView(i)

		// Find the maximum action value in the next state
		maxVal := mat.Max(q.ActionValues(nextState))

		// Create the update target
		target := b.R.At(i, 0) + discount*(1-b.Done.At(i, 0))*maxVal

		// Find the current estimate of the taken action
		currentEstimate := mat.Dot(q.weights.RowView(action), state)

		errs[i] = target - currentEstimate
	}
	return errs, nil
}

// Learn performs a semi-gradient update of the weights, averaged over
// the batch. If the batch has importance sampling weights, each
// transition's update is scaled by its weight.
func (q *QLearning) Learn(b *expreplay.Batch, tdErrors []float64) error {
	if err := q.checkBatch(b); err != nil {
		return fmt.Errorf("learn: %w", err)
	}
	if len(tdErrors) != b.Size() {
		return fmt.Errorf("learn: TD error count mismatch \n\twant(%v)"+
			"\n\thave(%v)", b.Size(), len(tdErrors))
	}

	actions, features := q.weights.Dims()
	grad := mat.NewDense(actions, features, nil)
	for i, tdError := range tdErrors {
		scale := tdError / float64(b.Size())
		if b.Weights != nil {
			scale *= b.Weights[i]
		}

		// ∇weights[a] = scale * state
		action := int(b.A.At(i, 0))
		row := mat.NewVecDense(features, nil)
		row.AddScaledVec(grad.RowView(action), scale, b.S.RowView(i))
		grad.SetRow(action, row.RawVector().Data)
	}

	grad.Scale(q.learningRate, grad)
	q.weights.Add(q.weights, grad)
	return nil
}

// checkBatch ensures that the batch shapes and actions fit the weights
func (q *QLearning) checkBatch(b *expreplay.Batch) error {
	if b == nil || b.Size() == 0 {
		return fmt.Errorf("empty batch")
	}

	actions, features := q.weights.Dims()
	if _, c := b.S.Dims(); c != features {
		return fmt.Errorf("invalid feature size \n\twant(%v)\n\thave(%v)",
			features, c)
	}
	for i := 0; i < b.Size(); i++ {
		action := b.A.At(i, 0)
		if action < 0 || int(action) >= actions ||
			action != float64(int(action)) {
			return fmt.Errorf("invalid action \n\twant([0, %v))"+
				"\n\thave(%v)", actions, action)
		}
	}
	return nil
}

// Weights gets and returns the weights of the learner
func (q *QLearning) Weights() map[string]*mat.Dense {
	weights := make(map[string]*mat.Dense)
	weights["weights"] = q.weights

	return weights
}

// LearningRate returns the learning rate
func (q *QLearning) LearningRate() float64 {
	return q.learningRate
}
