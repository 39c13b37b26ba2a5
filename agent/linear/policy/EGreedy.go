// Package policy implements policies using linear function
// approximation
package policy

import (
	"github.com/whathelll/Reinforcement-Learning/timestep"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// EGreedy implements an ε-greedy policy using linear function
// approximation. In evaluation mode, EGreedy selects greedy actions.
type EGreedy struct {
	weights      *mat.Dense
	GreedyPolicy *Greedy
	epsilon      float64
	seed         rand.Source // Seed for random number generation
	eval         bool
}

// NewEGreedy constructs a new EGreedy policy, where e=epsilon is the
// probability with which a random action is selected
func NewEGreedy(e float64, seed uint64, features, actions int) *EGreedy {
	source := rand.NewSource(seed)

	greedyPolicy := NewGreedy(features, actions, seed+1)
	weights := greedyPolicy.weights // Share weights between both Policies

	return &EGreedy{weights, greedyPolicy, e, source, false}
}

// Weights gets and returns the weights of the EGreedy policy as a
// string description -> weights
func (p *EGreedy) Weights() map[string]*mat.Dense {
	weights := make(map[string]*mat.Dense)
	weights["weights"] = p.weights

	return weights
}

// Epsilon returns the probability of selecting a random action
func (p *EGreedy) Epsilon() float64 {
	return p.epsilon
}

// SelectAction selects an action from an ε-greedy policy
func (p *EGreedy) SelectAction(t timestep.TimeStep) *mat.VecDense {
	// Get the greedy action
	greedyAction := p.GreedyPolicy.SelectAction(t)
	if p.eval || p.epsilon == 0 {
		return greedyAction
	}

	// Calculate the ε probability of choosing any action at random
	numActions, _ := p.weights.Dims()
	prob := p.epsilon / float64(numActions)
	actionProbabilites := make([]float64, numActions)
	for i := 0; i < numActions; i++ {
		actionProbabilites[i] = prob
	}

	// Adjust the probability of choosing the greedy action
	actionProbabilites[int(greedyAction.AtVec(0))] += 1.0 - p.epsilon

	// Construct a categorical distribution over actions using action
	// probabilities
	dist := distuv.NewCategorical(actionProbabilites, p.seed)

	// Sample an action given the action probabilites and return
	return mat.NewVecDense(1, []float64{dist.Rand()})
}

// Eval sets the policy to evaluation mode
func (p *EGreedy) Eval() {
	p.eval = true
}

// Train sets the policy to training mode
func (p *EGreedy) Train() {
	p.eval = false
}

// IsEval indicates whether the policy is in evaluation mode
func (p *EGreedy) IsEval() bool {
	return p.eval
}
