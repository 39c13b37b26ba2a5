package policy

import (
	"github.com/whathelll/Reinforcement-Learning/timestep"
	"github.com/whathelll/Reinforcement-Learning/utils/floatutils"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// Greedy implements a greedy policy using linear function
// approximation. Ties between greedy actions are broken randomly.
type Greedy struct {
	weights *mat.Dense
	rng     *rand.Rand
}

// NewGreedy creates a new Greedy policy
func NewGreedy(features, actions int, seed uint64) *Greedy {
	weights := mat.NewDense(actions, features, nil)
	return &Greedy{weights, rand.New(rand.NewSource(seed))}
}

// Weights gets and returns the weights of the Greedy policy as a
// string description -> weights
func (p *Greedy) Weights() map[string]*mat.Dense {
	weights := make(map[string]*mat.Dense)
	weights["weights"] = p.weights

	return weights
}

// ActionValues returns the value of each action given an observation
func (p *Greedy) ActionValues(obs mat.Vector) *mat.VecDense {
	numActions, _ := p.weights.Dims()
	actionValues := mat.NewVecDense(numActions, nil)
	actionValues.MulVec(p.weights, obs)
	return actionValues
}

// SelectAction selects an action from the greedy policy
func (p *Greedy) SelectAction(t timestep.TimeStep) *mat.VecDense {
	action := float64(p.argmax(p.ActionValues(t.Observation)))
	return mat.NewVecDense(1, []float64{action})
}

// argmax returns the index of the largest action value, breaking ties
// uniformly randomly
func (p *Greedy) argmax(actionValues *mat.VecDense) int {
	_, ties := floatutils.MaxSlice(actionValues.RawVector().Data)
	if len(ties) == 1 {
		return ties[0]
	}
	return ties[p.rng.Intn(len(ties))]
}

// Eval is a no-op, a Greedy policy always selects greedy actions
func (p *Greedy) Eval() {}

// Train is a no-op, a Greedy policy always selects greedy actions
func (p *Greedy) Train() {}

// IsEval returns true
func (p *Greedy) IsEval() bool {
	return true
}
