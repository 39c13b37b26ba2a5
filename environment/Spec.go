package environment

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SpecType determines what kind of specification a Spec is. A Spec can
// specify the layout of an action, an observation, a discount, or a
// reward
type SpecType int

const (
	Action SpecType = iota
	Observation
	Discount
	Reward
)

func (s SpecType) String() string {
	switch s {
	case Action:
		return "Action"
	case Observation:
		return "Observation"
	case Discount:
		return "Discount"
	default:
		return "Reward"
	}
}

// Cardinality determines the cardinality of a number (discrete or
// continuous)
type Cardinality string

const (
	Continuous Cardinality = "Continuous"
	Discrete   Cardinality = "Discrete"
)

// Spec implements an environment specification, which tells the type,
// shape, and bounds of an action, observation, discount, or reward in
// an environment
type Spec struct {
	Shape      mat.Vector
	Type       SpecType
	LowerBound mat.Vector
	UpperBound mat.Vector
	Cardinality
}

// NewSpec constructs a new environment specification.
// The shape argument outlines the shape of the data described by the
// specification. The argument t outlines what the specification is
// describing (e.g. actions, observations, etc.). The cardinality
// argument describes whether the values that the spec describes are
// continuous or discrete.
func NewSpec(shape mat.Vector, t SpecType, lowerBound,
	upperBound mat.Vector, cardinality Cardinality) (Spec, error) {
	if shape.Len() != lowerBound.Len() {
		return Spec{}, fmt.Errorf("newSpec: lower bound length mismatch "+
			"\n\twant(%v)\n\thave(%v)", shape.Len(), lowerBound.Len())
	}
	if shape.Len() != upperBound.Len() {
		return Spec{}, fmt.Errorf("newSpec: upper bound length mismatch "+
			"\n\twant(%v)\n\thave(%v)", shape.Len(), upperBound.Len())
	}
	return Spec{shape, t, lowerBound, upperBound, cardinality}, nil
}

// Dim returns the number of dimensions the Spec describes, which is
// the length of its Shape
func (s Spec) Dim() int {
	if s.Shape == nil {
		return 0
	}
	return s.Shape.Len()
}

// Contains returns whether v has the shape of the Spec and lies within
// its bounds
func (s Spec) Contains(v mat.Vector) bool {
	if v == nil || v.Len() != s.Dim() {
		return false
	}
	for i := 0; i < v.Len(); i++ {
		if v.AtVec(i) < s.LowerBound.AtVec(i) ||
			v.AtVec(i) > s.UpperBound.AtVec(i) {
			return false
		}
		if s.Cardinality == Discrete && v.AtVec(i) != float64(int(v.AtVec(i))) {
			return false
		}
	}
	return true
}

func (s Spec) String() string {
	return fmt.Sprintf("Spec | Type: %v  |  Dims: %v  |  Cardinality: %v",
		s.Type, s.Dim(), s.Cardinality)
}
