package qlearning

import "fmt"

// Config represents a configuration for the QLearning agent
type Config struct {
	Epsilon      float64 `json:"epsilon" mapstructure:"epsilon"`
	LearningRate float64 `json:"learning_rate" mapstructure:"learning_rate"`
}

// Validate checks a Config's fields for errors
func (c Config) Validate() error {
	if c.LearningRate <= 0 {
		return fmt.Errorf("validate: cannot have learning rate <= 0 "+
			"\n\thave(%v)", c.LearningRate)
	}
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("validate: epsilon must be in [0, 1] "+
			"\n\thave(%v)", c.Epsilon)
	}
	return nil
}

// Create creates a new QLearning agent from the Config
func (c Config) Create(features, actions int, seed uint64) (*QLearning,
	error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return New(features, actions, c.LearningRate, c.Epsilon, seed)
}
