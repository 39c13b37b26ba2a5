package expreplay

// Config implements a specific configuration of an ExperienceReplayer
type Config struct {
	Capacity       int     `json:"capacity" mapstructure:"capacity"`
	MultiStepN     int     `json:"multi_step_n" mapstructure:"multi_step_n"`
	MultiStepGamma float64 `json:"multi_step_gamma" mapstructure:"multi_step_gamma"`

	// Prioritised replay parameters, ignored if Prioritised is false
	Prioritised bool    `json:"prioritised" mapstructure:"prioritised"`
	E           float64 `json:"e" mapstructure:"e"`
	Alpha       float64 `json:"alpha" mapstructure:"alpha"`
	Beta        float64 `json:"beta" mapstructure:"beta"`
}

// DefaultConfig returns the default Config of a uniform replay buffer
// with the given capacity. Setting Prioritised on the returned Config
// gives the default prioritised replay buffer.
func DefaultConfig(capacity int) Config {
	return Config{
		Capacity:       capacity,
		MultiStepN:     0,
		MultiStepGamma: 0.99,
		Prioritised:    false,
		E:              0.1,
		Alpha:          0.5,
		Beta:           0.0,
	}
}

// Validate returns an error describing whether or not the
// configuration is valid
func (c Config) Validate() error {
	// Feature and action sizes are only known at Create, so check the
	// remaining arguments with placeholder sizes
	err := validate("validate", c.Capacity, c.MultiStepN, c.MultiStepGamma,
		1, 1)
	if err != nil {
		return err
	}

	if c.Prioritised {
		return validatePriority("validate", c.E, c.Alpha, c.Beta)
	}
	return nil
}

// Create creates and returns the ExperienceReplayer with the specified
// Config. If the Config is prioritised, the returned
// ExperienceReplayer is also a Prioritiser.
func (c Config) Create(featureSize, actionSize int,
	seed uint64) (ExperienceReplayer, error) {
	if c.Prioritised {
		p, err := NewPrioritised(c.Capacity, c.MultiStepN, c.MultiStepGamma,
			c.E, c.Alpha, c.Beta, featureSize, actionSize, seed)
		if err != nil {
			return nil, err
		}
		return p, nil
	}

	r, err := New(c.Capacity, c.MultiStepN, c.MultiStepGamma, featureSize,
		actionSize, seed)
	if err != nil {
		return nil, err
	}
	return r, nil
}
