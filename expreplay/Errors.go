package expreplay

import "errors"

// ExpReplayError implements errors unique to an experience replay
// buffer.
type ExpReplayError struct {
	Op  string
	Err error
}

// Error satisifes the error interface
func (e *ExpReplayError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error so that errors.Is can be used
// with the exported error values
func (e *ExpReplayError) Unwrap() error {
	return e.Err
}

var (
	// ErrEmptyBuffer is returned when sampling from a buffer that
	// holds no transitions
	ErrEmptyBuffer = errors.New("buffer empty")

	// ErrInsufficientSamples is returned when the requested batch is
	// larger than the number of transitions in the buffer
	ErrInsufficientSamples = errors.New("batch size exceeds number of " +
		"stored transitions")

	// ErrInvalidConfig is returned when a buffer is constructed or
	// used with arguments outside their valid ranges
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidShape is returned when a transition's vectors do not
	// match the feature or action size of the buffer
	ErrInvalidShape = errors.New("invalid transition shape")

	// ErrDegeneratePriority is returned when priorities are not finite
	// or carry too little probability mass to draw a full batch
	// without replacement
	ErrDegeneratePriority = errors.New("degenerate priorities")
)

// newError returns a new *ExpReplayError for operation op
func newError(op string, err error) error {
	return &ExpReplayError{Op: op, Err: err}
}

// is reports whether err is or wraps target, looking through an
// *ExpReplayError
func is(err, target error) bool {
	if replayErr, ok := err.(*ExpReplayError); ok {
		err = replayErr.Err
	}
	return errors.Is(err, target)
}

// IsInsufficientSamples returns whether or not an error reports that
// there are insufficient samples in the buffer to sample from the
// buffer.
//
// A buffer has too few samples to sample if its current length is
// less than the requested batch size.
func IsInsufficientSamples(err error) bool {
	return is(err, ErrInsufficientSamples)
}

// IsEmptyBuffer returns whether or not an error reports that a
// replay buffer is empty.
func IsEmptyBuffer(err error) bool {
	return is(err, ErrEmptyBuffer)
}

// IsInvalidConfig returns whether or not an error reports an argument
// outside of its valid range
func IsInvalidConfig(err error) bool {
	return is(err, ErrInvalidConfig)
}

// IsInvalidShape returns whether or not an error reports a transition
// whose vectors have the wrong size
func IsInvalidShape(err error) bool {
	return is(err, ErrInvalidShape)
}

// IsDegeneratePriority returns whether or not an error reports that
// priorities are non-finite or ran out of probability mass
func IsDegeneratePriority(err error) bool {
	return is(err, ErrDegeneratePriority)
}
