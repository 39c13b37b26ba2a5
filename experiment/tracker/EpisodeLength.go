package tracker

import (
	ts "github.com/whathelll/Reinforcement-Learning/timestep"
)

// EpisodeLength tracks and saves the lengths of episodes in an
// experiment.
// Note that an episode must finish for this Tracker to save its data.
// If the last episode in an experiment does not finish, that episode's
// length will not be saved.
type EpisodeLength struct {
	episodeLengths []float64
	filename       string
}

// NewEpisodeLength returns a new EpisodeLength Tracker which will save
// its data at the specified location filename
func NewEpisodeLength(filename string) *EpisodeLength {
	return &EpisodeLength{filename: filename}
}

// Track caches the episode length if the TimeStep passed to it is the
// last TimeStep in the episode
func (e *EpisodeLength) Track(t ts.TimeStep) {
	if t.Last() {
		e.episodeLengths = append(e.episodeLengths, float64(t.Number))
	}
}

// Data returns the lengths of all finished episodes
func (e *EpisodeLength) Data() []float64 {
	data := make([]float64, len(e.episodeLengths))
	copy(data, e.episodeLengths)
	return data
}

// Save saves the data tracked by the EpisodeLength Tracker to disk
func (e *EpisodeLength) Save() error {
	return save(e.filename, e.episodeLengths)
}
