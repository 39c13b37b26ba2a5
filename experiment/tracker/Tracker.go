// Package tracker implements Trackers, which track and save data in an
// experiment
package tracker

import (
	"encoding/gob"
	"fmt"
	"os"

	ts "github.com/whathelll/Reinforcement-Learning/timestep"
)

// Interface Tracker keeps track of experiment data and saves the data
// after the experiment has finished
type Tracker interface {
	Track(t ts.TimeStep)
	Save() error

	// Data returns a copy of the data tracked so far
	Data() []float64
}

// save encodes data with gob and writes it to filename
func save(filename string, data []float64) error {
	// Open the file to save to
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save: could not open save file: %w", err)
	}
	defer file.Close()

	// Encode and save the file
	enc := gob.NewEncoder(file)
	if err = enc.Encode(data); err != nil {
		return fmt.Errorf("save: could not encode data: %w", err)
	}
	return nil
}

// LoadData loads and returns the data saved by a Tracker
func LoadData(filename string) ([]float64, error) {
	// Open file
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadData: could not open data file: %w", err)
	}
	defer file.Close()

	// Create the decoder and the variable to store the data in
	dec := gob.NewDecoder(file)
	var data []float64

	// Decode the data
	if err = dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("loadData: could not decode data: %w", err)
	}

	return data, nil
}
