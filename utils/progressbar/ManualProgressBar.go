// Package progressbar implements functionality of printing a progress
// bar to a terminal window
package progressbar

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/whathelll/Reinforcement-Learning/utils/floatutils"
)

// ManualProgressBar implements progress bar functionality that must
// be manually managed. That is, the Display() function must be called
// whenever an updated progress bar should be printed.
//
// ManualProgressBar does not use concurrency.
type ManualProgressBar struct {
	out             io.Writer
	width           float64
	maxProgress     float64
	currentProgress float64
	bar             strings.Builder
	startTime       time.Time
}

// NewManualProgressBar returns a new ManualProgressBar that is width
// characters wide, reaches 100% after max steps of progress, and
// prints to out
func NewManualProgressBar(out io.Writer, width, max int) *ManualProgressBar {
	if max < 1 {
		max = 1
	}
	return &ManualProgressBar{
		out:         out,
		width:       float64(width),
		maxProgress: float64(max),
		startTime:   time.Now(),
	}
}

// Increment increments the internal progress counter by one
func (p *ManualProgressBar) Increment() {
	p.Set(int(p.currentProgress) + 1)
}

// Set sets the internal progress counter, clipped to [0, max]
func (p *ManualProgressBar) Set(progress int) {
	p.currentProgress = floatutils.Clip(float64(progress), 0, p.maxProgress)
}

// Fraction returns the fraction of progress made, in [0, 1]
func (p *ManualProgressBar) Fraction() float64 {
	return p.currentProgress / p.maxProgress
}

// String returns the current progress bar
func (p *ManualProgressBar) String() string {
	p.bar.Reset()
	p.bar.WriteString("|")

	currentProg := p.Fraction() * p.width
	for i := 0.0; i < currentProg; i++ {
		p.bar.WriteString("█")
	}
	for i := currentProg; i < p.width; i++ {
		p.bar.WriteString(" ")
	}
	p.bar.WriteString(fmt.Sprintf("| [%.2f%v | elapsed: %v]",
		p.Fraction()*100, "%", time.Since(p.startTime).Truncate(time.Second)))

	return p.bar.String()
}

// Display overwrites the current terminal line with the progress bar
func (p *ManualProgressBar) Display() {
	fmt.Fprintf(p.out, "\n\033[1A\033[K%v", p.String())
}
