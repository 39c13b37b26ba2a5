package progressbar

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManualProgressBar(t *testing.T) {
	var out bytes.Buffer
	p := NewManualProgressBar(&out, 10, 4)

	assert.Equal(t, 0.0, p.Fraction())
	p.Increment()
	assert.Equal(t, 0.25, p.Fraction())

	p.Set(10)
	assert.Equal(t, 1.0, p.Fraction())
	p.Set(-1)
	assert.Equal(t, 0.0, p.Fraction())

	p.Set(2)
	p.Display()
	assert.Contains(t, out.String(), "50.00%")
	assert.Equal(t, 5, strings.Count(out.String(), "█"))
}
