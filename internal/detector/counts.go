// Package detector draws a finite number of detector events from a time of
// flight spectrum.
package detector

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/mroth/weightedrand"

	"github.com/wildstyl3r/ntof/internal/constants"
	"github.com/wildstyl3r/ntof/internal/spectrum"
	"github.com/wildstyl3r/ntof/internal/utils"
)

var ErrNoEvents = errors.New("number of detector events must be positive")

// bins are picked with integer weights relative to the heaviest bin
const weightResolution = 1_000_000

type Histogram struct {
	Time   []float64 // [ns]
	Counts []int
	Error  []float64 // 95% confidence half-width
}

// Simulate distributes n events over the bins of t proportionally to their
// weights. Equal seeds give equal counts.
func Simulate(t spectrum.ToF, n int, seed uint64) (Histogram, error) {
	if n <= 0 {
		return Histogram{}, fmt.Errorf("%w: %d", ErrNoEvents, n)
	}
	if t.Len() == 0 {
		return Histogram{}, spectrum.ErrEmptySpectrum
	}
	for i, w := range t.Weight {
		if !(w >= 0) || math.IsInf(w, 0) {
			return Histogram{}, fmt.Errorf("%w: bin %d: %v", spectrum.ErrInvalidWeight, i, w)
		}
	}
	heaviest := t.Weight[utils.Argmax(t.Weight)]
	if !(heaviest > 0) {
		return Histogram{}, spectrum.ErrZeroTotalWeight
	}

	choices := make([]weightedrand.Choice, 0, t.Len())
	for i := range t.Weight {
		if w := uint(math.Round(t.Weight[i] / heaviest * weightResolution)); w > 0 {
			choices = append(choices, weightedrand.NewChoice(i, w))
		}
	}
	chooser, err := weightedrand.NewChooser(choices...)
	if err != nil {
		return Histogram{}, err
	}

	h := Histogram{
		Time:   append([]float64{}, t.Time...),
		Counts: make([]int, t.Len()),
		Error:  make([]float64, t.Len()),
	}
	// weightedrand v1 only draws from math/rand
	rs := rand.New(rand.NewSource(int64(seed)))
	for range n {
		h.Counts[chooser.PickSource(rs).(int)]++
	}
	for i := range h.Counts {
		h.Error[i] = constants.Quantile95 * math.Sqrt(float64(h.Counts[i]))
	}
	return h, nil
}

func (h Histogram) Total() int {
	return utils.SumSlice(h.Counts)
}
