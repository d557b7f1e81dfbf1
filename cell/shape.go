// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cell

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	// ShapeTimeRes is the time resolution of shaped weight curves in msec
	ShapeTimeRes = 1.0

	// ShapePulseLen is the length of the pulse kernel in units of pulse width
	ShapePulseLen = 10
)

// ShapeParams shapes the weight of a stimulus over time: a train of pulses,
// one every PulsePeriod, during the on intervals given by SwitchOnOff
type ShapeParams struct {

	// shape of each pulse
	PulseType PulseShape `def:"Square"`

	// width of each pulse in msec
	PulseWidth float64 `def:"100"`

	// interval between pulses in msec
	PulsePeriod float64 `def:"100"`

	// strictly increasing times in msec at which the stimulus switches on, then off,
	// then on again, etc. Empty is always on.
	SwitchOnOff []float64
}

func (sp *ShapeParams) Defaults() {
	sp.PulseType = Square
	sp.PulseWidth = 100
	sp.PulsePeriod = 100
}

// SwitchPairs returns the consecutive pairs of switching times, with duration
// appended as the final switch time. Even-indexed pairs are on intervals.
// Times must be strictly increasing, within [0, duration], else ErrSwitchTimes.
// A final switch at duration adds no empty trailing pair.
func SwitchPairs(switchOnOff []float64, duration float64) ([][2]float64, error) {
	if len(switchOnOff) == 0 {
		return [][2]float64{{0, duration}}, nil
	}
	for i, st := range switchOnOff {
		if i > 0 && st <= switchOnOff[i-1] {
			return nil, fmt.Errorf("switchOnOff %v not strictly increasing: %w", switchOnOff, ErrSwitchTimes)
		}
		if st < 0 || st > duration {
			return nil, fmt.Errorf("switchOnOff time %g outside [0, %g]: %w", st, duration, ErrSwitchTimes)
		}
	}
	sts := append([]float64(nil), switchOnOff...)
	if sts[len(sts)-1] < duration {
		sts = append(sts, duration)
	}
	prs := make([][2]float64, len(sts)-1)
	for i := range prs {
		prs[i] = [2]float64{sts[i], sts[i+1]}
	}
	return prs, nil
}

// PulseKernel returns the unit pulse of given shape and width in msec,
// sampled every ShapeTimeRes over ShapePulseLen widths
func PulseKernel(shape PulseShape, width float64) ([]float64, error) {
	npts := int(math.Round(ShapePulseLen * width / ShapeTimeRes))
	if npts < 2 {
		npts = 2
	}
	pulse := make([]float64, npts)
	half := npts / 2
	switch shape {
	case Gaussian:
		for i := range pulse {
			x := float64(i-half+1) * ShapeTimeRes
			pulse[i] = math.Exp(-2 * math.Pow(2*x/width-1, 2))
		}
		floats.Scale(1/floats.Max(pulse), pulse)
	case Square:
		nw := int(math.Round(width / ShapeTimeRes))
		for i := half; i < half+nw && i < npts; i++ {
			pulse[i] = 1
		}
	default:
		return nil, fmt.Errorf("pulse shape %v: %w", shape, ErrUnknownShape)
	}
	return pulse, nil
}

// ShapeCurve returns the times (msec) and weights of one on interval
// [start, finish): an event every isi msec from start, convolved with the
// pulse kernel and scaled by weight. The curve is bookended by zero weight
// samples at t = 0 and one step after the last sample.
func ShapeCurve(isi, width, weight, start, finish float64, shape PulseShape) (times, weights []float64, err error) {
	if isi <= 0 || width <= 0 {
		return nil, nil, fmt.Errorf("pulse period %g and width %g must be > 0: %w", isi, width, ErrConfig)
	}
	pulse, err := PulseKernel(shape, width)
	if err != nil {
		return nil, nil, err
	}
	tw := finish - start
	npts := int(math.Round(tw / ShapeTimeRes))
	if npts <= 0 {
		return nil, nil, nil
	}
	nk := len(pulse)
	off := nk/2 - 1
	wts := make([]float64, npts)
	for ct := 0.0; ct < tw-ShapeTimeRes/2; ct += isi {
		ev := int(math.Round(ct / ShapeTimeRes))
		// wts[k] += weight * pulse[k - ev + off]
		k0 := max(0, ev-off)
		k1 := min(npts, ev-off+nk)
		if k1 <= k0 {
			continue
		}
		j0 := k0 - ev + off
		floats.AddScaled(wts[k0:k1], weight, pulse[j0:j0+k1-k0])
	}
	times = make([]float64, npts+2)
	weights = make([]float64, npts+2)
	for k := 0; k < npts; k++ {
		times[k+1] = start + float64(k)*ShapeTimeRes
		weights[k+1] = wts[k]
	}
	times[npts+1] = times[npts] + ShapeTimeRes
	return times, weights, nil
}

// Curve returns the full weight curve for given weight over duration:
// the curves of all on intervals concatenated
func (sp *ShapeParams) Curve(weight, duration float64) (times, weights []float64, err error) {
	width := sp.PulseWidth
	if width == 0 {
		width = 100
	}
	period := sp.PulsePeriod
	if period == 0 {
		period = 100
	}
	prs, err := SwitchPairs(sp.SwitchOnOff, duration)
	if err != nil {
		return nil, nil, err
	}
	for i := 0; i < len(prs); i += 2 {
		tm, wt, err := ShapeCurve(period, width, weight, prs[i][0], prs[i][1], sp.PulseType)
		if err != nil {
			return nil, nil, err
		}
		times = append(times, tm...)
		weights = append(weights, wt...)
	}
	return times, weights, nil
}
