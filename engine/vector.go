// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"github.com/emer/etable/etensor"
)

// Vector is a growable 1D buffer of samples or event times, backed by an
// etensor.Float64 so recorded data can go straight into etable tables.
// A Vector created with NewVector pre-allocates its capacity and starts
// with zero length, so fixed-length recordings never reallocate.
type Vector struct {

	// underlying storage -- only the first Len values are valid
	Tsr *etensor.Float64

	n int
}

// NewVector returns an empty Vector with given pre-allocated capacity
func NewVector(capacity int) *Vector {
	if capacity < 0 {
		capacity = 0
	}
	return &Vector{Tsr: etensor.NewFloat64([]int{capacity}, nil, []string{"Index"})}
}

// NewVectorFrom returns a Vector holding a copy of vals
func NewVectorFrom(vals []float64) *Vector {
	vc := NewVector(len(vals))
	copy(vc.Tsr.Values, vals)
	vc.n = len(vals)
	return vc
}

// Len returns the number of valid values
func (vc *Vector) Len() int {
	return vc.n
}

// Cap returns the number of values that can be stored without growing
func (vc *Vector) Cap() int {
	return len(vc.Tsr.Values)
}

// At returns value at index i, which must be < Len
func (vc *Vector) At(i int) float64 {
	return vc.Tsr.Values[i]
}

// Last returns the last valid value, or 0 if empty
func (vc *Vector) Last() float64 {
	if vc.n == 0 {
		return 0
	}
	return vc.Tsr.Values[vc.n-1]
}

// Append adds val, growing the storage if needed
func (vc *Vector) Append(val float64) {
	if vc.n < len(vc.Tsr.Values) {
		vc.Tsr.Values[vc.n] = val
	} else {
		vc.Tsr.Values = append(vc.Tsr.Values, val)
		vc.Tsr.SetShape([]int{len(vc.Tsr.Values)}, nil, []string{"Index"})
	}
	vc.n++
}

// Resize sets the number of valid values to n, growing storage with zeros if needed
func (vc *Vector) Resize(n int) {
	for len(vc.Tsr.Values) < n {
		vc.Tsr.Values = append(vc.Tsr.Values, 0)
	}
	vc.Tsr.SetShape([]int{len(vc.Tsr.Values)}, nil, []string{"Index"})
	vc.n = n
}

// Values returns the valid values (shares storage)
func (vc *Vector) Values() []float64 {
	return vc.Tsr.Values[:vc.n]
}

// MemBytes returns the number of bytes of allocated storage
func (vc *Vector) MemBytes() int {
	return 8 * len(vc.Tsr.Values)
}
