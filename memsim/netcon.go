// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memsim

import (
	"fmt"

	"github.com/Anjali-Agarwal8/netpyne/engine"
)

// NetCon is the memsim implementation of engine.NetCon.
// Exactly one source is set: SrcGid >= 0, Gen, or Watch.
type NetCon struct {
	Wts []float64
	Del float64
	Thr float64

	// presynaptic gid, -1 if not gid-sourced
	SrcGid int

	// generator source
	Gen *Generator

	// watched reference, for spike detectors
	Watch engine.Ref

	// target, nil for spike detectors
	Target *PointProcess

	recs  []*engine.Vector
	above bool
}

func newNetCon(nwts int) *NetCon {
	if nwts < 1 {
		nwts = 1
	}
	return &NetCon{Wts: make([]float64, nwts), Del: 1, Thr: 10, SrcGid: -1}
}

func (nc *NetCon) NWeights() int { return len(nc.Wts) }

func (nc *NetCon) Weight(idx int) float64 {
	if idx < 0 || idx >= len(nc.Wts) {
		return 0
	}
	return nc.Wts[idx]
}

func (nc *NetCon) SetWeight(idx int, wt float64) error {
	if idx < 0 || idx >= len(nc.Wts) {
		return fmt.Errorf("NetCon weight index %d out of range [0, %d)", idx, len(nc.Wts))
	}
	nc.Wts[idx] = wt
	return nil
}

func (nc *NetCon) WeightRef(idx int) (engine.Ref, error) {
	if idx < 0 || idx >= len(nc.Wts) {
		return nil, fmt.Errorf("NetCon weight index %d out of range [0, %d)", idx, len(nc.Wts))
	}
	return &weightRef{nc: nc, idx: idx}, nil
}

func (nc *NetCon) Delay() float64           { return nc.Del }
func (nc *NetCon) SetDelay(del float64)     { nc.Del = del }
func (nc *NetCon) Threshold() float64       { return nc.Thr }
func (nc *NetCon) SetThreshold(thr float64) { nc.Thr = thr }

func (nc *NetCon) Record(vec *engine.Vector) {
	nc.recs = append(nc.recs, vec)
}

// sent records an event sent at time t
func (nc *NetCon) sent(t float64) {
	for _, rv := range nc.recs {
		rv.Append(t)
	}
}

// crossed returns true when the watched value crosses threshold upward
func (nc *NetCon) crossed() bool {
	v := nc.Watch.Value()
	if v >= nc.Thr {
		if !nc.above {
			nc.above = true
			return true
		}
		return false
	}
	nc.above = false
	return false
}

type weightRef struct {
	nc  *NetCon
	idx int
}

func (wr *weightRef) Value() float64       { return wr.nc.Wts[wr.idx] }
func (wr *weightRef) SetValue(val float64) { wr.nc.Wts[wr.idx] = val }
