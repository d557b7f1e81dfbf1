// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memsim

import (
	"fmt"
	"sort"
)

// Init resets time, pending events, generators, recordings and plays
func (en *Engine) Init() error {
	en.T = 0
	en.pending = en.pending[:0]
	for _, gn := range en.Gens {
		gn.init()
	}
	for _, nc := range en.NetCons {
		nc.above = false
	}
	for _, rc := range en.recs {
		rc.vec.Resize(0)
		rc.nextT = 0
	}
	for _, pl := range en.plays {
		pl.idx = 0
	}
	if en.spkTimes != nil {
		en.spkTimes.Resize(0)
		en.spkGids.Resize(0)
	}
	return nil
}

func (en *Engine) Time() float64 { return en.T }

// Run advances simulated time to tstop in steps of dt
func (en *Engine) Run(tstop, dt float64) error {
	if dt <= 0 {
		return fmt.Errorf("memsim: Run dt must be > 0, got %g", dt)
	}
	for en.T < tstop-dt/2 {
		en.Step(dt)
	}
	return nil
}

// Step runs one time step of size dt: plays, point process updates,
// generator emission, spike detection, delivery, then sampling.
func (en *Engine) Step(dt float64) {
	t := en.T
	for _, pl := range en.plays {
		pl.apply(t)
	}
	for _, pp := range en.PointPs {
		pp.step(t)
	}
	for _, gn := range en.Gens {
		for gn.due(t, dt) {
			en.send(t, func(nc *NetCon) bool { return nc.Gen == gn })
		}
	}
	en.detect(t)
	en.deliver(t, dt)
	for _, rc := range en.recs {
		for rc.nextT <= t+dt/2 {
			rc.vec.Append(rc.ref.Value())
			rc.nextT += rc.step
		}
	}
	en.T += dt
}

// detect checks all gid outputs for threshold crossings, routing spikes to
// every NetCon sourced from that gid
func (en *Engine) detect(t float64) {
	gids := make([]int, 0, len(en.Outputs))
	for gid := range en.Outputs {
		gids = append(gids, gid)
	}
	sort.Ints(gids)
	for _, gid := range gids {
		out := en.Outputs[gid]
		if !out.crossed() {
			continue
		}
		out.sent(t)
		if en.spkTimes != nil {
			en.spkTimes.Append(t)
			en.spkGids.Append(float64(gid))
		}
		en.send(t, func(nc *NetCon) bool { return nc.SrcGid == gid })
	}
	for _, pp := range en.PointPs {
		pp.resetFired()
	}
}

// send records an event on every NetCon selected by sel and schedules its delivery
func (en *Engine) send(t float64, sel func(nc *NetCon) bool) {
	for _, nc := range en.NetCons {
		if nc.Target == nil || !sel(nc) {
			continue
		}
		nc.sent(t)
		wts := make([]float64, len(nc.Wts))
		copy(wts, nc.Wts)
		en.pending = append(en.pending, event{t: t + nc.Del, target: nc.Target, wts: wts})
	}
}

// deliver delivers all pending events due by the end of this step, in time order
func (en *Engine) deliver(t, dt float64) {
	if len(en.pending) == 0 {
		return
	}
	sort.SliceStable(en.pending, func(i, j int) bool { return en.pending[i].t < en.pending[j].t })
	n := 0
	for _, ev := range en.pending {
		if ev.t > t+dt/2 {
			break
		}
		ev.target.receive(ev.t, ev.wts)
		n++
	}
	en.pending = en.pending[n:]
}

// apply sets the reference to the value of the last sample at or before t
func (pl *play) apply(t float64) {
	n := pl.times.Len()
	for pl.idx < n && pl.times.At(pl.idx) <= t {
		pl.ref.SetValue(pl.values.At(pl.idx))
		pl.idx++
	}
}
