// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memsim

import (
	"fmt"
	"math"

	"github.com/Anjali-Agarwal8/netpyne/engine"
	"github.com/emer/emergent/erand"
)

// PointProcess is the memsim implementation of engine.PointProcess.
// All parameters and states live in Vars.
type PointProcess struct {
	Type *PointType
	Sec  *Section
	Loc  float64
	Vars map[string]float64

	// bound pointer variables
	Ptrs map[string]engine.Ref

	// number of events received
	NEvents int

	fired bool
}

func newPointProcess(pt *PointType, sec *Section, loc float64) *PointProcess {
	return &PointProcess{Type: pt, Sec: sec, Loc: loc, Vars: copyVars(pt.Vars), Ptrs: map[string]engine.Ref{}}
}

func (pp *PointProcess) Mod() string { return pp.Type.Name }

func (pp *PointProcess) SetParam(name string, val float64) error {
	if _, has := pp.Vars[name]; !has {
		return fmt.Errorf("%s has no parameter %q: %w", pp.Type.Name, name, engine.ErrNotFound)
	}
	pp.Vars[name] = val
	return nil
}

func (pp *PointProcess) Param(name string) (float64, error) {
	v, has := pp.Vars[name]
	if !has {
		return 0, fmt.Errorf("%s has no parameter %q: %w", pp.Type.Name, name, engine.ErrNotFound)
	}
	return v, nil
}

func (pp *PointProcess) Ref(varName string) (engine.Ref, error) {
	if _, has := pp.Vars[varName]; !has {
		return nil, fmt.Errorf("%s has no variable %q: %w", pp.Type.Name, varName, engine.ErrNotFound)
	}
	return &varRef{vars: pp.Vars, name: varName}, nil
}

// receive handles an event arriving at time t with weight vector wts.
// There is no membrane integration: synapses accumulate conductance,
// artificial cells jump to their peak, and STDP adjusts its bound weight.
func (pp *PointProcess) receive(t float64, wts []float64) {
	pp.NEvents++
	w0 := 0.0
	if len(wts) > 0 {
		w0 = wts[0]
	}
	switch {
	case pp.Type.Artificial:
		for _, w := range wts {
			if w > 0 {
				pp.Vars[pp.Type.VRef] = pp.Vars["vpeak"]
				pp.fired = true
				break
			}
		}
	case pp.Type.HasPointer("synweight"):
		pp.stdp(t, w0)
	case pp.Type.HasVar("g"):
		pp.Vars["g"] += w0
	}
}

// stdp implements the pair-based rule: presynaptic events (w >= 0) depress
// according to the last postsynaptic spike, postsynaptic events (w < 0)
// potentiate according to the last presynaptic spike.
func (pp *PointProcess) stdp(t, w float64) {
	vr := pp.Vars
	dw := 0.0
	if w >= 0 {
		vr["tlastpre"] = t
		if vr["tlastpost"] >= 0 {
			dw = vr["antiwt"] * math.Exp(-(t-vr["tlastpost"])/vr["tauanti"])
		}
	} else {
		vr["tlastpost"] = t
		if vr["tlastpre"] >= 0 {
			dw = vr["hebbwt"] * math.Exp(-(t-vr["tlastpre"])/vr["tauhebb"])
		}
	}
	sw, ok := pp.Ptrs["synweight"]
	if !ok || dw == 0 {
		return
	}
	nw := sw.Value() + dw
	nw = math.Max(0, math.Min(nw, vr["wmax"]))
	sw.SetValue(nw)
}

// step updates time-dependent point process state at time t
func (pp *PointProcess) step(t float64) {
	if pp.Type.Name == "IClamp" {
		vr := pp.Vars
		if t >= vr["delay"] && t < vr["delay"]+vr["dur"] {
			vr["i"] = vr["amp"]
		} else {
			vr["i"] = 0
		}
	}
}

// resetFired returns an artificial cell to rest after its spike was detected
func (pp *PointProcess) resetFired() {
	if !pp.fired {
		return
	}
	pp.fired = false
	pp.Vars[pp.Type.VRef] = pp.Vars["c"]
	if _, has := pp.Vars["d"]; has {
		pp.Vars["u"] += pp.Vars["d"]
	}
}

// Generator is the memsim implementation of engine.Generator
type Generator struct {
	PointProcess

	Rand erand.Rand

	// number of events emitted since Init
	NEmitted int

	nextT float64
}

func (gn *Generator) Variable() bool {
	return gn.Type.Name == "NSLOC"
}

// init schedules the first event
func (gn *Generator) init() {
	gn.NEmitted = 0
	// the first event only carries the random part of the interval
	gn.nextT = gn.Vars["start"] + gn.isi() - (1-gn.noise())*gn.Vars["interval"]
}

func (gn *Generator) noise() float64 {
	return math.Max(0, math.Min(gn.Vars["noise"], 1))
}

// isi returns the next inter-event interval: a fixed part (1-noise)*interval
// plus a negative-exponential part with mean noise*interval.
func (gn *Generator) isi() float64 {
	invl := gn.Vars["interval"]
	noise := gn.noise()
	if noise == 0 || gn.Rand == nil {
		return invl
	}
	u := gn.Rand.Float64(-1)
	return (1-noise)*invl + noise*invl*(-math.Log(1-u))
}

// due returns true if an event is due at t, advancing the schedule
func (gn *Generator) due(t, dt float64) bool {
	if float64(gn.NEmitted) >= gn.Vars["number"] {
		return false
	}
	if gn.nextT > t+dt/2 {
		return false
	}
	gn.NEmitted++
	gn.nextT += gn.isi()
	return true
}
