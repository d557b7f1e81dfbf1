// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cell

import (
	"fmt"
	"log"

	"github.com/Anjali-Agarwal8/netpyne/engine"
	"github.com/emer/emergent/erand"
)

// Stimulus sources
const (
	// RandomSource is a spike generator with fixed or variable rate
	RandomSource = "random"

	// IClampSource is a current clamp
	IClampSource = "IClamp"
)

// VariableRateInterval is the initial interval in msec of variable-rate
// generators, whose rate is driven externally
const VariableRateInterval = 1e4

// StimParams specifies one generator-driven stimulus
type StimParams struct {

	// label of the stimulus source, used as key of recorded stimulus events
	Label string

	// generator type, only "random" is supported
	Source string `def:"random"`

	// target section, default per TargetSec
	Sec string

	// target location in the section, default 0.5
	Loc *float64

	// target synaptic mechanism label, default the first defined
	SynMech string

	// mean rate in Hz of a fixed-rate generator
	Rate float64

	// use a variable-rate generator, ignoring Rate
	Variable bool

	// fraction of each interval that is randomized
	Noise float64

	// time of the first event in msec
	Start float64

	// maximum number of events
	Number float64 `def:"1e9"`

	Weight float64

	// delay in msec
	Delay float64 `def:"1"`

	Threshold float64 `def:"10"`

	// optional weight shaping over time
	Shape *ShapeParams
}

func (sp *StimParams) Defaults() {
	sp.Source = RandomSource
	sp.Number = 1e9
	sp.Delay = 1
	sp.Threshold = DefaultThreshold
}

// IClampParams specifies one current clamp stimulus
type IClampParams struct {
	Label string
	Sec   string
	Loc   *float64

	// amplitude in nA
	Amp float64

	// onset and duration in msec
	Delay float64
	Dur   float64
}

// Stim is one created stimulus
type Stim struct {
	Label  string
	Source string
	Sec    string
	Loc    float64

	SynMech     string
	TargetType  TargetTypes
	PointP      string
	WeightIndex int

	Rate     float64
	Variable bool
	Noise    float64
	Start    float64
	Number   float64
	Weight   float64
	Delay    float64

	// current clamp amplitude, onset and duration
	Amp float64
	Dur float64

	// random source of the generator
	Rand erand.Rand

	// engine objects, nil if not materialized
	Gen    engine.Generator
	NetCon engine.NetCon
	IClamp engine.PointProcess

	// shaped weight curve played into the NetCon weight, nil if not shaped
	ShapeTimes   *engine.Vector
	ShapeWeights *engine.Vector
}

// stimSeed returns the random seed of the next stimulus of this cell
func (c *Cell) stimSeed() int64 {
	return c.Ctx.Cfg.Seed + int64(c.Gid)*1000003 + int64(len(c.Stims))
}

// AddNetStim creates a generator-driven stimulus targeting this cell.
// Configuration errors (unknown source, invalid shaping) and missing
// resources are returned without recording the stimulus.
func (c *Cell) AddNetStim(sp *StimParams) (*Stim, error) {
	src := sp.Source
	if src == "" {
		src = RandomSource
	}
	if src != RandomSource {
		err := fmt.Errorf("cell gid=%d: stim source %q: %w", c.Gid, sp.Source, ErrUnknownSource)
		log.Println(err)
		return nil, err
	}
	if !sp.Variable && sp.Rate <= 0 {
		err := fmt.Errorf("cell gid=%d: stim %s rate must be > 0, got %g: %w", c.Gid, sp.Label, sp.Rate, ErrConfig)
		log.Println(err)
		return nil, err
	}
	var stms, swts []float64
	if sp.Shape != nil {
		var err error
		stms, swts, err = sp.Shape.Curve(c.Ctx.Net.ScaleConnWeightNetStims*sp.Weight, c.Ctx.Cfg.Duration)
		if err != nil {
			err = fmt.Errorf("cell gid=%d: stim %s: %w", c.Gid, sp.Label, err)
			log.Println(err)
			return nil, err
		}
	}
	sc, err := c.TargetSec(sp.Sec)
	if err != nil {
		log.Println(err)
		return nil, err
	}
	loc := locOr(sp.Loc, 0.5)
	tg, err := c.ResolveTarget(sc, sp.SynMech, loc)
	if err != nil {
		log.Println(err)
		return nil, err
	}
	st := &Stim{Label: sp.Label, Source: src, Sec: sc.Name, Loc: loc, SynMech: tg.SynLabel(),
		TargetType: tg.Type, PointP: tg.PointP, WeightIndex: tg.WeightIndex,
		Rate: sp.Rate, Variable: sp.Variable, Noise: sp.Noise, Start: sp.Start, Number: sp.Number,
		Weight: sp.Weight, Delay: sp.Delay}
	if tg.Type == PointPTarget {
		st.SynMech = sp.SynMech
	}
	if c.Ctx.Materialize() && tg.Obj != nil {
		if err := c.materializeNetStim(st, sp, tg, stms, swts); err != nil {
			err = fmt.Errorf("cell gid=%d: stim %s: %w", c.Gid, sp.Label, err)
			log.Println(err)
			return nil, err
		}
	}
	c.Stims = append(c.Stims, st)
	if c.Ctx.Cfg.Verbose {
		fmt.Printf("Created %s NetStim for cell gid=%d, label=%s, sec=%s, loc=%.4g, synMech=%s, weight=%.4g, delay=%.1f\n",
			src, c.Gid, sp.Label, st.Sec, loc, st.SynMech, sp.Weight, sp.Delay)
	}
	return st, nil
}

func (c *Cell) materializeNetStim(st *Stim, sp *StimParams, tg *Target, stms, swts []float64) error {
	eng := c.Ctx.Eng
	gp := engine.GeneratorParams{Noise: sp.Noise, Start: sp.Start, Number: sp.Number}
	if sp.Variable {
		gp.Interval = VariableRateInterval
	} else {
		gp.Interval = 1e3 / sp.Rate
	}
	st.Rand = erand.NewSysRand(c.stimSeed())
	gen, err := eng.NewGenerator(sp.Variable, gp, st.Rand)
	if err != nil {
		return err
	}
	nc, err := eng.NewNetCon(gen, tg.Obj)
	if err != nil {
		return err
	}
	if err := nc.SetWeight(tg.WeightIndex, c.Ctx.Net.ScaleConnWeightNetStims*sp.Weight); err != nil {
		return err
	}
	nc.SetDelay(sp.Delay)
	nc.SetThreshold(sp.Threshold)
	if stms != nil {
		wref, err := nc.WeightRef(tg.WeightIndex)
		if err != nil {
			return err
		}
		st.ShapeTimes = engine.NewVectorFrom(stms)
		st.ShapeWeights = engine.NewVectorFrom(swts)
		if err := eng.Play(wref, st.ShapeTimes, st.ShapeWeights); err != nil {
			return err
		}
	}
	st.Gen = gen
	st.NetCon = nc
	return nil
}

// AddIClamp creates a current clamp stimulus on this cell
func (c *Cell) AddIClamp(ip *IClampParams) (*Stim, error) {
	sc, err := c.TargetSec(ip.Sec)
	if err != nil {
		log.Println(err)
		return nil, err
	}
	loc := locOr(ip.Loc, 0.5)
	st := &Stim{Label: ip.Label, Source: IClampSource, Sec: sc.Name, Loc: loc, Amp: ip.Amp, Delay: ip.Delay, Dur: ip.Dur}
	if c.Ctx.Materialize() && sc.Sec != nil {
		ic, err := c.Ctx.Eng.NewPointProcess(IClampSource, sc.Sec, loc)
		if err == nil {
			err = ic.SetParam("amp", ip.Amp)
		}
		if err == nil {
			err = ic.SetParam("delay", ip.Delay)
		}
		if err == nil {
			err = ic.SetParam("dur", ip.Dur)
		}
		if err != nil {
			err = fmt.Errorf("cell gid=%d: IClamp %s: %w", c.Gid, ip.Label, err)
			log.Println(err)
			return nil, err
		}
		st.IClamp = ic
	}
	c.Stims = append(c.Stims, st)
	if c.Ctx.Cfg.Verbose {
		fmt.Printf("Created IClamp for cell gid=%d, sec=%s, loc=%.4g, amp=%.4g, delay=%.1f, dur=%.1f\n",
			c.Gid, st.Sec, loc, ip.Amp, ip.Delay, ip.Dur)
	}
	return st, nil
}
