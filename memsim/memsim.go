// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package memsim is an in-memory reference backend for the engine
capability interface.

It keeps the full object graph (sections, segments, mechanisms, point
processes, NetCons) and a minimal event loop: generators emit events, spike
detectors watch their references, events are delivered after their delay,
recordings are sampled and played vectors drive their references.
There is no membrane integration: voltages only change when something sets them.
A single Engine models one rank; gids owned by other ranks can be referenced
by GidConnect but never fire.
*/
package memsim

import (
	"fmt"

	"github.com/Anjali-Agarwal8/netpyne/engine"
	"github.com/emer/emergent/erand"
)

// Engine is the memsim implementation of engine.Engine and engine.Runner
type Engine struct {

	// namespace of known mechanisms and point processes
	Cat *Catalog

	// rank of this process
	Rank int

	// current simulated time in msec
	T float64

	Secs    []*Section
	PointPs []*PointProcess
	Gens    []*Generator
	NetCons []*NetCon

	// owning rank of each registered gid
	Gid2Node map[int]int

	// spike detector registered as output of each local gid
	Outputs map[int]*NetCon

	spkTimes *engine.Vector
	spkGids  *engine.Vector
	recs     []*record
	plays    []*play
	pending  []event
}

// record is a periodic sampling registration
type record struct {
	ref   engine.Ref
	step  float64
	vec   *engine.Vector
	nextT float64
}

// play drives a reference from a time series
type play struct {
	ref    engine.Ref
	times  *engine.Vector
	values *engine.Vector
	idx    int
}

// event is a pending delivery
type event struct {
	t      float64
	target *PointProcess
	wts    []float64
}

// NewEngine returns a new engine for given rank, using catalog cat,
// or DefaultCatalog if cat is nil
func NewEngine(rank int, cat *Catalog) *Engine {
	if cat == nil {
		cat = DefaultCatalog()
	}
	return &Engine{Cat: cat, Rank: rank, Gid2Node: map[int]int{}, Outputs: map[int]*NetCon{}}
}

func (en *Engine) NewSection(name string) engine.Section {
	sc := newSection(en, name)
	en.Secs = append(en.Secs, sc)
	return sc
}

// SectionByName returns the first section created with given name, or nil
func (en *Engine) SectionByName(name string) *Section {
	for _, sc := range en.Secs {
		if sc.Nm == name {
			return sc
		}
	}
	return nil
}

func (en *Engine) ownSection(sec engine.Section) (*Section, error) {
	sc, ok := sec.(*Section)
	if !ok || sc.eng != en {
		return nil, fmt.Errorf("memsim: section %v does not belong to this engine", sec)
	}
	return sc, nil
}

func (en *Engine) NewPointProcess(mod string, sec engine.Section, loc float64) (engine.PointProcess, error) {
	pt, ok := en.Cat.PointPs[mod]
	if !ok || pt.Generator {
		return nil, fmt.Errorf("memsim: point process %q: %w", mod, engine.ErrNotFound)
	}
	sc, err := en.ownSection(sec)
	if err != nil {
		return nil, err
	}
	pp := newPointProcess(pt, sc, loc)
	en.PointPs = append(en.PointPs, pp)
	return pp, nil
}

func (en *Engine) NewGenerator(variable bool, par engine.GeneratorParams, rnd erand.Rand) (engine.Generator, error) {
	mod := "NetStim"
	if variable {
		mod = "NSLOC"
	}
	pt, ok := en.Cat.PointPs[mod]
	if !ok {
		return nil, fmt.Errorf("memsim: generator %q: %w", mod, engine.ErrNotFound)
	}
	gn := &Generator{PointProcess: *newPointProcess(pt, nil, 0.5), Rand: rnd}
	gn.Vars["interval"] = par.Interval
	gn.Vars["noise"] = par.Noise
	gn.Vars["start"] = par.Start
	gn.Vars["number"] = par.Number
	gn.init()
	en.Gens = append(en.Gens, gn)
	return gn, nil
}

func (en *Engine) ownTarget(target engine.PointProcess) (*PointProcess, error) {
	switch tg := target.(type) {
	case *PointProcess:
		return tg, nil
	case nil:
		return nil, fmt.Errorf("memsim: nil NetCon target")
	default:
		return nil, fmt.Errorf("memsim: NetCon target %v does not belong to this engine", target)
	}
}

func (en *Engine) NewNetCon(gen engine.Generator, target engine.PointProcess) (engine.NetCon, error) {
	gn, ok := gen.(*Generator)
	if !ok {
		return nil, fmt.Errorf("memsim: NetCon source %v is not a memsim generator", gen)
	}
	tg, err := en.ownTarget(target)
	if err != nil {
		return nil, err
	}
	nc := newNetCon(tg.Type.NWeights)
	nc.Gen = gn
	nc.Target = tg
	en.NetCons = append(en.NetCons, nc)
	return nc, nil
}

func (en *Engine) SpikeDetector(ref engine.Ref) (engine.NetCon, error) {
	if ref == nil {
		return nil, fmt.Errorf("memsim: nil spike detector reference")
	}
	nc := newNetCon(1)
	nc.Watch = ref
	en.NetCons = append(en.NetCons, nc)
	return nc, nil
}

func (en *Engine) SetPointer(ref engine.Ref, pp engine.PointProcess, varName string) error {
	tg, err := en.ownTarget(pp)
	if err != nil {
		return err
	}
	if !tg.Type.HasPointer(varName) {
		return fmt.Errorf("memsim: %s has no pointer %q: %w", tg.Type.Name, varName, engine.ErrNotFound)
	}
	tg.Ptrs[varName] = ref
	return nil
}

func (en *Engine) Record(ref engine.Ref, step float64, vec *engine.Vector) error {
	if ref == nil || vec == nil {
		return fmt.Errorf("memsim: Record requires a reference and a vector")
	}
	if step <= 0 {
		return fmt.Errorf("memsim: Record step must be > 0, got %g", step)
	}
	en.recs = append(en.recs, &record{ref: ref, step: step, vec: vec, nextT: en.T})
	return nil
}

func (en *Engine) Play(ref engine.Ref, times, values *engine.Vector) error {
	if ref == nil || times == nil || values == nil {
		return fmt.Errorf("memsim: Play requires a reference, times and values")
	}
	if times.Len() != values.Len() {
		return fmt.Errorf("memsim: Play times (%d) and values (%d) differ in length", times.Len(), values.Len())
	}
	en.plays = append(en.plays, &play{ref: ref, times: times, values: values})
	return nil
}

////////////////////////////////////////////////////////////////
//  ParallelContext

func (en *Engine) SetGid2Node(gid, rank int) error {
	if own, has := en.Gid2Node[gid]; has {
		return fmt.Errorf("memsim: gid %d already registered on rank %d", gid, own)
	}
	en.Gid2Node[gid] = rank
	return nil
}

func (en *Engine) Cell(gid int, nc engine.NetCon) error {
	own, has := en.Gid2Node[gid]
	if !has || own != en.Rank {
		return fmt.Errorf("memsim: gid %d is not owned by rank %d", gid, en.Rank)
	}
	mnc, ok := nc.(*NetCon)
	if !ok || mnc.Watch == nil {
		return fmt.Errorf("memsim: gid %d output must be a spike detector", gid)
	}
	en.Outputs[gid] = mnc
	return nil
}

func (en *Engine) GidConnect(preGid int, target engine.PointProcess) (engine.NetCon, error) {
	tg, err := en.ownTarget(target)
	if err != nil {
		return nil, err
	}
	nc := newNetCon(tg.Type.NWeights)
	nc.SrcGid = preGid
	nc.Target = tg
	en.NetCons = append(en.NetCons, nc)
	return nc, nil
}

func (en *Engine) SpikeRecord(times, gids *engine.Vector) error {
	if times == nil || gids == nil {
		return fmt.Errorf("memsim: SpikeRecord requires two vectors")
	}
	en.spkTimes = times
	en.spkGids = gids
	return nil
}
