// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package engine defines the capability interface that the cell package uses to
materialize declarative cell descriptions into a simulation backend.

Backends own numerical integration, event delivery and parallel spike exchange.
The cell package only ever creates sections, inserts mechanisms, sets parameters,
connects topology and creates event links through these interfaces, so it never
depends on how a particular backend reflects attributes.

See package memsim for an in-memory reference backend.
*/
package engine

import (
	"errors"

	"github.com/emer/emergent/erand"
)

// ErrNotFound is returned (wrapped) when a mechanism, point process,
// parameter or state variable name is not known to the backend.
var ErrNotFound = errors.New("engine: name not found")

// Ref is a live reference to one scalar state variable inside the engine,
// e.g., membrane potential at a location, or one element of a NetCon weight vector.
type Ref interface {
	Value() float64
	SetValue(val float64)
}

// Section is a discretized cable segment owned by the engine.
type Section interface {
	// Name returns the name the section was created with
	Name() string

	// NSeg returns the number of segments -- per-segment parameter
	// lists are aligned to segment iteration order 0..NSeg-1
	NSeg() int

	// Insert inserts a distributed membrane mechanism by name.
	// Unknown mechanisms return an error wrapping ErrNotFound.
	Insert(mech string) error

	// SetMechParam sets a parameter of an inserted mechanism on one segment
	SetMechParam(mech, param string, seg int, val float64) error

	// SetGeom sets a scalar geometry attribute (L, diam, Ra, cm, nseg)
	SetGeom(param string, val float64) error

	// Pt3dClear removes all 3D points
	Pt3dClear()

	// Pt3dAdd appends a 3D point with given diameter
	Pt3dAdd(x, y, z, diam float64)

	// Connect attaches this section at childX to parent at parentX
	Connect(parent Section, parentX, childX float64) error

	// Ref returns a reference to a section state variable (e.g., "v") at loc
	Ref(loc float64, varName string) (Ref, error)

	// MechRef returns a reference to a mechanism state variable at loc
	MechRef(loc float64, mech, varName string) (Ref, error)
}

// PointProcess is a localized model object attached at one location,
// e.g., a synaptic mechanism, an artificial cell model, or a current clamp.
type PointProcess interface {
	// Mod returns the name of the model this point process was created from
	Mod() string

	// SetParam sets a named parameter
	SetParam(name string, val float64) error

	// Param returns a named parameter or state value
	Param(name string) (float64, error)

	// Ref returns a reference to a named state variable
	Ref(varName string) (Ref, error)
}

// GeneratorParams configures a spike generator.
type GeneratorParams struct {

	// mean inter-event interval in msec
	Interval float64

	// fraction of the interval that is randomized (0 = regular, 1 = Poisson)
	Noise float64

	// time of first event in msec
	Start float64

	// maximum number of events generated
	Number float64
}

// Generator is a spike train source that can drive a NetCon.
type Generator interface {
	PointProcess

	// Variable returns true for the variable-rate variant
	Variable() bool
}

// NetCon is an event link delivering discrete events from a source
// (a cell identified by gid, a Generator, or a watched Ref) to a target
// with weight, delay and threshold.
type NetCon interface {
	// NWeights returns the length of the weight vector
	NWeights() int

	// Weight returns the weight at given index
	Weight(idx int) float64

	// SetWeight sets the weight at given index -- error if out of range
	SetWeight(idx int, wt float64) error

	// WeightRef returns a live reference to the weight at given index
	WeightRef(idx int) (Ref, error)

	Delay() float64
	SetDelay(del float64)
	Threshold() float64
	SetThreshold(thr float64)

	// Record appends the time of every event sent through this NetCon to vec
	Record(vec *Vector)
}

// ParallelContext is the distributed-run primitive: gids are registered with
// their owning rank before any connection can reference them.
type ParallelContext interface {
	// SetGid2Node registers gid as owned by rank.
	// Registering the same gid twice is an error.
	SetGid2Node(gid, rank int) error

	// Cell associates the spike detector nc as the output of gid
	Cell(gid int, nc NetCon) error

	// GidConnect creates a NetCon from gid (possibly owned by another rank) to target
	GidConnect(preGid int, target PointProcess) (NetCon, error)

	// SpikeRecord records spike times and gids of all cells on this rank
	SpikeRecord(times, gids *Vector) error
}

// Engine is the full capability interface used to materialize cells.
type Engine interface {
	ParallelContext

	// NewSection creates a new section with given name
	NewSection(name string) Section

	// NewPointProcess creates a point process of model mod at loc in sec
	NewPointProcess(mod string, sec Section, loc float64) (PointProcess, error)

	// NewGenerator creates a fixed-rate (variable = false) or variable-rate
	// spike generator, drawing its noise from rnd
	NewGenerator(variable bool, par GeneratorParams, rnd erand.Rand) (Generator, error)

	// NewNetCon links gen to target
	NewNetCon(gen Generator, target PointProcess) (NetCon, error)

	// SpikeDetector creates a NetCon without target that fires
	// when ref crosses its threshold upward
	SpikeDetector(ref Ref) (NetCon, error)

	// SetPointer binds a pointer variable of pp to ref, so that pp
	// can observe and mutate the referenced value
	SetPointer(ref Ref, pp PointProcess, varName string) error

	// Record samples ref every step msec into vec
	Record(ref Ref, step float64, vec *Vector) error

	// Play drives ref from values over simulated times
	Play(ref Ref, times, values *Vector) error
}

// Runner is implemented by engines that can advance simulated time.
type Runner interface {
	// Init resets state to initial values at t = 0
	Init() error

	// Run advances simulated time to tstop msec in steps of dt
	Run(tstop, dt float64) error

	// Time returns the current simulated time in msec
	Time() float64
}
