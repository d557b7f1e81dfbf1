// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cell

import (
	"log"

	"github.com/BurntSushi/toml"
)

// Config holds the run-wide simulation configuration
type Config struct {

	// build the structural description of each cell from matched rules
	CreateStruct bool `def:"true"`

	// materialize each cell into engine objects
	CreateEngineObj bool `def:"true"`

	// total simulated duration in msec
	Duration float64 `def:"1000"`

	// integration time step in msec
	Dt float64 `def:"0.025"`

	// sampling step of trace recordings in msec
	RecordStep float64 `def:"0.1"`

	// base seed for stimulus random sources
	Seed int64 `def:"1"`

	// print details of every connection and stimulus created
	Verbose bool

	// record the event times of every stimulus
	RecordStim bool

	// traces to record from every cell, by trace label
	RecordTraces map[string]*TraceParams
}

func (cf *Config) Defaults() {
	cf.CreateStruct = true
	cf.CreateEngineObj = true
	cf.Duration = 1000
	cf.Dt = 0.025
	cf.RecordStep = 0.1
	cf.Seed = 1
}

// Update must be called after any changes to parameters
func (cf *Config) Update() {
	if cf.RecordTraces == nil {
		cf.RecordTraces = map[string]*TraceParams{}
	}
}

// NRecord returns the number of samples recorded per trace over Duration
func (cf *Config) NRecord() int {
	if cf.RecordStep <= 0 {
		return 0
	}
	return int(cf.Duration/cf.RecordStep) + 1
}

// OpenTOML opens config params from a TOML file, on top of current values
func (cf *Config) OpenTOML(filename string) error {
	if err := OpenTOML(filename, cf); err != nil {
		return err
	}
	cf.Update()
	return nil
}

// TraceParams describes one state variable to record on each cell.
// With Loc set, Var is read in Sec at Loc: from Mech if given, else from the
// synaptic mechanism SynMech, else from the section itself. Without Loc,
// Var is read from the point process PointP of Sec.
type TraceParams struct {
	Sec     string
	Loc     *float64
	Var     string
	Mech    string
	SynMech string
	PointP  string
}

// NetParams holds the network-wide structural configuration
type NetParams struct {

	// cell property rules, in match order
	CellParams []*PropertyRule

	// synaptic mechanism definitions, the first is the default target
	SynMechParams []*SynMechParams

	// multiplier applied to all connection weights
	ScaleConnWeight float64 `def:"1"`

	// multiplier applied to all stimulus weights
	ScaleConnWeightNetStims float64 `def:"1"`

	// network depth in um -- used with the ynorm tag to offset 3D points
	SizeY float64
}

func (np *NetParams) Defaults() {
	np.ScaleConnWeight = 1
	np.ScaleConnWeightNetStims = 1
}

// AddCellParams appends a property rule
func (np *NetParams) AddCellParams(rule *PropertyRule) {
	np.CellParams = append(np.CellParams, rule)
}

// AddSynMechParams appends a synaptic mechanism definition
func (np *NetParams) AddSynMechParams(smp *SynMechParams) {
	np.SynMechParams = append(np.SynMechParams, smp)
}

// SynMechByLabel returns the synaptic mechanism definition with given label, or nil
func (np *NetParams) SynMechByLabel(label string) *SynMechParams {
	for _, smp := range np.SynMechParams {
		if smp.Label == label {
			return smp
		}
	}
	return nil
}

// OpenTOML opens net params from a TOML file, on top of current values
func (np *NetParams) OpenTOML(filename string) error {
	return OpenTOML(filename, np)
}

// SynMechParams defines one synaptic mechanism: the point process model
// and its parameters
type SynMechParams struct {
	Label  string
	Mod    string
	Params Params
}

// OpenTOML decodes a TOML file into v, reporting undecoded keys
func OpenTOML(filename string, v any) error {
	md, err := toml.DecodeFile(filename, v)
	if err != nil {
		log.Println(err)
		return err
	}
	if und := md.Undecoded(); len(und) > 0 {
		log.Printf("OpenTOML: %s: undecoded keys: %v\n", filename, und)
	}
	return nil
}
