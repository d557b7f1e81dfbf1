// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package cell builds individual model neurons from declarative property rules.

A Cell is created from its tags: the rules in NetParams.CellParams whose
conditions match the tags are applied in order, first to the structural
description of the cell (Section descriptors), then to engine objects,
in two phases: Declare creates all sections, mechanisms and point processes,
and Wire connects the section topology once every section exists.

Connections (AddConn), generator stimuli (AddNetStim), current clamps
(AddIClamp) and recordings (RecordTraces, RecordStimSpikes) are added to an
already created cell.
*/
package cell

import (
	"fmt"
	"log"

	"github.com/Anjali-Agarwal8/netpyne/engine"
	"github.com/goki/mat32"
)

// DefaultThreshold is the default spike detection threshold in mV
const DefaultThreshold = 10

// Cell is one neuron instance identified by its global id
type Cell struct {

	// global id, unique across all ranks
	Gid int

	Tags Tags

	// sections by name
	Secs map[string]*Section

	// section names in creation order
	SecNames []string

	SecLists map[string][]string

	// incoming connections
	Conns []*Conn

	// stimuli targeting this cell
	Stims []*Stim

	// spike detector registered as the output of Gid
	SpikeDet engine.NetCon

	Ctx *Context
}

// Section is the structural description of one section of a Cell,
// plus its engine object once materialized
type Section struct {
	Name string

	Geom Params

	// 3D points as declared, before the cell position offset
	Pt3d []mat32.Vec4

	// membrane mechanisms with merged parameters
	Mechs map[string]Params

	// point processes by label
	PointPs map[string]*PointP

	Topol       *Topology
	SpikeGenLoc *float64
	VInit       *float64

	// attached synaptic mechanisms
	SynMechs []*SynMech

	// engine section, nil until materialized
	Sec engine.Section
}

// PointP is a declared point process with its engine object once materialized
type PointP struct {
	Params Params
	Obj    engine.PointProcess
}

// SynMech is a synaptic mechanism attached at a location of a section
type SynMech struct {
	Label string
	Loc   float64
	Obj   engine.PointProcess
}

func newSection(name string) *Section {
	return &Section{Name: name, Geom: Params{}, Mechs: map[string]Params{}, PointPs: map[string]*PointP{}}
}

// SynMechAt returns the synaptic mechanism with given label at loc, or nil
func (sc *Section) SynMechAt(label string, loc float64) *SynMech {
	for _, sm := range sc.SynMechs {
		if sm.Label == label && sm.Loc == loc {
			return sm
		}
	}
	return nil
}

// VRefPointP returns the label of the first point process (by sorted label)
// that declares a reference variable, and the point process, or nil
func (sc *Section) VRefPointP() (string, *PointP) {
	for _, nm := range sortedKeys(sc.PointPs) {
		pp := sc.PointPs[nm]
		if pp.Params.VRef() != "" {
			return nm, pp
		}
	}
	return "", nil
}

// NewCell creates a new cell with given gid and tags: builds it from the
// matching rules and registers it with the engine.
func NewCell(ctx *Context, gid int, tags Tags) (*Cell, error) {
	c := &Cell{Gid: gid, Tags: tags.Copy(), Secs: map[string]*Section{}, SecLists: map[string][]string{}, Ctx: ctx}
	if err := c.Create(); err != nil {
		return nil, err
	}
	if err := c.AssociateGid(DefaultThreshold); err != nil {
		return nil, err
	}
	return c, nil
}

// Key returns the key of this cell in recorded data
func (c *Cell) Key() string {
	return fmt.Sprintf("cell_%d", c.Gid)
}

func (c *Cell) String() string {
	return fmt.Sprintf("Cell gid=%d pop=%s", c.Gid, c.Tags.String(PopKey))
}

// Create builds the cell from all property rules matching its tags
func (c *Cell) Create() error {
	rules := MatchRules(c.Tags, c.Ctx.Net.CellParams)
	for _, r := range rules {
		c.Tags.AddProp(r.Label)
	}
	if c.Ctx.Cfg.CreateStruct {
		for _, r := range rules {
			if err := c.BuildStruct(r); err != nil {
				return err
			}
		}
		if err := c.CheckTopology(); err != nil {
			return err
		}
	}
	if c.Ctx.Materialize() {
		for _, r := range rules {
			if err := c.Declare(r); err != nil {
				return err
			}
		}
		for _, r := range rules {
			if err := c.Wire(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// addSection returns the named section, creating it if absent
func (c *Cell) addSection(name string) *Section {
	if sc, has := c.Secs[name]; has {
		return sc
	}
	sc := newSection(name)
	c.Secs[name] = sc
	c.SecNames = append(c.SecNames, name)
	return sc
}

// SecByName returns the section with given name, or nil
func (c *Cell) SecByName(name string) *Section {
	return c.Secs[name]
}

// SecByNameTry returns the section with given name, or an error if not found
func (c *Cell) SecByNameTry(name string) (*Section, error) {
	sc, has := c.Secs[name]
	if !has {
		return nil, fmt.Errorf("cell gid=%d: section %q not found", c.Gid, name)
	}
	return sc, nil
}

// CheckTopology returns an error if any section has a parent not in this cell
func (c *Cell) CheckTopology() error {
	for _, nm := range c.SecNames {
		sc := c.Secs[nm]
		if sc.Topol == nil {
			continue
		}
		if _, has := c.Secs[sc.Topol.ParentSec]; !has {
			return fmt.Errorf("cell gid=%d: section %s parent %q not in cell: %w", c.Gid, nm, sc.Topol.ParentSec, ErrConfig)
		}
	}
	return nil
}

// spikeSource returns the section hosting the spike detector and its location:
// the first section declaring SpikeGenLoc, else soma, else the first section
func (c *Cell) spikeSource() (*Section, float64) {
	for _, nm := range c.SecNames {
		if sc := c.Secs[nm]; sc.SpikeGenLoc != nil {
			return sc, *sc.SpikeGenLoc
		}
	}
	if sc, has := c.Secs["soma"]; has {
		return sc, 0.5
	}
	if len(c.SecNames) > 0 {
		return c.Secs[c.SecNames[0]], 0.5
	}
	return nil, 0
}

// AssociateGid registers this cell's gid with this rank and its spike
// detector as the gid output. The detector watches the reference variable of
// an artificial cell if the spike source section has one, else membrane v.
// Cells without sections, or not materialized, are not registered.
func (c *Cell) AssociateGid(threshold float64) error {
	sc, loc := c.spikeSource()
	if sc == nil || !c.Ctx.Materialize() || sc.Sec == nil {
		return nil
	}
	eng := c.Ctx.Eng
	if err := eng.SetGid2Node(c.Gid, c.Ctx.Rank); err != nil {
		err = fmt.Errorf("cell gid=%d: %w", c.Gid, err)
		log.Println(err)
		return err
	}
	ctx := c.Ctx
	var ref engine.Ref
	var err error
	if _, pp := sc.VRefPointP(); pp != nil && pp.Obj != nil {
		ref, err = pp.Obj.Ref(pp.Params.VRef())
	} else {
		ref, err = sc.Sec.Ref(loc, "v")
	}
	if err == nil {
		c.SpikeDet, err = eng.SpikeDetector(ref)
	}
	if err == nil {
		c.SpikeDet.SetThreshold(threshold)
		err = eng.Cell(c.Gid, c.SpikeDet)
	}
	if err != nil {
		err = fmt.Errorf("cell gid=%d: spike detector: %w", c.Gid, err)
		log.Println(err)
		return err
	}
	ctx.addGid(c.Gid)
	return nil
}
