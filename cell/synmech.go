// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cell

import (
	"fmt"

	"github.com/Anjali-Agarwal8/netpyne/engine"
)

// AddSynMech attaches the synaptic mechanism with given label at loc of
// section secName, returning the existing one if already attached there.
func (c *Cell) AddSynMech(label, secName string, loc float64) (*SynMech, error) {
	smp := c.Ctx.Net.SynMechByLabel(label)
	if smp == nil {
		return nil, fmt.Errorf("cell gid=%d: synMech %q not defined: %w", c.Gid, label, ErrNoSynMech)
	}
	sc, has := c.Secs[secName]
	if !has {
		return nil, fmt.Errorf("cell gid=%d: section %q not in cell: %w", c.Gid, secName, ErrNoSection)
	}
	sm := sc.SynMechAt(label, loc)
	if sm == nil {
		sm = &SynMech{Label: label, Loc: loc}
		sc.SynMechs = append(sc.SynMechs, sm)
	}
	if !c.Ctx.Materialize() || sm.Obj != nil {
		return sm, nil
	}
	if sc.Sec == nil {
		return nil, fmt.Errorf("cell gid=%d: section %s has no engine object: %w", c.Gid, secName, ErrNoSynMech)
	}
	obj, err := c.Ctx.Eng.NewPointProcess(smp.Mod, sc.Sec, loc)
	if err != nil {
		return nil, fmt.Errorf("cell gid=%d: synMech %s: %v: %w", c.Gid, label, err, ErrNoSynMech)
	}
	for _, pn := range sortedKeys(smp.Params) {
		v, ok := smp.Params.Float(pn)
		if !ok {
			continue
		}
		if err := obj.SetParam(pn, v); err != nil {
			return nil, fmt.Errorf("cell gid=%d: synMech %s: %w", c.Gid, label, err)
		}
	}
	sm.Obj = obj
	return sm, nil
}

// TargetSec returns the section to target for a connection or stimulus.
// In priority order: name if it is a section of this cell, else soma,
// else the first section (in creation order) with a synaptic mechanism,
// else the first section. Returns ErrNoSection if the cell has no sections.
func (c *Cell) TargetSec(name string) (*Section, error) {
	if sc, has := c.Secs[name]; has {
		return sc, nil
	}
	if sc, has := c.Secs["soma"]; has {
		return sc, nil
	}
	for _, nm := range c.SecNames {
		if sc := c.Secs[nm]; len(sc.SynMechs) > 0 {
			return sc, nil
		}
	}
	if len(c.SecNames) > 0 {
		return c.Secs[c.SecNames[0]], nil
	}
	return nil, fmt.Errorf("cell gid=%d: %w", c.Gid, ErrNoSection)
}

// Target is the resolved target of a connection or stimulus
type Target struct {
	Type TargetTypes

	// label of the artificial-cell point process, for PointPTarget
	PointP string

	// synaptic mechanism, for SynMechTarget
	SynMech *SynMech

	// index into the NetCon weight vector
	WeightIndex int

	// engine object receiving events, nil if not materialized
	Obj engine.PointProcess
}

// SynLabel returns the label of the targeted synaptic mechanism, if any
func (tg *Target) SynLabel() string {
	if tg.SynMech == nil {
		return ""
	}
	return tg.SynMech.Label
}

// ResolveTarget resolves the event target within section sc. An artificial
// cell point process is targeted directly, with the weight index of synMech
// in its receptor list (0 if not listed). Otherwise the synaptic mechanism
// synMech, or the first defined one if empty, is attached at loc.
func (c *Cell) ResolveTarget(sc *Section, synMech string, loc float64) (*Target, error) {
	if pn, pp := sc.VRefPointP(); pp != nil {
		tg := &Target{Type: PointPTarget, PointP: pn, Obj: pp.Obj}
		for i, sl := range pp.Params.SynList() {
			if sl == synMech {
				tg.WeightIndex = i
				break
			}
		}
		return tg, nil
	}
	if synMech == "" {
		if len(c.Ctx.Net.SynMechParams) == 0 {
			return nil, fmt.Errorf("cell gid=%d: no synMechs defined: %w", c.Gid, ErrNoSynMech)
		}
		synMech = c.Ctx.Net.SynMechParams[0].Label
	}
	sm, err := c.AddSynMech(synMech, sc.Name, loc)
	if err != nil {
		return nil, err
	}
	return &Target{Type: SynMechTarget, SynMech: sm, Obj: sm.Obj}, nil
}
