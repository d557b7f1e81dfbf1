// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cell

import (
	"fmt"

	"github.com/Anjali-Agarwal8/netpyne/engine"
)

// TraceRef resolves the engine reference of a trace on this cell
func (c *Cell) TraceRef(tp *TraceParams) (engine.Ref, error) {
	sc, err := c.SecByNameTry(tp.Sec)
	if err != nil {
		return nil, err
	}
	if sc.Sec == nil {
		return nil, fmt.Errorf("cell gid=%d: section %s not materialized", c.Gid, tp.Sec)
	}
	if tp.Loc != nil {
		loc := *tp.Loc
		switch {
		case tp.Mech != "":
			return sc.Sec.MechRef(loc, tp.Mech, tp.Var)
		case tp.SynMech != "":
			sm := sc.SynMechAt(tp.SynMech, loc)
			if sm == nil || sm.Obj == nil {
				return nil, fmt.Errorf("cell gid=%d: no synMech %s at %s(%g)", c.Gid, tp.SynMech, tp.Sec, loc)
			}
			return sm.Obj.Ref(tp.Var)
		default:
			return sc.Sec.Ref(loc, tp.Var)
		}
	}
	if tp.PointP != "" {
		pp, has := sc.PointPs[tp.PointP]
		if !has || pp.Obj == nil {
			return nil, fmt.Errorf("cell gid=%d: section %s has no point process %s", c.Gid, tp.Sec, tp.PointP)
		}
		return pp.Obj.Ref(tp.Var)
	}
	return nil, fmt.Errorf("cell gid=%d: trace on %s needs a location or a point process", c.Gid, tp.Sec)
}

// RecordTraces registers periodic sampling of every configured trace this
// cell can resolve, into SimData.Traces[label][cell key]. Traces that do not
// apply to this cell are skipped.
func (c *Cell) RecordTraces() {
	ctx := c.Ctx
	if !ctx.Materialize() {
		return
	}
	n := ctx.Cfg.NRecord()
	for _, key := range sortedKeys(ctx.Cfg.RecordTraces) {
		tp := ctx.Cfg.RecordTraces[key]
		ref, err := c.TraceRef(tp)
		if err != nil {
			if ctx.Cfg.Verbose {
				fmt.Printf("  Cannot record %s from cell %d: %v\n", key, c.Gid, err)
			}
			continue
		}
		vec := engine.NewVector(n)
		if err := ctx.Eng.Record(ref, ctx.Cfg.RecordStep, vec); err != nil {
			if ctx.Cfg.Verbose {
				fmt.Printf("  Cannot record %s from cell %d: %v\n", key, c.Gid, err)
			}
			continue
		}
		tr, has := ctx.SimData.Traces[key]
		if !has {
			tr = map[string]*engine.Vector{}
			ctx.SimData.Traces[key] = tr
		}
		tr[c.Key()] = vec
		if ctx.Cfg.Verbose {
			fmt.Printf("  Recording %s from cell %d\n", key, c.Gid)
		}
	}
}

// RecordStimSpikes records the event times of every generator stimulus of
// this cell into SimData.Stims[cell key][stim label]
func (c *Cell) RecordStimSpikes() {
	ctx := c.Ctx
	for _, st := range c.Stims {
		if st.NetCon == nil {
			continue
		}
		sd, has := ctx.SimData.Stims[c.Key()]
		if !has {
			sd = map[string]*engine.Vector{}
			ctx.SimData.Stims[c.Key()] = sd
		}
		vec := engine.NewVector(0)
		st.NetCon.Record(vec)
		sd[st.Label] = vec
	}
}
