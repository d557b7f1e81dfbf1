// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cell

import (
	"fmt"
	"log"

	"github.com/Anjali-Agarwal8/netpyne/engine"
)

// ConnParams specifies one incoming connection
type ConnParams struct {

	// gid of the presynaptic cell, possibly on another rank
	PreGid int

	// target section, default per TargetSec
	Sec string

	// target location in the section, default 0.5
	Loc *float64

	// target synaptic mechanism label, default the first defined
	SynMech string

	Weight float64

	// delay in msec
	Delay float64 `def:"1"`

	// presynaptic spike threshold in mV
	Threshold float64 `def:"10"`

	// optional adaptive weight mechanism
	Plasticity *PlastParams
}

func (cp *ConnParams) Defaults() {
	cp.Delay = 1
	cp.Threshold = DefaultThreshold
}

// PlastParams specifies an adaptive weight mechanism, e.g., STDP
type PlastParams struct {
	Mech   string
	Params Params
}

// Conn is one created incoming connection
type Conn struct {
	PreGid    int
	Sec       string
	Loc       float64
	SynMech   string
	Weight    float64
	Delay     float64
	Threshold float64

	Plasticity *PlastParams

	TargetType  TargetTypes
	PointP      string
	WeightIndex int

	// engine event link, nil if not materialized
	NetCon engine.NetCon

	// plasticity objects, nil if none
	Plast *Plast
}

// connDesc is the verbose description of cn, with the weight as applied to the engine
func (c *Cell) connDesc(cn *Conn) string {
	return fmt.Sprintf("Created connection preGid=%d, postGid=%d, sec=%s, loc=%.4g, synMech=%s, weight=%.4g, delay=%.1f",
		cn.PreGid, c.Gid, cn.Sec, cn.Loc, cn.SynMech, c.Ctx.Net.ScaleConnWeight*cn.Weight, cn.Delay)
}

// Plast holds the engine objects implementing plasticity of one connection
type Plast struct {
	Sec      engine.Section
	Mech     engine.PointProcess
	PreCon   engine.NetCon
	PostCon  engine.NetCon
	PreGid   int
	PostGid  int
	Receptor int
}

// locOr returns *loc, or def if nil
func locOr(loc *float64, def float64) float64 {
	if loc == nil {
		return def
	}
	return *loc
}

// AddConn creates an incoming connection from cp.PreGid. Self-connections
// are rejected with ErrSelfConn, a cell without sections gives ErrNoSection.
// No connection is recorded on error.
func (c *Cell) AddConn(cp *ConnParams) (*Conn, error) {
	if cp.PreGid == c.Gid {
		err := fmt.Errorf("cell gid=%d: %w", c.Gid, ErrSelfConn)
		log.Println(err)
		return nil, err
	}
	sc, err := c.TargetSec(cp.Sec)
	if err != nil {
		log.Println(err)
		return nil, err
	}
	loc := locOr(cp.Loc, 0.5)
	tg, err := c.ResolveTarget(sc, cp.SynMech, loc)
	if err != nil {
		log.Println(err)
		return nil, err
	}
	cn := &Conn{PreGid: cp.PreGid, Sec: sc.Name, Loc: loc, SynMech: tg.SynLabel(), Weight: cp.Weight,
		Delay: cp.Delay, Threshold: cp.Threshold, Plasticity: cp.Plasticity,
		TargetType: tg.Type, PointP: tg.PointP, WeightIndex: tg.WeightIndex}
	if tg.Type == PointPTarget {
		cn.SynMech = cp.SynMech
	}
	if c.Ctx.Materialize() && tg.Obj != nil {
		nc, err := c.Ctx.Eng.GidConnect(cp.PreGid, tg.Obj)
		if err == nil {
			err = nc.SetWeight(tg.WeightIndex, c.Ctx.Net.ScaleConnWeight*cp.Weight)
		}
		if err != nil {
			err = fmt.Errorf("cell gid=%d: connection from %d: %w", c.Gid, cp.PreGid, err)
			log.Println(err)
			return nil, err
		}
		nc.SetDelay(cp.Delay)
		nc.SetThreshold(cp.Threshold)
		cn.NetCon = nc
	}
	c.Conns = append(c.Conns, cn)
	if c.Ctx.Cfg.Verbose {
		fmt.Println(c.connDesc(cn))
	}
	if cp.Plasticity != nil && cn.NetCon != nil {
		if err := c.addPlasticity(cn); err != nil {
			log.Printf("cell gid=%d: error adding plasticity using %s mechanism: %v\n", c.Gid, cp.Plasticity.Mech, err)
		}
	}
	return cn, nil
}

// addPlasticity creates the plasticity mechanism of cn in its own section,
// driven by presynaptic spikes with weight +1 and by spikes of this cell
// with weight -1, and binds it to the live connection weight.
func (c *Cell) addPlasticity(cn *Conn) error {
	eng := c.Ctx.Eng
	pl := cn.Plasticity
	ps := &Plast{PreGid: cn.PreGid, PostGid: c.Gid, Receptor: cn.WeightIndex}
	ps.Sec = eng.NewSection(fmt.Sprintf("plast_%d_%d", c.Gid, len(c.Conns)-1))
	mech, err := eng.NewPointProcess(pl.Mech, ps.Sec, 0)
	if err != nil {
		return err
	}
	ps.Mech = mech
	for _, pn := range sortedKeys(pl.Params) {
		v, ok := pl.Params.Float(pn)
		if !ok {
			continue
		}
		if err := mech.SetParam(pn, v); err != nil {
			return err
		}
	}
	if ps.PreCon, err = eng.GidConnect(cn.PreGid, mech); err != nil {
		return err
	}
	if err := ps.PreCon.SetWeight(0, 1); err != nil {
		return err
	}
	if ps.PostCon, err = eng.GidConnect(c.Gid, mech); err != nil {
		return err
	}
	if err := ps.PostCon.SetWeight(0, -1); err != nil {
		return err
	}
	wref, err := cn.NetCon.WeightRef(cn.WeightIndex)
	if err != nil {
		return err
	}
	if err := eng.SetPointer(wref, mech, "synweight"); err != nil {
		return err
	}
	cn.Plast = ps
	if c.Ctx.Cfg.Verbose {
		fmt.Printf("  Added %s plasticity to synaptic mechanism\n", pl.Mech)
	}
	return nil
}
