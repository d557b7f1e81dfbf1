// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cell

import (
	"github.com/Anjali-Agarwal8/netpyne/engine"
	"github.com/emer/empi/mpi"
)

// Context is the run-wide state shared by all cells built on this rank
type Context struct {
	Cfg *Config
	Net *NetParams

	// simulation backend, nil to build structure only
	Eng engine.Engine

	// rank of this process and total number of ranks
	Rank   int
	NHosts int

	// local index of each gid owned by this rank, and the inverse
	Gid2Lid map[int]int
	Lid2Gid []int

	SimData *SimData
}

// NewContext returns a new context for this rank, with rank and world size from mpi
func NewContext(cfg *Config, net *NetParams, eng engine.Engine) *Context {
	ctx := &Context{Cfg: cfg, Net: net, Eng: eng, Gid2Lid: map[int]int{}, SimData: NewSimData()}
	ctx.Rank = mpi.WorldRank()
	ctx.NHosts = mpi.WorldSize()
	if ctx.NHosts < 1 {
		ctx.NHosts = 1
	}
	cfg.Update()
	return ctx
}

// Materialize returns true if cells are built into engine objects
func (ctx *Context) Materialize() bool {
	return ctx.Cfg.CreateEngineObj && ctx.Eng != nil
}

// addGid registers gid as owned by this rank under the next local index
func (ctx *Context) addGid(gid int) {
	if _, has := ctx.Gid2Lid[gid]; has {
		return
	}
	ctx.Gid2Lid[gid] = len(ctx.Lid2Gid)
	ctx.Lid2Gid = append(ctx.Lid2Gid, gid)
}

// SimData holds everything recorded on this rank
type SimData struct {

	// trace samples by trace label, then by cell key
	Traces map[string]map[string]*engine.Vector

	// stimulus event times by cell key, then by stimulus label
	Stims map[string]map[string]*engine.Vector

	// spike times and gids of all cells on this rank
	SpkTimes *engine.Vector
	SpkGids  *engine.Vector
}

func NewSimData() *SimData {
	return &SimData{Traces: map[string]map[string]*engine.Vector{}, Stims: map[string]map[string]*engine.Vector{},
		SpkTimes: engine.NewVector(0), SpkGids: engine.NewVector(0)}
}

// Reset resizes all recordings to 0 length, keeping buffers
func (sd *SimData) Reset() {
	for _, tr := range sd.Traces {
		for _, v := range tr {
			v.Resize(0)
		}
	}
	for _, st := range sd.Stims {
		for _, v := range st {
			v.Resize(0)
		}
	}
	sd.SpkTimes.Resize(0)
	sd.SpkGids.Resize(0)
}

// MemBytes returns the memory used by all recording buffers
func (sd *SimData) MemBytes() int {
	n := sd.SpkTimes.MemBytes() + sd.SpkGids.MemBytes()
	for _, tr := range sd.Traces {
		for _, v := range tr {
			n += v.MemBytes()
		}
	}
	for _, st := range sd.Stims {
		for _, v := range st {
			n += v.MemBytes()
		}
	}
	return n
}
