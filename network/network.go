// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package network builds and runs a network of cells from a Params specification.

Cells get sequential gids over the populations, and each rank builds only the
cells it owns (gid modulo the number of ranks). Connections are made from the
projection patterns of each ConnRule, onto the cells of this rank, after every
cell has been registered. Recorded data can be gathered into etable tables,
converted for plotting, and saved to a store.
*/
package network

import (
	"errors"
	"fmt"
	"log"

	"github.com/Anjali-Agarwal8/netpyne/cell"
	"github.com/Anjali-Agarwal8/netpyne/engine"
	"github.com/emer/emergent/erand"
	"github.com/emer/emergent/timer"
	"github.com/emer/empi/mpi"
	"github.com/emer/etable/etensor"
)

// Pop is a built population
type Pop struct {
	Params *PopParams

	// gids of all cells of the population, on all ranks
	Gids []int

	// cells of the population owned by this rank
	Cells []*cell.Cell
}

// Label returns the label of the population
func (pp *Pop) Label() string {
	return pp.Params.Label
}

// Network is a network of cells on this rank
type Network struct {
	Nm     string
	Params *Params
	Ctx    *cell.Context

	Pops []*Pop

	// cells owned by this rank, in gid order
	Cells []*cell.Cell

	// local cells by gid
	CellByGid map[int]*cell.Cell

	// population index of every gid
	GidPop []int

	// number of connections and stimuli created on this rank
	NConns int
	NStims int

	// timers for each major function
	FunTimes map[string]*timer.Time `view:"-"`
}

// NewNetwork returns a new network for pars, built into eng (nil for structure only)
func NewNetwork(name string, pars *Params, cfg *cell.Config, eng engine.Engine) *Network {
	nt := &Network{Nm: name, Params: pars}
	nt.Ctx = cell.NewContext(cfg, &pars.Net, eng)
	nt.CellByGid = map[int]*cell.Cell{}
	nt.FunTimes = make(map[string]*timer.Time)
	return nt
}

// NCells returns the total number of cells on all ranks
func (nt *Network) NCells() int {
	return len(nt.GidPop)
}

// PopByLabel returns the population with given label, or nil
func (nt *Network) PopByLabel(label string) *Pop {
	for _, pp := range nt.Pops {
		if pp.Label() == label {
			return pp
		}
	}
	return nil
}

// PopByLabelTry returns the population with given label, or an error
func (nt *Network) PopByLabelTry(label string) (*Pop, error) {
	pp := nt.PopByLabel(label)
	if pp == nil {
		err := fmt.Errorf("network %s: population %q not found: %w", nt.Nm, label, cell.ErrConfig)
		log.Println(err)
		return nil, err
	}
	return pp, nil
}

// Build creates the cells, connections and stimuli of the network,
// and sets up recording
func (nt *Network) Build() error {
	if err := nt.CreateCells(); err != nil {
		return err
	}
	if err := nt.ConnectCells(); err != nil {
		return err
	}
	if err := nt.AddStims(); err != nil {
		return err
	}
	return nt.SetupRecording()
}

// CreateCells creates the cells of every population owned by this rank.
// Positions are drawn for all cells so they are the same on all ranks.
func (nt *Network) CreateCells() error {
	defer nt.timeStage("CreateCells")()
	ctx := nt.Ctx
	rnd := erand.NewSysRand(ctx.Cfg.Seed)
	gid := 0
	for pi, ppar := range nt.Params.Pops {
		pop := &Pop{Params: ppar}
		nt.Pops = append(nt.Pops, pop)
		for i := 0; i < ppar.NumCells; i++ {
			tags := nt.cellTags(ppar, rnd)
			pop.Gids = append(pop.Gids, gid)
			nt.GidPop = append(nt.GidPop, pi)
			if gid%ctx.NHosts == ctx.Rank {
				c, err := cell.NewCell(ctx, gid, tags)
				if err != nil {
					log.Println(err)
					return err
				}
				pop.Cells = append(pop.Cells, c)
				nt.Cells = append(nt.Cells, c)
				nt.CellByGid[gid] = c
			}
			gid++
		}
		if ctx.Cfg.Verbose {
			fmt.Printf("  Created %d of %d cells of population %s on rank %d\n", len(pop.Cells), ppar.NumCells, ppar.Label, ctx.Rank)
		}
	}
	mpi.Printf("Created %d cells in %d populations\n", gid, len(nt.Pops))
	return nil
}

// cellTags returns the tags of a new cell of ppar at a random position
func (nt *Network) cellTags(ppar *PopParams, rnd erand.Rand) cell.Tags {
	tags := cell.Tags{}
	for k, v := range ppar.Tags {
		tags[k] = v
	}
	tags[cell.PopKey] = ppar.Label
	if ppar.CellType != "" {
		tags[cell.CellTypeKey] = ppar.CellType
	}
	if ppar.CellModel != "" {
		tags[cell.CellModelKey] = ppar.CellModel
	}
	xn, yn, zn := rnd.Float64(-1), rnd.Float64(-1), rnd.Float64(-1)
	tags[cell.XNormKey] = xn
	tags[cell.YNormKey] = yn
	tags[cell.ZNormKey] = zn
	tags[cell.XKey] = xn * nt.Params.SizeX
	tags[cell.YKey] = yn * nt.Params.Net.SizeY
	tags[cell.ZKey] = zn * nt.Params.SizeZ
	return tags
}

// ConnectCells creates the connections of every ConnRule onto the cells of
// this rank. Self connections of the pattern are skipped. Connections whose
// target cannot be resolved are reported and skipped.
func (nt *Network) ConnectCells() error {
	defer nt.timeStage("ConnectCells")()
	nfail := 0
	for _, cr := range nt.Params.Conns {
		pre, err := nt.PopByLabelTry(cr.PrePop)
		if err != nil {
			return err
		}
		post, err := nt.PopByLabelTry(cr.PostPop)
		if err != nil {
			return err
		}
		pat, err := cr.Prjn()
		if err != nil {
			log.Println(err)
			return err
		}
		slen := len(pre.Gids)
		ssh := etensor.NewShape([]int{slen}, nil, nil)
		rsh := etensor.NewShape([]int{len(post.Gids)}, nil, nil)
		_, _, cons := pat.Connect(ssh, rsh, pre == post)
		for ri, rgid := range post.Gids {
			c, has := nt.CellByGid[rgid]
			if !has {
				continue
			}
			for si, sgid := range pre.Gids {
				if !cons.Values.Index(ri*slen + si) {
					continue
				}
				cp := cr.Conn
				cp.PreGid = sgid
				_, err := c.AddConn(&cp)
				switch {
				case err == nil:
					nt.NConns++
				case errors.Is(err, cell.ErrSelfConn):
				default:
					nfail++
				}
			}
		}
	}
	if nfail > 0 {
		log.Printf("network %s: %d connections could not be created\n", nt.Nm, nfail)
	}
	mpi.Printf("Made %d connections on rank 0\n", nt.NConns)
	return nil
}

// AddStims adds the generator stimuli and current clamps to the cells of
// this rank. Configuration errors are fatal, unresolved targets are skipped.
func (nt *Network) AddStims() error {
	defer nt.timeStage("AddStims")()
	for _, sr := range nt.Params.Stims {
		pop, err := nt.PopByLabelTry(sr.Pop)
		if err != nil {
			return err
		}
		for _, c := range pop.Cells {
			sp := sr.Stim
			_, err := c.AddNetStim(&sp)
			if err != nil {
				if fatalStimErr(err) {
					return err
				}
				continue
			}
			nt.NStims++
		}
	}
	for _, ir := range nt.Params.IClamps {
		pop, err := nt.PopByLabelTry(ir.Pop)
		if err != nil {
			return err
		}
		for _, c := range nt.clampCells(pop, ir.Cells) {
			ip := ir.IClamp
			if _, err := c.AddIClamp(&ip); err != nil {
				continue
			}
			nt.NStims++
		}
	}
	mpi.Printf("Added %d stimuli on rank 0\n", nt.NStims)
	return nil
}

func fatalStimErr(err error) bool {
	return errors.Is(err, cell.ErrUnknownSource) || errors.Is(err, cell.ErrUnknownShape) ||
		errors.Is(err, cell.ErrSwitchTimes) || errors.Is(err, cell.ErrConfig)
}

// clampCells returns the local cells of pop at given population indexes, all if none
func (nt *Network) clampCells(pop *Pop, idxs []int) []*cell.Cell {
	if len(idxs) == 0 {
		return pop.Cells
	}
	var cs []*cell.Cell
	for _, i := range idxs {
		if i < 0 || i >= len(pop.Gids) {
			continue
		}
		if c, has := nt.CellByGid[pop.Gids[i]]; has {
			cs = append(cs, c)
		}
	}
	return cs
}

// SetupRecording registers spike recording of this rank, the configured
// traces of every cell, and stimulus events if Config.RecordStim
func (nt *Network) SetupRecording() error {
	ctx := nt.Ctx
	if !ctx.Materialize() {
		return nil
	}
	sd := ctx.SimData
	if err := ctx.Eng.SpikeRecord(sd.SpkTimes, sd.SpkGids); err != nil {
		log.Println(err)
		return err
	}
	for _, c := range nt.Cells {
		c.RecordTraces()
		if ctx.Cfg.RecordStim {
			c.RecordStimSpikes()
		}
	}
	return nil
}

// Run initializes the engine and cell voltages, then runs for Config.Duration
func (nt *Network) Run(rn engine.Runner) error {
	defer nt.timeStage("Run")()
	cfg := nt.Ctx.Cfg
	if err := rn.Init(); err != nil {
		log.Println(err)
		return err
	}
	for _, c := range nt.Cells {
		c.InitV()
	}
	mpi.Printf("Running simulation for %g ms...\n", cfg.Duration)
	if err := rn.Run(cfg.Duration, cfg.Dt); err != nil {
		log.Println(err)
		return err
	}
	mpi.Printf("  Done; spikes on rank 0: %d\n", nt.Ctx.SimData.SpkTimes.Len())
	return nil
}
