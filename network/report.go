// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package network

import (
	"fmt"
	"sort"
	"strings"

	"github.com/c2h5oh/datasize"
	"github.com/emer/emergent/timer"
)

// SizeReport returns a string reporting the number of cells, connections and
// stimuli of each population on this rank, and the memory used by recordings
func (nt *Network) SizeReport() string {
	var b strings.Builder
	ncons := 0
	nstims := 0
	for _, pop := range nt.Pops {
		pc := 0
		ps := 0
		for _, c := range pop.Cells {
			pc += len(c.Conns)
			ps += len(c.Stims)
		}
		ncons += pc
		nstims += ps
		fmt.Fprintf(&b, "%14s:\t Cells: %d\t Local: %d\t Conns: %d\t Stims: %d\n", pop.Label(), len(pop.Gids), len(pop.Cells), pc, ps)
	}
	sd := nt.Ctx.SimData
	ntr := 0
	for _, tr := range sd.Traces {
		ntr += len(tr)
	}
	mem := sd.MemBytes()
	fmt.Fprintf(&b, "\n\n%14s:\t Cells: %d\t Conns: %d\t Stims: %d\t Traces: %d\t RecMem: %v\n", nt.Nm, nt.NCells(), ncons, nstims, ntr, (datasize.ByteSize)(mem).HumanReadable())
	return b.String()
}

// stageItems are the names of what each timed build stage produces
var stageItems = map[string]string{
	"CreateCells":  "cells",
	"ConnectCells": "conns",
	"AddStims":     "stims",
	"Run":          "spikes",
	"SaveRun":      "spikes",
}

// stageOrder is the report order of the build and run stages, others follow by name
var stageOrder = []string{"CreateCells", "ConnectCells", "AddStims", "Run", "SaveRun"}

// stageCount returns the number of items the stage produced on this rank
func (nt *Network) stageCount(stage string) int {
	switch stage {
	case "CreateCells":
		return len(nt.Cells)
	case "ConnectCells":
		return nt.NConns
	case "AddStims":
		return nt.NStims
	case "Run", "SaveRun":
		return nt.Ctx.SimData.SpkTimes.Len()
	}
	return 0
}

// TimerReport returns the wall time of each build and run stage of this rank,
// with the items it produced and their rate, followed by the local cells,
// connections and spikes of each population
func (nt *Network) TimerReport() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Stage times of network %s, rank %d\n", nt.Nm, nt.Ctx.Rank)
	stgs := make([]string, 0, len(nt.FunTimes))
	for _, st := range stageOrder {
		if _, has := nt.FunTimes[st]; has {
			stgs = append(stgs, st)
		}
	}
	var extra []string
	for st := range nt.FunTimes {
		if _, known := stageItems[st]; !known {
			extra = append(extra, st)
		}
	}
	sort.Strings(extra)
	stgs = append(stgs, extra...)

	tot := 0.0
	for _, st := range stgs {
		tot += nt.FunTimes[st].TotalSecs()
	}
	fmt.Fprintf(&b, "%14s	%8s	%6s	%8s	%10s\n", "Stage", "Secs", "Pct", "Items", "Items/s")
	for _, st := range stgs {
		secs := nt.FunTimes[st].TotalSecs()
		pct := 0.0
		if tot > 0 {
			pct = 100 * secs / tot
		}
		item, has := stageItems[st]
		if !has {
			fmt.Fprintf(&b, "%14s	%8.4g	%6.4g\n", st, secs, pct)
			continue
		}
		n := nt.stageCount(st)
		rate := 0.0
		if secs > 0 {
			rate = float64(n) / secs
		}
		fmt.Fprintf(&b, "%14s	%8.4g	%6.4g	%8s	%10.4g\n", st, secs, pct, fmt.Sprintf("%d %s", n, item), rate)
	}
	fmt.Fprintf(&b, "%14s	%8.4g\n", "Total", tot)

	spks := make([]int, len(nt.Pops))
	sd := nt.Ctx.SimData
	for i := 0; i < sd.SpkGids.Len(); i++ {
		g := int(sd.SpkGids.At(i))
		if g >= 0 && g < len(nt.GidPop) {
			spks[nt.GidPop[g]]++
		}
	}
	for pi, pop := range nt.Pops {
		pc := 0
		for _, c := range pop.Cells {
			pc += len(c.Conns)
		}
		fmt.Fprintf(&b, "%14s:	 Local: %d of %d	 Conns: %d	 Spikes: %d\n", pop.Label(), len(pop.Cells), len(pop.Gids), pc, spks[pi])
	}
	return b.String()
}

// timeStage starts the timer of stage, creating it if needed,
// and returns the function that stops it
func (nt *Network) timeStage(stage string) func() {
	ft, has := nt.FunTimes[stage]
	if !has {
		ft = &timer.Time{}
		nt.FunTimes[stage] = ft
	}
	ft.Start()
	return func() { ft.Stop() }
}
