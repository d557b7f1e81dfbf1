// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package network

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/Anjali-Agarwal8/netpyne/engine"
	"github.com/Anjali-Agarwal8/netpyne/plotting"
	"github.com/Anjali-Agarwal8/netpyne/store"
	"github.com/emer/empi/mpi"
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"github.com/emer/etable/minmax"
)

// Spike is one recorded spike
type Spike struct {
	Time float64
	Gid  int
}

// Spikes returns the spikes recorded on this rank, sorted by time then gid
func (nt *Network) Spikes() []Spike {
	sd := nt.Ctx.SimData
	n := sd.SpkTimes.Len()
	spks := make([]Spike, n)
	for i := 0; i < n; i++ {
		spks[i] = Spike{Time: sd.SpkTimes.At(i), Gid: int(sd.SpkGids.At(i))}
	}
	sort.SliceStable(spks, func(i, j int) bool {
		if spks[i].Time == spks[j].Time {
			return spks[i].Gid < spks[j].Gid
		}
		return spks[i].Time < spks[j].Time
	})
	return spks
}

// popLabel returns the population label of gid
func (nt *Network) popLabel(gid int) string {
	if gid < 0 || gid >= len(nt.GidPop) {
		return ""
	}
	return nt.Pops[nt.GidPop[gid]].Label()
}

// SpikesTable returns the recorded spikes as a table with Time, Gid and Pop columns
func (nt *Network) SpikesTable() *etable.Table {
	spks := nt.Spikes()
	dt := etable.New(etable.Schema{
		{"Time", etensor.FLOAT64, nil, nil},
		{"Gid", etensor.INT64, nil, nil},
		{"Pop", etensor.STRING, nil, nil},
	}, len(spks))
	dt.SetMetaData("name", nt.Nm+"_spikes")
	for i, sp := range spks {
		dt.SetCellFloat("Time", i, sp.Time)
		dt.SetCellFloat("Gid", i, float64(sp.Gid))
		dt.SetCellString("Pop", i, nt.popLabel(sp.Gid))
	}
	return dt
}

// traceKeys returns the cell keys of recorded trace label, sorted by gid
func (nt *Network) traceKeys(label string) []string {
	tr := nt.Ctx.SimData.Traces[label]
	var keys []string
	for _, c := range nt.Cells {
		if _, has := tr[c.Key()]; has {
			keys = append(keys, c.Key())
		}
	}
	return keys
}

// TraceLabels returns the labels of all recorded traces, sorted
func (nt *Network) TraceLabels() []string {
	lbls := make([]string, 0, len(nt.Ctx.SimData.Traces))
	for k := range nt.Ctx.SimData.Traces {
		lbls = append(lbls, k)
	}
	sort.Strings(lbls)
	return lbls
}

// TraceTimes returns the sample times of n trace samples
func (nt *Network) TraceTimes(n int) []float64 {
	ts := make([]float64, n)
	for i := range ts {
		ts[i] = float64(i) * nt.Ctx.Cfg.RecordStep
	}
	return ts
}

// TracesTable returns the recordings of trace label as a table with a Time
// column and one column per cell
func (nt *Network) TracesTable(label string) (*etable.Table, error) {
	tr, has := nt.Ctx.SimData.Traces[label]
	if !has {
		err := fmt.Errorf("network %s: trace %q not recorded", nt.Nm, label)
		log.Println(err)
		return nil, err
	}
	keys := nt.traceKeys(label)
	n := 0
	for _, k := range keys {
		if l := tr[k].Len(); l > n {
			n = l
		}
	}
	sch := etable.Schema{{"Time", etensor.FLOAT64, nil, nil}}
	for _, k := range keys {
		sch = append(sch, etable.Column{Name: k, Type: etensor.FLOAT64})
	}
	dt := etable.New(sch, n)
	dt.SetMetaData("name", nt.Nm+"_"+label)
	for i, t := range nt.TraceTimes(n) {
		dt.SetCellFloat("Time", i, t)
	}
	for _, k := range keys {
		vals := tr[k].Values()
		for i, v := range vals {
			dt.SetCellFloat(k, i, v)
		}
	}
	return dt, nil
}

// PopRates returns the mean firing rate in Hz of each population over the run,
// counting the spikes recorded on this rank
func (nt *Network) PopRates() []float64 {
	cnt := make([]int, len(nt.Pops))
	for _, sp := range nt.Spikes() {
		if sp.Gid >= 0 && sp.Gid < len(nt.GidPop) {
			cnt[nt.GidPop[sp.Gid]]++
		}
	}
	dur := nt.Ctx.Cfg.Duration
	rates := make([]float64, len(nt.Pops))
	for i, pop := range nt.Pops {
		nc := len(pop.Gids)
		if nc == 0 || dur <= 0 {
			continue
		}
		rates[i] = float64(cnt[i]) * 1000 / (float64(nc) * dur)
	}
	return rates
}

// RasterData returns the recorded spikes for a raster plot, with cells
// indexed by gid
func (nt *Network) RasterData() *plotting.RasterData {
	spks := nt.Spikes()
	rd := &plotting.RasterData{NCells: nt.NCells()}
	rd.TimeRange = minmax.F64{Min: 0, Max: nt.Ctx.Cfg.Duration}
	for _, sp := range spks {
		rd.SpkTimes = append(rd.SpkTimes, sp.Time)
		rd.SpkInds = append(rd.SpkInds, float64(sp.Gid))
		pi := 0
		if sp.Gid >= 0 && sp.Gid < len(nt.GidPop) {
			pi = nt.GidPop[sp.Gid]
		}
		rd.SpkPops = append(rd.SpkPops, pi)
	}
	rates := nt.PopRates()
	for i, pop := range nt.Pops {
		rd.PopLabels = append(rd.PopLabels, pop.Label())
		rd.PopLabelRates = append(rd.PopLabelRates, fmt.Sprintf("%s (%.3g Hz)", pop.Label(), rates[i]))
	}
	return rd
}

// TracesData returns the recordings of trace label for a traces plot
func (nt *Network) TracesData(label string) (*plotting.TracesData, error) {
	tr, has := nt.Ctx.SimData.Traces[label]
	if !has {
		err := fmt.Errorf("network %s: trace %q not recorded", nt.Nm, label)
		log.Println(err)
		return nil, err
	}
	td := &plotting.TracesData{Title: "Recorded " + label, YLabel: label}
	n := 0
	for _, k := range nt.traceKeys(label) {
		vals := tr[k].Values()
		if len(vals) > n {
			n = len(vals)
		}
		td.Traces = append(td.Traces, plotting.Trace{Label: label + " " + k, Values: append([]float64(nil), vals...)})
	}
	td.Times = nt.TraceTimes(n)
	return td, nil
}

func vecsValues(vecs map[string]map[string]*engine.Vector) map[string]map[string][]float64 {
	if len(vecs) == 0 {
		return nil
	}
	out := make(map[string]map[string][]float64, len(vecs))
	for k, m := range vecs {
		om := make(map[string][]float64, len(m))
		for k2, v := range m {
			om[k2] = append([]float64(nil), v.Values()...)
		}
		out[k] = om
	}
	return out
}

// StoreRun returns the recorded data of this rank as a store run with given label
func (nt *Network) StoreRun(label string) *store.Run {
	cfg := nt.Ctx.Cfg
	run := store.NewRun(label)
	run.Duration = cfg.Duration
	run.Dt = cfg.Dt
	run.NCells = nt.NCells()
	for _, sp := range nt.Spikes() {
		run.SpkTimes = append(run.SpkTimes, sp.Time)
		run.SpkGids = append(run.SpkGids, float64(sp.Gid))
	}
	run.Traces = vecsValues(nt.Ctx.SimData.Traces)
	run.Stims = vecsValues(nt.Ctx.SimData.Stims)
	return run
}

// SaveRun saves the recorded data of this rank to st, returning the saved run
func (nt *Network) SaveRun(ctx context.Context, st store.Store, label string) (*store.Run, error) {
	defer nt.timeStage("SaveRun")()
	run := nt.StoreRun(label)
	if err := st.SaveRun(ctx, run); err != nil {
		log.Println(err)
		return nil, err
	}
	mpi.Printf("Saved run %s (%s)\n", run.ID, label)
	return run, nil
}
