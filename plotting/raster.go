// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plotting

import (
	"fmt"

	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"github.com/emer/etable/minmax"
)

// RasterData is the spike data of a raster plot
type RasterData struct {

	// spike times in msec
	SpkTimes []float64

	// index of the spiking cell, in plot order
	SpkInds []float64

	// population index of each spike, into PopLabels
	SpkPops []int

	// population labels, in order
	PopLabels []string

	// legend label of each population with its rate, e.g., "E (12.5 Hz)"
	PopLabelRates []string

	// total number of cells plotted
	NCells int

	// time range of the plot, full extent of spikes if invalid
	TimeRange minmax.F64
}

// Table returns the spike data as a table with Time, Index and Pop columns
func (rd *RasterData) Table() *etable.Table {
	dt := etable.New(etable.Schema{
		{"Time", etensor.FLOAT64, nil, nil},
		{"Index", etensor.FLOAT64, nil, nil},
		{"Pop", etensor.INT64, nil, nil},
	}, len(rd.SpkTimes))
	for i, t := range rd.SpkTimes {
		dt.SetCellFloat("Time", i, t)
		dt.SetCellFloat("Index", i, rd.SpkInds[i])
		if i < len(rd.SpkPops) {
			dt.SetCellFloat("Pop", i, float64(rd.SpkPops[i]))
		}
	}
	return dt
}

// RasterParams are the options of a raster plot
type RasterParams struct {

	// add a per-population legend
	Legend bool `def:"true"`

	// show population rates in the legend
	PopRates bool `def:"true"`

	Marker Marker
}

func (rp *RasterParams) Defaults() {
	rp.Legend = true
	rp.PopRates = true
	rp.Marker.Defaults()
}

// PlotRaster plots spike times vs cell index, colored by population,
// and finishes the figure per opts. rp defaults if nil.
// SpkTimes and SpkInds must have the same length.
func PlotRaster(rd *RasterData, rp *RasterParams, opts *Options) (*ScatterPlotter, error) {
	if len(rd.SpkTimes) != len(rd.SpkInds) {
		return nil, fmt.Errorf("plotting: raster has %d spike times but %d spike indexes", len(rd.SpkTimes), len(rd.SpkInds))
	}
	if rp == nil {
		rp = &RasterParams{}
		rp.Defaults()
	}
	fmt.Println("Plotting raster...")
	sp := NewScatterPlotter(nil, opts)
	sp.Kind = "raster"
	sp.Data = rd.Table()
	sp.FormatAxis("Raster Plot of Spiking", "Time (ms)", "Cells")
	var clrs []int
	if len(rd.SpkPops) == len(rd.SpkTimes) {
		clrs = rd.SpkPops
	}
	if _, err := sp.Plot(rd.SpkTimes, rd.SpkInds, rp.Marker, clrs); err != nil {
		return sp, err
	}
	tr := rd.TimeRange
	if tr.Max <= tr.Min {
		tr.SetInfinity()
		for _, t := range rd.SpkTimes {
			tr.FitValInRange(t)
		}
	}
	yr := minmax.F64{Min: 0, Max: float64(rd.NCells)}
	sp.SetRanges(tr, yr)
	if rp.Legend && len(rd.PopLabels) > 0 {
		ents := make([]LegendEntry, len(rd.PopLabels))
		for i, pl := range rd.PopLabels {
			lbl := pl
			if rp.PopRates && i < len(rd.PopLabelRates) {
				lbl = rd.PopLabelRates[i]
			}
			ents[i] = LegendEntry{Label: lbl, Thumb: Patch{Color: PopColor(i)}}
		}
		lp := &LegendParams{}
		lp.Defaults()
		sp.AddLegend(ents, lp)
	}
	return sp, sp.FinishFig()
}
