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

// Trace is one recorded time series
type Trace struct {
	Label  string
	Values []float64
}

// TracesData are recorded traces sharing one time base
type TracesData struct {

	// sample times in msec
	Times []float64

	Traces []Trace

	// figure title, "Recorded Traces" if empty
	Title string

	// y axis label
	YLabel string
}

// Table returns the traces as a table with a Time column and one column per trace.
// Traces shorter than Times are padded with zeros.
func (td *TracesData) Table() *etable.Table {
	sch := etable.Schema{{"Time", etensor.FLOAT64, nil, nil}}
	for _, tr := range td.Traces {
		sch = append(sch, etable.Column{Name: tr.Label, Type: etensor.FLOAT64})
	}
	dt := etable.New(sch, len(td.Times))
	for i, t := range td.Times {
		dt.SetCellFloat("Time", i, t)
		for _, tr := range td.Traces {
			if i < len(tr.Values) {
				dt.SetCellFloat(tr.Label, i, tr.Values[i])
			}
		}
	}
	return dt
}

// PlotTraces plots each trace vs time in its own color, with a legend,
// and finishes the figure per opts
func PlotTraces(td *TracesData, opts *Options) (*LinePlotter, error) {
	fmt.Println("Plotting recorded traces...")
	lp := NewLinePlotter(nil, opts)
	lp.Kind = "traces"
	lp.Data = td.Table()
	title := td.Title
	if title == "" {
		title = "Recorded Traces"
	}
	lp.FormatAxis(title, "Time (ms)", td.YLabel)
	var ents []LegendEntry
	for i, tr := range td.Traces {
		n := len(tr.Values)
		if n > len(td.Times) {
			n = len(td.Times)
		}
		ln, err := lp.Plot(td.Times[:n], tr.Values[:n], i, 1)
		if err != nil {
			return lp, err
		}
		if ln != nil {
			ents = append(ents, LegendEntry{Label: tr.Label, Thumb: ln})
		}
	}
	if len(td.Times) > 1 {
		lp.SetRanges(minmax.F64{Min: td.Times[0], Max: td.Times[len(td.Times)-1]}, minmax.F64{})
	}
	if len(ents) > 0 {
		lp.AddLegend(ents, nil)
	}
	return lp, lp.FinishFig()
}
