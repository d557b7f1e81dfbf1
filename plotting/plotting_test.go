// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plotting

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/emer/etable/minmax"
	"gonum.org/v1/plot"
)

func testOpts(t *testing.T) *Options {
	opts := &Options{}
	opts.Defaults()
	opts.FigSize = [2]float64{4, 3}
	opts.FileName = filepath.Join(t.TempDir(), "net")
	return opts
}

func testRaster() *RasterData {
	return &RasterData{
		SpkTimes:      []float64{1, 2, 5, 7.5, 9},
		SpkInds:       []float64{0, 1, 2, 0, 3},
		SpkPops:       []int{0, 0, 1, 0, 1},
		PopLabels:     []string{"E", "I"},
		PopLabelRates: []string{"E (150 Hz)", "I (100 Hz)"},
		NCells:        4,
		TimeRange:     minmax.F64{Min: 0, Max: 10},
	}
}

func TestFigName(t *testing.T) {
	opts := &Options{}
	opts.Defaults()
	gp := NewGeneralPlotter("raster", nil, opts)
	if fn := gp.FigName("", ""); fn != "model_output_raster.png" {
		t.Errorf("default fig name: %s", fn)
	}
	if fn := gp.FigName("", "pop"); fn != "model_output_raster_pop.png" {
		t.Errorf("fig name with file spec: %s", fn)
	}
	if fn := gp.FigName("out.svg", "a"); fn != "out.svg_a" {
		t.Errorf("explicit fig name: %s", fn)
	}
}

func TestShowFig(t *testing.T) {
	opts := testOpts(t)
	gp := NewGeneralPlotter("x", nil, opts)
	if err := gp.ShowFig(); !errors.Is(err, ErrNoDisplay) {
		t.Errorf("expected ErrNoDisplay, got %v", err)
	}
	shown := 0
	opts.Show = func(p *plot.Plot) error {
		if p != gp.Fig {
			t.Errorf("shown plot is not the figure")
		}
		shown++
		return nil
	}
	opts.ShowFig = true
	if err := gp.FinishFig(); err != nil {
		t.Error(err)
	}
	if shown != 1 {
		t.Errorf("show called %d times", shown)
	}
}

func TestPlotRaster(t *testing.T) {
	opts := testOpts(t)
	opts.SaveFig = true
	opts.SaveData = true
	sp, err := PlotRaster(testRaster(), nil, opts)
	if err != nil {
		t.Fatal(err)
	}
	if sp.Fig.Title.Text != "Raster Plot of Spiking" {
		t.Errorf("title: %s", sp.Fig.Title.Text)
	}
	if sp.Fig.X.Label.Text != "Time (ms)" || sp.Fig.Y.Label.Text != "Cells" {
		t.Errorf("axis labels: %s %s", sp.Fig.X.Label.Text, sp.Fig.Y.Label.Text)
	}
	if sp.Fig.X.Min != 0 || sp.Fig.X.Max != 10 || sp.Fig.Y.Max != 4 {
		t.Errorf("ranges: x %g..%g y max %g", sp.Fig.X.Min, sp.Fig.X.Max, sp.Fig.Y.Max)
	}
	if sp.Data.Rows != 5 {
		t.Errorf("data rows: %d", sp.Data.Rows)
	}
	if st, err := os.Stat(opts.FileName + "_raster.png"); err != nil || st.Size() == 0 {
		t.Errorf("raster figure not saved: %v", err)
	}
	csv, err := os.ReadFile(opts.FileName + "_raster_data.csv")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(csv), "Time") || !strings.Contains(string(csv), "Index") {
		t.Errorf("csv header missing columns:\n%s", csv)
	}
}

func TestPlotRasterEmpty(t *testing.T) {
	opts := testOpts(t)
	rd := &RasterData{NCells: 3}
	sp, err := PlotRaster(rd, nil, opts)
	if err != nil {
		t.Fatal(err)
	}
	if sp.Data.Rows != 0 {
		t.Errorf("empty raster has %d rows", sp.Data.Rows)
	}
}

func TestPlotRasterMismatch(t *testing.T) {
	rd := testRaster()
	rd.SpkInds = rd.SpkInds[:3]
	if _, err := PlotRaster(rd, nil, testOpts(t)); err == nil {
		t.Errorf("expected error for mismatched spike times and indexes")
	}
}

func TestPlotTraces(t *testing.T) {
	opts := testOpts(t)
	opts.SaveFig = true
	td := &TracesData{
		Times:  []float64{0, 0.1, 0.2, 0.3},
		Traces: []Trace{{"V_soma cell_0", []float64{-65, -64, -60, -20}}, {"V_soma cell_1", []float64{-65, -65}}},
		YLabel: "V (mV)",
	}
	lp, err := PlotTraces(td, opts)
	if err != nil {
		t.Fatal(err)
	}
	if lp.Fig.Title.Text != "Recorded Traces" {
		t.Errorf("title: %s", lp.Fig.Title.Text)
	}
	if lp.Data.Rows != 4 {
		t.Errorf("data rows: %d", lp.Data.Rows)
	}
	if v := lp.Data.CellFloat("V_soma cell_1", 3); v != 0 {
		t.Errorf("short trace not padded: %g", v)
	}
	if _, err := os.Stat(opts.FileName + "_traces.png"); err != nil {
		t.Errorf("traces figure not saved: %v", err)
	}
}

func TestMarker(t *testing.T) {
	mk := Marker{}
	mk.Defaults()
	if _, ok := mk.Glyph().(VLineGlyph); !ok {
		t.Errorf("default marker is not a vertical line")
	}
	mk.Shape = "?"
	sty := mk.GlyphStyle(len(ColorList))
	if sty.Color != PopColor(0) {
		t.Errorf("color index does not wrap")
	}
}

func TestMismatchedData(t *testing.T) {
	sp := NewScatterPlotter(nil, nil)
	mk := Marker{}
	mk.Defaults()
	if _, err := sp.Plot([]float64{1, 2}, []float64{1}, mk, nil); err == nil {
		t.Errorf("expected error for mismatched lengths")
	}
}
