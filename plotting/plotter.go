// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package plotting draws recorded simulation data with gonum/plot.

GeneralPlotter holds one figure with its options and the data it shows.
ScatterPlotter and LinePlotter add scatter and line series. PlotRaster and
PlotTraces build the standard spike raster and membrane trace figures.
*/
package plotting

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/emer/etable/etable"
	"github.com/emer/etable/minmax"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrNoDisplay is returned by ShowFig when no Show function is set
var ErrNoDisplay = errors.New("plotting: no display available")

// Options are the figure options shared by all plotters
type Options struct {

	// figure width and height in inches
	FigSize [2]float64 `def:"[10, 8]"`

	// save the plotted data as CSV when finishing a figure
	SaveData bool

	// save the figure as an image when finishing a figure
	SaveFig bool

	// show the figure when finishing, using Show
	ShowFig bool

	// base file name of saved figures and data
	FileName string `def:"model_output"`

	// displays a figure, e.g., in a GUI or notebook
	Show func(p *plot.Plot) error `toml:"-" json:"-"`
}

func (op *Options) Defaults() {
	op.FigSize = [2]float64{10, 8}
	op.FileName = "model_output"
}

// LegendParams positions the legend
type LegendParams struct {

	// place legend at top, else bottom
	Top bool `def:"true"`

	// place legend at left, else right
	Left bool

	// offsets from the default position, in inches
	XOffs float64
	YOffs float64

	// width of the legend thumbnails, in inches
	ThumbWidth float64 `def:"0.2"`
}

func (lp *LegendParams) Defaults() {
	lp.Top = true
	lp.ThumbWidth = 0.2
}

// LegendEntry is one labeled legend item
type LegendEntry struct {
	Label string
	Thumb plot.Thumbnailer
}

// GeneralPlotter is one figure with its options and data.
// Kind names the figure in default file names.
type GeneralPlotter struct {
	Kind string
	Fig  *plot.Plot
	Opts *Options

	// data shown in the figure, saved by SaveData
	Data *etable.Table
}

// NewGeneralPlotter returns a plotter of given kind drawing into p,
// or into a new plot if p is nil. Options default if opts is nil.
func NewGeneralPlotter(kind string, p *plot.Plot, opts *Options) *GeneralPlotter {
	if p == nil {
		p = plot.New()
	}
	if opts == nil {
		opts = &Options{}
		opts.Defaults()
	}
	return &GeneralPlotter{Kind: kind, Fig: p, Opts: opts}
}

// FormatAxis sets the title and axis labels, ignoring empty strings
func (gp *GeneralPlotter) FormatAxis(title, xlabel, ylabel string) {
	if title != "" {
		gp.Fig.Title.Text = title
	}
	if xlabel != "" {
		gp.Fig.X.Label.Text = xlabel
	}
	if ylabel != "" {
		gp.Fig.Y.Label.Text = ylabel
	}
}

// SetRanges sets the axis ranges, skipping invalid ones
func (gp *GeneralPlotter) SetRanges(xr, yr minmax.F64) {
	if xr.Max > xr.Min {
		gp.Fig.X.Min, gp.Fig.X.Max = xr.Min, xr.Max
	}
	if yr.Max > yr.Min {
		gp.Fig.Y.Min, gp.Fig.Y.Max = yr.Min, yr.Max
	}
}

// AddLegend adds legend entries, positioned per lp (defaults if nil)
func (gp *GeneralPlotter) AddLegend(entries []LegendEntry, lp *LegendParams) {
	if lp == nil {
		lp = &LegendParams{}
		lp.Defaults()
	}
	lg := &gp.Fig.Legend
	lg.Top = lp.Top
	lg.Left = lp.Left
	lg.XOffs = vg.Length(lp.XOffs) * vg.Inch
	lg.YOffs = vg.Length(lp.YOffs) * vg.Inch
	if lp.ThumbWidth > 0 {
		lg.ThumbnailWidth = vg.Length(lp.ThumbWidth) * vg.Inch
	}
	for _, le := range entries {
		lg.Add(le.Label, le.Thumb)
	}
}

// FigName returns the file name for saving: fileName with _fileSpec suffix,
// or Opts.FileName_Kind_fileSpec.png if fileName is empty
func (gp *GeneralPlotter) FigName(fileName, fileSpec string) string {
	spec := ""
	if fileSpec != "" {
		spec = "_" + fileSpec
	}
	if fileName != "" {
		return fileName + spec
	}
	return gp.Opts.FileName + "_" + gp.Kind + spec + ".png"
}

// SaveFig saves the figure at FigSize, returning the file name.
// The image format follows the file extension.
func (gp *GeneralPlotter) SaveFig(fileName, fileSpec string) (string, error) {
	fn := gp.FigName(fileName, fileSpec)
	w := vg.Length(gp.Opts.FigSize[0]) * vg.Inch
	h := vg.Length(gp.Opts.FigSize[1]) * vg.Inch
	if err := gp.Fig.Save(w, h, fn); err != nil {
		log.Println(err)
		return fn, err
	}
	return fn, nil
}

// SaveData saves Data as CSV, to fileName or Opts.FileName_Kind_data.csv
func (gp *GeneralPlotter) SaveData(fileName string) (string, error) {
	if gp.Data == nil {
		return "", fmt.Errorf("plotting: %s figure has no data to save", gp.Kind)
	}
	fn := fileName
	if fn == "" {
		fn = gp.Opts.FileName + "_" + gp.Kind + "_data.csv"
	}
	f, err := os.Create(fn)
	if err != nil {
		log.Println(err)
		return fn, err
	}
	defer f.Close()
	if err := gp.Data.WriteCSV(f, etable.Comma, etable.Headers); err != nil {
		log.Println(err)
		return fn, err
	}
	return fn, nil
}

// ShowFig displays the figure with Opts.Show
func (gp *GeneralPlotter) ShowFig() error {
	if gp.Opts.Show == nil {
		return ErrNoDisplay
	}
	return gp.Opts.Show(gp.Fig)
}

// FinishFig saves data, saves the figure and shows it, per Opts
func (gp *GeneralPlotter) FinishFig() error {
	if gp.Opts.SaveData && gp.Data != nil {
		if _, err := gp.SaveData(""); err != nil {
			return err
		}
	}
	if gp.Opts.SaveFig {
		if _, err := gp.SaveFig("", ""); err != nil {
			return err
		}
	}
	if gp.Opts.ShowFig {
		return gp.ShowFig()
	}
	return nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  Scatter, Line

// ScatterPlotter adds scatter series to a figure
type ScatterPlotter struct {
	GeneralPlotter
}

// NewScatterPlotter returns a scatter plotter drawing into p, or a new plot if nil
func NewScatterPlotter(p *plot.Plot, opts *Options) *ScatterPlotter {
	return &ScatterPlotter{GeneralPlotter: *NewGeneralPlotter("scatter", p, opts)}
}

// Plot adds a scatter of ys vs xs. If colors is non-nil it gives the
// color index into ColorList of each point. Nothing is added for empty data.
func (sp *ScatterPlotter) Plot(xs, ys []float64, mk Marker, colors []int) (*plotter.Scatter, error) {
	xys, err := makeXYs(xs, ys)
	if err != nil || len(xys) == 0 {
		return nil, err
	}
	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}
	sc.GlyphStyle = mk.GlyphStyle(0)
	if colors != nil {
		sc.GlyphStyleFunc = func(i int) draw.GlyphStyle {
			return mk.GlyphStyle(colors[i])
		}
	}
	sp.Fig.Add(sc)
	return sc, nil
}

// LinePlotter adds line series to a figure
type LinePlotter struct {
	GeneralPlotter
}

// NewLinePlotter returns a line plotter drawing into p, or a new plot if nil
func NewLinePlotter(p *plot.Plot, opts *Options) *LinePlotter {
	return &LinePlotter{GeneralPlotter: *NewGeneralPlotter("line", p, opts)}
}

// Plot adds a line through ys vs xs, with color index clr into ColorList
// and width in points
func (lp *LinePlotter) Plot(xs, ys []float64, clr int, width float64) (*plotter.Line, error) {
	xys, err := makeXYs(xs, ys)
	if err != nil || len(xys) == 0 {
		return nil, err
	}
	ln, err := plotter.NewLine(xys)
	if err != nil {
		return nil, err
	}
	ln.LineStyle.Color = PopColor(clr)
	ln.LineStyle.Width = vg.Points(width)
	lp.Fig.Add(ln)
	return ln, nil
}

func makeXYs(xs, ys []float64) (plotter.XYs, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("plotting: %d x values for %d y values", len(xs), len(ys))
	}
	xys := make(plotter.XYs, len(xs))
	for i := range xs {
		xys[i].X = xs[i]
		xys[i].Y = ys[i]
	}
	return xys, nil
}
