// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plotting

import (
	"image/color"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ColorList is the palette of population colors, as RGB in 0..1
var ColorList = [][3]float64{
	{0.42, 0.67, 0.84}, {0.90, 0.76, 0.00}, {0.42, 0.83, 0.59}, {0.90, 0.32, 0.00},
	{0.34, 0.67, 0.67}, {0.90, 0.59, 0.00}, {0.42, 0.82, 0.83}, {1.00, 0.85, 0.00},
	{0.33, 0.67, 0.47}, {1.00, 0.38, 0.60}, {0.57, 0.67, 0.33}, {0.50, 0.20, 0.00},
	{0.71, 0.82, 0.41}, {0.00, 0.20, 0.50}, {0.70, 0.32, 0.10},
}

// PopColor returns color i of ColorList, wrapping around
func PopColor(i int) color.Color {
	if i < 0 {
		i = -i
	}
	c := ColorList[i%len(ColorList)]
	return color.RGBA{R: uint8(c[0] * 255), G: uint8(c[1] * 255), B: uint8(c[2] * 255), A: 255}
}

// Marker is a scatter marker: a glyph shape, size and line width in points
type Marker struct {

	// shape character as in matplotlib: | o . s ^ + x *
	Shape string `def:"|"`

	// marker size in points
	Size float64 `def:"5"`

	// line width in points, for line glyphs
	LineWidth float64 `def:"2"`
}

func (mk *Marker) Defaults() {
	mk.Shape = "|"
	mk.Size = 5
	mk.LineWidth = 2
}

// GlyphStyle returns the glyph style with color index clr into ColorList
func (mk *Marker) GlyphStyle(clr int) draw.GlyphStyle {
	return draw.GlyphStyle{Color: PopColor(clr), Radius: vg.Points(mk.Size / 2), Shape: mk.Glyph()}
}

// Glyph returns the glyph drawer for Shape, a circle if not recognized
func (mk *Marker) Glyph() draw.GlyphDrawer {
	switch mk.Shape {
	case "|":
		return VLineGlyph{Width: vg.Points(mk.LineWidth)}
	case "_":
		return HLineGlyph{Width: vg.Points(mk.LineWidth)}
	case ".", "o":
		return draw.CircleGlyph{}
	case "s":
		return draw.BoxGlyph{}
	case "^":
		return draw.TriangleGlyph{}
	case "+":
		return draw.PlusGlyph{}
	case "x":
		return draw.CrossGlyph{}
	case "*":
		return draw.PyramidGlyph{}
	}
	return draw.CircleGlyph{}
}

// VLineGlyph is a vertical tick, the raster spike marker
type VLineGlyph struct {
	Width vg.Length
}

func (vl VLineGlyph) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	ls := draw.LineStyle{Color: sty.Color, Width: vl.Width}
	c.StrokeLines(ls, []vg.Point{{X: pt.X, Y: pt.Y - sty.Radius}, {X: pt.X, Y: pt.Y + sty.Radius}})
}

// HLineGlyph is a horizontal tick
type HLineGlyph struct {
	Width vg.Length
}

func (hl HLineGlyph) DrawGlyph(c *draw.Canvas, sty draw.GlyphStyle, pt vg.Point) {
	ls := draw.LineStyle{Color: sty.Color, Width: hl.Width}
	c.StrokeLines(ls, []vg.Point{{X: pt.X - sty.Radius, Y: pt.Y}, {X: pt.X + sty.Radius, Y: pt.Y}})
}

// Patch is a filled rectangle legend thumbnail
type Patch struct {
	Color color.Color
}

func (pt Patch) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y}, {X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y}, {X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(pt.Color, c.ClipPolygonY(pts))
}
