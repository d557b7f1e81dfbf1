// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package network

import (
	"fmt"

	"github.com/Anjali-Agarwal8/netpyne/cell"
	"github.com/emer/emergent/prjn"
)

// PopParams specifies one population of cells
type PopParams struct {
	Label     string
	CellType  string
	CellModel string
	NumCells  int

	// additional tags given to every cell of the population
	Tags map[string]any
}

// Connection patterns of ConnRule
const (
	FullPattern    = "full"
	UnifRndPattern = "unifrnd"
)

// ConnRule connects every cell of PostPop from cells of PrePop per Pattern
type ConnRule struct {
	Label   string
	PrePop  string
	PostPop string

	// connectivity pattern: full or unifrnd
	Pattern string `def:"full"`

	// probability of connection for unifrnd
	PCon float64 `def:"0.1"`

	// parameters of each connection, PreGid is set per pair
	Conn cell.ConnParams
}

func (cr *ConnRule) Defaults() {
	cr.Pattern = FullPattern
	cr.PCon = 0.1
	cr.Conn.Defaults()
}

// Prjn returns the projection pattern of the rule
func (cr *ConnRule) Prjn() (prjn.Pattern, error) {
	switch cr.Pattern {
	case "", FullPattern:
		return prjn.NewFull(), nil
	case UnifRndPattern:
		ur := prjn.NewUnifRnd()
		ur.PCon = float32(cr.PCon)
		return ur, nil
	}
	return nil, fmt.Errorf("conn rule %s: unknown pattern %q: %w", cr.Label, cr.Pattern, cell.ErrConfig)
}

// StimRule adds a generator stimulus to every cell of Pop
type StimRule struct {
	Pop  string
	Stim cell.StimParams
}

func (sr *StimRule) Defaults() {
	sr.Stim.Defaults()
}

// IClampRule adds a current clamp to cells of Pop
type IClampRule struct {
	Pop string

	// indexes of the clamped cells within the population, all if empty
	Cells []int

	IClamp cell.IClampParams
}

// Params holds the full specification of a network
type Params struct {
	Net     cell.NetParams
	Pops    []*PopParams
	Conns   []*ConnRule
	Stims   []*StimRule
	IClamps []*IClampRule

	// network width and depth in um, positions are xnorm * SizeX and znorm * SizeZ
	SizeX float64 `def:"100"`
	SizeZ float64 `def:"100"`
}

func (pr *Params) Defaults() {
	pr.Net.Defaults()
	pr.Net.SizeY = 100
	pr.SizeX = 100
	pr.SizeZ = 100
}

// AddPop appends a population
func (pr *Params) AddPop(label, cellType string, ncells int) *PopParams {
	pp := &PopParams{Label: label, CellType: cellType, NumCells: ncells}
	pr.Pops = append(pr.Pops, pp)
	return pp
}

// AddConn appends a connection rule with default parameters
func (pr *Params) AddConn(label, prePop, postPop string) *ConnRule {
	cr := &ConnRule{Label: label, PrePop: prePop, PostPop: postPop}
	cr.Defaults()
	pr.Conns = append(pr.Conns, cr)
	return cr
}

// AddStim appends a stimulus rule with default parameters
func (pr *Params) AddStim(label, pop string) *StimRule {
	sr := &StimRule{Pop: pop}
	sr.Defaults()
	sr.Stim.Label = label
	pr.Stims = append(pr.Stims, sr)
	return sr
}

// AddIClamp appends a current clamp rule
func (pr *Params) AddIClamp(label, pop string, cells ...int) *IClampRule {
	ir := &IClampRule{Pop: pop, Cells: cells}
	ir.IClamp.Label = label
	pr.IClamps = append(pr.IClamps, ir)
	return ir
}

// PopByLabel returns the population with given label, or nil
func (pr *Params) PopByLabel(label string) *PopParams {
	for _, pp := range pr.Pops {
		if pp.Label == label {
			return pp
		}
	}
	return nil
}

// OpenTOML opens network params from a TOML file, on top of current values
func (pr *Params) OpenTOML(filename string) error {
	return cell.OpenTOML(filename, pr)
}
