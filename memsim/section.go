// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memsim

import (
	"fmt"

	"github.com/Anjali-Agarwal8/netpyne/engine"
	"github.com/goki/mat32"
)

// InitV is the initial membrane potential of new segments, in mV
const InitV = -65

// Segment holds the state of one segment of a Section
type Segment struct {

	// section-level state variables, e.g., v
	Vars map[string]float64

	// per-mechanism variables, keyed by mechanism name
	Mechs map[string]map[string]float64
}

// Section is the memsim implementation of engine.Section
type Section struct {
	Nm string

	// scalar geometry attributes
	Geom map[string]float64

	// 3D points: X, Y, Z, W = diameter
	Pt3d []mat32.Vec4

	// inserted mechanisms in insertion order
	MechNames []string

	Segs []*Segment

	// topology: parent section and attachment points, nil if root
	Parent  *Section
	ParentX float64
	ChildX  float64

	eng *Engine
}

var geomNames = map[string]float64{"L": 100, "diam": 500, "Ra": 35.4, "cm": 1, "nseg": 1}

func newSection(eng *Engine, name string) *Section {
	sc := &Section{Nm: name, eng: eng, Geom: make(map[string]float64, len(geomNames))}
	for k, v := range geomNames {
		sc.Geom[k] = v
	}
	sc.setNSeg(1)
	return sc
}

func newSegment() *Segment {
	return &Segment{Vars: map[string]float64{"v": InitV}, Mechs: map[string]map[string]float64{}}
}

func (sc *Section) Name() string { return sc.Nm }
func (sc *Section) NSeg() int    { return len(sc.Segs) }

// setNSeg changes the number of segments, re-instantiating inserted mechanisms
// at their defaults on new segments.
func (sc *Section) setNSeg(n int) {
	if n < 1 {
		n = 1
	}
	for len(sc.Segs) > n {
		sc.Segs = sc.Segs[:n]
	}
	for len(sc.Segs) < n {
		sg := newSegment()
		for _, mn := range sc.MechNames {
			sg.Mechs[mn] = copyVars(sc.eng.Cat.Mechs[mn].Vars)
		}
		sc.Segs = append(sc.Segs, sg)
	}
	sc.Geom["nseg"] = float64(n)
}

// SegIndex returns the index of the segment containing loc (0..1)
func (sc *Section) SegIndex(loc float64) int {
	ns := len(sc.Segs)
	si := int(loc * float64(ns))
	if si >= ns {
		si = ns - 1
	}
	if si < 0 {
		si = 0
	}
	return si
}

func (sc *Section) Insert(mech string) error {
	mt, ok := sc.eng.Cat.Mechs[mech]
	if !ok {
		return fmt.Errorf("argument not a density mechanism name: %q: %w", mech, engine.ErrNotFound)
	}
	for _, mn := range sc.MechNames {
		if mn == mech {
			return nil
		}
	}
	sc.MechNames = append(sc.MechNames, mech)
	for _, sg := range sc.Segs {
		sg.Mechs[mech] = copyVars(mt.Vars)
	}
	return nil
}

func (sc *Section) SetMechParam(mech, param string, seg int, val float64) error {
	if seg < 0 || seg >= len(sc.Segs) {
		return fmt.Errorf("section %s: segment index %d out of range [0, %d)", sc.Nm, seg, len(sc.Segs))
	}
	mv, ok := sc.Segs[seg].Mechs[mech]
	if !ok {
		return fmt.Errorf("section %s: mechanism %q not inserted: %w", sc.Nm, mech, engine.ErrNotFound)
	}
	if _, has := mv[param]; !has {
		return fmt.Errorf("mechanism %s has no parameter %q: %w", mech, param, engine.ErrNotFound)
	}
	mv[param] = val
	return nil
}

func (sc *Section) SetGeom(param string, val float64) error {
	if _, has := geomNames[param]; !has {
		return fmt.Errorf("section %s: %q is not a geometry attribute: %w", sc.Nm, param, engine.ErrNotFound)
	}
	if param == "nseg" {
		sc.setNSeg(int(val))
		return nil
	}
	sc.Geom[param] = val
	return nil
}

func (sc *Section) Pt3dClear() {
	sc.Pt3d = sc.Pt3d[:0]
}

func (sc *Section) Pt3dAdd(x, y, z, diam float64) {
	sc.Pt3d = append(sc.Pt3d, mat32.NewVec4(float32(x), float32(y), float32(z), float32(diam)))
}

func (sc *Section) Connect(parent engine.Section, parentX, childX float64) error {
	ps, ok := parent.(*Section)
	if !ok || ps.eng != sc.eng {
		return fmt.Errorf("section %s: parent is not a section of this engine", sc.Nm)
	}
	for p := ps; p != nil; p = p.Parent {
		if p == sc {
			return fmt.Errorf("section %s: connecting to %s would create a loop", sc.Nm, ps.Nm)
		}
	}
	sc.Parent = ps
	sc.ParentX = parentX
	sc.ChildX = childX
	return nil
}

func (sc *Section) Ref(loc float64, varName string) (engine.Ref, error) {
	sg := sc.Segs[sc.SegIndex(loc)]
	if _, has := sg.Vars[varName]; !has {
		return nil, fmt.Errorf("section %s has no variable %q: %w", sc.Nm, varName, engine.ErrNotFound)
	}
	return &varRef{vars: sg.Vars, name: varName}, nil
}

func (sc *Section) MechRef(loc float64, mech, varName string) (engine.Ref, error) {
	sg := sc.Segs[sc.SegIndex(loc)]
	mv, ok := sg.Mechs[mech]
	if !ok {
		return nil, fmt.Errorf("section %s: mechanism %q not inserted: %w", sc.Nm, mech, engine.ErrNotFound)
	}
	if _, has := mv[varName]; !has {
		return nil, fmt.Errorf("mechanism %s has no variable %q: %w", mech, varName, engine.ErrNotFound)
	}
	return &varRef{vars: mv, name: varName}, nil
}

// MechParam returns the value of a mechanism variable on given segment
func (sc *Section) MechParam(mech, param string, seg int) (float64, bool) {
	if seg < 0 || seg >= len(sc.Segs) {
		return 0, false
	}
	mv, ok := sc.Segs[seg].Mechs[mech]
	if !ok {
		return 0, false
	}
	v, has := mv[param]
	return v, has
}

// varRef references one entry of a variable map
type varRef struct {
	vars map[string]float64
	name string
}

func (vr *varRef) Value() float64       { return vr.vars[vr.name] }
func (vr *varRef) SetValue(val float64) { vr.vars[vr.name] = val }

func copyVars(vars map[string]float64) map[string]float64 {
	cp := make(map[string]float64, len(vars))
	for k, v := range vars {
		cp[k] = v
	}
	return cp
}
