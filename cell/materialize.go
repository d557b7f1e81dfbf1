// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cell

import (
	"fmt"
	"reflect"

	"github.com/goki/mat32"
)

// NSegKey is the geometry key for the number of segments
const NSegKey = "nseg"

// Declare creates the engine objects for all sections of rule: the section
// itself, its geometry, mechanisms with per-segment parameters, point
// processes and 3D points. Topology is left to Wire, so that a section can
// refer to a parent declared by any rule.
func (c *Cell) Declare(rule *PropertyRule) error {
	eng := c.Ctx.Eng
	for _, sr := range rule.Secs {
		sc := c.addSection(sr.Name)
		if !c.Ctx.Cfg.CreateStruct {
			sc.declareDesc(sr)
		}
		if sc.Sec == nil {
			sc.Sec = eng.NewSection(sr.Name)
		}
		if err := c.declareGeom(sc, sr); err != nil {
			return err
		}
		for _, mn := range sortedKeys(sr.Mechs) {
			if err := c.declareMech(sc, mn, sr.Mechs[mn]); err != nil {
				return err
			}
		}
		for _, pn := range sortedKeys(sr.PointPs) {
			if err := c.declarePointP(sc, pn, sr.PointPs[pn]); err != nil {
				return err
			}
		}
		if err := c.declarePt3d(sc, sr); err != nil {
			return err
		}
	}
	return nil
}

// declareDesc records the parts of the description needed after
// materialization when no structural description is built
func (sc *Section) declareDesc(sr *SectionRule) {
	for pn, pr := range sr.PointPs {
		if _, has := sc.PointPs[pn]; !has {
			sc.PointPs[pn] = &PointP{Params: Params{}}
		}
		sc.PointPs[pn].Params.Merge(pr)
	}
	if sr.Topol != nil {
		tp := *sr.Topol
		sc.Topol = &tp
	}
	if sr.SpikeGenLoc != nil {
		sc.SpikeGenLoc = fptr(*sr.SpikeGenLoc)
	}
	if sr.VInit != nil {
		sc.VInit = fptr(*sr.VInit)
	}
}

// declareGeom sets scalar geometry, nseg first as it defines the segments
func (c *Cell) declareGeom(sc *Section, sr *SectionRule) error {
	if nv, has := sr.Geom[NSegKey]; has {
		n, ok := scalarFloat(nv)
		if !ok || n < 1 {
			return fmt.Errorf("cell gid=%d section %s: nseg must be a number >= 1, got %v: %w", c.Gid, sc.Name, nv, ErrConfig)
		}
		if err := sc.Sec.SetGeom(NSegKey, n); err != nil {
			return fmt.Errorf("cell gid=%d section %s: %w", c.Gid, sc.Name, err)
		}
	}
	for _, gn := range sortedKeys(sr.Geom) {
		if gn == NSegKey || gn == Pt3dKey {
			continue
		}
		gv, ok := scalarFloat(sr.Geom[gn])
		if !ok {
			continue
		}
		if err := sc.Sec.SetGeom(gn, gv); err != nil {
			return fmt.Errorf("cell gid=%d section %s: %w", c.Gid, sc.Name, err)
		}
	}
	return nil
}

// declareMech inserts a mechanism and sets its parameters on every segment.
// A list value gives the values of successive segments.
func (c *Cell) declareMech(sc *Section, mech string, pars Params) error {
	if err := sc.Sec.Insert(mech); err != nil {
		return fmt.Errorf("cell gid=%d section %s: %w", c.Gid, sc.Name, err)
	}
	nseg := sc.Sec.NSeg()
	for _, pn := range sortedKeys(pars) {
		pv := pars[pn]
		if isList(pv) {
			fl, ok := floatList(pv)
			if !ok {
				return fmt.Errorf("cell gid=%d section %s: %s.%s must be a list of numbers: %w", c.Gid, sc.Name, mech, pn, ErrConfig)
			}
			if len(fl) < nseg {
				return fmt.Errorf("cell gid=%d section %s: %s.%s has %d values for %d segments: %w", c.Gid, sc.Name, mech, pn, len(fl), nseg, ErrConfig)
			}
			for si := 0; si < nseg; si++ {
				if err := sc.Sec.SetMechParam(mech, pn, si, fl[si]); err != nil {
					return fmt.Errorf("cell gid=%d section %s: %w", c.Gid, sc.Name, err)
				}
			}
			continue
		}
		v, ok := scalarFloat(pv)
		if !ok {
			return fmt.Errorf("cell gid=%d section %s: %s.%s must be a number, got %s: %w", c.Gid, sc.Name, mech, pn, reflect.TypeOf(pv), ErrConfig)
		}
		for si := 0; si < nseg; si++ {
			if err := sc.Sec.SetMechParam(mech, pn, si, v); err != nil {
				return fmt.Errorf("cell gid=%d section %s: %w", c.Gid, sc.Name, err)
			}
		}
	}
	return nil
}

// declarePointP creates the point process if not yet created, and sets its
// parameters, skipping mod, loc and reserved keys
func (c *Cell) declarePointP(sc *Section, label string, pars Params) error {
	pp, has := sc.PointPs[label]
	if !has {
		pp = &PointP{Params: pars.Copy()}
		sc.PointPs[label] = pp
	}
	if pp.Obj == nil {
		mod := pars.Mod()
		if mod == "" {
			mod = pp.Params.Mod()
		}
		obj, err := c.Ctx.Eng.NewPointProcess(mod, sc.Sec, pars.Loc())
		if err != nil {
			return fmt.Errorf("cell gid=%d section %s point process %s: %w", c.Gid, sc.Name, label, err)
		}
		pp.Obj = obj
	}
	for _, pn := range sortedKeys(pars) {
		if IsReserved(pn) {
			continue
		}
		v, ok := pars.Float(pn)
		if !ok {
			continue
		}
		if err := pp.Obj.SetParam(pn, v); err != nil {
			return fmt.Errorf("cell gid=%d section %s point process %s: %w", c.Gid, sc.Name, label, err)
		}
	}
	return nil
}

// Offset returns the position of the cell from its tags: x, y, z,
// with y from ynorm scaled by SizeY when both are available
func (c *Cell) Offset() mat32.Vec3 {
	x, _ := c.Tags.Float(XKey)
	y, _ := c.Tags.Float(YKey)
	z, _ := c.Tags.Float(ZKey)
	if yn, ok := c.Tags.Float(YNormKey); ok && c.Ctx.Net.SizeY > 0 {
		y = yn * c.Ctx.Net.SizeY / 1e3
	}
	return mat32.NewVec3(float32(x), float32(y), float32(z))
}

// declarePt3d replaces the 3D points of the section with those of the rule,
// offset by the cell position
func (c *Cell) declarePt3d(sc *Section, sr *SectionRule) error {
	pv, has := sr.Geom[Pt3dKey]
	if !has {
		return nil
	}
	pts, err := pt3dList(pv)
	if err != nil {
		return fmt.Errorf("cell gid=%d section %s: %w", c.Gid, sc.Name, err)
	}
	off := c.Offset()
	sc.Sec.Pt3dClear()
	for _, pt := range pts {
		p := mat32.NewVec3(pt.X, pt.Y, pt.Z).Add(off)
		sc.Sec.Pt3dAdd(float64(p.X), float64(p.Y), float64(p.Z), float64(pt.W))
	}
	return nil
}

// Wire connects each section of rule that declares a topology to its parent
func (c *Cell) Wire(rule *PropertyRule) error {
	for _, sr := range rule.Secs {
		if sr.Topol == nil {
			continue
		}
		sc := c.Secs[sr.Name]
		par, has := c.Secs[sr.Topol.ParentSec]
		if !has || par.Sec == nil {
			return fmt.Errorf("cell gid=%d: section %s parent %q not in cell: %w", c.Gid, sr.Name, sr.Topol.ParentSec, ErrConfig)
		}
		if err := sc.Sec.Connect(par.Sec, sr.Topol.ParentX, sr.Topol.ChildX); err != nil {
			return fmt.Errorf("cell gid=%d: %w", c.Gid, err)
		}
	}
	return nil
}

// InitV sets membrane v at the center of every section declaring VInit
func (c *Cell) InitV() {
	for _, nm := range c.SecNames {
		sc := c.Secs[nm]
		if sc.VInit == nil || sc.Sec == nil {
			continue
		}
		if ref, err := sc.Sec.Ref(0.5, "v"); err == nil {
			ref.SetValue(*sc.VInit)
		}
	}
}
