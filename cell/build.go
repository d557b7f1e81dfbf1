// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cell

import "fmt"

// Pt3dKey is the geometry key of the 3D point list
const Pt3dKey = "pt3d"

// BuildStruct merges the section definitions of rule into the structural
// description of the cell. Sections are created if absent; mechanisms,
// point processes and geometry are merged, with later values for the same
// parameter replacing earlier ones.
func (c *Cell) BuildStruct(rule *PropertyRule) error {
	for _, sr := range rule.Secs {
		sc := c.addSection(sr.Name)
		for _, mn := range sortedKeys(sr.Mechs) {
			mp, has := sc.Mechs[mn]
			if !has {
				mp = Params{}
				sc.Mechs[mn] = mp
			}
			mp.Merge(sr.Mechs[mn])
		}
		for _, pn := range sortedKeys(sr.PointPs) {
			pp, has := sc.PointPs[pn]
			if !has {
				pp = &PointP{Params: Params{}}
				sc.PointPs[pn] = pp
			}
			pp.Params.Merge(sr.PointPs[pn])
		}
		for _, gn := range sortedKeys(sr.Geom) {
			gv := sr.Geom[gn]
			if gn == Pt3dKey {
				pts, err := pt3dList(gv)
				if err != nil {
					return fmt.Errorf("cell gid=%d section %s: %w", c.Gid, sr.Name, err)
				}
				sc.Pt3d = append(sc.Pt3d, pts...)
				continue
			}
			if _, ok := scalarFloat(gv); ok {
				sc.Geom[gn] = gv
			} else if fl, ok := floatList(gv); ok {
				sc.Geom[gn] = fl
			} else if s, ok := gv.(string); ok {
				sc.Geom[gn] = s
			}
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
	for ln, lst := range rule.SecLists {
		c.SecLists[ln] = append(c.SecLists[ln], lst...)
	}
	return nil
}
