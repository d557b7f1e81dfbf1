// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cell

// PropertyRule is a declarative cell property rule: cells whose tags match
// all Conditions get the section definitions in Secs.
type PropertyRule struct {

	// label appended to the matched cell's propList
	Label string

	// required tag values
	Conditions map[string]any

	// section definitions, applied in order
	Secs []*SectionRule

	// named lists of section names
	SecLists map[string][]string
}

// SecByName returns the section rule with given name, or nil
func (pr *PropertyRule) SecByName(name string) *SectionRule {
	for _, sr := range pr.Secs {
		if sr.Name == name {
			return sr
		}
	}
	return nil
}

// AddSec adds a new section rule with given name
func (pr *PropertyRule) AddSec(name string) *SectionRule {
	sr := &SectionRule{Name: name}
	pr.Secs = append(pr.Secs, sr)
	return sr
}

// SectionRule is the declarative definition of one section
type SectionRule struct {
	Name string

	// membrane mechanisms by name, with parameters. A list value gives
	// one value per segment.
	Mechs map[string]Params

	// point processes by label, with mod, optional loc and parameters
	PointPs map[string]Params

	// geometry: L, diam, Ra, cm, nseg, and optional pt3d list of [x, y, z, diam]
	Geom Params

	// parent connection, nil for a root section
	Topol *Topology

	// location of the spike detector, if this section is the spike source
	SpikeGenLoc *float64

	// initial membrane potential
	VInit *float64
}

// Topology is the attachment of a section to its parent
type Topology struct {
	ParentSec string

	// location on the parent section
	ParentX float64 `def:"1"`

	// location on this section
	ChildX float64 `def:"0"`
}

// LocAt returns a location pointer, for optional location fields
func LocAt(loc float64) *float64 {
	return &loc
}

func fptr(v float64) *float64 {
	return &v
}
