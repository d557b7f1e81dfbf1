// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memsim

import (
	"sort"
)

// MechType describes a distributed membrane mechanism known to the engine.
// Vars holds the default value of every parameter and state variable,
// all of which are settable and recordable per segment.
type MechType struct {
	Name string
	Vars map[string]float64
}

// PointType describes a point process model known to the engine.
type PointType struct {
	Name string

	// default value of every parameter and state variable
	Vars map[string]float64

	// number of weights in NetCons targeting this model
	NWeights int

	// artificial cell models keep their own voltage-like state,
	// named by VRef, in place of membrane potential
	Artificial bool

	// state variable used as spike source for artificial cells
	VRef string

	// names of pointer variables that can be bound with SetPointer
	Pointers []string

	// generators emit events instead of receiving them
	Generator bool
}

// HasVar returns true if the model declares variable nm
func (pt *PointType) HasVar(nm string) bool {
	_, has := pt.Vars[nm]
	return has
}

// HasPointer returns true if the model declares pointer variable nm
func (pt *PointType) HasPointer(nm string) bool {
	for _, p := range pt.Pointers {
		if p == nm {
			return true
		}
	}
	return false
}

// Catalog is the namespace of mechanisms and point processes the engine
// can instantiate, looked up by name.
type Catalog struct {
	Mechs   map[string]*MechType
	PointPs map[string]*PointType
}

// NewCatalog returns an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{Mechs: map[string]*MechType{}, PointPs: map[string]*PointType{}}
}

// AddMech adds or replaces a mechanism type
func (ct *Catalog) AddMech(mt *MechType) {
	ct.Mechs[mt.Name] = mt
}

// AddPointP adds or replaces a point process type
func (ct *Catalog) AddPointP(pt *PointType) {
	ct.PointPs[pt.Name] = pt
}

// RemovePointP removes a point process type -- used to model
// installations that lack optional models such as NSLOC
func (ct *Catalog) RemovePointP(name string) {
	delete(ct.PointPs, name)
}

// PointPNames returns the sorted names of all point process types
func (ct *Catalog) PointPNames() []string {
	nms := make([]string, 0, len(ct.PointPs))
	for nm := range ct.PointPs {
		nms = append(nms, nm)
	}
	sort.Strings(nms)
	return nms
}

// DefaultCatalog returns the standard set of models: pas and hh mechanisms,
// ExpSyn, Exp2Syn, Izhi2007b, IClamp, STDP, NetStim and NSLOC point processes.
func DefaultCatalog() *Catalog {
	ct := NewCatalog()
	ct.AddMech(&MechType{Name: "pas", Vars: map[string]float64{"g": 0.001, "e": -70, "i": 0}})
	ct.AddMech(&MechType{Name: "hh", Vars: map[string]float64{
		"gnabar": 0.12, "gkbar": 0.036, "gl": 0.0003, "el": -54.3,
		"gna": 0, "gk": 0, "il": 0, "m": 0, "h": 0, "n": 0}})

	ct.AddPointP(&PointType{Name: "ExpSyn", NWeights: 1,
		Vars: map[string]float64{"tau": 0.1, "e": 0, "i": 0, "g": 0}})
	ct.AddPointP(&PointType{Name: "Exp2Syn", NWeights: 1,
		Vars: map[string]float64{"tau1": 0.1, "tau2": 10, "e": 0, "i": 0, "g": 0}})
	ct.AddPointP(&PointType{Name: "Izhi2007b", NWeights: 4, Artificial: true, VRef: "V",
		Vars: map[string]float64{"C": 1, "k": 0.7, "vr": -60, "vt": -40, "vpeak": 35,
			"a": 0.03, "b": -2, "c": -50, "d": 100, "celltype": 1, "cellid": -1,
			"V": -60, "u": 0}})
	ct.AddPointP(&PointType{Name: "IClamp", NWeights: 0,
		Vars: map[string]float64{"amp": 0, "delay": 0, "dur": 0, "i": 0}})
	ct.AddPointP(&PointType{Name: "STDP", NWeights: 1, Pointers: []string{"synweight"},
		Vars: map[string]float64{"tauhebb": 10, "tauanti": 10, "hebbwt": 1, "antiwt": -1,
			"wmax": 15, "tlastpre": -1, "tlastpost": -1, "RLon": 0}})
	ct.AddPointP(&PointType{Name: "NetStim", Generator: true,
		Vars: map[string]float64{"interval": 10, "number": 10, "start": 50, "noise": 0}})
	ct.AddPointP(&PointType{Name: "NSLOC", Generator: true,
		Vars: map[string]float64{"interval": 10, "number": 10, "start": 50, "noise": 0}})
	return ct
}
