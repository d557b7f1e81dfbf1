// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cell

import (
	"github.com/goki/ki/kit"
)

//////////////////////////////////////////////////////////////////////////////////////
//  PulseShape

// PulseShape is the shape of the unit pulse used to shape stimulus weights over time
type PulseShape int

//go:generate stringer -type=PulseShape

var KiT_PulseShape = kit.Enums.AddEnum(PulseShapeN, kit.NotBitFlag, nil)

func (ev PulseShape) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *PulseShape) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// UnmarshalText supports config files, accepting names in any case
func (ev *PulseShape) UnmarshalText(b []byte) error { return ev.FromString(string(b)) }

// The pulse shapes
const (
	// Square is a rectangular pulse of the given width, starting one
	// time step after each event
	Square PulseShape = iota

	// Gaussian is a bell-shaped pulse peaking half a width after each event
	Gaussian

	PulseShapeN
)

//////////////////////////////////////////////////////////////////////////////////////
//  TargetTypes

// TargetTypes are the kinds of objects a connection or stimulus can target
type TargetTypes int

//go:generate stringer -type=TargetTypes

var KiT_TargetTypes = kit.Enums.AddEnum(TargetTypesN, kit.NotBitFlag, nil)

func (ev TargetTypes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *TargetTypes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The target types
const (
	// SynMechTarget targets a synaptic mechanism attached at a location in a section
	SynMechTarget TargetTypes = iota

	// PointPTarget targets an artificial-cell point process that exposes
	// its own reference variable in place of membrane voltage
	PointPTarget

	TargetTypesN
)
