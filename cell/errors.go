// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cell

import "errors"

// Sentinel errors for failures in Cell operations. Returned errors wrap
// these with context, so test for them with errors.Is.
var (
	// ErrSelfConn is returned when a connection would link a cell to itself
	ErrSelfConn = errors.New("self-connection")

	// ErrNoSection is returned when a cell has no section to target
	ErrNoSection = errors.New("no section available")

	// ErrNoSynMech is returned when a synaptic mechanism label is not defined
	// or cannot be attached
	ErrNoSynMech = errors.New("synaptic mechanism not available")

	// ErrUnknownShape is returned for an unsupported pulse shape
	ErrUnknownShape = errors.New("unknown pulse shape")

	// ErrSwitchTimes is returned when shaping switch times are not strictly
	// increasing or fall outside the simulation
	ErrSwitchTimes = errors.New("invalid shaping switch times")

	// ErrUnknownSource is returned for an unsupported stimulus source
	ErrUnknownSource = errors.New("unknown stimulus source")

	// ErrConfig is returned for malformed declarative parameters
	ErrConfig = errors.New("invalid parameters")
)
