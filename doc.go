// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package netpyne is the overall repository for a declarative cell and network
modeling framework layered on a biophysical simulation engine, implemented in Go.

This top-level of the repository has no functional code -- everything is organized
into the following sub-packages:

* engine: the capability interface over the simulation backend: sections, point
processes, spike generators, event links (NetCon) and the parallel context,
plus the Vector buffer used for all recordings.

* memsim: an in-memory reference backend implementing engine.Engine, with a
catalog of standard mechanisms. It delivers events and records data but does
not integrate membrane equations.

* cell: translates declarative cell property rules into cell descriptions and
live engine objects: rule matching, structural build, two-phase materialization,
synaptic mechanisms, connections, stimuli and recording.

* network: builds populations of cells over ranks, connects them with projection
patterns, adds stimuli, runs, and gathers recorded data into tables.

* plotting: raster and trace figures over gonum/plot.

* store: persistence of recorded runs (in-memory and sqlite).

* examples: runnable programs, examples/simple is the place to start.
*/
package netpyne
