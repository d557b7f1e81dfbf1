// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memsim

import (
	"errors"
	"math"
	"testing"

	"github.com/Anjali-Agarwal8/netpyne/engine"
	"github.com/emer/emergent/erand"
)

func TestSectionMechs(t *testing.T) {
	en := NewEngine(0, nil)
	sec := en.NewSection("soma")
	if err := sec.SetGeom("nseg", 3); err != nil {
		t.Fatal(err)
	}
	if sec.NSeg() != 3 {
		t.Errorf("nseg: got %d, want 3", sec.NSeg())
	}
	if err := sec.Insert("hh"); err != nil {
		t.Fatal(err)
	}
	if err := sec.SetMechParam("hh", "gnabar", 2, 0.2); err != nil {
		t.Fatal(err)
	}
	ms := sec.(*Section)
	if v, _ := ms.MechParam("hh", "gnabar", 2); v != 0.2 {
		t.Errorf("gnabar seg 2: got %g, want 0.2", v)
	}
	if v, _ := ms.MechParam("hh", "gnabar", 0); v != 0.12 {
		t.Errorf("gnabar seg 0: got %g, want default 0.12", v)
	}
	err := sec.Insert("nosuch")
	if !errors.Is(err, engine.ErrNotFound) {
		t.Errorf("unknown mechanism: got %v, want ErrNotFound", err)
	}
	if err := sec.SetMechParam("hh", "nosuch", 0, 1); !errors.Is(err, engine.ErrNotFound) {
		t.Errorf("unknown mech param: got %v, want ErrNotFound", err)
	}
	if err := sec.SetGeom("colour", 1); err == nil {
		t.Errorf("expected error for unknown geometry attribute")
	}
}

func TestConnectLoop(t *testing.T) {
	en := NewEngine(0, nil)
	soma := en.NewSection("soma")
	dend := en.NewSection("dend")
	if err := dend.Connect(soma, 1, 0); err != nil {
		t.Fatal(err)
	}
	if err := soma.Connect(dend, 1, 0); err == nil {
		t.Errorf("expected loop error")
	}
	if dend.(*Section).Parent != soma.(*Section) {
		t.Errorf("dend parent not set")
	}
}

func TestGidRegistration(t *testing.T) {
	en := NewEngine(0, nil)
	if err := en.SetGid2Node(3, 0); err != nil {
		t.Fatal(err)
	}
	if err := en.SetGid2Node(3, 0); err == nil {
		t.Errorf("expected duplicate gid error")
	}
	sec := en.NewSection("soma")
	ref, _ := sec.Ref(0.5, "v")
	det, _ := en.SpikeDetector(ref)
	if err := en.Cell(4, det); err == nil {
		t.Errorf("expected error registering output of unregistered gid")
	}
	if err := en.Cell(3, det); err != nil {
		t.Error(err)
	}
}

func TestGeneratorDelivery(t *testing.T) {
	en := NewEngine(0, nil)
	sec := en.NewSection("soma")
	syn, err := en.NewPointProcess("ExpSyn", sec, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	gen, err := en.NewGenerator(false, engine.GeneratorParams{Interval: 10, Start: 5, Number: 3}, erand.NewSysRand(1))
	if err != nil {
		t.Fatal(err)
	}
	nc, err := en.NewNetCon(gen, syn)
	if err != nil {
		t.Fatal(err)
	}
	nc.SetWeight(0, 0.5)
	nc.SetDelay(1)
	spks := engine.NewVector(0)
	nc.Record(spks)
	en.Init()
	if err := en.Run(100, 0.5); err != nil {
		t.Fatal(err)
	}
	want := []float64{5, 15, 25}
	if spks.Len() != len(want) {
		t.Fatalf("events: got %v, want %v", spks.Values(), want)
	}
	for i, w := range want {
		if math.Abs(spks.At(i)-w) > 1e-9 {
			t.Errorf("event %d: got %g, want %g", i, spks.At(i), w)
		}
	}
	g, _ := syn.Param("g")
	if math.Abs(g-1.5) > 1e-9 {
		t.Errorf("accumulated g: got %g, want 1.5", g)
	}
}

func TestNSLOCMissing(t *testing.T) {
	cat := DefaultCatalog()
	cat.RemovePointP("NSLOC")
	en := NewEngine(0, cat)
	_, err := en.NewGenerator(true, engine.GeneratorParams{Interval: 10}, nil)
	if !errors.Is(err, engine.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestRecordAndPlay(t *testing.T) {
	en := NewEngine(0, nil)
	sec := en.NewSection("soma")
	v, _ := sec.Ref(0.5, "v")
	vec := engine.NewVector(11)
	if err := en.Record(v, 1, vec); err != nil {
		t.Fatal(err)
	}
	tms := engine.NewVectorFrom([]float64{0, 5})
	vals := engine.NewVectorFrom([]float64{-65, 20})
	if err := en.Play(v, tms, vals); err != nil {
		t.Fatal(err)
	}
	en.Init()
	en.Run(10, 0.25)
	if vec.Len() != 10 {
		t.Fatalf("samples: got %d, want 10", vec.Len())
	}
	if vec.At(0) != -65 || vec.At(9) != 20 {
		t.Errorf("samples: got %v", vec.Values())
	}
	if vec.Cap() != 11 {
		t.Errorf("recording should not reallocate, cap %d", vec.Cap())
	}
}

func TestArtificialSpikes(t *testing.T) {
	en := NewEngine(0, nil)
	sec := en.NewSection("soma")
	izh, _ := en.NewPointProcess("Izhi2007b", sec, 0.5)
	vref, _ := izh.Ref("V")
	det, _ := en.SpikeDetector(vref)
	det.SetThreshold(0)
	en.SetGid2Node(0, 0)
	if err := en.Cell(0, det); err != nil {
		t.Fatal(err)
	}
	times := engine.NewVector(0)
	gids := engine.NewVector(0)
	en.SpikeRecord(times, gids)
	gen, _ := en.NewGenerator(false, engine.GeneratorParams{Interval: 20, Start: 10, Number: 2}, nil)
	nc, _ := en.NewNetCon(gen, izh)
	nc.SetWeight(0, 1)
	nc.SetDelay(1)
	en.Init()
	en.Run(60, 1)
	if times.Len() != 2 {
		t.Fatalf("spikes: got %v, want 2", times.Values())
	}
	if times.At(0) != 12 || times.At(1) != 32 {
		t.Errorf("spike times: got %v, want [12 32]", times.Values())
	}
	if gids.At(0) != 0 {
		t.Errorf("spike gid: got %g", gids.At(0))
	}
}
