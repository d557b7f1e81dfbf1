// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cell

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/Anjali-Agarwal8/netpyne/engine"
	"github.com/Anjali-Agarwal8/netpyne/memsim"
)

// Tol is the tolerance for float comparisons
const Tol = 1.0e-8

// CmprFloats compares two float slices within Tol
func CmprFloats(out, cor []float64, msg string, t *testing.T) {
	t.Helper()
	if len(out) != len(cor) {
		t.Errorf("%v: length %d != correct %d: %v", msg, len(out), len(cor), out)
		return
	}
	for i := range out {
		if math.Abs(out[i]-cor[i]) > Tol {
			t.Errorf("%v err: out: %v, cor: %v, dif: %v\n", msg, out[i], cor[i], out[i]-cor[i])
		}
	}
}

func testContext(eng engine.Engine) *Context {
	cfg := &Config{}
	cfg.Defaults()
	net := &NetParams{}
	net.Defaults()
	net.AddSynMechParams(&SynMechParams{Label: "AMPA", Mod: "ExpSyn", Params: Params{"tau": 0.1, "e": 0}})
	net.AddSynMechParams(&SynMechParams{Label: "NMDA", Mod: "Exp2Syn", Params: Params{"tau1": 15, "tau2": 150}})
	return NewContext(cfg, net, eng)
}

// pyrRule is a soma + dend cell with hh and pas
func pyrRule() *PropertyRule {
	rl := &PropertyRule{Label: "PYR_HH", Conditions: map[string]any{CellTypeKey: "PYR"}}
	soma := rl.AddSec("soma")
	soma.Geom = Params{"L": 18.8, "diam": 18.8, "Ra": 123}
	soma.Mechs = map[string]Params{"hh": {"gnabar": 0.12, "gkbar": 0.036}}
	dend := rl.AddSec("dend")
	dend.Geom = Params{"L": 200, "diam": 1, "nseg": 2}
	dend.Mechs = map[string]Params{"pas": {"g": []any{0.001, 0.002}, "e": -70}}
	dend.Topol = &Topology{ParentSec: "soma", ParentX: 1, ChildX: 0}
	return rl
}

// izhRule is an artificial cell with two receptors
func izhRule() *PropertyRule {
	rl := &PropertyRule{Label: "IZH", Conditions: map[string]any{CellTypeKey: "IZH"}}
	soma := rl.AddSec("soma")
	soma.Geom = Params{"L": 10, "diam": 10}
	soma.PointPs = map[string]Params{"Izhi": {ModKey: "Izhi2007b", VRefKey: "V", SynListKey: []any{"AMPA", "NMDA"}, "a": 0.02}}
	return rl
}

func TestMatchRules(t *testing.T) {
	tags := Tags{PopKey: "E", CellTypeKey: "PYR", XKey: int64(5)}
	rules := []*PropertyRule{
		{Label: "r0", Conditions: map[string]any{CellTypeKey: "PYR"}},
		{Label: "r1", Conditions: map[string]any{PopKey: "I"}},
		{Label: "r2"},
		{Label: "r3", Conditions: map[string]any{PopKey: "E", XKey: 5.0}},
		{Label: "r4", Conditions: map[string]any{"layer": "2"}},
	}
	mr := MatchRules(tags, rules)
	want := []string{"r0", "r2", "r3"}
	if len(mr) != len(want) {
		t.Fatalf("matched %d rules, want %d", len(mr), len(want))
	}
	for i, r := range mr {
		if r.Label != want[i] {
			t.Errorf("match %d: got %s, want %s", i, r.Label, want[i])
		}
	}
}

func TestCreateStruct(t *testing.T) {
	ctx := testContext(nil)
	extra := &PropertyRule{Label: "extra", Conditions: map[string]any{PopKey: "E"}}
	soma := extra.AddSec("soma")
	soma.Mechs = map[string]Params{"hh": {"gkbar": 0.05}, "pas": {"g": 0.0001}}
	soma.Geom = Params{"cm": 2, "nested": map[string]any{"a": 1}, "lst": []any{1, 2}, "deep": []any{[]any{1}}}
	ctx.Net.CellParams = []*PropertyRule{pyrRule(), extra}
	c, err := NewCell(ctx, 0, Tags{PopKey: "E", CellTypeKey: "PYR"})
	if err != nil {
		t.Fatal(err)
	}
	pl := c.Tags.PropList()
	if len(pl) != 2 || pl[0] != "PYR_HH" || pl[1] != "extra" {
		t.Errorf("propList: got %v", pl)
	}
	if len(c.SecNames) != 2 || c.SecNames[0] != "soma" || c.SecNames[1] != "dend" {
		t.Errorf("sections: got %v", c.SecNames)
	}
	sm := c.Secs["soma"]
	if v, _ := sm.Mechs["hh"].Float("gnabar"); v != 0.12 {
		t.Errorf("hh gnabar lost in merge: %v", sm.Mechs["hh"])
	}
	if v, _ := sm.Mechs["hh"].Float("gkbar"); v != 0.05 {
		t.Errorf("hh gkbar not overwritten: %v", sm.Mechs["hh"])
	}
	if _, has := sm.Mechs["pas"]; !has {
		t.Errorf("pas not added")
	}
	if _, has := sm.Geom["nested"]; has {
		t.Errorf("nested geometry should be skipped")
	}
	if _, has := sm.Geom["deep"]; has {
		t.Errorf("nested list geometry should be skipped")
	}
	if lst, ok := sm.Geom["lst"].([]float64); !ok || len(lst) != 2 {
		t.Errorf("list geometry should be copied: %v", sm.Geom["lst"])
	}
	if v, _ := sm.Geom.Float("L"); v != 18.8 {
		t.Errorf("soma L: got %v", v)
	}
	if c.Secs["dend"].Sec != nil {
		t.Errorf("no engine: sections should not be materialized")
	}
}

func TestNoMatch(t *testing.T) {
	ctx := testContext(memsim.NewEngine(0, nil))
	ctx.Net.CellParams = []*PropertyRule{pyrRule()}
	c, err := NewCell(ctx, 3, Tags{CellTypeKey: "BAS"})
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Secs) != 0 || len(c.Tags.PropList()) != 0 {
		t.Errorf("unmatched cell should be empty: %v", c.Secs)
	}
	if _, err := c.AddConn(&ConnParams{PreGid: 1, Weight: 1}); !errors.Is(err, ErrNoSection) {
		t.Errorf("AddConn: got %v, want ErrNoSection", err)
	}
	if _, err := c.AddNetStim(&StimParams{Label: "bkg", Rate: 10, Weight: 1}); !errors.Is(err, ErrNoSection) {
		t.Errorf("AddNetStim: got %v, want ErrNoSection", err)
	}
	if _, err := c.AddIClamp(&IClampParams{Amp: 0.1, Dur: 10}); !errors.Is(err, ErrNoSection) {
		t.Errorf("AddIClamp: got %v, want ErrNoSection", err)
	}
	if len(c.Conns) != 0 || len(c.Stims) != 0 {
		t.Errorf("records created: %d conns, %d stims", len(c.Conns), len(c.Stims))
	}
}

func TestMaterialize(t *testing.T) {
	eng := memsim.NewEngine(0, nil)
	ctx := testContext(eng)
	ctx.Net.CellParams = []*PropertyRule{pyrRule()}
	c, err := NewCell(ctx, 0, Tags{CellTypeKey: "PYR"})
	if err != nil {
		t.Fatal(err)
	}
	soma := c.Secs["soma"].Sec.(*memsim.Section)
	dend := c.Secs["dend"].Sec.(*memsim.Section)
	if soma.Geom["L"] != 18.8 || soma.Geom["Ra"] != 123 {
		t.Errorf("soma geometry: %v", soma.Geom)
	}
	if dend.NSeg() != 2 {
		t.Errorf("dend nseg: got %d, want 2", dend.NSeg())
	}
	g0, _ := dend.MechParam("pas", "g", 0)
	g1, _ := dend.MechParam("pas", "g", 1)
	CmprFloats([]float64{g0, g1}, []float64{0.001, 0.002}, "per-segment pas.g", t)
	if dend.Parent != soma || dend.ParentX != 1 {
		t.Errorf("dend not connected to soma(1)")
	}
	if c.SpikeDet == nil {
		t.Errorf("spike detector not created")
	}
	if lid, has := ctx.Gid2Lid[0]; !has || lid != 0 || ctx.Lid2Gid[0] != 0 {
		t.Errorf("gid maps: %v %v", ctx.Gid2Lid, ctx.Lid2Gid)
	}
	if _, err := NewCell(ctx, 0, Tags{CellTypeKey: "PYR"}); err == nil {
		t.Errorf("expected error creating duplicate gid")
	}
}

func TestTwoPhaseTopology(t *testing.T) {
	eng := memsim.NewEngine(0, nil)
	ctx := testContext(eng)
	r0 := &PropertyRule{Label: "dend"}
	r0.AddSec("dend").Topol = &Topology{ParentSec: "soma", ParentX: 0.5}
	r1 := &PropertyRule{Label: "soma"}
	r1.AddSec("soma").Mechs = map[string]Params{"hh": {}}
	ctx.Net.CellParams = []*PropertyRule{r0, r1}
	c, err := NewCell(ctx, 0, Tags{})
	if err != nil {
		t.Fatal(err)
	}
	dend := c.Secs["dend"].Sec.(*memsim.Section)
	if dend.Parent == nil || dend.Parent.Nm != "soma" || dend.ParentX != 0.5 {
		t.Errorf("dend parent: %v", dend.Parent)
	}

	ctx = testContext(memsim.NewEngine(0, nil))
	r2 := &PropertyRule{Label: "orphan"}
	r2.AddSec("dend").Topol = &Topology{ParentSec: "axon"}
	ctx.Net.CellParams = []*PropertyRule{r2}
	if _, err := NewCell(ctx, 0, Tags{}); !errors.Is(err, ErrConfig) {
		t.Errorf("missing parent: got %v, want ErrConfig", err)
	}
}

func TestUnknownMech(t *testing.T) {
	ctx := testContext(memsim.NewEngine(0, nil))
	rl := &PropertyRule{Label: "bad"}
	rl.AddSec("soma").Mechs = map[string]Params{"nosuch": {}}
	ctx.Net.CellParams = []*PropertyRule{rl}
	if _, err := NewCell(ctx, 0, Tags{}); !errors.Is(err, engine.ErrNotFound) {
		t.Errorf("unknown mechanism: got %v, want ErrNotFound", err)
	}

	ctx = testContext(memsim.NewEngine(0, nil))
	rl = &PropertyRule{Label: "short"}
	sr := rl.AddSec("soma")
	sr.Geom = Params{"nseg": 3}
	sr.Mechs = map[string]Params{"pas": {"g": []float64{1, 2}}}
	ctx.Net.CellParams = []*PropertyRule{rl}
	if _, err := NewCell(ctx, 0, Tags{}); !errors.Is(err, ErrConfig) {
		t.Errorf("short per-segment list: got %v, want ErrConfig", err)
	}
}

func TestPt3dOffset(t *testing.T) {
	eng := memsim.NewEngine(0, nil)
	ctx := testContext(eng)
	rl := &PropertyRule{Label: "morph"}
	rl.AddSec("soma").Geom = Params{Pt3dKey: []any{[]any{1, 2, 3, 5}}}
	ctx.Net.CellParams = []*PropertyRule{rl}
	c, err := NewCell(ctx, 0, Tags{XKey: 10, YKey: 20, ZKey: 30})
	if err != nil {
		t.Fatal(err)
	}
	pts := c.Secs["soma"].Sec.(*memsim.Section).Pt3d
	if len(pts) != 1 {
		t.Fatalf("pt3d: got %d points", len(pts))
	}
	p := pts[0]
	CmprFloats([]float64{float64(p.X), float64(p.Y), float64(p.Z), float64(p.W)}, []float64{11, 22, 33, 5}, "pt3d offset", t)
	if sp := c.Secs["soma"].Pt3d[0]; sp.X != 1 {
		t.Errorf("structural pt3d should not be offset: %v", sp)
	}

	ctx.Net.SizeY = 1000
	c, err = NewCell(ctx, 1, Tags{XKey: 10, YKey: 20, ZKey: 30, YNormKey: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if y := c.Secs["soma"].Sec.(*memsim.Section).Pt3d[0].Y; y != 2.5 {
		t.Errorf("ynorm offset: got %g, want 2.5", y)
	}
}

func TestAddSynMech(t *testing.T) {
	ctx := testContext(memsim.NewEngine(0, nil))
	ctx.Net.CellParams = []*PropertyRule{pyrRule()}
	c, err := NewCell(ctx, 0, Tags{CellTypeKey: "PYR"})
	if err != nil {
		t.Fatal(err)
	}
	s1, err := c.AddSynMech("AMPA", "dend", 0.3)
	if err != nil {
		t.Fatal(err)
	}
	s2, err := c.AddSynMech("AMPA", "dend", 0.3)
	if err != nil {
		t.Fatal(err)
	}
	if s1 != s2 || len(c.Secs["dend"].SynMechs) != 1 {
		t.Errorf("AddSynMech not idempotent: %d synMechs", len(c.Secs["dend"].SynMechs))
	}
	if s1.Obj == nil || s1.Obj.Mod() != "ExpSyn" {
		t.Errorf("synMech engine object: %v", s1.Obj)
	}
	s3, _ := c.AddSynMech("AMPA", "dend", 0.7)
	if s3 == s1 {
		t.Errorf("different location should give a new synMech")
	}
	if _, err := c.AddSynMech("GABA", "dend", 0.3); !errors.Is(err, ErrNoSynMech) {
		t.Errorf("undefined synMech: got %v, want ErrNoSynMech", err)
	}
}

func TestTargetSec(t *testing.T) {
	ctx := testContext(nil)
	rl := &PropertyRule{Label: "nosoma"}
	rl.AddSec("axon")
	rl.AddSec("dend")
	ctx.Net.CellParams = []*PropertyRule{rl}
	c, err := NewCell(ctx, 0, Tags{})
	if err != nil {
		t.Fatal(err)
	}
	if sc, _ := c.TargetSec("nosuch"); sc.Name != "axon" {
		t.Errorf("first section fallback: got %s", sc.Name)
	}
	c.AddSynMech("AMPA", "dend", 0.5)
	if sc, _ := c.TargetSec(""); sc.Name != "dend" {
		t.Errorf("synMech section fallback: got %s", sc.Name)
	}
	if sc, _ := c.TargetSec("axon"); sc.Name != "axon" {
		t.Errorf("explicit section: got %s", sc.Name)
	}
}

func TestConn(t *testing.T) {
	ctx := testContext(memsim.NewEngine(0, nil))
	ctx.Net.ScaleConnWeight = 2
	ctx.Net.CellParams = []*PropertyRule{pyrRule()}
	c, err := NewCell(ctx, 1, Tags{CellTypeKey: "PYR"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.AddConn(&ConnParams{PreGid: 1, Weight: 1}); !errors.Is(err, ErrSelfConn) {
		t.Errorf("self connection: got %v, want ErrSelfConn", err)
	}
	if len(c.Conns) != 0 {
		t.Fatalf("self connection recorded")
	}
	cp := &ConnParams{PreGid: 7, Sec: "dend", Loc: LocAt(0.2), Weight: 0.01}
	cp.Defaults()
	cn, err := c.AddConn(cp)
	if err != nil {
		t.Fatal(err)
	}
	if cn.SynMech != "AMPA" || cn.Sec != "dend" || cn.TargetType != SynMechTarget {
		t.Errorf("conn target: %+v", cn)
	}
	if ds := c.connDesc(cn); !strings.Contains(ds, "weight=0.02,") {
		t.Errorf("conn description does not show scaled weight: %s", ds)
	}
	nc := cn.NetCon.(*memsim.NetCon)
	if nc.SrcGid != 7 || math.Abs(nc.Weight(0)-0.02) > Tol || nc.Delay() != 1 || nc.Threshold() != DefaultThreshold {
		t.Errorf("netcon: src %d wt %g del %g thr %g", nc.SrcGid, nc.Weight(0), nc.Delay(), nc.Threshold())
	}
	cn, err = c.AddConn(&ConnParams{PreGid: 8, Weight: 0.5, SynMech: "NMDA"})
	if err != nil {
		t.Fatal(err)
	}
	if cn.Sec != "soma" || cn.Loc != 0.5 || cn.SynMech != "NMDA" {
		t.Errorf("default conn target: %s(%g) %s", cn.Sec, cn.Loc, cn.SynMech)
	}
	if len(c.Conns) != 2 {
		t.Errorf("conns: got %d, want 2", len(c.Conns))
	}
}

func TestWeightIndex(t *testing.T) {
	ctx := testContext(memsim.NewEngine(0, nil))
	ctx.Net.CellParams = []*PropertyRule{izhRule()}
	c, err := NewCell(ctx, 0, Tags{CellTypeKey: "IZH"})
	if err != nil {
		t.Fatal(err)
	}
	cn, err := c.AddConn(&ConnParams{PreGid: 5, SynMech: "NMDA", Weight: 0.3})
	if err != nil {
		t.Fatal(err)
	}
	if cn.TargetType != PointPTarget || cn.PointP != "Izhi" || cn.WeightIndex != 1 {
		t.Errorf("NMDA: type %v pointp %s index %d", cn.TargetType, cn.PointP, cn.WeightIndex)
	}
	if w := cn.NetCon.Weight(1); math.Abs(w-0.3) > Tol {
		t.Errorf("NMDA weight: got %g", w)
	}
	cn, err = c.AddConn(&ConnParams{PreGid: 5, SynMech: "GABA", Weight: 0.3})
	if err != nil {
		t.Fatal(err)
	}
	if cn.WeightIndex != 0 {
		t.Errorf("unlisted synMech: got index %d, want 0", cn.WeightIndex)
	}
	if len(c.Secs["soma"].SynMechs) != 0 {
		t.Errorf("artificial cell target should not attach synMechs")
	}
	if pp := c.Secs["soma"].PointPs["Izhi"].Obj; pp == nil {
		t.Fatal("Izhi not materialized")
	} else if a, _ := pp.Param("a"); a != 0.02 {
		t.Errorf("Izhi a: got %g", a)
	}
}

func TestPlasticity(t *testing.T) {
	eng := memsim.NewEngine(0, nil)
	ctx := testContext(eng)
	ctx.Net.CellParams = []*PropertyRule{pyrRule()}
	c, err := NewCell(ctx, 0, Tags{CellTypeKey: "PYR"})
	if err != nil {
		t.Fatal(err)
	}
	cn, err := c.AddConn(&ConnParams{PreGid: 3, Weight: 1, Plasticity: &PlastParams{Mech: "STDP", Params: Params{"hebbwt": 0.01}}})
	if err != nil {
		t.Fatal(err)
	}
	ps := cn.Plast
	if ps == nil {
		t.Fatal("plasticity not created")
	}
	if ps.PreCon.Weight(0) != 1 || ps.PostCon.Weight(0) != -1 {
		t.Errorf("plasticity links: %g %g", ps.PreCon.Weight(0), ps.PostCon.Weight(0))
	}
	mp := ps.Mech.(*memsim.PointProcess)
	mp.Ptrs["synweight"].SetValue(4)
	if cn.NetCon.Weight(0) != 4 {
		t.Errorf("synweight pointer not bound to conn weight")
	}

	cn, err = c.AddConn(&ConnParams{PreGid: 4, Weight: 1, Plasticity: &PlastParams{Mech: "NoSuchPlast"}})
	if err != nil {
		t.Fatalf("plasticity failure should keep the connection: %v", err)
	}
	if cn.Plast != nil || cn.NetCon == nil {
		t.Errorf("failed plasticity: plast %v netcon %v", cn.Plast, cn.NetCon)
	}
}

func TestSwitchPairs(t *testing.T) {
	prs, err := SwitchPairs([]float64{0, 50}, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(prs) != 2 || prs[0] != [2]float64{0, 50} || prs[1] != [2]float64{50, 100} {
		t.Errorf("switch pairs: got %v", prs)
	}
	if _, err := SwitchPairs([]float64{50, 0}, 100); !errors.Is(err, ErrSwitchTimes) {
		t.Errorf("non-monotonic: got %v, want ErrSwitchTimes", err)
	}
	if _, err := SwitchPairs([]float64{0, 0}, 100); !errors.Is(err, ErrSwitchTimes) {
		t.Errorf("repeated time: got %v, want ErrSwitchTimes", err)
	}
	prs, err = SwitchPairs([]float64{0, 100}, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(prs) != 1 || prs[0] != [2]float64{0, 100} {
		t.Errorf("switch at duration: got %v", prs)
	}
	if _, err := SwitchPairs([]float64{0, 101}, 100); !errors.Is(err, ErrSwitchTimes) {
		t.Errorf("past duration: got %v, want ErrSwitchTimes", err)
	}
	prs, _ = SwitchPairs(nil, 100)
	if len(prs) != 1 || prs[0] != [2]float64{0, 100} {
		t.Errorf("default pairs: got %v", prs)
	}
}

func TestShapeCurve(t *testing.T) {
	sp := &ShapeParams{}
	sp.Defaults()
	sp.PulseWidth = 10
	sp.PulsePeriod = 50
	sp.SwitchOnOff = []float64{0, 50}
	tms, wts, err := sp.Curve(2, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(tms) != 52 || len(wts) != 52 {
		t.Fatalf("curve length: got %d, want 52", len(tms))
	}
	if wts[0] != 0 || wts[len(wts)-1] != 0 {
		t.Errorf("curve not bookended by zeros: %g %g", wts[0], wts[len(wts)-1])
	}
	if tms[0] != 0 || tms[len(tms)-1] != 50 {
		t.Errorf("curve times: first %g last %g", tms[0], tms[len(tms)-1])
	}
	non := 0
	for _, w := range wts {
		if w != 0 {
			non++
			if w != 2 {
				t.Errorf("square pulse weight: got %g, want 2", w)
			}
		}
	}
	if non != 10 {
		t.Errorf("square pulse samples: got %d, want 10", non)
	}

	sp.PulseType = Gaussian
	_, wts, err = sp.Curve(1, 100)
	if err != nil {
		t.Fatal(err)
	}
	if wts[0] != 0 || wts[len(wts)-1] != 0 {
		t.Errorf("gaussian curve not bookended by zeros")
	}
	mx := 0.0
	for _, w := range wts {
		mx = math.Max(mx, w)
	}
	if mx <= 0.5 || mx > 1+Tol {
		t.Errorf("gaussian peak: got %g", mx)
	}

	sp.PulseType = PulseShape(7)
	if _, _, err := sp.Curve(1, 100); !errors.Is(err, ErrUnknownShape) {
		t.Errorf("unknown shape: got %v, want ErrUnknownShape", err)
	}
}

func TestNetStim(t *testing.T) {
	eng := memsim.NewEngine(0, nil)
	ctx := testContext(eng)
	ctx.Cfg.Duration = 100
	ctx.Net.ScaleConnWeightNetStims = 0.5
	ctx.Net.CellParams = []*PropertyRule{pyrRule()}
	c, err := NewCell(ctx, 0, Tags{CellTypeKey: "PYR"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.AddNetStim(&StimParams{Source: "poisson", Rate: 10}); !errors.Is(err, ErrUnknownSource) {
		t.Errorf("unknown source: got %v, want ErrUnknownSource", err)
	}
	bad := &StimParams{Rate: 10, Shape: &ShapeParams{SwitchOnOff: []float64{50, 0}}}
	if _, err := c.AddNetStim(bad); !errors.Is(err, ErrSwitchTimes) {
		t.Errorf("bad switch times: got %v, want ErrSwitchTimes", err)
	}
	if len(c.Stims) != 0 {
		t.Fatalf("failed stims recorded: %d", len(c.Stims))
	}
	sp := &StimParams{Label: "bkg", Rate: 100, Start: 5, Weight: 2}
	sp.Defaults()
	sp.Number = 3
	st, err := c.AddNetStim(sp)
	if err != nil {
		t.Fatal(err)
	}
	if st.Sec != "soma" || st.SynMech != "AMPA" || st.Gen == nil || st.Rand == nil {
		t.Errorf("stim: %+v", st)
	}
	if w := st.NetCon.Weight(0); w != 1 {
		t.Errorf("stim weight: got %g, want 1", w)
	}
	if iv, _ := st.Gen.Param("interval"); iv != 10 {
		t.Errorf("stim interval: got %g, want 10", iv)
	}
	shp := &StimParams{Label: "shaped", Rate: 20, Weight: 2, Shape: &ShapeParams{PulseWidth: 5, PulsePeriod: 20}}
	shp.Defaults()
	ss, err := c.AddNetStim(shp)
	if err != nil {
		t.Fatal(err)
	}
	if ss.ShapeTimes == nil || ss.ShapeTimes.Len() != 102 || ss.ShapeWeights.At(0) != 0 {
		t.Errorf("shaped stim vectors: %v", ss.ShapeTimes)
	}

	c.RecordStimSpikes()
	eng.Init()
	mxw := 0.0
	for i := 0; i < 100; i++ {
		eng.Step(0.5)
		mxw = math.Max(mxw, ss.NetCon.Weight(0))
	}
	if math.Abs(mxw-1) > Tol {
		t.Errorf("shaped stim max live weight: got %g, want 1", mxw)
	}
	ev := ctx.SimData.Stims[c.Key()]["bkg"]
	if ev == nil {
		t.Fatal("stim events not recorded")
	}
	CmprFloats(ev.Values(), []float64{5, 15, 25}, "stim event times", t)
}

func TestIClamp(t *testing.T) {
	ctx := testContext(memsim.NewEngine(0, nil))
	ctx.Net.CellParams = []*PropertyRule{pyrRule()}
	c, err := NewCell(ctx, 0, Tags{CellTypeKey: "PYR"})
	if err != nil {
		t.Fatal(err)
	}
	st, err := c.AddIClamp(&IClampParams{Label: "ic", Sec: "dend", Amp: 0.2, Delay: 10, Dur: 5})
	if err != nil {
		t.Fatal(err)
	}
	if st.Source != IClampSource || st.Sec != "dend" || st.IClamp == nil {
		t.Errorf("iclamp: %+v", st)
	}
	if amp, _ := st.IClamp.Param("amp"); amp != 0.2 {
		t.Errorf("iclamp amp: got %g", amp)
	}
}

func TestRecordTraces(t *testing.T) {
	eng := memsim.NewEngine(0, nil)
	ctx := testContext(eng)
	ctx.Cfg.Duration = 10
	ctx.Cfg.RecordStep = 0.5
	ctx.Cfg.RecordTraces = map[string]*TraceParams{
		"V_soma": {Sec: "soma", Loc: LocAt(0.5), Var: "v"},
		"m_soma": {Sec: "soma", Loc: LocAt(0.5), Mech: "hh", Var: "m"},
		"g_AMPA": {Sec: "soma", Loc: LocAt(0.5), SynMech: "AMPA", Var: "g"},
		"V_axon": {Sec: "axon", Loc: LocAt(0.5), Var: "v"},
		"bad":    {Sec: "soma", Loc: LocAt(0.5), Var: "nosuch"},
	}
	ctx.Net.CellParams = []*PropertyRule{pyrRule()}
	c, err := NewCell(ctx, 0, Tags{CellTypeKey: "PYR"})
	if err != nil {
		t.Fatal(err)
	}
	c.AddSynMech("AMPA", "soma", 0.5)
	c.RecordTraces()
	tr := ctx.SimData.Traces
	for _, key := range []string{"V_soma", "m_soma", "g_AMPA"} {
		vec := tr[key][c.Key()]
		if vec == nil {
			t.Errorf("trace %s not recorded", key)
			continue
		}
		if vec.Cap() != 21 || vec.Len() != 0 {
			t.Errorf("trace %s buffer: cap %d len %d, want 21 0", key, vec.Cap(), vec.Len())
		}
	}
	for _, key := range []string{"V_axon", "bad"} {
		if _, has := tr[key]; has {
			t.Errorf("unresolvable trace %s should be skipped", key)
		}
	}
	eng.Init()
	eng.Run(ctx.Cfg.Duration, 0.25)
	if n := tr["V_soma"][c.Key()].Len(); n != 20 {
		t.Errorf("V_soma samples: got %d, want 20", n)
	}
}

func TestCreateNoStruct(t *testing.T) {
	ctx := testContext(memsim.NewEngine(0, nil))
	ctx.Cfg.CreateStruct = false
	ctx.Net.CellParams = []*PropertyRule{izhRule()}
	c, err := NewCell(ctx, 0, Tags{CellTypeKey: "IZH"})
	if err != nil {
		t.Fatal(err)
	}
	sc := c.Secs["soma"]
	if sc.Sec == nil || sc.PointPs["Izhi"].Obj == nil {
		t.Fatal("soma not materialized")
	}
	if len(sc.Geom) != 0 {
		t.Errorf("structural geometry should not be built: %v", sc.Geom)
	}
	if c.SpikeDet == nil {
		t.Errorf("spike detector not created")
	}
}

func TestInitV(t *testing.T) {
	ctx := testContext(memsim.NewEngine(0, nil))
	rl := &PropertyRule{Label: "vinit"}
	rl.AddSec("soma").VInit = LocAt(-70)
	ctx.Net.CellParams = []*PropertyRule{rl}
	c, err := NewCell(ctx, 0, Tags{})
	if err != nil {
		t.Fatal(err)
	}
	c.InitV()
	ref, _ := c.Secs["soma"].Sec.Ref(0.5, "v")
	if ref.Value() != -70 {
		t.Errorf("vinit: got %g, want -70", ref.Value())
	}
}
