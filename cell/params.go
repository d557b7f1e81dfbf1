// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cell

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/goki/ki/kit"
	"github.com/goki/mat32"
)

// Params is an open set of named parameter values as they appear in
// declarative rules: numbers, strings, numeric lists, and nested values.
type Params map[string]any

// Copy returns a shallow copy, copying top-level numeric lists
func (pr Params) Copy() Params {
	cp := make(Params, len(pr))
	for k, v := range pr {
		if fl, ok := floatList(v); ok {
			cp[k] = fl
			continue
		}
		cp[k] = v
	}
	return cp
}

// Merge sets all entries of src into pr, overwriting same-named entries
func (pr Params) Merge(src Params) {
	for k, v := range src.Copy() {
		pr[k] = v
	}
}

// Float returns the named value as a number, false if missing or not a scalar
func (pr Params) Float(key string) (float64, bool) {
	v, has := pr[key]
	if !has {
		return 0, false
	}
	return scalarFloat(v)
}

// String returns the named value as a string, empty if missing
func (pr Params) String(key string) string {
	v, has := pr[key]
	if !has {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return kit.ToString(v)
}

// Keys returns the keys in sorted order
func (pr Params) Keys() []string {
	return sortedKeys(pr)
}

//////////////////////////////////////////////////////////////////////////////////////
//  Point process reserved keys

// Point process parameter keys with special meaning. All keys starting
// with an underscore are reserved and never set on the engine object.
const (
	ModKey     = "mod"
	LocKey     = "loc"
	VRefKey    = "_vref"
	SynListKey = "_synList"
)

// Mod returns the model name of a point process description
func (pr Params) Mod() string { return pr.String(ModKey) }

// Loc returns the location of a point process description, 0.5 if unset
func (pr Params) Loc() float64 {
	if l, ok := pr.Float(LocKey); ok {
		return l
	}
	return 0.5
}

// VRef returns the name of the variable used in place of membrane voltage,
// empty if this point process is not an artificial cell
func (pr Params) VRef() string { return pr.String(VRefKey) }

// SynList returns the ordered receptor labels of an artificial cell
func (pr Params) SynList() []string {
	switch sl := pr[SynListKey].(type) {
	case []string:
		return sl
	case []any:
		lst := make([]string, len(sl))
		for i, s := range sl {
			lst[i] = kit.ToString(s)
		}
		return lst
	}
	return nil
}

// IsReserved returns true for point process keys not set on the engine object
func IsReserved(key string) bool {
	return key == ModKey || key == LocKey || strings.HasPrefix(key, "_")
}

//////////////////////////////////////////////////////////////////////////////////////
//  value helpers

// scalarFloat converts a numeric scalar value to float64
func scalarFloat(v any) (float64, bool) {
	switch v.(type) {
	case nil, string, bool:
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Struct:
		return 0, false
	}
	return kit.ToFloat(v)
}

// floatList converts a flat list of numbers to []float64.
// Returns false for scalars, non-numeric or nested lists.
func floatList(v any) ([]float64, bool) {
	switch vl := v.(type) {
	case []float64:
		cp := make([]float64, len(vl))
		copy(cp, vl)
		return cp, true
	case []float32, []int, []int64, []any:
	default:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	fl := make([]float64, rv.Len())
	for i := range fl {
		f, ok := scalarFloat(rv.Index(i).Interface())
		if !ok {
			return nil, false
		}
		fl[i] = f
	}
	return fl, true
}

// isList returns true for any slice or array value
func isList(v any) bool {
	if v == nil {
		return false
	}
	k := reflect.ValueOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

// pt3dList converts a list of 3D points, each [x, y, z, diam]
func pt3dList(v any) ([]mat32.Vec4, error) {
	if v == nil {
		return nil, nil
	}
	if pts, ok := v.([]mat32.Vec4); ok {
		cp := make([]mat32.Vec4, len(pts))
		copy(cp, pts)
		return cp, nil
	}
	if !isList(v) {
		return nil, fmt.Errorf("pt3d must be a list of points, got %T: %w", v, ErrConfig)
	}
	rv := reflect.ValueOf(v)
	pts := make([]mat32.Vec4, rv.Len())
	for i := range pts {
		fl, ok := floatList(rv.Index(i).Interface())
		if !ok || len(fl) != 4 {
			return nil, fmt.Errorf("pt3d point %d must be [x, y, z, diam]: %w", i, ErrConfig)
		}
		pts[i] = mat32.NewVec4(float32(fl[0]), float32(fl[1]), float32(fl[2]), float32(fl[3]))
	}
	return pts, nil
}

func sortedKeys[T any](m map[string]T) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

//////////////////////////////////////////////////////////////////////////////////////
//  Tags

// Tags are the attributes of one cell instance: population, cell type,
// normalized and absolute positions, and any user-defined properties.
// They are fixed once the cell is created, except that matched rule labels
// are appended to PropListKey.
type Tags map[string]any

// Standard tag keys
const (
	PopKey       = "popLabel"
	CellTypeKey  = "cellType"
	CellModelKey = "cellModel"
	XKey         = "x"
	YKey         = "y"
	ZKey         = "z"
	XNormKey     = "xnorm"
	YNormKey     = "ynorm"
	ZNormKey     = "znorm"
	PropListKey  = "propList"
)

// Copy returns a copy of the tags with its own PropList
func (tg Tags) Copy() Tags {
	cp := make(Tags, len(tg))
	for k, v := range tg {
		cp[k] = v
	}
	cp[PropListKey] = append([]string(nil), tg.PropList()...)
	return cp
}

// Float returns a numeric tag, false if missing or not numeric
func (tg Tags) Float(key string) (float64, bool) {
	v, has := tg[key]
	if !has {
		return 0, false
	}
	return scalarFloat(v)
}

// String returns a tag as a string, empty if missing
func (tg Tags) String(key string) string {
	v, has := tg[key]
	if !has {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return kit.ToString(v)
}

// PropList returns the labels of the property rules matched so far, in order
func (tg Tags) PropList() []string {
	switch pl := tg[PropListKey].(type) {
	case []string:
		return pl
	case []any:
		lst := make([]string, len(pl))
		for i, s := range pl {
			lst[i] = kit.ToString(s)
		}
		return lst
	}
	return nil
}

// AddProp appends a matched rule label
func (tg Tags) AddProp(label string) {
	tg[PropListKey] = append(tg.PropList(), label)
}
