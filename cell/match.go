// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cell

import "reflect"

// Matches returns true if every condition key is present in tags with an equal value
func Matches(tags Tags, conds map[string]any) bool {
	for k, cv := range conds {
		tv, has := tags[k]
		if !has || !ValuesEqual(tv, cv) {
			return false
		}
	}
	return true
}

// MatchRules returns the rules whose conditions match tags, in rule order
func MatchRules(tags Tags, rules []*PropertyRule) []*PropertyRule {
	var mr []*PropertyRule
	for _, r := range rules {
		if Matches(tags, r.Conditions) {
			mr = append(mr, r)
		}
	}
	return mr
}

// ValuesEqual compares tag and condition values: numbers compare by value
// regardless of kind, numeric lists element-wise, anything else by deep equality.
func ValuesEqual(a, b any) bool {
	if fa, ok := scalarFloat(a); ok {
		fb, ok := scalarFloat(b)
		return ok && fa == fb
	}
	if la, ok := floatList(a); ok {
		lb, ok := floatList(b)
		if !ok || len(la) != len(lb) {
			return false
		}
		for i := range la {
			if la[i] != lb[i] {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}
