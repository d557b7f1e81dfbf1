// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package store

import (
	"encoding/json"
	"fmt"
)

// CurrentCodecVersion is the version of the encoded run payload
const CurrentCodecVersion = 1

type runPayload struct {
	Version int  `json:"version"`
	Run     *Run `json:"run"`
}

// EncodeRun returns the JSON payload of run
func EncodeRun(run *Run) ([]byte, error) {
	return json.Marshal(runPayload{Version: CurrentCodecVersion, Run: run})
}

// DecodeRun decodes a payload written by EncodeRun
func DecodeRun(data []byte) (*Run, error) {
	var pl runPayload
	if err := json.Unmarshal(data, &pl); err != nil {
		return nil, err
	}
	if pl.Version != CurrentCodecVersion {
		return nil, fmt.Errorf("run payload version %d, expected %d", pl.Version, CurrentCodecVersion)
	}
	if pl.Run == nil {
		return nil, fmt.Errorf("run payload has no run")
	}
	return pl.Run, nil
}
