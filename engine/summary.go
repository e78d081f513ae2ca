// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
)

// Encoder and Decoder abstract over gob/json so the summary file can
// switch encodings via the project's EncType knob without touching call
// sites.
type Encoder interface {
	Encode(v interface{}) error
}

// Decoder is the read-side counterpart of Encoder
type Decoder interface {
	Decode(v interface{}) error
}

// GetEncoder returns a gob or json encoder writing to w, selected by the
// project's EncType ("gob" default, "json" alternative).
func GetEncoder(w io.Writer, encType string) Encoder {
	if encType == "json" {
		return json.NewEncoder(w)
	}
	return gob.NewEncoder(w)
}

// GetDecoder returns the read-side counterpart of GetEncoder
func GetDecoder(r io.Reader, encType string) Decoder {
	if encType == "json" {
		return json.NewDecoder(r)
	}
	return gob.NewDecoder(r)
}

// Summary records what a completed run needs to hand off to a later run
// that imports its final state: the list of reporting times written to
// the results store and how many of them there were, so a later run can
// locate the last period without rescanning the results file.
type Summary struct {
	OutTimes []float64 // reporting times written to the results store, sec
	NSteps   int       // len(OutTimes); redundant but kept for bit-for-bit parity with a gob/json round-trip
}

func summaryPath(dirout, key string) string {
	return filepath.Join(dirout, key+".sum")
}

// Save writes the summary to <dirout>/<key>.sum using encType ("gob" or
// "json"), encoding into a buffer first so a failed encode leaves no
// partial file behind.
func (o Summary) Save(dirout, key, encType string) error {
	var buf bytes.Buffer
	if err := GetEncoder(&buf, encType).Encode(o); err != nil {
		return chk.Err("cannot encode summary: %v", err)
	}
	if err := os.MkdirAll(dirout, 0777); err != nil {
		return chk.Err("cannot create summary directory %q: %v", dirout, err)
	}
	return os.WriteFile(summaryPath(dirout, key), buf.Bytes(), 0666)
}

// ReadSummary reads a summary file back
func ReadSummary(dirout, key, encType string) (*Summary, error) {
	f, err := os.Open(summaryPath(dirout, key))
	if err != nil {
		return nil, chk.Err("cannot open summary file for %q: %v", key, err)
	}
	defer f.Close()
	var sum Summary
	if err := GetDecoder(f, encType).Decode(&sum); err != nil {
		return nil, chk.Err("cannot decode summary file for %q: %v", key, err)
	}
	return &sum, nil
}
