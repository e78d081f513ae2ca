// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package runoffio implements the runoff interface file (spec §6): a
// recorded stream of subcatchment results that can be replayed into the
// routing engine in place of re-executing the runoff engine.
package runoffio

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/swmmgo/inp"
	"github.com/cpmech/swmmgo/runoff"
)

const magic = "SWMM5-RUNOFF"

// maxSubcatchResults is MAX_SUBCATCH_RESULTS: the fixed per-subcatchment
// result width before the (nPollut-1) washoff extension, matching
// results.NumSubVars (rainfall, snowdepth, evap, infil, runoff, gwFlow,
// gwElev, soilMoist).
const maxSubcatchResults = 8

// Writer appends subcatchment result records to a runoff interface file
type Writer struct {
	f         *os.File
	w         *bufio.Writer
	nSub      int
	nPollut   int
	stepCount int
}

// Create opens path for writing and emits the header
func Create(path string, prj *inp.Project) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		prj.Errors.SetError(inp.ErrRunoffFileOpen, "cannot create runoff interface file %q: %v", path, err)
		return nil, err
	}
	o := &Writer{f: f, w: bufio.NewWriter(f), nSub: len(prj.Subcatchments), nPollut: len(prj.Pollutants)}
	writeFixed(o.w, magic, 16)
	binary.Write(o.w, binary.LittleEndian, int32(o.nSub))
	binary.Write(o.w, binary.LittleEndian, int32(o.nPollut))
	binary.Write(o.w, binary.LittleEndian, int32(inp.FlowUnitCode(prj.Data.FlowUnits)))
	binary.Write(o.w, binary.LittleEndian, int32(0)) // reservedStepCount, patched on Close
	return o, nil
}

// per-subcatchment record slots, mirroring the §6 subcatchment result
// variable order up to RUNOFF; the remaining slots are reserved for the
// groundwater variables and the (nPollut-1) washoff extension
const (
	slotRainfall = iota
	slotSnowDepth
	slotEvap
	slotInfil
	slotRunoff
)

// WriteStep appends one step's record: tStep followed by every
// subcatchment's result row. Values are written in the engine's internal
// units (ft, ft/sec, cfs); no conversion to the project's flow units is
// applied.
func (o *Writer) WriteStep(tStep float64, subs []*runoff.Subcatchment) {
	binary.Write(o.w, binary.LittleEndian, float32(tStep))
	width := maxSubcatchResults + o.nPollut - 1
	for _, s := range subs {
		row := make([]float32, width)
		row[slotSnowDepth] = float32(s.NewSnowDepth)
		row[slotEvap] = float32(s.EvapLoss)
		row[slotInfil] = float32(s.InfilLoss)
		row[slotRunoff] = float32(s.ReportedRunoff)
		binary.Write(o.w, binary.LittleEndian, row)
	}
	o.stepCount++
}

// Close flushes and closes the file, patching the step count into the header
func (o *Writer) Close() {
	o.w.Flush()
	o.f.Seek(16+12, 0)
	binary.Write(o.f, binary.LittleEndian, int32(o.stepCount))
	o.f.Close()
}

func writeFixed(w *bufio.Writer, s string, n int) {
	buf := make([]byte, n)
	copy(buf, s)
	w.Write(buf)
}

// Reader replays a runoff interface file's recorded steps
type Reader struct {
	f       *os.File
	nSub    int
	nPollut int
	width   int
}

// Open opens path for reading and validates the header
func Open(path string, prj *inp.Project) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		prj.Errors.SetError(inp.ErrRunoffFileOpen, "cannot open runoff interface file %q: %v", path, err)
		return nil, err
	}
	buf := make([]byte, 16+16)
	if _, err := f.ReadAt(buf, 0); err != nil {
		prj.Errors.SetError(inp.ErrRunoffFileRead, "cannot read runoff interface file header: %v", err)
		return nil, err
	}
	if string(buf[:len(magic)]) != magic {
		prj.Errors.SetError(inp.ErrRunoffFileFormat, "runoff interface file %q has unrecognized magic", path)
		f.Close()
		return nil, chk.Err("runoff interface file %q has unrecognized magic", path)
	}
	nSub := int(le32(buf[16:]))
	nPollut := int(le32(buf[20:]))
	if nSub != len(prj.Subcatchments) {
		prj.Errors.SetError(inp.ErrRunoffFileFormat, "runoff interface file %q: subcatchment count disagrees with project", path)
		f.Close()
		return nil, chk.Err("runoff interface file %q: subcatchment count disagrees with project", path)
	}
	// ReadAt leaves the file offset at 0; position the sequential reads
	// used by ReadStep just past the header
	if _, err := f.Seek(16+16, io.SeekStart); err != nil {
		prj.Errors.SetError(inp.ErrRunoffFileRead, "cannot seek past runoff interface file header: %v", err)
		f.Close()
		return nil, err
	}
	return &Reader{f: f, nSub: nSub, nPollut: nPollut, width: maxSubcatchResults + nPollut - 1}, nil
}

func le32(b []byte) int32 {
	return int32(binary.LittleEndian.Uint32(b))
}

// ReadStep reads the next recorded step, replacing every subcatchment's
// dynamic result fields (§4.5). The values are taken as stored, in the
// internal units WriteStep records; no unit conversion is applied.
func (o *Reader) ReadStep(subs []*runoff.Subcatchment) (tStep float64, err error) {
	var t float32
	if err = binary.Read(o.f, binary.LittleEndian, &t); err != nil {
		return 0, err
	}
	tStep = float64(t)
	row := make([]float32, o.width)
	for _, s := range subs {
		if err = binary.Read(o.f, binary.LittleEndian, row); err != nil {
			return tStep, err
		}
		s.OldSnowDepth, s.NewSnowDepth = s.NewSnowDepth, float64(row[slotSnowDepth])
		s.EvapLoss = float64(row[slotEvap])
		s.InfilLoss = float64(row[slotInfil])
		s.OldRunoff, s.NewRunoff = s.NewRunoff, float64(row[slotRunoff])
		s.ReportedRunoff = s.NewRunoff
	}
	return tStep, nil
}

// Close closes the reader's file
func (o *Reader) Close() {
	o.f.Close()
}
