// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package results

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/swmmgo/inp"
)

const magic = "SWMM5-RESULTS"
const version = 1

// maxAddressable bounds the projected file size the store will attempt to
// write; exceeding it is the §4.2 "size guard", a fatal resource error.
const maxAddressable = int64(1) << 40

// Store is a single binary results file: a prologue, a stream of
// fixed-width period blocks, and an epilogue (spec §4.2).
type Store struct {
	Project *inp.Project

	f *os.File
	w *bufio.Writer
	r io.ReaderAt

	nSub, nNode, nLink, nPollut int
	subVarsPerObj               int // NumSubVars + nPollut
	nodeVarsPerObj              int
	linkVarsPerObj              int

	prologueSize int64
	periodSize   int64
	periodCount  int32
}

func (o *Store) blockPayloadFloats() int {
	return o.nSub*o.subVarsPerObj + o.nNode*o.nodeVarsPerObj + o.nLink*o.linkVarsPerObj + MaxSysResults
}

// Create opens path for writing and emits the prologue, per §4.2.
// totalDuration and reportStep, both seconds, size the projected file for
// the guard against maxAddressable.
func Create(path string, prj *inp.Project, totalDuration, reportStep float64) *Store {
	o := &Store{
		Project:        prj,
		nSub:           len(prj.Subcatchments),
		nNode:          len(prj.Nodes),
		nLink:          len(prj.Links),
		nPollut:        len(prj.Pollutants),
		subVarsPerObj:  NumSubVars + len(prj.Pollutants),
		nodeVarsPerObj: NumNodeVars + len(prj.Pollutants),
		linkVarsPerObj: NumLinkVars + len(prj.Pollutants),
	}
	o.periodSize = int64(8 + 4*o.blockPayloadFloats())

	nPeriods := int64(0)
	if reportStep > 0 {
		nPeriods = int64(math.Ceil(totalDuration / reportStep))
	}
	o.prologueSize = o.estimatePrologueSize()
	projected := o.prologueSize + o.periodSize*nPeriods + epilogueSize
	if projected > maxAddressable {
		prj.Errors.SetError(inp.ErrFileSize, "projected results file size %d exceeds maximum addressable offset", projected)
		return o
	}

	f, err := os.Create(path)
	if err != nil {
		prj.Errors.SetError(inp.ErrOutFile, "cannot create results file %q: %v", path, err)
		return o
	}
	o.f = f
	o.w = bufio.NewWriter(f)
	o.writePrologue()
	return o
}

func (o *Store) estimatePrologueSize() int64 {
	const header = int64(16 + 4*9) // magic + version/flowUnit/nSub/nNode/nLink/nPollut/3 var-count fields
	const nameWidth = 32
	pollutUnits := int64(o.nPollut) * 4
	names := int64(o.nSub+o.nNode+o.nLink) * nameWidth
	statics := int64(o.nSub*8 + o.nNode*8 + o.nLink*16)
	varCodes := int64((o.subVarsPerObj + o.nodeVarsPerObj + o.linkVarsPerObj) * 4)
	return header + pollutUnits + names + statics + varCodes
}

func (o *Store) writePrologue() {
	w := o.w
	writeFixed(w, magic, 16)
	binary.Write(w, binary.LittleEndian, int32(version))
	binary.Write(w, binary.LittleEndian, int32(inp.FlowUnitCode(o.Project.Data.FlowUnits)))
	binary.Write(w, binary.LittleEndian, int32(o.nSub))
	binary.Write(w, binary.LittleEndian, int32(o.nNode))
	binary.Write(w, binary.LittleEndian, int32(o.nLink))
	binary.Write(w, binary.LittleEndian, int32(o.nPollut))
	binary.Write(w, binary.LittleEndian, int32(o.subVarsPerObj))
	binary.Write(w, binary.LittleEndian, int32(o.nodeVarsPerObj))
	binary.Write(w, binary.LittleEndian, int32(o.linkVarsPerObj))

	for _, p := range o.Project.Pollutants {
		binary.Write(w, binary.LittleEndian, int32(pollutUnitCode(p.Units)))
	}

	for _, s := range o.Project.Subcatchments {
		writeFixed(w, s.Name, 32)
		binary.Write(w, binary.LittleEndian, s.Area)
	}
	for _, n := range o.Project.Nodes {
		writeFixed(w, n.Name, 32)
		binary.Write(w, binary.LittleEndian, n.Invert)
	}
	for _, l := range o.Project.Links {
		writeFixed(w, l.Name, 32)
		binary.Write(w, binary.LittleEndian, l.Length)
		binary.Write(w, binary.LittleEndian, l.XSect.FullArea)
	}

	// list of result-variable codes per object class (§4.2 prologue,
	// §6 variable tables): each object class's codes are the fixed
	// 0..width-1 positions writePeriod/readXResults already index by.
	writeVarCodes(w, o.subVarsPerObj)
	writeVarCodes(w, o.nodeVarsPerObj)
	writeVarCodes(w, o.linkVarsPerObj)
}

func writeVarCodes(w io.Writer, width int) {
	for i := 0; i < width; i++ {
		binary.Write(w, binary.LittleEndian, int32(i))
	}
}

func pollutUnitCode(units string) int {
	switch units {
	case "MG/L", "":
		return 0
	case "UG/L":
		return 1
	case "#/L", "COUNT":
		return 2
	}
	return 0
}

func writeFixed(w io.Writer, s string, n int) {
	buf := make([]byte, n)
	copy(buf, s)
	w.Write(buf)
}

// WritePeriod appends one fixed-width period block: date, subcatchment,
// node, link and system results, per §4.2. Inputs are f64 internally and
// stored as f32, per the spec's stated arithmetic/storage split.
func (o *Store) WritePeriod(date float64, sub, node, link [][]float64, sys [MaxSysResults]float64) {
	if o.w == nil {
		return
	}
	binary.Write(o.w, binary.LittleEndian, date)
	for _, vals := range sub {
		writeF32Row(o.w, vals, o.subVarsPerObj)
	}
	for _, vals := range node {
		writeF32Row(o.w, vals, o.nodeVarsPerObj)
	}
	for _, vals := range link {
		writeF32Row(o.w, vals, o.linkVarsPerObj)
	}
	for _, v := range sys {
		binary.Write(o.w, binary.LittleEndian, float32(v))
	}
	o.periodCount++
}

func writeF32Row(w io.Writer, vals []float64, width int) {
	for i := 0; i < width; i++ {
		v := 0.0
		if i < len(vals) {
			v = vals[i]
		}
		binary.Write(w, binary.LittleEndian, float32(v))
	}
}

// Close flushes the period stream and writes the epilogue (offsets,
// period count, terminal error code, trailing magic), then closes the file.
func (o *Store) Close() {
	if o.w == nil {
		return
	}
	periodStreamEnd, _ := currentOffset(o.w, o.f)
	binary.Write(o.w, binary.LittleEndian, o.prologueSize)
	binary.Write(o.w, binary.LittleEndian, o.prologueSize) // periodStreamStart == prologueSize
	binary.Write(o.w, binary.LittleEndian, periodStreamEnd)
	binary.Write(o.w, binary.LittleEndian, o.periodCount)
	binary.Write(o.w, binary.LittleEndian, int32(o.Project.Errors.Code))
	writeFixed(o.w, magic, 16)

	if err := o.w.Flush(); err != nil {
		o.Project.Errors.SetError(inp.ErrOutWrite, "cannot flush results file: %v", err)
	}
	o.f.Close()
}

var epilogueSize = int64(8*3 + 4 + 4 + 16)

func currentOffset(w *bufio.Writer, f *os.File) (int64, error) {
	w.Flush()
	return f.Seek(0, io.SeekCurrent)
}

// Open opens an existing results file for random-access reading
func Open(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, chk.Err("cannot open results file %q: %v", path, err)
	}
	o := &Store{r: f}
	buf := make([]byte, 16)
	if _, err := f.ReadAt(buf, 0); err != nil {
		return nil, chk.Err("cannot read results file prologue: %v", err)
	}
	hdr := make([]byte, 16+4*9)
	f.ReadAt(hdr, 0)
	o.nSub = int(le32(hdr[16+8:]))
	o.nNode = int(le32(hdr[16+12:]))
	o.nLink = int(le32(hdr[16+16:]))
	o.nPollut = int(le32(hdr[16+20:]))
	o.subVarsPerObj = int(le32(hdr[16+24:]))
	o.nodeVarsPerObj = int(le32(hdr[16+28:]))
	o.linkVarsPerObj = int(le32(hdr[16+32:]))
	o.periodSize = int64(8 + 4*o.blockPayloadFloats())
	o.prologueSize = int64(16+4*9) + int64(o.nPollut)*4 +
		int64(o.nSub+o.nNode+o.nLink)*32 +
		int64(o.nSub*8+o.nNode*8+o.nLink*16) +
		int64(o.subVarsPerObj+o.nodeVarsPerObj+o.linkVarsPerObj)*4
	return o, nil
}

// CloseReader closes a Store opened with Open
func (o *Store) CloseReader() {
	if f, ok := o.r.(*os.File); ok {
		f.Close()
	}
}

func le32(b []byte) int32 {
	return int32(binary.LittleEndian.Uint32(b))
}

// ReadDateTime returns the date stamp of the given period, by direct
// arithmetic seek — never a scan, per §4.2.
func (o *Store) ReadDateTime(period int) float64 {
	off := o.prologueSize + int64(period)*o.periodSize
	buf := make([]byte, 8)
	o.r.ReadAt(buf, off)
	return math.Float64frombits(binary.LittleEndian.Uint64(buf))
}

// ReadSubcatchResults returns one subcatchment's result row for the period
func (o *Store) ReadSubcatchResults(period, reportedIndex int) []float32 {
	base := o.prologueSize + int64(period)*o.periodSize + 8
	off := base + int64(reportedIndex*o.subVarsPerObj)*4
	return o.readF32Row(off, o.subVarsPerObj)
}

// ReadNodeResults returns one node's result row for the period
func (o *Store) ReadNodeResults(period, reportedIndex int) []float32 {
	base := o.prologueSize + int64(period)*o.periodSize + 8 + int64(o.nSub*o.subVarsPerObj)*4
	off := base + int64(reportedIndex*o.nodeVarsPerObj)*4
	return o.readF32Row(off, o.nodeVarsPerObj)
}

// ReadLinkResults returns one link's result row for the period
func (o *Store) ReadLinkResults(period, reportedIndex int) []float32 {
	base := o.prologueSize + int64(period)*o.periodSize + 8 +
		int64(o.nSub*o.subVarsPerObj)*4 + int64(o.nNode*o.nodeVarsPerObj)*4
	off := base + int64(reportedIndex*o.linkVarsPerObj)*4
	return o.readF32Row(off, o.linkVarsPerObj)
}

func (o *Store) readF32Row(off int64, width int) []float32 {
	buf := make([]byte, 4*width)
	o.r.ReadAt(buf, off)
	out := make([]float32, width)
	for i := 0; i < width; i++ {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return out
}
