// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package hotstart implements the versioned binary hotstart snapshot
// (spec §4.1): a fixed little-endian layout sufficient to resume a run
// without replaying history.
package hotstart

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"

	"github.com/cpmech/swmmgo/inp"
	"github.com/cpmech/swmmgo/routing"
	"github.com/cpmech/swmmgo/runoff"
)

// current write version; readers accept 1-4
const currentVersion = 4

var magics = map[string]int{
	"SWMM5-HOTSTART":  1,
	"SWMM5-HOTSTART2": 2,
	"SWMM5-HOTSTART3": 3,
	"SWMM5-HOTSTART4": 4,
}

// Codec reads and writes a project's dynamic state to a hotstart file
type Codec struct {
	Project *inp.Project
	Subs    []*runoff.Subcatchment
	Net     *routing.Network

	nPollut   int
	nLandUses int
}

// NewCodec builds a Codec bound to the given project's dynamic state
func NewCodec(prj *inp.Project, subs []*runoff.Subcatchment, net *routing.Network) *Codec {
	return &Codec{
		Project:   prj,
		Subs:      subs,
		Net:       net,
		nPollut:   len(prj.Pollutants),
		nLandUses: len(prj.LandUses),
	}
}

// Read restores dynamic state from a hotstart file, per §4.1. On any
// format mismatch or NaN it sets the project's sticky error code and
// aborts further reads, leaving the project partially loaded.
func (o *Codec) Read(path string) {
	f, err := os.Open(path)
	if err != nil {
		o.Project.Errors.SetError(inp.ErrHotstartFileOpen, "cannot open hotstart file %q: %v", path, err)
		return
	}
	defer f.Close()
	r := &reader{b: bufio.NewReader(f)}

	magic := r.readMagic(16)
	version, ok := magics[magic]
	if !ok {
		o.Project.Errors.SetError(inp.ErrHotstartFileFormat, "hotstart file %q has unrecognized magic %q", path, magic)
		return
	}

	nSub := r.readI32()
	nLU := r.readI32()
	nNodes := r.readI32()
	nLinks := r.readI32()
	nPollut := r.readI32()
	flowUnits := r.readI32()

	if r.err != nil {
		o.Project.Errors.SetError(inp.ErrHotstartFileRead, "hotstart file %q: %v", path, r.err)
		return
	}
	if int(nSub) != len(o.Subs) || int(nNodes) != len(o.Net.Nodes) ||
		int(nLinks) != len(o.Net.Links) || int(nPollut) != o.nPollut || int(nLU) != o.nLandUses {
		o.Project.Errors.SetError(inp.ErrHotstartFileFormat, "hotstart file %q: catalog sizes disagree with project", path)
		return
	}
	if int(flowUnits) != inp.FlowUnitCode(o.Project.Data.FlowUnits) {
		o.Project.Errors.SetError(inp.ErrHotstartFileFormat, "hotstart file %q: flow units disagree with project", path)
		return
	}

	if version >= 3 {
		o.readRunoffPayload(r)
		if r.err != nil {
			o.Project.Errors.SetError(inp.ErrHotstartFileRead, "hotstart file %q: %v", path, r.err)
			return
		}
	}
	o.readRoutingPayload(r, version)
	if r.err != nil {
		o.Project.Errors.SetError(inp.ErrHotstartFileRead, "hotstart file %q: %v", path, r.err)
		return
	}
}

func (o *Codec) readRunoffPayload(r *reader) {
	for _, s := range o.Subs {
		for k := range s.Subareas {
			d := r.readF64()
			if r.err != nil {
				return
			}
			s.Subareas[k].SetDepth(d)
		}
		s.NewRunoff = r.readF64()

		state := make([]float64, 6)
		for i := range state {
			state[i] = r.readF64()
		}
		if s.Infil != nil {
			s.Infil.SetState(vecToPrms(s.Infil.GetState(), state))
		}
		if s.Gwater != nil {
			gwState := make([]float64, 4)
			for i := range gwState {
				gwState[i] = r.readF64()
			}
			s.Gwater.SetState(vecToPrms(s.Gwater.GetState(), gwState))
		}
		if s.Snow != nil {
			for surface := 0; surface < 3; surface++ {
				snowState := make([]float64, 5)
				for i := range snowState {
					snowState[i] = r.readF64()
				}
				if surface == 0 {
					s.Snow.SetState(vecToPrms(s.Snow.GetState(), snowState))
				}
			}
		}
		if o.nPollut > 0 {
			for i := 0; i < o.nPollut; i++ {
				r.readF64() // runoff quality, not yet modeled beyond hotstart round-trip
			}
			for i := 0; i < o.nPollut; i++ {
				r.readF64() // ponded quality
			}
			for lu := 0; lu < o.nLandUses; lu++ {
				for i := 0; i < o.nPollut; i++ {
					r.readF64() // buildup mass
				}
				r.readF64() // last-swept time
			}
		}
		if r.err != nil {
			return
		}
	}
}

func (o *Codec) readRoutingPayload(r *reader, version int) {
	for _, n := range o.Net.Nodes {
		n.NewDepth = float64(r.readF32())
		_ = r.readF32() // newLatFlow, informational
		if version >= 4 && n.Data.KindVal == inp.Storage {
			_ = r.readF32() // hydraulic residence time, informational
		}
		for i := 0; i < o.nPollut; i++ {
			r.readF32()
		}
		if version <= 2 {
			for i := 0; i < o.nPollut; i++ {
				r.readF32()
			}
		}
		if r.err != nil {
			return
		}
	}
	for _, l := range o.Net.Links {
		l.NewFlow = float64(r.readF32())
		l.NewDepth = float64(r.readF32())
		setting := float64(r.readF32())
		l.SetTargetSetting(setting)
		l.SetSetting(0.0)
		for i := 0; i < o.nPollut; i++ {
			r.readF32()
		}
		if r.err != nil {
			return
		}
	}
}

// Write persists the project's current dynamic state, always in the
// current (version 4) layout.
func (o *Codec) Write(path string) {
	f, err := os.Create(path)
	if err != nil {
		o.Project.Errors.SetError(inp.ErrHotstartFileOpen, "cannot create hotstart file %q: %v", path, err)
		return
	}
	defer f.Close()
	w := &writer{b: bufio.NewWriter(f)}

	w.writeMagic("SWMM5-HOTSTART4", 16)
	w.writeI32(int32(len(o.Subs)))
	w.writeI32(int32(o.nLandUses))
	w.writeI32(int32(len(o.Net.Nodes)))
	w.writeI32(int32(len(o.Net.Links)))
	w.writeI32(int32(o.nPollut))
	w.writeI32(int32(inp.FlowUnitCode(o.Project.Data.FlowUnits)))

	o.writeRunoffPayload(w)
	o.writeRoutingPayload(w)

	if err := w.b.Flush(); err != nil {
		o.Project.Errors.SetError(inp.ErrOutWrite, "cannot write hotstart file %q: %v", path, err)
	}
}

func (o *Codec) writeRunoffPayload(w *writer) {
	for _, s := range o.Subs {
		for k := range s.Subareas {
			w.writeF64(s.Subareas[k].Depth)
		}
		w.writeF64(s.NewRunoff)

		var state []float64
		if s.Infil != nil {
			state = prmsToVec(s.Infil.GetState(), 6)
		} else {
			state = make([]float64, 6)
		}
		for _, v := range state {
			w.writeF64(v)
		}
		if s.Gwater != nil {
			for _, v := range prmsToVec(s.Gwater.GetState(), 4) {
				w.writeF64(v)
			}
		}
		if s.Snow != nil {
			for surface := 0; surface < 3; surface++ {
				for _, v := range prmsToVec(s.Snow.GetState(), 5) {
					w.writeF64(v)
				}
			}
		}
		if o.nPollut > 0 {
			for i := 0; i < o.nPollut; i++ {
				w.writeF64(0)
			}
			for i := 0; i < o.nPollut; i++ {
				w.writeF64(0)
			}
			for lu := 0; lu < o.nLandUses; lu++ {
				for i := 0; i < o.nPollut; i++ {
					w.writeF64(0)
				}
				w.writeF64(0)
			}
		}
	}
}

func (o *Codec) writeRoutingPayload(w *writer) {
	for _, n := range o.Net.Nodes {
		w.writeF32(float32(n.NewDepth))
		w.writeF32(0) // newLatFlow
		if n.Data.KindVal == inp.Storage {
			w.writeF32(0) // hydraulic residence time
		}
		for i := 0; i < o.nPollut; i++ {
			w.writeF32(0)
		}
	}
	for _, l := range o.Net.Links {
		w.writeF32(float32(l.NewFlow))
		w.writeF32(float32(l.NewDepth))
		w.writeF32(float32(l.Setting))
		for i := 0; i < o.nPollut; i++ {
			w.writeF32(0)
		}
	}
}

// vecToPrms/prmsToVec bridge the collaborators' named-parameter state
// vectors (gosl/dbf.Params) to the hotstart file's positional float vectors.
// The parameter *names* are never encoded in the file -- only the f64
// values, by position -- so a collaborator's own GetState() is used as the
// positional template on both sides: prmsToVec reads each slot by index
// regardless of its name, and vecToPrms re-attaches the template's names
// (from a fresh GetState() call) to the positions read back from the file,
// so SetState's name-matching lookups (e.g. Horton's "t", Linear's "s")
// see the names they expect.
func vecToPrms(template dbf.Params, v []float64) (p dbf.Params) {
	p = make(dbf.Params, len(template))
	for i, nv := range template {
		val := 0.0
		if i < len(v) {
			val = v[i]
		}
		p[i] = &dbf.P{N: nv.N, V: val}
	}
	return
}

func prmsToVec(p dbf.Params, n int) []float64 {
	v := make([]float64, n)
	for i, nv := range p {
		if i < n {
			v[i] = nv.V
		}
	}
	return v
}

// reader/writer wrap little-endian binary I/O with sticky error state and
// NaN checking, per §4.1's "every scalar is tested after read" policy.
type reader struct {
	b   *bufio.Reader
	err error
}

func (r *reader) readMagic(n int) string {
	buf := make([]byte, n)
	if r.err != nil {
		return ""
	}
	_, r.err = io.ReadFull(r.b, buf)
	i := 0
	for i < len(buf) && buf[i] != 0 {
		i++
	}
	return string(buf[:i])
}

func (r *reader) readI32() int32 {
	var v int32
	if r.err != nil {
		return 0
	}
	r.err = binary.Read(r.b, binary.LittleEndian, &v)
	return v
}

func (r *reader) readF64() float64 {
	var v float64
	if r.err != nil {
		return 0
	}
	r.err = binary.Read(r.b, binary.LittleEndian, &v)
	if r.err == nil && math.IsNaN(v) {
		r.err = chk.Err("NaN encountered in hotstart payload")
	}
	return v
}

func (r *reader) readF32() float32 {
	var v float32
	if r.err != nil {
		return 0
	}
	r.err = binary.Read(r.b, binary.LittleEndian, &v)
	if r.err == nil && math.IsNaN(float64(v)) {
		r.err = chk.Err("NaN encountered in hotstart payload")
	}
	return v
}

type writer struct {
	b *bufio.Writer
}

func (w *writer) writeMagic(s string, n int) {
	buf := make([]byte, n)
	copy(buf, s)
	w.b.Write(buf)
}

func (w *writer) writeI32(v int32)   { binary.Write(w.b, binary.LittleEndian, v) }
func (w *writer) writeF64(v float64) { binary.Write(w.b, binary.LittleEndian, v) }
func (w *writer) writeF32(v float32) { binary.Write(w.b, binary.LittleEndian, v) }
