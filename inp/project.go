// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
)

// RoutingModel selects the flow-routing algorithm (spec §4.6/§4.6.3)
type RoutingModel int

// routing models
const (
	Steady RoutingModel = iota
	Kinematic
	DynamicWave
)

// RoutingData holds solver options for the routing and runoff engines,
// mirroring the teacher's inp.SolverData: defaults + PostProcess
type RoutingData struct {
	Model      string  `json:"model"`         // "steady" | "kinematic" | "dynamic"
	MaxIter    int     `json:"maxiter"`       // storage-node Picard max iterations (§4.6.1)
	StopTol    float64 `json:"stoptol"`       // storage-node Picard convergence tolerance, ft
	Omega      float64 `json:"omega"`         // storage-node Picard under-relaxation factor
	OdeTol     float64 `json:"odetol"`        // sub-area ponded-depth ODE tolerance (§4.4)
	MinRunoff  float64 `json:"minrunoff"`     // MIN_RUNOFF, ft/sec, below which runoff reports as zero (§4.3)
	WetStep    float64 `json:"wetstep"`       // sec
	DryStep    float64 `json:"drystep"`       // sec
	RouteStep  float64 `json:"routestep"`     // sec, routing time step (generally < runoff step)
	ReportStep float64 `json:"reportstep"`    // sec
	TotalDur   float64 `json:"totalDuration"` // sec, total simulation duration

	// derived
	ModelVal RoutingModel
}

// SetDefault sets default values, following inp.SolverData.SetDefault
func (o *RoutingData) SetDefault() {
	o.MaxIter = 10
	o.StopTol = 0.005
	o.Omega = 0.55
	o.OdeTol = 1e-4
	o.MinRunoff = 0.0
	o.WetStep = 300
	o.DryStep = 3600
	o.RouteStep = 30
	o.ReportStep = 3600
}

// PostProcess resolves string enum and validates ranges, following
// inp.SolverData.PostProcess
func (o *RoutingData) PostProcess() {
	switch o.Model {
	case "steady", "":
		o.ModelVal = Steady
	case "kinematic":
		o.ModelVal = Kinematic
	case "dynamic":
		o.ModelVal = DynamicWave
	default:
		chk.Panic("routing model must be one of steady|kinematic|dynamic, got %q", o.Model)
	}
	if o.MaxIter <= 0 {
		o.MaxIter = 10
	}
	if o.StopTol <= 0 {
		o.StopTol = 0.005
	}
	if o.Omega <= 0 || o.Omega > 1 {
		o.Omega = 0.55
	}
}

// Data holds global project data, mirroring inp.Data
type Data struct {
	Desc      string `json:"desc"`
	DirOut    string `json:"dirout"`
	Encoder   string `json:"encoder"`   // "gob" | "json"
	FlowUnits string `json:"flowunits"` // e.g. "CFS", used for hotstart header (§4.1) and results unit conversion
	AllowPond bool   `json:"allowpond"` // allow node ponding above fullDepth (§4.6.1)
	EvapFunc  string `json:"evapfunc"`  // name of function returning the evaporation rate, ft/sec; "" => no evaporation
}

// FlowUnitCode maps a flow-unit name to the integer code carried by the
// hotstart header and the results/runoff-interface prologues (§6)
func FlowUnitCode(units string) int {
	switch units {
	case "CFS", "":
		return 0
	case "GPM":
		return 1
	case "MGD":
		return 2
	case "CMS":
		return 3
	case "LPS":
		return 4
	case "MLD":
		return 5
	}
	return 0
}

// Project holds all catalogs and options read from a project JSON file
// (spec §3 "Catalogs"); created once at run open, read-only thereafter
// except for the per-object dynamic state fields embedded in the catalog
// entries themselves.
type Project struct {
	// input
	Data          Data                `json:"data"`
	Routing       RoutingData         `json:"routing"`
	Functions     FuncsData           `json:"functions"`
	Gages         []*RainGage         `json:"gages"`
	Pollutants    []*Pollutant        `json:"pollutants"`
	LandUses      []*LandUse          `json:"landuses"`
	Subcatchments []*SubcatchmentData `json:"subcatchments"`
	Nodes         []*NodeData         `json:"nodes"`
	Links         []*LinkData         `json:"links"`

	// derived
	Key     string // project key (filename without extension + optional alias)
	DirOut  string
	EncType string

	// resolved functions, built by PostProcess
	EvapFcn fun.Func // nil if Data.EvapFunc is empty

	// lookup maps, built by PostProcess
	GageByName map[string]*RainGage
	SubByName  map[string]*SubcatchmentData
	NodeByName map[string]*NodeData
	NodeIndex  map[string]int
	LinkByName map[string]*LinkData

	// sticky error sink (spec §7), shared by the runoff and routing engines
	Errors ErrorSink
}

// ReadProject reads a project JSON file, following the shape of inp.ReadSim
func ReadProject(path, alias string, createDirOut bool) *Project {
	var o Project
	o.Routing.SetDefault()

	b, err := io.ReadFile(path)
	if err != nil {
		chk.Panic("ReadProject: cannot read project file %q", path)
	}
	err = json.Unmarshal(b, &o)
	if err != nil {
		chk.Panic("ReadProject: cannot unmarshal project file %q:\n%v", path, err)
	}

	fn := filepath.Base(path)
	o.Key = io.FnKey(fn)
	if alias != "" {
		o.Key += "-" + alias
	}

	o.DirOut = o.Data.DirOut
	if o.DirOut == "" {
		o.DirOut = "/tmp/swmmgo/" + o.Key
	}
	o.EncType = o.Data.Encoder
	if o.EncType != "gob" && o.EncType != "json" {
		o.EncType = "gob"
	}
	if createDirOut {
		err = os.MkdirAll(o.DirOut, 0777)
		if err != nil {
			chk.Panic("cannot create output directory %q: %v", o.DirOut, err)
		}
	}

	o.Routing.PostProcess()
	o.PostProcess()
	return &o
}

// PostProcess resolves catalog-wide derived data and lookup maps, and runs
// network validation (spec §3 invariants)
func (o *Project) PostProcess() {
	// functions: resolve evaporation and gage rain/snow
	if o.Data.EvapFunc != "" {
		var err error
		o.EvapFcn, err = o.Functions.Get(o.Data.EvapFunc)
		if err != nil {
			chk.Panic("evaporation function: %v", err)
		}
	}
	o.GageByName = make(map[string]*RainGage)
	for _, g := range o.Gages {
		var err error
		g.Rain, err = o.Functions.Get(g.RainFunc)
		if err != nil {
			chk.Panic("gage %q: %v", g.Name, err)
		}
		if g.SnowFunc != "" {
			g.Snow, err = o.Functions.Get(g.SnowFunc)
			if err != nil {
				chk.Panic("gage %q: %v", g.Name, err)
			}
		}
		o.GageByName[g.Name] = g
	}

	// subcatchments
	o.SubByName = make(map[string]*SubcatchmentData)
	for _, s := range o.Subcatchments {
		s.PostProcess()
		o.SubByName[s.Name] = s
	}

	// nodes
	o.NodeByName = make(map[string]*NodeData)
	o.NodeIndex = make(map[string]int)
	for i, n := range o.Nodes {
		n.PostProcess()
		o.NodeByName[n.Name] = n
		o.NodeIndex[n.Name] = i
	}

	// links
	o.LinkByName = make(map[string]*LinkData)
	for _, l := range o.Links {
		l.PostProcess()
		o.LinkByName[l.Name] = l
	}

	if o.Routing.ModelVal != DynamicWave {
		o.validateNetwork()
	}
}

// validateNetwork enforces the §3 invariants required by the steady and
// kinematic routing models: the graph must be a tree (each non-outfall
// non-storage node has <=1 outgoing link; divider <=2; outfall 0),
// regulator links (orifice/weir/outlet) must originate only at storage
// nodes, non-dummy conduits must have non-negative slope, and at least one
// outfall must exist.
func (o *Project) validateNetwork() {
	outDegree := make(map[string]int)
	hasOutfall := false
	for _, n := range o.Nodes {
		if n.KindVal == Outfall {
			hasOutfall = true
		}
	}
	if !hasOutfall && len(o.Nodes) > 0 {
		o.Errors.SetError(ErrNoOutlets, "network has no outfall node")
		return
	}
	for _, l := range o.Links {
		n1, ok := o.NodeByName[l.Node1]
		if !ok {
			o.Errors.SetError(ErrOutfall, "link %q: unknown upstream node %q", l.Name, l.Node1)
			return
		}
		outDegree[l.Node1]++
		if l.KindVal.IsRegulator() && n1.KindVal != Storage {
			o.Errors.SetError(ErrRegulator, "link %q: regulator links must originate at a storage node", l.Name)
			return
		}
		if l.KindVal == Conduit && l.Length > 0 && l.Slope < 0 {
			o.Errors.SetError(ErrSlope, "link %q: non-dummy conduit has negative slope", l.Name)
			return
		}
	}
	for name, deg := range outDegree {
		n := o.NodeByName[name]
		if n == nil {
			continue
		}
		switch n.KindVal {
		case Outfall:
			o.Errors.SetError(ErrOutfall, "outfall node %q has outgoing links", name)
			return
		case Divider:
			if deg > 2 {
				o.Errors.SetError(ErrDivider, "divider node %q has more than 2 outgoing links", name)
				return
			}
		case Storage:
			// storage nodes are exempt from the single-outlet cap: they
			// may feed multiple regulator links (outlet/orifice/weir).
		default:
			if deg > 1 {
				o.Errors.SetError(ErrMultiOutlet, "node %q has more than one outgoing link", name)
				return
			}
		}
	}
}
