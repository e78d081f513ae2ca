// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the catalog data read from a project JSON file,
// plus the sticky error/warning sink shared by the runoff and routing
// engines.
package inp

import "github.com/cpmech/gosl/io"

// ErrorCode identifies a sticky, project-wide fatal condition (spec §6/§7).
type ErrorCode int

// error codes relevant to the hydrology/hydraulics core
const (
	ErrNone ErrorCode = iota
	ErrHotstartFileOpen
	ErrHotstartFileFormat
	ErrHotstartFileRead
	ErrOutWrite
	ErrOutFile
	ErrFileSize
	ErrMemory
	ErrOdeSolver
	ErrRunoffFileOpen
	ErrRunoffFileFormat
	ErrRunoffFileEnd
	ErrRunoffFileRead
	ErrTimestep
	ErrDivider
	ErrOutfall
	ErrMultiOutlet
	ErrDummyLink
	ErrNoOutlets
	ErrSlope
	ErrRegulator
)

var errNames = map[ErrorCode]string{
	ErrNone:               "NONE",
	ErrHotstartFileOpen:   "HOTSTART_FILE_OPEN",
	ErrHotstartFileFormat: "HOTSTART_FILE_FORMAT",
	ErrHotstartFileRead:   "HOTSTART_FILE_READ",
	ErrOutWrite:           "OUT_WRITE",
	ErrOutFile:            "OUT_FILE",
	ErrFileSize:           "FILE_SIZE",
	ErrMemory:             "MEMORY",
	ErrOdeSolver:          "ODE_SOLVER",
	ErrRunoffFileOpen:     "RUNOFF_FILE_OPEN",
	ErrRunoffFileFormat:   "RUNOFF_FILE_FORMAT",
	ErrRunoffFileEnd:      "RUNOFF_FILE_END",
	ErrRunoffFileRead:     "RUNOFF_FILE_READ",
	ErrTimestep:           "TIMESTEP",
	ErrDivider:            "DIVIDER",
	ErrOutfall:            "OUTFALL",
	ErrMultiOutlet:        "MULTI_OUTLET",
	ErrDummyLink:          "DUMMY_LINK",
	ErrNoOutlets:          "NO_OUTLETS",
	ErrSlope:              "SLOPE",
	ErrRegulator:          "REGULATOR",
}

// String implements fmt.Stringer
func (e ErrorCode) String() string {
	if s, ok := errNames[e]; ok {
		return s
	}
	return "UNKNOWN"
}

// ErrorSink is the project-wide sticky error/warning accumulator (spec §7).
// It is threaded by reference through every core operation; once Code is
// non-zero, callers must short-circuit remaining work in the current step.
//
//  propagation policy (spec §7):
//   - validation errors surface at open and prevent entry into the loop
//   - I/O errors abort the current operation and set a sticky code
//   - numerical errors (non-convergence) proceed with the last iterate;
//     ODE failure aborts the step
//   - resource errors (memory, file-size cap) are fatal
type ErrorSink struct {
	Code     ErrorCode // sticky error code; zero means no error
	Message  string    // message associated with Code
	Warnings int       // warnings never set Code
}

// SetError records a fatal error; first error wins (sticky)
func (o *ErrorSink) SetError(code ErrorCode, format string, args ...interface{}) {
	if o.Code != ErrNone {
		return
	}
	o.Code = code
	o.Message = io.Sf(format, args...)
}

// Warn increments the warning counter and prints the message; warnings
// never set Code
func (o *ErrorSink) Warn(format string, args ...interface{}) {
	o.Warnings++
	io.Pfyel("WARNING: "+format+"\n", args...)
}

// HasError returns true if a sticky error code has been set
func (o *ErrorSink) HasError() bool {
	return o.Code != ErrNone
}

// Clear resets the sink; used by tests only
func (o *ErrorSink) Clear() {
	o.Code = ErrNone
	o.Message = ""
	o.Warnings = 0
}
