package validator

import (
	"fmt"

	"grunt/grunt"

	"github.com/google/uuid"
)

// PerfMonitor is the abstract performance-logging collaborator the shim
// brackets each run with, mirroring the host flight-software pattern of
// CFE_ES_PerfLogEntry/CFE_ES_PerfLogExit around a table validation
// function. A deployment wires this to the real performance log; tests
// may pass a no-op.
type PerfMonitor interface {
	Enter(id uint32)
	Exit(id uint32)
}

// NoopPerfMonitor discards every call; it is the default when a caller
// has no performance log to report into.
type NoopPerfMonitor struct{}

func (NoopPerfMonitor) Enter(uint32) {}
func (NoopPerfMonitor) Exit(uint32)  {}

// PerfID is the performance-log ID this validator reports entry and exit
// under. Real deployments assign one per app; this package has exactly
// one validation function, so one constant suffices.
const PerfID uint32 = 1

// Validator wires the assembled Grunt program to a TableRegistry and an
// EventSink, playing the role the spec calls the "integration shim": it
// fetches the image, drives the run loop, and translates HaltTrue/
// HaltFalse (or any fault) into the host's success/invalid verdict.
type Validator struct {
	program  []grunt.Instruction
	registry TableRegistry
	sink     grunt.EventSink
	perf     PerfMonitor
}

// NewValidator assembles the table-validation program once and returns a
// Validator ready to check images registered with registry, delivering
// events to sink.
func NewValidator(registry TableRegistry, sink grunt.EventSink) (*Validator, error) {
	program, err := Program()
	if err != nil {
		return nil, fmt.Errorf("validator: assembling program: %w", err)
	}
	return &Validator{
		program:  program,
		registry: registry,
		sink:     sink,
		perf:     NoopPerfMonitor{},
	}, nil
}

// WithPerfMonitor replaces the no-op performance monitor with mon.
func (v *Validator) WithPerfMonitor(mon PerfMonitor) *Validator {
	v.perf = mon
	return v
}

// Validate fetches the image registered under handle and runs the
// validator program against it, returning whether the table is valid.
// A fault status (anything other than HaltTrue/HaltFalse) is reported as
// an invalid table, the same translation the host table service applies
// to any non-CFE_SUCCESS return from a validation function.
func (v *Validator) Validate(handle uuid.UUID) (bool, grunt.Status, error) {
	image, err := v.registry.Load(handle)
	if err != nil {
		return false, grunt.NoProgram, err
	}

	v.perf.Enter(PerfID)
	status := grunt.Run(v.program, image.Bytes, tableStrings, v.sink)
	v.perf.Exit(PerfID)

	return status == grunt.HaltTrue, status, nil
}

// ValidateBytes runs the validator program directly against image
// without going through a TableRegistry, for callers (tests, the CLI)
// that already hold the table bytes in hand.
func (v *Validator) ValidateBytes(image []byte) (bool, grunt.Status) {
	v.perf.Enter(PerfID)
	status := grunt.Run(v.program, image, tableStrings, v.sink)
	v.perf.Exit(PerfID)
	return status == grunt.HaltTrue, status
}
