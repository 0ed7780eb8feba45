package validator

import (
	"grunt/grunt"

	"github.com/rs/zerolog"
)

// ZerologSink adapts a Grunt EventSink onto a zerolog.Logger, the shape
// the host event reporter ultimately wants: one structured log record
// per FLUSH, carrying the numeric event ID and severity as fields and
// the rendered line as the message.
type ZerologSink struct {
	log zerolog.Logger
}

// NewZerologSink wraps log for use as a grunt.EventSink.
func NewZerologSink(log zerolog.Logger) *ZerologSink {
	return &ZerologSink{log: log}
}

// Emit implements grunt.EventSink. VALIDATION_INFO's declared severity
// routes to Info; every defined error event routes to Error.
func (s *ZerologSink) Emit(severity, eventID uint32, line string) {
	var ev *zerolog.Event
	if severity == SeverityInformation {
		ev = s.log.Info()
	} else {
		ev = s.log.Error()
	}
	ev.Uint32("event_id", eventID).Uint32("severity", severity).Msg(line)
}

var _ grunt.EventSink = (*ZerologSink)(nil)

// RecordedEvent is one captured (event_id, severity, line) triple, used
// by RecordingSink for assertions in tests and by callers that want the
// raw event stream rather than a logger.
type RecordedEvent struct {
	Severity uint32
	EventID  uint32
	Line     string
}

// RecordingSink accumulates every emitted event in order. It implements
// grunt.EventSink directly so it can also stand in for a ZerologSink in
// tests that only care about the emitted sequence.
type RecordingSink struct {
	Events []RecordedEvent
}

func (s *RecordingSink) Emit(severity, eventID uint32, line string) {
	s.Events = append(s.Events, RecordedEvent{Severity: severity, EventID: eventID, Line: line})
}

var _ grunt.EventSink = (*RecordingSink)(nil)
