package interceptor

import (
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/diode"
)

// Sink receives log lines. Implementations must not block the caller for long
// and must not report failures back into the call path.
type Sink interface {
	Log(source string, timestamp bool, line string)
}

// ZerologSink writes lines as zerolog info events with a "source" field.
type ZerologSink struct {
	plain   zerolog.Logger
	stamped zerolog.Logger
}

// NewZerologSink builds a sink on logger. logger should not already add a
// timestamp; the sink adds one per line when asked to.
func NewZerologSink(logger zerolog.Logger) *ZerologSink {
	return &ZerologSink{
		plain:   logger,
		stamped: logger.With().Timestamp().Logger(),
	}
}

func (s *ZerologSink) Log(source string, timestamp bool, line string) {
	l := &s.plain
	if timestamp {
		l = &s.stamped
	}
	l.Info().Str("source", source).Msg(line)
}

// DefaultBufferSize is used by NewNonBlockingWriter when size is below 1.
const DefaultBufferSize = 1000

// NewNonBlockingWriter wraps w in a ring buffer of size entries drained by a
// background poller. Writes never block; entries overflowing the buffer are
// dropped and reported to onDrop.
func NewNonBlockingWriter(w io.Writer, size int, onDrop func(missed int)) diode.Writer {
	if size < 1 {
		size = DefaultBufferSize
	}
	if onDrop == nil {
		onDrop = func(int) {}
	}
	return diode.NewWriter(w, size, 10*time.Millisecond, onDrop)
}
