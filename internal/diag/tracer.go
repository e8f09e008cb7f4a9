// Package diag wraps zerolog for opt-in, structured tracing of engine
// internals (buffer slides, backtrack restores, the final parse error). A
// nil *Tracer (the default) is a silent no-op, matching the "no logging by
// default" posture the core library is held to (see SPEC_FULL.md §8).
package diag

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Tracer emits structured trace- and debug-level log lines tagged with an
// engine instance ID, for correlating concurrent engines sharing one
// grammar.
type Tracer struct {
	logger zerolog.Logger
	id     uuid.UUID
}

// New returns a Tracer that writes to logger, tagging every line with id.
func New(logger zerolog.Logger, id uuid.UUID) *Tracer {
	return &Tracer{logger: logger.With().Str("engine_id", id.String()).Logger(), id: id}
}

// Slide logs a sliding-window buffer drain.
func (t *Tracer) Slide(drained, newWindowStart int) {
	if t == nil {
		return
	}
	t.logger.Trace().
		Int("drained_bytes", drained).
		Int("window_start", newWindowStart).
		Msg("buffer slide")
}

// Backtrack logs a restore to a save point.
func (t *Tracer) Backtrack(kind string, toPos int) {
	if t == nil {
		return
	}
	t.logger.Trace().
		Str("frame_kind", kind).
		Int("restored_pos", toPos).
		Msg("backtrack")
}

// FatalError logs the terminal parse error before it is emitted as an
// event.
func (t *Tracer) FatalError(message string, position int) {
	if t == nil {
		return
	}
	t.logger.Debug().
		Str("message", message).
		Int("position", position).
		Msg("parse failed")
}
