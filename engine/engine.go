// Package engine implements the streaming, non-recursive parsing engine:
// given a validated grammar and a byte source, it drives an explicit frame
// stack instead of host-language recursion and yields a stream of parse
// events as bytes become available.
package engine

import (
	"bufio"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dekarrin/ebnflow/event"
	"github.com/dekarrin/ebnflow/internal/diag"
	"github.com/dekarrin/ebnflow/ir"
	"github.com/dekarrin/ebnflow/span"
)

// DefaultMaxBufferSize is the default ceiling on the sliding window buffer,
// in bytes, before a slide is attempted.
const DefaultMaxBufferSize = 64 * 1024

// DefaultMinSlideSize is the default minimum number of consumed bytes the
// engine will drain in one slide. Sliding smaller amounts isn't worth the
// copy.
const DefaultMinSlideSize = 32 * 1024

// defaultChunkSize is how much is read from the source per underlying Read
// call when the buffer needs to grow.
const defaultChunkSize = 4096

// Options configures engine construction. New replaces any zero or
// negative size field with its default, so a zero value is accepted;
// NewOptions returns the defaults explicitly, and ebnfcfg.Options.ToEngine
// builds one from a config file.
type Options struct {
	MaxBufferSize int
	MinSlideSize  int
	ChunkSize     int
	Logger        *zerolog.Logger
}

// NewOptions returns the default Options.
func NewOptions() Options {
	return Options{
		MaxBufferSize: DefaultMaxBufferSize,
		MinSlideSize:  DefaultMinSlideSize,
		ChunkSize:     defaultChunkSize,
	}
}

// Engine drives one parse of one Source against one Grammar. It is not
// safe for concurrent use by multiple goroutines; each Engine is meant to
// be owned by the goroutine driving it.
type Engine struct {
	id      uuid.UUID
	grammar *ir.Grammar
	src     io.Reader
	opts    Options
	tracer  *diag.Tracer

	buf         []byte
	windowStart int
	pos         int
	eof         bool
	readErr     error

	tracker *span.LineColumnTracker

	frames  []frame
	staging [][]event.Event
	queue   []event.Event
	openRules []string
	failing bool
	done    bool

	lastFailure failureInfo
}

type failureInfo struct {
	message string
	position int
}

// New constructs an Engine that parses src against grammar starting from
// grammar's declared start rule. Callers should run Validate (or use a
// validate.Cache) on grammar before parsing; New does not re-validate.
func New(grammar *ir.Grammar, src io.Reader, opts ...Options) *Engine {
	o := NewOptions()
	if len(opts) > 0 {
		o = opts[0]
		if o.MaxBufferSize <= 0 {
			o.MaxBufferSize = DefaultMaxBufferSize
		}
		if o.MinSlideSize <= 0 {
			o.MinSlideSize = DefaultMinSlideSize
		}
		if o.ChunkSize <= 0 {
			o.ChunkSize = defaultChunkSize
		}
	}

	id := uuid.New()
	var tracer *diag.Tracer
	if o.Logger != nil {
		tracer = diag.New(*o.Logger, id)
	}

	e := &Engine{
		id:      id,
		grammar: grammar,
		src:     newDecodingReader(src),
		opts:    o,
		tracer:  tracer,
		tracker: span.NewLineColumnTracker(),
	}

	start, ok := grammar.StartRule()
	if !ok {
		e.queue = append(e.queue, event.Error{
			Message:  "grammar has no resolvable start rule",
			Position: 0,
		})
		e.done = true
		return e
	}
	e.pushProduction(ir.Ref{Name: start.Name})
	return e
}

// ID returns the engine's instance identifier, useful for correlating
// trace output from multiple engines parsing against a shared grammar.
func (e *Engine) ID() uuid.UUID {
	return e.id
}

// CurrentPosition returns the absolute byte offset of the next unconsumed
// byte.
func (e *Engine) CurrentPosition() int {
	return e.windowStart + e.pos
}

// LineColumn returns the 1-indexed line and column for an absolute byte
// offset already seen by the engine.
func (e *Engine) LineColumn(pos int) (line, column int) {
	return e.tracker.LineColumn(pos)
}

// NextEvent drives the engine until one event is ready for delivery, or
// the stream ends (io.EOF returned with a nil event). Once an Error event
// has been delivered, the stream is over; subsequent calls return io.EOF.
func (e *Engine) NextEvent() (event.Event, error) {
	if len(e.queue) == 0 {
		e.drive()
	}
	if len(e.queue) == 0 {
		return nil, io.EOF
	}
	ev := e.queue[0]
	e.queue = e.queue[1:]
	if _, isErr := ev.(event.Error); isErr {
		e.done = true
	}
	return ev, nil
}

// drive runs the frame stack until at least one event is queued or parsing
// has finished (successfully or not).
func (e *Engine) drive() {
	for len(e.queue) == 0 {
		if e.done {
			return
		}
		if len(e.frames) == 0 {
			e.done = true
			return
		}

		top := e.frames[len(e.frames)-1]
		e.frames = e.frames[:len(e.frames)-1]

		if e.failing {
			if acc, ok := top.(acceptor); ok {
				res := acc.onFailure(e)
				if res != stepFail {
					e.failing = false
				}
			}
			if e.failing && len(e.frames) == 0 {
				e.emitFatalError()
				e.done = true
				return
			}
			continue
		}

		res := top.step(e)
		if res == stepFail {
			e.failing = true
			if len(e.frames) == 0 {
				e.emitFatalError()
				e.done = true
				return
			}
		}
	}
}

func (e *Engine) emitFatalError() {
	msg := e.lastFailure.message
	if msg == "" {
		msg = "parse failed"
	}
	pos := e.lastFailure.position
	sp := e.tracker.SpanWithPosition(pos, pos)
	var ctx string
	if n := len(e.openRules); n > 0 {
		ctx = e.openRules[n-1]
	}
	if e.tracer != nil {
		e.tracer.FatalError(msg, pos)
	}
	e.queue = append(e.queue, event.Error{
		Message:     msg,
		Position:    pos,
		Span:        &sp,
		RuleContext: ctx,
	})
}

func (e *Engine) fail(message string) stepResult {
	e.lastFailure = failureInfo{message: message, position: e.CurrentPosition()}
	return stepFail
}

func (e *Engine) emit(ev event.Event) {
	if n := len(e.staging); n > 0 {
		e.staging[n-1] = append(e.staging[n-1], ev)
		return
	}
	e.queue = append(e.queue, ev)
}

func (e *Engine) pushStagingLevel() {
	e.staging = append(e.staging, nil)
}

func (e *Engine) commitStagingLevel() {
	n := len(e.staging)
	level := e.staging[n-1]
	e.staging = e.staging[:n-1]
	for _, ev := range level {
		e.emit(ev)
	}
}

func (e *Engine) discardStagingLevel() {
	e.staging = e.staging[:len(e.staging)-1]
}

// ensureBuffer guarantees the window has at least need unread bytes from
// pos, unless the source is exhausted first.
func (e *Engine) ensureBuffer(need int) {
	for len(e.buf)-e.pos < need && !e.eof {
		e.fillOnce()
	}
	e.maybeSlide()
}

func (e *Engine) fillOnce() {
	chunk := make([]byte, e.opts.ChunkSize)
	n, err := e.src.Read(chunk)
	if n > 0 {
		e.buf = append(e.buf, chunk[:n]...)
		e.tracker.Extend(chunk[:n])
	}
	if err != nil {
		e.eof = true
		if err != io.EOF {
			e.readErr = err
		}
	}
}

// maybeSlide drains bytes from the front of the window once it grows past
// MaxBufferSize, provided no live save point still needs them.
func (e *Engine) maybeSlide() {
	if len(e.buf) <= e.opts.MaxBufferSize {
		return
	}

	drainable := e.pos
	for _, sp := range e.openSavePositions() {
		rel := sp - e.windowStart
		if rel < drainable {
			drainable = rel
		}
	}
	if drainable < e.opts.MinSlideSize {
		return
	}

	e.buf = e.buf[drainable:]
	e.windowStart += drainable
	e.pos -= drainable

	for _, fr := range e.frames {
		switch v := fr.(type) {
		case *altFrame:
			v.savedPos -= drainable
		case *repeatPostFrame:
			v.savedPos -= drainable
		}
	}

	if e.tracer != nil {
		e.tracer.Slide(drainable, e.windowStart)
	}
}

func (e *Engine) openSavePositions() []int {
	var out []int
	for _, fr := range e.frames {
		switch v := fr.(type) {
		case *altFrame:
			out = append(out, v.savedPos)
		case *repeatPostFrame:
			out = append(out, v.savedPos)
		}
	}
	return out
}

// newDecodingReader wraps src so malformed UTF-8 is replaced with U+FFFD
// before it ever reaches the window buffer, keeping every subsequent rune
// decode in the engine infallible.
func newDecodingReader(src io.Reader) io.Reader {
	return bufio.NewReaderSize(newSanitizingReader(src), defaultChunkSize)
}
