package engine

import (
	"fmt"
	"unicode/utf8"

	"github.com/dekarrin/ebnflow/event"
	"github.com/dekarrin/ebnflow/ir"
)

// stepResult is the outcome of stepping one frame.
type stepResult int

const (
	// stepMore means the frame pushed further frames; keep driving.
	stepMore stepResult = iota
	// stepDone means the frame completed successfully and should be
	// popped; execution continues with whatever is now on top.
	stepDone
	// stepFail means the frame failed; the engine enters or continues
	// failure propagation.
	stepFail
)

// frame is one unit of the explicit parse stack. step is called when the
// frame is popped and the engine is not currently propagating a failure.
type frame interface {
	step(e *Engine) stepResult
}

// acceptor is implemented by frame kinds that can absorb a failure
// propagated up from a descendant: Alt (another alternative remains) and
// Repeat (its minimum has already been satisfied).
type acceptor interface {
	onFailure(e *Engine) stepResult
}

// pushProduction pushes the frame(s) needed to begin matching p, such that
// the top of the stack is whatever should run first.
func (e *Engine) pushProduction(p ir.Production) {
	switch v := p.(type) {
	case ir.Sequence:
		if len(v.Items) == 0 {
			return
		}
		e.frames = append(e.frames, &seqFrame{items: v.Items, idx: 1})
		e.pushProduction(v.Items[0])

	case ir.Alternation:
		if len(v.Items) == 0 {
			e.frames = append(e.frames, failFrame{reason: "alternation has no alternatives"})
			return
		}
		savedPos := e.CurrentPosition()
		openLen := len(e.openRules)
		e.pushStagingLevel()
		e.frames = append(e.frames, &altFrame{
			items:        v.Items,
			idx:          1,
			savedPos:     savedPos,
			openRulesLen: openLen,
		})
		e.pushProduction(v.Items[0])

	case ir.Group:
		e.pushProduction(v.Inner)

	case ir.Repeat:
		e.frames = append(e.frames, &repeatTryFrame{item: v.Item, quant: v.Quant, count: 0})

	case ir.Terminal:
		e.frames = append(e.frames, &terminalFrame{kind: v.Kind})

	case ir.Class:
		e.frames = append(e.frames, &classFrame{class: v.CharClass})

	case ir.Ref:
		e.frames = append(e.frames, &refFrame{name: v.Name, stage: refStageStart})

	default:
		e.frames = append(e.frames, failFrame{reason: fmt.Sprintf("unsupported production %T", p)})
	}
}

// failFrame fails unconditionally. Used for pathological, ill-formed
// productions (an empty alternation, an unknown production type), which
// the validator does not reject and which would otherwise panic the frame
// stack.
type failFrame struct {
	reason string
}

func (f failFrame) step(e *Engine) stepResult {
	return e.fail(f.reason)
}

// seqFrame drives a Sequence through its items in order. It is never an
// acceptor: if an item fails, the failure propagates to whatever enclosing
// Alt or Repeat saved a position before this sequence began.
type seqFrame struct {
	items []ir.Production
	idx   int
}

func (s *seqFrame) step(e *Engine) stepResult {
	if s.idx >= len(s.items) {
		return stepDone
	}
	next := s.idx
	e.frames = append(e.frames, &seqFrame{items: s.items, idx: next + 1})
	e.pushProduction(s.items[next])
	return stepMore
}

// altFrame is the choice point for an Alternation. Reached via a normal
// step (the chosen alternative succeeded), it commits. Reached via
// onFailure (the chosen alternative failed), it restores the saved
// position and tries the next alternative, failing only once every
// alternative has been exhausted.
type altFrame struct {
	items        []ir.Production
	idx          int
	savedPos     int
	openRulesLen int
}

func (a *altFrame) step(e *Engine) stepResult {
	e.commitStagingLevel()
	return stepDone
}

func (a *altFrame) onFailure(e *Engine) stepResult {
	e.discardStagingLevel()
	e.restoreTo(a.savedPos, a.openRulesLen, "alt")

	if a.idx >= len(a.items) {
		return e.fail("no alternative matched")
	}

	next := a.items[a.idx]
	e.pushStagingLevel()
	e.frames = append(e.frames, &altFrame{
		items:        a.items,
		idx:          a.idx + 1,
		savedPos:     a.savedPos,
		openRulesLen: a.openRulesLen,
	})
	e.pushProduction(next)
	return stepMore
}

// repeatTryFrame begins one iteration attempt of a Repeat. It is never an
// acceptor itself; repeatPostFrame (pushed right after) handles both the
// success and failure outcomes of the attempt.
type repeatTryFrame struct {
	item  ir.Production
	quant ir.RepeatQuant
	count int
}

func (r *repeatTryFrame) step(e *Engine) stepResult {
	if r.quant.Max != nil && r.count >= *r.quant.Max {
		return stepDone
	}

	savedPos := e.CurrentPosition()
	openLen := len(e.openRules)
	e.pushStagingLevel()
	e.frames = append(e.frames, &repeatPostFrame{
		item:         r.item,
		quant:        r.quant,
		count:        r.count,
		savedPos:     savedPos,
		openRulesLen: openLen,
	})
	e.pushProduction(r.item)
	return stepMore
}

// repeatPostFrame evaluates the outcome of one Repeat iteration attempt.
type repeatPostFrame struct {
	item         ir.Production
	quant        ir.RepeatQuant
	count        int
	savedPos     int
	openRulesLen int
}

func (r *repeatPostFrame) step(e *Engine) stepResult {
	e.commitStagingLevel()

	if e.CurrentPosition() != r.savedPos {
		e.frames = append(e.frames, &repeatTryFrame{item: r.item, quant: r.quant, count: r.count + 1})
		return stepMore
	}

	if r.count >= r.quant.Min {
		return stepDone
	}
	return e.fail("repeat did not reach its minimum count")
}

func (r *repeatPostFrame) onFailure(e *Engine) stepResult {
	e.discardStagingLevel()
	e.restoreTo(r.savedPos, r.openRulesLen, "repeat")

	if r.count >= r.quant.Min {
		return stepDone
	}
	return e.fail("repeat did not reach its minimum count")
}

func (e *Engine) restoreTo(pos, openRulesLen int, kind string) {
	e.pos = pos - e.windowStart
	e.openRules = e.openRules[:openRulesLen]
	if e.tracer != nil {
		e.tracer.Backtrack(kind, pos)
	}
}

// refStage tracks a refFrame's progress through Start -> Parsing -> End.
type refStage int

const (
	refStageStart refStage = iota
	refStageParsing
	refStageEnd
)

// refFrame emits the Start/End bracketing events for a rule reference,
// driving the referenced rule's production in between.
type refFrame struct {
	name  string
	stage refStage
}

func (r *refFrame) step(e *Engine) stepResult {
	switch r.stage {
	case refStageStart:
		rule, ok := e.grammar.GetRule(r.name)
		if !ok {
			return e.fail(fmt.Sprintf("undefined rule %q", r.name))
		}
		e.openRules = append(e.openRules, r.name)
		e.emit(event.Start{Rule: r.name})
		e.frames = append(e.frames, &refFrame{name: r.name, stage: refStageParsing})
		e.pushProduction(rule.Production)
		return stepMore

	case refStageParsing:
		e.frames = append(e.frames, &refFrame{name: r.name, stage: refStageEnd})
		return stepMore

	case refStageEnd:
		e.emit(event.End{Rule: r.name})
		if n := len(e.openRules); n > 0 {
			e.openRules = e.openRules[:n-1]
		}
		return stepDone
	}
	return e.fail("unreachable ref stage")
}

// terminalFrame matches a single Terminal (a char or string literal).
type terminalFrame struct {
	kind ir.TerminalKind
}

func (t *terminalFrame) step(e *Engine) stepResult {
	switch k := t.kind.(type) {
	case ir.CharLiteral:
		e.ensureBuffer(utf8.UTFMax)
		r, size := e.decodeRune()
		if size == 0 {
			return e.fail(fmt.Sprintf("expected %q, got end of input", rune(k)))
		}
		if r != rune(k) {
			return e.fail(fmt.Sprintf("expected %q, got %q", rune(k), r))
		}
		start := e.CurrentPosition()
		e.pos += size
		e.emit(event.Token{Kind: event.CharKind(r), Span: e.tracker.SpanWithPosition(start, start+size)})
		return stepDone

	case ir.StrLiteral:
		want := []byte(string(k))
		e.ensureBuffer(len(want))
		if len(e.buf)-e.pos < len(want) {
			return e.fail(fmt.Sprintf("expected %q, got end of input", string(k)))
		}
		got := e.buf[e.pos : e.pos+len(want)]
		for i := range want {
			if got[i] != want[i] {
				return e.fail(fmt.Sprintf("expected %q", string(k)))
			}
		}
		start := e.CurrentPosition()
		e.pos += len(want)
		e.emit(event.Token{Kind: event.StrKind(string(k)), Span: e.tracker.SpanWithPosition(start, start+len(want))})
		return stepDone
	}
	return e.fail("unsupported terminal kind")
}

// classFrame matches a single character against a CharClass.
type classFrame struct {
	class ir.CharClass
}

func (c *classFrame) step(e *Engine) stepResult {
	e.ensureBuffer(utf8.UTFMax)
	r, size := e.decodeRune()
	if size == 0 {
		return e.fail("expected character class match, got end of input")
	}
	if !c.class.Matches(r) {
		return e.fail(fmt.Sprintf("character %q does not match expected class", r))
	}
	start := e.CurrentPosition()
	e.pos += size
	e.emit(event.Token{Kind: event.ClassKind(r), Span: e.tracker.SpanWithPosition(start, start+size)})
	return stepDone
}

// decodeRune reads the next rune at pos without consuming it. A zero size
// return means end of input; the sanitizing reader guarantees size > 0
// otherwise (malformed bytes were already replaced with U+FFFD upstream).
func (e *Engine) decodeRune() (rune, int) {
	if e.pos >= len(e.buf) {
		return 0, 0
	}
	r, size := utf8.DecodeRune(e.buf[e.pos:])
	return r, size
}
