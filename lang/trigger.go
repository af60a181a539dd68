package lang

import (
	"github.com/chaossafti/skript-parser/file"
	sklog "github.com/chaossafti/skript-parser/log"
)

// SkriptEvent is the parsed header of a trigger: it decides when the
// trigger runs and with which priority its body is loaded.
type SkriptEvent interface {
	SyntaxElement
	// LoadingPriority orders trigger bodies within a script; higher loads
	// first.
	LoadingPriority() int
	// Check filters contexts at dispatch time.
	Check(ctx TriggerContext) bool
	// Register attaches the finished trigger to the event bus.
	Register(t *Trigger, mgr *EventManager)
}

// Trigger is a top-level script block: one event plus the statement chain
// executed when the event fires.
type Trigger struct {
	event SkriptEvent
	first Statement
}

// NewTrigger wraps an event; the body is attached by LoadSection during
// finalization.
func NewTrigger(event SkriptEvent) *Trigger {
	return &Trigger{event: event}
}

// Event returns the event this trigger is bound to.
func (t *Trigger) Event() SkriptEvent { return t.event }

// First returns the head of the statement chain.
func (t *Trigger) First() Statement { return t.first }

// LoadSection parses the trigger body.
func (t *Trigger) LoadSection(loader ItemLoader, sec *file.Section, state *ParserState, logger *sklog.SkriptLogger) {
	items := loader.LoadItems(sec, state, logger)
	if len(items) > 0 {
		t.first = items[0]
	}
}

// Execute runs the statement chain if the event accepts the context.
func (t *Trigger) Execute(ctx TriggerContext) {
	if !t.event.Check(ctx) {
		return
	}
	RunAll(t.first, ctx)
}

// OnUnload releases whatever the event and statements hold.
func (t *Trigger) OnUnload() {
	if u, ok := t.event.(Unloadable); ok {
		u.OnUnload()
	}
	for s := t.first; s != nil; s = s.Next() {
		if u, ok := s.(Unloadable); ok {
			u.OnUnload()
		}
	}
}

// ToString renders the trigger header.
func (t *Trigger) ToString(ctx TriggerContext, debug bool) string {
	return t.event.ToString(ctx, debug)
}
