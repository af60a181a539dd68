package lang

import (
	"reflect"
	"testing"
)

// countEffect counts its executions.
type countEffect struct {
	BaseStatement
	runs *int
}

func (e *countEffect) Init([]Expression, int, *ParseContext) bool { return true }
func (e *countEffect) Execute(TriggerContext)                     { *e.runs++ }
func (e *countEffect) Walk(ctx TriggerContext) Statement {
	e.Execute(ctx)
	return e.WalkNext()
}
func (e *countEffect) ToString(TriggerContext, bool) string { return "count" }

func linkChain(stmts ...Statement) Statement {
	for i := 0; i+1 < len(stmts); i++ {
		stmts[i].SetNext(stmts[i+1])
	}
	return stmts[0]
}

func TestRunAllWalksChain(t *testing.T) {
	runs := 0
	first := linkChain(&countEffect{runs: &runs}, &countEffect{runs: &runs}, &countEffect{runs: &runs})
	RunAll(first, DummyContext{})
	if runs != 3 {
		t.Errorf("runs = %d, want 3", runs)
	}
}

func TestInlineConditionStopsChain(t *testing.T) {
	runs := 0
	boolType := reflect.TypeOf(true)

	guardTrue := NewInlineCondition(NewSimpleLiteral(boolType, true))
	RunAll(linkChain(guardTrue, &countEffect{runs: &runs}), DummyContext{})
	if runs != 1 {
		t.Errorf("runs after passing guard = %d, want 1", runs)
	}

	runs = 0
	guardFalse := NewInlineCondition(NewSimpleLiteral(boolType, false))
	RunAll(linkChain(guardFalse, &countEffect{runs: &runs}), DummyContext{})
	if runs != 0 {
		t.Errorf("runs after failing guard = %d, want 0", runs)
	}
}

func TestConditionalWalk(t *testing.T) {
	boolType := reflect.TypeOf(true)
	thenRuns, elseRuns, afterRuns := 0, 0, 0

	build := func(cond bool) *Conditional {
		c := &Conditional{mode: ConditionalIf, condition: NewSimpleLiteral(boolType, cond)}
		c.items = []Statement{&countEffect{runs: &thenRuns}}
		c.first = c.items[0]
		e := &Conditional{mode: ConditionalElse}
		e.items = []Statement{&countEffect{runs: &elseRuns}}
		e.first = e.items[0]
		c.SetFallingClause(e)
		return c
	}

	head := build(true)
	head.SetNext(&countEffect{runs: &afterRuns})
	RunAll(head, DummyContext{})
	if thenRuns != 1 || elseRuns != 0 || afterRuns != 1 {
		t.Errorf("true branch: then=%d else=%d after=%d", thenRuns, elseRuns, afterRuns)
	}

	thenRuns, elseRuns, afterRuns = 0, 0, 0
	head = build(false)
	head.SetNext(&countEffect{runs: &afterRuns})
	RunAll(head, DummyContext{})
	if thenRuns != 0 || elseRuns != 1 || afterRuns != 1 {
		t.Errorf("false branch: then=%d else=%d after=%d", thenRuns, elseRuns, afterRuns)
	}
}

func TestSetFallingClauseAppendsToTail(t *testing.T) {
	head := &Conditional{mode: ConditionalIf}
	elseIf := &Conditional{mode: ConditionalElseIf}
	final := &Conditional{mode: ConditionalElse}
	head.SetFallingClause(elseIf)
	head.SetFallingClause(final)
	if head.FallingClause() != elseIf {
		t.Fatal("first falling clause displaced")
	}
	if elseIf.FallingClause() != final {
		t.Fatal("second falling clause not appended to the tail")
	}
}

func TestLiteralLists(t *testing.T) {
	intType := reflect.TypeOf(0)
	list := NewLiteralList([]Literal{
		NewSimpleLiteral(intType, 1),
		NewSimpleLiteral(intType, 2, 3),
	}, intType, true)

	if list.IsSingle() {
		t.Error("a list is never single")
	}
	vals := list.GetValues(DummyContext{})
	if len(vals) != 3 {
		t.Errorf("GetValues returned %d values, want 3", len(vals))
	}
	if !list.IsAndList() {
		t.Error("and flag lost")
	}
}

func TestSimpleLiteralSingleInvariant(t *testing.T) {
	intType := reflect.TypeOf(0)
	single := NewSimpleLiteral(intType, 7)
	if !single.IsSingle() {
		t.Error("one value must be single")
	}
	if vals := single.GetValues(DummyContext{}); len(vals) != 1 {
		t.Errorf("single literal returned %d values", len(vals))
	}
	multi := NewSimpleLiteral(intType, 7, 8)
	if multi.IsSingle() {
		t.Error("two values must not be single")
	}
}

func TestVariableStringSimple(t *testing.T) {
	vs := NewVariableString("hello ", "world")
	if !vs.IsSimple() {
		t.Error("string-only parts must be simple")
	}
	if got := vs.Value(DummyContext{}); got != "hello world" {
		t.Errorf("Value = %q", got)
	}

	embedded := NewVariableString("x is ", NewSimpleLiteral(reflect.TypeOf(0), 5))
	if embedded.IsSimple() {
		t.Error("embedded expressions must not be simple")
	}
	if got := embedded.Value(DummyContext{}); got != "x is 5" {
		t.Errorf("Value = %q", got)
	}
}

func TestParserStateRestrictions(t *testing.T) {
	state := NewParserState()
	effType := reflect.TypeOf((*countEffect)(nil))
	otherType := reflect.TypeOf((*InlineCondition)(nil))

	if state.ForbidsSyntax(effType) {
		t.Error("unrestricted state forbids nothing")
	}

	state.SetSyntaxRestrictions(false, false, effType)
	if !state.ForbidsSyntax(effType) {
		t.Error("blacklisted type not forbidden")
	}
	if state.ForbidsSyntax(otherType) {
		t.Error("unlisted type forbidden by blacklist")
	}

	state.SetSyntaxRestrictions(true, true, effType)
	if state.ForbidsSyntax(effType) {
		t.Error("whitelisted type forbidden")
	}
	if !state.ForbidsSyntax(otherType) {
		t.Error("unlisted type allowed by whitelist")
	}
	if !state.RestrictingExpressions() {
		t.Error("expression restriction flag lost")
	}

	state.ClearSyntaxRestrictions()
	if state.ForbidsSyntax(otherType) {
		t.Error("popping must restore the outer frame")
	}
	state.ClearSyntaxRestrictions()
	if state.ForbidsSyntax(effType) {
		t.Error("empty stack forbids nothing")
	}
}

func TestEventManagerDispatch(t *testing.T) {
	mgr := NewEventManager()
	runs := 0
	trigger := NewTrigger(&alwaysEvent{})
	trigger.first = &countEffect{runs: &runs}

	h := mgr.RegisterTrigger("demo", trigger)
	mgr.CallEvent("demo", DummyContext{})
	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}

	mgr.RemoveHandler("demo", h)
	mgr.CallEvent("demo", DummyContext{})
	if runs != 1 {
		t.Errorf("runs after removal = %d, want 1", runs)
	}
}

type alwaysEvent struct{}

func (alwaysEvent) Init([]Expression, int, *ParseContext) bool { return true }
func (alwaysEvent) LoadingPriority() int                       { return 0 }
func (alwaysEvent) Check(TriggerContext) bool                  { return true }
func (alwaysEvent) Register(*Trigger, *EventManager)           {}
func (alwaysEvent) ToString(TriggerContext, bool) string       { return "always" }
