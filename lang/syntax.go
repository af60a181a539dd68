// Package lang defines the object model scripts are compiled into: the
// capability interfaces for syntax elements, the core expression variants,
// statements and their chaining, triggers, events and parser state.
package lang

import (
	"reflect"

	"github.com/chaossafti/skript-parser/file"
	sklog "github.com/chaossafti/skript-parser/log"
)

// RegexResult is one regex group's match inside a pattern.
type RegexResult struct {
	Match  string
	Groups []string
}

// ParseContext carries everything a syntax element may inspect in Init
// besides the captured expressions.
type ParseContext struct {
	State     *ParserState
	Matches   []RegexResult
	ParseMark int
	Source    string
	Logger    *sklog.SkriptLogger
}

// SyntaxElement is the capability every parsed element shares.
type SyntaxElement interface {
	// Init binds the element to its captured expressions. matchedPattern is
	// the index of the pattern that matched. Returning false rejects the
	// binding and the dispatcher tries the next pattern.
	Init(expressions []Expression, matchedPattern int, parseCtx *ParseContext) bool
	// ToString renders the element; with debug, in a form that exposes
	// parse-time detail.
	ToString(ctx TriggerContext, debug bool) string
}

// Unloadable is implemented by elements that hold resources to release when
// their script unloads.
type Unloadable interface {
	OnUnload()
}

// Expression is a value producer evaluated against a trigger context.
// If IsSingle is true, GetValues returns at most one element.
type Expression interface {
	SyntaxElement
	GetValues(ctx TriggerContext) []any
	IsSingle() bool
	ReturnType() reflect.Type
	// ConvertedExpression returns a view of this expression with the given
	// return type, or false if the element has no own conversion. The
	// dispatcher falls back to the converter graph.
	ConvertedExpression(to reflect.Type) (Expression, bool)
}

// GetSingle evaluates a single-valued expression.
func GetSingle(e Expression, ctx TriggerContext) (any, bool) {
	vs := e.GetValues(ctx)
	if len(vs) == 0 {
		return nil, false
	}
	return vs[0], true
}

// Literal is an expression whose values are fixed at parse time.
type Literal interface {
	Expression
	LiteralValues() []any
}

// IsLiteral reports whether an expression is a parse-time literal.
func IsLiteral(e Expression) bool {
	_, ok := e.(Literal)
	return ok
}

// ConditionalExpression marks boolean expressions that may serve as
// conditions. The dispatcher uses the marker to enforce conditional modes.
type ConditionalExpression interface {
	Expression
	ConditionalMarker()
}

// Statement is a node in a trigger's executable chain.
type Statement interface {
	SyntaxElement
	// Walk runs the statement and returns the next one to run, or nil when
	// the chain ends here.
	Walk(ctx TriggerContext) Statement
	Next() Statement
	SetNext(s Statement)
}

// Effect is a statement with no return value.
type Effect interface {
	Statement
	Execute(ctx TriggerContext)
}

// CodeSection is a statement that owns a block of child statements.
type CodeSection interface {
	Statement
	// LoadSection parses the section body. The loader is the engine handle
	// performing the recursion.
	LoadSection(loader ItemLoader, sec *file.Section, state *ParserState, logger *sklog.SkriptLogger) bool
	First() Statement
}

// ItemLoader parses a section body into linked statements. Implemented by
// the syntax parser; passed in to keep sections free of engine state.
type ItemLoader interface {
	LoadItems(sec *file.Section, state *ParserState, logger *sklog.SkriptLogger) []Statement
}

// RunAll walks a statement chain to completion.
func RunAll(start Statement, ctx TriggerContext) {
	for s := start; s != nil; {
		s = s.Walk(ctx)
	}
}

// BaseStatement provides the chain plumbing of a Statement. Embed it and
// implement Walk (or Execute via BaseEffect).
type BaseStatement struct {
	next Statement
}

func (b *BaseStatement) Next() Statement     { return b.next }
func (b *BaseStatement) SetNext(s Statement) { b.next = s }

// WalkNext is the Walk tail for plain statements.
func (b *BaseStatement) WalkNext() Statement { return b.next }

// BaseSection provides child storage for a CodeSection. The default
// LoadSection simply parses and links the body.
type BaseSection struct {
	BaseStatement
	first Statement
	items []Statement
}

func (b *BaseSection) First() Statement { return b.first }

// Items returns the parsed body in source order.
func (b *BaseSection) Items() []Statement { return b.items }

func (b *BaseSection) LoadSection(loader ItemLoader, sec *file.Section, state *ParserState, logger *sklog.SkriptLogger) bool {
	b.items = loader.LoadItems(sec, state, logger)
	if len(b.items) > 0 {
		b.first = b.items[0]
	}
	return true
}

// RunBody walks the section's own chain to completion.
func (b *BaseSection) RunBody(ctx TriggerContext) {
	RunAll(b.first, ctx)
}
