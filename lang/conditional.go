package lang

import (
	"github.com/chaossafti/skript-parser/file"
	sklog "github.com/chaossafti/skript-parser/log"
)

// ConditionalMode distinguishes the three clauses of an if-chain.
type ConditionalMode int

const (
	ConditionalIf ConditionalMode = iota
	ConditionalElseIf
	ConditionalElse
)

func (m ConditionalMode) String() string {
	switch m {
	case ConditionalIf:
		return "if"
	case ConditionalElseIf:
		return "else if"
	default:
		return "else"
	}
}

// Conditional is an if / else if / else section. An else-if or else clause
// hangs off its predecessor as the falling clause, so only the head of the
// chain sits in the statement list.
type Conditional struct {
	BaseSection
	mode      ConditionalMode
	condition Expression
	falling   *Conditional
}

// NewConditional parses the section body and builds the clause. condition
// is nil for an else clause.
func NewConditional(loader ItemLoader, sec *file.Section, condition Expression, mode ConditionalMode, state *ParserState, logger *sklog.SkriptLogger) *Conditional {
	c := &Conditional{mode: mode, condition: condition}
	c.LoadSection(loader, sec, state, logger)
	return c
}

// Mode returns which clause this is.
func (c *Conditional) Mode() ConditionalMode { return c.mode }

// Condition returns the clause's condition; nil for else.
func (c *Conditional) Condition() Expression { return c.condition }

// FallingClause returns the clause tried when this one's condition fails.
func (c *Conditional) FallingClause() *Conditional { return c.falling }

// SetFallingClause attaches the else-if or else clause following this one.
func (c *Conditional) SetFallingClause(next *Conditional) {
	if c.falling != nil {
		c.falling.SetFallingClause(next)
		return
	}
	c.falling = next
}

func (c *Conditional) Init([]Expression, int, *ParseContext) bool { return true }

func (c *Conditional) Walk(ctx TriggerContext) Statement {
	if c.check(ctx) {
		c.RunBody(ctx)
		return c.Next()
	}
	if c.falling != nil {
		c.falling.Walk(ctx)
	}
	return c.Next()
}

func (c *Conditional) check(ctx TriggerContext) bool {
	if c.condition == nil {
		return true
	}
	v, ok := GetSingle(c.condition, ctx)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

func (c *Conditional) ToString(ctx TriggerContext, debug bool) string {
	if c.condition == nil {
		return "else"
	}
	return c.mode.String() + " " + c.condition.ToString(ctx, debug)
}

// InlineCondition is the `continue if %condition%` statement: execution
// proceeds past it only while the condition holds.
type InlineCondition struct {
	BaseStatement
	condition Expression
}

// NewInlineCondition wraps a conditional expression as a guard statement.
func NewInlineCondition(condition Expression) *InlineCondition {
	return &InlineCondition{condition: condition}
}

// Condition returns the guard expression.
func (i *InlineCondition) Condition() Expression { return i.condition }

func (i *InlineCondition) Init([]Expression, int, *ParseContext) bool { return true }

func (i *InlineCondition) Walk(ctx TriggerContext) Statement {
	if v, ok := GetSingle(i.condition, ctx); ok {
		if b, ok := v.(bool); ok && b {
			return i.Next()
		}
	}
	return nil
}

func (i *InlineCondition) ToString(ctx TriggerContext, debug bool) string {
	return "continue if " + i.condition.ToString(ctx, debug)
}
