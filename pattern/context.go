package pattern

import (
	"context"

	"github.com/chaossafti/skript-parser/lang"
	sklog "github.com/chaossafti/skript-parser/log"
	"github.com/chaossafti/skript-parser/types"
)

// ConditionalMode selects how a boolean placeholder treats conditional
// expressions.
type ConditionalMode int

const (
	// NotConditional rejects conditional expressions.
	NotConditional ConditionalMode = iota
	// MaybeConditional accepts both.
	MaybeConditional
	// Conditional requires a conditional expression.
	Conditional
)

// ExpressionParser is the callback an expression placeholder uses to parse
// the text it is about to consume. Implemented by the syntax parser.
type ExpressionParser interface {
	ParseExpression(s string, expected types.PatternType, state *lang.ParserState, logger *sklog.SkriptLogger) (lang.Expression, bool)
	ParseBooleanExpression(s string, mode ConditionalMode, state *lang.ParserState, logger *sklog.SkriptLogger) (lang.Expression, bool)
	ParseLiteralExpression(s string, expected types.PatternType, state *lang.ParserState, logger *sklog.SkriptLogger) (lang.Expression, bool)
}

// MatchContext accumulates the state of one match attempt against one
// pattern: captured expressions, choice marks and regex results.
type MatchContext struct {
	State  *lang.ParserState
	Logger *sklog.SkriptLogger
	Parser ExpressionParser
	// Ctx, when set, lets long matches be cancelled; cancellation reads as
	// a failed match.
	Ctx context.Context

	expressions []lang.Expression
	matches     []lang.RegexResult
	mark        int
}

// NewMatchContext creates the context for a single match attempt.
func NewMatchContext(state *lang.ParserState, logger *sklog.SkriptLogger, parser ExpressionParser) *MatchContext {
	return &MatchContext{State: state, Logger: logger, Parser: parser}
}

// AddExpression appends a captured expression in match order.
func (c *MatchContext) AddExpression(e lang.Expression) {
	c.expressions = append(c.expressions, e)
}

// Expressions returns the captured expressions in match order.
func (c *MatchContext) Expressions() []lang.Expression {
	return c.expressions
}

// AddMark folds a choice mark into the parse mark.
func (c *MatchContext) AddMark(mark int) {
	c.mark ^= mark
}

// ParseMark returns the folded choice marks.
func (c *MatchContext) ParseMark() int { return c.mark }

// AddRegexResult records the captures of a regex element.
func (c *MatchContext) AddRegexResult(r lang.RegexResult) {
	c.matches = append(c.matches, r)
}

// ToParseContext freezes the attempt into the context handed to Init.
func (c *MatchContext) ToParseContext(source string) *lang.ParseContext {
	return &lang.ParseContext{
		State:     c.State,
		Matches:   c.matches,
		ParseMark: c.mark,
		Source:    source,
		Logger:    c.Logger,
	}
}

type ctxSnapshot struct {
	nExpr, nMatches, mark int
}

func (c *MatchContext) save() ctxSnapshot {
	return ctxSnapshot{nExpr: len(c.expressions), nMatches: len(c.matches), mark: c.mark}
}

func (c *MatchContext) restore(s ctxSnapshot) {
	c.expressions = c.expressions[:s.nExpr]
	c.matches = c.matches[:s.nMatches]
	c.mark = s.mark
}

func (c *MatchContext) cancelled() bool {
	return c.Ctx != nil && c.Ctx.Err() != nil
}
