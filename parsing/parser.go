// Package parsing contains the dispatcher that turns source text into bound
// syntax elements, and the loader that orchestrates whole-script parsing.
package parsing

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/chaossafti/skript-parser/core/invariant"
	"github.com/chaossafti/skript-parser/lang"
	sklog "github.com/chaossafti/skript-parser/log"
	"github.com/chaossafti/skript-parser/pattern"
	"github.com/chaossafti/skript-parser/registration"
	"github.com/chaossafti/skript-parser/types"
)

var (
	boolType   = reflect.TypeOf(true)
	stringType = reflect.TypeOf("")
)

// VariableParser recognizes variable references in expression positions.
type VariableParser interface {
	ParseVariable(s string, expected reflect.Type, state *lang.ParserState, logger *sklog.SkriptLogger) (lang.Expression, bool)
}

// SyntaxParser is the engine handle for parsing statements, sections and
// expressions. It owns the recency lists and consults the registry,
// type manager and converter graph it was built with.
type SyntaxParser struct {
	manager     *registration.SyntaxManager
	types       *types.Manager
	converters  *types.Converters
	comparators *types.Comparators
	variables   VariableParser
	ctx         context.Context

	recentExpressions registration.RecentList[*registration.ExpressionInfo]
	recentConditions  registration.RecentList[*registration.ExpressionInfo]
	recentEffects     registration.RecentList[*registration.SyntaxInfo]
	recentSections    registration.RecentList[*registration.SyntaxInfo]
	recentEvents      registration.RecentList[*registration.EventInfo]
}

// NewSyntaxParser creates a parser over the given registries. The variable
// parser may be nil, disabling {name} references.
func NewSyntaxParser(manager *registration.SyntaxManager, tm *types.Manager, conv *types.Converters, comp *types.Comparators, vars VariableParser) *SyntaxParser {
	invariant.NotNil(manager, "syntax manager")
	invariant.NotNil(tm, "type manager")
	return &SyntaxParser{
		manager:     manager,
		types:       tm,
		converters:  conv,
		comparators: comp,
		variables:   vars,
	}
}

// SetContext installs a context consulted at every pattern-match entry,
// bounding total parse time. The loader installs each load's context, or nil
// when the load has none, before that load parses.
func (p *SyntaxParser) SetContext(ctx context.Context) { p.ctx = ctx }

// TypeManager returns the type registry the parser dispatches on.
func (p *SyntaxParser) TypeManager() *types.Manager { return p.types }

// Converters returns the converter graph.
func (p *SyntaxParser) Converters() *types.Converters { return p.converters }

// Comparators returns the comparator registry.
func (p *SyntaxParser) Comparators() *types.Comparators { return p.comparators }

// ParseExpression parses s as an expression of the expected type. The
// order of attempts: enclosing parentheses are stripped, then literals,
// variables, list literals (plural targets only), then the registered
// expressions in recency-then-registry order.
func (p *SyntaxParser) ParseExpression(s string, expected types.PatternType, state *lang.ParserState, logger *sklog.SkriptLogger) (lang.Expression, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	s = unwrapParentheses(s)

	if lit, ok := p.ParseLiteralExpression(s, expected, state, logger); ok {
		return lit, true
	}

	if p.variables != nil {
		if v, ok := p.variables.ParseVariable(s, expected.T.Reflect(), state, logger); ok {
			if !v.IsSingle() && expected.Single {
				logger.Error(singleExpected(s), sklog.SemanticError)
				return nil, false
			}
			return v, true
		}
	}

	if !expected.Single {
		if list, ok := p.ParseListLiteral(s, expected, state, logger); ok {
			return list, true
		}
	}

	for _, info := range p.recentExpressions.Snapshot() {
		if expr, ok := p.matchExpressionInfo(s, info, expected, state, logger); ok {
			p.recentExpressions.Acknowledge(info)
			logger.ClearLogs()
			return expr, true
		}
		logger.ForgetError()
	}
	for _, info := range p.recentExpressions.RemoveFrom(p.manager.Expressions()) {
		if expr, ok := p.matchExpressionInfo(s, info, expected, state, logger); ok {
			p.recentExpressions.Acknowledge(info)
			logger.ClearLogs()
			return expr, true
		}
		logger.ForgetError()
	}

	logger.SetContext(sklog.NoMatchContext)
	logger.ErrorWithTip(fmt.Sprintf("No expression matching '%s' was found", s), sklog.NoMatch, p.suggestExpression(s))
	return nil, false
}

// ParseBooleanExpression parses s as a boolean expression, honoring the
// conditional mode: a condition may be required, forbidden or merely
// allowed.
func (p *SyntaxParser) ParseBooleanExpression(s string, mode pattern.ConditionalMode, state *lang.ParserState, logger *sklog.SkriptLogger) (lang.Expression, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	s = unwrapParentheses(s)

	if strings.EqualFold(s, "true") {
		return lang.NewSimpleLiteral(boolType, true), true
	}
	if strings.EqualFold(s, "false") {
		return lang.NewSimpleLiteral(boolType, false), true
	}

	if p.variables != nil {
		if v, ok := p.variables.ParseVariable(s, boolType, state, logger); ok {
			if !v.IsSingle() {
				logger.Error(singleExpected(s), sklog.SemanticError)
				return nil, false
			}
			return v, true
		}
	}

	expected := types.PatternType{T: p.mustType(boolType, "boolean"), Single: true}

	try := func(info *registration.ExpressionInfo) (lang.Expression, bool, bool) {
		if info.ReturnType().T.Reflect() != boolType {
			return nil, false, true
		}
		expr, ok := p.matchExpressionInfo(s, info, expected, state, logger)
		if !ok {
			return nil, false, true
		}
		_, isConditional := expr.(lang.ConditionalExpression)
		switch mode {
		case pattern.NotConditional:
			if isConditional {
				logger.Error("The boolean expression must not be conditional", sklog.SemanticError)
				return nil, false, false
			}
		case pattern.Conditional:
			if !isConditional {
				logger.Error("The boolean expression must be conditional", sklog.SemanticError)
				return nil, false, false
			}
		}
		if isConditional {
			p.recentConditions.Acknowledge(info)
		}
		return expr, true, true
	}

	for _, info := range p.recentExpressions.Snapshot() {
		expr, ok, keepGoing := try(info)
		if ok {
			p.recentExpressions.Acknowledge(info)
			logger.ClearLogs()
			return expr, true
		}
		if !keepGoing {
			return nil, false
		}
		logger.ForgetError()
	}
	for _, info := range p.recentExpressions.RemoveFrom(p.manager.Expressions()) {
		expr, ok, keepGoing := try(info)
		if ok {
			p.recentExpressions.Acknowledge(info)
			logger.ClearLogs()
			return expr, true
		}
		if !keepGoing {
			return nil, false
		}
		logger.ForgetError()
	}

	logger.SetContext(sklog.NoMatchContext)
	logger.ErrorWithTip(fmt.Sprintf("No expression matching '%s' was found", s), sklog.NoMatch, p.suggestExpression(s))
	return nil, false
}

// ParseLiteralExpression parses s as a literal of the expected type, trying
// the literal parser of every type coercible to it. Quoted strings go
// through the variable-string recognizer.
func (p *SyntaxParser) ParseLiteralExpression(s string, expected types.PatternType, state *lang.ParserState, logger *sklog.SkriptLogger) (lang.Expression, bool) {
	expectedType := expected.T.Reflect()
	for _, t := range p.types.All() {
		c := t.Reflect()
		assignable := types.Assignable(c, expectedType)
		if !assignable && !p.convertible(c, expectedType) {
			continue
		}
		parser := t.LiteralParser()
		if parser == nil {
			if expectedType == stringType || c == stringType {
				if vs, ok := p.parseVariableString(s, state, logger); ok {
					return vs, true
				}
			}
			continue
		}
		value, ok := parser(s)
		if !ok {
			continue
		}
		if assignable {
			lit := lang.NewSimpleLiteral(c, value)
			lit.SetToString(t.ToString)
			return lit, true
		}
		converted := p.converters.Convert([]any{value}, expectedType)
		if len(converted) == 1 {
			return lang.NewSimpleLiteral(expectedType, converted[0]), true
		}
	}
	return nil, false
}

// matchExpressionInfo tries every pattern of one expression info against s
// and applies the constraint checks of a successful bind.
func (p *SyntaxParser) matchExpressionInfo(s string, info *registration.ExpressionInfo, expected types.PatternType, state *lang.ParserState, logger *sklog.SkriptLogger) (lang.Expression, bool) {
	infoType := info.ReturnType().T.Reflect()
	expectedType := expected.T.Reflect()
	if !types.Assignable(infoType, expectedType) && !p.convertible(infoType, expectedType) {
		return nil, false
	}

	for i, pat := range info.Patterns() {
		logger.SetContext(sklog.Matching)
		ctx := p.newMatchContext(state, logger)
		if pat.Match(s, 0, ctx) == -1 {
			continue
		}

		elem, ok := p.instantiate(info.AsSyntaxInfo(), logger)
		if !ok {
			return nil, false
		}
		expr, isExpr := elem.(lang.Expression)
		invariant.Invariant(isExpr, "factory for %v must build an expression", info.ElementType())

		logger.SetContext(sklog.Initialization)
		if !expr.Init(ctx.Expressions(), i, ctx.ToParseContext(s)) {
			continue
		}

		logger.SetContext(sklog.ConstraintChecking)
		actual := expr.ReturnType()
		if !types.Assignable(actual, expectedType) {
			if converted, ok := expr.ConvertedExpression(expectedType); ok {
				return converted, true
			}
			if p.convertible(actual, expectedType) {
				conv := func(vs []any) []any { return p.converters.Convert(vs, expectedType) }
				return lang.NewConvertedValues(expr, expectedType, conv), true
			}
			logger.Error(fmt.Sprintf("%s was expected, but %s was found",
				withIndefiniteArticle(expected.String()), withIndefiniteArticle(p.typeName(actual))), sklog.SemanticError)
			return nil, false
		}
		if !expr.IsSingle() && expected.Single {
			logger.Error(singleExpected(s), sklog.SemanticError)
			continue
		}
		if state.RestrictingExpressions() && state.ForbidsSyntax(info.ElementType()) {
			logger.SetContext(sklog.RestrictedSyntaxes)
			logger.Error("The enclosing section does not allow the use of this expression: "+
				expr.ToString(lang.DummyContext{}, logger.IsDebug()), sklog.RestrictedSyntax)
			continue
		}
		return expr, true
	}
	return nil, false
}

// instantiate runs the init validators and the factory. A veto is terminal
// for the attempt and surfaces as an exception-kind diagnostic.
func (p *SyntaxParser) instantiate(info *registration.SyntaxInfo, logger *sklog.SkriptLogger) (lang.SyntaxElement, bool) {
	logger.SetContext(sklog.Initialization)
	elem, err := info.CreateInstance()
	if err != nil {
		logger.Error(fmt.Sprintf("Could not instantiate %v: %v", info.ElementType(), err), sklog.Exception)
		// A veto is terminal for this attempt; commit the entry so the
		// dispatcher's candidate bookkeeping cannot discard it.
		logger.LogOutput()
		return nil, false
	}
	return elem, true
}

func (p *SyntaxParser) newMatchContext(state *lang.ParserState, logger *sklog.SkriptLogger) *pattern.MatchContext {
	ctx := pattern.NewMatchContext(state, logger, p)
	ctx.Ctx = p.ctx
	return ctx
}

func (p *SyntaxParser) convertible(from, to reflect.Type) bool {
	return p.converters != nil && p.converters.ConverterExists(from, to)
}

func (p *SyntaxParser) mustType(rt reflect.Type, name string) *types.Type {
	t, ok := p.types.ByType(rt)
	invariant.Precondition(ok, "the %s type must be registered before parsing", name)
	return t
}

func (p *SyntaxParser) typeName(rt reflect.Type) string {
	if t, ok := p.types.ByType(rt); ok {
		return t.BaseName()
	}
	return rt.String()
}

func unwrapParentheses(s string) string {
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		if end, ok := pattern.FindClosing(s, '(', ')', 0); ok && end == len(s)-1 {
			return strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}

func singleExpected(s string) string {
	return fmt.Sprintf("A single value was expected, but '%s' represents multiple values.", s)
}

func withIndefiniteArticle(noun string) string {
	if noun == "" {
		return noun
	}
	switch noun[0] {
	case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
		return "an " + noun
	default:
		return "a " + noun
	}
}
