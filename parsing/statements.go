package parsing

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/chaossafti/skript-parser/core/invariant"
	"github.com/chaossafti/skript-parser/file"
	"github.com/chaossafti/skript-parser/lang"
	sklog "github.com/chaossafti/skript-parser/log"
	"github.com/chaossafti/skript-parser/pattern"
	"github.com/chaossafti/skript-parser/registration"
)

var (
	conditionalType     = reflect.TypeOf((*lang.Conditional)(nil))
	inlineConditionType = reflect.TypeOf((*lang.InlineCondition)(nil))
)

const continueIfPrefix = "continue if "

// ParseEffect parses one line as an effect, walking recency then the rest
// of the effect registry.
func (p *SyntaxParser) ParseEffect(s string, state *lang.ParserState, logger *sklog.SkriptLogger) (lang.Effect, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	for _, info := range p.recentEffects.Snapshot() {
		if eff, ok := p.matchEffectInfo(s, info, state, logger); ok {
			p.recentEffects.Acknowledge(info)
			logger.ClearLogs()
			return eff, true
		}
		logger.ForgetError()
	}
	for _, info := range p.recentEffects.RemoveFrom(p.manager.Effects()) {
		if eff, ok := p.matchEffectInfo(s, info, state, logger); ok {
			p.recentEffects.Acknowledge(info)
			logger.ClearLogs()
			return eff, true
		}
		logger.ForgetError()
	}
	logger.SetContext(sklog.NoMatchContext)
	logger.ErrorWithTip(fmt.Sprintf("No effect matching '%s' was found", s), sklog.NoMatch, p.suggestEffect(s))
	return nil, false
}

func (p *SyntaxParser) matchEffectInfo(s string, info *registration.SyntaxInfo, state *lang.ParserState, logger *sklog.SkriptLogger) (lang.Effect, bool) {
	for i, pat := range info.Patterns() {
		logger.SetContext(sklog.Matching)
		ctx := p.newMatchContext(state, logger)
		if pat.Match(s, 0, ctx) == -1 {
			continue
		}
		elem, ok := p.instantiate(info, logger)
		if !ok {
			return nil, false
		}
		eff, isEffect := elem.(lang.Effect)
		invariant.Invariant(isEffect, "factory for %v must build an effect", info.ElementType())
		logger.SetContext(sklog.Initialization)
		if !eff.Init(ctx.Expressions(), i, ctx.ToParseContext(s)) {
			continue
		}
		return eff, true
	}
	return nil, false
}

// ParseInlineCondition parses a line as the condition of `continue if`.
func (p *SyntaxParser) ParseInlineCondition(s string, state *lang.ParserState, logger *sklog.SkriptLogger) (*lang.InlineCondition, bool) {
	if strings.TrimSpace(s) == "" {
		return nil, false
	}
	cond, ok := p.ParseBooleanExpression(s, pattern.Conditional, state, logger)
	if !ok {
		return nil, false
	}
	return lang.NewInlineCondition(cond), true
}

// ParseStatement routes one line: a `continue if` prefix becomes an inline
// condition, everything else an effect. Restricted-syntax checks apply to
// the admitted node.
func (p *SyntaxParser) ParseStatement(s string, state *lang.ParserState, logger *sklog.SkriptLogger) (lang.Statement, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	if len(s) >= len(continueIfPrefix) && strings.EqualFold(s[:len(continueIfPrefix)], continueIfPrefix) {
		if state.ForbidsSyntax(inlineConditionType) {
			logger.SetContext(sklog.RestrictedSyntaxes)
			logger.Error("Inline conditions are not allowed in this section", sklog.RestrictedSyntax)
			return nil, false
		}
		return p.ParseInlineCondition(s[len(continueIfPrefix):], state, logger)
	}
	eff, ok := p.ParseEffect(s, state, logger)
	if !ok {
		return nil, false
	}
	if state.ForbidsSyntax(reflect.TypeOf(eff)) {
		logger.SetContext(sklog.RestrictedSyntaxes)
		logger.Error("The enclosing section does not allow the use of this effect: "+
			eff.ToString(lang.DummyContext{}, logger.IsDebug()), sklog.RestrictedSyntax)
		return nil, false
	}
	return eff, true
}

// ParseSection parses a file section header against the section registry
// and, on a match, loads the section body through the matched element.
func (p *SyntaxParser) ParseSection(sec *file.Section, state *lang.ParserState, logger *sklog.SkriptLogger) (lang.CodeSection, bool) {
	if sec.Content() == "" {
		return nil, false
	}
	for _, info := range p.recentSections.Snapshot() {
		if cs, ok := p.matchSectionInfo(sec, info, state, logger); ok {
			p.recentSections.Acknowledge(info)
			logger.ClearLogs()
			return cs, true
		}
		logger.ForgetError()
	}
	for _, info := range p.recentSections.RemoveFrom(p.manager.Sections()) {
		if cs, ok := p.matchSectionInfo(sec, info, state, logger); ok {
			p.recentSections.Acknowledge(info)
			logger.ClearLogs()
			return cs, true
		}
		logger.ForgetError()
	}
	logger.SetContext(sklog.NoMatchContext)
	logger.Error(fmt.Sprintf("No section matching '%s' was found", sec.Content()), sklog.NoMatch)
	return nil, false
}

func (p *SyntaxParser) matchSectionInfo(sec *file.Section, info *registration.SyntaxInfo, state *lang.ParserState, logger *sklog.SkriptLogger) (lang.CodeSection, bool) {
	for i, pat := range info.Patterns() {
		logger.SetContext(sklog.Matching)
		ctx := p.newMatchContext(state, logger)
		if pat.Match(sec.Content(), 0, ctx) == -1 {
			continue
		}
		elem, ok := p.instantiate(info, logger)
		if !ok {
			return nil, false
		}
		cs, isSection := elem.(lang.CodeSection)
		invariant.Invariant(isSection, "factory for %v must build a code section", info.ElementType())
		logger.SetContext(sklog.Initialization)
		if !cs.Init(ctx.Expressions(), i, ctx.ToParseContext(sec.Content())) {
			continue
		}
		state.EnterSection(cs)
		loaded := cs.LoadSection(p, sec, state, logger)
		state.ExitSection()
		if !loaded {
			continue
		}
		return cs, true
	}
	return nil, false
}

// UnloadedTrigger is the staged form of a trigger whose header matched but
// whose body is deferred until the loading-priority order is known.
type UnloadedTrigger struct {
	trigger *lang.Trigger
	section *file.Section
	line    int
	info    *registration.EventInfo
	state   *lang.ParserState
}

// Trigger returns the trigger under construction.
func (u *UnloadedTrigger) Trigger() *lang.Trigger { return u.trigger }

// Section returns the file section holding the trigger body.
func (u *UnloadedTrigger) Section() *file.Section { return u.section }

// Line returns the header's line number.
func (u *UnloadedTrigger) Line() int { return u.line }

// EventInfo returns the registry entry the header matched.
func (u *UnloadedTrigger) EventInfo() *registration.EventInfo { return u.info }

// ParserState returns the state accumulated during the header match.
func (u *UnloadedTrigger) ParserState() *lang.ParserState { return u.state }

// ParseTrigger matches a top-level section header against the event
// registry. The body is not parsed; that happens during finalization.
func (p *SyntaxParser) ParseTrigger(sec *file.Section, logger *sklog.SkriptLogger) (*UnloadedTrigger, bool) {
	if sec.Content() == "" {
		return nil, false
	}
	for _, info := range p.recentEvents.Snapshot() {
		if ut, ok := p.matchEventInfo(sec, info, logger); ok {
			p.recentEvents.Acknowledge(info)
			logger.ClearLogs()
			return ut, true
		}
		logger.ForgetError()
	}
	for _, info := range p.recentEvents.RemoveFrom(p.manager.Events()) {
		if ut, ok := p.matchEventInfo(sec, info, logger); ok {
			p.recentEvents.Acknowledge(info)
			logger.ClearLogs()
			return ut, true
		}
		logger.ForgetError()
	}
	logger.SetContext(sklog.NoMatchContext)
	logger.ErrorWithTip(fmt.Sprintf("No trigger matching '%s' was found", sec.Content()), sklog.NoMatch, p.suggestEvent(sec.Content()))
	return nil, false
}

func (p *SyntaxParser) matchEventInfo(sec *file.Section, info *registration.EventInfo, logger *sklog.SkriptLogger) (*UnloadedTrigger, bool) {
	for i, pat := range info.Patterns() {
		state := lang.NewParserState()
		logger.SetContext(sklog.Matching)
		ctx := pattern.NewMatchContext(state, logger, p)
		ctx.Ctx = p.ctx
		if pat.Match(sec.Content(), 0, ctx) == -1 {
			continue
		}
		elem, ok := p.instantiate(info.AsSyntaxInfo(), logger)
		if !ok {
			return nil, false
		}
		event, isEvent := elem.(lang.SkriptEvent)
		invariant.Invariant(isEvent, "factory for %v must build an event", info.ElementType())
		logger.SetContext(sklog.Initialization)
		if !event.Init(ctx.Expressions(), i, ctx.ToParseContext(sec.Content())) {
			continue
		}
		state.SetCurrentContexts(info.Contexts())
		// Body parsing is deferred to the loading-priority pass.
		return &UnloadedTrigger{
			trigger: lang.NewTrigger(event),
			section: sec,
			line:    logger.Line(),
			info:    info,
			state:   state,
		}, true
	}
	return nil, false
}

// LoadItems parses a section body in source order: void lines are skipped,
// if/else-if/else headers build conditional chains, other sections go
// through the section registry, plain lines through ParseStatement.
// Accepted items are linked into a forward chain.
func (p *SyntaxParser) LoadItems(sec *file.Section, state *lang.ParserState, logger *sklog.SkriptLogger) []lang.Statement {
	var items []lang.Statement
	logger.Recurse()
	for _, element := range sec.Elements() {
		logger.LogOutput()
		logger.SetLine(element.Line())
		switch el := element.(type) {
		case *file.Void:
			continue
		case *file.Section:
			p.loadSectionItem(el, state, logger, &items)
		default:
			if stmt, ok := p.ParseStatement(element.Content(), state, logger); ok {
				items = append(items, stmt)
			}
		}
	}
	logger.LogOutput()
	for i := 0; i+1 < len(items); i++ {
		items[i].SetNext(items[i+1])
	}
	logger.Callback()
	return items
}

func (p *SyntaxParser) loadSectionItem(el *file.Section, state *lang.ParserState, logger *sklog.SkriptLogger, items *[]lang.Statement) {
	content := el.Content()
	switch {
	case startsWithIgnoreCase(content, "if "):
		cond, ok := p.ParseBooleanExpression(content[len("if "):], pattern.MaybeConditional, state, logger)
		if !ok {
			return
		}
		if state.ForbidsSyntax(conditionalType) {
			logger.SetContext(sklog.RestrictedSyntaxes)
			logger.Error("Conditionals are not allowed in this section", sklog.RestrictedSyntax)
			return
		}
		*items = append(*items, lang.NewConditional(p, el, cond, lang.ConditionalIf, state, logger))

	case startsWithIgnoreCase(content, "else if "):
		last, ok := lastConditional(*items)
		if !ok {
			logger.Error("An 'else if' must be placed after an 'if'", sklog.StructureError)
			return
		}
		cond, okCond := p.ParseBooleanExpression(content[len("else if "):], pattern.MaybeConditional, state, logger)
		if !okCond {
			return
		}
		if state.ForbidsSyntax(conditionalType) {
			logger.SetContext(sklog.RestrictedSyntaxes)
			logger.Error("Conditionals are not allowed in this section", sklog.RestrictedSyntax)
			return
		}
		last.SetFallingClause(lang.NewConditional(p, el, cond, lang.ConditionalElseIf, state, logger))

	case strings.EqualFold(content, "else"):
		last, ok := lastConditional(*items)
		if !ok {
			logger.Error("An 'else' must be placed after an 'if' or an 'else if'", sklog.StructureError)
			return
		}
		if state.ForbidsSyntax(conditionalType) {
			logger.SetContext(sklog.RestrictedSyntaxes)
			logger.Error("Conditionals are not allowed in this section", sklog.RestrictedSyntax)
			return
		}
		last.SetFallingClause(lang.NewConditional(p, el, nil, lang.ConditionalElse, state, logger))

	default:
		cs, ok := p.ParseSection(el, state, logger)
		if !ok {
			return
		}
		if state.ForbidsSyntax(reflect.TypeOf(cs)) {
			logger.SetContext(sklog.RestrictedSyntaxes)
			logger.Error("The enclosing section does not allow the use of this section: "+
				cs.ToString(lang.DummyContext{}, logger.IsDebug()), sklog.RestrictedSyntax)
			return
		}
		*items = append(*items, cs)
	}
}

// lastConditional returns the trailing conditional of the item list,
// provided it can still take a falling clause.
func lastConditional(items []lang.Statement) (*lang.Conditional, bool) {
	if len(items) == 0 {
		return nil, false
	}
	cond, ok := items[len(items)-1].(*lang.Conditional)
	if !ok {
		return nil, false
	}
	if tailMode(cond) == lang.ConditionalElse {
		return nil, false
	}
	return cond, true
}

// tailMode follows the falling clauses to the chain's last mode.
func tailMode(c *lang.Conditional) lang.ConditionalMode {
	for c.FallingClause() != nil {
		c = c.FallingClause()
	}
	return c.Mode()
}

func startsWithIgnoreCase(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
