package lang

import "reflect"

type syntaxRestriction struct {
	whitelist              bool
	restrictingExpressions bool
	syntaxes               map[reflect.Type]struct{}
}

// ParserState is the contextual state active while parsing one trigger:
// the current event, the stack of enclosing sections, and the syntax
// restrictions those sections impose.
type ParserState struct {
	currentEvent    SkriptEvent
	currentContexts []reflect.Type
	sections        []CodeSection
	restrictions    []syntaxRestriction
}

// NewParserState creates an unrestricted state.
func NewParserState() *ParserState {
	return &ParserState{}
}

// CurrentEvent returns the event whose trigger is being parsed, if any.
func (s *ParserState) CurrentEvent() SkriptEvent { return s.currentEvent }

// SetCurrentEvent records the event whose trigger body is being parsed.
func (s *ParserState) SetCurrentEvent(e SkriptEvent) { s.currentEvent = e }

// CurrentContexts returns the trigger context types the current event
// handles.
func (s *ParserState) CurrentContexts() []reflect.Type { return s.currentContexts }

// SetCurrentContexts records the handled context types of the current event.
func (s *ParserState) SetCurrentContexts(ctxs []reflect.Type) { s.currentContexts = ctxs }

// EnterSection pushes an enclosing section while its body is parsed.
func (s *ParserState) EnterSection(sec CodeSection) {
	s.sections = append(s.sections, sec)
}

// ExitSection pops the innermost enclosing section.
func (s *ParserState) ExitSection() {
	if len(s.sections) > 0 {
		s.sections = s.sections[:len(s.sections)-1]
	}
}

// CurrentSections returns the stack of enclosing sections, outermost first.
func (s *ParserState) CurrentSections() []CodeSection { return s.sections }

// SetSyntaxRestrictions pushes a restriction frame. With whitelist, only the
// given element types are allowed; otherwise the given types are forbidden.
// restrictExpressions extends the check to expressions as well.
func (s *ParserState) SetSyntaxRestrictions(whitelist, restrictExpressions bool, syntaxes ...reflect.Type) {
	set := make(map[reflect.Type]struct{}, len(syntaxes))
	for _, t := range syntaxes {
		set[t] = struct{}{}
	}
	s.restrictions = append(s.restrictions, syntaxRestriction{
		whitelist:              whitelist,
		restrictingExpressions: restrictExpressions,
		syntaxes:               set,
	})
}

// ClearSyntaxRestrictions pops the innermost restriction frame.
func (s *ParserState) ClearSyntaxRestrictions() {
	if len(s.restrictions) > 0 {
		s.restrictions = s.restrictions[:len(s.restrictions)-1]
	}
}

// ForbidsSyntax reports whether the innermost restriction frame forbids
// elements of the given type.
func (s *ParserState) ForbidsSyntax(t reflect.Type) bool {
	if len(s.restrictions) == 0 {
		return false
	}
	r := s.restrictions[len(s.restrictions)-1]
	_, listed := r.syntaxes[t]
	if r.whitelist {
		return !listed
	}
	return listed
}

// RestrictingExpressions reports whether the innermost restriction frame
// also applies to expressions.
func (s *ParserState) RestrictingExpressions() bool {
	if len(s.restrictions) == 0 {
		return false
	}
	return s.restrictions[len(s.restrictions)-1].restrictingExpressions
}
