package registration

import "slices"

// SyntaxManager is the process-wide registry of syntax kinds. It is
// populated during startup registration and read-only while parsing.
type SyntaxManager struct {
	expressions []*ExpressionInfo
	effects     []*SyntaxInfo
	sections    []*SyntaxInfo
	events      []*EventInfo
}

// NewSyntaxManager creates an empty registry.
func NewSyntaxManager() *SyntaxManager {
	return &SyntaxManager{}
}

// insertByPriority places the new info behind every strictly
// higher-priority entry and ahead of lower-or-equal ones.
func insertByPriority[T any](infos []T, info T, priority func(T) int) []T {
	idx := len(infos)
	for i, existing := range infos {
		if priority(existing) <= priority(info) {
			idx = i
			break
		}
	}
	return slices.Insert(infos, idx, info)
}

// AddExpression registers an expression info.
func (m *SyntaxManager) AddExpression(info *ExpressionInfo) {
	m.expressions = insertByPriority(m.expressions, info, func(i *ExpressionInfo) int { return i.Priority() })
}

// AddEffect registers an effect info.
func (m *SyntaxManager) AddEffect(info *SyntaxInfo) {
	m.effects = insertByPriority(m.effects, info, func(i *SyntaxInfo) int { return i.Priority() })
}

// AddSection registers a section info.
func (m *SyntaxManager) AddSection(info *SyntaxInfo) {
	m.sections = insertByPriority(m.sections, info, func(i *SyntaxInfo) int { return i.Priority() })
}

// AddEvent registers an event info.
func (m *SyntaxManager) AddEvent(info *EventInfo) {
	m.events = insertByPriority(m.events, info, func(i *EventInfo) int { return i.Priority() })
}

// Expressions returns every expression info in dispatch order.
func (m *SyntaxManager) Expressions() []*ExpressionInfo { return slices.Clone(m.expressions) }

// Effects returns every effect info in dispatch order.
func (m *SyntaxManager) Effects() []*SyntaxInfo { return slices.Clone(m.effects) }

// Sections returns every section info in dispatch order.
func (m *SyntaxManager) Sections() []*SyntaxInfo { return slices.Clone(m.sections) }

// Events returns every event info in dispatch order.
func (m *SyntaxManager) Events() []*EventInfo { return slices.Clone(m.events) }
