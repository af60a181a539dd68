package types

import (
	"fmt"
	"reflect"
	"strings"
)

// nameEntry binds a registered spelling to its type and to the plurality
// that spelling stands for.
type nameEntry struct {
	t      *Type
	single bool
}

// Manager is the registry of type descriptors. It is populated during
// startup registration and read-only afterwards.
type Manager struct {
	byType map[reflect.Type]*Type
	byName map[string]nameEntry // keyed by lower-cased singular and plural names
	all    []*Type
}

// NewManager creates an empty type registry.
func NewManager() *Manager {
	return &Manager{
		byType: make(map[reflect.Type]*Type),
		byName: make(map[string]nameEntry),
	}
}

// Register adds a type descriptor. Name collisions and duplicate Go types
// are registration-time errors. Plurality is recorded per spelling: the
// singular spelling resolves single, the plural spelling plural. A type
// whose plural equals its singular keeps only the singular entry and can
// therefore never be resolved as plural by name.
func (m *Manager) Register(t *Type) error {
	if _, ok := m.byType[t.Reflect()]; ok {
		return fmt.Errorf("type %v is already registered", t.Reflect())
	}
	base := strings.ToLower(t.BaseName())
	plural := strings.ToLower(t.PluralName())
	if _, ok := m.byName[base]; ok {
		return fmt.Errorf("type name %q is already registered", base)
	}
	if _, ok := m.byName[plural]; ok && plural != base {
		return fmt.Errorf("type name %q is already registered", plural)
	}
	m.byType[t.Reflect()] = t
	m.byName[base] = nameEntry{t: t, single: true}
	if plural != base {
		m.byName[plural] = nameEntry{t: t, single: false}
	}
	m.all = append(m.all, t)
	return nil
}

// ByType looks a descriptor up by its Go type.
func (m *Manager) ByType(rt reflect.Type) (*Type, bool) {
	t, ok := m.byType[rt]
	return t, ok
}

// ByName looks a descriptor up by singular or plural name,
// case-insensitively.
func (m *Manager) ByName(name string) (*Type, bool) {
	e, ok := m.byName[strings.ToLower(name)]
	return e.t, ok
}

// PatternType resolves a placeholder type name to a PatternType. The
// plurality comes from the entry the spelling actually resolved to, not
// from comparing the name against the type's plural form.
func (m *Manager) PatternType(name string) (PatternType, bool) {
	e, ok := m.byName[strings.ToLower(name)]
	if !ok {
		return PatternType{}, false
	}
	return PatternType{T: e.t, Single: e.single}, true
}

// All returns every registered descriptor in registration order.
func (m *Manager) All() []*Type {
	return m.all
}
