// Package variables recognizes {name} references in source text and backs
// them with an in-memory slot store.
package variables

import (
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/chaossafti/skript-parser/lang"
	sklog "github.com/chaossafti/skript-parser/log"
)

// listSuffix marks a whole-list reference: {kills::*}.
const listSuffix = "::*"

// indexSeparator splits a slot name from its index: {kills::%player%}.
const indexSeparator = "::"

var stringType = reflect.TypeOf("")

// IndexParser parses the percent-delimited index of an indexed variable
// reference as an expression. The engine wires this to its expression
// parser; without one, only literal indexes are recognized.
type IndexParser func(s string, state *lang.ParserState, logger *sklog.SkriptLogger) (lang.Expression, bool)

// Parser recognizes variable references and binds them to a store.
type Parser struct {
	store lang.VariableStore
	index IndexParser
}

// NewParser creates a variable parser over the given store.
func NewParser(store lang.VariableStore) *Parser {
	return &Parser{store: store}
}

// Store returns the backing slot store.
func (p *Parser) Store() lang.VariableStore { return p.store }

// SetIndexParser installs the expression parser used for %index% parts.
func (p *Parser) SetIndexParser(fn IndexParser) { p.index = fn }

// ParseVariable parses {name}, {name::%index%} or {name::*}. Text that is
// not a variable reference fails silently so other expression kinds get
// their chance.
func (p *Parser) ParseVariable(s string, expected reflect.Type, state *lang.ParserState, logger *sklog.SkriptLogger) (lang.Expression, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 3 || s[0] != '{' || s[len(s)-1] != '}' {
		return nil, false
	}
	name := s[1 : len(s)-1]

	if trimmed, ok := strings.CutSuffix(name, listSuffix); ok {
		trimmed = strings.TrimSpace(trimmed)
		if trimmed == "" || strings.ContainsAny(trimmed, "{}") {
			return nil, false
		}
		return lang.NewVariable(trimmed, true, expected, p.store), true
	}

	if i := strings.Index(name, indexSeparator); i >= 0 {
		base := strings.TrimSpace(name[:i])
		idxText := strings.TrimSpace(name[i+len(indexSeparator):])
		if base == "" || idxText == "" || strings.ContainsAny(base, "{}") {
			return nil, false
		}
		index, ok := p.parseIndex(idxText, state, logger)
		if !ok {
			return nil, false
		}
		return lang.NewIndexedVariable(base, index, expected, p.store), true
	}

	if strings.ContainsAny(name, "{}") {
		return nil, false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false
	}
	return lang.NewVariable(name, false, expected, p.store), true
}

// parseIndex turns the text after :: into the index expression: a
// %-delimited part goes through the engine's expression parser, anything
// else is a literal key.
func (p *Parser) parseIndex(idxText string, state *lang.ParserState, logger *sklog.SkriptLogger) (lang.Expression, bool) {
	if strings.HasPrefix(idxText, "%") && strings.HasSuffix(idxText, "%") && len(idxText) > 2 {
		inner := strings.TrimSpace(idxText[1 : len(idxText)-1])
		if inner == "" || p.index == nil {
			return nil, false
		}
		logger.Recurse()
		expr, ok := p.index(inner, state, logger)
		logger.Callback()
		return expr, ok
	}
	if strings.ContainsAny(idxText, "{}%") {
		return nil, false
	}
	return lang.NewSimpleLiteral(stringType, idxText), true
}

// MapStore is the default in-memory variable store. List slots are stored
// under "name::key" and returned in key order.
type MapStore struct {
	mu    sync.RWMutex
	slots map[string]any
}

// NewMapStore creates an empty store.
func NewMapStore() *MapStore {
	return &MapStore{slots: make(map[string]any)}
}

func (m *MapStore) Get(name string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.slots[name]
	return v, ok
}

func (m *MapStore) List(prefix string) []any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	for k := range m.slots {
		if strings.HasPrefix(k, prefix+"::") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = m.slots[k]
	}
	return out
}

func (m *MapStore) Set(name string, v any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[name] = v
}

func (m *MapStore) Delete(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, name)
}
