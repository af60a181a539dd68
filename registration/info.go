// Package registration catalogs the syntax kinds the parser dispatches on:
// expressions, effects, sections and events, each described by a SyntaxInfo
// carrying compiled patterns, a factory and a dispatch priority.
package registration

import (
	"fmt"
	"reflect"

	"github.com/chaossafti/skript-parser/lang"
	"github.com/chaossafti/skript-parser/pattern"
	"github.com/chaossafti/skript-parser/types"
)

// Factory builds a fresh element instance per match attempt.
type Factory func() lang.SyntaxElement

// SyntaxInfo describes one registered syntax kind. Immutable after
// registration; shared by the registry and the recency lists.
type SyntaxInfo struct {
	registerer Addon
	elemType   reflect.Type
	priority   int
	patterns   []*pattern.Pattern
	factory    Factory
	data       map[string]any
}

// NewSyntaxInfo creates an info record. The factory is required; elemType
// identifies the element implementation for restriction checks.
func NewSyntaxInfo(registerer Addon, elemType reflect.Type, priority int, patterns []*pattern.Pattern, factory Factory) *SyntaxInfo {
	return &SyntaxInfo{
		registerer: registerer,
		elemType:   elemType,
		priority:   priority,
		patterns:   patterns,
		factory:    factory,
		data:       make(map[string]any),
	}
}

// Registerer returns the addon that registered this syntax.
func (i *SyntaxInfo) Registerer() Addon { return i.registerer }

// ElementType identifies the element implementation.
func (i *SyntaxInfo) ElementType() reflect.Type { return i.elemType }

// Priority orders registry dispatch; higher is tried first.
func (i *SyntaxInfo) Priority() int { return i.priority }

// Patterns returns the compiled patterns in declaration order.
func (i *SyntaxInfo) Patterns() []*pattern.Pattern { return i.patterns }

// SetData attaches auxiliary data to the info.
func (i *SyntaxInfo) SetData(key string, v any) { i.data[key] = v }

// Data retrieves auxiliary data by key.
func (i *SyntaxInfo) Data(key string) (any, bool) {
	v, ok := i.data[key]
	return v, ok
}

// ParsingDisallowed is returned by an init validator to veto an
// instantiation.
type ParsingDisallowed struct {
	Info    *SyntaxInfo
	Message string
}

func (e *ParsingDisallowed) Error() string {
	return fmt.Sprintf("parsing disallowed for %v: %s", e.Info.ElementType(), e.Message)
}

// InitValidator inspects an info before an element is instantiated and may
// veto by returning a *ParsingDisallowed error.
type InitValidator func(info *SyntaxInfo) error

var initValidators []InitValidator

// AddInitValidator installs a process-wide instantiation validator. Meant
// to run at startup, before any parsing begins.
func AddInitValidator(v InitValidator) {
	initValidators = append(initValidators, v)
}

// ResetInitValidators removes every installed validator. For embedders
// that tear their engine down, and for tests.
func ResetInitValidators() {
	initValidators = nil
}

// CreateInstance runs the validators and invokes the factory.
func (i *SyntaxInfo) CreateInstance() (lang.SyntaxElement, error) {
	for _, v := range initValidators {
		if err := v(i); err != nil {
			return nil, err
		}
	}
	return i.factory(), nil
}

// ExpressionInfo is a SyntaxInfo for an expression, with its declared
// return type.
type ExpressionInfo struct {
	SyntaxInfo
	returnType types.PatternType
}

// NewExpressionInfo creates an expression info with the declared return
// type and plurality.
func NewExpressionInfo(registerer Addon, elemType reflect.Type, returnType *types.Type, isSingle bool, priority int, patterns []*pattern.Pattern, factory Factory) *ExpressionInfo {
	return &ExpressionInfo{
		SyntaxInfo: *NewSyntaxInfo(registerer, elemType, priority, patterns, factory),
		returnType: types.PatternType{T: returnType, Single: isSingle},
	}
}

// ReturnType returns the declared return type and plurality.
func (i *ExpressionInfo) ReturnType() types.PatternType { return i.returnType }

// AsSyntaxInfo exposes the embedded SyntaxInfo record.
func (i *ExpressionInfo) AsSyntaxInfo() *SyntaxInfo { return &i.SyntaxInfo }

// EventInfo is a SyntaxInfo for an event, with the trigger contexts the
// event handles.
type EventInfo struct {
	SyntaxInfo
	contexts []reflect.Type
}

// NewEventInfo creates an event info with its handled context types.
func NewEventInfo(registerer Addon, elemType reflect.Type, contexts []reflect.Type, priority int, patterns []*pattern.Pattern, factory Factory) *EventInfo {
	return &EventInfo{
		SyntaxInfo: *NewSyntaxInfo(registerer, elemType, priority, patterns, factory),
		contexts:   contexts,
	}
}

// Contexts returns the trigger context types the event handles.
func (i *EventInfo) Contexts() []reflect.Type { return i.contexts }

// AsSyntaxInfo exposes the embedded SyntaxInfo record.
func (i *EventInfo) AsSyntaxInfo() *SyntaxInfo { return &i.SyntaxInfo }
