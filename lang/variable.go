package lang

import (
	"fmt"
	"reflect"

	"github.com/chaossafti/skript-parser/types"
)

// VariableStore is the runtime slot storage variables read from and write
// to. The engine supplies an implementation; the parser only needs the
// interface.
type VariableStore interface {
	Get(name string) (any, bool)
	// List returns the values of every slot under the given list prefix, in
	// insertion order.
	List(prefix string) []any
	Set(name string, v any)
	Delete(name string)
}

// Variable references a named runtime slot, written {name} in source. An
// indexed reference {name::%index%} resolves its index expression at
// runtime and reads the list slot it names; {name::*} references the whole
// list.
type Variable struct {
	name  string
	list  bool
	index Expression
	typ   reflect.Type
	store VariableStore
}

// NewVariable creates a plain or whole-list variable reference. typ is the
// type the surrounding pattern expects the slot to produce.
func NewVariable(name string, list bool, typ reflect.Type, store VariableStore) *Variable {
	return &Variable{name: name, list: list, typ: typ, store: store}
}

// NewIndexedVariable creates a reference to one list slot; the index
// expression is evaluated per access.
func NewIndexedVariable(name string, index Expression, typ reflect.Type, store VariableStore) *Variable {
	return &Variable{name: name, index: index, typ: typ, store: store}
}

// Name returns the slot name without braces.
func (v *Variable) Name() string { return v.name }

// IsList reports whether this references a whole list.
func (v *Variable) IsList() bool { return v.list }

// Index returns the index expression of an indexed reference, nil for
// plain and whole-list references.
func (v *Variable) Index() Expression { return v.index }

func (v *Variable) Init([]Expression, int, *ParseContext) bool { return true }

// slot resolves the store key this reference points at, evaluating the
// index expression when present.
func (v *Variable) slot(ctx TriggerContext) (string, bool) {
	if v.index == nil {
		return v.name, true
	}
	iv, ok := GetSingle(v.index, ctx)
	if !ok {
		return "", false
	}
	if s, ok := iv.(string); ok {
		return v.name + "::" + s, true
	}
	return fmt.Sprintf("%s::%v", v.name, iv), true
}

func (v *Variable) GetValues(ctx TriggerContext) []any {
	if v.list {
		return v.store.List(v.name)
	}
	key, ok := v.slot(ctx)
	if !ok {
		return nil
	}
	if val, ok := v.store.Get(key); ok {
		return []any{val}
	}
	return nil
}

// Change sets the referenced slot to a new value.
func (v *Variable) Change(ctx TriggerContext, value any) {
	if key, ok := v.slot(ctx); ok {
		v.store.Set(key, value)
	}
}

func (v *Variable) IsSingle() bool { return !v.list }

func (v *Variable) ReturnType() reflect.Type { return v.typ }

func (v *Variable) ConvertedExpression(to reflect.Type) (Expression, bool) {
	if types.Assignable(v.typ, to) || to == types.AnyType {
		clone := *v
		clone.typ = to
		return &clone, true
	}
	return nil, false
}

func (v *Variable) ToString(ctx TriggerContext, debug bool) string {
	switch {
	case v.list:
		return fmt.Sprintf("{%s::*}", v.name)
	case v.index != nil:
		return fmt.Sprintf("{%s::%%%s%%}", v.name, v.index.ToString(ctx, debug))
	default:
		return fmt.Sprintf("{%s}", v.name)
	}
}
