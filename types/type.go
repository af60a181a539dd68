// Package types holds the runtime type descriptors the pattern language
// dispatches on: named types with literal parsers, string renderers and
// arithmetic, a converter graph between them, and comparators.
package types

import (
	"fmt"
	"reflect"
)

// LiteralParser turns source text into a value of the type, or reports that
// the text is not a literal of this type.
type LiteralParser func(s string) (any, bool)

// ToStringFunc renders a runtime value of the type for user-facing output.
type ToStringFunc func(v any) string

// Arithmetic is the difference/add/subtract table a type may carry.
type Arithmetic struct {
	Difference func(first, second any) any
	Add        func(value, difference any) any
	Subtract   func(value, difference any) any
	Relative   reflect.Type
}

// Type describes one registered runtime type.
type Type struct {
	rtype         reflect.Type
	baseName      string
	pluralName    string
	literalParser LiteralParser
	toString      ToStringFunc
	arithmetic    *Arithmetic
}

// NewType creates a type descriptor. The plural name is spelled out in full
// ("number", "numbers") rather than with an affix pattern.
func NewType(rtype reflect.Type, baseName, pluralName string) *Type {
	return &Type{rtype: rtype, baseName: baseName, pluralName: pluralName}
}

// Configure attaches the optional behaviors of the type. Called once by the
// registration layer before the type enters the manager.
func (t *Type) Configure(parser LiteralParser, toString ToStringFunc, arithmetic *Arithmetic) {
	t.literalParser = parser
	t.toString = toString
	t.arithmetic = arithmetic
}

// Reflect returns the Go type this descriptor stands for.
func (t *Type) Reflect() reflect.Type { return t.rtype }

// BaseName returns the singular name used in patterns.
func (t *Type) BaseName() string { return t.baseName }

// PluralName returns the plural name used in patterns.
func (t *Type) PluralName() string { return t.pluralName }

// LiteralParser returns the literal parser, or nil.
func (t *Type) LiteralParser() LiteralParser { return t.literalParser }

// Arithmetic returns the arithmetic table, or nil.
func (t *Type) Arithmetic() *Arithmetic { return t.arithmetic }

// ToString renders a value of this type, falling back to fmt formatting when
// no renderer was registered.
func (t *Type) ToString(v any) string {
	if t.toString != nil {
		return t.toString(v)
	}
	return fmt.Sprintf("%v", v)
}

func (t *Type) String() string { return t.baseName }

// PatternType pairs a type with the single/plural flag a placeholder
// declared.
type PatternType struct {
	T      *Type
	Single bool
}

func (p PatternType) String() string {
	if p.Single {
		return p.T.BaseName()
	}
	return p.T.PluralName()
}

// AnyType is the reflect type for any, the root of assignability.
var AnyType = reflect.TypeOf((*any)(nil)).Elem()

// Assignable reports whether a value of type from may be used where to is
// expected, without conversion.
func Assignable(from, to reflect.Type) bool {
	if from == nil || to == nil {
		return false
	}
	if to == AnyType {
		return true
	}
	return from.AssignableTo(to)
}

// CommonSuperclass returns the most specific type every given type is
// assignable to. With Go's flat type system that is the shared identical
// type, or any.
func CommonSuperclass(ts ...reflect.Type) reflect.Type {
	if len(ts) == 0 {
		return AnyType
	}
	first := ts[0]
	for _, t := range ts[1:] {
		if t != first {
			return AnyType
		}
	}
	if first == nil {
		return AnyType
	}
	return first
}
