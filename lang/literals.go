package lang

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/chaossafti/skript-parser/types"
)

// SimpleLiteral is a fixed value (or values) of one type.
type SimpleLiteral struct {
	typ    reflect.Type
	values []any
	str    func(any) string
}

// NewSimpleLiteral creates a literal of the given type.
func NewSimpleLiteral(typ reflect.Type, values ...any) *SimpleLiteral {
	return &SimpleLiteral{typ: typ, values: values}
}

// SetToString attaches the type's renderer, used by ToString.
func (l *SimpleLiteral) SetToString(fn func(any) string) { l.str = fn }

func (l *SimpleLiteral) Init([]Expression, int, *ParseContext) bool { return true }

func (l *SimpleLiteral) GetValues(TriggerContext) []any { return l.values }

func (l *SimpleLiteral) LiteralValues() []any { return l.values }

func (l *SimpleLiteral) IsSingle() bool { return len(l.values) <= 1 }

func (l *SimpleLiteral) ReturnType() reflect.Type { return l.typ }

func (l *SimpleLiteral) ConvertedExpression(to reflect.Type) (Expression, bool) {
	if types.Assignable(l.typ, to) {
		return l, true
	}
	return nil, false
}

func (l *SimpleLiteral) ToString(ctx TriggerContext, debug bool) string {
	parts := make([]string, len(l.values))
	for i, v := range l.values {
		if l.str != nil {
			parts[i] = l.str(v)
		} else {
			parts[i] = fmt.Sprintf("%v", v)
		}
	}
	return strings.Join(parts, ", ")
}

// LiteralList is a list literal; every element is itself a literal.
type LiteralList struct {
	items []Literal
	typ   reflect.Type
	and   bool
}

// NewLiteralList creates a list literal with the common element type and the
// and/or flag.
func NewLiteralList(items []Literal, typ reflect.Type, and bool) *LiteralList {
	return &LiteralList{items: items, typ: typ, and: and}
}

func (l *LiteralList) Init([]Expression, int, *ParseContext) bool { return true }

func (l *LiteralList) GetValues(TriggerContext) []any { return l.LiteralValues() }

func (l *LiteralList) LiteralValues() []any {
	var out []any
	for _, it := range l.items {
		out = append(out, it.LiteralValues()...)
	}
	return out
}

func (l *LiteralList) IsSingle() bool { return false }

// IsAndList reports whether the separators made this an and-list.
func (l *LiteralList) IsAndList() bool { return l.and }

// Elements returns the member literals in source order.
func (l *LiteralList) Elements() []Literal { return l.items }

func (l *LiteralList) ReturnType() reflect.Type { return l.typ }

func (l *LiteralList) ConvertedExpression(to reflect.Type) (Expression, bool) {
	if types.Assignable(l.typ, to) {
		return l, true
	}
	return nil, false
}

func (l *LiteralList) ToString(ctx TriggerContext, debug bool) string {
	return joinExpressions(literalsToExpressions(l.items), l.and, ctx, debug)
}

// ExpressionList is a list of arbitrary expressions.
type ExpressionList struct {
	items []Expression
	typ   reflect.Type
	and   bool
}

// NewExpressionList creates an expression list with the common element type
// and the and/or flag.
func NewExpressionList(items []Expression, typ reflect.Type, and bool) *ExpressionList {
	return &ExpressionList{items: items, typ: typ, and: and}
}

func (l *ExpressionList) Init([]Expression, int, *ParseContext) bool { return true }

func (l *ExpressionList) GetValues(ctx TriggerContext) []any {
	var out []any
	for _, it := range l.items {
		out = append(out, it.GetValues(ctx)...)
	}
	return out
}

func (l *ExpressionList) IsSingle() bool { return false }

// IsAndList reports whether the separators made this an and-list.
func (l *ExpressionList) IsAndList() bool { return l.and }

// Elements returns the member expressions in source order.
func (l *ExpressionList) Elements() []Expression { return l.items }

func (l *ExpressionList) ReturnType() reflect.Type { return l.typ }

func (l *ExpressionList) ConvertedExpression(to reflect.Type) (Expression, bool) {
	if types.Assignable(l.typ, to) {
		return l, true
	}
	return nil, false
}

func (l *ExpressionList) ToString(ctx TriggerContext, debug bool) string {
	return joinExpressions(l.items, l.and, ctx, debug)
}

func literalsToExpressions(ls []Literal) []Expression {
	out := make([]Expression, len(ls))
	for i, l := range ls {
		out[i] = l
	}
	return out
}

func joinExpressions(items []Expression, and bool, ctx TriggerContext, debug bool) string {
	sep := " or "
	if and {
		sep = " and "
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = it.ToString(ctx, debug)
	}
	if len(parts) > 2 {
		return strings.Join(parts[:len(parts)-1], ", ") + sep + parts[len(parts)-1]
	}
	return strings.Join(parts, sep)
}

// ConvertedValues wraps an expression so its values are coerced to another
// type through a converter function.
type ConvertedValues struct {
	inner Expression
	to    reflect.Type
	conv  func([]any) []any
}

// NewConvertedValues creates the coercing view used by the dispatcher when
// an expression's return type needs the converter graph.
func NewConvertedValues(inner Expression, to reflect.Type, conv func([]any) []any) *ConvertedValues {
	return &ConvertedValues{inner: inner, to: to, conv: conv}
}

func (c *ConvertedValues) Init([]Expression, int, *ParseContext) bool { return true }

func (c *ConvertedValues) GetValues(ctx TriggerContext) []any {
	return c.conv(c.inner.GetValues(ctx))
}

func (c *ConvertedValues) IsSingle() bool { return c.inner.IsSingle() }

func (c *ConvertedValues) ReturnType() reflect.Type { return c.to }

func (c *ConvertedValues) ConvertedExpression(to reflect.Type) (Expression, bool) {
	if types.Assignable(c.to, to) {
		return c, true
	}
	return c.inner.ConvertedExpression(to)
}

func (c *ConvertedValues) ToString(ctx TriggerContext, debug bool) string {
	return c.inner.ToString(ctx, debug)
}

// Source returns the wrapped expression.
func (c *ConvertedValues) Source() Expression { return c.inner }
