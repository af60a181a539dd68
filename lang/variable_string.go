package lang

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/chaossafti/skript-parser/types"
)

var stringType = reflect.TypeOf("")

// VariableString is a quoted string, possibly with percent-delimited
// expression interpolations: "hello %name%".
type VariableString struct {
	// parts alternate raw string segments and embedded expressions.
	parts []any
}

// NewVariableString builds a variable string from its parts; each part is
// either a string or an Expression.
func NewVariableString(parts ...any) *VariableString {
	return &VariableString{parts: parts}
}

// IsSimple reports whether the string has no interpolations and is
// therefore a parse-time constant.
func (v *VariableString) IsSimple() bool {
	for _, p := range v.parts {
		if _, ok := p.(Expression); ok {
			return false
		}
	}
	return true
}

// Value renders the string against a context.
func (v *VariableString) Value(ctx TriggerContext) string {
	var b strings.Builder
	for _, p := range v.parts {
		switch part := p.(type) {
		case string:
			b.WriteString(part)
		case Expression:
			vals := part.GetValues(ctx)
			for i, val := range vals {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(toDisplay(val))
			}
		}
	}
	return b.String()
}

func (v *VariableString) Init([]Expression, int, *ParseContext) bool { return true }

func (v *VariableString) GetValues(ctx TriggerContext) []any {
	return []any{v.Value(ctx)}
}

func (v *VariableString) IsSingle() bool { return true }

func (v *VariableString) ReturnType() reflect.Type { return stringType }

func (v *VariableString) ConvertedExpression(to reflect.Type) (Expression, bool) {
	if types.Assignable(stringType, to) {
		return v, true
	}
	return nil, false
}

func (v *VariableString) ToString(ctx TriggerContext, debug bool) string {
	if debug {
		return "\"" + v.Value(ctx) + "\""
	}
	return v.Value(ctx)
}

func toDisplay(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
