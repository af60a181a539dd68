// Package base registers the default types, converters, comparators and
// core syntax every engine needs before scripts can parse: object, boolean,
// integer, number and string, the script-load event, and the two looping
// sections.
package base

import (
	"math/big"
	"reflect"
	"regexp"
	"strings"

	"github.com/chaossafti/skript-parser/registration"
	"github.com/chaossafti/skript-parser/types"
)

var (
	BoolType    = reflect.TypeOf(true)
	StringType  = reflect.TypeOf("")
	IntegerType = reflect.TypeOf((*big.Int)(nil))
	NumberType  = reflect.TypeOf((*big.Float)(nil))
)

var (
	integerPattern = regexp.MustCompile(`^-?[0-9]+$`)
	decimalPattern = regexp.MustCompile(`^-?[0-9]+\.[0-9]+$`)
)

// DefaultAddon is the registerer for everything this package installs.
var DefaultAddon = registration.BaseAddon{AddonName: "skript"}

// Register installs the default types, converters, comparators, events and
// sections into the given registration façade.
func Register(reg *registration.SkriptRegistration) error {
	if err := registerTypes(reg); err != nil {
		return err
	}
	registerConverters(reg)
	registerComparators(reg)
	return registerSyntax(reg)
}

func registerTypes(reg *registration.SkriptRegistration) error {
	if err := reg.AddType(types.AnyType, "object", "objects"); err != nil {
		return err
	}
	if err := reg.NewType(BoolType, "boolean", "booleans").
		ToStringFunc(func(v any) string {
			if b, ok := v.(bool); ok && b {
				return "true"
			}
			return "false"
		}).
		Register(); err != nil {
		return err
	}
	if err := reg.NewType(IntegerType, "integer", "integers").
		LiteralParser(parseIntegerLiteral).
		ToStringFunc(func(v any) string { return v.(*big.Int).String() }).
		Arithmetic(integerArithmetic()).
		Register(); err != nil {
		return err
	}
	if err := reg.NewType(NumberType, "number", "numbers").
		LiteralParser(parseNumberLiteral).
		ToStringFunc(formatNumber).
		Arithmetic(numberArithmetic()).
		Register(); err != nil {
		return err
	}
	return reg.AddType(StringType, "string", "strings")
}

// parseIntegerLiteral accepts decimal integers with underscore grouping,
// rejecting leading or trailing underscores.
func parseIntegerLiteral(s string) (any, bool) {
	if strings.HasPrefix(s, "_") || strings.HasSuffix(s, "_") {
		return nil, false
	}
	s = strings.ReplaceAll(s, "_", "")
	if !integerPattern.MatchString(s) {
		return nil, false
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, false
	}
	return n, true
}

// parseNumberLiteral accepts decimal fractions; plain integers are the
// integer type's job and reach number through the converter.
func parseNumberLiteral(s string) (any, bool) {
	if strings.HasPrefix(s, "_") || strings.HasSuffix(s, "_") {
		return nil, false
	}
	s = strings.ReplaceAll(s, "_", "")
	if !decimalPattern.MatchString(s) {
		return nil, false
	}
	f, _, err := big.ParseFloat(s, 10, 128, big.ToNearestEven)
	if err != nil {
		return nil, false
	}
	return f, true
}

func formatNumber(v any) string {
	return strings.TrimRight(strings.TrimRight(v.(*big.Float).Text('f', 10), "0"), ".")
}

func integerArithmetic() *types.Arithmetic {
	return &types.Arithmetic{
		Difference: func(a, b any) any {
			return new(big.Int).Abs(new(big.Int).Sub(a.(*big.Int), b.(*big.Int)))
		},
		Add: func(v, d any) any {
			return new(big.Int).Add(v.(*big.Int), d.(*big.Int))
		},
		Subtract: func(v, d any) any {
			return new(big.Int).Sub(v.(*big.Int), d.(*big.Int))
		},
		Relative: IntegerType,
	}
}

func numberArithmetic() *types.Arithmetic {
	return &types.Arithmetic{
		Difference: func(a, b any) any {
			return new(big.Float).Abs(new(big.Float).Sub(toFloat(a), toFloat(b)))
		},
		Add: func(v, d any) any {
			return new(big.Float).Add(toFloat(v), toFloat(d))
		},
		Subtract: func(v, d any) any {
			return new(big.Float).Sub(toFloat(v), toFloat(d))
		},
		Relative: NumberType,
	}
}

func registerConverters(reg *registration.SkriptRegistration) {
	reg.AddConverter(IntegerType, NumberType, func(v any) (any, bool) {
		return new(big.Float).SetInt(v.(*big.Int)), true
	})
	reg.AddConverter(IntegerType, StringType, func(v any) (any, bool) {
		return v.(*big.Int).String(), true
	})
	reg.AddConverter(NumberType, StringType, func(v any) (any, bool) {
		return formatNumber(v), true
	})
	reg.AddConverter(BoolType, StringType, func(v any) (any, bool) {
		if v.(bool) {
			return "true", true
		}
		return "false", true
	})
}

func registerComparators(reg *registration.SkriptRegistration) {
	numeric := func(a, b any) types.Relation {
		switch toFloat(a).Cmp(toFloat(b)) {
		case -1:
			return types.Smaller
		case 1:
			return types.Greater
		default:
			return types.Equal
		}
	}
	reg.AddComparator(IntegerType, IntegerType, numeric)
	reg.AddComparator(NumberType, NumberType, numeric)
	reg.AddComparator(IntegerType, NumberType, numeric)
	reg.AddComparator(BoolType, BoolType, func(a, b any) types.Relation {
		if a.(bool) == b.(bool) {
			return types.Equal
		}
		return types.NotComparable
	})
}

func toFloat(v any) *big.Float {
	switch n := v.(type) {
	case *big.Int:
		return new(big.Float).SetInt(n)
	case *big.Float:
		return n
	default:
		return new(big.Float)
	}
}
