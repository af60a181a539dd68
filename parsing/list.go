package parsing

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/chaossafti/skript-parser/core/invariant"
	"github.com/chaossafti/skript-parser/lang"
	sklog "github.com/chaossafti/skript-parser/log"
	"github.com/chaossafti/skript-parser/pattern"
	"github.com/chaossafti/skript-parser/types"
)

// listSeparator matches a list separator at the start of its input: a comma
// with surrounding whitespace, or the words and/or/nor with mandatory
// whitespace.
var listSeparator = regexp.MustCompile(`(?i)^(?:\s*,\s*|\s+(?:and|n?or)\s+)`)

// ParseListLiteral parses a top-level separated list, such as
// "1, 2 and 3". The expected type must be plural. The list is an and-list
// unless every word separator is or.
func (p *SyntaxParser) ParseListLiteral(s string, expected types.PatternType, state *lang.ParserState, logger *sklog.SkriptLogger) (lang.Expression, bool) {
	invariant.Precondition(!expected.Single, "list literals require a plural expected type")
	if !strings.Contains(s, ",") && !strings.Contains(s, "and") && !strings.Contains(s, "or") {
		return nil, false
	}

	parts, ok := splitList(s)
	if !ok || len(parts) == 1 {
		return nil, false
	}

	andList := listIsAndList(parts)

	var expressions []lang.Expression
	literalList := true
	for i := 0; i < len(parts); i += 2 {
		part := strings.TrimSpace(parts[i])
		logger.Recurse()
		expr, ok := p.ParseExpression(part, expected, state, logger)
		logger.Callback()
		if !ok {
			return nil, false
		}
		literalList = literalList && isLiteralElement(expr)
		expressions = append(expressions, expr)
	}

	if len(expressions) == 1 {
		return expressions[0], true
	}

	if literalList {
		literals := make([]lang.Literal, len(expressions))
		elemTypes := make([]reflect.Type, len(expressions))
		for i, expr := range expressions {
			literals[i] = toLiteral(expr)
			elemTypes[i] = literals[i].ReturnType()
		}
		return lang.NewLiteralList(literals, types.CommonSuperclass(elemTypes...), andList), true
	}

	elemTypes := make([]reflect.Type, len(expressions))
	for i, expr := range expressions {
		elemTypes[i] = expr.ReturnType()
	}
	return lang.NewExpressionList(expressions, types.CommonSuperclass(elemTypes...), andList), true
}

// splitList cuts s into alternating element and separator tokens,
// respecting the group-skipping scanner so separators inside parentheses,
// strings or variable braces do not count. A zero-length element makes the
// whole text a non-list.
func splitList(s string) ([]string, bool) {
	var parts []string
	last := 0
	i := 0
	for i < len(s) {
		if j := pattern.SkipGroup(s, i); j > i {
			i = j
			continue
		}
		c := s[i]
		if c == ' ' || c == ',' {
			if m := listSeparator.FindString(s[i:]); m != "" {
				if i == last {
					return nil, false
				}
				parts = append(parts, s[last:i], m)
				i += len(m)
				last = i
				continue
			}
		}
		i++
	}
	if last >= len(s) {
		// Trailing separator with no element after it.
		return nil, false
	}
	parts = append(parts, s[last:])
	return parts, true
}

// listIsAndList applies the combining rule: and/nor force an and-list; or
// makes it an or-list only when no and/nor appeared; bare commas default
// to and.
func listIsAndList(parts []string) bool {
	decided := false
	andList := false
	for i := 1; i < len(parts); i += 2 {
		sep := strings.ToLower(strings.TrimSpace(parts[i]))
		switch sep {
		case "and", "nor":
			andList = true
			decided = true
		case "or":
			andList = decided && andList
			decided = true
		}
	}
	if !decided {
		return true
	}
	return andList
}

func isLiteralElement(e lang.Expression) bool {
	if lang.IsLiteral(e) {
		return true
	}
	vs, ok := e.(*lang.VariableString)
	return ok && vs.IsSimple()
}

// toLiteral coerces a literal-list element to a Literal; simple variable
// strings become string literals.
func toLiteral(e lang.Expression) lang.Literal {
	if lit, ok := e.(lang.Literal); ok {
		return lit
	}
	vs, ok := e.(*lang.VariableString)
	invariant.Invariant(ok, "non-literal element in a literal list")
	return lang.NewSimpleLiteral(stringType, vs.Value(lang.DummyContext{}))
}
