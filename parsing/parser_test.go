package parsing

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaossafti/skript-parser/base"
	"github.com/chaossafti/skript-parser/file"
	"github.com/chaossafti/skript-parser/lang"
	sklog "github.com/chaossafti/skript-parser/log"
	"github.com/chaossafti/skript-parser/pattern"
	"github.com/chaossafti/skript-parser/registration"
)

// tagExpr is a string expression used to observe which info won a parse.
// inits counts Init calls, which happen only after a pattern match.
type tagExpr struct {
	tag   string
	inits *int
}

func (e *tagExpr) Init([]lang.Expression, int, *lang.ParseContext) bool {
	if e.inits != nil {
		*e.inits++
	}
	return true
}
func (e *tagExpr) GetValues(lang.TriggerContext) []any                  { return []any{e.tag} }
func (e *tagExpr) IsSingle() bool                                       { return true }
func (e *tagExpr) ReturnType() reflect.Type                             { return base.StringType }
func (e *tagExpr) ConvertedExpression(reflect.Type) (lang.Expression, bool) {
	return nil, false
}
func (e *tagExpr) ToString(lang.TriggerContext, bool) string { return e.tag }

// condAlways is a conditional-capable boolean expression.
type condAlways struct{}

func (e *condAlways) Init([]lang.Expression, int, *lang.ParseContext) bool { return true }
func (e *condAlways) GetValues(lang.TriggerContext) []any                  { return []any{true} }
func (e *condAlways) IsSingle() bool                                       { return true }
func (e *condAlways) ReturnType() reflect.Type                             { return base.BoolType }
func (e *condAlways) ConvertedExpression(reflect.Type) (lang.Expression, bool) {
	return nil, false
}
func (e *condAlways) ToString(lang.TriggerContext, bool) string { return "always" }
func (e *condAlways) ConditionalMarker()                        {}

// boolFlag is a plain boolean expression without the conditional marker.
type boolFlag struct{}

func (e *boolFlag) Init([]lang.Expression, int, *lang.ParseContext) bool { return true }
func (e *boolFlag) GetValues(lang.TriggerContext) []any                  { return []any{true} }
func (e *boolFlag) IsSingle() bool                                       { return true }
func (e *boolFlag) ReturnType() reflect.Type                             { return base.BoolType }
func (e *boolFlag) ConvertedExpression(reflect.Type) (lang.Expression, bool) {
	return nil, false
}
func (e *boolFlag) ToString(lang.TriggerContext, bool) string { return "flagged" }

func parseExpr(t *testing.T, env *testEnv, s, typeName string) (lang.Expression, bool, *sklog.SkriptLogger) {
	t.Helper()
	pt, ok := env.Types.PatternType(typeName)
	require.True(t, ok)
	logger := sklog.New(false)
	expr, matched := env.Parser.ParseExpression(s, pt, lang.NewParserState(), logger)
	return expr, matched, logger
}

func TestRecencyWinsAmbiguousMatch(t *testing.T) {
	env := newTestEnv(t)
	countA, countB := 0, 0

	require.NoError(t, env.reg.AddExpression(func() lang.SyntaxElement {
		return &tagExpr{tag: "A", inits: &countA}
	}, base.StringType, true, 0, "alpha", "common"))
	require.NoError(t, env.reg.AddExpression(func() lang.SyntaxElement {
		return &tagExpr{tag: "B", inits: &countB}
	}, base.StringType, true, 0, "common"))

	// First parse: only A's pattern matches, so A enters the recency list.
	expr, ok, _ := parseExpr(t, env, "alpha", "object")
	require.True(t, ok)
	assert.Equal(t, "A", expr.(*tagExpr).tag)

	// Second parse is ambiguous. Registry order would pick B (registered
	// later at equal priority), but recency places A first.
	expr, ok, _ = parseExpr(t, env, "common", "object")
	require.True(t, ok)
	assert.Equal(t, "A", expr.(*tagExpr).tag)

	assert.Equal(t, 2, countA)
	assert.Equal(t, 0, countB, "the remainder must not be walked once recency hits")
}

func TestBooleanConditionalModes(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.reg.AddExpression(func() lang.SyntaxElement {
		return &condAlways{}
	}, base.BoolType, true, 0, "always"))
	require.NoError(t, env.reg.AddExpression(func() lang.SyntaxElement {
		return &boolFlag{}
	}, base.BoolType, true, 0, "flagged"))

	tests := []struct {
		input string
		mode  pattern.ConditionalMode
		ok    bool
	}{
		{"always", pattern.Conditional, true},
		{"always", pattern.MaybeConditional, true},
		{"always", pattern.NotConditional, false},
		{"flagged", pattern.Conditional, false},
		{"flagged", pattern.MaybeConditional, true},
		{"flagged", pattern.NotConditional, true},
		{"true", pattern.MaybeConditional, true},
	}
	for _, tt := range tests {
		logger := sklog.New(false)
		_, ok := env.Parser.ParseBooleanExpression(tt.input, tt.mode, lang.NewParserState(), logger)
		assert.Equal(t, tt.ok, ok, "input %q mode %v", tt.input, tt.mode)
	}
}

func TestListLiteralCombiningRule(t *testing.T) {
	env := newTestEnv(t)
	pt := objectsType(t, env)

	tests := []struct {
		input string
		and   bool
	}{
		{"1, 2 and 3", true},
		{"1, 2 or 3", false},
		{"1 and 2 or 3", true},
		{"1, 2, 3", true},
		{"1 nor 2", true},
	}
	for _, tt := range tests {
		logger := sklog.New(false)
		expr, ok := env.Parser.ParseListLiteral(tt.input, pt, lang.NewParserState(), logger)
		require.True(t, ok, "input %q", tt.input)
		list, isList := expr.(*lang.LiteralList)
		require.True(t, isList, "input %q produced %T", tt.input, expr)
		assert.Equal(t, tt.and, list.IsAndList(), "input %q", tt.input)
	}
}

func TestListLiteralRejectsEmptyElement(t *testing.T) {
	env := newTestEnv(t)
	pt := objectsType(t, env)
	logger := sklog.New(false)

	if _, ok := env.Parser.ParseListLiteral("1, , 3", pt, lang.NewParserState(), logger); ok {
		t.Error("a zero-length component must not parse as a list")
	}
}

func TestListSeparatorsInsideGroupsIgnored(t *testing.T) {
	env := newTestEnv(t)
	pt := objectsType(t, env)
	logger := sklog.New(false)

	expr, ok := env.Parser.ParseListLiteral(`"a, b" and "c"`, pt, lang.NewParserState(), logger)
	require.True(t, ok)
	list, isList := expr.(*lang.LiteralList)
	require.True(t, isList, "got %T", expr)
	require.Len(t, list.Elements(), 2, "the comma inside quotes must not split")
}

func TestNoMatchCarriesFuzzyTip(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.reg.AddExpression(func() lang.SyntaxElement {
		return &tagExpr{tag: "A"}
	}, base.StringType, true, 0, "alpha"))

	_, ok, logger := parseExpr(t, env, "alpa", "object")
	require.False(t, ok)

	entries := logger.Close()
	entry, found := findError(entries, sklog.NoMatch)
	require.True(t, found, "log: %v", entries)
	assert.Contains(t, entry.Tip, "alpha")
}

func TestSemanticErrorsDiscardedOnLaterSuccess(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.reg.AddExpression(func() lang.SyntaxElement {
		return &tagExpr{tag: "A"}
	}, base.StringType, true, 0, "thing"))

	expr, ok, logger := parseExpr(t, env, "thing", "object")
	require.True(t, ok)
	require.NotNil(t, expr)
	assert.Empty(t, logger.Close(), "a successful parse must leave no diagnostics")
}

func TestInitValidatorVetoSurfacesException(t *testing.T) {
	defer registration.ResetInitValidators()
	env := newTestEnv(t)
	registration.AddInitValidator(func(info *registration.SyntaxInfo) error {
		if info.ElementType() == effSetType {
			return &registration.ParsingDisallowed{Info: info, Message: "vetoed"}
		}
		return nil
	})

	result, _ := loadSource(t, env, "on load:\n\tset {x} to 5\n")
	require.True(t, result.Successful())
	assert.Empty(t, chain(result.Script().Triggers()[0].First()))

	entry, found := findError(result.Log(), sklog.Exception)
	require.True(t, found, "log: %v", result.Log())
	assert.Contains(t, entry.Message, "vetoed")
}

// secSandbox forbids the test effect inside its body.
type secSandbox struct {
	lang.BaseSection
}

func (s *secSandbox) Init([]lang.Expression, int, *lang.ParseContext) bool { return true }

func (s *secSandbox) LoadSection(loader lang.ItemLoader, sec *file.Section, state *lang.ParserState, logger *sklog.SkriptLogger) bool {
	state.SetSyntaxRestrictions(false, true, effSetType)
	defer state.ClearSyntaxRestrictions()
	return s.BaseSection.LoadSection(loader, sec, state, logger)
}

func (s *secSandbox) Walk(ctx lang.TriggerContext) lang.Statement {
	s.RunBody(ctx)
	return s.Next()
}

func (s *secSandbox) ToString(lang.TriggerContext, bool) string { return "sandbox" }

func TestRestrictedSyntaxInsideSection(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.reg.AddSection(func() lang.SyntaxElement {
		return &secSandbox{}
	}, 0, "sandbox"))

	result, _ := loadSource(t, env, "on load:\n\tsandbox:\n\t\tset {x} to 5\n")
	require.True(t, result.Successful())

	entry, found := findError(result.Log(), sklog.RestrictedSyntax)
	require.True(t, found, "log: %v", result.Log())
	assert.True(t, strings.Contains(entry.Message, "does not allow"), "message: %s", entry.Message)

	stmts := chain(result.Script().Triggers()[0].First())
	require.Len(t, stmts, 1)
	sandbox, ok := stmts[0].(*secSandbox)
	require.True(t, ok)
	assert.Empty(t, sandbox.Items(), "the forbidden effect must not load")
}

func TestParenthesesUnwrapped(t *testing.T) {
	env := newTestEnv(t)
	expr, ok, _ := parseExpr(t, env, "(5)", "object")
	require.True(t, ok)
	lit, isLit := expr.(lang.Literal)
	require.True(t, isLit, "got %T", expr)
	assert.Equal(t, []int64{5}, bigInts(lit.LiteralValues()))
}

func TestVariableStringLiteral(t *testing.T) {
	env := newTestEnv(t)
	expr, ok, _ := parseExpr(t, env, `"hello there"`, "string")
	require.True(t, ok)
	vs, isVS := expr.(*lang.VariableString)
	require.True(t, isVS, "got %T", expr)
	assert.True(t, vs.IsSimple())
	assert.Equal(t, "hello there", vs.Value(lang.DummyContext{}))
}

func TestIndexedVariableExpression(t *testing.T) {
	env := newTestEnv(t)
	env.Variables.Set("who", "alice")
	env.Variables.Set("kills::alice", 7)
	env.Variables.Set("kills::1", 3)

	// The index is itself an expression, here a nested variable.
	expr, ok, _ := parseExpr(t, env, "{kills::%{who}%}", "object")
	require.True(t, ok)
	v, isVar := expr.(*lang.Variable)
	require.True(t, isVar, "got %T", expr)
	require.NotNil(t, v.Index())
	assert.Equal(t, []any{7}, v.GetValues(lang.DummyContext{}))

	// A bare index is a literal key.
	expr, ok, _ = parseExpr(t, env, "{kills::1}", "object")
	require.True(t, ok)
	v = expr.(*lang.Variable)
	require.NotNil(t, v.Index())
	assert.Equal(t, []any{3}, v.GetValues(lang.DummyContext{}))
}

func TestPluralVariableRejectedForSingleTarget(t *testing.T) {
	env := newTestEnv(t)
	logger := sklog.New(false)
	pt, ok := env.Types.PatternType("object")
	require.True(t, ok)

	_, matched := env.Parser.ParseExpression("{xs::*}", pt, lang.NewParserState(), logger)
	require.False(t, matched)

	entry, found := findError(logger.Close(), sklog.SemanticError)
	require.True(t, found)
	assert.Contains(t, entry.Message, "single value was expected")
}
