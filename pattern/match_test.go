package pattern

import (
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/chaossafti/skript-parser/lang"
	sklog "github.com/chaossafti/skript-parser/log"
	"github.com/chaossafti/skript-parser/types"
)

// stubParser parses integer literals and {x}-style variables, enough to
// drive placeholder matching without the full dispatcher.
type stubParser struct {
	calls int
}

func (p *stubParser) ParseExpression(s string, expected types.PatternType, state *lang.ParserState, logger *sklog.SkriptLogger) (lang.Expression, bool) {
	p.calls++
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return lang.NewSimpleLiteral(reflect.TypeOf(0), n), true
	}
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") && !strings.ContainsAny(s[1:len(s)-1], "{}") {
		return lang.NewSimpleLiteral(types.AnyType, s), true
	}
	return nil, false
}

func (p *stubParser) ParseBooleanExpression(s string, mode ConditionalMode, state *lang.ParserState, logger *sklog.SkriptLogger) (lang.Expression, bool) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "true") || strings.EqualFold(s, "false") {
		return lang.NewSimpleLiteral(reflect.TypeOf(true), strings.EqualFold(s, "true")), true
	}
	return nil, false
}

func (p *stubParser) ParseLiteralExpression(s string, expected types.PatternType, state *lang.ParserState, logger *sklog.SkriptLogger) (lang.Expression, bool) {
	return p.ParseExpression(s, expected, state, logger)
}

func testTypes(t *testing.T) *types.Manager {
	t.Helper()
	tm := types.NewManager()
	for _, reg := range []struct {
		rt           reflect.Type
		name, plural string
	}{
		{types.AnyType, "object", "objects"},
		{reflect.TypeOf(true), "boolean", "booleans"},
	} {
		if err := tm.Register(types.NewType(reg.rt, reg.name, reg.plural)); err != nil {
			t.Fatalf("registering %s: %v", reg.name, err)
		}
	}
	return tm
}

func compileOrFail(t *testing.T, src string, tm *types.Manager) *Pattern {
	t.Helper()
	p, err := Compile(src, tm)
	if err != nil {
		t.Fatalf("Compile(%q): %v", src, err)
	}
	return p
}

func newTestContext() *MatchContext {
	return NewMatchContext(lang.NewParserState(), sklog.New(false), &stubParser{})
}

func TestTextCaseAndWhitespaceTolerance(t *testing.T) {
	tm := testTypes(t)
	pat := compileOrFail(t, "set %object% to %object%", tm)

	inputs := []string{
		"set {x} to 5",
		"SET {x} TO 5",
		"Set   {x}\tto  5",
		"sEt {x}  To 5",
	}
	for _, input := range inputs {
		ctx := newTestContext()
		if got := pat.Match(input, 0, ctx); got != len(input) {
			t.Errorf("Match(%q) = %d, want %d", input, got, len(input))
		}
		if len(ctx.Expressions()) != 2 {
			t.Errorf("Match(%q) captured %d expressions, want 2", input, len(ctx.Expressions()))
		}
	}
}

func TestTextRejectsMismatch(t *testing.T) {
	tm := testTypes(t)
	pat := compileOrFail(t, "set %object% to %object%", tm)

	for _, input := range []string{"put {x} to 5", "set {x} at 5", "set {x} to"} {
		ctx := newTestContext()
		if got := pat.Match(input, 0, ctx); got != -1 {
			t.Errorf("Match(%q) = %d, want -1", input, got)
		}
	}
}

func TestChoiceMarks(t *testing.T) {
	tm := testTypes(t)
	pat := compileOrFail(t, "(1¦add|2¦remove) %object%", tm)

	tests := []struct {
		input string
		mark  int
	}{
		{"add 5", 1},
		{"remove 5", 2},
	}
	for _, tt := range tests {
		ctx := newTestContext()
		if got := pat.Match(tt.input, 0, ctx); got != len(tt.input) {
			t.Fatalf("Match(%q) = %d, want %d", tt.input, got, len(tt.input))
		}
		if ctx.ParseMark() != tt.mark {
			t.Errorf("Match(%q) mark = %d, want %d", tt.input, ctx.ParseMark(), tt.mark)
		}
	}
}

func TestOptionalGroup(t *testing.T) {
	tm := testTypes(t)
	pat := compileOrFail(t, "[on] [script] load[ing]", tm)

	for _, input := range []string{"on script load", "on load", "load", "loading", "on script loading"} {
		ctx := newTestContext()
		if got := pat.Match(input, 0, ctx); got != len(input) {
			t.Errorf("Match(%q) = %d, want %d", input, got, len(input))
		}
	}
	ctx := newTestContext()
	if got := pat.Match("unload", 0, ctx); got != -1 {
		t.Errorf("Match(%q) = %d, want -1", "unload", got)
	}
}

func TestRegexGroup(t *testing.T) {
	tm := testTypes(t)
	pat := compileOrFail(t, "log <(debug|info|warn)>", tm)

	ctx := newTestContext()
	input := "log warn"
	if got := pat.Match(input, 0, ctx); got != len(input) {
		t.Fatalf("Match(%q) = %d, want %d", input, got, len(input))
	}
	parseCtx := ctx.ToParseContext(input)
	if len(parseCtx.Matches) != 1 {
		t.Fatalf("regex results = %d, want 1", len(parseCtx.Matches))
	}
	if parseCtx.Matches[0].Match != "warn" {
		t.Errorf("regex match = %q, want %q", parseCtx.Matches[0].Match, "warn")
	}
}

func TestPlaceholderRequiresFullConsumption(t *testing.T) {
	tm := testTypes(t)
	pat := compileOrFail(t, "emit %object%", tm)

	ctx := newTestContext()
	if got := pat.Match("emit 5 trailing junk", 0, ctx); got != -1 {
		t.Errorf("expected trailing junk to fail the match, got %d", got)
	}
}

func TestPlaceholderSkipsGroupedText(t *testing.T) {
	tm := testTypes(t)
	pat := compileOrFail(t, "emit %object%", tm)

	// The variable braces are skipped as one unit, so the placeholder
	// cannot cut inside them.
	ctx := newTestContext()
	input := "emit {a b}"
	if got := pat.Match(input, 0, ctx); got != len(input) {
		t.Errorf("Match(%q) = %d, want %d", input, got, len(input))
	}
}

func TestBacktrackingAcrossPlaceholders(t *testing.T) {
	tm := testTypes(t)
	pat := compileOrFail(t, "%object% to %object%", tm)

	ctx := newTestContext()
	input := "5 to 7"
	if got := pat.Match(input, 0, ctx); got != len(input) {
		t.Fatalf("Match(%q) = %d, want %d", input, got, len(input))
	}
	exprs := ctx.Expressions()
	if len(exprs) != 2 {
		t.Fatalf("captured %d expressions, want 2", len(exprs))
	}
}

func TestEscapedCharacter(t *testing.T) {
	tm := testTypes(t)
	pat := compileOrFail(t, `ratio \%`, tm)

	ctx := newTestContext()
	input := "ratio %"
	if got := pat.Match(input, 0, ctx); got != len(input) {
		t.Errorf("Match(%q) = %d, want %d", input, got, len(input))
	}
}
