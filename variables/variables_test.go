package variables

import (
	"testing"

	"github.com/chaossafti/skript-parser/lang"
	sklog "github.com/chaossafti/skript-parser/log"
	"github.com/chaossafti/skript-parser/types"
)

func TestParseVariable(t *testing.T) {
	p := NewParser(NewMapStore())
	state := lang.NewParserState()
	logger := sklog.New(false)

	tests := []struct {
		input   string
		ok      bool
		name    string
		isList  bool
		indexed bool
	}{
		{"{x}", true, "x", false, false},
		{"{kill count}", true, "kill count", false, false},
		{"{kills::*}", true, "kills", true, false},
		{"{kills::1}", true, "kills", false, true},
		{"{kills::alice}", true, "kills", false, true},
		{"  {x}  ", true, "x", false, false},
		{"x", false, "", false, false},
		{"{}", false, "", false, false},
		{"{x", false, "", false, false},
		{"{a{b}}", false, "", false, false},
		{"{::1}", false, "", false, false},
		{"{kills::}", false, "", false, false},
	}
	for _, tt := range tests {
		expr, ok := p.ParseVariable(tt.input, types.AnyType, state, logger)
		if ok != tt.ok {
			t.Errorf("ParseVariable(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			continue
		}
		if !ok {
			continue
		}
		v := expr.(*lang.Variable)
		if v.Name() != tt.name {
			t.Errorf("ParseVariable(%q) name = %q, want %q", tt.input, v.Name(), tt.name)
		}
		if v.IsList() != tt.isList {
			t.Errorf("ParseVariable(%q) list = %v, want %v", tt.input, v.IsList(), tt.isList)
		}
		if (v.Index() != nil) != tt.indexed {
			t.Errorf("ParseVariable(%q) indexed = %v, want %v", tt.input, v.Index() != nil, tt.indexed)
		}
		if v.IsSingle() == tt.isList {
			t.Errorf("ParseVariable(%q) single must be the inverse of list", tt.input)
		}
	}
}

func TestParseVariableExpressionIndex(t *testing.T) {
	store := NewMapStore()
	p := NewParser(store)
	state := lang.NewParserState()
	logger := sklog.New(false)

	// Without an index parser, %index% forms are not recognized.
	if _, ok := p.ParseVariable("{kills::%who%}", types.AnyType, state, logger); ok {
		t.Error("percent index must fail without an index parser")
	}

	// The stub resolves every %index% to the slot named by its text.
	p.SetIndexParser(func(s string, state *lang.ParserState, logger *sklog.SkriptLogger) (lang.Expression, bool) {
		v, ok := store.Get(s)
		if !ok {
			return nil, false
		}
		return lang.NewSimpleLiteral(types.AnyType, v), true
	})
	store.Set("who", "alice")
	store.Set("kills::alice", 7)

	expr, ok := p.ParseVariable("{kills::%who%}", types.AnyType, state, logger)
	if !ok {
		t.Fatal("ParseVariable failed")
	}
	v := expr.(*lang.Variable)
	if v.Index() == nil {
		t.Fatal("index expression missing")
	}
	vals := v.GetValues(lang.DummyContext{})
	if len(vals) != 1 || vals[0] != 7 {
		t.Errorf("GetValues = %v, want [7]", vals)
	}
}

func TestIndexedVariableRoundTrip(t *testing.T) {
	store := NewMapStore()
	p := NewParser(store)
	expr, ok := p.ParseVariable("{kills::bob}", types.AnyType, lang.NewParserState(), sklog.New(false))
	if !ok {
		t.Fatal("ParseVariable failed")
	}
	v := expr.(*lang.Variable)

	v.Change(lang.DummyContext{}, 3)
	if got, ok := store.Get("kills::bob"); !ok || got != 3 {
		t.Errorf("store slot = %v, want 3", got)
	}
	vals := v.GetValues(lang.DummyContext{})
	if len(vals) != 1 || vals[0] != 3 {
		t.Errorf("GetValues = %v, want [3]", vals)
	}

	// The indexed slot participates in the whole-list view.
	list, lok := p.ParseVariable("{kills::*}", types.AnyType, lang.NewParserState(), sklog.New(false))
	if !lok {
		t.Fatal("list ParseVariable failed")
	}
	lvals := list.(*lang.Variable).GetValues(lang.DummyContext{})
	if len(lvals) != 1 || lvals[0] != 3 {
		t.Errorf("list GetValues = %v, want [3]", lvals)
	}
}

func TestMapStoreListOrder(t *testing.T) {
	store := NewMapStore()
	store.Set("kills::b", 2)
	store.Set("kills::a", 1)
	store.Set("kills::c", 3)
	store.Set("unrelated", 9)

	got := store.List("kills")
	if len(got) != 3 {
		t.Fatalf("List returned %d values, want 3", len(got))
	}
	want := []any{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestVariableRoundTrip(t *testing.T) {
	store := NewMapStore()
	p := NewParser(store)
	expr, ok := p.ParseVariable("{x}", types.AnyType, lang.NewParserState(), sklog.New(false))
	if !ok {
		t.Fatal("ParseVariable failed")
	}
	v := expr.(*lang.Variable)

	if vals := v.GetValues(lang.DummyContext{}); len(vals) != 0 {
		t.Errorf("unset variable produced %v", vals)
	}
	v.Change(lang.DummyContext{}, 42)
	vals := v.GetValues(lang.DummyContext{})
	if len(vals) != 1 || vals[0] != 42 {
		t.Errorf("GetValues = %v, want [42]", vals)
	}

	store.Delete("x")
	if vals := v.GetValues(lang.DummyContext{}); len(vals) != 0 {
		t.Errorf("deleted variable produced %v", vals)
	}
}
