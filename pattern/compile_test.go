package pattern

import (
	"strings"
	"testing"
)

func TestCompileErrors(t *testing.T) {
	tm := testTypes(t)
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unterminated optional", "set [x", "unterminated group"},
		{"unterminated choice", "(a|b", "unterminated choice"},
		{"unterminated placeholder", "set %object", "unterminated expression placeholder"},
		{"unknown type", "set %widget%", "unknown type"},
		{"dangling escape", `set \`, "dangling escape"},
		{"stray closer", "set ]", "unexpected"},
		{"bad regex", "<(unclosed>", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.src, tm)
			if err == nil {
				t.Fatalf("Compile(%q) succeeded, want error", tt.src)
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Compile(%q) error = %v, want substring %q", tt.src, err, tt.want)
			}
		})
	}
}

func TestCompileSourceRoundTrip(t *testing.T) {
	tm := testTypes(t)
	sources := []string{
		"set %object% to %objects%",
		"(1¦add|2¦remove) %object%",
		"[on] [script] load[ing]",
		"while %~boolean%",
	}
	for _, src := range sources {
		p, err := Compile(src, tm)
		if err != nil {
			t.Fatalf("Compile(%q): %v", src, err)
		}
		if p.Source() != src {
			t.Errorf("Source() = %q, want %q", p.Source(), src)
		}
	}
}

func TestPlaceholderFlags(t *testing.T) {
	tm := testTypes(t)

	p, err := Compile("%*object%", tm)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	ee, ok := p.elements[0].(*ExpressionElement)
	if !ok {
		t.Fatalf("element is %T, want *ExpressionElement", p.elements[0])
	}
	if !ee.literalsOnly {
		t.Error("expected literals-only flag")
	}

	p, err = Compile("%-objects%", tm)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	ee = p.elements[0].(*ExpressionElement)
	if !ee.nullable {
		t.Error("expected nullable flag")
	}
	if ee.PatternType().Single {
		t.Error("plural type name should produce a plural pattern type")
	}
}
