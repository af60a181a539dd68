// Package pattern implements the registration pattern language and its
// matcher: tolerant literal text, optional groups, choice groups with
// marks, anchored regexes and typed expression placeholders.
package pattern

import (
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/chaossafti/skript-parser/lang"
	"github.com/chaossafti/skript-parser/types"
)

var boolType = reflect.TypeOf(true)

// Element is one node of a compiled pattern.
//
// Match attempts the element against s at the given index and returns the
// index after the consumed text, or -1. Elements match locally and
// greedily; sequence-level backtracking across expression placeholders is
// the job of Pattern.
type Element interface {
	Match(s string, at int, ctx *MatchContext) int
	String() string
}

// Text is literal pattern text, case-insensitive. A whitespace character at
// either end consumes any run of whitespace in the input.
type Text struct {
	text string
}

// NewText creates a literal text element.
func NewText(text string) *Text { return &Text{text: text} }

func (t *Text) Match(s string, at int, ctx *MatchContext) int {
	if t.text == "" {
		return at
	}
	stripped := strings.TrimSpace(t.text)
	pos := at

	if unicode.IsSpace(rune(t.text[0])) {
		pos = eatWhitespace(s, pos)
	}
	if stripped == "" {
		return pos
	}
	if pos+len(stripped) > len(s) {
		return -1
	}
	if !strings.EqualFold(s[pos:pos+len(stripped)], stripped) {
		return -1
	}
	pos += len(stripped)
	if unicode.IsSpace(rune(t.text[len(t.text)-1])) {
		pos = eatWhitespace(s, pos)
	}
	return pos
}

func (t *Text) String() string { return t.text }

func eatWhitespace(s string, pos int) int {
	for pos < len(s) && (s[pos] == ' ' || s[pos] == '\t') {
		pos++
	}
	return pos
}

// Optional matches its inner element or nothing.
type Optional struct {
	inner Element
}

// NewOptional wraps an element as optional.
func NewOptional(inner Element) *Optional { return &Optional{inner: inner} }

// Inner returns the wrapped element.
func (o *Optional) Inner() Element { return o.inner }

func (o *Optional) Match(s string, at int, ctx *MatchContext) int {
	snap := ctx.save()
	if end := o.inner.Match(s, at, ctx); end != -1 {
		return end
	}
	ctx.restore(snap)
	return at
}

func (o *Optional) String() string { return "[" + o.inner.String() + "]" }

// ChoiceAlternative is one branch of a choice group, optionally carrying a
// mark reported through the parse mark when chosen.
type ChoiceAlternative struct {
	Element Element
	Mark    int
}

// Choice matches the first of its pipe-separated alternatives.
type Choice struct {
	alternatives []ChoiceAlternative
}

// NewChoice creates a choice group.
func NewChoice(alternatives ...ChoiceAlternative) *Choice {
	return &Choice{alternatives: alternatives}
}

// Alternatives returns the branches in declaration order.
func (c *Choice) Alternatives() []ChoiceAlternative { return c.alternatives }

func (c *Choice) Match(s string, at int, ctx *MatchContext) int {
	for _, alt := range c.alternatives {
		snap := ctx.save()
		if end := alt.Element.Match(s, at, ctx); end != -1 {
			ctx.AddMark(alt.Mark)
			return end
		}
		ctx.restore(snap)
	}
	return -1
}

func (c *Choice) String() string {
	parts := make([]string, len(c.alternatives))
	for i, alt := range c.alternatives {
		parts[i] = alt.Element.String()
	}
	return "(" + strings.Join(parts, "|") + ")"
}

// Regex matches an anchored regular expression and records its captures.
type Regex struct {
	source string
	re     *regexp.Regexp
}

func newRegex(source string) (*Regex, error) {
	re, err := regexp.Compile(`^(?:` + source + `)`)
	if err != nil {
		return nil, err
	}
	return &Regex{source: source, re: re}, nil
}

func (r *Regex) Match(s string, at int, ctx *MatchContext) int {
	loc := r.re.FindStringSubmatchIndex(s[at:])
	if loc == nil {
		return -1
	}
	result := lang.RegexResult{Match: s[at : at+loc[1]]}
	for g := 1; g*2+1 < len(loc); g++ {
		if loc[g*2] < 0 {
			result.Groups = append(result.Groups, "")
			continue
		}
		result.Groups = append(result.Groups, s[at+loc[g*2]:at+loc[g*2+1]])
	}
	ctx.AddRegexResult(result)
	return at + loc[1]
}

func (r *Regex) String() string { return "<" + r.source + ">" }

// ExpressionElement is a typed placeholder: it consumes the shortest candidate
// prefix of the remainder that parses as an expression of its type.
type ExpressionElement struct {
	pt           types.PatternType
	literalsOnly bool
	nullable     bool
	conditional  bool
}

// NewExpressionElement creates a placeholder for the given pattern type.
func NewExpressionElement(pt types.PatternType, literalsOnly, nullable, conditional bool) *ExpressionElement {
	return &ExpressionElement{pt: pt, literalsOnly: literalsOnly, nullable: nullable, conditional: conditional}
}

// PatternType returns the expected type and plurality.
func (e *ExpressionElement) PatternType() types.PatternType { return e.pt }

func (e *ExpressionElement) Match(s string, at int, ctx *MatchContext) int {
	for _, end := range e.candidates(s, at) {
		if end == at {
			if e.nullable {
				// Nullable placeholder matching empty: nothing is captured.
				return at
			}
			continue
		}
		if expr, ok := e.parse(s[at:end], ctx); ok {
			ctx.AddExpression(expr)
			return end
		}
	}
	return -1
}

func (e *ExpressionElement) candidates(s string, at int) []int {
	var ends []int
	if e.nullable {
		ends = append(ends, at)
	}
	return append(ends, CandidateEnds(s, at)...)
}

// parse attempts a sub-parse of one candidate substring. Diagnostics of
// failed candidates stay scoped to the recursion frame.
func (e *ExpressionElement) parse(sub string, ctx *MatchContext) (lang.Expression, bool) {
	sub = strings.TrimSpace(sub)
	if sub == "" {
		return nil, false
	}
	ctx.Logger.Recurse()
	defer ctx.Logger.Callback()

	switch {
	case e.pt.T.Reflect() == boolType:
		mode := NotConditional
		if e.conditional {
			mode = MaybeConditional
		}
		return ctx.Parser.ParseBooleanExpression(sub, mode, ctx.State, ctx.Logger)
	case e.literalsOnly:
		return ctx.Parser.ParseLiteralExpression(sub, e.pt, ctx.State, ctx.Logger)
	default:
		return ctx.Parser.ParseExpression(sub, e.pt, ctx.State, ctx.Logger)
	}
}

func (e *ExpressionElement) String() string {
	var flags strings.Builder
	if e.literalsOnly {
		flags.WriteByte('*')
	}
	if e.conditional {
		flags.WriteByte('~')
	}
	if e.nullable {
		flags.WriteByte('-')
	}
	return "%" + flags.String() + e.pt.String() + "%"
}
