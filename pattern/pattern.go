package pattern

import "strings"

// sequence is an ordered run of elements. Matching backtracks across
// expression placeholders and group branches so an earlier element never
// starves a later one.
type sequence struct {
	elements []Element
}

func (q *sequence) Match(s string, at int, ctx *MatchContext) int {
	return q.matchFrom(s, at, 0, ctx, nil)
}

// matchFrom matches elements[idx:] at the given position. tail, when set,
// judges the position after the last element; returning -1 from it forces
// backtracking into earlier candidates.
func (q *sequence) matchFrom(s string, at, idx int, ctx *MatchContext, tail func(int) int) int {
	if idx == len(q.elements) {
		if tail != nil {
			return tail(at)
		}
		return at
	}

	cont := func(end int) int {
		return q.matchFrom(s, end, idx+1, ctx, tail)
	}

	switch e := q.elements[idx].(type) {
	case *ExpressionElement:
		for _, end := range e.candidates(s, at) {
			snap := ctx.save()
			if end == at {
				if !e.nullable {
					continue
				}
				if res := cont(at); res != -1 {
					return res
				}
				ctx.restore(snap)
				continue
			}
			expr, ok := e.parse(s[at:end], ctx)
			if !ok {
				continue
			}
			ctx.AddExpression(expr)
			if res := cont(end); res != -1 {
				return res
			}
			ctx.restore(snap)
		}
		return -1

	case *Optional:
		snap := ctx.save()
		if end := e.inner.Match(s, at, ctx); end != -1 {
			if res := cont(end); res != -1 {
				return res
			}
		}
		ctx.restore(snap)
		return cont(at)

	case *Choice:
		for _, alt := range e.alternatives {
			snap := ctx.save()
			if end := alt.Element.Match(s, at, ctx); end != -1 {
				ctx.AddMark(alt.Mark)
				if res := cont(end); res != -1 {
					return res
				}
			}
			ctx.restore(snap)
		}
		return -1

	default:
		end := e.Match(s, at, ctx)
		if end == -1 {
			return -1
		}
		return cont(end)
	}
}

func (q *sequence) String() string {
	parts := make([]string, len(q.elements))
	for i, e := range q.elements {
		parts[i] = e.String()
	}
	return strings.Join(parts, "")
}

// Pattern is a compiled registration pattern: the root sequence plus its
// source text.
type Pattern struct {
	sequence
	source string
}

// Source returns the pattern string the element tree was compiled from.
func (p *Pattern) Source() string { return p.source }

// Match attempts the whole pattern against s starting at the given index.
// The full input must be consumed, trailing whitespace aside; success
// returns len(s).
func (p *Pattern) Match(s string, at int, ctx *MatchContext) int {
	if ctx.cancelled() {
		return -1
	}
	return p.matchFrom(s, at, 0, ctx, func(end int) int {
		if strings.TrimSpace(s[end:]) == "" {
			return len(s)
		}
		return -1
	})
}

func (p *Pattern) String() string { return p.source }
