package base

import (
	"math/big"

	"github.com/chaossafti/skript-parser/lang"
	"github.com/chaossafti/skript-parser/registration"
)

// SecWhile runs its body as long as its condition holds.
type SecWhile struct {
	lang.BaseSection
	condition lang.Expression
}

func (s *SecWhile) Init(exprs []lang.Expression, matchedPattern int, parseCtx *lang.ParseContext) bool {
	if len(exprs) != 1 {
		return false
	}
	s.condition = exprs[0]
	return true
}

func (s *SecWhile) Walk(ctx lang.TriggerContext) lang.Statement {
	for s.holds(ctx) {
		s.RunBody(ctx)
	}
	return s.Next()
}

func (s *SecWhile) holds(ctx lang.TriggerContext) bool {
	v, ok := lang.GetSingle(s.condition, ctx)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

func (s *SecWhile) ToString(ctx lang.TriggerContext, debug bool) string {
	return "while " + s.condition.ToString(ctx, debug)
}

// SecLoop runs its body a fixed number of times.
type SecLoop struct {
	lang.BaseSection
	times lang.Expression
}

func (s *SecLoop) Init(exprs []lang.Expression, matchedPattern int, parseCtx *lang.ParseContext) bool {
	if len(exprs) != 1 {
		return false
	}
	s.times = exprs[0]
	return true
}

func (s *SecLoop) Walk(ctx lang.TriggerContext) lang.Statement {
	if v, ok := lang.GetSingle(s.times, ctx); ok {
		if n, ok := v.(*big.Int); ok {
			for i := new(big.Int); i.Cmp(n) < 0; i.Add(i, big.NewInt(1)) {
				s.RunBody(ctx)
			}
		}
	}
	return s.Next()
}

func (s *SecLoop) ToString(ctx lang.TriggerContext, debug bool) string {
	return "loop " + s.times.ToString(ctx, debug) + " times"
}

func registerSections(reg *registration.SkriptRegistration) error {
	if err := reg.AddSection(
		func() lang.SyntaxElement { return &SecWhile{} },
		0,
		"while %~boolean%",
	); err != nil {
		return err
	}
	return reg.AddSection(
		func() lang.SyntaxElement { return &SecLoop{} },
		0,
		"loop %integer% times",
	)
}
