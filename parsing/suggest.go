package parsing

import (
	"fmt"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// suggestExpression builds the "did you mean" tip attached to a no-match
// diagnostic, fuzzy-ranking the failed text against registered expression
// patterns.
func (p *SyntaxParser) suggestExpression(s string) string {
	var candidates []string
	for _, info := range p.manager.Expressions() {
		for _, pat := range info.Patterns() {
			candidates = append(candidates, pat.Source())
		}
	}
	return suggestion(s, candidates)
}

func (p *SyntaxParser) suggestEffect(s string) string {
	var candidates []string
	for _, info := range p.manager.Effects() {
		for _, pat := range info.Patterns() {
			candidates = append(candidates, pat.Source())
		}
	}
	return suggestion(s, candidates)
}

func (p *SyntaxParser) suggestEvent(s string) string {
	var candidates []string
	for _, info := range p.manager.Events() {
		for _, pat := range info.Patterns() {
			candidates = append(candidates, pat.Source())
		}
	}
	return suggestion(s, candidates)
}

// suggestion returns the closest candidate by fuzzy rank, or empty when
// nothing is close enough to be worth showing.
func suggestion(target string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	ranks := fuzzy.RankFindFold(firstWord(target), candidates)
	if len(ranks) == 0 {
		return ""
	}
	best := ranks[0]
	for _, r := range ranks[1:] {
		if r.Distance < best.Distance {
			best = r
		}
	}
	return fmt.Sprintf("did you mean %q?", best.Target)
}

func firstWord(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			return s[:i]
		}
	}
	return s
}
