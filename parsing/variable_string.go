package parsing

import (
	"strings"

	"github.com/chaossafti/skript-parser/lang"
	sklog "github.com/chaossafti/skript-parser/log"
	"github.com/chaossafti/skript-parser/types"
)

// parseVariableString recognizes a quoted string with optional
// percent-delimited interpolations. Doubled quotes escape a quote, doubled
// percent signs a percent sign.
func (p *SyntaxParser) parseVariableString(s string, state *lang.ParserState, logger *sklog.SkriptLogger) (*lang.VariableString, bool) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return nil, false
	}
	inner := s[1 : len(s)-1]

	var parts []any
	var text strings.Builder
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		switch c {
		case '"':
			if i+1 < len(inner) && inner[i+1] == '"' {
				text.WriteByte('"')
				i++
				continue
			}
			// A lone quote means the closing quote we cut off was not the
			// real end; the text is not a single string literal.
			return nil, false
		case '%':
			if i+1 < len(inner) && inner[i+1] == '%' {
				text.WriteByte('%')
				i++
				continue
			}
			end := strings.IndexByte(inner[i+1:], '%')
			if end < 0 {
				logger.Error("Unclosed expression interpolation in string: \""+inner+"\"", sklog.MalformedInput)
				return nil, false
			}
			embedded := inner[i+1 : i+1+end]
			i += end + 1

			if text.Len() > 0 {
				parts = append(parts, text.String())
				text.Reset()
			}
			objects, ok := p.objectsPatternType()
			if !ok {
				return nil, false
			}
			logger.Recurse()
			expr, ok := p.ParseExpression(embedded, objects, state, logger)
			logger.Callback()
			if !ok {
				return nil, false
			}
			parts = append(parts, expr)
		default:
			text.WriteByte(c)
		}
	}
	if text.Len() > 0 {
		parts = append(parts, text.String())
	}
	return lang.NewVariableString(parts...), true
}

// objectsPatternType resolves the plural any-type used for interpolations.
func (p *SyntaxParser) objectsPatternType() (types.PatternType, bool) {
	t, ok := p.types.ByType(types.AnyType)
	if !ok {
		return types.PatternType{}, false
	}
	return types.PatternType{T: t, Single: false}, true
}
