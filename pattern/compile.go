package pattern

import (
	"fmt"
	"strings"

	"github.com/chaossafti/skript-parser/types"
)

// markSeparator splits a choice mark from its branch, as in "1¦add".
const markSeparator = '¦'

// Compile parses a registration pattern string into a matchable Pattern.
// Type names in expression placeholders are resolved against the type
// registry, so every type a pattern mentions must be registered first.
func Compile(source string, tm *types.Manager) (*Pattern, error) {
	c := &compiler{src: source, tm: tm}
	elements, err := c.sequence(nil)
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", source, err)
	}
	return &Pattern{sequence: sequence{elements: elements}, source: source}, nil
}

type compiler struct {
	src string
	tm  *types.Manager
	pos int
}

// sequence compiles elements until one of the terminator bytes or the end
// of the source. The terminator is not consumed.
func (c *compiler) sequence(terminators []byte) ([]Element, error) {
	var elements []Element
	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			elements = append(elements, NewText(text.String()))
			text.Reset()
		}
	}

	for c.pos < len(c.src) {
		ch := c.src[c.pos]
		for _, t := range terminators {
			if ch == t {
				flush()
				return elements, nil
			}
		}
		switch ch {
		case '\\':
			if c.pos+1 >= len(c.src) {
				return nil, fmt.Errorf("dangling escape at end of pattern")
			}
			text.WriteByte(c.src[c.pos+1])
			c.pos += 2
		case '[':
			flush()
			c.pos++
			inner, err := c.sequence([]byte{']'})
			if err != nil {
				return nil, err
			}
			if err := c.expect(']'); err != nil {
				return nil, err
			}
			elements = append(elements, NewOptional(wrap(inner)))
		case '(':
			flush()
			c.pos++
			choice, err := c.choice()
			if err != nil {
				return nil, err
			}
			elements = append(elements, choice)
		case '<':
			flush()
			c.pos++
			re, err := c.regex()
			if err != nil {
				return nil, err
			}
			elements = append(elements, re)
		case '%':
			flush()
			c.pos++
			expr, err := c.placeholder()
			if err != nil {
				return nil, err
			}
			elements = append(elements, expr)
		case ']', ')', '>':
			return nil, fmt.Errorf("unexpected %q at index %d", ch, c.pos)
		default:
			text.WriteByte(ch)
			c.pos++
		}
	}
	flush()
	if len(terminators) > 0 {
		return nil, fmt.Errorf("unterminated group, expected %q", terminators[0])
	}
	return elements, nil
}

func (c *compiler) choice() (*Choice, error) {
	var alts []ChoiceAlternative
	for {
		mark := c.mark()
		inner, err := c.sequence([]byte{'|', ')'})
		if err != nil {
			if c.pos >= len(c.src) {
				return nil, fmt.Errorf("unterminated choice group")
			}
			return nil, err
		}
		alts = append(alts, ChoiceAlternative{Element: wrap(inner), Mark: mark})
		if c.pos >= len(c.src) {
			return nil, fmt.Errorf("unterminated choice group")
		}
		if c.src[c.pos] == ')' {
			c.pos++
			return NewChoice(alts...), nil
		}
		c.pos++ // consume '|'
	}
}

// mark consumes a leading integer mark and its separator, if present.
func (c *compiler) mark() int {
	start := c.pos
	n := 0
	for c.pos < len(c.src) && c.src[c.pos] >= '0' && c.src[c.pos] <= '9' {
		n = n*10 + int(c.src[c.pos]-'0')
		c.pos++
	}
	if c.pos > start && c.pos < len(c.src) {
		if r := []rune(c.src[c.pos:]); len(r) > 0 && r[0] == markSeparator {
			c.pos += len(string(markSeparator))
			return n
		}
	}
	c.pos = start
	return 0
}

func (c *compiler) regex() (*Regex, error) {
	var b strings.Builder
	for c.pos < len(c.src) {
		ch := c.src[c.pos]
		if ch == '\\' && c.pos+1 < len(c.src) {
			b.WriteByte(ch)
			b.WriteByte(c.src[c.pos+1])
			c.pos += 2
			continue
		}
		if ch == '>' {
			c.pos++
			return newRegex(b.String())
		}
		b.WriteByte(ch)
		c.pos++
	}
	return nil, fmt.Errorf("unterminated regex group")
}

func (c *compiler) placeholder() (*ExpressionElement, error) {
	end := strings.IndexByte(c.src[c.pos:], '%')
	if end < 0 {
		return nil, fmt.Errorf("unterminated expression placeholder")
	}
	body := c.src[c.pos : c.pos+end]
	c.pos += end + 1

	var literalsOnly, nullable, conditional bool
	for len(body) > 0 {
		switch body[0] {
		case '*':
			literalsOnly = true
		case '-':
			nullable = true
		case '~':
			conditional = true
		default:
			goto flagsDone
		}
		body = body[1:]
	}
flagsDone:
	name := strings.TrimSpace(body)
	pt, ok := c.tm.PatternType(name)
	if !ok {
		return nil, fmt.Errorf("unknown type %q in expression placeholder", name)
	}
	return NewExpressionElement(pt, literalsOnly, nullable, conditional), nil
}

func (c *compiler) expect(ch byte) error {
	if c.pos >= len(c.src) || c.src[c.pos] != ch {
		return fmt.Errorf("expected %q at index %d", ch, c.pos)
	}
	c.pos++
	return nil
}

// wrap collapses a one-element sequence to the element itself.
func wrap(elements []Element) Element {
	if len(elements) == 1 {
		return elements[0]
	}
	return &sequence{elements: elements}
}
