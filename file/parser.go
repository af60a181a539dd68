package file

import (
	"strings"

	sklog "github.com/chaossafti/skript-parser/log"
)

// Parse builds the element tree for a list of logical lines. startLine is
// the physical number of the first line, normally 1. Lines with
// inconsistent indentation are reported as structure errors and skipped.
func Parse(lines []string, startLine int, logger *sklog.SkriptLogger) []Element {
	p := &treeParser{logger: logger}
	for i, raw := range lines {
		p.line(startLine+i, raw)
	}
	return p.roots
}

type frame struct {
	indent  string
	section *Section
	// pending marks a freshly opened section whose body indent is not
	// known until its first child line arrives.
	pending bool
}

type treeParser struct {
	logger *sklog.SkriptLogger
	roots  []Element
	stack  []frame
}

func (p *treeParser) line(number int, raw string) {
	body := strings.TrimSpace(raw)
	if body == "" {
		p.append(NewVoid(number))
		return
	}
	indent := raw[:len(raw)-len(strings.TrimLeft(raw, " \t"))]

	if !p.enter(number, indent) {
		return
	}

	if content, ok := strings.CutSuffix(body, ":"); ok {
		sec := NewSection(number, strings.TrimSpace(content), indent)
		p.append(sec)
		p.stack = append(p.stack, frame{section: sec, pending: true})
		return
	}
	p.append(NewSimple(number, body, indent))
}

// enter closes or opens indentation levels so the top of the stack is the
// level this line belongs to. Returns false when the line must be skipped.
func (p *treeParser) enter(number int, indent string) bool {
	if len(p.stack) > 0 && p.stack[len(p.stack)-1].pending {
		top := &p.stack[len(p.stack)-1]
		parentIndent := p.parentIndent()
		if len(indent) > len(parentIndent) && strings.HasPrefix(indent, parentIndent) {
			top.indent = indent
			top.pending = false
			return true
		}
		// The section had no body; fall through to dedent handling.
		p.stack = p.stack[:len(p.stack)-1]
	}

	for {
		current := p.currentIndent()
		if indent == current {
			return true
		}
		if len(p.stack) == 0 {
			p.structureError(number, "Inconsistent indentation: this line matches no open block")
			return false
		}
		if len(indent) > len(current) && strings.HasPrefix(indent, current) {
			p.structureError(number, "Inconsistent indentation: unexpected indent outside a new block")
			return false
		}
		p.stack = p.stack[:len(p.stack)-1]
	}
}

func (p *treeParser) currentIndent() string {
	if len(p.stack) == 0 {
		return ""
	}
	return p.stack[len(p.stack)-1].indent
}

func (p *treeParser) parentIndent() string {
	if len(p.stack) < 2 {
		return ""
	}
	return p.stack[len(p.stack)-2].indent
}

func (p *treeParser) append(e Element) {
	if len(p.stack) == 0 {
		p.roots = append(p.roots, e)
		return
	}
	p.stack[len(p.stack)-1].section.append(e)
}

func (p *treeParser) structureError(number int, message string) {
	p.logger.SetLine(number)
	p.logger.Error(message, sklog.StructureError)
	p.logger.LogOutput()
}
