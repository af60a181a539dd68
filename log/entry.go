package log

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Verbosity classifies log entries by severity.
type Verbosity int

const (
	Debug Verbosity = iota
	Info
	Warning
	Error
)

func (v Verbosity) String() string {
	switch v {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// ErrorType categorizes user diagnostics. The zero value means the entry is
// not an error.
type ErrorType int

const (
	NoError ErrorType = iota
	NoMatch
	SemanticError
	StructureError
	MalformedInput
	RestrictedSyntax
	Exception
)

func (t ErrorType) String() string {
	switch t {
	case NoMatch:
		return "no match"
	case SemanticError:
		return "semantic error"
	case StructureError:
		return "structure error"
	case MalformedInput:
		return "malformed input"
	case RestrictedSyntax:
		return "restricted syntax"
	case Exception:
		return "exception"
	default:
		return "none"
	}
}

// ErrorContext tells which stage of parsing produced a diagnostic.
type ErrorContext int

const (
	Matching ErrorContext = iota
	Initialization
	ConstraintChecking
	RestrictedSyntaxes
	NoMatchContext
)

func (c ErrorContext) String() string {
	switch c {
	case Matching:
		return "matching"
	case Initialization:
		return "initialization"
	case ConstraintChecking:
		return "constraint checking"
	case RestrictedSyntaxes:
		return "restricted syntaxes"
	case NoMatchContext:
		return "no match"
	default:
		return "unknown"
	}
}

// Entry is a single collected diagnostic.
type Entry struct {
	Message   string
	Verbosity Verbosity
	Line      int
	Context   []ErrorContext
	Type      ErrorType
	Script    string
	Tip       string
	Depth     int
	Session   uuid.UUID
}

// String renders the entry for terminal output.
func (e Entry) String() string {
	var b strings.Builder
	if e.Type != NoError {
		fmt.Fprintf(&b, "%s: ", e.Type)
	} else if e.Verbosity != Info {
		fmt.Fprintf(&b, "%s: ", e.Verbosity)
	}
	b.WriteString(e.Message)
	if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d", e.Line)
		if e.Script != "" {
			fmt.Fprintf(&b, ", %s", e.Script)
		}
		b.WriteString(")")
	}
	if e.Tip != "" {
		fmt.Fprintf(&b, "\n\ttip: %s", e.Tip)
	}
	return b.String()
}
