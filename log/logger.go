// Package log collects structured diagnostics during script parsing.
//
// A SkriptLogger is scoped to one load session. Diagnostics are first staged
// as pending entries; the parser discards or keeps them depending on whether
// a syntax candidate eventually matched, and the loader flushes survivors
// into the closed log at line boundaries. This staging is what lets the
// dispatcher try many candidates without flooding the user with errors from
// the ones that lost.
package log

import "github.com/google/uuid"

// SkriptLogger accumulates diagnostics for a single load session.
//
// Not safe for concurrent use; each load owns its logger.
type SkriptLogger struct {
	debug   bool
	session uuid.UUID
	script  string

	line      int
	recursion int
	contexts  []ErrorContext

	pending  []Entry // non-error entries awaiting flush
	errEntry *Entry  // the single candidate error of the current attempt

	entries []Entry
	closed  bool
}

// New creates a logger for one load session. With debug enabled, debug
// entries survive flushing instead of being dropped.
func New(debug bool) *SkriptLogger {
	return &SkriptLogger{
		debug:    debug,
		session:  uuid.New(),
		contexts: []ErrorContext{Matching},
	}
}

// Session identifies the load this logger belongs to.
func (l *SkriptLogger) Session() uuid.UUID { return l.session }

// IsDebug reports whether debug output was requested.
func (l *SkriptLogger) IsDebug() bool { return l.debug }

// SetScript names the script all subsequent entries belong to.
func (l *SkriptLogger) SetScript(name string) { l.script = name }

// Line returns the current line cursor.
func (l *SkriptLogger) Line() int { return l.line }

// SetLine moves the line cursor.
func (l *SkriptLogger) SetLine(n int) { l.line = n }

// NextLine advances the line cursor by one.
func (l *SkriptLogger) NextLine() { l.line++ }

// Recurse enters a sub-parse. Diagnostics recorded until the matching
// Callback are attributed to the deeper frame, so a more specific error can
// displace a shallower one.
func (l *SkriptLogger) Recurse() {
	l.recursion++
	l.contexts = append(l.contexts, l.contexts[len(l.contexts)-1])
}

// Callback leaves a sub-parse entered with Recurse.
func (l *SkriptLogger) Callback() {
	if l.recursion > 0 {
		l.recursion--
		l.contexts = l.contexts[:len(l.contexts)-1]
	}
}

// SetContext records which stage of parsing the current frame is in.
func (l *SkriptLogger) SetContext(ctx ErrorContext) {
	l.contexts[len(l.contexts)-1] = ctx
}

// Error stages an error diagnostic. Only one error is visible per attempt:
// a deeper (more specific) error displaces a shallower one, an error at the
// same or lower depth keeps the first.
func (l *SkriptLogger) Error(message string, errType ErrorType) {
	l.ErrorWithTip(message, errType, "")
}

// ErrorWithTip is Error with an attached suggestion shown to the user.
func (l *SkriptLogger) ErrorWithTip(message string, errType ErrorType, tip string) {
	if l.errEntry != nil && l.errEntry.Depth >= l.recursion {
		return
	}
	e := l.newEntry(message, Error, errType)
	e.Tip = tip
	l.errEntry = &e
}

// Warn stages a warning.
func (l *SkriptLogger) Warn(message string) {
	l.pending = append(l.pending, l.newEntry(message, Warning, NoError))
}

// Info stages an informational entry.
func (l *SkriptLogger) Info(message string) {
	l.pending = append(l.pending, l.newEntry(message, Info, NoError))
}

// Debug stages a debug entry when the logger was created with debug enabled;
// otherwise the message is discarded immediately.
func (l *SkriptLogger) Debug(message string) {
	if l.debug {
		l.pending = append(l.pending, l.newEntry(message, Debug, NoError))
	}
}

// ForgetError drops the staged error. The dispatcher calls this after every
// syntax candidate that failed, so errors from losing candidates never reach
// the closed log.
func (l *SkriptLogger) ForgetError() {
	l.errEntry = nil
}

// ClearLogs drops everything staged. Called when a candidate succeeds: the
// diagnostics of all previously failed candidates become irrelevant.
func (l *SkriptLogger) ClearLogs() {
	l.pending = l.pending[:0]
	l.errEntry = nil
}

// LogOutput flushes staged entries into the closed log. The loader calls
// this at line boundaries so surviving diagnostics are committed.
func (l *SkriptLogger) LogOutput() {
	l.entries = append(l.entries, l.pending...)
	if l.errEntry != nil {
		l.entries = append(l.entries, *l.errEntry)
	}
	l.pending = l.pending[:0]
	l.errEntry = nil
}

// Close flushes and returns every committed entry. The logger must not be
// used afterwards.
func (l *SkriptLogger) Close() []Entry {
	l.LogOutput()
	l.closed = true
	return l.entries
}

// Entries returns the committed entries without closing the logger.
func (l *SkriptLogger) Entries() []Entry {
	return l.entries
}

// HasError reports whether any committed entry is an error.
func (l *SkriptLogger) HasError() bool {
	for _, e := range l.entries {
		if e.Verbosity == Error {
			return true
		}
	}
	return false
}

func (l *SkriptLogger) newEntry(message string, v Verbosity, t ErrorType) Entry {
	trail := make([]ErrorContext, len(l.contexts))
	copy(trail, l.contexts)
	return Entry{
		Message:   message,
		Verbosity: v,
		Line:      l.line,
		Context:   trail,
		Type:      t,
		Script:    l.script,
		Depth:     l.recursion,
		Session:   l.session,
	}
}
