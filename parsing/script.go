package parsing

import (
	"sync"

	"github.com/chaossafti/skript-parser/core/invariant"
	"github.com/chaossafti/skript-parser/lang"
	sklog "github.com/chaossafti/skript-parser/log"
)

// Script is one script file identity, keyed by its path in the loader's
// registry. It is created unloaded; Load installs a trigger set, Unload
// removes it. loaded is true exactly when a trigger set is present.
type Script struct {
	path string
	name string

	// loadMu serializes lifecycle transitions; the loader holds it across
	// a whole load.
	loadMu sync.Mutex

	triggers []*lang.Trigger
	loaded   bool
}

// NewScript creates an unloaded script identity.
func NewScript(path, name string) *Script {
	return &Script{path: path, name: name}
}

// Path returns the script's identifying path.
func (s *Script) Path() string { return s.path }

// Name returns the file name with one extension stripped.
func (s *Script) Name() string { return s.name }

// IsLoaded reports whether a trigger set is installed.
func (s *Script) IsLoaded() bool { return s.loaded }

// Triggers returns the installed trigger set, nil when unloaded.
func (s *Script) Triggers() []*lang.Trigger { return s.triggers }

// Load installs the trigger set. Loading a loaded script is a programmer
// error.
func (s *Script) Load(triggers []*lang.Trigger) {
	invariant.Precondition(!s.loaded, "tried providing an already loaded script with a new set of triggers: %s", s.path)
	invariant.NotNil(triggers, "trigger set")
	s.triggers = triggers
	s.loaded = true
}

// Unload fires the unload hook on every trigger and clears the set.
// Unloading an unloaded script is a programmer error.
func (s *Script) Unload() {
	invariant.Precondition(s.loaded, "tried unloading an unloaded script: %s", s.path)
	for _, t := range s.triggers {
		t.OnUnload()
	}
	s.triggers = nil
	s.loaded = false
}

// ScriptLoadResult is what a load returns: the collected log and the
// script, nil when the file could not be processed at all.
type ScriptLoadResult struct {
	log    []sklog.Entry
	script *Script
}

// NewScriptLoadResult pairs a closed log with the loaded script.
func NewScriptLoadResult(log []sklog.Entry, script *Script) *ScriptLoadResult {
	return &ScriptLoadResult{log: log, script: script}
}

// NewLoadedResult wraps an already-loaded script without a log, for
// callers that hit the registry.
func NewLoadedResult(script *Script) *ScriptLoadResult {
	return &ScriptLoadResult{script: script}
}

// Script returns the loaded script, nil on failure.
func (r *ScriptLoadResult) Script() *Script { return r.script }

// Log returns the collected diagnostics; nil when the registry satisfied
// the call without parsing.
func (r *ScriptLoadResult) Log() []sklog.Entry { return r.log }

// Successful reports whether a script came out of the load.
func (r *ScriptLoadResult) Successful() bool { return r.script != nil }

// Errors returns only the error entries of the log.
func (r *ScriptLoadResult) Errors() []sklog.Entry {
	var out []sklog.Entry
	for _, e := range r.log {
		if e.Verbosity == sklog.Error {
			out = append(out, e)
		}
	}
	return out
}
