package parsing

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/chaossafti/skript-parser/core/invariant"
	"github.com/chaossafti/skript-parser/file"
	"github.com/chaossafti/skript-parser/lang"
	sklog "github.com/chaossafti/skript-parser/log"
	"github.com/chaossafti/skript-parser/registration"
)

// ScriptLoader orchestrates whole-script parsing and owns the process-wide
// script registry. The registry supports concurrent lookups; loads on the
// same path serialize on the script so at most one wins.
type ScriptLoader struct {
	parser *SyntaxParser
	events *lang.EventManager

	mu      sync.RWMutex
	scripts map[string]*Script
}

// NewScriptLoader creates a loader over the given parser and event bus.
func NewScriptLoader(parser *SyntaxParser, events *lang.EventManager) *ScriptLoader {
	invariant.NotNil(parser, "syntax parser")
	return &ScriptLoader{
		parser:  parser,
		events:  events,
		scripts: make(map[string]*Script),
	}
}

// Parser returns the engine handle used for parsing.
func (l *ScriptLoader) Parser() *SyntaxParser { return l.parser }

// Events returns the event bus finalized triggers register on.
func (l *ScriptLoader) Events() *lang.EventManager { return l.events }

// GetScript returns the registered script at path, loaded or not.
func (l *ScriptLoader) GetScript(path string) (*Script, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	sc, ok := l.scripts[path]
	return sc, ok
}

// RemoveScript drops a script identity from the registry, unloading it
// first when needed.
func (l *ScriptLoader) RemoveScript(path string) {
	l.mu.Lock()
	sc, ok := l.scripts[path]
	delete(l.scripts, path)
	l.mu.Unlock()
	if ok {
		sc.loadMu.Lock()
		if sc.IsLoaded() {
			sc.Unload()
		}
		sc.loadMu.Unlock()
	}
}

// GetOrLoadScript returns the loaded script at path, loading it first when
// necessary. Racing calls on the same path observe a single load; the
// losers return the winner's script unchanged.
func (l *ScriptLoader) GetOrLoadScript(path string, opts ...ParseOption) *ScriptLoadResult {
	sc := l.getOrCreate(path)
	sc.loadMu.Lock()
	defer sc.loadMu.Unlock()
	if sc.IsLoaded() {
		return NewLoadedResult(sc)
	}
	return l.loadLocked(sc, buildOptions(opts))
}

// LoadScript parses the script's file and installs the resulting triggers.
// The script must be unloaded; loading a loaded script is a programmer
// error.
func (l *ScriptLoader) LoadScript(sc *Script, opts ...ParseOption) *ScriptLoadResult {
	sc.loadMu.Lock()
	defer sc.loadMu.Unlock()
	invariant.Precondition(!sc.IsLoaded(), "tried loading elements into a loaded script file: %s", sc.Path())
	return l.loadLocked(sc, buildOptions(opts))
}

// Reload unloads the script if needed and loads it again with a fresh log.
// The script identity is preserved.
func (l *ScriptLoader) Reload(sc *Script, opts ...ParseOption) *ScriptLoadResult {
	sc.loadMu.Lock()
	defer sc.loadMu.Unlock()
	if sc.IsLoaded() {
		sc.Unload()
	}
	return l.loadLocked(sc, buildOptions(opts))
}

func (l *ScriptLoader) getOrCreate(path string) *Script {
	l.mu.Lock()
	defer l.mu.Unlock()
	if sc, ok := l.scripts[path]; ok {
		return sc
	}
	sc := NewScript(path, scriptName(path))
	l.scripts[path] = sc
	return sc
}

// scriptName strips one extension from the file name.
func scriptName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// loadLocked runs the full load pipeline with the script's lifecycle lock
// held: read, element tree, cold parse, priority sort, finalize, install.
func (l *ScriptLoader) loadLocked(sc *Script, opts ParseOptions) *ScriptLoadResult {
	logger := sklog.New(opts.debug)
	logger.SetScript(sc.Name())
	l.parser.SetContext(opts.ctx)

	lines, err := file.ReadLines(sc.Path())
	if err != nil {
		logger.Error(fmt.Sprintf("Could not read script file: %v", err), sklog.Exception)
		return NewScriptLoadResult(logger.Close(), nil)
	}

	elements := file.Parse(lines, 1, logger)
	return l.loadElements(sc, elements, logger, opts)
}

// LoadElements loads a pre-built element tree into an unloaded script.
// Exposed for callers that already split the source themselves.
func (l *ScriptLoader) LoadElements(sc *Script, elements []file.Element, logger *sklog.SkriptLogger, opts ...ParseOption) *ScriptLoadResult {
	sc.loadMu.Lock()
	defer sc.loadMu.Unlock()
	invariant.Precondition(!sc.IsLoaded(), "tried loading elements into a loaded script file: %s", sc.Path())
	return l.loadElements(sc, elements, logger, buildOptions(opts))
}

func (l *ScriptLoader) loadElements(sc *Script, elements []file.Element, logger *sklog.SkriptLogger, opts ParseOptions) *ScriptLoadResult {
	var unloaded []*UnloadedTrigger

	// Cold parse: only trigger headers, bodies wait for the priority order.
	for _, element := range elements {
		logger.LogOutput()
		logger.SetLine(element.Line())
		if _, void := element.(*file.Void); void {
			continue
		}
		sec, isSection := element.(*file.Section)
		if !isSection {
			logger.Error("Can't have code outside of a trigger", sklog.StructureError)
			continue
		}
		// A conditional clause that escaped to the top level is a structure
		// error, not a missing event.
		switch {
		case strings.EqualFold(sec.Content(), "else"):
			logger.Error("An 'else' must be placed after an 'if' or an 'else if'", sklog.StructureError)
			continue
		case startsWithIgnoreCase(sec.Content(), "else if "):
			logger.Error("An 'else if' must be placed after an 'if'", sklog.StructureError)
			continue
		}
		if ut, ok := l.parser.ParseTrigger(sec, logger); ok {
			unloaded = append(unloaded, ut)
		}
	}

	// Higher loading priority loads first; ties keep source order.
	sort.SliceStable(unloaded, func(i, j int) bool {
		return unloaded[i].Trigger().Event().LoadingPriority() > unloaded[j].Trigger().Event().LoadingPriority()
	})

	addons := make(map[registration.Addon]struct{})
	triggers := make([]*lang.Trigger, 0, len(unloaded))
	for _, ut := range unloaded {
		logger.LogOutput()
		logger.SetLine(ut.Line())

		trigger := ut.Trigger()
		state := ut.ParserState()
		state.SetCurrentEvent(trigger.Event())
		trigger.LoadSection(l.parser, ut.Section(), state, logger)

		if !opts.dry {
			if addon := ut.EventInfo().Registerer(); addon != nil {
				addon.HandleTrigger(trigger)
				addons[addon] = struct{}{}
			}
			if l.events != nil {
				trigger.Event().Register(trigger, l.events)
			}
		}
		triggers = append(triggers, trigger)
	}

	sc.Load(triggers)

	if !opts.dry {
		for addon := range addons {
			addon.FinishedLoading()
		}
	}

	logger.LogOutput()
	return NewScriptLoadResult(logger.Close(), sc)
}
