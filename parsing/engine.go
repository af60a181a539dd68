package parsing

import (
	"github.com/chaossafti/skript-parser/lang"
	sklog "github.com/chaossafti/skript-parser/log"
	"github.com/chaossafti/skript-parser/registration"
	"github.com/chaossafti/skript-parser/types"
	"github.com/chaossafti/skript-parser/variables"
)

// Engine bundles the registries and the parser/loader pair built over
// them. Registries are populated at startup through NewRegistration and
// treated as frozen once parsing begins.
type Engine struct {
	Manager     *registration.SyntaxManager
	Types       *types.Manager
	Converters  *types.Converters
	Comparators *types.Comparators
	Variables   *variables.MapStore
	Events      *lang.EventManager
	Parser      *SyntaxParser
	Loader      *ScriptLoader
}

// NewEngine wires an empty engine: fresh registries, a map-backed variable
// store, an event bus, and the parser and loader over them.
func NewEngine() *Engine {
	tm := types.NewManager()
	conv := types.NewConverters()
	comp := types.NewComparators()
	mgr := registration.NewSyntaxManager()
	store := variables.NewMapStore()
	vars := variables.NewParser(store)
	parser := NewSyntaxParser(mgr, tm, conv, comp, vars)
	// Indexes inside {name::%index%} are full expressions; route them back
	// through the parser. The object type is looked up per call since it
	// is registered after the engine is built.
	vars.SetIndexParser(func(s string, state *lang.ParserState, logger *sklog.SkriptLogger) (lang.Expression, bool) {
		t, ok := tm.ByType(types.AnyType)
		if !ok {
			return nil, false
		}
		return parser.ParseExpression(s, types.PatternType{T: t, Single: true}, state, logger)
	})
	events := lang.NewEventManager()

	return &Engine{
		Manager:     mgr,
		Types:       tm,
		Converters:  conv,
		Comparators: comp,
		Variables:   store,
		Events:      events,
		Parser:      parser,
		Loader:      NewScriptLoader(parser, events),
	}
}

// NewRegistration opens a registration façade for an addon against this
// engine's registries.
func (e *Engine) NewRegistration(addon registration.Addon) *registration.SkriptRegistration {
	return registration.NewRegistration(addon, e.Manager, e.Types, e.Converters, e.Comparators)
}
