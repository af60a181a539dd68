package base

import (
	"reflect"

	"github.com/chaossafti/skript-parser/lang"
	"github.com/chaossafti/skript-parser/registration"
)

// ScriptLoadEventName keys script-load triggers on the event bus.
const ScriptLoadEventName = "script load"

// EvtScriptLoad fires once a script finishes loading.
type EvtScriptLoad struct{}

func (e *EvtScriptLoad) Init([]lang.Expression, int, *lang.ParseContext) bool { return true }

func (e *EvtScriptLoad) LoadingPriority() int { return 0 }

func (e *EvtScriptLoad) Check(ctx lang.TriggerContext) bool {
	_, ok := ctx.(lang.ScriptLoadContext)
	return ok
}

func (e *EvtScriptLoad) Register(t *lang.Trigger, mgr *lang.EventManager) {
	mgr.RegisterTrigger(ScriptLoadEventName, t)
}

func (e *EvtScriptLoad) ToString(ctx lang.TriggerContext, debug bool) string {
	return ScriptLoadEventName
}

func registerSyntax(reg *registration.SkriptRegistration) error {
	if err := reg.AddEvent(
		func() lang.SyntaxElement { return &EvtScriptLoad{} },
		[]reflect.Type{reflect.TypeOf(lang.ScriptLoadContext{})},
		0,
		"[on] [script] load[ing]",
	); err != nil {
		return err
	}
	return registerSections(reg)
}
