package registration

import "github.com/chaossafti/skript-parser/lang"

// Addon is a module that registers syntax and may observe loaded triggers.
type Addon interface {
	Name() string
	// HandleTrigger is called for every finalized trigger of an event this
	// addon registered. Kept for compatibility; most addons don't need it
	// since Init sees everything the trigger knows.
	HandleTrigger(t *lang.Trigger)
	// FinishedLoading is called once a script finished loading.
	FinishedLoading()
}

// BaseAddon is a no-op Addon to embed.
type BaseAddon struct {
	AddonName string
}

func (a BaseAddon) Name() string { return a.AddonName }

func (BaseAddon) HandleTrigger(*lang.Trigger) {}

func (BaseAddon) FinishedLoading() {}
