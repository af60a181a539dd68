package lang

import "sync"

// EventHandler receives event contexts from the bus.
type EventHandler interface {
	Handle(ctx TriggerContext)
	// Supports filters contexts before Handle is called.
	Supports(ctx TriggerContext) bool
}

// EventManager is the bus triggers register on. Handlers are keyed by event
// name; dispatch walks every handler registered for the name.
type EventManager struct {
	mu     sync.RWMutex
	events map[string][]EventHandler
}

// NewEventManager creates an empty bus.
func NewEventManager() *EventManager {
	return &EventManager{events: make(map[string][]EventHandler)}
}

// RegisterTrigger wraps a trigger into a handler and registers it under the
// event name.
func (m *EventManager) RegisterTrigger(eventName string, trigger *Trigger) *TriggerEventHandler {
	h := &TriggerEventHandler{trigger: trigger}
	m.RegisterHandler(eventName, h)
	return h
}

// RegisterHandler registers an arbitrary handler under an event name.
func (m *EventManager) RegisterHandler(eventName string, h EventHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[eventName] = append(m.events[eventName], h)
}

// RemoveHandler detaches a handler from an event name.
func (m *EventManager) RemoveHandler(eventName string, h EventHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	handlers := m.events[eventName]
	for i, existing := range handlers {
		if existing == h {
			m.events[eventName] = append(handlers[:i:i], handlers[i+1:]...)
			return
		}
	}
}

// CallEvent dispatches a context to every supporting handler of the name.
func (m *EventManager) CallEvent(eventName string, ctx TriggerContext) {
	m.mu.RLock()
	handlers := make([]EventHandler, len(m.events[eventName]))
	copy(handlers, m.events[eventName])
	m.mu.RUnlock()

	for _, h := range handlers {
		if h.Supports(ctx) {
			h.Handle(ctx)
		}
	}
}

// TriggerEventHandler runs a trigger's statement chain when its event
// fires.
type TriggerEventHandler struct {
	trigger *Trigger
}

// Trigger returns the wrapped trigger.
func (h *TriggerEventHandler) Trigger() *Trigger { return h.trigger }

func (h *TriggerEventHandler) Handle(ctx TriggerContext) {
	h.trigger.Execute(ctx)
}

func (h *TriggerEventHandler) Supports(ctx TriggerContext) bool {
	return h.trigger.Event().Check(ctx)
}
