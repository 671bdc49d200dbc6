package events

import (
	"fmt"
	"sync"

	console "draperads/internal/utils/logger"
)

var log = console.New("EVENTS")

// Entity lifecycle events emitted by the services.
const (
	AdCreated      = "ads.created"
	AdUpdated      = "ads.updated"
	AdPublished    = "ads.published"
	AdSetCreated   = "ad_sets.created"
	UserLoggedIn   = "users.logged_in"
	WizardStep     = "wizard.step"
	MediaUploaded  = "media.uploaded"
	SessionsPruned = "sessions.pruned"
)

// Lifecycle lists the domain events counted on /metrics.
var Lifecycle = []string{
	AdCreated, AdUpdated, AdPublished, AdSetCreated, UserLoggedIn, MediaUploaded, SessionsPruned,
}

type EventHandler func(interface{})

type subscription struct {
	id      int
	handler EventHandler
}

type EventBus struct {
	handlers map[string][]subscription
	nextID   int
	mu       sync.RWMutex
}

var defaultBus = NewEventBus()

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[string][]subscription),
	}
}

// On registers a handler for an event and returns a function that removes it.
func (bus *EventBus) On(event string, handler EventHandler) func() {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	bus.nextID++
	id := bus.nextID
	bus.handlers[event] = append(bus.handlers[event], subscription{id: id, handler: handler})
	log.Debug("Registered handler for event: %s", event)

	return func() { bus.off(event, id) }
}

func (bus *EventBus) off(event string, id int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	subs := bus.handlers[event]
	for i, s := range subs {
		if s.id == id {
			bus.handlers[event] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Emit triggers an event with the given data. Handlers run on their own goroutines.
func (bus *EventBus) Emit(event string, data interface{}) {
	bus.mu.RLock()
	subs := append([]subscription(nil), bus.handlers[event]...)
	bus.mu.RUnlock()

	if len(subs) == 0 {
		return
	}

	log.Debug("Emitting event: %s", event)

	for _, s := range subs {
		go func(h EventHandler) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("Panic in handler for %s", fmt.Errorf("panic: %v", r), event)
				}
			}()
			h(data)
		}(s.handler)
	}
}

// On Global event functions that use the default event bus
func On(event string, handler EventHandler) func() {
	return defaultBus.On(event, handler)
}

func Emit(event string, data interface{}) {
	defaultBus.Emit(event, data)
}

// Default returns the process-wide bus.
func Default() *EventBus {
	return defaultBus
}
