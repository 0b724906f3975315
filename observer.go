package harness

import (
	"context"
	"slices"
	"sync"
	"time"
)

// Observer receives harness lifecycle events as CloudEvents. Observers
// register with the Runner to watch runs without implementing a full
// Reporter; they should handle events quickly to avoid delaying the run.
type Observer interface {
	// OnEvent is called when an event the observer subscribed to occurs.
	OnEvent(ctx context.Context, event CloudEvent) error

	// ObserverID returns a unique identifier for this observer, used for
	// registration tracking and debugging.
	ObserverID() string
}

// FunctionalObserver wraps a function as an Observer, for quick observer
// creation without defining a struct.
type FunctionalObserver struct {
	id      string
	handler func(ctx context.Context, event CloudEvent) error
}

// NewFunctionalObserver creates an observer that delegates to handler.
func NewFunctionalObserver(id string, handler func(ctx context.Context, event CloudEvent) error) Observer {
	return &FunctionalObserver{id: id, handler: handler}
}

// OnEvent implements Observer by calling the handler function.
func (f *FunctionalObserver) OnEvent(ctx context.Context, event CloudEvent) error {
	return f.handler(ctx, event)
}

// ObserverID implements Observer.
func (f *FunctionalObserver) ObserverID() string {
	return f.id
}

// observerRegistration tracks one registered observer and its event-type
// filter (empty means all events).
type observerRegistration struct {
	observer     Observer
	eventTypes   []string
	registeredAt time.Time
}

func (o observerRegistration) wants(eventType string) bool {
	return len(o.eventTypes) == 0 || slices.Contains(o.eventTypes, eventType)
}

// observerSet is the Runner's observer bookkeeping.
type observerSet struct {
	mu        sync.RWMutex
	observers []observerRegistration
}

func (s *observerSet) register(observer Observer, eventTypes ...string) error {
	if observer == nil {
		return ErrObserverNil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observerRegistration{
		observer:     observer,
		eventTypes:   eventTypes,
		registeredAt: time.Now(),
	})
	return nil
}

func (s *observerSet) unregister(observer Observer) {
	if observer == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = slices.DeleteFunc(s.observers, func(r observerRegistration) bool {
		return r.observer.ObserverID() == observer.ObserverID()
	})
}

// notify delivers the event to all interested observers. Observer errors
// are logged and never interrupt delivery or the run.
func (s *observerSet) notify(ctx context.Context, event CloudEvent, logger Logger) {
	s.mu.RLock()
	registrations := slices.Clone(s.observers)
	s.mu.RUnlock()

	for _, registration := range registrations {
		if !registration.wants(event.Type()) {
			continue
		}
		if err := registration.observer.OnEvent(ctx, event); err != nil {
			logger.Warn("Observer failed to handle event",
				"observer", registration.observer.ObserverID(),
				"eventType", event.Type(), "error", err)
		}
	}
}
