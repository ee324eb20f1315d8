// Package events delivers domain events to subscribers in the process.
package events

import (
	"context"
	"log"
	"sync"

	"github.com/investperdiem/perdiem/pkg/domain"
)

// Handler reacts to an event. Errors are logged by the bus.
type Handler func(ctx context.Context, ev domain.Event) error

type Bus interface {
	// Publish delivers ev to every subscriber, in the order they subscribed.
	//
	// It returns after all handlers return. Call it after the commit of the
	// transaction which the event reports.
	Publish(ctx context.Context, ev domain.Event)

	// Subscribe registers h under name. name is used in logs.
	Subscribe(name string, h Handler)
}

type subscriber struct {
	name    string
	handler Handler
}

type bus struct {
	mu          sync.RWMutex
	subscribers []subscriber
	logger      *log.Logger
}

func New(logger *log.Logger) Bus {
	return &bus{logger: logger}
}

func (b *bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, subscriber{name: name, handler: h})
}

func (b *bus) Publish(ctx context.Context, ev domain.Event) {
	b.mu.RLock()
	subs := b.subscribers
	b.mu.RUnlock()

	for _, s := range subs {
		if err := s.handler(ctx, ev); err != nil {
			b.logger.Printf("%s: failed to handle %s: %v", s.name, ev.Kind(), err)
		}
	}
}

// Null is a bus which drops every event.
func Null() Bus {
	return null{}
}

type null struct{}

func (null) Publish(context.Context, domain.Event) {}
func (null) Subscribe(string, Handler)             {}
