package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"trivia-service/internal/domain"
)

// Option customizes the services' collaborators.
type Option func(*options)

type options struct {
	now    func() time.Time
	newID  func() string
	events EventPublisher
}

func buildOptions(opts []Option) options {
	o := options{
		now:    time.Now,
		newID:  uuid.NewString,
		events: NopPublisher{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClock is used by tests for deterministic timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator replaces the uuid-based document ID generator.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

// WithEventPublisher sets where game events are sent.
func WithEventPublisher(p EventPublisher) Option {
	return func(o *options) {
		if p != nil {
			o.events = p
		}
	}
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.Event) error { return nil }
