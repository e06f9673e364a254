package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"trivia-service/internal/domain"
)

// publish sends ev best-effort; delivery failures never fail the request.
func (o options) publish(ctx context.Context, ev domain.Event) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = o.now()
	}
	if err := o.events.Publish(ctx, ev); err != nil {
		log.Warn().Err(err).
			Str("event", string(ev.Type)).
			Str("gameSessionId", ev.GameSessionID).
			Msg("publish game event failed")
	}
}
