package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"trivia-service/internal/domain"
)

// SnapshotLoader fetches a session's question snapshot from the document store.
type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context, sessionID string) ([]domain.SessionQuestion, error)
}

// SnapshotCache caches session question snapshots in Redis and falls back to a loader on miss.
// Snapshots are stored as JSON: SET gamesession:{sessionID}:questions [...] EX ttl
type SnapshotCache struct {
	client *redis.Client
	loader SnapshotLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewSnapshotCache(client *redis.Client, loader SnapshotLoader, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *SnapshotCache) Questions(ctx context.Context, sessionID string) ([]domain.SessionQuestion, error) {
	if questions, ok := c.fromCache(ctx, sessionID); ok {
		return questions, nil
	}

	result, err, _ := c.sf.Do(sessionID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if questions, ok := c.fromCache(ctx, sessionID); ok {
			return questions, nil
		}

		questions, err := c.loader.LoadSnapshot(ctx, sessionID)
		if err != nil {
			return nil, err
		}

		payload, err := json.Marshal(questions)
		if err != nil {
			return nil, fmt.Errorf("encode snapshot %s: %w", sessionID, err)
		}
		// A failed write only costs a reload next time.
		if err := c.client.Set(ctx, c.key(sessionID), payload, c.ttlWithJitter()).Err(); err != nil {
			log.Warn().Err(err).Str("gameSessionId", sessionID).Msg("cache question snapshot failed")
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.SessionQuestion), nil
}

func (c *SnapshotCache) Invalidate(ctx context.Context, sessionID string) error {
	c.sf.Forget(sessionID)
	if err := c.client.Del(ctx, c.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("invalidate snapshot %s: %w", sessionID, err)
	}
	return nil
}

func (c *SnapshotCache) fromCache(ctx context.Context, sessionID string) ([]domain.SessionQuestion, bool) {
	raw, err := c.client.Get(ctx, c.key(sessionID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("gameSessionId", sessionID).Msg("read question snapshot from cache failed")
		}
		return nil, false
	}
	var questions []domain.SessionQuestion
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, false
	}
	return questions, true
}

func (c *SnapshotCache) key(sessionID string) string {
	return "gamesession:" + sessionID + ":questions"
}

func (c *SnapshotCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
