package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"trivia-service/internal/domain"
)

// SnapshotLoader fetches a session's question snapshot from the document store.
type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context, sessionID string) ([]domain.SessionQuestion, error)
}

// SnapshotCache caches session question snapshots with TTL to avoid repeated store reads.
type SnapshotCache struct {
	loader SnapshotLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedSnapshot
}

type cachedSnapshot struct {
	questions []domain.SessionQuestion
	expiresAt time.Time
}

func NewSnapshotCache(loader SnapshotLoader, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedSnapshot),
	}
}

func (c *SnapshotCache) Questions(ctx context.Context, sessionID string) ([]domain.SessionQuestion, error) {
	if questions, ok := c.lookup(sessionID); ok {
		return questions, nil
	}

	result, err, _ := c.sf.Do(sessionID, func() (interface{}, error) {
		if questions, ok := c.lookup(sessionID); ok {
			return questions, nil
		}

		questions, err := c.loader.LoadSnapshot(ctx, sessionID)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cache[sessionID] = cachedSnapshot{
			questions: questions,
			expiresAt: c.clock().Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.SessionQuestion), nil
}

func (c *SnapshotCache) Invalidate(_ context.Context, sessionID string) error {
	c.mu.Lock()
	delete(c.cache, sessionID)
	c.mu.Unlock()
	c.sf.Forget(sessionID)
	return nil
}

func (c *SnapshotCache) lookup(sessionID string) ([]domain.SessionQuestion, bool) {
	now := c.clock()
	c.mu.RLock()
	defer c.mu.RUnlock()
	if entry, ok := c.cache[sessionID]; ok && entry.expiresAt.After(now) {
		return entry.questions, true
	}
	return nil, false
}

func (c *SnapshotCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
