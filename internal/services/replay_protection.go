package services

import (
	"context"
	"sync"
	"time"

	"receipt-relay/pkg/logging"
)

// ReplayStore records webhook digests so that a request replayed with the
// same body and signature is delivered to the handler at most once.
type ReplayStore interface {
	// Seen reports whether digest was recorded before, recording it as a
	// side effect when it was not.
	Seen(ctx context.Context, digest string) (bool, error)
}

// MemoryReplayStore keeps processed digests in memory with a TTL. It is the
// fallback when no Redis URL is configured; records do not survive restarts.
type MemoryReplayStore struct {
	processed       map[string]time.Time
	mutex           sync.Mutex
	cleanupInterval time.Duration
	digestTTL       time.Duration
	stopCleanup     chan bool
}

// NewMemoryReplayStore creates an in-memory replay store holding digests
// for ttl and starts its cleanup goroutine.
func NewMemoryReplayStore(ttl time.Duration) *MemoryReplayStore {
	rs := &MemoryReplayStore{
		processed:       make(map[string]time.Time),
		cleanupInterval: time.Hour,
		digestTTL:       ttl,
		stopCleanup:     make(chan bool),
	}

	go rs.startCleanupRoutine()

	return rs
}

func (rs *MemoryReplayStore) Seen(_ context.Context, digest string) (bool, error) {
	rs.mutex.Lock()
	defer rs.mutex.Unlock()

	if processedTime, exists := rs.processed[digest]; exists {
		logging.Infof("Replay detected - digest: %s, previously processed at: %v", digest, processedTime)
		return true, nil
	}

	rs.processed[digest] = time.Now()
	return false, nil
}

func (rs *MemoryReplayStore) startCleanupRoutine() {
	ticker := time.NewTicker(rs.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rs.cleanup()
		case <-rs.stopCleanup:
			return
		}
	}
}

func (rs *MemoryReplayStore) cleanup() {
	rs.mutex.Lock()
	defer rs.mutex.Unlock()

	now := time.Now()
	initialCount := len(rs.processed)

	for digest, processedTime := range rs.processed {
		if now.Sub(processedTime) > rs.digestTTL {
			delete(rs.processed, digest)
		}
	}

	cleanedCount := initialCount - len(rs.processed)
	if cleanedCount > 0 {
		logging.Infof("Replay store cleanup: removed %d expired digests, remaining: %d", cleanedCount, len(rs.processed))
	}
}

// Stop stops the cleanup goroutine
func (rs *MemoryReplayStore) Stop() {
	close(rs.stopCleanup)
}
