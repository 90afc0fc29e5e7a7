package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type memoryRecord struct {
	data      []byte
	expiresAt time.Time
}

type memorySession struct {
	mu       sync.RWMutex
	sessions map[string]memoryRecord
	ttl      time.Duration
	now      func() time.Time
}

// NewMemorySessionRepository keeps sessions in process memory with the same semantics as the Redis
// repository: values are stored as JSON copies and expire ttl after their last write.
func NewMemorySessionRepository(ttl time.Duration) SessionRepository {
	return newMemorySessionRepository(ttl, time.Now)
}

func newMemorySessionRepository(ttl time.Duration, now func() time.Time) *memorySession {
	return &memorySession{
		sessions: make(map[string]memoryRecord),
		ttl:      ttl,
		now:      now,
	}
}

func (that *memorySession) CreateOrUpdate(_ context.Context, session *entity.Session) error {
	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("could not marshal session: %w", err)
	}

	record := memoryRecord{data: sessionJSON}
	if that.ttl > 0 {
		record.expiresAt = that.now().Add(that.ttl)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	for id, existing := range that.sessions {
		if that.expired(existing) {
			delete(that.sessions, id)
		}
	}

	that.sessions[session.ID] = record

	return nil
}

func (that *memorySession) GetByID(_ context.Context, id string) (*entity.Session, error) {
	that.mu.RLock()
	record, ok := that.sessions[id]
	that.mu.RUnlock()

	if !ok || that.expired(record) {
		return nil, apperror.ErrSessionNotFound
	}

	var existingSession entity.Session
	if err := json.Unmarshal(record.data, &existingSession); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &existingSession, nil
}

func (that *memorySession) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	record, ok := that.sessions[id]
	if !ok {
		return apperror.ErrSessionNotFound
	}

	delete(that.sessions, id)

	if that.expired(record) {
		return apperror.ErrSessionNotFound
	}

	return nil
}

func (that *memorySession) expired(record memoryRecord) bool {
	return !record.expiresAt.IsZero() && !that.now().Before(record.expiresAt)
}
