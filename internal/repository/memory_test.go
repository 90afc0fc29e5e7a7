package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type fakeClock struct {
	now time.Time
}

func (that *fakeClock) Now() time.Time {
	return that.now
}

func TestMemorySessionRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Stored session is returned as a copy", func(t *testing.T) {
		// Given: a stored session
		sessionRepo := NewMemorySessionRepository(time.Minute)
		session := finishedSession("123")
		require.NoError(t, sessionRepo.CreateOrUpdate(ctx, session))

		// When: the caller keeps mutating its own value
		session.Score.XWins = 10

		// Then: the stored session is unaffected
		retrievedSession, err := sessionRepo.GetByID(ctx, "123")
		require.NoError(t, err)
		assert.Equal(t, finishedSession("123"), retrievedSession)
	})

	t.Run("Unknown session is not found", func(t *testing.T) {
		sessionRepo := NewMemorySessionRepository(0)

		_, err := sessionRepo.GetByID(ctx, "9999999")
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)

		err = sessionRepo.DeleteByID(ctx, "9999999")
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("Delete removes the session", func(t *testing.T) {
		sessionRepo := NewMemorySessionRepository(0)
		require.NoError(t, sessionRepo.CreateOrUpdate(ctx, entity.NewSession("123")))

		require.NoError(t, sessionRepo.DeleteByID(ctx, "123"))

		_, err := sessionRepo.GetByID(ctx, "123")
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("Session expires ttl after its last write", func(t *testing.T) {
		// Given: a repository with a one minute ttl and a stored session
		clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
		sessionRepo := newMemorySessionRepository(time.Minute, clock.Now)
		require.NoError(t, sessionRepo.CreateOrUpdate(ctx, entity.NewSession("123")))

		// When: the session is written again after 50 seconds
		clock.now = clock.now.Add(50 * time.Second)
		require.NoError(t, sessionRepo.CreateOrUpdate(ctx, entity.NewSession("123")))

		// Then: it is still there 50 seconds later
		clock.now = clock.now.Add(50 * time.Second)
		_, err := sessionRepo.GetByID(ctx, "123")
		require.NoError(t, err)

		// Then: it is gone once a full minute passed without writes
		clock.now = clock.now.Add(10 * time.Second)
		_, err = sessionRepo.GetByID(ctx, "123")
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)

		// Then: the next write sweeps it out
		require.NoError(t, sessionRepo.CreateOrUpdate(ctx, entity.NewSession("456")))
		assert.Len(t, sessionRepo.sessions, 1)
	})
}
