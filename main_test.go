package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

func TestNewCommand(t *testing.T) {
	t.Run("Commands are registered", func(t *testing.T) {
		cmd := newCommand()

		names := make([]string, 0, len(cmd.Commands))
		for _, sub := range cmd.Commands {
			names = append(names, sub.Name)
		}

		assert.Equal(t, []string{"serve", "play", "stopwatch"}, names)
	})

	t.Run("Play rejects an unknown mode", func(t *testing.T) {
		err := newCommand().Run(context.Background(), []string{"tictactoe", "play", "--mode", "online"})

		require.ErrorIs(t, err, apperror.ErrInvalidMode)
	})

	t.Run("Play fails on a missing config file", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "missing.yml")

		err := newCommand().Run(context.Background(), []string{"tictactoe", "play", "--config", missing})

		require.Error(t, err)
	})
}
