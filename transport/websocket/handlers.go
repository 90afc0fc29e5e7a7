package websocket

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

var errNoSession = errors.New("no session on this connection, send connect first")

// handleConnect - attaches the connection to an existing session or to a new one.
func (that *Server) handleConnect(ctx context.Context, conn *connection, payload *Payload) error {
	session, err := that.gameUseCase.Connect(ctx, payload.SessionID)
	if err != nil {
		that.sendError(conn, "failed to connect")
		return fmt.Errorf("failed to connect: %w", err)
	}

	conn.setSessionID(session.ID)
	that.sendState(conn, session)

	// a reconnect may land on a computer turn whose delayed move was lost with the old connection
	if session.IsComputerTurn() {
		that.scheduleComputerMove(ctx, conn, session.ID, session.Round)
	}

	return nil
}

func (that *Server) handleCellClick(ctx context.Context, conn *connection, payload *Payload) error {
	log := that.logger.With("method", "handleCellClick")

	sessionID, err := that.requireSession(conn)
	if err != nil {
		return err
	}

	if payload.Cell == nil {
		that.sendError(conn, "cell is required")
		return nil
	}

	session, computerPending, err := that.gameUseCase.ClickCell(ctx, sessionID, *payload.Cell)
	if err != nil {
		// clicks on occupied cells, finished games or the computer's turn are ignored
		if errors.Is(err, apperror.ErrInvalidMove) {
			log.Debug("ignored click", "session", sessionID, "cell", *payload.Cell, "reason", err)
			return nil
		}

		return that.handleUseCaseError(conn, err)
	}

	that.sendState(conn, session)

	if computerPending {
		that.scheduleComputerMove(ctx, conn, sessionID, session.Round)
	}

	return nil
}

func (that *Server) handleModeSelect(ctx context.Context, conn *connection, payload *Payload) error {
	sessionID, err := that.requireSession(conn)
	if err != nil {
		return err
	}

	mode, err := entity.ParseMode(payload.Mode)
	if err != nil {
		that.sendError(conn, "unknown mode")
		return nil
	}

	session, err := that.gameUseCase.SelectMode(ctx, sessionID, mode)
	if err != nil {
		return that.handleUseCaseError(conn, err)
	}

	that.sendState(conn, session)

	return nil
}

func (that *Server) handleGameReset(ctx context.Context, conn *connection, _ *Payload) error {
	sessionID, err := that.requireSession(conn)
	if err != nil {
		return err
	}

	session, err := that.gameUseCase.Reset(ctx, sessionID)
	if err != nil {
		return that.handleUseCaseError(conn, err)
	}

	that.sendState(conn, session)

	return nil
}

func (that *Server) handleSessionClose(ctx context.Context, conn *connection, _ *Payload) error {
	sessionID, err := that.requireSession(conn)
	if err != nil {
		return err
	}

	if err = that.gameUseCase.Close(ctx, sessionID); err != nil {
		return that.handleUseCaseError(conn, err)
	}

	conn.setSessionID("")

	return nil
}

// scheduleComputerMove - plays the computer's turn in round after the configured delay.
// A reset or mode change during the delay starts a new round and turns the move into a no-op.
func (that *Server) scheduleComputerMove(ctx context.Context, conn *connection, sessionID string, round int) {
	log := that.logger.With("method", "scheduleComputerMove")

	time.AfterFunc(that.computerDelay, func() {
		if ctx.Err() != nil {
			return
		}

		session, played, err := that.gameUseCase.ComputerMove(ctx, sessionID, round)
		if err != nil {
			log.Error("computer failed to move", "session", sessionID, "error", err)
			return
		}

		if played && conn.SessionID() == sessionID {
			that.sendState(conn, session)
		}
	})
}

func (that *Server) requireSession(conn *connection) (string, error) {
	sessionID := conn.SessionID()
	if sessionID == "" {
		that.sendError(conn, errNoSession.Error())
		return "", errNoSession
	}

	return sessionID, nil
}

func (that *Server) handleUseCaseError(conn *connection, err error) error {
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound):
		conn.setSessionID("")
		that.sendError(conn, "session not found")
	case errors.Is(err, apperror.ErrInvalidMode):
		that.sendError(conn, "unknown mode")
	default:
		that.sendError(conn, "internal error")
	}

	return err
}
