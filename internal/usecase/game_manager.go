package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

type botService interface {
	ComputeMove(board entity.Board, computerMark, opponentMark entity.Mark) (int, error)
}

// GameManager translates UI events into engine calls on stored sessions.
// Every operation is a load-modify-store cycle guarded by one mutex.
type GameManager struct {
	logger *slog.Logger

	mu          sync.Mutex
	sessionRepo sessionRepo
	bot         botService

	keepScoreOnModeChange bool
}

func NewGameManager(logger *slog.Logger, sessionRepo sessionRepo, bot botService, keepScoreOnModeChange bool) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		sessionRepo: sessionRepo,
		bot:         bot,

		keepScoreOnModeChange: keepScoreOnModeChange,
	}
}

// Connect returns the session with sessionID, or a fresh one when the id is empty or unknown.
func (that *GameManager) Connect(ctx context.Context, sessionID string) (*entity.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if sessionID != "" {
		session, err := that.sessionRepo.GetByID(ctx, sessionID)
		if err == nil {
			return session, nil
		}

		if !errors.Is(err, apperror.ErrSessionNotFound) {
			return nil, fmt.Errorf("failed to get session: %w", err)
		}

		that.logger.Debug("session not found, creating a new one", "sessionID", sessionID)
	}

	session := entity.NewSession(uuid.NewString())
	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	that.logger.Info("session created", "sessionID", session.ID)

	return session, nil
}

func (that *GameManager) GetSession(ctx context.Context, sessionID string) (*entity.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// ClickCell places the current player's mark on cell. computerPending tells the caller to schedule
// ComputerMove. A rejected move returns the unchanged session together with the error.
func (that *GameManager) ClickCell(ctx context.Context, sessionID string, cell int) (session *entity.Session, computerPending bool, err error) {
	session, err = that.update(ctx, sessionID, func(controller *tictactoe.GameController) error {
		return controller.ClickCell(cell)
	})
	if err != nil {
		return session, false, fmt.Errorf("failed to click cell: %w", err)
	}

	return session, session.IsComputerTurn(), nil
}

// ComputerMove plays the computer's turn if it still owes one in round, the session round seen when
// the move was scheduled. A reset or mode change during the delay starts a new round and turns this
// into a no-op with played=false, even when the computer owes a move in the new round.
func (that *GameManager) ComputerMove(ctx context.Context, sessionID string, round int) (session *entity.Session, played bool, err error) {
	session, err = that.update(ctx, sessionID, func(controller *tictactoe.GameController) error {
		if controller.Session().Round != round {
			that.logger.Debug("stale computer move", "sessionID", sessionID, "round", round)
			return nil
		}

		cell, ok, moveErr := controller.PlayComputerTurn()
		if moveErr != nil {
			return moveErr
		}

		if ok {
			that.logger.Debug("computer moved", "sessionID", sessionID, "cell", cell)
		}

		played = ok

		return nil
	})
	if err != nil {
		return session, false, fmt.Errorf("failed to make computer move: %w", err)
	}

	return session, played, nil
}

// SelectMode switches the mode and starts a new game.
func (that *GameManager) SelectMode(ctx context.Context, sessionID string, mode entity.Mode) (*entity.Session, error) {
	session, err := that.update(ctx, sessionID, func(controller *tictactoe.GameController) error {
		return controller.SetMode(mode, !that.keepScoreOnModeChange)
	})
	if err != nil {
		return session, fmt.Errorf("failed to select mode: %w", err)
	}

	return session, nil
}

// Reset starts a new game and keeps the score.
func (that *GameManager) Reset(ctx context.Context, sessionID string) (*entity.Session, error) {
	session, err := that.update(ctx, sessionID, func(controller *tictactoe.GameController) error {
		controller.Reset()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reset game: %w", err)
	}

	return session, nil
}

func (that *GameManager) Close(ctx context.Context, sessionID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	that.logger.Info("session closed", "sessionID", sessionID)

	return nil
}

// update loads the session, applies action and stores the result. Nothing is stored when action fails.
func (that *GameManager) update(ctx context.Context, sessionID string, action func(controller *tictactoe.GameController) error) (*entity.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	controller := tictactoe.NewGameController(session, that.bot)
	finishedBefore := session.Game.IsFinished()

	if err = action(controller); err != nil {
		return session, err
	}

	if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	if !finishedBefore && session.Game.IsFinished() {
		that.logger.Info("game finished", "sessionID", session.ID, "status", session.Game.Status,
			"winner", session.Game.Winner, "x_wins", session.Score.XWins, "o_wins", session.Score.OWins)
	}

	return session, nil
}
