package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type botService interface {
	ComputeMove(board entity.Board, computerMark, opponentMark entity.Mark) (int, error)
}

// GameController drives one session: it places marks, records wins and plays the computer's turns.
// It holds no locks; callers serialize access.
type GameController struct {
	session *entity.Session
	bot     botService
}

func NewGameController(session *entity.Session, bot botService) *GameController {
	if session.Game == nil {
		session.Game = entity.NewGame()
	}

	return &GameController{
		session: session,
		bot:     bot,
	}
}

func (that *GameController) Session() *entity.Session {
	return that.session
}

// PlaceMark places player's mark on cell and records the win if the move ends the game.
func (that *GameController) PlaceMark(cell int, player entity.Mark) error {
	game := that.session.Game

	if err := game.PlaceMark(cell, player); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	// a finished game rejects every later move, so this runs once per win
	if game.IsWon() {
		that.session.Score.RecordWin(game.Winner)
	}

	return nil
}

// ClickCell places the mark of whoever's turn it is. The computer's turns are not clickable.
func (that *GameController) ClickCell(cell int) error {
	if that.session.IsComputerTurn() {
		return apperror.ErrNotYourTurn
	}

	return that.PlaceMark(cell, that.session.Game.Turn)
}

// ComputerPending reports whether the computer owes a move.
func (that *GameController) ComputerPending() bool {
	return that.session.IsComputerTurn()
}

// PlayComputerTurn lets the computer move. It returns played=false when it is not the computer's turn.
func (that *GameController) PlayComputerTurn() (cell int, played bool, err error) {
	if !that.session.IsComputerTurn() {
		return -1, false, nil
	}

	cell, err = that.bot.ComputeMove(that.session.Game.Board, entity.ComputerMark, entity.ComputerMark.Opponent())
	if err != nil {
		return -1, false, fmt.Errorf("bot failed to compute move: %w", err)
	}

	if err = that.PlaceMark(cell, entity.ComputerMark); err != nil {
		return -1, false, fmt.Errorf("bot failed to make turn: %w", err)
	}

	return cell, true, nil
}

// Reset starts a new game. The score is kept.
func (that *GameController) Reset() {
	that.newRound()
}

func (that *GameController) newRound() {
	that.session.Game.Reset()
	that.session.Round++
}

// SetMode switches the mode and starts a new game.
func (that *GameController) SetMode(mode entity.Mode, resetScore bool) error {
	if !mode.IsValid() {
		return fmt.Errorf("%w: %q", apperror.ErrInvalidMode, mode)
	}

	that.session.Mode = mode
	that.newRound()

	if resetScore {
		that.session.Score.Reset()
	}

	return nil
}
