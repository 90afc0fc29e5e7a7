package tictactoe

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
)

func newController(mode entity.Mode) *GameController {
	session := entity.NewSession("123")
	session.Mode = mode

	return NewGameController(session, service.NewBotService(func(int) int { return 0 }))
}

func playCells(t *testing.T, controller *GameController, cells ...int) {
	t.Helper()

	for _, cell := range cells {
		require.NoError(t, controller.ClickCell(cell), "cell %d", cell)
	}
}

func TestGameController_PlaceMark(t *testing.T) {
	t.Run("X wins with the top row and the score is recorded", func(t *testing.T) {
		// Given: a new player-vs-player session
		controller := newController(entity.ModePlayerVsPlayer)

		// When: X plays 0, O plays 4, X plays 1, O plays 8, X plays 2
		require.NoError(t, controller.PlaceMark(0, entity.PlayerX))
		require.NoError(t, controller.PlaceMark(4, entity.PlayerO))
		require.NoError(t, controller.PlaceMark(1, entity.PlayerX))
		require.NoError(t, controller.PlaceMark(8, entity.PlayerO))
		require.NoError(t, controller.PlaceMark(2, entity.PlayerX))

		// Then: X has won with the top row
		session := controller.Session()
		assert.Equal(t, entity.GameStatus{Status: entity.StatusWon, Player: entity.PlayerX, Line: []int{0, 1, 2}}, session.Game.EvaluateTerminal())

		// Then: the win is counted once
		assert.Equal(t, entity.Score{XWins: 1}, session.Score)
	})

	t.Run("Moves after a win are rejected and not counted", func(t *testing.T) {
		// Given: a game X has won
		controller := newController(entity.ModePlayerVsPlayer)
		playCells(t, controller, 0, 4, 1, 8, 2)
		board := controller.Session().Game.Board

		// When: further moves are attempted
		errO := controller.PlaceMark(3, entity.PlayerO)
		errX := controller.PlaceMark(5, entity.PlayerX)

		// Then: both fail as invalid moves and nothing changes
		require.ErrorIs(t, errO, apperror.ErrGameFinished)
		require.ErrorIs(t, errX, apperror.ErrInvalidMove)
		assert.Equal(t, board, controller.Session().Game.Board)
		assert.Equal(t, entity.Score{XWins: 1}, controller.Session().Score)
	})

	t.Run("Error on cell already occupied", func(t *testing.T) {
		controller := newController(entity.ModePlayerVsPlayer)
		playCells(t, controller, 4)

		err := controller.ClickCell(4)

		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, entity.PlayerO, controller.Session().Game.Turn)
	})
}

func TestGameController_Draw(t *testing.T) {
	// Given: a player-vs-player session
	controller := newController(entity.ModePlayerVsPlayer)

	// When: the players fill the board as X O X / X O O / O X X
	playCells(t, controller, 0, 1, 2, 4, 3, 5, 7, 6, 8)

	// Then: the game is drawn and nobody scores
	session := controller.Session()
	assert.Equal(t, entity.GameStatus{Status: entity.StatusDraw}, session.Game.EvaluateTerminal())
	assert.True(t, session.Game.IsDraw())
	assert.Equal(t, entity.Score{}, session.Score)
	assert.ErrorIs(t, controller.ClickCell(0), apperror.ErrGameFinished)
}

func TestGameController_Reset(t *testing.T) {
	// Given: a game X has won
	controller := newController(entity.ModePlayerVsPlayer)
	playCells(t, controller, 0, 4, 1, 8, 2)

	// When: resetting
	controller.Reset()

	// Then: the board is empty, X moves first and the score is unchanged
	session := controller.Session()
	assert.Equal(t, entity.NewGame(), session.Game)
	assert.Equal(t, entity.GameStatus{Status: entity.StatusOngoing, Player: entity.PlayerX}, session.Game.EvaluateTerminal())
	assert.Equal(t, entity.Score{XWins: 1}, session.Score)

	// Then: a new round has started
	assert.Equal(t, 1, session.Round)
}

func TestGameController_SetMode(t *testing.T) {
	t.Run("Switching mode resets the board and optionally the score", func(t *testing.T) {
		controller := newController(entity.ModePlayerVsPlayer)
		playCells(t, controller, 0, 4, 1, 8, 2)

		require.NoError(t, controller.SetMode(entity.ModePlayerVsComputer, false))

		assert.Equal(t, entity.ModePlayerVsComputer, controller.Session().Mode)
		assert.Equal(t, entity.NewGame(), controller.Session().Game)
		assert.Equal(t, entity.Score{XWins: 1}, controller.Session().Score)

		require.NoError(t, controller.SetMode(entity.ModePlayerVsPlayer, true))

		assert.Equal(t, entity.Score{}, controller.Session().Score)
		assert.Equal(t, 2, controller.Session().Round)
	})

	t.Run("Unknown mode is rejected", func(t *testing.T) {
		controller := newController(entity.ModePlayerVsPlayer)

		err := controller.SetMode("online", true)

		require.ErrorIs(t, err, apperror.ErrInvalidMode)
		assert.Equal(t, entity.ModePlayerVsPlayer, controller.Session().Mode)
	})
}

func TestGameController_Computer(t *testing.T) {
	t.Run("Computer owes a move after the human plays", func(t *testing.T) {
		// Given: a player-vs-computer session
		controller := newController(entity.ModePlayerVsComputer)
		require.False(t, controller.ComputerPending())

		// When: the human plays a corner
		playCells(t, controller, 0)

		// Then: it is the computer's turn and the human cannot click for it
		require.True(t, controller.ComputerPending())
		require.ErrorIs(t, controller.ClickCell(1), apperror.ErrNotYourTurn)

		// When: the computer plays
		cell, played, err := controller.PlayComputerTurn()

		// Then: it takes the center and hands the turn back
		require.NoError(t, err)
		assert.True(t, played)
		assert.Equal(t, 4, cell)
		assert.Equal(t, entity.PlayerO, controller.Session().Game.Board[4])
		assert.False(t, controller.ComputerPending())
	})

	t.Run("Computer blocks and then wins", func(t *testing.T) {
		controller := newController(entity.ModePlayerVsComputer)

		// X 0, O 4 (center), X 1, O must block 2
		playCells(t, controller, 0)
		_, _, err := controller.PlayComputerTurn()
		require.NoError(t, err)
		playCells(t, controller, 1)

		cell, _, err := controller.PlayComputerTurn()
		require.NoError(t, err)
		assert.Equal(t, 2, cell)

		// X 8 leaves O with the anti-diagonal 2, 4, 6
		playCells(t, controller, 8)
		cell, _, err = controller.PlayComputerTurn()
		require.NoError(t, err)
		assert.Equal(t, 6, cell)

		session := controller.Session()
		assert.True(t, session.Game.IsWon())
		assert.Equal(t, entity.PlayerO, session.Game.Winner)
		assert.Equal(t, entity.Score{OWins: 1}, session.Score)
	})

	t.Run("No computer move when it is not its turn", func(t *testing.T) {
		// Given: a fresh player-vs-computer game, as after a reset during the delay
		controller := newController(entity.ModePlayerVsComputer)
		playCells(t, controller, 0)
		controller.Reset()

		// When: the delayed computer move fires
		_, played, err := controller.PlayComputerTurn()

		// Then: nothing happens
		require.NoError(t, err)
		assert.False(t, played)
		assert.Equal(t, entity.NewGame(), controller.Session().Game)
	})

	t.Run("No computer move in player-vs-player mode", func(t *testing.T) {
		controller := newController(entity.ModePlayerVsPlayer)
		playCells(t, controller, 0)

		_, played, err := controller.PlayComputerTurn()

		require.NoError(t, err)
		assert.False(t, played)
	})
}

func TestGameController_RandomClicksKeepInvariants(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2)) //nolint: gosec // deterministic test input

	for round := range 200 {
		mode := entity.ModePlayerVsPlayer
		if round%2 == 1 {
			mode = entity.ModePlayerVsComputer
		}
		controller := newController(mode)

		for range 30 {
			before := controller.Session().Game.Board
			reset := false

			switch {
			case rnd.IntN(10) == 0:
				controller.Reset()
				reset = true
			case controller.ComputerPending():
				_, _, err := controller.PlayComputerTurn()
				require.NoError(t, err)
			default:
				cell := rnd.IntN(entity.BoardSize+2) - 1
				if err := controller.ClickCell(cell); err != nil {
					require.ErrorIs(t, err, apperror.ErrInvalidMove)
					require.Equal(t, before, controller.Session().Game.Board)
				}
			}

			board := controller.Session().Game.Board
			if diff := board.Count(entity.PlayerX) - board.Count(entity.PlayerO); diff != 0 && diff != 1 {
				t.Fatalf("X leads O by %d on %v", diff, board)
			}

			if reset {
				continue
			}

			// a placed mark never changes until the next reset
			for i := range before {
				if before[i] != entity.EmptyCell {
					require.Equal(t, before[i], board[i])
				}
			}
		}
	}
}
