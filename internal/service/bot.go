package service

import (
	"math/rand/v2"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const centerCell = 4

// BotService picks the computer's next cell. It looks one ply ahead only.
type BotService interface {
	ComputeMove(board entity.Board, computerMark, opponentMark entity.Mark) (int, error)
}

type botService struct {
	intN func(n int) int
}

// NewBotService returns a bot that picks among free cells with intN when no tactical move exists.
// A nil intN uses math/rand/v2.
func NewBotService(intN func(n int) int) BotService {
	if intN == nil {
		intN = rand.IntN //nolint: gosec // it's ok
	}

	return &botService{
		intN: intN,
	}
}

func (that *botService) ComputeMove(board entity.Board, computerMark, opponentMark entity.Mark) (int, error) {
	availableCells := board.EmptyCells()
	if len(availableCells) == 0 {
		return -1, apperror.ErrNoAvailableMoves
	}

	// win if possible
	if cell := FindWinningMove(board, computerMark); cell != -1 {
		return cell, nil
	}

	// block the opponent
	if cell := FindWinningMove(board, opponentMark); cell != -1 {
		return cell, nil
	}

	if board[centerCell] == entity.EmptyCell {
		return centerCell, nil
	}

	return availableCells[that.intN(len(availableCells))], nil
}

// FindWinningMove returns the cell that completes a line for mark, or -1.
// Lines are scanned in entity.WinCombos order.
func FindWinningMove(board entity.Board, mark entity.Mark) int {
	for _, combo := range entity.WinCombos {
		a, b, c := combo[0], combo[1], combo[2]

		switch {
		case board[a] == mark && board[b] == mark && board[c] == entity.EmptyCell:
			return c
		case board[a] == mark && board[c] == mark && board[b] == entity.EmptyCell:
			return b
		case board[b] == mark && board[c] == mark && board[a] == entity.EmptyCell:
			return a
		}
	}

	return -1
}
