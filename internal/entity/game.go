package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

type Mark string

const (
	StatusOngoing = "ongoing"
	StatusWon     = "won"
	StatusDraw    = "draw"

	PlayerX Mark = "X"
	PlayerO Mark = "O"

	EmptyCell Mark = ""
)

const BoardSize = 9

// WinCombos are scanned in this order: rows top to bottom, columns left to right, then the diagonals.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Opponent returns the other player's mark.
func (that Mark) Opponent() Mark {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func (that Mark) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

// Board holds 9 cells of a 3x3 grid in row-major order.
type Board [BoardSize]Mark

func (that Board) Count(mark Mark) int {
	count := 0
	for _, cell := range that {
		if cell == mark {
			count++
		}
	}
	return count
}

func (that Board) EmptyCells() []int {
	cells := make([]int, 0, BoardSize)
	for i, cell := range that {
		if cell == EmptyCell {
			cells = append(cells, i)
		}
	}
	return cells
}

func (that Board) IsFull() bool {
	return that.Count(EmptyCell) == 0
}

// GameStatus is the result of evaluating a board.
// Player is the player to move while the game is ongoing and the winner once it is won.
type GameStatus struct {
	Status string `json:"status"`
	Player Mark   `json:"player,omitempty"`
	Line   []int  `json:"line,omitempty"`
}

// Evaluate returns the first complete triple in WinCombos order as the winner, Draw for a full
// board, and otherwise the player to move. X always moves first, so equal counts mean X's turn.
func Evaluate(board Board) GameStatus {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return GameStatus{Status: StatusWon, Player: a, Line: []int{combo[0], combo[1], combo[2]}}
		}
	}

	// the game will continue until all the squares are full
	if board.IsFull() {
		return GameStatus{Status: StatusDraw}
	}

	next := PlayerX
	if board.Count(PlayerX) > board.Count(PlayerO) {
		next = PlayerO
	}

	return GameStatus{Status: StatusOngoing, Player: next}
}

type Game struct {
	Board       Board  `json:"board"`
	Status      string `json:"status"`
	Turn        Mark   `json:"player_turn,omitempty"`
	Winner      Mark   `json:"winner,omitempty"`
	WinningLine []int  `json:"winning_line,omitempty"`
}

func NewGame() *Game {
	return &Game{
		Board:  Board{},
		Turn:   PlayerX,
		Status: StatusOngoing,
	}
}

// Reset clears the board and gives the first turn to X.
func (that *Game) Reset() {
	*that = *NewGame()
}

func (that *Game) EvaluateTerminal() GameStatus {
	return Evaluate(that.Board)
}

// PlaceMark puts playerMark on cell. A rejected move leaves the game untouched.
func (that *Game) PlaceMark(cell int, playerMark Mark) error {
	if cell < 0 || cell >= len(that.Board) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if err := that.ConfirmOngoingState(); err != nil {
		return err
	}

	if that.Turn != playerMark {
		return apperror.ErrNotYourTurn
	}

	if that.Board[cell] != EmptyCell {
		return apperror.ErrCellOccupied
	}

	that.Board[cell] = playerMark
	that.UpdateGameState()

	return nil
}

func (that *Game) UpdateGameState() {
	switch result := that.EvaluateTerminal(); result.Status {
	case StatusWon:
		that.Status = StatusWon
		that.Winner = result.Player
		that.WinningLine = result.Line
		that.Turn = EmptyCell
	case StatusDraw:
		that.Status = StatusDraw
		that.Winner = EmptyCell
		that.Turn = EmptyCell
	default:
		that.Status = StatusOngoing
		that.Turn = result.Player
	}
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusWon || that.Status == StatusDraw
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWon() bool {
	return that.Status == StatusWon
}

func (that *Game) IsDraw() bool {
	return that.Status == StatusDraw
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: unknown game status %q", apperror.ErrInvalidMove, that.Status)
	}
}

// StatusMessage is the line shown above the board.
func (that *Game) StatusMessage() string {
	switch that.Status {
	case StatusWon:
		return fmt.Sprintf("Player %s wins!", that.Winner)
	case StatusDraw:
		return "Game ended in a draw!"
	default:
		return fmt.Sprintf("Player %s's turn", that.Turn)
	}
}
