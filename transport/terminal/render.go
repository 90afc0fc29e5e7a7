package terminal

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	colorX = "#ff6b6b"
	colorO = "#4dabf7"
)

type renderer struct {
	out *termenv.Output
}

// board draws the grid. Empty cells show their index; the winning line is highlighted.
func (that renderer) board(game *entity.Game) string {
	var sb strings.Builder

	for row := range 3 {
		if row > 0 {
			sb.WriteString("---+---+---\n")
		}

		cells := make([]string, 0, 3)
		for col := range 3 {
			cells = append(cells, " "+that.cell(game, row*3+col)+" ")
		}
		sb.WriteString(strings.Join(cells, "|"))
		sb.WriteString("\n")
	}

	return sb.String()
}

func (that renderer) cell(game *entity.Game, index int) string {
	mark := game.Board[index]
	if mark == entity.EmptyCell {
		return that.out.String(strconv.Itoa(index)).Faint().String()
	}

	style := that.out.String(string(mark)).Bold()
	switch mark {
	case entity.PlayerX:
		style = style.Foreground(that.out.Color(colorX))
	case entity.PlayerO:
		style = style.Foreground(that.out.Color(colorO))
	}

	if slices.Contains(game.WinningLine, index) {
		style = style.Reverse()
	}

	return style.String()
}

func (that renderer) status(session *entity.Session) string {
	return fmt.Sprintf("%s  [mode: %s, X: %d, O: %d]\n",
		that.out.String(session.Game.StatusMessage()).Bold().String(),
		session.Mode,
		session.Score.XWins,
		session.Score.OWins,
	)
}

func (that renderer) error(text string) string {
	return that.out.String(text).Foreground(that.out.Color(colorX)).String() + "\n"
}
