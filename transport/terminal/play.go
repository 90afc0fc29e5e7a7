package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

const playHelp = "Commands: 0-8 place a mark, r reset, m pvp|pvc switch mode, q quit"

type botService interface {
	ComputeMove(board entity.Board, computerMark, opponentMark entity.Mark) (int, error)
}

// Game is a local game played on stdin/stdout with a single session.
type Game struct {
	in         *bufio.Scanner
	out        io.Writer
	render     renderer
	controller *tictactoe.GameController

	delay     time.Duration
	keepScore bool
	sleep     func(ctx context.Context, d time.Duration)
}

// Settings configure a terminal game.
type Settings struct {
	Mode                  entity.Mode
	ComputerDelay         time.Duration
	KeepScoreOnModeChange bool
}

func NewGame(in io.Reader, out io.Writer, bot botService, settings Settings, opts ...termenv.OutputOption) (*Game, error) {
	session := entity.NewSession("local")
	controller := tictactoe.NewGameController(session, bot)

	if err := controller.SetMode(settings.Mode, true); err != nil {
		return nil, fmt.Errorf("failed to set mode: %w", err)
	}

	return &Game{
		in:         bufio.NewScanner(in),
		out:        out,
		render:     renderer{out: termenv.NewOutput(out, opts...)},
		controller: controller,
		delay:      settings.ComputerDelay,
		keepScore:  settings.KeepScoreOnModeChange,
		sleep:      sleepContext,
	}, nil
}

// Run reads commands until q, end of input or ctx is done.
func (that *Game) Run(ctx context.Context) error {
	that.print(playHelp + "\n")
	that.draw()

	for ctx.Err() == nil && that.in.Scan() {
		line := strings.TrimSpace(that.in.Text())
		if line == "" {
			continue
		}

		quit, err := that.exec(ctx, line)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}

	if err := that.in.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	return nil
}

func (that *Game) exec(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)

	switch fields[0] {
	case "q", "quit":
		return true, nil
	case "r", "reset":
		that.controller.Reset()
	case "m", "mode":
		if len(fields) < 2 {
			that.print(that.render.error("usage: m pvp|pvc"))
			return false, nil
		}
		mode, err := entity.ParseMode(fields[1])
		if err != nil {
			that.print(that.render.error("unknown mode"))
			return false, nil
		}
		if err = that.controller.SetMode(mode, !that.keepScore); err != nil {
			return false, err
		}
	default:
		cell, err := strconv.Atoi(fields[0])
		if err != nil {
			that.print(that.render.error(playHelp))
			return false, nil
		}
		if err = that.click(ctx, cell); err != nil {
			return false, err
		}
		return false, nil
	}

	that.draw()

	return false, nil
}

func (that *Game) click(ctx context.Context, cell int) error {
	if err := that.controller.ClickCell(cell); err != nil {
		if errors.Is(err, apperror.ErrInvalidMove) {
			that.print(that.render.error(err.Error()))
			return nil
		}
		return err
	}

	that.draw()

	if !that.controller.ComputerPending() {
		return nil
	}

	that.sleep(ctx, that.delay)
	if ctx.Err() != nil {
		return nil //nolint: nilerr // interrupted while waiting for the computer
	}

	cell, played, err := that.controller.PlayComputerTurn()
	if err != nil {
		return fmt.Errorf("computer failed to move: %w", err)
	}
	if played {
		that.print(fmt.Sprintf("Computer plays %d\n", cell))
		that.draw()
	}

	return nil
}

func (that *Game) draw() {
	session := that.controller.Session()
	that.print("\n" + that.render.board(session.Game) + that.render.status(session))
}

func (that *Game) print(text string) {
	_, _ = io.WriteString(that.out, text)
}

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
