package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	app "github.com/rocketscienceinc/tictactoe-engine/internal"
	"github.com/rocketscienceinc/tictactoe-engine/internal/config"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
	"github.com/rocketscienceinc/tictactoe-engine/internal/stopwatch"
	"github.com/rocketscienceinc/tictactoe-engine/transport/terminal"
)

// main - is the entry point of the application. It parses the command line and runs the chosen command.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}

func newCommand() *cli.Command {
	serve := &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP and WebSocket servers",
		Flags: configFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			conf := config.MustLoad(cmd.String("config"))
			logger := initLogger(conf)

			return app.RunApp(ctx, logger, conf)
		},
	}

	return &cli.Command{
		Name:   "tictactoe",
		Usage:  "tic-tac-toe engine with a computer opponent",
		Flags:  configFlags(),
		Action: serve.Action,
		Commands: []*cli.Command{
			serve,
			{
				Name:  "play",
				Usage: "play in the terminal",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "mode",
						Value: string(entity.ModePlayerVsPlayer),
						Usage: "pvp or pvc",
					},
					&cli.DurationFlag{
						Name:  "delay",
						Usage: "computer move delay, overrides game.computer-delay",
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "path to the config file, empty to read the environment only",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					mode, err := entity.ParseMode(cmd.String("mode"))
					if err != nil {
						return err
					}

					conf, err := config.Load(cmd.String("config"))
					if err != nil {
						return err
					}

					settings := terminal.Settings{
						Mode:                  mode,
						ComputerDelay:         conf.Game.ComputerDelay,
						KeepScoreOnModeChange: conf.Game.KeepScoreOnModeChange,
					}
					if cmd.IsSet("delay") {
						settings.ComputerDelay = cmd.Duration("delay")
					}

					game, err := terminal.NewGame(os.Stdin, os.Stdout, service.NewBotService(nil), settings)
					if err != nil {
						return err
					}

					return game.Run(ctx)
				},
			},
			{
				Name:  "stopwatch",
				Usage: "run a stopwatch with laps in the terminal",
				Action: func(ctx context.Context, _ *cli.Command) error {
					return terminal.NewStopwatch(os.Stdin, os.Stdout, stopwatch.New()).Run(ctx)
				},
			},
		},
	}
}

func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Value: "config.yml",
			Usage: "path to the config file, empty to read the environment only",
		},
	}
}

// initialize logger.
func initLogger(conf *config.Config) *slog.Logger {
	var level slog.Level

	switch conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
