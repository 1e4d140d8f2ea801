// Package main provides the scheduled-publish poller for newsdesk.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/create-newspulse/newsdesk/pkg/cmd"
	"github.com/create-newspulse/newsdesk/pkg/log"
	"github.com/create-newspulse/newsdesk/pkg/services"
	cli "github.com/urfave/cli/v3"
)

func main() {
	logger := log.WithModule("scheduler")

	command := &cli.Command{
		Name:                  "newsdesk-scheduler",
		Usage:                 "Publish scheduled stories when their publish time arrives",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus type (kafka, gochannel)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "cron",
				Usage:   "Cron expression for the publish tick",
				Value:   "* * * * *",
				Sources: cli.EnvVars("SCHEDULER_CRON"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing Newsdesk scheduler")

			persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				err := persistence.Close(ctx)
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus, err := cmd.NewEventBus(command.String("event-bus"), "newsdesk-scheduler", logger)
			if err != nil {
				return err
			}

			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			workflowService := services.NewWorkflow(persistence, eventBus, logger)
			poller := NewPoller(workflowService, logger)

			err = poller.Start(ctx, command.String("cron"))
			if err != nil {
				return err
			}

			signals := make(chan os.Signal, 1)
			signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

			sig := <-signals
			logger.InfoContext(ctx, "Received signal, shutting down", "signal", sig)

			poller.Stop()

			return nil
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
