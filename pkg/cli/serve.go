package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/lane-lab/kanvas/pkg/cli/config"
	httpctrl "github.com/lane-lab/kanvas/pkg/controller/http"
	"github.com/lane-lab/kanvas/pkg/service/webhook"
	"github.com/lane-lab/kanvas/pkg/usecase"
	"github.com/lane-lab/kanvas/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var webhookURL string
	var sentryDSN string
	var boardCfg config.Board
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("KANVAS_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "move-webhook-url",
			Usage:       "URL of the external move-validation hook (disabled when empty)",
			Sources:     cli.EnvVars("KANVAS_MOVE_WEBHOOK_URL"),
			Destination: &webhookURL,
		},
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN for error reporting (disabled when empty)",
			Sources:     cli.EnvVars("KANVAS_SENTRY_DSN"),
			Destination: &sentryDSN,
		},
	}
	flags = append(flags, boardCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the board HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if sentryDSN != "" {
				if err := sentry.Init(sentry.ClientOptions{Dsn: sentryDSN}); err != nil {
					return goerr.Wrap(err, "failed to initialize sentry")
				}
				defer sentry.Flush(2 * time.Second)
				logging.Default().Info("Sentry error reporting enabled")
			}

			boardFile, err := boardCfg.Load()
			if err != nil {
				return goerr.Wrap(err, "failed to load board configuration")
			}
			cfg := boardFile.BoardConfig()
			for _, cfgErr := range cfg.Errors {
				logging.Default().Warn("ignoring malformed board option",
					"key", cfgErr.Key, "error", cfgErr.Err.Error())
			}

			store, closeStore, err := repoCfg.Configure(ctx, boardFile.Seed)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize record store")
			}
			defer closeStore()

			ucOpts := []usecase.Option{}
			if webhookURL != "" {
				ucOpts = append(ucOpts, usecase.WithValidator(webhook.New(webhookURL)))
				logging.Default().Info("Move validation hook enabled", "url", webhookURL)
			}

			board := usecase.New(store, cfg, ucOpts...)
			if err := board.Refresh(ctx); err != nil {
				return goerr.Wrap(err, "failed to build initial board")
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(board),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				if sentryDSN != "" {
					sentry.CaptureException(err)
				}
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
