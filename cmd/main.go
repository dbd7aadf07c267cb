package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotx/internal/shared"
	"github.com/desertthunder/spotx/spotify"
	"github.com/urfave/cli/v3"
)

const envFile = ".env"

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadEnvFile(envFile); err != nil {
		logger.Warn("failed to load env file", "error", err)
	}

	config, err := shared.LoadConfig(nil)
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	shared.SetLogLevel(logger, config.LogLevel)

	auth, err := newAuthenticator(os.Getenv)
	if err != nil {
		logger.Debug("client credentials not configured", "error", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:        config,
		EnvFile:       envFile,
		Authenticator: auth,
		Logger:        logger,
	})

	app := &cli.Command{
		Name:    "spotx",
		Usage:   "Explore the Spotify Web API from the terminal",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("verbose") {
				shared.SetLogLevel(logger, log.DebugLevel)
			}
			return ctx, nil
		},
		After:    runner.persistSession,
		Commands: runner.register(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		stop()
		logger.Fatalf("application error: %v", err)
	}
}

// newAuthenticator builds an Authenticator requesting every scope from the client credentials in lookup.
func newAuthenticator(lookup func(string) string) (*spotify.Authenticator, error) {
	creds, err := spotify.LoadCredentialsFrom(lookup)
	if err != nil {
		return nil, err
	}
	return spotify.NewAuthenticator(*creds, spotify.WithScopes(spotify.AllScopes...)), nil
}
