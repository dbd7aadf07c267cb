package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/spotx/internal/server"
	"github.com/desertthunder/spotx/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

const authTimeout = 2 * time.Minute

// Auth performs the authorization code flow.
//
// Starts a local HTTP server on the REDIRECT_URI host, opens the browser for user authorization,
// and exchanges the returned code for tokens.
func (r *Runner) Auth(ctx context.Context, cmd *cli.Command) error {
	if r.auth == nil {
		return fmt.Errorf("%w: CLIENT_ID, CLIENT_SECRET and REDIRECT_URI must be set", shared.ErrInvalidConfig)
	}
	if r.config.CallbackAddr == "" {
		return fmt.Errorf("%w: REDIRECT_URI must point at a local address", shared.ErrInvalidConfig)
	}

	token, err := r.doOAuth(ctx, cmd.Bool("show-dialog"))
	if err != nil {
		return err
	}

	if cmd.Bool("no-save") {
		r.writePlain("✓ Authorization successful\n\n")
		r.writePlain("%s=%s\n", shared.EnvAccessToken, token.AccessToken)
		return r.writePlain("%s=%s\n", shared.EnvRefreshToken, token.RefreshToken)
	}

	if err := r.saveTokens(token.AccessToken, token.RefreshToken); err != nil {
		return err
	}

	r.writePlain("✓ Authorization successful\n")
	r.writePlain("✓ Tokens saved to %s\n\n", r.envFile)
	return r.writePlain("You can now use: spotx me\n")
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(ctx context.Context, showDialog bool) (*oauth2.Token, error) {
	state := shared.GenerateState()
	authURL := r.auth.AuthURL(state, showDialog)

	handler := server.NewOAuthHandler(r.auth, r.config.CallbackPath, state)
	srv, err := server.Listen(r.config.CallbackAddr, server.NewRouter(r.logger, handler), r.logger)
	if err != nil {
		return nil, err
	}
	go srv.Serve()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("error shutting down server", "error", err)
		}
	}()

	r.logger.Info("waiting for authorization callback", "addr", srv.Addr())

	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := r.openBrowser(authURL); err != nil {
		r.logger.Warn("failed to open browser automatically", "error", err)
		r.writePlain("⚠ Could not open browser automatically.\n")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	waitCtx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	token, err := handler.Wait(waitCtx)
	if err != nil {
		return nil, fmt.Errorf("authorization failed: %w", err)
	}
	if token == nil || token.AccessToken == "" {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}
	return token, nil
}
