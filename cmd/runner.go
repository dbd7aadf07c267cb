package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotx/internal/shared"
	"github.com/desertthunder/spotx/spotify"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	envFile     string
	auth        *spotify.Authenticator
	client      *spotify.Client
	httpClient  *http.Client
	baseURL     string
	logger      *log.Logger
	output      io.Writer
	openBrowser func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	EnvFile string
	// Authenticator is nil when client credentials are not configured; `auth` and token refresh then fail.
	Authenticator *spotify.Authenticator
	// Client replaces the client built from Config, mainly for tests.
	Client      *spotify.Client
	HTTPClient  *http.Client
	BaseURL     string
	Logger      *log.Logger
	Output      io.Writer
	OpenBrowser func(string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = &shared.Config{LogLevel: log.InfoLevel}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}

	return &Runner{
		config:      opts.Config,
		envFile:     opts.EnvFile,
		auth:        opts.Authenticator,
		client:      opts.Client,
		httpClient:  opts.HTTPClient,
		baseURL:     opts.BaseURL,
		logger:      opts.Logger,
		output:      opts.Output,
		openBrowser: opts.OpenBrowser,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		authCommand, meCommand, playlistsCommand, tracksCommand, searchCommand, topCommand, recentCommand, devicesCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// spotify returns the API client for the configured session, building it on first use.
func (r *Runner) spotify() (*spotify.Client, error) {
	if r.client != nil {
		return r.client, nil
	}
	if err := r.config.RequireSession(); err != nil {
		return nil, err
	}

	opts := []spotify.Option{
		spotify.WithHTTPClient(r.httpClient),
		spotify.WithLogger(shared.WithLogger(r.logger, "component", "spotify")),
	}
	if r.config.Market != "" {
		opts = append(opts, spotify.WithMarket(r.config.Market))
	}
	if r.baseURL != "" {
		opts = append(opts, spotify.WithBaseURL(r.baseURL))
	}

	var refresher spotify.Refresher
	if r.auth != nil {
		refresher = r.auth
	}

	r.client = spotify.New(refresher, r.config.AccessToken, r.config.RefreshToken, opts...)
	return r.client, nil
}

// persistSession writes rotated tokens back to the env file once a command has finished.
func (r *Runner) persistSession(ctx context.Context, cmd *cli.Command) error {
	if r.client == nil {
		return nil
	}

	access, refresh := r.client.Dispatcher.Tokens()
	if access == r.config.AccessToken && refresh == r.config.RefreshToken {
		return nil
	}

	r.logger.Debug("session tokens were refreshed")
	if err := r.saveTokens(access, refresh); err != nil {
		r.logger.Warn("failed to save refreshed tokens", "error", err)
	}
	return nil
}

// saveTokens merges the token pair into the env file, keeping every other entry.
func (r *Runner) saveTokens(access, refresh string) error {
	if r.envFile == "" {
		return fmt.Errorf("%w: no env file to save tokens to", shared.ErrInvalidConfig)
	}

	env, err := godotenv.Read(r.envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read %s: %w", r.envFile, err)
	}
	if env == nil {
		env = map[string]string{}
	}

	env[shared.EnvAccessToken] = access
	if refresh != "" {
		env[shared.EnvRefreshToken] = refresh
	}

	if err := godotenv.Write(env, r.envFile); err != nil {
		return fmt.Errorf("failed to write %s: %w", r.envFile, err)
	}

	r.config.AccessToken = access
	if refresh != "" {
		r.config.RefreshToken = refresh
	}
	return nil
}

// isTerminal reports whether output is an interactive terminal.
func (r *Runner) isTerminal() bool {
	f, ok := r.output.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// emitJSON writes data as JSON when --json is set, pretty-printed on a terminal or with --pretty.
func (r *Runner) emitJSON(cmd *cli.Command, data any) (bool, error) {
	if !cmd.Bool("json") {
		return false, nil
	}
	return true, r.writeJSON(data, cmd.Bool("pretty") || r.isTerminal())
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(append(output, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	rule := strings.Repeat("═", 39)
	r.writePlain("%s\n%s\n%s\n", rule, title, rule)
}
