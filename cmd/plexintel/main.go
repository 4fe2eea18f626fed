// PlexIntel - Recommendation Client for Plex
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plexintel

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/plexintel/internal/backend"
	"github.com/tomtom215/plexintel/internal/config"
	"github.com/tomtom215/plexintel/internal/diagnostics"
	"github.com/tomtom215/plexintel/internal/logging"
	"github.com/tomtom215/plexintel/internal/session"
	"github.com/tomtom215/plexintel/internal/supervisor"
	"github.com/tomtom215/plexintel/internal/supervisor/services"
)

// openStore is replaced in tests to share one store across runs.
var openStore = session.Open

const usage = `Usage: plexintel [-config file] <command> [flags]

Commands:
  login      Sign in with a Plex PIN
  whoami     Show the signed-in user
  recs       List recommendations
  feedback   Give thumbs up or down on a movie or episode
  logout     Forget the stored session

Run "plexintel <command> -h" for command flags.
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("plexintel", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := global.String("config", "", "config file (default: $CONFIG_PATH or plexintel.yaml)")
	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if global.NArg() == 0 {
		global.Usage()
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "plexintel: %v\n", err)
		return 1
	}
	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    stderr,
	})

	a, err := newApp(cfg, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "plexintel: %v\n", err)
		return 1
	}
	defer a.close()

	cmd, rest := global.Arg(0), global.Args()[1:]
	var cmdErr error
	switch cmd {
	case "login":
		cmdErr = a.login(ctx, rest)
	case "whoami":
		cmdErr = a.whoami(ctx, rest)
	case "recs":
		cmdErr = a.recs(ctx, rest)
	case "feedback":
		cmdErr = a.feedback(ctx, rest)
	case "logout":
		cmdErr = a.logout(ctx, rest)
	default:
		fmt.Fprintf(stderr, "plexintel: unknown command %q\n\n", cmd)
		global.Usage()
		return 2
	}

	switch {
	case cmdErr == nil:
		return 0
	case errors.Is(cmdErr, flag.ErrHelp):
		return 0
	case errors.Is(cmdErr, errUsage):
		return 2
	default:
		fmt.Fprintf(stderr, "plexintel: %s\n", describe(cmdErr))
		return 1
	}
}

// app holds what every command needs.
type app struct {
	cfg    *config.Config
	client *backend.Client
	store  session.Store
	stdout io.Writer
	stderr io.Writer
}

func newApp(cfg *config.Config, stdout, stderr io.Writer) (*app, error) {
	client, err := backend.New(backend.Config{
		BaseURL:   cfg.Backend.BaseURL,
		Timeout:   cfg.Backend.Timeout,
		RateLimit: cfg.Backend.RateLimit,
		RateBurst: cfg.Backend.RateBurst,
		UserAgent: cfg.Backend.UserAgent,
	})
	if err != nil {
		return nil, err
	}

	store, err := openStore(session.StoreType(cfg.Session.Store), cfg.Session.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	return &app{cfg: cfg, client: client, store: store, stdout: stdout, stderr: stderr}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		logging.Warn().Err(err).Msg("Failed to close session store")
	}
}

// restoreSession seeds the cookie jar from the stored session. A missing or
// expired session is not an error; the backend decides what needs login.
func (a *app) restoreSession(ctx context.Context) *session.Session {
	sess, err := a.store.Load(ctx, a.client.Host())
	switch {
	case err == nil:
		a.client.SetCookies(sess.HTTPCookies())
		logging.Debug().Str("username", sess.Username).Msg("Restored session")
		return sess
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, session.ErrSessionExpired):
		logging.Debug().Err(err).Msg("No usable session, continuing signed out")
	default:
		logging.Warn().Err(err).Msg("Failed to read stored session")
	}
	return nil
}

// startDiagnostics serves the diagnostics endpoints in the background when
// diagnostics.addr is set. The returned channel is nil otherwise.
func (a *app) startDiagnostics(ctx context.Context, view diagnostics.ViewSource, extra ...func(*supervisor.Tree)) <-chan error {
	if a.cfg.Diagnostics.Addr == "" && len(extra) == 0 {
		return nil
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if a.cfg.Diagnostics.Addr != "" {
		srv := &http.Server{
			Addr: a.cfg.Diagnostics.Addr,
			Handler: diagnostics.NewRouter(diagnostics.Options{
				View:         view,
				BreakerState: a.client.BreakerState,
			}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		tree.AddDiagnosticsService(services.NewHTTPServerService("diagnostics", srv, 5*time.Second))
		logging.Info().Str("addr", a.cfg.Diagnostics.Addr).Msg("Diagnostics listening")
	}
	for _, fn := range extra {
		fn(tree)
	}
	return tree.ServeBackground(ctx)
}
