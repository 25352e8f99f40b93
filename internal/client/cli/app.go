// Package cli is the interactive terminal front end: a REPL over the
// session store and the API client.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/campuslink/campuslink/internal/client/api"
	"github.com/campuslink/campuslink/internal/client/config"
	"github.com/campuslink/campuslink/internal/client/repositories/tokens"
	"github.com/campuslink/campuslink/internal/client/session"
	"github.com/campuslink/campuslink/internal/client/storage"
	"github.com/campuslink/campuslink/internal/logging"
)

// App wires the CLI together: config, local storage, API client, and
// the session store.
type App struct {
	config  *config.Config
	session *session.Store
	api     api.Client
	reader  *bufio.Reader
	log     logging.Logger
}

func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	log := logging.NewTextLogger(os.Stderr, slog.LevelWarn)

	db, err := storage.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local database: %w", err)
	}

	repo := tokens.NewSQLiteRepository(db)

	apiClient := api.NewHTTPClient(cfg.APIBaseURL, cfg.RequestTimeout, repo,
		api.WithLogger(log),
	)

	store := session.NewStore(apiClient, repo,
		session.WithLogger(log),
		session.WithNotifier(session.NotifierFunc(func(msg string) {
			fmt.Println(errorStyle.Render(msg))
		})),
	)

	// A 401/403 anywhere invalidates the whole session, not just the
	// failing call. The hook stays silent: the failing call site
	// already surfaces the one user-facing message, and the prompt
	// flipping back to the signed-out command set is the "redirect".
	apiClient.SetOnUnauthorized(store.Invalidate)

	return &App{
		config:  cfg,
		session: store,
		api:     apiClient,
		reader:  bufio.NewReader(os.Stdin),
		log:     log,
	}, nil
}

// Run restores any persisted session and enters the REPL.
func (a *App) Run(ctx context.Context) {
	if err := a.session.Initialize(ctx); err != nil {
		a.log.Error(ctx, "session restore failed", "error", err)
	}

	if snap := a.session.Current(); snap.User != nil {
		fmt.Println(successStyle.Render("Welcome back, " + snap.User.FullName + "!"))
	}

	fmt.Println("CampusLink CLI (type 'help' for commands)")
	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}

func (a *App) isLoggedIn() bool {
	return a.session.LoggedIn()
}

// status renders the prompt suffix: the logged-in user's name or email,
// or nothing when signed out.
func (a *App) status() string {
	snap := a.session.Current()
	if snap.Token == "" {
		return ""
	}
	if snap.User != nil {
		return "(" + snap.User.FullName + ")"
	}
	return "(signed in)"
}
