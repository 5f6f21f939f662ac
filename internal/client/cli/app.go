package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/synapsespace/synapsectl/internal/client/api"
	"github.com/synapsespace/synapsectl/internal/client/config"
	"github.com/synapsespace/synapsectl/internal/client/repositories/metadata"
	"github.com/synapsespace/synapsectl/internal/client/services"
	"github.com/synapsespace/synapsectl/internal/client/session"
	"github.com/synapsespace/synapsectl/internal/logging"

	_ "modernc.org/sqlite"
)

// App wires the CLI together: one session manager, the application services,
// and the interactive input plumbing.
type App struct {
	config      *config.Config
	log         logging.Logger
	session     *session.Manager
	apiClient   api.Client
	db          *sql.DB
	communities services.CommunityService
	profile     services.ProfileService
	admin       services.AdminService
	reader      *bufio.Reader
}

// NewApp builds the application from configuration. Callers own the returned
// App and must Close it.
func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	apiClient, err := api.NewHTTPClient(c.ServerBaseURL, c.RequestTimeout, logger)
	if err != nil {
		return nil, err
	}

	db, err := metadata.OpenDatabase(ctx, c.CachePath)
	if err != nil {
		return nil, fmt.Errorf("initializing local cache: %w", err)
	}
	repo := metadata.NewSQLiteRepository(db)

	sess := session.NewManager(apiClient, logger, session.Options{
		RefreshLead:    c.RefreshLead,
		ResendCooldown: c.ResendCooldown,
	})

	return &App{
		config:      c,
		log:         logger,
		session:     sess,
		apiClient:   apiClient,
		db:          db,
		communities: services.NewCommunityService(apiClient),
		profile:     services.NewProfileService(repo),
		admin:       services.NewAdminService(apiClient),
		reader:      bufio.NewReader(os.Stdin),
	}, nil
}

// Run checks for an existing session and enters the REPL. It blocks until
// the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	if a.session.CheckSession(ctx) {
		if u := a.session.CurrentUser(); u != nil {
			fmt.Printf("Welcome back, %s!\n", u.Username)
		}
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

// Close releases the session (cancelling any pending token refresh), the
// API client, and the local cache. Safe to call once on every exit path.
func (a *App) Close() {
	a.session.Close()
	_ = a.apiClient.Close()
	_ = a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.session.CurrentUser() != nil
}

func (a *App) awaitingOTP() bool {
	return a.session.AwaitingOTP()
}

// getStatus renders the prompt fragment: username and verification state,
// or the OTP hint while a login is half-done.
func (a *App) getStatus() string {
	if a.awaitingOTP() {
		return "(enter otp)"
	}
	u := a.session.CurrentUser()
	if u == nil {
		return ""
	}
	return fmt.Sprintf("(%s %s)", u.Username, u.Verification().String())
}
