// Package session owns the authenticated-user state of the Synapse Space
// client: who is logged in, whether a second factor is pending, when the
// access token must be refreshed, and what the route guards may show.
//
// One Manager instance exists per running application. All state transitions
// run atomically under the manager's lock; network calls happen outside it so
// a slow server never blocks predicate reads.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/synapsespace/synapsectl/internal/client/api"
	"github.com/synapsespace/synapsectl/internal/client/models"
	"github.com/synapsespace/synapsectl/internal/logging"
)

var (
	// ErrNoPendingLogin is returned when an OTP is submitted or resent
	// without a staged phase-A login.
	ErrNoPendingLogin = errors.New("no login awaiting a one-time code")

	// ErrResendCooldown is returned when the advisory client-side pause
	// between OTP resends has not elapsed. The server enforces its own
	// throttling; this only paces the UI.
	ErrResendCooldown = errors.New("please wait before requesting another code")
)

// LoginOutcome is the result of a login or OTP submission.
type LoginOutcome int

const (
	// LoginFailed means the server rejected the attempt; details are in
	// LastError and the flow stays at a retryable point.
	LoginFailed LoginOutcome = iota

	// LoginOK means a full session was established.
	LoginOK

	// LoginOTPRequired means the credentials were accepted and the server
	// is waiting for a one-time code.
	LoginOTPRequired
)

// Options tunes Manager behavior. Zero values fall back to the defaults the
// web client uses.
type Options struct {
	// RefreshLead is how long before token expiry the refresh fires.
	RefreshLead time.Duration

	// ResendCooldown is the advisory pause between OTP resends.
	ResendCooldown time.Duration
}

// Manager is the single authority for session state. Create one with
// NewManager, share it with the route guards, and Close it on teardown.
type Manager struct {
	api api.Client
	log logging.Logger

	refreshLead time.Duration
	resend      *rate.Limiter

	mu          sync.Mutex
	user        *models.User
	pending     *api.Credentials
	otpRequired bool
	lastError   string
	timer       refreshTimer
	closed      bool

	checkGroup singleflight.Group
}

// NewManager builds a Manager over the given API client.
func NewManager(apiClient api.Client, log logging.Logger, opts Options) *Manager {
	if opts.RefreshLead <= 0 {
		opts.RefreshLead = time.Minute
	}
	if opts.ResendCooldown <= 0 {
		opts.ResendCooldown = 60 * time.Second
	}
	return &Manager{
		api:         apiClient,
		log:         log,
		refreshLead: opts.RefreshLead,
		resend:      rate.NewLimiter(rate.Every(opts.ResendCooldown), 1),
	}
}

// CheckSession asks the server who the current user is, using the ambient
// cookie credential. On success the user record is stored and a refresh is
// scheduled from the access token's expiry. On any failure the manager fails
// closed: the user is cleared and false is returned. It never returns an
// error; an unauthenticated state is a valid outcome, not an exceptional one.
//
// Safe to call repeatedly; concurrent calls from several route guards are
// collapsed into one request.
func (m *Manager) CheckSession(ctx context.Context) bool {
	ok, _, _ := m.checkGroup.Do("check", func() (any, error) {
		user, access, err := m.api.CheckAuth(ctx)

		m.mu.Lock()
		defer m.mu.Unlock()

		if err != nil {
			m.log.Debug(ctx, "auth check failed", "error", err)
			m.user = nil
			return false, nil
		}

		m.user = user
		if access != "" {
			m.scheduleFromTokenLocked(ctx, access)
		}
		return true, nil
	})
	return ok.(bool)
}

// Login runs phase A of the login flow. Three outcomes:
//   - the server wants a second factor: the credentials are staged and
//     LoginOTPRequired is returned; follow up with SubmitOTP;
//   - a full session is established: LoginOK;
//   - the server rejects: LoginFailed, LastError is set, state is unchanged.
func (m *Manager) Login(ctx context.Context, usernameOrEmail, password string) (LoginOutcome, error) {
	m.mu.Lock()
	m.lastError = ""
	m.mu.Unlock()

	creds := api.Credentials{UsernameOrEmail: usernameOrEmail, Password: password}
	res, err := m.api.Login(ctx, creds)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		return m.loginFailureLocked(ctx, err), err
	}

	if res.OTPRequired {
		m.pending = &creds
		m.otpRequired = true
		return LoginOTPRequired, nil
	}

	m.establishLocked(ctx, res.User, res.Access)
	return LoginOK, nil
}

// SubmitOTP runs phase B: it combines the staged phase-A credentials with
// the one-time code and resubmits. Only valid while AwaitingOTP is true.
// On failure the flow stays in the awaiting-OTP state so the user can retry
// or request a resend.
func (m *Manager) SubmitOTP(ctx context.Context, code string) (LoginOutcome, error) {
	m.mu.Lock()
	if !m.otpRequired || m.pending == nil {
		m.mu.Unlock()
		return LoginFailed, ErrNoPendingLogin
	}
	creds := *m.pending
	creds.OTP = code
	m.lastError = ""
	m.mu.Unlock()

	res, err := m.api.Login(ctx, creds)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		if errors.Is(err, api.ErrInvalidCredentials) {
			// Bad code: keep the staged credentials, allow a retry.
			m.lastError = "Login failed. Please check your credentials and try again."
			return LoginFailed, err
		}
		return m.loginFailureLocked(ctx, err), err
	}

	if res.OTPRequired {
		// Server asked again; stay in the awaiting state.
		return LoginOTPRequired, nil
	}

	m.establishLocked(ctx, res.User, res.Access)
	return LoginOK, nil
}

// ResendOTP asks the server to send a fresh one-time code to the user whose
// phase-A login is staged. A 60-second client-side cooldown paces repeated
// requests; it is advisory UX pacing, not a security control.
func (m *Manager) ResendOTP(ctx context.Context) (string, error) {
	m.mu.Lock()
	if m.pending == nil {
		m.mu.Unlock()
		return "", ErrNoPendingLogin
	}
	who := m.pending.UsernameOrEmail
	m.mu.Unlock()

	if !m.resend.Allow() {
		return "", ErrResendCooldown
	}

	msg, err := m.api.ResendOTP(ctx, who)
	if err != nil {
		m.log.Warn(ctx, "otp resend failed", "error", err)
		return "", err
	}
	return msg, nil
}

// Logout ends the session. The remote call is best effort: a network failure
// must not trap the user in an authenticated UI, so local state is cleared
// and the refresh timer cancelled no matter what the server says.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.api.Logout(ctx); err != nil {
		m.log.Warn(ctx, "remote logout failed, clearing local session anyway", "error", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked()
	m.log.Info(ctx, "logged out")
}

// Close cancels any pending refresh and makes the manager inert. The owner
// of the manager's lifetime must call it on every exit path.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.stopTimerLocked()
}

// establishLocked installs a fully authenticated session: user set, staged
// login discarded, refresh scheduled. Callers hold m.mu.
func (m *Manager) establishLocked(ctx context.Context, user *models.User, access string) {
	m.user = user
	m.pending = nil
	m.otpRequired = false
	m.lastError = ""
	if access != "" {
		m.scheduleFromTokenLocked(ctx, access)
	}
	m.log.Info(ctx, "session established", "user", user.Username, "verification", user.Verification().String())
}

// loginFailureLocked records a failed attempt. Credential rejections keep
// the flow retryable; transport failures additionally drop any staged OTP
// state, matching the web client. Callers hold m.mu.
func (m *Manager) loginFailureLocked(ctx context.Context, err error) LoginOutcome {
	if errors.Is(err, api.ErrUnavailable) {
		m.lastError = "An unexpected error occurred."
		m.pending = nil
		m.otpRequired = false
	} else {
		m.lastError = "Login failed. Please check your credentials and try again."
	}
	m.log.Warn(ctx, "login failed", "error", err)
	return LoginFailed
}

// clearLocked resets the manager to the anonymous state. Callers hold m.mu.
func (m *Manager) clearLocked() {
	m.user = nil
	m.pending = nil
	m.otpRequired = false
	m.stopTimerLocked()
}
