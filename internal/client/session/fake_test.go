package session

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/synapsespace/synapsectl/internal/client/api"
	"github.com/synapsespace/synapsectl/internal/client/models"
	"github.com/synapsespace/synapsectl/internal/logging"
)

// fakeAPI implements api.Client for unit tests of the session manager.
type fakeAPI struct {
	mu sync.Mutex

	CheckAuthUser   *models.User
	CheckAuthAccess string
	CheckAuthErr    error
	CheckAuthCalls  int
	CheckAuthBlock  chan struct{} // when non-nil, CheckAuth waits on it

	// LoginResults are consumed one per call; the last one repeats.
	LoginResults []loginStep
	LoginCalls   []api.Credentials

	ResendMsg   string
	ResendErr   error
	ResendCalls []string

	RefreshAccess string
	RefreshErr    error
	RefreshCalls  int

	LogoutErr   error
	LogoutCalls int
}

type loginStep struct {
	res *api.LoginResult
	err error
}

func (f *fakeAPI) CheckAuth(ctx context.Context) (*models.User, string, error) {
	f.mu.Lock()
	f.CheckAuthCalls++
	block := f.CheckAuthBlock
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.CheckAuthUser, f.CheckAuthAccess, f.CheckAuthErr
}

func (f *fakeAPI) Login(ctx context.Context, creds api.Credentials) (*api.LoginResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LoginCalls = append(f.LoginCalls, creds)
	if len(f.LoginResults) == 0 {
		return nil, api.ErrUnavailable
	}
	step := f.LoginResults[0]
	if len(f.LoginResults) > 1 {
		f.LoginResults = f.LoginResults[1:]
	}
	return step.res, step.err
}

func (f *fakeAPI) ResendOTP(ctx context.Context, usernameOrEmail string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ResendCalls = append(f.ResendCalls, usernameOrEmail)
	return f.ResendMsg, f.ResendErr
}

func (f *fakeAPI) Refresh(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RefreshCalls++
	return f.RefreshAccess, f.RefreshErr
}

func (f *fakeAPI) Logout(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LogoutCalls++
	return f.LogoutErr
}

func (f *fakeAPI) ListCommunities(ctx context.Context) ([]models.Community, error) {
	return nil, nil
}
func (f *fakeAPI) GetCommunity(ctx context.Context, id int64) (*models.Community, error) {
	return nil, nil
}
func (f *fakeAPI) JoinCommunity(ctx context.Context, id int64) error { return nil }
func (f *fakeAPI) ListPosts(ctx context.Context, communityID int64) ([]models.Post, error) {
	return nil, nil
}
func (f *fakeAPI) CreatePost(ctx context.Context, communityID int64, title, content string) (*models.Post, error) {
	return nil, nil
}
func (f *fakeAPI) ListVerificationRequests(ctx context.Context) ([]models.User, error) {
	return nil, nil
}
func (f *fakeAPI) Close() error { return nil }

// ---- timer stubs ----

// armedTimer records one newTimer call. fire() runs the callback the way the
// real time.AfterFunc goroutine would.
type armedTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
}

func (a *armedTimer) Stop() bool {
	a.stopped = true
	return true
}

func (a *armedTimer) fire() { a.fn() }

// timerRecorder captures all timers the manager arms during a test.
type timerRecorder struct {
	mu     sync.Mutex
	timers []*armedTimer
}

func (r *timerRecorder) last(t *testing.T) *armedTimer {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.timers, "no timer armed")
	return r.timers[len(r.timers)-1]
}

func (r *timerRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timers)
}

// stubTimers replaces the scheduler seams for the duration of the test:
// time is frozen at now and timers are recorded instead of armed for real.
func stubTimers(t *testing.T, now time.Time) *timerRecorder {
	t.Helper()
	rec := &timerRecorder{}

	origNow, origNew := timeNow, newTimer
	timeNow = func() time.Time { return now }
	newTimer = func(d time.Duration, fn func()) refreshTimer {
		at := &armedTimer{delay: d, fn: fn}
		rec.mu.Lock()
		rec.timers = append(rec.timers, at)
		rec.mu.Unlock()
		return at
	}
	t.Cleanup(func() {
		timeNow = origNow
		newTimer = origNew
	})
	return rec
}

// ---- helpers ----

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newManager(t *testing.T, f *fakeAPI, opts Options) *Manager {
	t.Helper()
	m := NewManager(f, testLogger(), opts)
	t.Cleanup(m.Close)
	return m
}

// tokenExpiring returns a signed JWT whose exp claim is the given time.
func tokenExpiring(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()})
	s, err := tok.SignedString([]byte("test"))
	require.NoError(t, err)
	return s
}

func verifiedUser() *models.User {
	return &models.User{ID: 1, Username: "ada", Email: "ada@uni.edu", IsVerified: true}
}
