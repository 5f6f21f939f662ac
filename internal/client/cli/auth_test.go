package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synapsespace/synapsectl/internal/client/api"
	"github.com/synapsespace/synapsectl/internal/client/models"
	"github.com/synapsespace/synapsectl/internal/client/services"
	"github.com/synapsespace/synapsectl/internal/client/session"
	"github.com/synapsespace/synapsectl/internal/logging"
)

// scriptedClient serves canned answers to the login endpoints and rejects
// everything else. Each Login call consumes the next element of loginResults.
type scriptedClient struct {
	loginResults []*api.LoginResult
	loginErrs    []error
	loginCreds   []api.Credentials
}

func (c *scriptedClient) Login(ctx context.Context, creds api.Credentials) (*api.LoginResult, error) {
	c.loginCreds = append(c.loginCreds, creds)
	i := len(c.loginCreds) - 1
	var err error
	if i < len(c.loginErrs) {
		err = c.loginErrs[i]
	}
	if i < len(c.loginResults) {
		return c.loginResults[i], err
	}
	return nil, err
}

func (c *scriptedClient) CheckAuth(ctx context.Context) (*models.User, string, error) {
	return nil, "", api.ErrUnauthorized
}
func (c *scriptedClient) ResendOTP(ctx context.Context, usernameOrEmail string) (string, error) {
	return "A new code is on its way.", nil
}
func (c *scriptedClient) Refresh(ctx context.Context) (string, error) {
	return "", api.ErrUnauthorized
}
func (c *scriptedClient) Logout(ctx context.Context) error { return nil }
func (c *scriptedClient) ListCommunities(ctx context.Context) ([]models.Community, error) {
	return nil, nil
}
func (c *scriptedClient) GetCommunity(ctx context.Context, id int64) (*models.Community, error) {
	return nil, errors.New("not scripted")
}
func (c *scriptedClient) JoinCommunity(ctx context.Context, id int64) error { return nil }
func (c *scriptedClient) ListPosts(ctx context.Context, communityID int64) ([]models.Post, error) {
	return nil, nil
}
func (c *scriptedClient) CreatePost(ctx context.Context, communityID int64, title, content string) (*models.Post, error) {
	return nil, errors.New("not scripted")
}
func (c *scriptedClient) ListVerificationRequests(ctx context.Context) ([]models.User, error) {
	return nil, nil
}
func (c *scriptedClient) Close() error { return nil }

// memProfile is an in-memory stand-in for the sqlite-backed profile cache.
type memProfile struct {
	lastLogin string
	cached    *models.User
}

func (p *memProfile) RememberLogin(ctx context.Context, usernameOrEmail string) error {
	p.lastLogin = usernameOrEmail
	return nil
}
func (p *memProfile) LastLogin(ctx context.Context) (string, error) { return p.lastLogin, nil }
func (p *memProfile) CacheProfile(ctx context.Context, user *models.User) error {
	p.cached = user
	return nil
}
func (p *memProfile) CachedProfile(ctx context.Context) (*models.User, error) {
	if p.cached == nil {
		return nil, errors.New("empty cache")
	}
	return p.cached, nil
}
func (p *memProfile) ClearCache(ctx context.Context) error {
	p.lastLogin = ""
	p.cached = nil
	return nil
}

// stubInput feeds canned answers to the text and password prompts.
func stubInput(t *testing.T, texts []string, password string) {
	t.Helper()

	origText, origPw := getSimpleText, getPassword
	i := 0
	getSimpleText = func(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
		if i >= len(texts) {
			return "", errors.New("unexpected prompt: " + prompt)
		}
		v := texts[i]
		i++
		return v, nil
	}
	getPassword = func(w io.Writer) ([]byte, error) {
		return []byte(password), nil
	}
	t.Cleanup(func() { getSimpleText, getPassword = origText, origPw })
}

func newTestApp(t *testing.T, client api.Client) (*App, *memProfile) {
	t.Helper()

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	profile := &memProfile{}
	return &App{
		log:     log,
		session: session.NewManager(client, log, session.Options{}),
		profile: profile,
		admin:   services.NewAdminService(client),
		reader:  bufio.NewReader(strings.NewReader("")),
	}, profile
}

func TestLogin_OTPFlow(t *testing.T) {
	client := &scriptedClient{
		loginResults: []*api.LoginResult{
			{OTPRequired: true},
			{User: &models.User{ID: 7, Username: "ada", IsVerified: true}},
		},
	}
	app, profile := newTestApp(t, client)

	stubInput(t, []string{"ada@uni.edu"}, "pw")
	require.NoError(t, app.Login(context.Background()))
	assert.True(t, app.awaitingOTP())
	assert.False(t, app.isLoggedIn())

	stubInput(t, []string{"123456"}, "")
	require.NoError(t, app.Otp(context.Background()))
	assert.True(t, app.isLoggedIn())

	// the second call must carry the original credentials plus the code
	require.Len(t, client.loginCreds, 2)
	assert.Equal(t, api.Credentials{UsernameOrEmail: "ada@uni.edu", Password: "pw"}, client.loginCreds[0])
	assert.Equal(t, api.Credentials{UsernameOrEmail: "ada@uni.edu", Password: "pw", OTP: "123456"}, client.loginCreds[1])

	// convenience data recorded for the next run
	assert.Equal(t, "ada@uni.edu", profile.lastLogin)
	require.NotNil(t, profile.cached)
	assert.Equal(t, "ada", profile.cached.Username)
}

func TestLogin_BadCredentials(t *testing.T) {
	client := &scriptedClient{
		loginErrs: []error{api.ErrInvalidCredentials},
	}
	app, _ := newTestApp(t, client)

	stubInput(t, []string{"ada@uni.edu"}, "wrong")
	err := app.Login(context.Background())
	assert.Error(t, err)
	assert.False(t, app.isLoggedIn())
	assert.Contains(t, app.session.LastError(), "check your credentials")
}

func TestOtp_WithoutPendingLogin(t *testing.T) {
	app, _ := newTestApp(t, &scriptedClient{})

	stubInput(t, []string{"123456"}, "")
	err := app.Otp(context.Background())
	assert.ErrorIs(t, err, session.ErrNoPendingLogin)
}

func TestLogout_ClearsCache(t *testing.T) {
	client := &scriptedClient{
		loginResults: []*api.LoginResult{
			{User: &models.User{ID: 7, Username: "ada", IsVerified: true}},
		},
	}
	app, profile := newTestApp(t, client)

	stubInput(t, []string{"ada"}, "pw")
	require.NoError(t, app.Login(context.Background()))
	require.True(t, app.isLoggedIn())

	require.NoError(t, app.Logout(context.Background()))
	assert.False(t, app.isLoggedIn())
	assert.Empty(t, profile.lastLogin)
	assert.Nil(t, profile.cached)
}
