package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/synapsespace/synapsectl/internal/client/models"
	"github.com/synapsespace/synapsectl/internal/logging"
)

// otpRequiredMessage is the literal the backend puts in the login response
// body when a second factor is needed.
const otpRequiredMessage = "OTP required"

// accessTokenCookie is the cookie the backend sets with the access JWT.
const accessTokenCookie = "access_token"

// HTTPClient talks to the Synapse Space REST API. Credentials are ambient:
// the backend sets HTTP-only cookies on login/refresh and the cookie jar
// replays them on every call.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	timeout time.Duration
	log     logging.Logger
}

// NewHTTPClient builds a client for the API rooted at baseURL. Every request
// is bounded by timeout.
func NewHTTPClient(baseURL string, timeout time.Duration, log logging.Logger) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &HTTPClient{
		baseURL: u,
		http:    &http.Client{Jar: jar},
		timeout: timeout,
		log:     log,
	}, nil
}

// doJSON issues a request with a JSON body (may be nil) and decodes the JSON
// response into out (may be nil). Non-2xx statuses and transport failures are
// mapped to the package sentinels.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	u := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(ctx, "request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := c.mapStatus(resp); err != nil {
		return err
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// mapStatus translates non-2xx responses into sentinel errors, draining the
// body for the error detail where the backend provides one.
func (c *HTTPClient) mapStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var detail struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&detail)
	msg := detail.Detail
	if msg == "" {
		msg = detail.Error
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		if msg != "" {
			return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
		}
		return ErrUnauthorized
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	default:
		if msg != "" {
			return fmt.Errorf("api error (status %d): %s", resp.StatusCode, msg)
		}
		return fmt.Errorf("api error: status %d", resp.StatusCode)
	}
}

// accessTokenFromJar returns the current access-token cookie value, or ""
// when the jar has none for the API origin.
func (c *HTTPClient) accessTokenFromJar() string {
	for _, ck := range c.http.Jar.Cookies(c.baseURL) {
		if ck.Name == accessTokenCookie {
			return ck.Value
		}
	}
	return ""
}

// CheckAuth calls GET /api/auth/check-auth/. The backend answers with the
// user record when the cookie credential is valid.
func (c *HTTPClient) CheckAuth(ctx context.Context) (*models.User, string, error) {
	var resp struct {
		User *models.User `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/check-auth/", nil, &resp); err != nil {
		return nil, "", err
	}
	if resp.User == nil {
		return nil, "", fmt.Errorf("check-auth: %w", ErrUnauthorized)
	}
	return resp.User, c.accessTokenFromJar(), nil
}

// Login calls POST /api/auth/login/ with credentials (and the OTP code on
// the second phase). Three outcomes: OTP required, full session, rejection.
func (c *HTTPClient) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	var resp struct {
		Message string       `json:"message"`
		User    *models.User `json:"user"`
		Access  string       `json:"access"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login/", creds, &resp)
	if err != nil {
		// The backend answers 400/401 on bad credentials or a bad code;
		// only transport-level trouble passes through as-is.
		if errors.Is(err, ErrUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	if resp.Message == otpRequiredMessage {
		return &LoginResult{OTPRequired: true}, nil
	}
	if resp.User == nil {
		return nil, fmt.Errorf("login: malformed response: no user record")
	}
	return &LoginResult{User: resp.User, Access: resp.Access}, nil
}

// ResendOTP calls POST /api/auth/resend-otp/ and returns the server's
// confirmation message.
func (c *HTTPClient) ResendOTP(ctx context.Context, usernameOrEmail string) (string, error) {
	body := map[string]string{"username_or_email": usernameOrEmail}
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/resend-otp/", body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Refresh calls POST /api/auth/token/refresh/ using the ambient refresh
// cookie and returns the new access token.
func (c *HTTPClient) Refresh(ctx context.Context) (string, error) {
	var resp struct {
		Access string `json:"access"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/token/refresh/", struct{}{}, &resp); err != nil {
		return "", err
	}
	if resp.Access == "" {
		// Some deployments only rotate the cookie.
		return c.accessTokenFromJar(), nil
	}
	return resp.Access, nil
}

// Logout calls POST /api/auth/logout/. The caller clears local state
// regardless of the result.
func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/logout/", struct{}{}, nil)
}

func (c *HTTPClient) ListCommunities(ctx context.Context) ([]models.Community, error) {
	var out []models.Community
	if err := c.doJSON(ctx, http.MethodGet, "/api/community", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetCommunity(ctx context.Context, id int64) (*models.Community, error) {
	var out models.Community
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/community/%d/", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) JoinCommunity(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/community/%d/join/", id), struct{}{}, nil)
}

func (c *HTTPClient) ListPosts(ctx context.Context, communityID int64) ([]models.Post, error) {
	var out []models.Post
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/community/%d/posts/", communityID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreatePost(ctx context.Context, communityID int64, title, content string) (*models.Post, error) {
	body := map[string]any{
		"title":     title,
		"content":   content,
		"posted_in": communityID,
	}
	var out models.Post
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/api/community/%d/post", communityID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ListVerificationRequests(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/users/", nil, &out); err != nil {
		return nil, err
	}
	// The endpoint returns everyone; the admin dashboard only wants accounts
	// still waiting for a decision.
	pending := out[:0]
	for _, u := range out {
		if u.AwaitingDecision() || (!u.IsVerified && u.IsRejected != nil && !*u.IsRejected) {
			pending = append(pending, u)
		}
	}
	return pending, nil
}

// Close releases idle transport connections.
func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
