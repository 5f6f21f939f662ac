// Package api defines the Synapse Space REST API surface the CLI consumes
// and its HTTP implementation. Session state lives elsewhere (see the
// session package); this layer only moves requests and responses.
package api

import (
	"context"

	"github.com/synapsespace/synapsectl/internal/client/models"
)

// Credentials is the input of the two-phase login call. OTP is empty on the
// first attempt and carries the 6-digit code on the second.
type Credentials struct {
	UsernameOrEmail string `json:"username_or_email"`
	Password        string `json:"password"`
	OTP             string `json:"otp,omitempty"`
}

// LoginResult is the outcome of a login call. Exactly one of the two shapes
// is populated: OTPRequired=true with nothing else, or User+Access.
type LoginResult struct {
	OTPRequired bool
	User        *models.User
	Access      string
}

// Client is the remote API consumed by the session manager and the
// application services.
type Client interface {
	// CheckAuth calls the "who am I" endpoint using the ambient cookie
	// credential. Returns the user record and the current access token
	// (empty when the server did not hand one back).
	CheckAuth(ctx context.Context) (*models.User, string, error)

	// Login performs phase A (credentials only) or phase B (credentials+OTP)
	// of the login flow.
	Login(ctx context.Context, creds Credentials) (*LoginResult, error)

	// ResendOTP asks the server to send a fresh one-time code.
	ResendOTP(ctx context.Context, usernameOrEmail string) (string, error)

	// Refresh exchanges the ambient refresh credential for a new access
	// token.
	Refresh(ctx context.Context) (string, error)

	// Logout invalidates the server-side session.
	Logout(ctx context.Context) error

	ListCommunities(ctx context.Context) ([]models.Community, error)
	GetCommunity(ctx context.Context, id int64) (*models.Community, error)
	JoinCommunity(ctx context.Context, id int64) error

	ListPosts(ctx context.Context, communityID int64) ([]models.Post, error)
	CreatePost(ctx context.Context, communityID int64, title, content string) (*models.Post, error)

	// ListVerificationRequests returns accounts awaiting the admin
	// verification decision. Requires a superuser session.
	ListVerificationRequests(ctx context.Context) ([]models.User, error)

	Close() error
}
