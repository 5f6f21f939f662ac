// Package guard decides what a route may show for the current session.
// The decision tables mirror the platform's route gates: a public gate that
// bounces signed-in users away from the login screen, a private gate that
// walks unverified accounts through onboarding, and an admin gate.
//
// Guards consume the session manager exclusively through its predicates;
// they never reach into session internals.
package guard

import (
	"context"

	"github.com/synapsespace/synapsectl/internal/client/models"
)

// Session is the predicate surface guards need. *session.Manager satisfies it.
type Session interface {
	IsAuthenticated(ctx context.Context) bool
	IsVerified(ctx context.Context) bool
	Verification(ctx context.Context) models.VerificationStatus
	AwaitingDecision(ctx context.Context) bool
	IsAdmin(ctx context.Context) bool
}

// Decision tells the caller what to render.
type Decision int

const (
	// Allow renders the protected content.
	Allow Decision = iota

	// RedirectLogin sends the visitor to the login screen.
	RedirectLogin

	// RedirectHome sends the visitor to the landing page.
	RedirectHome

	// ShowSetup renders the profile-setup flow (account not reviewed yet).
	ShowSetup

	// ShowPendingApproval renders the wait-for-approval notice.
	ShowPendingApproval

	// ShowRejected renders the rejection notice.
	ShowRejected
)

// String implements fmt.Stringer for logs.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	case ShowSetup:
		return "show-setup"
	case ShowPendingApproval:
		return "show-pending-approval"
	case ShowRejected:
		return "show-rejected"
	default:
		return "unknown"
	}
}

// Private gates member-only routes. Unverified accounts branch three ways on
// the review status; all three outcomes are distinct and callers must handle
// each.
func Private(ctx context.Context, s Session) Decision {
	if !s.IsAuthenticated(ctx) {
		return RedirectLogin
	}
	if s.IsVerified(ctx) {
		return Allow
	}

	if s.AwaitingDecision(ctx) {
		return ShowSetup
	}
	switch s.Verification(ctx) {
	case models.VerificationRejected:
		return ShowRejected
	default:
		return ShowPendingApproval
	}
}

// Admin gates the admin dashboards. Non-admins are bounced home, not to the
// login screen, so the gate leaks nothing about which routes exist.
func Admin(ctx context.Context, s Session) Decision {
	if !s.IsAuthenticated(ctx) {
		return RedirectHome
	}
	if !s.IsAdmin(ctx) {
		return RedirectHome
	}
	return Allow
}

// Public gates the login and registration screens: a signed-in user has no
// business there and is sent home.
func Public(ctx context.Context, s Session) Decision {
	if s.IsAuthenticated(ctx) {
		return RedirectHome
	}
	return Allow
}
