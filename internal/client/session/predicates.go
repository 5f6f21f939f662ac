package session

import (
	"context"

	"github.com/synapsespace/synapsectl/internal/client/models"
)

// The predicates below are the only view route guards get of the session.
// Each one runs a session check first when no user is known yet, so a guard
// mounted on a fresh page load still gets an answer.

// currentUserOrCheck returns the known user, falling back to a session check.
func (m *Manager) currentUserOrCheck(ctx context.Context) *models.User {
	m.mu.Lock()
	u := m.user
	m.mu.Unlock()
	if u != nil {
		return u
	}

	if !m.CheckSession(ctx) {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// IsAuthenticated reports whether a session exists.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	return m.currentUserOrCheck(ctx) != nil
}

// IsVerified reports whether the account passed onboarding review.
func (m *Manager) IsVerified(ctx context.Context) bool {
	u := m.currentUserOrCheck(ctx)
	return u != nil && u.IsVerified
}

// Verification returns the three-way onboarding review status. Callers must
// branch on all three values; an unauthenticated session reads as pending.
func (m *Manager) Verification(ctx context.Context) models.VerificationStatus {
	u := m.currentUserOrCheck(ctx)
	if u == nil {
		return models.VerificationPending
	}
	return u.Verification()
}

// AwaitingDecision reports whether the review outcome is still unknown
// (the account has not been looked at), as opposed to reviewed-but-waiting.
func (m *Manager) AwaitingDecision(ctx context.Context) bool {
	u := m.currentUserOrCheck(ctx)
	return u != nil && u.AwaitingDecision()
}

// IsAdmin reports whether the account may enter the admin dashboards.
func (m *Manager) IsAdmin(ctx context.Context) bool {
	u := m.currentUserOrCheck(ctx)
	return u != nil && (u.IsStaff || u.IsSuperuser)
}

// IsSuperUser reports whether the account has the superuser role.
func (m *Manager) IsSuperUser(ctx context.Context) bool {
	u := m.currentUserOrCheck(ctx)
	return u != nil && u.IsSuperuser
}

// AwaitingOTP reports whether a login is paused waiting for a one-time code.
func (m *Manager) AwaitingOTP() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.otpRequired
}

// LastError returns the user-displayable description of the most recent
// failure, or "" when the last operation succeeded.
func (m *Manager) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastError
}

// CurrentUser returns a copy of the known user record, or nil. It never
// triggers a network call; use the predicates for guard decisions.
func (m *Manager) CurrentUser() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}
