package session

import (
	"context"
	"time"

	"github.com/synapsespace/synapsectl/internal/client/api"
)

// refreshTimer is the minimal surface the scheduler needs from a timer.
type refreshTimer interface {
	Stop() bool
}

// Seams for tests: time source and timer construction.
var (
	timeNow  = time.Now
	newTimer = func(d time.Duration, fn func()) refreshTimer {
		return time.AfterFunc(d, fn)
	}
)

// scheduleFromTokenLocked derives the expiry from the access token and arms
// the refresh. A token without a readable exp claim leaves the current
// schedule untouched; the next successful check or refresh will re-arm it.
// Callers hold m.mu.
func (m *Manager) scheduleFromTokenLocked(ctx context.Context, access string) {
	expiry, err := api.TokenExpiry(access)
	if err != nil {
		m.log.Warn(ctx, "cannot read token expiry, refresh not scheduled", "error", err)
		return
	}
	m.scheduleRefreshLocked(ctx, expiry)
}

// scheduleRefreshLocked arms the proactive refresh to fire RefreshLead ahead
// of expiry. A delay at or below zero fires immediately rather than being
// skipped: a near-expired token needs refreshing more, not less.
//
// Invariant: at most one live timer per manager. Any previously armed timer
// is stopped before the new one is created, so two refresh attempts can never
// race. Callers hold m.mu.
func (m *Manager) scheduleRefreshLocked(ctx context.Context, expiry time.Time) {
	if m.closed {
		return
	}

	m.stopTimerLocked()

	delay := expiry.Sub(timeNow()) - m.refreshLead
	if delay < 0 {
		delay = 0
	}

	m.log.Debug(ctx, "refresh scheduled", "expiry", expiry, "delay", delay)
	m.timer = newTimer(delay, m.refreshNow)
}

// stopTimerLocked cancels the armed refresh, if any. Callers hold m.mu.
func (m *Manager) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// refreshNow runs when the timer fires. On success the chain continues:
// the new token's expiry arms the next refresh. On failure the session is
// terminated on the spot; a refresh failure is a definitive session end, not
// a transient error, so there is no retry and no backoff.
func (m *Manager) refreshNow() {
	ctx := context.Background()

	access, err := m.api.Refresh(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}

	if err != nil {
		m.log.Warn(ctx, "token refresh failed, ending session", "error", err)
		m.clearLocked()
		return
	}

	m.log.Debug(ctx, "token refreshed")
	m.scheduleFromTokenLocked(ctx, access)
}
