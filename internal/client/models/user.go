// Package models defines client-side data models for the Synapse Space CLI.
package models

// VerificationStatus is the outcome of the onboarding review that gates full
// access to the platform. The backend encodes it as a pair of flags
// (is_verified plus a nullable is_rejected); the client keeps it as an
// explicit three-way enum so callers cannot collapse "pending" into
// "approved" or "rejected" by accident.
type VerificationStatus int

const (
	// VerificationPending means no decision has been made yet; the user is
	// still in (or has just finished) profile setup.
	VerificationPending VerificationStatus = iota

	// VerificationApproved means the account passed review and is fully
	// usable.
	VerificationApproved

	// VerificationRejected means the account was reviewed and declined.
	VerificationRejected
)

// String implements fmt.Stringer for logs and CLI output.
func (s VerificationStatus) String() string {
	switch s {
	case VerificationApproved:
		return "approved"
	case VerificationRejected:
		return "rejected"
	default:
		return "pending"
	}
}

// User is the authenticated account record returned by the backend.
//
// IsRejected mirrors the wire format: nil means the review is still pending,
// a non-nil value carries the decision. Use Verification() instead of reading
// the flags directly.
type User struct {
	ID            int64  `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	StudentNumber string `json:"student_number"`
	IsVerified    bool   `json:"isVerified"`
	IsRejected    *bool  `json:"is_rejected"`
	IsSuperuser   bool   `json:"is_superuser"`
	IsStaff       bool   `json:"is_staff"`
	Pic           string `json:"pic"`
}

// Verification folds the wire flags into the three-way status.
func (u *User) Verification() VerificationStatus {
	if u.IsVerified {
		return VerificationApproved
	}
	if u.IsRejected != nil && *u.IsRejected {
		return VerificationRejected
	}
	if u.IsRejected != nil {
		// Reviewed and explicitly not rejected, but not verified yet:
		// the account is waiting for approval to complete.
		return VerificationPending
	}
	return VerificationPending
}

// AwaitingDecision reports whether the review outcome is still unknown
// (is_rejected absent on the wire). Route guards branch on this separately
// from Verification(): an unreviewed account goes to profile setup, a
// reviewed-but-unapproved one waits for approval.
func (u *User) AwaitingDecision() bool {
	return !u.IsVerified && u.IsRejected == nil
}
