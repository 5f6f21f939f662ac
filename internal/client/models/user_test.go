package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool { return &b }

func TestUser_Verification(t *testing.T) {
	tests := []struct {
		name string
		user User
		want VerificationStatus
	}{
		{"verified", User{IsVerified: true}, VerificationApproved},
		{"verified overrides stale rejection flag", User{IsVerified: true, IsRejected: boolPtr(false)}, VerificationApproved},
		{"rejected", User{IsRejected: boolPtr(true)}, VerificationRejected},
		{"reviewed but not approved yet", User{IsRejected: boolPtr(false)}, VerificationPending},
		{"no decision yet", User{}, VerificationPending},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.user.Verification())
		})
	}
}

func TestUser_AwaitingDecision_DistinguishesNilFromFalse(t *testing.T) {
	// The wire encodes three states in is_rejected: absent, false, true.
	// AwaitingDecision must separate "absent" from the other two.
	assert.True(t, (&User{}).AwaitingDecision())
	assert.False(t, (&User{IsRejected: boolPtr(false)}).AwaitingDecision())
	assert.False(t, (&User{IsRejected: boolPtr(true)}).AwaitingDecision())
	assert.False(t, (&User{IsVerified: true}).AwaitingDecision())
}

func TestVerificationStatus_String(t *testing.T) {
	assert.Equal(t, "pending", VerificationPending.String())
	assert.Equal(t, "approved", VerificationApproved.String())
	assert.Equal(t, "rejected", VerificationRejected.String())
}
