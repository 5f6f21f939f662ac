package api

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/synapsespace/synapsectl/internal/common"
)

// TokenExpiry extracts the expiry timestamp from an access token without
// verifying the signature. The client has no key material and does not need
// any: the server remains the authority on token validity, the claim is only
// used to schedule the proactive refresh.
func TokenExpiry(token string) (time.Time, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, fmt.Errorf("%w: no exp claim", common.ErrInvalidToken)
	}
	return exp.Time, nil
}
