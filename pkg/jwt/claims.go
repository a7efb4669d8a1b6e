package jwt

import (
	"fmt"
	"strconv"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Claims carried by access tokens. Subject is the user id in the database the
// token was issued for; Tenant is nil for core users.
type Claims struct {
	gojwt.RegisteredClaims
	Tenant *int64 `json:"tid,omitempty"`
	Owner  bool   `json:"own,omitempty"`
}

// NewClaims builds claims for userID. Pass tenantID=nil for core users.
func NewClaims(userID int64, tenantID *int64) Claims {
	return Claims{
		RegisteredClaims: gojwt.RegisteredClaims{Subject: strconv.FormatInt(userID, 10)},
		Tenant:           tenantID,
	}
}

// UserID parses the subject as a user id.
func (c Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: subject %q", ErrInvalidClaims, c.Subject)
	}
	return id, nil
}

// TenantID returns the tenant the token was issued in, if any.
func (c Claims) TenantID() (int64, bool) {
	if c.Tenant == nil {
		return 0, false
	}
	return *c.Tenant, true
}
