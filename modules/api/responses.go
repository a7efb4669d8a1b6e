package api

import (
	"time"

	"github.com/dmitrymomot/tenancy/svc/identity"
)

type coreUserResponse struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	IsVerified bool      `json:"is_verified"`
	IsOwner    bool      `json:"is_owner"`
	CreatedAt  time.Time `json:"created_at"`
}

func newCoreUserResponse(u *identity.CoreUser) coreUserResponse {
	return coreUserResponse{
		ID:         u.ID,
		Email:      u.Email,
		IsVerified: u.IsVerified,
		IsOwner:    u.IsOwner,
		CreatedAt:  u.CreatedAt,
	}
}

type tenantUserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func newTenantUserResponse(u *identity.TenantUser) tenantUserResponse {
	return tenantUserResponse{
		ID:        u.ID,
		Email:     u.Email,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func newTokenResponse(s identity.Session) tokenResponse {
	return tokenResponse{
		AccessToken: s.AccessToken,
		TokenType:   s.TokenType,
		ExpiresIn:   int64(s.ExpiresIn / time.Second),
	}
}

type coreRegistrationResponse struct {
	User              coreUserResponse `json:"user"`
	VerificationToken string           `json:"verification_token"`
	tokenResponse
}

type loginResponse struct {
	tokenResponse
	User any `json:"user"`
}

type organizationResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	OwnerID   int64     `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	Database  string    `json:"database,omitempty"`
}

func newOrganizationResponse(o *identity.Organization) organizationResponse {
	return organizationResponse{
		ID:        o.ID.Int64(),
		Name:      o.Name,
		OwnerID:   o.OwnerID,
		CreatedAt: o.CreatedAt,
	}
}

type messageResponse struct {
	Message string `json:"message"`
}
