package identity

import (
	"time"

	"github.com/dmitrymomot/tenancy/pkg/tenant"
)

// CoreUser is an account in the core database. Owners may create organizations.
type CoreUser struct {
	ID                         int64
	Email                      string
	PasswordHash               string
	IsVerified                 bool
	IsOwner                    bool
	VerificationToken          *string
	VerificationTokenCreatedAt *time.Time
	CreatedAt                  time.Time
}

// Organization lives in the core database; its ID is also the tenant id of
// its dedicated database.
type Organization struct {
	ID        tenant.ID
	Name      string
	OwnerID   int64
	CreatedAt time.Time
}

// TenantUser is an account inside one tenant database. The same email may
// exist in the core database and in any number of tenants.
type TenantUser struct {
	ID           int64
	Email        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
}

// Session is an issued access token.
type Session struct {
	AccessToken string
	TokenType   string
	ExpiresIn   time.Duration
}

// Registration is the result of a core sign-up.
type Registration struct {
	User              *CoreUser
	Session           Session
	VerificationToken string
}

// CreatedOrganization is the result of Organizations.Create.
type CreatedOrganization struct {
	Organization *Organization
	Database     string
}

const TokenTypeBearer = "bearer"
