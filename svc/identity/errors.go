package identity

import "errors"

var (
	ErrOwnerNotFound        = errors.New("owner not found")
	ErrOwnerAlreadySynced   = errors.New("owner already exists in tenant")
	ErrNotOwner             = errors.New("only owners can create organizations")
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrUnauthenticated      = errors.New("could not validate credentials")
)
