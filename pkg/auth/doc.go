// Package auth holds the credential primitives shared by the core and tenant
// identity flows: bcrypt password hashing, email/password validation and
// email verification tokens.
//
//	h := auth.NewBcryptHasher(bcrypt.DefaultCost)
//	hash, err := h.Hash(password)
//	ok := h.Verify(hash, password)
//
// Errors are package-level sentinels so callers can map them with errors.Is.
package auth
