// Package jwt issues and verifies HMAC-signed access tokens with
// github.com/golang-jwt/jwt/v5.
//
// Tokens carry the user id as subject, an optional tenant id ("tid") and the
// owner flag ("own"). A token issued in one tenant must only be accepted in
// requests scoped to that same tenant; callers compare Claims.TenantID with
// the request scope.
//
//	svc, err := jwt.NewFromString(secret, jwt.WithAlgorithm("HS256"), jwt.WithTTL(30*time.Minute))
//	token, err := svc.Encode(jwt.NewClaims(userID, nil), 0)
//	claims, err := svc.Decode(token)
//
// Middleware extracts a bearer token, verifies it and stores the claims in the
// request context for ClaimsFromContext.
package jwt
