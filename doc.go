// Package identity implements a user and group authentication backend:
// registration, password login, JWT issuance and verification, and group
// creation scoped to an authenticated user.
//
// Token lifecycle:
//   - TokenService issues signed access tokens (configurable TTL, 30 minutes
//     by default) and refresh tokens (fixed 7 days), both carrying the
//     username as the subject claim. Validation is a pure function of the
//     signature and expiry; there is no server-side revocation state.
//
// Request authorization:
//   - Gateway resolves a bearer token to a stored user record. An invalid or
//     expired token fails with ErrTokenInvalid; a token whose subject no
//     longer exists fails with ErrUserNotFound. The two conditions stay
//     distinct all the way to the HTTP mapping.
//
// Errors are typed end to end (conflict, not found, unauthorized, validation,
// internal) so callers above the service boundary never see an opaque
// catch-all.
package identity
