package identity

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeUsernameTaken    = "identity_username_taken"
	TextCodeGroupNameTaken   = "identity_group_name_taken"
	TextCodeUserNotFound     = "identity_user_not_found"
	TextCodeBadCredentials   = "identity_invalid_credentials"
	TextCodeTokenInvalid     = "identity_token_invalid"
	TextCodeTokenExpired     = "identity_token_expired"
	TextCodeTokenMalformed   = "identity_token_malformed"
	TextCodeMissingActor     = "identity_missing_actor"
	TextCodePasswordRequired = "identity_password_required"
)

// ErrUsernameTaken is returned when registration hits an existing username.
// Matching is case-sensitive and exact, the store performs no normalization.
var ErrUsernameTaken = errors.New("username already exists", errors.CategoryConflict).
	WithTextCode(TextCodeUsernameTaken).
	WithCode(errors.CodeConflict)

// ErrGroupNameTaken is returned when a group with the name already exists.
var ErrGroupNameTaken = errors.New("group name already exists", errors.CategoryConflict).
	WithTextCode(TextCodeGroupNameTaken).
	WithCode(errors.CodeConflict)

// ErrUserNotFound is returned when a username resolves to no stored record.
// When it surfaces behind a valid token it means the user existed at issue
// time and is gone now, which is distinct from an unauthenticated request.
var ErrUserNotFound = errors.New("user not found", errors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound).
	WithCode(errors.CodeNotFound)

// ErrMismatchedHashAndPassword is returned when a password does not match
// the stored hash.
var ErrMismatchedHashAndPassword = errors.New("invalid password", errors.CategoryAuth).
	WithTextCode(TextCodeBadCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrTokenInvalid is returned by the auth gateway for any token that fails
// decoding, signature verification, or expiry checks.
var ErrTokenInvalid = errors.New("invalid or expired token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenInvalid).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is the expiry specific validation failure.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed covers every non-expiry validation failure.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrMissingActor is returned when a protected operation runs without an
// authenticated user in scope.
var ErrMissingActor = errors.New("authenticated user required", errors.CategoryAuth).
	WithTextCode(TextCodeMissingActor).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects empty passwords before hashing.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodePasswordRequired).
	WithCode(errors.CodeBadRequest)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
