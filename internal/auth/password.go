// Package auth implements the password hashing and JWT issuance/verification
// the application layer's auth routes depend on. Neither bcrypt nor
// golang-jwt appears elsewhere in the example pack; both are named-but-
// unspecified collaborators per the spec's application-layer design note, so
// this package picks the two libraries the Go ecosystem reaches for by
// default rather than hand-rolling either.
package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a plaintext password with bcrypt's default cost.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword reports whether plaintext matches hash. A mismatched or
// malformed hash both report false with no distinguishing error leaked to
// the caller.
func ComparePassword(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
