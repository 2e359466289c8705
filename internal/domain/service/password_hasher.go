// Package service declares the ports core operations use for work that
// lives outside the domain: credentials, tokens and image storage.
package service

// PasswordHasher turns registration passwords into stored hashes and
// verifies login attempts against them.
type PasswordHasher interface {
	Hash(password string) (string, error)

	// Check reports whether password matches hash. A malformed hash never matches.
	Check(password, hash string) bool
}
