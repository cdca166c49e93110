package testutil

import "github.com/google/uuid"

// RandomSuffix returns a short unique suffix for test fixtures so tests
// can share one database without colliding.
func RandomSuffix() string {
	return uuid.NewString()[:8]
}

// RandomUsername returns a unique username with the given prefix.
func RandomUsername(prefix string) string {
	return prefix + "-" + RandomSuffix()
}

// RandomEmail returns a unique email address with the given prefix.
func RandomEmail(prefix string) string {
	return prefix + "-" + RandomSuffix() + "@example.com"
}
