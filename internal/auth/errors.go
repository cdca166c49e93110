package auth

import "errors"

var (
	// ErrUsernameExists and ErrEmailExists are registration-only failures.
	// Both fields come from the registering party itself, so distinguishing
	// them leaks nothing about third-party accounts.
	ErrUsernameExists = errors.New("username already exists")
	ErrEmailExists    = errors.New("email already exists")

	// ErrInvalidCredentials deliberately collapses unknown username, wrong
	// password and disabled account into one message so responses cannot be
	// used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrUserNotFound = errors.New("user not found")
)
