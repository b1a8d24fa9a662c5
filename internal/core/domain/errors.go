package domain

import "errors"

var ErrInvalidUsername = errors.New("invalid username")
var ErrInvalidPassword = errors.New("invalid password")
var ErrInvalidPhoneNumber = errors.New("invalid phone number")
var ErrInvalidRole = errors.New("invalid role")

// ErrLoginFailed deliberately covers both "unknown user" and "wrong
// password" so that a failed login never reveals whether the username
// exists.
var ErrLoginFailed = errors.New("login failed")

var ErrAlreadyLoggedIn = errors.New("already logged in")
var ErrPermissionDenied = errors.New("permission denied")
var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")

// ErrStoreInconsistency means an authenticated session references a
// username the store no longer contains. Accounts are never deleted by
// any exposed action, so this indicates out-of-band tampering and is
// treated as a server-side bug, not a client error.
var ErrStoreInconsistency = errors.New("authenticated account missing from store")
