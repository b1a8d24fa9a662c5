// Package protocol defines the directory wire protocol: action tags,
// result codes and the framed connection.
//
// The protocol is strict request/response lock-step over an encrypted
// byte stream. For every request the client first sends the action
// tag, then the action's payload fields as individual CBOR items in a
// fixed order; the server answers with exactly one Result. Before each
// request the server sends a banner string.
package protocol

import "github.com/resign-hr/directory/internal/core/domain"

// Tag identifies a requested action on the wire.
type Tag string

const (
	TagShowUsers      Tag = "show_users"
	TagChangeOwnPhone Tag = "change_own_phone"
	TagChangePhone    Tag = "change_phone"
	TagAddUser        Tag = "add_user"
	TagLogin          Tag = "login"
	TagLogout         Tag = "logout"
	TagExit           Tag = "exit"
)

// Code is a machine-readable result code. Human-readable text is a
// client-side presentation concern.
type Code string

const (
	CodeInvalidUsername    Code = "invalid_username"
	CodeInvalidPassword    Code = "invalid_password"
	CodeInvalidPhoneNumber Code = "invalid_phone_number"
	CodeInvalidRole        Code = "invalid_role"

	// CodeLoginFailed covers both unknown username and wrong password.
	CodeLoginFailed Code = "login_failed"

	CodeAlreadyLoggedIn  Code = "already_logged_in"
	CodePermissionDenied Code = "permission_denied"
	CodeUserExists       Code = "user_exists"
	CodeUserNotFound     Code = "user_not_found"

	// CodeInternal is the generic server-side failure code. Details
	// stay in the server logs.
	CodeInternal Code = "internal_error"
)

// Result is the single response sent for every request. Users is only
// populated for a successful ShowUsers.
type Result struct {
	OK    bool                 `cbor:"ok"`
	Code  Code                 `cbor:"code,omitempty"`
	Users []domain.UserSummary `cbor:"users,omitempty"`
}

// OkResult is the payload-less success response.
func OkResult() Result {
	return Result{OK: true}
}

// ErrResult builds a failure response carrying code.
func ErrResult(code Code) Result {
	return Result{OK: false, Code: code}
}
