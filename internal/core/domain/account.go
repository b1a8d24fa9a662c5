package domain

// Role determines which directory actions an account may perform.
type Role string

const (
	RoleStandardUser Role = "standard_user"
	RoleHR           Role = "hr"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleStandardUser || r == RoleHR
}

// Account is the persisted record for a directory user. Credential
// material never leaves the server: the digest and salt are excluded
// from every serialized projection.
type Account struct {
	Username       string `json:"username"`
	CredentialHash string `json:"-"`
	CredentialSalt []byte `json:"-"`
	PhoneNumber    string `json:"phone_number"`
	Role           Role   `json:"role"`
}

// Summary returns the redacted projection of the account that is safe
// to show to any caller, including anonymous ones.
func (a *Account) Summary() UserSummary {
	return UserSummary{
		Username:    a.Username,
		PhoneNumber: a.PhoneNumber,
	}
}

// UserSummary is the public view of an account: username and phone
// number only.
type UserSummary struct {
	Username    string `json:"username" cbor:"username"`
	PhoneNumber string `json:"phone_number" cbor:"phone_number"`
}
