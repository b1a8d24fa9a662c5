// Package validation holds the field-format rules for usernames,
// passwords, phone numbers and roles.
//
// The rules are exposed two ways: as pure predicates (ValidUsername,
// ValidPassword, ...) and as custom go-playground/validator tags
// ("username", "password", "phone", "role") for struct-level payload
// validation. Both views share the same regular expressions.
package validation

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/resign-hr/directory/internal/core/domain"
)

var (
	// Usernames: 4-64 chars of letters, digits, '_', '.', '-', with at
	// least one letter.
	reUsernameCharset = regexp.MustCompile(`^[A-Za-z0-9_.-]{4,64}$`)
	reUsernameLetter  = regexp.MustCompile(`[A-Za-z]`)

	// Passwords: 8-64 chars with at least one upper, one lower, one
	// digit and one special char from the fixed class.
	rePasswordUpper   = regexp.MustCompile(`[A-Z]`)
	rePasswordLower   = regexp.MustCompile(`[a-z]`)
	rePasswordDigit   = regexp.MustCompile(`\d`)
	rePasswordSpecial = regexp.MustCompile(`[#?!@$ %^&*-]`)
	rePasswordLength  = regexp.MustCompile(`^.{8,64}$`)

	// Swiss phone numbers, classical format 000 000 00 00. The
	// grouping spaces are optional so 0791234567 is accepted too.
	rePhone = regexp.MustCompile(`^0\d{2} ?\d{3} ?\d{2} ?\d{2}$`)
)

// ValidUsername reports whether s is a well-formed username.
func ValidUsername(s string) bool {
	return reUsernameCharset.MatchString(s) && reUsernameLetter.MatchString(s)
}

// ValidPassword reports whether s satisfies the password policy.
func ValidPassword(s string) bool {
	return rePasswordLength.MatchString(s) &&
		rePasswordUpper.MatchString(s) &&
		rePasswordLower.MatchString(s) &&
		rePasswordDigit.MatchString(s) &&
		rePasswordSpecial.MatchString(s)
}

// ValidPhone reports whether s is a well-formed Swiss phone number.
func ValidPhone(s string) bool {
	return rePhone.MatchString(s)
}

// ValidRole reports whether s names a known role.
func ValidRole(s string) bool {
	return domain.Role(s).Valid()
}

// New returns a validator instance with the directory's custom tags
// registered, ready for struct-level payload validation.
func New() *validator.Validate {
	v := validator.New()

	// RegisterValidation only fails on an empty tag name.
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return ValidUsername(fl.Field().String())
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return ValidPassword(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return ValidRole(fl.Field().String())
	})

	return v
}

// FieldError maps a struct validation failure to the field-specific
// domain error for the first field that failed. Fields are checked in
// declaration order, so the first failure is the first malformed field
// of the payload.
func FieldError(err error) error {
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return err
	}
	switch ve[0].Tag() {
	case "username":
		return domain.ErrInvalidUsername
	case "password":
		return domain.ErrInvalidPassword
	case "phone":
		return domain.ErrInvalidPhoneNumber
	case "role":
		return domain.ErrInvalidRole
	}
	return err
}
