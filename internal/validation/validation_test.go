package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/resign-hr/directory/internal/core/domain"
)

func TestValidUsername(t *testing.T) {
	valid := []string{
		"alice",
		"bob_",
		"a.b-",
		"default_hr",
		strings.Repeat("a", 64),
	}
	for _, s := range valid {
		if !ValidUsername(s) {
			t.Errorf("ValidUsername(%q) = false, want true", s)
		}
	}

	invalid := []string{
		"",
		"abc",                      // too short
		strings.Repeat("a", 65),    // too long
		"1234",                     // no letter
		"has space",                // bad char
		"éléonore",                 // outside charset
	}
	for _, s := range invalid {
		if ValidUsername(s) {
			t.Errorf("ValidUsername(%q) = true, want false", s)
		}
	}
}

func TestValidPassword(t *testing.T) {
	valid := []string{
		"Test123456789$",
		"Test123$",                           // 8 chars, minimum
		strings.Repeat("a", 58) + "Test1$",   // 64 chars
	}
	for _, s := range valid {
		if !ValidPassword(s) {
			t.Errorf("ValidPassword(%q) = false, want true", s)
		}
	}

	invalid := []string{
		"Test12$",                            // 7 chars
		strings.Repeat("a", 59) + "Test1$",   // 65 chars
		"test123456789$",                     // no upper
		"TEST123456789$",                     // no lower
		"Testabcdefghi$",                     // no digit
		"Test1234567890",                     // no special
		"Test123456789>",                     // special outside the class
	}
	for _, s := range invalid {
		if ValidPassword(s) {
			t.Errorf("ValidPassword(%q) = true, want false", s)
		}
	}
}

func TestValidPhone(t *testing.T) {
	valid := []string{
		"079 123 45 67",
		"0791234567",
		"079 12345 67", // partial grouping still matches digit count
	}
	for _, s := range valid {
		if !ValidPhone(s) {
			t.Errorf("ValidPhone(%q) = false, want true", s)
		}
	}

	invalid := []string{
		"",
		"791234567",      // missing leading 0
		"07912345678",    // too many digits
		"079123456",      // too few digits
		"+41791234567",   // international prefix not accepted
		"079-123-45-67",  // wrong separator
	}
	for _, s := range invalid {
		if ValidPhone(s) {
			t.Errorf("ValidPhone(%q) = true, want false", s)
		}
	}
}

func TestValidRole(t *testing.T) {
	if !ValidRole("standard_user") || !ValidRole("hr") {
		t.Fatalf("known roles rejected")
	}
	for _, s := range []string{"", "admin", "HR", "StandardUser"} {
		if ValidRole(s) {
			t.Errorf("ValidRole(%q) = true, want false", s)
		}
	}
}

func TestFieldError_FirstFailingField(t *testing.T) {
	v := New()

	type payload struct {
		Username string `validate:"username"`
		Password string `validate:"password"`
		Phone    string `validate:"phone"`
		Role     string `validate:"role"`
	}

	cases := []struct {
		name string
		in   payload
		want error
	}{
		{
			name: "all valid",
			in:   payload{"alice", "Test123$", "0791234567", "hr"},
			want: nil,
		},
		{
			name: "bad username reported first",
			in:   payload{"a", "bad", "bad", "bad"},
			want: domain.ErrInvalidUsername,
		},
		{
			name: "bad password",
			in:   payload{"alice", "weak", "0791234567", "hr"},
			want: domain.ErrInvalidPassword,
		},
		{
			name: "bad phone",
			in:   payload{"alice", "Test123$", "12345", "hr"},
			want: domain.ErrInvalidPhoneNumber,
		},
		{
			name: "bad role",
			in:   payload{"alice", "Test123$", "0791234567", "boss"},
			want: domain.ErrInvalidRole,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FieldError(v.Struct(tc.in))
			if !errors.Is(got, tc.want) {
				t.Fatalf("FieldError = %v, want %v", got, tc.want)
			}
		})
	}
}
