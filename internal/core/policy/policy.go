// Package policy holds the static role × action permission matrix.
//
//	                  |show users|change own phone|change phone|add user|login|logout|exit|
//	anonymous:        |     x    |                |            |        |  x  |      |  x |
//	standard user:    |     x    |        x       |            |        |     |   x  |  x |
//	hr:               |     x    |        x       |      x     |    x   |     |   x  |  x |
package policy

import "github.com/resign-hr/directory/internal/core/domain"

// Action identifies one of the seven directory actions.
type Action string

const (
	ActionShowUsers      Action = "show_users"
	ActionChangeOwnPhone Action = "change_own_phone"
	ActionChangePhone    Action = "change_phone"
	ActionAddUser        Action = "add_user"
	ActionLogin          Action = "login"
	ActionLogout         Action = "logout"
	ActionExit           Action = "exit"
)

// Actions lists every action, for exhaustive checks.
func Actions() []Action {
	return []Action{
		ActionShowUsers,
		ActionChangeOwnPhone,
		ActionChangePhone,
		ActionAddUser,
		ActionLogin,
		ActionLogout,
		ActionExit,
	}
}

// Subject is the policy-side view of a session: a role, or anonymous.
type Subject string

const (
	SubjectAnonymous Subject = "anonymous"
	SubjectStandard  Subject = "standard_user"
	SubjectHR        Subject = "hr"
)

// Subjects lists every subject, for exhaustive checks.
func Subjects() []Subject {
	return []Subject{SubjectAnonymous, SubjectStandard, SubjectHR}
}

// SubjectForRole maps an account role to its policy subject.
func SubjectForRole(role domain.Role) Subject {
	switch role {
	case domain.RoleHR:
		return SubjectHR
	default:
		return SubjectStandard
	}
}

var matrix = map[Subject]map[Action]bool{
	SubjectAnonymous: {
		ActionShowUsers: true,
		ActionLogin:     true,
		ActionExit:      true,
	},
	SubjectStandard: {
		ActionShowUsers:      true,
		ActionChangeOwnPhone: true,
		ActionLogout:         true,
		ActionExit:           true,
	},
	SubjectHR: {
		ActionShowUsers:      true,
		ActionChangeOwnPhone: true,
		ActionChangePhone:    true,
		ActionAddUser:        true,
		ActionLogout:         true,
		ActionExit:           true,
	},
}

// CanPerform reports whether subject may perform action. Pure and
// total: every (subject, action) pair has a defined answer, and absent
// entries deny. Callers must re-evaluate per request rather than cache
// the answer on a session.
func CanPerform(subject Subject, action Action) bool {
	return matrix[subject][action]
}
