package policy

import "testing"

// want mirrors the documented matrix exactly, cell by cell.
var want = map[Subject]map[Action]bool{
	SubjectAnonymous: {
		ActionShowUsers:      true,
		ActionChangeOwnPhone: false,
		ActionChangePhone:    false,
		ActionAddUser:        false,
		ActionLogin:          true,
		ActionLogout:         false,
		ActionExit:           true,
	},
	SubjectStandard: {
		ActionShowUsers:      true,
		ActionChangeOwnPhone: true,
		ActionChangePhone:    false,
		ActionAddUser:        false,
		ActionLogin:          false,
		ActionLogout:         true,
		ActionExit:           true,
	},
	SubjectHR: {
		ActionShowUsers:      true,
		ActionChangeOwnPhone: true,
		ActionChangePhone:    true,
		ActionAddUser:        true,
		ActionLogin:          false,
		ActionLogout:         true,
		ActionExit:           true,
	},
}

func TestCanPerform_MatrixComplete(t *testing.T) {
	for _, subject := range Subjects() {
		for _, action := range Actions() {
			got := CanPerform(subject, action)
			if got != want[subject][action] {
				t.Errorf("CanPerform(%s, %s) = %v, want %v", subject, action, got, want[subject][action])
			}
		}
	}
}

func TestCanPerform_UnknownPairsDeny(t *testing.T) {
	if CanPerform(Subject("intruder"), ActionAddUser) {
		t.Fatalf("unknown subject was allowed")
	}
	if CanPerform(SubjectHR, Action("drop_table")) {
		t.Fatalf("unknown action was allowed")
	}
}
