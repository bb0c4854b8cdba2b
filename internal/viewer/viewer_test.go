package viewer

import "testing"

func TestAnonymous(t *testing.T) {
	v := Anonymous()

	if v.Authenticated() {
		t.Error("Authenticated() = true, want false")
	}
	if v.UserID() != 0 {
		t.Errorf("UserID() = %d, want 0", v.UserID())
	}
}

func TestUser(t *testing.T) {
	v := User(42)

	if !v.Authenticated() {
		t.Error("Authenticated() = false, want true")
	}
	if v.UserID() != 42 {
		t.Errorf("UserID() = %d, want 42", v.UserID())
	}
}
