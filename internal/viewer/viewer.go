// Package viewer identifies the user an operation is performed on
// behalf of. A viewer is either an authenticated user or an explicit
// anonymous marker, never a silent zero value.
package viewer

import "fmt"

type Viewer struct {
	userID        int64
	authenticated bool
}

// Anonymous is the viewer for unauthenticated requests.
func Anonymous() Viewer {
	return Viewer{}
}

// User returns a viewer for the authenticated user.
func User(userID int64) Viewer {
	return Viewer{userID: userID, authenticated: true}
}

func (v Viewer) Authenticated() bool {
	return v.authenticated
}

// UserID returns the viewer's user id. Zero for anonymous viewers, so
// membership lookups keyed on it match nothing rather than erroring.
func (v Viewer) UserID() int64 {
	if !v.authenticated {
		return 0
	}
	return v.userID
}

func (v Viewer) String() string {
	if !v.authenticated {
		return "anonymous"
	}
	return fmt.Sprintf("user:%d", v.userID)
}
