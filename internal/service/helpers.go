package service

import "github.com/google/uuid"

func parseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// Actor identifies who is making a request: an authenticated user (UserID
// non-nil) with their role set, or a guest identified only by email.
type Actor struct {
	UserID     *uuid.UUID
	Roles      []string
	GuestEmail string
}

func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}
