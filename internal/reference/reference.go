// Package reference resolves relation references that may be stored as a bare
// foreign key, a preloaded struct, or both. It replaces the per-call-site
// "is the relation populated" nil-checks with one resolver.
package reference

import "github.com/google/uuid"

// Identifiable is implemented by models whose primary key is a UUID.
type Identifiable interface {
	PK() uuid.UUID
}

// ID resolves a relation to its key. The foreign key wins when set; otherwise
// the preloaded object's primary key is used. ok is false when neither side
// carries data.
func ID[T any, PT interface {
	*T
	Identifiable
}](fk *uuid.UUID, obj PT) (uuid.UUID, bool) {
	if fk != nil && *fk != uuid.Nil {
		return *fk, true
	}
	if obj != nil {
		return obj.PK(), true
	}
	return uuid.Nil, false
}

// Matches reports whether the reference resolves to target. An unresolvable
// reference never matches.
func Matches[T any, PT interface {
	*T
	Identifiable
}](fk *uuid.UUID, obj PT, target uuid.UUID) bool {
	id, ok := ID[T, PT](fk, obj)
	return ok && id == target
}
