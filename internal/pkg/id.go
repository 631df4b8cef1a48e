package pkg

import "github.com/google/uuid"

// GenerateNewID - generates a new unique id for games and players.
func GenerateNewID() string {
	return uuid.NewString()
}

// IsValidID - reports whether id looks like one produced by GenerateNewID.
func IsValidID(id string) bool {
	return uuid.Validate(id) == nil
}
