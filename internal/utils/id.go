package utils

import "github.com/google/uuid"

// GenerateID returns a new random document/user identifier.
func GenerateID() string {
	return uuid.NewString()
}
