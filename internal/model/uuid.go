package model

import "github.com/google/uuid"

// GenerateID creates a new UUID string.
func GenerateID() string {
	return uuid.New().String()
}
