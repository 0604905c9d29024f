package utils

import "github.com/google/uuid"

// GenerateUUID returns a random UUID string used for connection and
// request correlation ids.
func GenerateUUID() string {
	return uuid.New().String()
}
