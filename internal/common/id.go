package common

import (
	"strings"

	"github.com/google/uuid"
)

const sessionIDPrefix = "sess_"

// NewSessionID generates a unique session ID
// Format: sess_<uuid>
func NewSessionID() string {
	return sessionIDPrefix + uuid.New().String()
}

// IsSessionID reports whether id has the session prefix followed by a valid uuid
func IsSessionID(id string) bool {
	if !strings.HasPrefix(id, sessionIDPrefix) {
		return false
	}
	_, err := uuid.Parse(strings.TrimPrefix(id, sessionIDPrefix))
	return err == nil
}
