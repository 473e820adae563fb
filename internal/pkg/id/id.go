package id

import (
	"strings"

	"github.com/google/uuid"
)

// New returns a new UUID string.
func New() string {
	return uuid.New().String()
}

// NewDialogueID returns a short lowercase-hex id used in dialogue, audio
// and timeline filenames. Eight hex characters keep the conventional
// `*_<id>` filename patterns matchable with [a-f0-9]+.
func NewDialogueID() string {
	u := uuid.New()
	return strings.ReplaceAll(u.String(), "-", "")[:8]
}

// IsValid reports whether id parses as a UUID.
func IsValid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
