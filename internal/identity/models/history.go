package models

import (
	"time"

	"github.com/google/uuid"
)

// PasswordHistoryEntry is one previously used password hash. Entries are
// only consulted for reuse checks.
type PasswordHistoryEntry struct {
	ID        uuid.UUID
	Username  string
	Password  string
	ChangedAt time.Time
}
