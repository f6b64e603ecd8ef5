package models

import (
	"time"
)

// SessionRecord is a single persisted client-state entry keyed by a fixed name
type SessionRecord struct {
	Key       string    `gorm:"primaryKey;column:record_key" json:"key"`
	Payload   string    `gorm:"not null" json:"payload"` // serialized session JSON
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the table name stable across model renames
func (SessionRecord) TableName() string {
	return "session_records"
}
