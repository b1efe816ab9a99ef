package model

import "time"

// SessionRecord backs the postgres state store. Value holds the raw bytes the
// caller stored, usually a JSON-encoded session or a cached query response.
type SessionRecord struct {
	Key       string     `gorm:"type:varchar(255);primaryKey" json:"key"`
	Value     []byte     `gorm:"type:bytea;not null" json:"-"`
	ExpiresAt *time.Time `gorm:"index" json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (SessionRecord) TableName() string { return "session_records" }

// Expired reports whether the record has a TTL that has passed at now.
func (r SessionRecord) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && now.After(*r.ExpiresAt)
}
