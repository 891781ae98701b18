package models

import "time"

// StorageEntry is one row of the key-value table backing the persistence store.
type StorageEntry struct {
	Key       string    `gorm:"primaryKey;size:191" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (StorageEntry) TableName() string {
	return "storage_entries"
}
