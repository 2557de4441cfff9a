package models

import "time"

// KVEntry is one row of the SQL-backed key-value store.
type KVEntry struct {
	Key       string    `gorm:"primaryKey;type:varchar(191)" json:"key"`
	Value     string    `gorm:"type:longtext;not null" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
