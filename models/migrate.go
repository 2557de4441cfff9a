package models

import "gorm.io/gorm"

// Migrate creates or updates the tables owned by this service.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&KVEntry{})
}
