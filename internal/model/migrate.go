package model

import "gorm.io/gorm"

// AutoMigrate creates the state table used by the postgres backend.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&SessionRecord{})
}
