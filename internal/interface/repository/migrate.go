package repository

import "gorm.io/gorm"

// AutoMigrate creates or updates the relational tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Airlines{}, &ConversationContexts{})
}
