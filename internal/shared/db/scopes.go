package db

import (
	"gorm.io/gorm"
)

// Paginate applies offset/limit with sane bounds for listing queries.
func Paginate(offset, limit int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 100 {
			limit = 20
		}
		return db.Offset(offset).Limit(limit)
	}
}
