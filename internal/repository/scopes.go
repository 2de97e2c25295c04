package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// alcanceBorrados restricts a query to active rows unless incluirBorrados is
// set. Every find/list that can see soft-deleted rows goes through it.
func alcanceBorrados(incluirBorrados bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if incluirBorrados {
			return db
		}
		return db.Where("deleted_at IS NULL")
	}
}

// soloBorrados restricts a query to rows in the trash.
func soloBorrados(db *gorm.DB) *gorm.DB {
	return db.Where("deleted_at IS NOT NULL")
}

// paraActualizar takes a row lock held until the enclosing transaction ends.
// SQLite ignores the clause; its single writer already serializes.
func paraActualizar(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// paginar normalizes page/limit the same way for every list endpoint.
func paginar(page, limit int) func(*gorm.DB) *gorm.DB {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 50
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((page - 1) * limit).Limit(limit)
	}
}
