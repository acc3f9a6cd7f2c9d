package controllers

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate: FOR UPDATE hanya di postgres; sqlite (dipakai saat test)
// single-writer dan tidak mengenal row lock.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
