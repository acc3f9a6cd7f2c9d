package models

import "time"

type Payment struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	RefNo     string `gorm:"size:60;uniqueIndex;not null" json:"ref_no"`
	InvoiceID uint   `gorm:"index;not null" json:"invoice_id"`

	Amount int64  `gorm:"not null" json:"amount"`
	Method string `gorm:"size:20;not null" json:"method"` // CASH / TRANSFER

	PaidAt   time.Time `gorm:"not null" json:"paid_at"`
	PaidByID uint      `gorm:"index;not null" json:"paid_by_id"`
	Note     string    `gorm:"size:255" json:"note,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
