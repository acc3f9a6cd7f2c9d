package models

import "time"

type InvoiceStatus string

const (
	InvoiceUnpaid  InvoiceStatus = "UNPAID"
	InvoicePaid    InvoiceStatus = "PAID"
	InvoiceOverdue InvoiceStatus = "OVERDUE"
)

// Tipe order yang ditagih invoice.
const (
	OrderTypeStokis = "STOKIS"
	OrderTypeMitra  = "MITRA"
)

type Invoice struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	InvoiceNo string `gorm:"size:40;uniqueIndex;not null" json:"invoice_no"`

	// Satu invoice per order; unik pada pasangan (order_type, order_id).
	OrderType string `gorm:"size:10;not null;uniqueIndex:idx_invoice_order" json:"order_type"`
	OrderID   uint   `gorm:"not null;uniqueIndex:idx_invoice_order" json:"order_id"`

	BilledToID uint `gorm:"index;not null" json:"billed_to_id"`
	BilledTo   User `gorm:"foreignKey:BilledToID" json:"billed_to"`

	Amount     int64         `gorm:"not null" json:"amount"`
	PaidAmount int64         `gorm:"not null;default:0" json:"paid_amount"`
	Status     InvoiceStatus `gorm:"size:20;index;not null" json:"status"`

	DueDate time.Time  `gorm:"not null" json:"due_date"`
	PaidAt  *time.Time `json:"paid_at"`

	Payments []Payment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"payments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
