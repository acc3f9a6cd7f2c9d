package models

import "time"

// StokisOrder: PO dari stokis ke pusat, dipenuhi oleh gudang.
type StokisOrder struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	OrderNo   string `gorm:"size:40;uniqueIndex;not null" json:"order_no"`

	StokisID uint `gorm:"index;not null" json:"stokis_id"`
	Stokis   User `gorm:"foreignKey:StokisID" json:"stokis"`

	GudangID uint   `gorm:"index;not null" json:"gudang_id"`
	Gudang   Gudang `gorm:"foreignKey:GudangID" json:"gudang"`

	Status      OrderStatus `gorm:"size:30;index;not null" json:"status"`
	TotalAmount int64       `gorm:"not null" json:"total_amount"`
	Notes       string      `gorm:"type:text" json:"notes"`

	ForwardedAt *time.Time `json:"forwarded_at"`
	PoIssuedAt  *time.Time `json:"po_issued_at"`
	ProcessedAt *time.Time `json:"processed_at"`
	ShippedAt   *time.Time `json:"shipped_at"`
	ReceivedAt  *time.Time `json:"received_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	Items []StokisOrderItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type StokisOrderItem struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	StokisOrderID uint `gorm:"index;not null" json:"stokis_order_id"`

	ProductID uint     `gorm:"not null" json:"product_id"`
	Product   *Product `json:"product,omitempty"`

	Quantity int64 `gorm:"not null" json:"quantity"`
	Price    int64 `gorm:"not null" json:"price"` // snapshot harga saat order
	Subtotal int64 `gorm:"not null" json:"subtotal"`
}

// MitraOrder: order dari mitra ke stokis induknya.
type MitraOrder struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	OrderNo string `gorm:"size:40;uniqueIndex;not null" json:"order_no"`

	MitraID uint `gorm:"index;not null" json:"mitra_id"`
	Mitra   User `gorm:"foreignKey:MitraID" json:"mitra"`

	StokisID uint `gorm:"index;not null" json:"stokis_id"`
	Stokis   User `gorm:"foreignKey:StokisID" json:"stokis"`

	Status      OrderStatus `gorm:"size:30;index;not null" json:"status"`
	TotalAmount int64       `gorm:"not null" json:"total_amount"`
	Notes       string      `gorm:"type:text" json:"notes"`

	ProcessedAt *time.Time `json:"processed_at"`
	ShippedAt   *time.Time `json:"shipped_at"`
	ReceivedAt  *time.Time `json:"received_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	Items []MitraOrderItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MitraOrderItem struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	MitraOrderID uint `gorm:"index;not null" json:"mitra_order_id"`

	ProductID uint     `gorm:"not null" json:"product_id"`
	Product   *Product `json:"product,omitempty"`

	Quantity int64 `gorm:"not null" json:"quantity"`
	Price    int64 `gorm:"not null" json:"price"`
	Subtotal int64 `gorm:"not null" json:"subtotal"`
}
