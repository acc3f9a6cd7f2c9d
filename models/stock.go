package models

import "gorm.io/gorm"

type Stock struct {
	gorm.Model
	GudangID uint   `json:"gudang_id" gorm:"uniqueIndex:idx_stock_gudang_product"`
	Gudang   Gudang `gorm:"foreignKey:GudangID" json:"gudang"`

	ProductID uint    `json:"product_id" gorm:"uniqueIndex:idx_stock_gudang_product"`
	Product   Product `gorm:"foreignKey:ProductID" json:"product"`

	Qty    int64 `json:"qty"`
	MinQty int64 `json:"min_qty"`
}

// StockMovement dicatat setiap mutasi stok (pengiriman order, koreksi manual).
type StockMovement struct {
	gorm.Model
	StockID uint  `json:"stock_id" gorm:"index"`
	Stock   Stock `gorm:"foreignKey:StockID" json:"stock"`

	OldQty  int64  `json:"old_qty"`
	NewQty  int64  `json:"new_qty"`
	Selisih int64  `json:"selisih"`
	Alasan  string `json:"alasan"`

	RefType string `gorm:"size:30" json:"ref_type"` // STOKIS_ORDER / ADJUSTMENT
	RefID   uint   `json:"ref_id"`
	ActorID uint   `json:"actor_id"`
}
