package models

import "gorm.io/gorm"

type Product struct {
	gorm.Model
	Nama       string   `json:"nama"`
	SKU        string   `json:"sku" gorm:"unique"`
	CategoryID uint     `json:"category_id"`
	Category   Category `json:"category"` // preload
	Satuan     string   `json:"satuan"`
	Price      int64    `json:"price"` // rupiah
	IsActive   bool     `json:"is_active" gorm:"default:true"`
}
