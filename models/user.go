package models

import "time"

const (
	RolePusat   = "PUSAT"
	RoleFinance = "FINANCE"
	RoleGudang  = "GUDANG"
	RoleDC      = "DC"
	RoleStokis  = "STOKIS"
	RoleMitra   = "MITRA"
)

func ValidRole(r string) bool {
	switch r {
	case RolePusat, RoleFinance, RoleGudang, RoleDC, RoleStokis, RoleMitra:
		return true
	}
	return false
}

type User struct {
	ID           uint       `gorm:"primaryKey"           json:"id"`
	Username     string     `gorm:"uniqueIndex;size:120" json:"username"`
	FullName     string     `gorm:"size:180"             json:"full_name"`
	Role         string     `gorm:"size:20;index;not null" json:"role"`
	Phone        string     `gorm:"size:60"              json:"phone"`
	Address      string     `gorm:"size:255"             json:"address"`
	PasswordHash string     `gorm:"size:255"             json:"-"` // jangan dikirim ke client
	IsActive     bool       `gorm:"default:true"         json:"is_active"`

	// MITRA menginduk ke satu stokis, STOKIS ke satu DC, GUDANG ke satu gudang.
	StokisID *uint `gorm:"index" json:"stokis_id,omitempty"`
	DCID     *uint `gorm:"index" json:"dc_id,omitempty"`
	GudangID *uint `gorm:"index" json:"gudang_id,omitempty"`

	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
