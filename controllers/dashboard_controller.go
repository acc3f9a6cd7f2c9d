package controllers

import (
	"net/http"
	"time"

	"github.com/flotoolx/fresto-sub001/config"
	"github.com/flotoolx/fresto-sub001/models"
	"github.com/flotoolx/fresto-sub001/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GET /dashboard — ringkasan sesuai role.
func Dashboard(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	db := config.DB
	out := gin.H{}

	scopeOrders := func(q *gorm.DB) *gorm.DB {
		switch actor.Role {
		case models.RoleStokis:
			return q.Where("stokis_id = ?", actor.ID)
		case models.RoleGudang:
			var u models.User
			if err := db.First(&u, actor.ID).Error; err == nil && u.GudangID != nil {
				return q.Where("gudang_id = ?", *u.GudangID)
			}
			return q.Where("1 = 0")
		}
		return q
	}

	// mitra tidak punya order stokis; ringkasannya dari order mitra miliknya sendiri
	scopedOrders := func() *gorm.DB {
		if actor.Role == models.RoleMitra {
			return db.Model(&models.MitraOrder{}).Where("mitra_id = ?", actor.ID)
		}
		return scopeOrders(db.Model(&models.StokisOrder{}))
	}

	// order per status
	type statusCount struct {
		Status string `json:"status"`
		Jumlah int64  `json:"jumlah"`
	}
	var perStatus []statusCount
	if err := scopedOrders().
		Select("status, COUNT(*) AS jumlah").Group("status").
		Scan(&perStatus).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal membuat ringkasan", err)
		return
	}
	out["orders_per_status"] = perStatus

	// nilai order bulan berjalan (tanpa cancelled)
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	var monthTotal int64
	scopedOrders().
		Where("created_at >= ? AND status <> ?", monthStart, models.StatusCancelled).
		Select("COALESCE(SUM(total_amount),0)").Scan(&monthTotal)
	out["order_value_this_month"] = monthTotal

	// tagihan belum lunas
	scopeInvoices := func() *gorm.DB {
		q := db.Model(&models.Invoice{}).Where("status <> ?", models.InvoicePaid)
		if actor.Role == models.RoleStokis || actor.Role == models.RoleMitra {
			q = q.Where("billed_to_id = ?", actor.ID)
		}
		return q
	}
	var unpaidCount, unpaidTotal int64
	scopeInvoices().Count(&unpaidCount)
	scopeInvoices().Select("COALESCE(SUM(amount - paid_amount),0)").Scan(&unpaidTotal)
	out["unpaid_invoices"] = unpaidCount
	out["unpaid_total"] = unpaidTotal

	// stok menipis (pusat & gudang saja)
	if actor.Role == models.RolePusat || actor.Role == models.RoleGudang {
		lowQ := db.Model(&models.Stock{}).Where("qty <= min_qty")
		if actor.Role == models.RoleGudang {
			var u models.User
			if err := db.First(&u, actor.ID).Error; err == nil && u.GudangID != nil {
				lowQ = lowQ.Where("gudang_id = ?", *u.GudangID)
			}
		}
		var lowStock int64
		lowQ.Count(&lowStock)
		out["low_stock_items"] = lowStock
	}

	// order mitra yang menunggu (khusus stokis)
	if actor.Role == models.RoleStokis {
		var pending int64
		db.Model(&models.MitraOrder{}).
			Where("stokis_id = ? AND status = ?", actor.ID, models.StatusPendingStokis).
			Count(&pending)
		out["mitra_orders_pending"] = pending
	}

	utils.Success(c, "Ringkasan dashboard", out)
}
