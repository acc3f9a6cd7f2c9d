package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/flotoolx/fresto-sub001/config"
	"github.com/flotoolx/fresto-sub001/models"
	"github.com/flotoolx/fresto-sub001/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GET /gudang/:id/stock?low=true
func StockList(c *gin.Context) {
	gudangID, _ := strconv.Atoi(c.Param("id"))

	q := config.DB.Preload("Product").Preload("Product.Category").
		Where("gudang_id = ?", gudangID).Order("product_id ASC")
	if c.Query("low") == "true" {
		q = q.Where("qty <= min_qty")
	}

	var rows []models.Stock
	if err := q.Find(&rows).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal mengambil stok", err)
		return
	}
	utils.Success(c, "Berhasil mengambil stok", rows)
}

type StockUpsertInput struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Qty       *int64 `json:"qty" binding:"required"`
	MinQty    int64  `json:"min_qty"`
	Alasan    string `json:"alasan"`
}

// POST /gudang/:id/stock — set stok (buat baris kalau belum ada) + catat mutasi.
func StockUpsert(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	gudangID, _ := strconv.Atoi(c.Param("id"))

	// user gudang hanya boleh menyentuh gudangnya sendiri
	if actor.Role == models.RoleGudang {
		var u models.User
		if err := config.DB.First(&u, actor.ID).Error; err != nil ||
			u.GudangID == nil || *u.GudangID != uint(gudangID) {
			utils.Error(c, http.StatusForbidden, "Bukan gudang Anda", nil)
			return
		}
	}

	var in StockUpsertInput
	if err := c.ShouldBindJSON(&in); err != nil || *in.Qty < 0 {
		utils.Error(c, http.StatusBadRequest, "Payload tidak valid", err)
		return
	}

	var cnt int64
	config.DB.Model(&models.Gudang{}).Where("id = ?", gudangID).Count(&cnt)
	if cnt == 0 {
		utils.Error(c, http.StatusNotFound, "Gudang tidak ditemukan", nil)
		return
	}
	config.DB.Model(&models.Product{}).Where("id = ?", in.ProductID).Count(&cnt)
	if cnt == 0 {
		utils.Error(c, http.StatusBadRequest, "Produk tidak ditemukan", nil)
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		var st models.Stock
		err := lockForUpdate(tx).
			Where("gudang_id = ? AND product_id = ?", gudangID, in.ProductID).
			First(&st).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			st = models.Stock{
				GudangID:  uint(gudangID),
				ProductID: in.ProductID,
				Qty:       0,
				MinQty:    in.MinQty,
			}
			if err := tx.Create(&st).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		old := st.Qty
		updates := map[string]any{"qty": *in.Qty}
		if in.MinQty > 0 {
			updates["min_qty"] = in.MinQty
		}
		if err := tx.Model(&st).Updates(updates).Error; err != nil {
			return err
		}

		if old != *in.Qty {
			mv := models.StockMovement{
				StockID: st.ID,
				OldQty:  old,
				NewQty:  *in.Qty,
				Selisih: *in.Qty - old,
				Alasan:  in.Alasan,
				RefType: "ADJUSTMENT",
				ActorID: actor.ID,
			}
			mv.CreatedAt = time.Now().UTC()
			if err := tx.Create(&mv).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal update stok", err)
		return
	}

	utils.Success(c, "Stok diperbarui", nil)
}

// GET /gudang/:id/stock/movements?product_id=
func StockMovementList(c *gin.Context) {
	gudangID, _ := strconv.Atoi(c.Param("id"))

	q := config.DB.
		Joins("JOIN stocks ON stocks.id = stock_movements.stock_id").
		Where("stocks.gudang_id = ?", gudangID).
		Order("stock_movements.id DESC")
	if pid := c.Query("product_id"); pid != "" {
		q = q.Where("stocks.product_id = ?", pid)
	}

	var rows []models.StockMovement
	if err := q.Find(&rows).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal mengambil mutasi stok", err)
		return
	}
	utils.Success(c, "Berhasil mengambil mutasi stok", rows)
}
