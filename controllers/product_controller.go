package controllers

import (
	"net/http"
	"strconv"

	"github.com/flotoolx/fresto-sub001/config"
	"github.com/flotoolx/fresto-sub001/models"
	"github.com/flotoolx/fresto-sub001/utils"

	"github.com/gin-gonic/gin"
)

// GET /products?category_id=&active=
func ProductList(c *gin.Context) {
	q := config.DB.Preload("Category").Order("id ASC")

	if cid := c.Query("category_id"); cid != "" {
		q = q.Where("category_id = ?", cid)
	}
	if act := c.Query("active"); act != "" {
		q = q.Where("is_active = ?", act == "true")
	}

	var rows []models.Product
	if err := q.Find(&rows).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal mengambil produk", err)
		return
	}
	utils.Success(c, "Berhasil mengambil produk", rows)
}

func ProductDetail(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var row models.Product
	if err := config.DB.Preload("Category").First(&row, id).Error; err != nil {
		utils.Error(c, http.StatusNotFound, "Produk tidak ditemukan", nil)
		return
	}
	utils.Success(c, "Berhasil mengambil produk", row)
}

type ProductInput struct {
	Nama       string `json:"nama" binding:"required"`
	SKU        string `json:"sku" binding:"required"`
	CategoryID uint   `json:"category_id" binding:"required"`
	Satuan     string `json:"satuan"`
	Price      int64  `json:"price" binding:"required,gt=0"`
}

func ProductCreate(c *gin.Context) {
	var in ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, http.StatusBadRequest, "Payload tidak valid", err)
		return
	}

	var cnt int64
	config.DB.Model(&models.Category{}).Where("id = ?", in.CategoryID).Count(&cnt)
	if cnt == 0 {
		utils.Error(c, http.StatusBadRequest, "Kategori tidak ditemukan", nil)
		return
	}

	row := models.Product{
		Nama:       in.Nama,
		SKU:        in.SKU,
		CategoryID: in.CategoryID,
		Satuan:     in.Satuan,
		Price:      in.Price,
		IsActive:   true,
	}
	if err := config.DB.Create(&row).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal membuat produk", err)
		return
	}
	utils.Success(c, "Produk dibuat", row)
}

type ProductUpdateInput struct {
	Nama     string `json:"nama"`
	Satuan   string `json:"satuan"`
	Price    *int64 `json:"price"`
	IsActive *bool  `json:"is_active"`
}

func ProductUpdate(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var row models.Product
	if err := config.DB.First(&row, id).Error; err != nil {
		utils.Error(c, http.StatusNotFound, "Produk tidak ditemukan", nil)
		return
	}

	var in ProductUpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, http.StatusBadRequest, "Payload tidak valid", err)
		return
	}

	updates := map[string]any{}
	if in.Nama != "" {
		updates["nama"] = in.Nama
	}
	if in.Satuan != "" {
		updates["satuan"] = in.Satuan
	}
	if in.Price != nil {
		if *in.Price <= 0 {
			utils.Error(c, http.StatusBadRequest, "Harga harus lebih dari 0", nil)
			return
		}
		updates["price"] = *in.Price
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if len(updates) == 0 {
		utils.Error(c, http.StatusBadRequest, "Tidak ada field yang diubah", nil)
		return
	}

	if err := config.DB.Model(&row).Updates(updates).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal update produk", err)
		return
	}
	utils.Success(c, "Produk diperbarui", nil)
}

func ProductDelete(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	if err := config.DB.Delete(&models.Product{}, id).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal hapus produk", err)
		return
	}
	utils.Success(c, "Produk dihapus", nil)
}
