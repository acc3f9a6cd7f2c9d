package controllers

import (
	"net/http"
	"strconv"

	"github.com/flotoolx/fresto-sub001/config"
	"github.com/flotoolx/fresto-sub001/models"
	"github.com/flotoolx/fresto-sub001/utils"

	"github.com/gin-gonic/gin"
)

func CategoryList(c *gin.Context) {
	var rows []models.Category
	if err := config.DB.Order("id ASC").Find(&rows).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal mengambil kategori", err)
		return
	}
	utils.Success(c, "Berhasil mengambil kategori", rows)
}

func CategoryCreate(c *gin.Context) {
	var in models.Category
	if err := c.ShouldBindJSON(&in); err != nil || in.Nama == "" || in.Kode == "" {
		utils.Error(c, http.StatusBadRequest, "Nama dan kode wajib diisi", err)
		return
	}
	if err := config.DB.Create(&in).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal membuat kategori", err)
		return
	}
	utils.Success(c, "Kategori dibuat", in)
}

func CategoryUpdate(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var row models.Category
	if err := config.DB.First(&row, id).Error; err != nil {
		utils.Error(c, http.StatusNotFound, "Kategori tidak ditemukan", nil)
		return
	}

	var in models.Category
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, http.StatusBadRequest, "Payload tidak valid", err)
		return
	}

	row.Nama = in.Nama
	row.Kode = in.Kode
	if err := config.DB.Save(&row).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal update kategori", err)
		return
	}
	utils.Success(c, "Kategori diperbarui", row)
}

func CategoryDelete(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var cnt int64
	config.DB.Model(&models.Product{}).Where("category_id = ?", id).Count(&cnt)
	if cnt > 0 {
		utils.Error(c, http.StatusBadRequest, "Kategori masih dipakai produk", nil)
		return
	}

	if err := config.DB.Delete(&models.Category{}, id).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal hapus kategori", err)
		return
	}
	utils.Success(c, "Kategori dihapus", nil)
}
