package controllers

import (
	"net/http"
	"strconv"

	"github.com/flotoolx/fresto-sub001/config"
	"github.com/flotoolx/fresto-sub001/models"
	"github.com/flotoolx/fresto-sub001/utils"

	"github.com/gin-gonic/gin"
)

func GudangList(c *gin.Context) {
	var rows []models.Gudang
	if err := config.DB.Order("id ASC").Find(&rows).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal mengambil gudang", err)
		return
	}
	utils.Success(c, "Berhasil mengambil gudang", rows)
}

func GudangDetail(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var row models.Gudang
	if err := config.DB.First(&row, id).Error; err != nil {
		utils.Error(c, http.StatusNotFound, "Gudang tidak ditemukan", nil)
		return
	}
	utils.Success(c, "Berhasil mengambil gudang", row)
}

func GudangCreate(c *gin.Context) {
	var in models.Gudang
	if err := c.ShouldBindJSON(&in); err != nil || in.Nama == "" || in.Kode == "" {
		utils.Error(c, http.StatusBadRequest, "Nama dan kode wajib diisi", err)
		return
	}
	if err := config.DB.Create(&in).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal membuat gudang", err)
		return
	}
	utils.Success(c, "Gudang dibuat", in)
}

func GudangUpdate(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var row models.Gudang
	if err := config.DB.First(&row, id).Error; err != nil {
		utils.Error(c, http.StatusNotFound, "Gudang tidak ditemukan", nil)
		return
	}

	var in models.Gudang
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, http.StatusBadRequest, "Payload tidak valid", err)
		return
	}

	row.Nama = in.Nama
	row.Kode = in.Kode
	row.Lokasi = in.Lokasi
	if err := config.DB.Save(&row).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal update gudang", err)
		return
	}
	utils.Success(c, "Gudang diperbarui", row)
}

func GudangDelete(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var cnt int64
	config.DB.Model(&models.StokisOrder{}).Where("gudang_id = ?", id).Count(&cnt)
	if cnt > 0 {
		utils.Error(c, http.StatusBadRequest, "Gudang masih dipakai order", nil)
		return
	}

	if err := config.DB.Delete(&models.Gudang{}, id).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal hapus gudang", err)
		return
	}
	utils.Success(c, "Gudang dihapus", nil)
}
