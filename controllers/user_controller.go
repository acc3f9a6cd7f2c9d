package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/flotoolx/fresto-sub001/config"
	"github.com/flotoolx/fresto-sub001/models"
	"github.com/flotoolx/fresto-sub001/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// GET /users?role=STOKIS&q=
func UserList(c *gin.Context) {
	q := config.DB.Model(&models.User{}).Order("id DESC")

	if role := strings.ToUpper(c.Query("role")); role != "" {
		q = q.Where("role = ?", role)
	}
	if s := c.Query("q"); s != "" {
		like := "%" + s + "%"
		q = q.Where("username ILIKE ? OR full_name ILIKE ?", like, like)
	}

	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal mengambil data user", err)
		return
	}
	utils.Success(c, "Berhasil mengambil data user", users)
}

type CreateUserInput struct {
	Username string `json:"username" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	StokisID *uint  `json:"stokis_id"`
	DCID     *uint  `json:"dc_id"`
	GudangID *uint  `json:"gudang_id"`
}

// POST /users — manajemen user oleh PUSAT, semua role boleh dibuat di sini.
func UserCreate(c *gin.Context) {
	var in CreateUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, http.StatusBadRequest, "Payload tidak valid", err)
		return
	}

	in.Role = strings.ToUpper(in.Role)
	if !models.ValidRole(in.Role) {
		utils.Error(c, http.StatusBadRequest, "Role tidak dikenal", nil)
		return
	}
	if in.Role == models.RoleGudang && (in.GudangID == nil || *in.GudangID == 0) {
		utils.Error(c, http.StatusBadRequest, "User gudang wajib ditautkan ke satu gudang", nil)
		return
	}

	var existing models.User
	if err := config.DB.Where("username = ?", in.Username).First(&existing).Error; err == nil {
		utils.Error(c, http.StatusBadRequest, "Username sudah terdaftar", nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), 10)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal memproses password", err)
		return
	}

	user := models.User{
		Username:     in.Username,
		FullName:     in.FullName,
		Role:         in.Role,
		Phone:        in.Phone,
		Address:      in.Address,
		PasswordHash: string(hash),
		StokisID:     in.StokisID,
		DCID:         in.DCID,
		GudangID:     in.GudangID,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal membuat user", err)
		return
	}
	utils.Success(c, "User dibuat", user)
}

type UpdateUserInput struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	IsActive *bool  `json:"is_active"`
	StokisID *uint  `json:"stokis_id"`
	DCID     *uint  `json:"dc_id"`
	GudangID *uint  `json:"gudang_id"`
}

// PUT /users/:id
func UserUpdate(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var user models.User
	if err := config.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(c, http.StatusNotFound, "User tidak ditemukan", nil)
			return
		}
		utils.Error(c, http.StatusInternalServerError, "Gagal ambil user", err)
		return
	}

	var in UpdateUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, http.StatusBadRequest, "Payload tidak valid", err)
		return
	}

	updates := map[string]any{}
	if in.FullName != "" {
		updates["full_name"] = in.FullName
	}
	if in.Phone != "" {
		updates["phone"] = in.Phone
	}
	if in.Address != "" {
		updates["address"] = in.Address
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if in.StokisID != nil {
		updates["stokis_id"] = *in.StokisID
	}
	if in.DCID != nil {
		updates["dc_id"] = *in.DCID
	}
	if in.GudangID != nil {
		updates["gudang_id"] = *in.GudangID
	}
	if len(updates) == 0 {
		utils.Error(c, http.StatusBadRequest, "Tidak ada field yang diubah", nil)
		return
	}

	if err := config.DB.Model(&user).Updates(updates).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal update user", err)
		return
	}
	utils.Success(c, "User diperbarui", nil)
}

// DELETE /users/:id — nonaktifkan, bukan hapus baris: order/invoice lama masih
// mereferensikan user ini.
func UserDeactivate(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	res := config.DB.Model(&models.User{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal nonaktifkan user", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(c, http.StatusNotFound, "User tidak ditemukan", nil)
		return
	}
	utils.Success(c, "User dinonaktifkan", nil)
}
