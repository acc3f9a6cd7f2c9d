package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/flotoolx/fresto-sub001/config"
	"github.com/flotoolx/fresto-sub001/models"
	"github.com/flotoolx/fresto-sub001/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Username string `json:"username" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"` // STOKIS atau MITRA
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	StokisID *uint  `json:"stokis_id"` // wajib untuk MITRA
}

// Register hanya untuk STOKIS/MITRA. Role internal (PUSAT, FINANCE, GUDANG, DC)
// dibuat lewat manajemen user oleh PUSAT.
func Register(c *gin.Context) {
	var in RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, http.StatusBadRequest, "Payload tidak valid", err)
		return
	}

	in.Role = strings.ToUpper(in.Role)
	if in.Role != models.RoleStokis && in.Role != models.RoleMitra {
		utils.Error(c, http.StatusBadRequest, "Registrasi hanya untuk STOKIS atau MITRA", nil)
		return
	}

	if in.Role == models.RoleMitra {
		if in.StokisID == nil || *in.StokisID == 0 {
			utils.Error(c, http.StatusBadRequest, "Mitra wajib memilih stokis induk", nil)
			return
		}
		var stokis models.User
		if err := config.DB.Where("id = ? AND role = ?", *in.StokisID, models.RoleStokis).
			First(&stokis).Error; err != nil {
			utils.Error(c, http.StatusBadRequest, "Stokis induk tidak ditemukan", nil)
			return
		}
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
	}
	if err := config.DB.Create(&user).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal membuat user", err)
		return
	}

	utils.Success(c, "Registrasi berhasil", gin.H{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Login(c *gin.Context) {
	var in LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, http.StatusBadRequest, "Payload tidak valid", err)
		return
	}

	var user models.User
	if err := config.DB.Where("username = ?", in.Username).First(&user).Error; err != nil {
		utils.Error(c, http.StatusUnauthorized, "Username atau password salah", nil)
		return
	}
	if !user.IsActive {
		utils.Error(c, http.StatusUnauthorized, "Akun dinonaktifkan", nil)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		utils.Error(c, http.StatusUnauthorized, "Username atau password salah", nil)
		return
	}

	now := time.Now().UTC()
	config.DB.Model(&user).Update("last_login_at", now)

	token, err := utils.GenerateToken(user.ID, user.FullName, user.Role)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal membuat token", err)
		return
	}

	utils.Success(c, "Login sukses", gin.H{
		"token": token,
		"role":  user.Role,
		"nama":  user.FullName,
	})
}

func Profile(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var user models.User
	if err := config.DB.First(&user, actor.ID).Error; err != nil {
		utils.Error(c, http.StatusNotFound, "User tidak ditemukan", nil)
		return
	}
	utils.Success(c, "Berhasil mengambil profil", user)
}

type UpdateProfileInput struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func UpdateProfile(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var in UpdateProfileInput
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
	if len(updates) == 0 {
		utils.Error(c, http.StatusBadRequest, "Tidak ada field yang diubah", nil)
		return
	}

	if err := config.DB.Model(&models.User{}).Where("id = ?", actor.ID).
		Updates(updates).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal update profil", err)
		return
	}
	utils.Success(c, "Profil diperbarui", nil)
}

type ChangePasswordInput struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

func ChangePassword(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var in ChangePasswordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, http.StatusBadRequest, "Payload tidak valid", err)
		return
	}

	var user models.User
	if err := config.DB.First(&user, actor.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(c, http.StatusNotFound, "User tidak ditemukan", nil)
			return
		}
		utils.Error(c, http.StatusInternalServerError, "Gagal ambil user", err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.OldPassword)); err != nil {
		utils.Error(c, http.StatusBadRequest, "Password lama salah", nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), 10)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal memproses password", err)
		return
	}

	if err := config.DB.Model(&user).Update("password_hash", string(hash)).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal update password", err)
		return
	}
	utils.Success(c, "Password diubah", nil)
}
