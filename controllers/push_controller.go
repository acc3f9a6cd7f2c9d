package controllers

import (
	"net/http"

	"github.com/flotoolx/fresto-sub001/config"
	"github.com/flotoolx/fresto-sub001/models"
	"github.com/flotoolx/fresto-sub001/notify"
	"github.com/flotoolx/fresto-sub001/utils"

	"github.com/gin-gonic/gin"
)

// GET /push/key — public key VAPID untuk registrasi service worker.
func PushKey(c *gin.Context) {
	key := notify.VapidPublicKey()
	if key == "" {
		utils.Error(c, http.StatusServiceUnavailable, "Push belum dikonfigurasi", nil)
		return
	}
	utils.Success(c, "OK", gin.H{"public_key": key})
}

type SubscribeInput struct {
	Endpoint string `json:"endpoint" binding:"required"`
	Keys     struct {
		P256dh string `json:"p256dh" binding:"required"`
		Auth   string `json:"auth" binding:"required"`
	} `json:"keys" binding:"required"`
}

// POST /push/subscribe — upsert per endpoint; endpoint pindah user ikut pindah.
func PushSubscribe(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var in SubscribeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, http.StatusBadRequest, "Payload tidak valid", err)
		return
	}

	var sub models.PushSubscription
	err = config.DB.Where("endpoint = ?", in.Endpoint).First(&sub).Error
	if err == nil {
		sub.UserID = actor.ID
		sub.P256dh = in.Keys.P256dh
		sub.Auth = in.Keys.Auth
		if err := config.DB.Save(&sub).Error; err != nil {
			utils.Error(c, http.StatusInternalServerError, "Gagal menyimpan subscription", err)
			return
		}
		utils.Success(c, "Subscription diperbarui", nil)
		return
	}

	sub = models.PushSubscription{
		UserID:   actor.ID,
		Endpoint: in.Endpoint,
		P256dh:   in.Keys.P256dh,
		Auth:     in.Keys.Auth,
	}
	if err := config.DB.Create(&sub).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal menyimpan subscription", err)
		return
	}
	utils.Success(c, "Subscription tersimpan", nil)
}

type UnsubscribeInput struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// DELETE /push/subscribe
func PushUnsubscribe(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var in UnsubscribeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, http.StatusBadRequest, "Payload tidak valid", err)
		return
	}

	if err := config.DB.Where("endpoint = ? AND user_id = ?", in.Endpoint, actor.ID).
		Delete(&models.PushSubscription{}).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal menghapus subscription", err)
		return
	}
	utils.Success(c, "Subscription dihapus", nil)
}
