package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/flotoolx/fresto-sub001/config"
	"github.com/flotoolx/fresto-sub001/models"
	"github.com/flotoolx/fresto-sub001/notify"
	"github.com/flotoolx/fresto-sub001/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	errInvoicePaid = errors.New("INVOICE_PAID")
	errOverpay     = errors.New("OVERPAY")
)

type PaymentInput struct {
	InvoiceID uint   `json:"invoice_id" binding:"required"`
	Amount    int64  `json:"amount" binding:"required,gt=0"`
	Method    string `json:"method" binding:"required"` // CASH / TRANSFER
	Note      string `json:"note"`
}

// POST /payments
func PaymentCreate(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var in PaymentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, http.StatusBadRequest, "Payload tidak valid", err)
		return
	}
	if in.Method != "CASH" && in.Method != "TRANSFER" {
		utils.Error(c, http.StatusBadRequest, "method tidak valid (CASH/TRANSFER)", nil)
		return
	}

	var pay models.Payment
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		var inv models.Invoice
		if err := lockForUpdate(tx).First(&inv, in.InvoiceID).Error; err != nil {
			return err
		}
		if inv.Status == models.InvoicePaid {
			return errInvoicePaid
		}

		// kelebihan bayar ditolak sebelum ada write apa pun
		remaining := inv.Amount - inv.PaidAmount
		if in.Amount > remaining {
			return errOverpay
		}

		now := time.Now().UTC()
		pay = models.Payment{
			RefNo:     "PAY-" + uuid.NewString()[:8],
			InvoiceID: inv.ID,
			Amount:    in.Amount,
			Method:    in.Method,
			PaidAt:    now,
			PaidByID:  actor.ID,
			Note:      in.Note,
		}
		if err := tx.Create(&pay).Error; err != nil {
			return err
		}

		newPaid := inv.PaidAmount + in.Amount
		updates := map[string]any{"paid_amount": newPaid}
		if newPaid >= inv.Amount {
			updates["status"] = models.InvoicePaid
			updates["paid_at"] = now
		}

		res := tx.Model(&models.Invoice{}).
			Where("id = ? AND paid_amount = ?", inv.ID, inv.PaidAmount).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.New("invoice berubah saat diproses, coba lagi")
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.Error(c, http.StatusNotFound, "Invoice tidak ditemukan", nil)
		case errors.Is(err, errInvoicePaid):
			utils.Error(c, http.StatusBadRequest, "Invoice sudah lunas", nil)
		case errors.Is(err, errOverpay):
			utils.Error(c, http.StatusBadRequest, "Pembayaran melebihi sisa tagihan", nil)
		default:
			utils.Error(c, http.StatusInternalServerError, "Gagal mencatat pembayaran", err)
		}
		return
	}

	var inv models.Invoice
	if err := config.DB.First(&inv, in.InvoiceID).Error; err == nil && inv.Status == models.InvoicePaid {
		notify.ToUser(inv.BilledToID, notify.Payload{
			Title: "Invoice lunas",
			Body:  inv.InvoiceNo + " sudah lunas, terima kasih",
			URL:   "/invoices/" + strconv.Itoa(int(inv.ID)),
		})
	}

	utils.Success(c, "Pembayaran dicatat", pay)
}

// DELETE /payments/:id — balikkan pembayaran dan hitung ulang status invoice.
// Invoice tidak pernah tersisa PAID setelah pembayaran dihapus.
func PaymentDelete(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var pay models.Payment
		if err := tx.First(&pay, id).Error; err != nil {
			return err
		}

		var inv models.Invoice
		if err := lockForUpdate(tx).First(&inv, pay.InvoiceID).Error; err != nil {
			return err
		}

		if err := tx.Delete(&models.Payment{}, pay.ID).Error; err != nil {
			return err
		}

		newPaid := inv.PaidAmount - pay.Amount
		if newPaid < 0 {
			newPaid = 0
		}

		status := models.InvoiceUnpaid
		if newPaid >= inv.Amount {
			// masih lunas dari pembayaran lain
			status = models.InvoicePaid
		} else if time.Now().UTC().After(inv.DueDate) {
			status = models.InvoiceOverdue
		}

		updates := map[string]any{
			"paid_amount": newPaid,
			"status":      status,
		}
		if status != models.InvoicePaid {
			updates["paid_at"] = gorm.Expr("NULL")
		}
		return tx.Model(&inv).Updates(updates).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(c, http.StatusNotFound, "Pembayaran tidak ditemukan", nil)
			return
		}
		utils.Error(c, http.StatusInternalServerError, "Gagal menghapus pembayaran", err)
		return
	}

	utils.Success(c, "Pembayaran dihapus", nil)
}

// GET /payments/invoice/:id
func PaymentHistory(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id, _ := strconv.Atoi(c.Param("id"))

	var inv models.Invoice
	if err := config.DB.Select("id", "billed_to_id").First(&inv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(c, http.StatusNotFound, "Invoice tidak ditemukan", nil)
			return
		}
		utils.Error(c, http.StatusInternalServerError, "Gagal ambil invoice", err)
		return
	}
	if (actor.Role == models.RoleStokis || actor.Role == models.RoleMitra) &&
		inv.BilledToID != actor.ID {
		utils.Error(c, http.StatusForbidden, "Forbidden", nil)
		return
	}

	var rows []models.Payment
	if err := config.DB.Where("invoice_id = ?", inv.ID).
		Order("paid_at ASC, id ASC").Find(&rows).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal ambil history", err)
		return
	}
	utils.Success(c, "Berhasil mengambil history pembayaran", rows)
}
