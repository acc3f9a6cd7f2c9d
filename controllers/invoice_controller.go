package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/flotoolx/fresto-sub001/config"
	"github.com/flotoolx/fresto-sub001/models"
	"github.com/flotoolx/fresto-sub001/notify"
	"github.com/flotoolx/fresto-sub001/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-pdf/fpdf"
	"gorm.io/gorm"
)

// GET /invoices?status=
func InvoiceList(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	q := config.DB.Preload("BilledTo").Order("due_date ASC, id DESC")

	switch actor.Role {
	case models.RolePusat, models.RoleFinance:
	case models.RoleStokis, models.RoleMitra:
		q = q.Where("billed_to_id = ?", actor.ID)
	default:
		utils.Error(c, http.StatusForbidden, "Role tidak diizinkan", nil)
		return
	}

	if st := c.Query("status"); st != "" {
		q = q.Where("status = ?", strings.ToUpper(st))
	}

	var rows []models.Invoice
	if err := q.Find(&rows).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal mengambil invoice", err)
		return
	}
	utils.Success(c, "Berhasil mengambil invoice", rows)
}

// GET /invoices/:id
func InvoiceDetail(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id, _ := strconv.Atoi(c.Param("id"))

	var inv models.Invoice
	if err := config.DB.Preload("BilledTo").Preload("Payments").First(&inv, id).Error; err != nil {
		utils.Error(c, http.StatusNotFound, "Invoice tidak ditemukan", nil)
		return
	}

	if (actor.Role == models.RoleStokis || actor.Role == models.RoleMitra) &&
		inv.BilledToID != actor.ID {
		utils.Error(c, http.StatusForbidden, "Forbidden", nil)
		return
	}

	utils.Success(c, "Berhasil mengambil invoice", inv)
}

type CreateInvoiceInput struct {
	OrderType string `json:"order_type" binding:"required"` // STOKIS | MITRA
	OrderID   uint   `json:"order_id" binding:"required"`
}

// POST /invoices — penerbitan manual oleh FINANCE/PUSAT untuk order yang sudah
// disetujui. Idempoten: order yang sudah punya invoice mengembalikan yang lama.
func InvoiceCreate(c *gin.Context) {
	var in CreateInvoiceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, http.StatusBadRequest, "Payload tidak valid", err)
		return
	}

	in.OrderType = strings.ToUpper(in.OrderType)
	if in.OrderType != models.OrderTypeStokis && in.OrderType != models.OrderTypeMitra {
		utils.Error(c, http.StatusBadRequest, "order_type harus STOKIS atau MITRA", nil)
		return
	}

	var inv models.Invoice
	var created bool

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var billedTo uint
		var amount int64
		var status models.OrderStatus

		if in.OrderType == models.OrderTypeStokis {
			var order models.StokisOrder
			if err := lockForUpdate(tx).First(&order, in.OrderID).Error; err != nil {
				return err
			}
			billedTo, amount, status = order.StokisID, order.TotalAmount, order.Status
		} else {
			var order models.MitraOrder
			if err := lockForUpdate(tx).First(&order, in.OrderID).Error; err != nil {
				return err
			}
			billedTo, amount, status = order.MitraID, order.TotalAmount, order.Status
		}

		switch status {
		case models.StatusPendingPusat, models.StatusPendingFinance,
			models.StatusPendingStokis, models.StatusCancelled:
			return fmt.Errorf("order berstatus %s belum bisa ditagih", status)
		}

		var err error
		inv, created, err = ensureInvoice(tx, in.OrderType, in.OrderID, billedTo, amount, time.Now().UTC())
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(c, http.StatusNotFound, "Order tidak ditemukan", nil)
			return
		}
		utils.Error(c, http.StatusBadRequest, "Gagal menerbitkan invoice", err)
		return
	}

	if created {
		notify.ToUser(inv.BilledToID, notify.Payload{
			Title: "Invoice baru",
			Body:  inv.InvoiceNo + " jatuh tempo " + inv.DueDate.Format("2006-01-02"),
			URL:   "/invoices/" + strconv.Itoa(int(inv.ID)),
		})
		utils.Success(c, "Invoice diterbitkan", inv)
		return
	}
	utils.Success(c, "Invoice sudah ada", inv)
}

type InvoiceStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// PATCH /invoices/:id — override status manual oleh FINANCE/PUSAT.
func InvoiceStatusOverride(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var in InvoiceStatusInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, http.StatusBadRequest, "Payload tidak valid", err)
		return
	}

	target := models.InvoiceStatus(strings.ToUpper(in.Status))
	switch target {
	case models.InvoiceUnpaid, models.InvoicePaid, models.InvoiceOverdue:
	default:
		utils.Error(c, http.StatusBadRequest, "Status invoice tidak valid", nil)
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var inv models.Invoice
		if err := lockForUpdate(tx).First(&inv, id).Error; err != nil {
			return err
		}

		updates := map[string]any{"status": target}
		if target == models.InvoicePaid {
			updates["paid_at"] = time.Now().UTC()
		} else {
			updates["paid_at"] = gorm.Expr("NULL")
		}
		return tx.Model(&inv).Updates(updates).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(c, http.StatusNotFound, "Invoice tidak ditemukan", nil)
			return
		}
		utils.Error(c, http.StatusInternalServerError, "Gagal update invoice", err)
		return
	}

	utils.Success(c, "Status invoice diubah ke "+string(target), nil)
}

// GET /invoices/:id/pdf
func InvoicePDF(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id, _ := strconv.Atoi(c.Param("id"))

	var inv models.Invoice
	if err := config.DB.Preload("BilledTo").Preload("Payments").First(&inv, id).Error; err != nil {
		utils.Error(c, http.StatusNotFound, "Invoice tidak ditemukan", nil)
		return
	}
	if (actor.Role == models.RoleStokis || actor.Role == models.RoleMitra) &&
		inv.BilledToID != actor.ID {
		utils.Error(c, http.StatusForbidden, "Forbidden", nil)
		return
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "D'Fresto - Invoice "+inv.InvoiceNo)
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 11)
	rows := [][2]string{
		{"Ditagihkan ke", inv.BilledTo.FullName},
		{"Order", fmt.Sprintf("%s #%d", inv.OrderType, inv.OrderID)},
		{"Tanggal terbit", inv.CreatedAt.Format("2006-01-02")},
		{"Jatuh tempo", inv.DueDate.Format("2006-01-02")},
		{"Status", string(inv.Status)},
		{"Total", formatRupiah(inv.Amount)},
		{"Terbayar", formatRupiah(inv.PaidAmount)},
		{"Sisa", formatRupiah(inv.Amount - inv.PaidAmount)},
	}
	for _, r := range rows {
		pdf.CellFormat(45, 8, r[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 8, ": "+r[1], "", 1, "L", false, 0, "")
	}

	if len(inv.Payments) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Riwayat Pembayaran")
		pdf.Ln(10)
		pdf.SetFont("Helvetica", "", 10)
		for _, p := range inv.Payments {
			pdf.CellFormat(40, 7, p.PaidAt.Format("2006-01-02"), "B", 0, "L", false, 0, "")
			pdf.CellFormat(50, 7, p.RefNo, "B", 0, "L", false, 0, "")
			pdf.CellFormat(30, 7, p.Method, "B", 0, "L", false, 0, "")
			pdf.CellFormat(0, 7, formatRupiah(p.Amount), "B", 1, "R", false, 0, "")
		}
	}

	c.Header("Content-Disposition", `attachment; filename="`+inv.InvoiceNo+`.pdf"`)
	c.Header("Content-Type", "application/pdf")
	if err := pdf.Output(c.Writer); err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal membuat PDF", err)
	}
}

func formatRupiah(v int64) string {
	s := strconv.FormatInt(v, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := "Rp " + strings.Join(parts, ".")
	if neg {
		out = "-" + out
	}
	return out
}
