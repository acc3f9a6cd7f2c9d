package service

import (
	"time"

	"github.com/flotoolx/fresto-sub001/models"

	"gorm.io/gorm"
)

// ===== DTO laporan =====

type OrderRecapRow struct {
	Status     string `json:"status"`
	Jumlah     int64  `json:"jumlah"`
	TotalNilai int64  `json:"total_nilai"`
}

type SalesPerStokisRow struct {
	StokisID   uint   `json:"stokis_id"`
	StokisNama string `json:"stokis_nama"`
	Jumlah     int64  `json:"jumlah_order"`
	TotalNilai int64  `json:"total_nilai"`
}

type OutstandingRow struct {
	InvoiceID  uint      `json:"invoice_id"`
	InvoiceNo  string    `json:"invoice_no"`
	BilledTo   string    `json:"billed_to"`
	Amount     int64     `json:"amount"`
	PaidAmount int64     `json:"paid_amount"`
	Sisa       int64     `json:"sisa"`
	DueDate    time.Time `json:"due_date"`
	UmurHari   int       `json:"umur_hari"` // hari lewat jatuh tempo, 0 kalau belum
}

type TopProductRow struct {
	ProductID  uint   `json:"product_id"`
	Nama       string `json:"nama"`
	TotalQty   int64  `json:"total_qty"`
	TotalNilai int64  `json:"total_nilai"`
}

type OrderReportFilter struct {
	From     *time.Time
	To       *time.Time
	StokisID uint
	GudangID uint
}

// ===== Query =====

func OrderRecap(db *gorm.DB, f OrderReportFilter) ([]OrderRecapRow, error) {
	q := db.Model(&models.StokisOrder{}).
		Select("status, COUNT(*) AS jumlah, COALESCE(SUM(total_amount),0) AS total_nilai").
		Group("status")
	q = applyOrderFilter(q, f)

	var rows []OrderRecapRow
	err := q.Scan(&rows).Error
	return rows, err
}

func SalesPerStokis(db *gorm.DB, f OrderReportFilter) ([]SalesPerStokisRow, error) {
	q := db.Model(&models.StokisOrder{}).
		Select(`stokis_orders.stokis_id,
			users.full_name AS stokis_nama,
			COUNT(*) AS jumlah,
			COALESCE(SUM(stokis_orders.total_amount),0) AS total_nilai`).
		Joins("JOIN users ON users.id = stokis_orders.stokis_id").
		Where("stokis_orders.status NOT IN ?", []models.OrderStatus{models.StatusCancelled}).
		Group("stokis_orders.stokis_id, users.full_name").
		Order("total_nilai DESC")
	q = applyOrderFilter(q, f)

	var rows []SalesPerStokisRow
	err := q.Scan(&rows).Error
	return rows, err
}

func OutstandingInvoices(db *gorm.DB, now time.Time) ([]OutstandingRow, error) {
	var invs []models.Invoice
	err := db.Preload("BilledTo").
		Where("status <> ?", models.InvoicePaid).
		Order("due_date ASC").
		Find(&invs).Error
	if err != nil {
		return nil, err
	}

	rows := make([]OutstandingRow, 0, len(invs))
	for _, inv := range invs {
		age := 0
		if now.After(inv.DueDate) {
			age = int(now.Sub(inv.DueDate).Hours() / 24)
		}
		rows = append(rows, OutstandingRow{
			InvoiceID:  inv.ID,
			InvoiceNo:  inv.InvoiceNo,
			BilledTo:   inv.BilledTo.FullName,
			Amount:     inv.Amount,
			PaidAmount: inv.PaidAmount,
			Sisa:       inv.Amount - inv.PaidAmount,
			DueDate:    inv.DueDate,
			UmurHari:   age,
		})
	}
	return rows, nil
}

func TopProducts(db *gorm.DB, f OrderReportFilter, limit int) ([]TopProductRow, error) {
	if limit <= 0 {
		limit = 10
	}
	q := db.Model(&models.StokisOrderItem{}).
		Select(`stokis_order_items.product_id,
			products.nama,
			COALESCE(SUM(stokis_order_items.quantity),0) AS total_qty,
			COALESCE(SUM(stokis_order_items.subtotal),0) AS total_nilai`).
		Joins("JOIN products ON products.id = stokis_order_items.product_id").
		Joins("JOIN stokis_orders ON stokis_orders.id = stokis_order_items.stokis_order_id").
		Where("stokis_orders.status NOT IN ?", []models.OrderStatus{models.StatusCancelled}).
		Group("stokis_order_items.product_id, products.nama").
		Order("total_qty DESC").
		Limit(limit)
	if f.From != nil {
		q = q.Where("stokis_orders.created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("stokis_orders.created_at < ?", *f.To)
	}

	var rows []TopProductRow
	err := q.Scan(&rows).Error
	return rows, err
}

func applyOrderFilter(q *gorm.DB, f OrderReportFilter) *gorm.DB {
	if f.From != nil {
		q = q.Where("stokis_orders.created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("stokis_orders.created_at < ?", *f.To)
	}
	if f.StokisID != 0 {
		q = q.Where("stokis_orders.stokis_id = ?", f.StokisID)
	}
	if f.GudangID != 0 {
		q = q.Where("stokis_orders.gudang_id = ?", f.GudangID)
	}
	return q
}
