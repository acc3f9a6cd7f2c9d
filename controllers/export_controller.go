package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/flotoolx/fresto-sub001/config"
	"github.com/flotoolx/fresto-sub001/models"
	"github.com/flotoolx/fresto-sub001/service"
	"github.com/flotoolx/fresto-sub001/utils"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const xlsxMime = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GET /reports/orders/export — rekap order stokis sebagai xlsx.
func ExportOrdersXLSX(c *gin.Context) {
	f := parseOrderFilter(c)

	q := config.DB.Preload("Stokis").Preload("Gudang").Order("id ASC")
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}
	if f.StokisID != 0 {
		q = q.Where("stokis_id = ?", f.StokisID)
	}
	if f.GudangID != 0 {
		q = q.Where("gudang_id = ?", f.GudangID)
	}

	var orders []models.StokisOrder
	if err := q.Find(&orders).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal mengambil data", err)
		return
	}

	xf := excelize.NewFile()
	defer xf.Close()

	sheet := "Orders"
	xf.SetSheetName(xf.GetSheetName(0), sheet)

	headers := []string{"No Order", "Stokis", "Gudang", "Status", "Total", "Dibuat", "PO Terbit", "Diterima"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		xf.SetCellValue(sheet, cell, h)
	}

	fmtDate := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02")
	}

	for r, o := range orders {
		values := []any{
			o.OrderNo,
			o.Stokis.FullName,
			o.Gudang.Nama,
			string(o.Status),
			o.TotalAmount,
			o.CreatedAt.Format("2006-01-02"),
			fmtDate(o.PoIssuedAt),
			fmtDate(o.ReceivedAt),
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			xf.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", xlsxMime)
	if err := xf.Write(c.Writer); err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal menulis file", err)
	}
}

// GET /reports/outstanding/export — invoice belum lunas sebagai xlsx.
func ExportOutstandingXLSX(c *gin.Context) {
	rows, err := service.OutstandingInvoices(config.DB, time.Now().UTC())
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal mengambil data", err)
		return
	}

	xf := excelize.NewFile()
	defer xf.Close()

	sheet := "Outstanding"
	xf.SetSheetName(xf.GetSheetName(0), sheet)

	headers := []string{"No Invoice", "Ditagihkan ke", "Total", "Terbayar", "Sisa", "Jatuh Tempo", "Umur (hari)"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		xf.SetCellValue(sheet, cell, h)
	}

	for r, row := range rows {
		values := []any{
			row.InvoiceNo,
			row.BilledTo,
			row.Amount,
			row.PaidAmount,
			row.Sisa,
			row.DueDate.Format("2006-01-02"),
			row.UmurHari,
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			xf.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("outstanding-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", xlsxMime)
	if err := xf.Write(c.Writer); err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal menulis file", err)
	}
}
