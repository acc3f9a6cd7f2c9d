package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/flotoolx/fresto-sub001/config"
	"github.com/flotoolx/fresto-sub001/service"
	"github.com/flotoolx/fresto-sub001/utils"

	"github.com/gin-gonic/gin"
)

// =============== Helpers ===============

func getInt(c *gin.Context, key string, def int) int {
	v, _ := strconv.Atoi(c.DefaultQuery(key, strconv.Itoa(def)))
	if v <= 0 {
		return def
	}
	return v
}

func parseOrderFilter(c *gin.Context) service.OrderReportFilter {
	var f service.OrderReportFilter
	if s := c.Query("from"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			f.From = &t
		}
	}
	if s := c.Query("to"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			// inclusive sampai akhir hari
			t = t.Add(24 * time.Hour)
			f.To = &t
		}
	}
	if s := c.Query("stokis_id"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			f.StokisID = uint(n)
		}
	}
	if s := c.Query("gudang_id"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			f.GudangID = uint(n)
		}
	}
	return f
}

// =============== Controllers ===============

// GET /reports/orders?from=&to=&stokis_id=&gudang_id=
func ReportOrderRecap(c *gin.Context) {
	rows, err := service.OrderRecap(config.DB, parseOrderFilter(c))
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal membuat laporan", err)
		return
	}
	utils.Success(c, "Laporan rekap order", rows)
}

// GET /reports/sales?from=&to=
func ReportSalesPerStokis(c *gin.Context) {
	rows, err := service.SalesPerStokis(config.DB, parseOrderFilter(c))
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal membuat laporan", err)
		return
	}
	utils.Success(c, "Laporan penjualan per stokis", rows)
}

// GET /reports/outstanding
func ReportOutstanding(c *gin.Context) {
	rows, err := service.OutstandingInvoices(config.DB, time.Now().UTC())
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal membuat laporan", err)
		return
	}
	utils.Success(c, "Laporan invoice outstanding", rows)
}

// GET /reports/products/top?limit=
func ReportTopProducts(c *gin.Context) {
	limit := getInt(c, "limit", 10)
	rows, err := service.TopProducts(config.DB, parseOrderFilter(c), limit)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal membuat laporan", err)
		return
	}
	utils.Success(c, "Laporan produk terlaris", rows)
}
