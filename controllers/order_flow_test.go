package controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/flotoolx/fresto-sub001/models"
	"github.com/flotoolx/fresto-sub001/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createStokisOrder(t *testing.T, env *testEnv) models.StokisOrder {
	t.Helper()
	body := fmt.Sprintf(
		`{"gudang_id":%d,"items":[{"product_id":%d,"quantity":10},{"product_id":%d,"quantity":5}]}`,
		env.gudang.ID, env.productA.ID, env.productB.ID,
	)
	w := env.do(t, "POST", "/api/orders/stokis/", body, env.token(t, env.stokis))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var order models.StokisOrder
	require.NoError(t, env.db.Preload("Items").Order("id DESC").First(&order).Error)
	return order
}

func patchStatus(t *testing.T, env *testEnv, orderID uint, status string, u models.User) *httpResult {
	t.Helper()
	body := fmt.Sprintf(`{"action":"status","status":"%s"}`, status)
	w := env.do(t, "PATCH", fmt.Sprintf("/api/orders/stokis/%d", orderID), body, env.token(t, u))
	return &httpResult{code: w.Code, body: w.Body.String()}
}

type httpResult struct {
	code int
	body string
}

func TestCreateStokisOrderComputesTotal(t *testing.T) {
	env := setupEnv(t)
	order := createStokisOrder(t, env)

	// 10 x 5000 + 5 x 3000
	assert.Equal(t, int64(65000), order.TotalAmount)
	assert.Equal(t, models.StatusPendingPusat, order.Status)
	assert.Len(t, order.Items, 2)
	assert.Contains(t, order.OrderNo, "SO-")

	var sum int64
	for _, it := range order.Items {
		sum += it.Price * it.Quantity
	}
	assert.Equal(t, order.TotalAmount, sum)
}

func TestPOIssuedCreatesInvoiceOnce(t *testing.T) {
	env := setupEnv(t)
	order := createStokisOrder(t, env)

	res := patchStatus(t, env, order.ID, "PO_ISSUED", env.pusat)
	require.Equal(t, http.StatusOK, res.code, res.body)

	var invs []models.Invoice
	require.NoError(t, env.db.Where("order_type = ? AND order_id = ?", models.OrderTypeStokis, order.ID).Find(&invs).Error)
	require.Len(t, invs, 1)

	inv := invs[0]
	assert.Equal(t, int64(65000), inv.Amount)
	assert.Equal(t, models.InvoiceUnpaid, inv.Status)
	assert.Equal(t, order.StokisID, inv.BilledToID)
	assert.Contains(t, inv.InvoiceNo, "INV-")

	due := inv.CreatedAt.Add(14 * 24 * time.Hour)
	assert.WithinDuration(t, due, inv.DueDate, time.Minute)

	// penerbitan manual untuk order yang sama tidak boleh menduplikasi
	body := fmt.Sprintf(`{"order_type":"STOKIS","order_id":%d}`, order.ID)
	w := env.do(t, "POST", "/api/invoices/", body, env.token(t, env.finance))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var cnt int64
	env.db.Model(&models.Invoice{}).Where("order_type = ? AND order_id = ?", models.OrderTypeStokis, order.ID).Count(&cnt)
	assert.Equal(t, int64(1), cnt)

	var after models.StokisOrder
	require.NoError(t, env.db.First(&after, order.ID).Error)
	assert.Equal(t, models.StatusPOIssued, after.Status)
	assert.NotNil(t, after.PoIssuedAt)
}

func TestTransitionRejections(t *testing.T) {
	env := setupEnv(t)
	order := createStokisOrder(t, env)

	// status asing
	res := patchStatus(t, env, order.ID, "DELIVERED", env.pusat)
	assert.Equal(t, http.StatusBadRequest, res.code)

	// role tidak ada di tabel untuk target ini
	res = patchStatus(t, env, order.ID, "PO_ISSUED", env.gudangUser)
	assert.Equal(t, http.StatusForbidden, res.code)

	// sumber tidak sah: PROCESSING hanya dari PO_ISSUED
	res = patchStatus(t, env, order.ID, "PROCESSING", env.gudangUser)
	assert.Equal(t, http.StatusBadRequest, res.code)
	assert.Contains(t, res.body, "PENDING_PUSAT")
	assert.Contains(t, res.body, "PROCESSING")

	// terbitkan PO dulu, lalu stokis coba langsung RECEIVED (lompati SHIPPED)
	res = patchStatus(t, env, order.ID, "PO_ISSUED", env.pusat)
	require.Equal(t, http.StatusOK, res.code, res.body)

	res = patchStatus(t, env, order.ID, "RECEIVED", env.stokis)
	assert.Equal(t, http.StatusBadRequest, res.code)
	assert.Contains(t, res.body, "PO_ISSUED")
	assert.Contains(t, res.body, "RECEIVED")

	// setelah PO terbit pembatalan lewat jalur tabel juga ditolak
	res = patchStatus(t, env, order.ID, "CANCELLED", env.finance)
	assert.Equal(t, http.StatusBadRequest, res.code)

	// state tidak berubah oleh percobaan yang gagal
	var after models.StokisOrder
	require.NoError(t, env.db.First(&after, order.ID).Error)
	assert.Equal(t, models.StatusPOIssued, after.Status)
}

func TestStokisOwnershipEnforced(t *testing.T) {
	env := setupEnv(t)
	order := createStokisOrder(t, env)

	other := env.createUser(t, "stokis2", models.RoleStokis, nil, nil)

	// stokis lain tidak boleh membatalkan order ini
	res := patchStatus(t, env, order.ID, "CANCELLED", other)
	assert.Equal(t, http.StatusForbidden, res.code)

	// pemiliknya boleh
	res = patchStatus(t, env, order.ID, "CANCELLED", env.stokis)
	require.Equal(t, http.StatusOK, res.code, res.body)

	var after models.StokisOrder
	require.NoError(t, env.db.First(&after, order.ID).Error)
	assert.Equal(t, models.StatusCancelled, after.Status)
	assert.NotNil(t, after.CancelledAt)

	// order final tidak bisa dihidupkan lagi
	res = patchStatus(t, env, order.ID, "PO_ISSUED", env.pusat)
	assert.Equal(t, http.StatusBadRequest, res.code)
}

func TestGudangOwnershipEnforced(t *testing.T) {
	env := setupEnv(t)
	order := createStokisOrder(t, env)
	require.Equal(t, http.StatusOK, patchStatus(t, env, order.ID, "PO_ISSUED", env.pusat).code)

	gudangLain := models.Gudang{Nama: "Gudang Timur", Kode: "GT-01", Lokasi: "Surabaya"}
	require.NoError(t, env.db.Create(&gudangLain).Error)
	outsider := env.createUser(t, "gudang2", models.RoleGudang, nil, &gudangLain.ID)

	// user gudang lain tidak boleh memproses order untuk gudang ini
	res := patchStatus(t, env, order.ID, "PROCESSING", outsider)
	assert.Equal(t, http.StatusForbidden, res.code)

	var after models.StokisOrder
	require.NoError(t, env.db.First(&after, order.ID).Error)
	assert.Equal(t, models.StatusPOIssued, after.Status)

	// gudang yang ditunjuk order boleh
	require.Equal(t, http.StatusOK, patchStatus(t, env, order.ID, "PROCESSING", env.gudangUser).code)
}

func TestOrderNoCollisionRetries(t *testing.T) {
	env := setupEnv(t)

	// baris lama memakai nomor yang bakal dihasilkan hitungan berikutnya
	seed := models.StokisOrder{
		OrderNo:  utils.GenStokisOrderNo(2, time.Now().UTC()),
		StokisID: env.stokis.ID,
		GudangID: env.gudang.ID,
		Status:   models.StatusPendingPusat,
	}
	require.NoError(t, env.db.Create(&seed).Error)

	order := createStokisOrder(t, env)
	assert.NotEqual(t, seed.OrderNo, order.OrderNo)
	assert.Equal(t, utils.GenStokisOrderNo(3, time.Now().UTC()), order.OrderNo)
	assert.Len(t, order.Items, 2)
}

func TestInvoiceNoCollisionRetries(t *testing.T) {
	env := setupEnv(t)
	now := time.Now().UTC()

	other := models.Invoice{
		InvoiceNo:  utils.GenInvoiceNo(2, now),
		OrderType:  models.OrderTypeMitra,
		OrderID:    999,
		BilledToID: env.mitra.ID,
		Amount:     1000,
		Status:     models.InvoiceUnpaid,
		DueDate:    now,
	}
	require.NoError(t, env.db.Create(&other).Error)

	order := createStokisOrder(t, env)
	res := patchStatus(t, env, order.ID, "PO_ISSUED", env.pusat)
	require.Equal(t, http.StatusOK, res.code, res.body)

	var inv models.Invoice
	require.NoError(t, env.db.Where("order_type = ? AND order_id = ?", models.OrderTypeStokis, order.ID).First(&inv).Error)
	assert.Equal(t, utils.GenInvoiceNo(3, now), inv.InvoiceNo)
}

func TestAdjustRecomputesTotalAndKeepsStatus(t *testing.T) {
	env := setupEnv(t)
	order := createStokisOrder(t, env)

	var itemA, itemB models.StokisOrderItem
	for _, it := range order.Items {
		if it.ProductID == env.productA.ID {
			itemA = it
		} else {
			itemB = it
		}
	}

	// qty item A 10 -> 4, item B dihapus (qty 0)
	body := fmt.Sprintf(
		`{"action":"adjust","items":[{"item_id":%d,"quantity":4},{"item_id":%d,"quantity":0}],"note":"stok mepet"}`,
		itemA.ID, itemB.ID,
	)
	w := env.do(t, "PATCH", fmt.Sprintf("/api/orders/stokis/%d", order.ID), body, env.token(t, env.finance))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var after models.StokisOrder
	require.NoError(t, env.db.Preload("Items").First(&after, order.ID).Error)

	assert.Equal(t, int64(20000), after.TotalAmount) // 4 x 5000
	require.Len(t, after.Items, 1)
	assert.Equal(t, int64(4), after.Items[0].Quantity)

	// adjust tidak menyetujui: status tetap pending, tanpa invoice
	assert.Equal(t, models.StatusPendingPusat, after.Status)
	var cnt int64
	env.db.Model(&models.Invoice{}).Count(&cnt)
	assert.Equal(t, int64(0), cnt)
	assert.Contains(t, after.Notes, "stok mepet")
}

func TestAdjustRejectedForWrongRoleOrState(t *testing.T) {
	env := setupEnv(t)
	order := createStokisOrder(t, env)
	itemID := order.Items[0].ID

	body := fmt.Sprintf(`{"action":"adjust","items":[{"item_id":%d,"quantity":3}]}`, itemID)

	// gudang tidak termasuk role adjust
	w := env.do(t, "PATCH", fmt.Sprintf("/api/orders/stokis/%d", order.ID), body, env.token(t, env.gudangUser))
	assert.Equal(t, http.StatusForbidden, w.Code)

	// setelah PO terbit, adjust ditolak
	res := patchStatus(t, env, order.ID, "PO_ISSUED", env.pusat)
	require.Equal(t, http.StatusOK, res.code, res.body)

	w = env.do(t, "PATCH", fmt.Sprintf("/api/orders/stokis/%d", order.ID), body, env.token(t, env.finance))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestShippedDecrementsStock(t *testing.T) {
	env := setupEnv(t)

	require.NoError(t, env.db.Create(&models.Stock{
		GudangID: env.gudang.ID, ProductID: env.productA.ID, Qty: 20, MinQty: 2,
	}).Error)
	require.NoError(t, env.db.Create(&models.Stock{
		GudangID: env.gudang.ID, ProductID: env.productB.ID, Qty: 5, MinQty: 2,
	}).Error)

	order := createStokisOrder(t, env) // 10x A, 5x B

	require.Equal(t, http.StatusOK, patchStatus(t, env, order.ID, "PO_ISSUED", env.pusat).code)
	require.Equal(t, http.StatusOK, patchStatus(t, env, order.ID, "PROCESSING", env.gudangUser).code)

	res := patchStatus(t, env, order.ID, "SHIPPED", env.gudangUser)
	require.Equal(t, http.StatusOK, res.code, res.body)

	var stA, stB models.Stock
	require.NoError(t, env.db.Where("gudang_id = ? AND product_id = ?", env.gudang.ID, env.productA.ID).First(&stA).Error)
	require.NoError(t, env.db.Where("gudang_id = ? AND product_id = ?", env.gudang.ID, env.productB.ID).First(&stB).Error)
	assert.Equal(t, int64(10), stA.Qty)
	assert.Equal(t, int64(0), stB.Qty)

	var movements int64
	env.db.Model(&models.StockMovement{}).Where("ref_type = ? AND ref_id = ?", "STOKIS_ORDER", order.ID).Count(&movements)
	assert.Equal(t, int64(2), movements)

	// stokis menerima barang
	res = patchStatus(t, env, order.ID, "RECEIVED", env.stokis)
	require.Equal(t, http.StatusOK, res.code, res.body)

	var after models.StokisOrder
	require.NoError(t, env.db.First(&after, order.ID).Error)
	assert.NotNil(t, after.ShippedAt)
	assert.NotNil(t, after.ReceivedAt)
}

func TestShippedRejectedOnInsufficientStock(t *testing.T) {
	env := setupEnv(t)

	require.NoError(t, env.db.Create(&models.Stock{
		GudangID: env.gudang.ID, ProductID: env.productA.ID, Qty: 3, MinQty: 1,
	}).Error)
	require.NoError(t, env.db.Create(&models.Stock{
		GudangID: env.gudang.ID, ProductID: env.productB.ID, Qty: 99, MinQty: 1,
	}).Error)

	order := createStokisOrder(t, env)
	require.Equal(t, http.StatusOK, patchStatus(t, env, order.ID, "PO_ISSUED", env.pusat).code)
	require.Equal(t, http.StatusOK, patchStatus(t, env, order.ID, "PROCESSING", env.gudangUser).code)

	res := patchStatus(t, env, order.ID, "SHIPPED", env.gudangUser)
	assert.Equal(t, http.StatusBadRequest, res.code)

	// transaksi batal utuh: status tetap, stok tidak berubah
	var after models.StokisOrder
	require.NoError(t, env.db.First(&after, order.ID).Error)
	assert.Equal(t, models.StatusProcessing, after.Status)

	var st models.Stock
	require.NoError(t, env.db.Where("gudang_id = ? AND product_id = ?", env.gudang.ID, env.productB.ID).First(&st).Error)
	assert.Equal(t, int64(99), st.Qty)
}

func TestMitraOrderLifecycle(t *testing.T) {
	env := setupEnv(t)

	body := fmt.Sprintf(`{"items":[{"product_id":%d,"quantity":2}]}`, env.productA.ID)
	w := env.do(t, "POST", "/api/orders/mitra/", body, env.token(t, env.mitra))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var order models.MitraOrder
	require.NoError(t, env.db.Preload("Items").First(&order).Error)
	assert.Equal(t, models.StatusPendingStokis, order.Status)
	assert.Equal(t, int64(10000), order.TotalAmount)
	assert.Equal(t, env.stokis.ID, order.StokisID)

	patch := func(status string, u models.User) *httpResult {
		b := fmt.Sprintf(`{"action":"status","status":"%s"}`, status)
		w := env.do(t, "PATCH", fmt.Sprintf("/api/orders/mitra/%d", order.ID), b, env.token(t, u))
		return &httpResult{code: w.Code, body: w.Body.String()}
	}

	// mitra tidak boleh mengkonfirmasi ordernya sendiri
	assert.Equal(t, http.StatusForbidden, patch("PROCESSING", env.mitra).code)

	// stokis konfirmasi -> invoice mitra terbit
	res := patch("PROCESSING", env.stokis)
	require.Equal(t, http.StatusOK, res.code, res.body)

	var inv models.Invoice
	require.NoError(t, env.db.Where("order_type = ? AND order_id = ?", models.OrderTypeMitra, order.ID).First(&inv).Error)
	assert.Equal(t, int64(10000), inv.Amount)
	assert.Equal(t, env.mitra.ID, inv.BilledToID)

	// lompat langsung RECEIVED ditolak
	res = patch("RECEIVED", env.mitra)
	assert.Equal(t, http.StatusBadRequest, res.code)
	assert.Contains(t, res.body, "PROCESSING")

	require.Equal(t, http.StatusOK, patch("SHIPPED", env.stokis).code)
	require.Equal(t, http.StatusOK, patch("RECEIVED", env.mitra).code)

	// final
	assert.Equal(t, http.StatusBadRequest, patch("CANCELLED", env.mitra).code)
}

func TestOrderListScopedByRole(t *testing.T) {
	env := setupEnv(t)
	createStokisOrder(t, env)

	other := env.createUser(t, "stokis2", models.RoleStokis, nil, nil)

	w := env.do(t, "GET", "/api/orders/stokis/", "", env.token(t, other))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.StokisOrder `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data)

	w = env.do(t, "GET", "/api/orders/stokis/", "", env.token(t, env.stokis))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)

	// tanpa token
	w = env.do(t, "GET", "/api/orders/stokis/", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
