package controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/flotoolx/fresto-sub001/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushSubscribeLifecycle(t *testing.T) {
	env := setupEnv(t)
	tok := env.token(t, env.stokis)

	body := `{"endpoint":"https://push.example/abc","keys":{"p256dh":"pkey","auth":"akey"}}`
	w := env.do(t, "POST", "/api/push/subscribe", body, tok)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var sub models.PushSubscription
	require.NoError(t, env.db.Where("endpoint = ?", "https://push.example/abc").First(&sub).Error)
	assert.Equal(t, env.stokis.ID, sub.UserID)

	// endpoint sama didaftarkan ulang oleh user lain: pindah kepemilikan, tetap satu baris
	w = env.do(t, "POST", "/api/push/subscribe", body, env.token(t, env.mitra))
	require.Equal(t, http.StatusOK, w.Code)

	var cnt int64
	env.db.Model(&models.PushSubscription{}).Count(&cnt)
	assert.Equal(t, int64(1), cnt)
	require.NoError(t, env.db.Where("endpoint = ?", "https://push.example/abc").First(&sub).Error)
	assert.Equal(t, env.mitra.ID, sub.UserID)

	w = env.do(t, "DELETE", "/api/push/subscribe", `{"endpoint":"https://push.example/abc"}`, env.token(t, env.mitra))
	require.Equal(t, http.StatusOK, w.Code)
	env.db.Model(&models.PushSubscription{}).Count(&cnt)
	assert.Equal(t, int64(0), cnt)
}

func TestInvoicePDFExport(t *testing.T) {
	env := setupEnv(t)
	inv := issueInvoice(t, env)

	w := env.do(t, "GET", fmt.Sprintf("/api/invoices/%d/pdf", inv.ID), "", env.token(t, env.finance))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, w.Body.Len() > 0)
	assert.Equal(t, "%PDF", w.Body.String()[:4])

	// stokis lain tidak boleh melihat invoice orang
	other := env.createUser(t, "stokis2", models.RoleStokis, nil, nil)
	w = env.do(t, "GET", fmt.Sprintf("/api/invoices/%d/pdf", inv.ID), "", env.token(t, other))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestOrdersXLSXExport(t *testing.T) {
	env := setupEnv(t)
	createStokisOrder(t, env)

	w := env.do(t, "GET", "/api/reports/orders/export", "", env.token(t, env.pusat))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		w.Header().Get("Content-Type"))
	assert.True(t, w.Body.Len() > 0)

	// laporan bukan untuk stokis
	w = env.do(t, "GET", "/api/reports/orders/export", "", env.token(t, env.stokis))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReportsEndpoints(t *testing.T) {
	env := setupEnv(t)
	order := createStokisOrder(t, env)
	require.Equal(t, http.StatusOK, patchStatus(t, env, order.ID, "PO_ISSUED", env.pusat).code)

	tok := env.token(t, env.finance)
	for _, path := range []string{
		"/api/reports/orders",
		"/api/reports/sales",
		"/api/reports/outstanding",
		"/api/reports/products/top",
	} {
		w := env.do(t, "GET", path, "", tok)
		assert.Equal(t, http.StatusOK, w.Code, path+": "+w.Body.String())
	}

	w := env.do(t, "GET", "/api/dashboard", "", env.token(t, env.stokis))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestDashboardScopedForMitra(t *testing.T) {
	env := setupEnv(t)
	createStokisOrder(t, env) // order milik stokis lain, bukan urusan mitra

	type dashboardResp struct {
		Data struct {
			OrdersPerStatus []struct {
				Status string `json:"status"`
				Jumlah int64  `json:"jumlah"`
			} `json:"orders_per_status"`
			OrderValueThisMonth int64 `json:"order_value_this_month"`
		} `json:"data"`
	}

	w := env.do(t, "GET", "/api/dashboard", "", env.token(t, env.mitra))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp dashboardResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data.OrdersPerStatus)
	assert.Equal(t, int64(0), resp.Data.OrderValueThisMonth)

	// order mitra sendiri baru masuk hitungan
	body := fmt.Sprintf(`{"items":[{"product_id":%d,"quantity":2}]}`, env.productA.ID)
	require.Equal(t, http.StatusOK,
		env.do(t, "POST", "/api/orders/mitra/", body, env.token(t, env.mitra)).Code)

	w = env.do(t, "GET", "/api/dashboard", "", env.token(t, env.mitra))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp = dashboardResp{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.OrdersPerStatus, 1)
	assert.Equal(t, string(models.StatusPendingStokis), resp.Data.OrdersPerStatus[0].Status)
	assert.Equal(t, int64(1), resp.Data.OrdersPerStatus[0].Jumlah)
	assert.Equal(t, int64(10000), resp.Data.OrderValueThisMonth)
}
