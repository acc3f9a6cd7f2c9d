package controllers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/flotoolx/fresto-sub001/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issueInvoice(t *testing.T, env *testEnv) models.Invoice {
	t.Helper()
	order := createStokisOrder(t, env) // total 65000
	res := patchStatus(t, env, order.ID, "PO_ISSUED", env.pusat)
	require.Equal(t, http.StatusOK, res.code, res.body)

	var inv models.Invoice
	require.NoError(t, env.db.Where("order_type = ? AND order_id = ?", models.OrderTypeStokis, order.ID).First(&inv).Error)
	return inv
}

func pay(t *testing.T, env *testEnv, invoiceID uint, amount int64, u models.User) *httpResult {
	t.Helper()
	body := fmt.Sprintf(`{"invoice_id":%d,"amount":%d,"method":"TRANSFER"}`, invoiceID, amount)
	w := env.do(t, "POST", "/api/payments/", body, env.token(t, u))
	return &httpResult{code: w.Code, body: w.Body.String()}
}

func TestPartialThenFullPayment(t *testing.T) {
	env := setupEnv(t)
	inv := issueInvoice(t, env)

	res := pay(t, env, inv.ID, 30000, env.finance)
	require.Equal(t, http.StatusOK, res.code, res.body)

	var after models.Invoice
	require.NoError(t, env.db.First(&after, inv.ID).Error)
	assert.Equal(t, int64(30000), after.PaidAmount)
	assert.Equal(t, models.InvoiceUnpaid, after.Status)
	assert.Nil(t, after.PaidAt)

	res = pay(t, env, inv.ID, 35000, env.finance)
	require.Equal(t, http.StatusOK, res.code, res.body)

	require.NoError(t, env.db.First(&after, inv.ID).Error)
	assert.Equal(t, int64(65000), after.PaidAmount)
	assert.Equal(t, models.InvoicePaid, after.Status)
	assert.NotNil(t, after.PaidAt)

	// invoice lunas menolak pembayaran lagi
	res = pay(t, env, inv.ID, 1000, env.finance)
	assert.Equal(t, http.StatusBadRequest, res.code)
}

func TestOverpayRejectedBeforeWrite(t *testing.T) {
	env := setupEnv(t)
	inv := issueInvoice(t, env)

	require.Equal(t, http.StatusOK, pay(t, env, inv.ID, 30000, env.finance).code)

	// sisa 35000, bayar 40000 harus ditolak tanpa write
	res := pay(t, env, inv.ID, 40000, env.finance)
	assert.Equal(t, http.StatusBadRequest, res.code)

	var after models.Invoice
	require.NoError(t, env.db.First(&after, inv.ID).Error)
	assert.Equal(t, int64(30000), after.PaidAmount)
	assert.Equal(t, models.InvoiceUnpaid, after.Status)

	var cnt int64
	env.db.Model(&models.Payment{}).Where("invoice_id = ?", inv.ID).Count(&cnt)
	assert.Equal(t, int64(1), cnt)

	// paid_amount tidak pernah melebihi amount
	assert.LessOrEqual(t, after.PaidAmount, after.Amount)
}

func TestPaymentRoleGate(t *testing.T) {
	env := setupEnv(t)
	inv := issueInvoice(t, env)

	res := pay(t, env, inv.ID, 1000, env.stokis)
	assert.Equal(t, http.StatusForbidden, res.code)

	body := `{"invoice_id":1,"amount":0,"method":"TRANSFER"}`
	w := env.do(t, "POST", "/api/payments/", body, env.token(t, env.finance))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, "POST", "/api/payments/",
		fmt.Sprintf(`{"invoice_id":%d,"amount":500,"method":"PULSA"}`, inv.ID),
		env.token(t, env.finance))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeletePaymentRecomputesStatus(t *testing.T) {
	env := setupEnv(t)
	inv := issueInvoice(t, env)

	require.Equal(t, http.StatusOK, pay(t, env, inv.ID, 65000, env.finance).code)

	var paid models.Invoice
	require.NoError(t, env.db.First(&paid, inv.ID).Error)
	require.Equal(t, models.InvoicePaid, paid.Status)

	var p models.Payment
	require.NoError(t, env.db.Where("invoice_id = ?", inv.ID).First(&p).Error)

	w := env.do(t, "DELETE", fmt.Sprintf("/api/payments/%d", p.ID), "", env.token(t, env.finance))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var after models.Invoice
	require.NoError(t, env.db.First(&after, inv.ID).Error)
	assert.Equal(t, int64(0), after.PaidAmount)
	assert.Equal(t, models.InvoiceUnpaid, after.Status)
	assert.Nil(t, after.PaidAt)
}

func TestDeletePaymentGoesOverdueAfterDueDate(t *testing.T) {
	env := setupEnv(t)
	inv := issueInvoice(t, env)

	// mundurkan jatuh tempo ke masa lalu
	past := time.Now().UTC().Add(-48 * time.Hour)
	require.NoError(t, env.db.Model(&models.Invoice{}).Where("id = ?", inv.ID).
		Update("due_date", past).Error)

	require.Equal(t, http.StatusOK, pay(t, env, inv.ID, 65000, env.finance).code)

	var p models.Payment
	require.NoError(t, env.db.Where("invoice_id = ?", inv.ID).First(&p).Error)

	w := env.do(t, "DELETE", fmt.Sprintf("/api/payments/%d", p.ID), "", env.token(t, env.finance))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var after models.Invoice
	require.NoError(t, env.db.First(&after, inv.ID).Error)
	assert.Equal(t, models.InvoiceOverdue, after.Status)
	assert.Nil(t, after.PaidAt)
}

func TestDeleteOnePaymentOfSeveral(t *testing.T) {
	env := setupEnv(t)
	inv := issueInvoice(t, env)

	require.Equal(t, http.StatusOK, pay(t, env, inv.ID, 30000, env.finance).code)
	require.Equal(t, http.StatusOK, pay(t, env, inv.ID, 35000, env.finance).code)

	var second models.Payment
	require.NoError(t, env.db.Where("invoice_id = ? AND amount = ?", inv.ID, int64(35000)).First(&second).Error)

	w := env.do(t, "DELETE", fmt.Sprintf("/api/payments/%d", second.ID), "", env.token(t, env.finance))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var after models.Invoice
	require.NoError(t, env.db.First(&after, inv.ID).Error)
	assert.Equal(t, int64(30000), after.PaidAmount)
	assert.Equal(t, models.InvoiceUnpaid, after.Status)
}
