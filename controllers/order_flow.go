package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/flotoolx/fresto-sub001/models"
	"github.com/flotoolx/fresto-sub001/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	errNotFound      = errors.New("NOT_FOUND")
	errForbidden     = errors.New("FORBIDDEN")
	errOrderFinal    = errors.New("ORDER_FINAL")
	errNotAdjustable = errors.New("NOT_ADJUSTABLE")
)

// transitionError menyebutkan status asal dan tujuan di pesan 400-nya.
type transitionError struct {
	from, to models.OrderStatus
}

func (e *transitionError) Error() string {
	return fmt.Sprintf("tidak bisa ubah status dari %s ke %s", e.from, e.to)
}

func badTransition(cur, target models.OrderStatus) error {
	return &transitionError{from: cur, to: target}
}

type stockError struct {
	msg string
}

func (e *stockError) Error() string { return e.msg }

// respondFlowError memetakan error transaksi order ke kode HTTP.
func respondFlowError(c *gin.Context, err error) {
	var te *transitionError
	var se *stockError

	switch {
	case errors.Is(err, errNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		utils.Error(c, http.StatusNotFound, "Order tidak ditemukan", nil)
	case errors.Is(err, errForbidden):
		utils.Error(c, http.StatusForbidden, "Forbidden", nil)
	case errors.Is(err, errOrderFinal):
		utils.Error(c, http.StatusBadRequest, "Order sudah final dan tidak bisa diubah", nil)
	case errors.As(err, &te):
		utils.Error(c, http.StatusBadRequest, te.Error(), nil)
	case errors.Is(err, errNotAdjustable):
		utils.Error(c, http.StatusBadRequest, "Order sudah tidak bisa di-adjust", nil)
	case errors.As(err, &se):
		utils.Error(c, http.StatusBadRequest, se.Error(), nil)
	default:
		utils.Error(c, http.StatusInternalServerError, "Gagal memproses order", err)
	}
}

// ensureInvoice: idempoten per (orderType, orderID). Panggilan kedua mengembalikan
// invoice yang sudah ada tanpa mengubah apa pun.
func ensureInvoice(tx *gorm.DB, orderType string, orderID uint, billedToID uint, amount int64, now time.Time) (models.Invoice, bool, error) {
	var inv models.Invoice
	err := tx.Where("order_type = ? AND order_id = ?", orderType, orderID).First(&inv).Error
	if err == nil {
		return inv, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return inv, false, err
	}

	var seq int64
	if err := tx.Model(&models.Invoice{}).Count(&seq).Error; err != nil {
		return inv, false, err
	}

	// nomor dari hitungan baris bisa tabrakan dengan penerbitan lain; coba nomor
	// berikutnya lewat savepoint sampai lolos unique index
	for attempt := 0; attempt < 3; attempt++ {
		seq++
		inv = models.Invoice{
			InvoiceNo:  utils.GenInvoiceNo(seq, now),
			OrderType:  orderType,
			OrderID:    orderID,
			BilledToID: billedToID,
			Amount:     amount,
			PaidAmount: 0,
			Status:     models.InvoiceUnpaid,
			DueDate:    now.Add(14 * 24 * time.Hour),
		}
		err = tx.Transaction(func(tx2 *gorm.DB) error {
			return tx2.Create(&inv).Error
		})
		if err == nil {
			return inv, true, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return inv, false, err
		}
	}
	return inv, false, err
}

// shipStokisOrder mengurangi stok gudang per item order + mencatat mutasinya.
// Stok kurang -> seluruh transaksi batal.
func shipStokisOrder(tx *gorm.DB, order *models.StokisOrder, actorID uint) error {
	for _, it := range order.Items {
		var st models.Stock
		err := lockForUpdate(tx).
			Where("gudang_id = ? AND product_id = ?", order.GudangID, it.ProductID).
			First(&st).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &stockError{msg: fmt.Sprintf("produk %d tidak ada di gudang", it.ProductID)}
		}
		if err != nil {
			return err
		}
		if st.Qty < it.Quantity {
			return &stockError{msg: fmt.Sprintf("produk %d stok %d, butuh %d",
				it.ProductID, st.Qty, it.Quantity)}
		}

		newQty := st.Qty - it.Quantity
		if err := tx.Model(&st).Update("qty", newQty).Error; err != nil {
			return err
		}

		mv := models.StockMovement{
			StockID: st.ID,
			OldQty:  st.Qty,
			NewQty:  newQty,
			Selisih: -it.Quantity,
			Alasan:  "Pengiriman " + order.OrderNo,
			RefType: "STOKIS_ORDER",
			RefID:   order.ID,
			ActorID: actorID,
		}
		if err := tx.Create(&mv).Error; err != nil {
			return err
		}
	}
	return nil
}

func appendNote(old, actor, text string) string {
	line := fmt.Sprintf("[%s] %s: %s", time.Now().UTC().Format("2006-01-02 15:04"), actor, text)
	if old == "" {
		return line
	}
	return old + "\n" + line
}
