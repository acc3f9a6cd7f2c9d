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
	"gorm.io/gorm"
)

type OrderItemInput struct {
	ProductID uint  `json:"product_id" binding:"required"`
	Quantity  int64 `json:"quantity" binding:"required,gt=0"`
}

type CreateStokisOrderInput struct {
	GudangID uint             `json:"gudang_id" binding:"required"`
	Items    []OrderItemInput `json:"items" binding:"required,min=1"`
	Notes    string           `json:"notes"`
}

// POST /orders/stokis
func CreateStokisOrder(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var in CreateStokisOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, http.StatusBadRequest, "Payload tidak valid", err)
		return
	}

	var cnt int64
	if err := config.DB.Model(&models.Gudang{}).Where("id = ?", in.GudangID).Count(&cnt).Error; err != nil || cnt == 0 {
		utils.Error(c, http.StatusBadRequest, "Gudang tidak ditemukan", nil)
		return
	}

	var order models.StokisOrder
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		items := make([]models.StokisOrderItem, 0, len(in.Items))
		var total int64
		for _, it := range in.Items {
			var p models.Product
			if err := tx.Where("id = ? AND is_active = ?", it.ProductID, true).First(&p).Error; err != nil {
				return fmt.Errorf("produk %d tidak ditemukan atau nonaktif", it.ProductID)
			}
			sub := p.Price * it.Quantity
			total += sub
			items = append(items, models.StokisOrderItem{
				ProductID: p.ID,
				Quantity:  it.Quantity,
				Price:     p.Price,
				Subtotal:  sub,
			})
		}

		var seq int64
		if err := tx.Model(&models.StokisOrder{}).Count(&seq).Error; err != nil {
			return err
		}

		// nomor tabrakan dengan order lain: maju ke nomor berikutnya lewat savepoint
		var err error
		for attempt := 0; attempt < 3; attempt++ {
			seq++
			rowItems := make([]models.StokisOrderItem, len(items))
			copy(rowItems, items)

			order = models.StokisOrder{
				OrderNo:     utils.GenStokisOrderNo(seq, now),
				StokisID:    actor.ID,
				GudangID:    in.GudangID,
				Status:      models.StatusPendingPusat,
				TotalAmount: total,
				Notes:       in.Notes,
				Items:       rowItems,
			}
			err = tx.Transaction(func(tx2 *gorm.DB) error {
				return tx2.Create(&order).Error
			})
			if err == nil || !errors.Is(err, gorm.ErrDuplicatedKey) {
				return err
			}
		}
		return err
	})
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "Gagal membuat order", err)
		return
	}

	notify.ToRole(models.RolePusat, notify.Payload{
		Title: "PO stokis baru",
		Body:  fmt.Sprintf("%s menunggu persetujuan (%s)", order.OrderNo, actor.Nama),
		URL:   "/orders/stokis/" + strconv.Itoa(int(order.ID)),
	})

	utils.Success(c, "Order dibuat", order)
}

// GET /orders/stokis?status=
func ListStokisOrders(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	q := config.DB.Preload("Items").Preload("Gudang").Preload("Stokis").Order("id DESC")

	switch actor.Role {
	case models.RolePusat, models.RoleFinance, models.RoleDC:
	case models.RoleGudang:
		var u models.User
		if err := config.DB.First(&u, actor.ID).Error; err != nil || u.GudangID == nil {
			utils.Error(c, http.StatusForbidden, "User gudang belum ditautkan ke gudang", nil)
			return
		}
		q = q.Where("gudang_id = ?", *u.GudangID)
	case models.RoleStokis:
		q = q.Where("stokis_id = ?", actor.ID)
	default:
		utils.Error(c, http.StatusForbidden, "Role tidak diizinkan", nil)
		return
	}

	if st := c.Query("status"); st != "" {
		q = q.Where("status = ?", strings.ToUpper(st))
	}

	var rows []models.StokisOrder
	if err := q.Find(&rows).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal mengambil order", err)
		return
	}
	utils.Success(c, "Berhasil mengambil order", rows)
}

// GET /orders/stokis/:id
func StokisOrderDetail(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id, _ := strconv.Atoi(c.Param("id"))

	var order models.StokisOrder
	if err := config.DB.Preload("Items.Product").Preload("Gudang").Preload("Stokis").
		First(&order, id).Error; err != nil {
		utils.Error(c, http.StatusNotFound, "Order tidak ditemukan", nil)
		return
	}

	if actor.Role == models.RoleStokis && order.StokisID != actor.ID {
		utils.Error(c, http.StatusForbidden, "Forbidden", nil)
		return
	}

	utils.Success(c, "Berhasil mengambil order", order)
}

type AdjustItemInput struct {
	ItemID   uint  `json:"item_id" binding:"required"`
	Quantity int64 `json:"quantity"` // 0 = hapus item
}

type PatchOrderInput struct {
	Action string            `json:"action" binding:"required"` // status | adjust
	Status string            `json:"status"`
	Items  []AdjustItemInput `json:"items"`
	Note   string            `json:"note"`
}

// PATCH /orders/stokis/:id — dua operasi terpisah: ganti status, atau adjust item.
// Adjust tidak pernah mengubah status.
func PatchStokisOrder(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id, _ := strconv.Atoi(c.Param("id"))

	var in PatchOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, http.StatusBadRequest, "Payload tidak valid", err)
		return
	}

	switch in.Action {
	case "status":
		stokisOrderStatusChange(c, actor, uint(id), in)
	case "adjust":
		stokisOrderAdjust(c, actor, uint(id), in)
	default:
		utils.Error(c, http.StatusBadRequest, "Action tidak dikenal (status/adjust)", nil)
	}
}

func stokisOrderStatusChange(c *gin.Context, actor Actor, id uint, in PatchOrderInput) {
	target := models.OrderStatus(strings.ToUpper(in.Status))

	rule, ok := models.StokisOrderRule(target)
	if !ok {
		utils.Error(c, http.StatusBadRequest, "Status tidak valid: "+string(target), nil)
		return
	}
	if !rule.RoleAllowed(actor.Role) {
		utils.Error(c, http.StatusForbidden, "Role tidak boleh mengubah ke status ini", nil)
		return
	}

	var order models.StokisOrder
	var invoiceCreated bool

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).Preload("Items").First(&order, id).Error; err != nil {
			return err
		}

		// kepemilikan: stokis hanya order sendiri, gudang hanya gudangnya
		switch actor.Role {
		case models.RoleStokis:
			if order.StokisID != actor.ID {
				return errForbidden
			}
		case models.RoleGudang:
			var u models.User
			if err := tx.First(&u, actor.ID).Error; err != nil {
				return err
			}
			if u.GudangID == nil || *u.GudangID != order.GudangID {
				return errForbidden
			}
		}

		if models.IsFinalStatus(order.Status) {
			return errOrderFinal
		}
		if !rule.FromAllowed(order.Status) {
			return badTransition(order.Status, target)
		}

		now := time.Now().UTC()
		updates := map[string]any{"status": target}
		switch target {
		case models.StatusPendingFinance:
			updates["forwarded_at"] = now
		case models.StatusPOIssued:
			updates["po_issued_at"] = now
		case models.StatusProcessing:
			updates["processed_at"] = now
		case models.StatusShipped:
			updates["shipped_at"] = now
		case models.StatusReceived:
			updates["received_at"] = now
		case models.StatusCancelled:
			updates["cancelled_at"] = now
		}
		if in.Note != "" {
			updates["notes"] = appendNote(order.Notes, actor.Nama, in.Note)
		}

		// idempotent flip: hanya kalau status di DB masih sama dengan yang kita baca
		res := tx.Model(&models.StokisOrder{}).
			Where("id = ? AND status = ?", order.ID, order.Status).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return badTransition(order.Status, target)
		}

		if target == models.StatusPOIssued {
			_, created, err := ensureInvoice(tx, models.OrderTypeStokis, order.ID, order.StokisID, order.TotalAmount, now)
			if err != nil {
				return err
			}
			invoiceCreated = created
		}

		if target == models.StatusShipped {
			if err := shipStokisOrder(tx, &order, actor.ID); err != nil {
				return err
			}
		}

		order.Status = target
		return nil
	})
	if err != nil {
		respondFlowError(c, err)
		return
	}

	notifyStokisStatus(order, target, actor)

	msg := "Status order diubah ke " + string(target)
	if invoiceCreated {
		msg += ", invoice diterbitkan"
	}
	utils.Success(c, msg, gin.H{"id": order.ID, "status": order.Status})
}

func stokisOrderAdjust(c *gin.Context, actor Actor, id uint, in PatchOrderInput) {
	switch actor.Role {
	case models.RoleFinance, models.RolePusat, models.RoleStokis:
	default:
		utils.Error(c, http.StatusForbidden, "Role tidak boleh adjust order", nil)
		return
	}
	if len(in.Items) == 0 {
		utils.Error(c, http.StatusBadRequest, "Minimal satu item untuk adjust", nil)
		return
	}
	for _, it := range in.Items {
		if it.Quantity < 0 {
			utils.Error(c, http.StatusBadRequest, "Quantity tidak boleh negatif", nil)
			return
		}
	}

	var order models.StokisOrder
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).Preload("Items").First(&order, id).Error; err != nil {
			return err
		}
		if actor.Role == models.RoleStokis && order.StokisID != actor.ID {
			return errForbidden
		}
		if !models.AdjustableStokis(order.Status) {
			return errNotAdjustable
		}

		byID := make(map[uint]models.StokisOrderItem, len(order.Items))
		for _, it := range order.Items {
			byID[it.ID] = it
		}

		for _, adj := range in.Items {
			it, ok := byID[adj.ItemID]
			if !ok {
				return fmt.Errorf("item %d bukan bagian order ini", adj.ItemID)
			}
			if adj.Quantity == 0 {
				if err := tx.Delete(&models.StokisOrderItem{}, it.ID).Error; err != nil {
					return err
				}
				continue
			}
			if err := tx.Model(&models.StokisOrderItem{}).
				Where("id = ?", it.ID).
				Updates(map[string]any{
					"quantity": adj.Quantity,
					"subtotal": adj.Quantity * it.Price,
				}).Error; err != nil {
				return err
			}
		}

		// total dihitung ulang dari item yang tersisa
		var remaining []models.StokisOrderItem
		if err := tx.Where("stokis_order_id = ?", order.ID).Find(&remaining).Error; err != nil {
			return err
		}
		var total int64
		for _, it := range remaining {
			total += it.Subtotal
		}

		note := in.Note
		if note == "" {
			note = "adjust item order"
		}
		return tx.Model(&models.StokisOrder{}).
			Where("id = ?", order.ID).
			Updates(map[string]any{
				"total_amount": total,
				"notes":        appendNote(order.Notes, actor.Nama, note),
			}).Error
	})
	if err != nil {
		respondFlowError(c, err)
		return
	}

	notify.ToUser(order.StokisID, notify.Payload{
		Title: "Order disesuaikan",
		Body:  fmt.Sprintf("%s diubah oleh %s", order.OrderNo, actor.Nama),
		URL:   "/orders/stokis/" + strconv.Itoa(int(order.ID)),
	})

	utils.Success(c, "Item order disesuaikan", gin.H{"id": order.ID})
}

// fan-out setelah commit, best-effort
func notifyStokisStatus(order models.StokisOrder, target models.OrderStatus, actor Actor) {
	url := "/orders/stokis/" + strconv.Itoa(int(order.ID))

	switch target {
	case models.StatusPendingFinance:
		notify.ToRole(models.RoleFinance, notify.Payload{
			Title: "PO menunggu finance",
			Body:  order.OrderNo + " diteruskan oleh " + actor.Nama,
			URL:   url,
		})
	case models.StatusPOIssued:
		notify.ToRole(models.RoleGudang, notify.Payload{
			Title: "PO terbit",
			Body:  order.OrderNo + " siap diproses gudang",
			URL:   url,
		})
		notify.ToUser(order.StokisID, notify.Payload{
			Title: "PO disetujui",
			Body:  order.OrderNo + " disetujui, invoice diterbitkan",
			URL:   url,
		})
	case models.StatusProcessing, models.StatusShipped:
		notify.ToUser(order.StokisID, notify.Payload{
			Title: "Update pengiriman",
			Body:  order.OrderNo + " " + string(target),
			URL:   url,
		})
	case models.StatusReceived:
		notify.ToRole(models.RolePusat, notify.Payload{
			Title: "Order diterima",
			Body:  order.OrderNo + " sudah diterima stokis",
			URL:   url,
		})
	case models.StatusCancelled:
		notify.ToUser(order.StokisID, notify.Payload{
			Title: "Order dibatalkan",
			Body:  order.OrderNo + " dibatalkan oleh " + actor.Nama,
			URL:   url,
		})
	}
}
