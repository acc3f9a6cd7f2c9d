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

type CreateMitraOrderInput struct {
	Items []OrderItemInput `json:"items" binding:"required,min=1"`
	Notes string           `json:"notes"`
}

// POST /orders/mitra — order ke stokis induk mitra.
func CreateMitraOrder(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var mitra models.User
	if err := config.DB.First(&mitra, actor.ID).Error; err != nil {
		utils.Error(c, http.StatusUnauthorized, "User tidak ditemukan", nil)
		return
	}
	if mitra.StokisID == nil || *mitra.StokisID == 0 {
		utils.Error(c, http.StatusBadRequest, "Mitra belum punya stokis induk", nil)
		return
	}

	var in CreateMitraOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, http.StatusBadRequest, "Payload tidak valid", err)
		return
	}

	var order models.MitraOrder
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		items := make([]models.MitraOrderItem, 0, len(in.Items))
		var total int64
		for _, it := range in.Items {
			var p models.Product
			if err := tx.Where("id = ? AND is_active = ?", it.ProductID, true).First(&p).Error; err != nil {
				return fmt.Errorf("produk %d tidak ditemukan atau nonaktif", it.ProductID)
			}
			sub := p.Price * it.Quantity
			total += sub
			items = append(items, models.MitraOrderItem{
				ProductID: p.ID,
				Quantity:  it.Quantity,
				Price:     p.Price,
				Subtotal:  sub,
			})
		}

		var seq int64
		if err := tx.Model(&models.MitraOrder{}).Count(&seq).Error; err != nil {
			return err
		}

		// nomor tabrakan dengan order lain: maju ke nomor berikutnya lewat savepoint
		var err error
		for attempt := 0; attempt < 3; attempt++ {
			seq++
			rowItems := make([]models.MitraOrderItem, len(items))
			copy(rowItems, items)

			order = models.MitraOrder{
				OrderNo:     utils.GenMitraOrderNo(seq, now),
				MitraID:     actor.ID,
				StokisID:    *mitra.StokisID,
				Status:      models.StatusPendingStokis,
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

	notify.ToUser(order.StokisID, notify.Payload{
		Title: "Order mitra baru",
		Body:  fmt.Sprintf("%s dari %s menunggu konfirmasi", order.OrderNo, actor.Nama),
		URL:   "/orders/mitra/" + strconv.Itoa(int(order.ID)),
	})

	utils.Success(c, "Order dibuat", order)
}

// GET /orders/mitra?status=
func ListMitraOrders(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	q := config.DB.Preload("Items").Preload("Mitra").Order("id DESC")

	switch actor.Role {
	case models.RolePusat, models.RoleFinance, models.RoleDC:
	case models.RoleStokis:
		q = q.Where("stokis_id = ?", actor.ID)
	case models.RoleMitra:
		q = q.Where("mitra_id = ?", actor.ID)
	default:
		utils.Error(c, http.StatusForbidden, "Role tidak diizinkan", nil)
		return
	}

	if st := c.Query("status"); st != "" {
		q = q.Where("status = ?", strings.ToUpper(st))
	}

	var rows []models.MitraOrder
	if err := q.Find(&rows).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "Gagal mengambil order", err)
		return
	}
	utils.Success(c, "Berhasil mengambil order", rows)
}

// GET /orders/mitra/:id
func MitraOrderDetail(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		utils.Error(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	id, _ := strconv.Atoi(c.Param("id"))

	var order models.MitraOrder
	if err := config.DB.Preload("Items.Product").Preload("Mitra").Preload("Stokis").
		First(&order, id).Error; err != nil {
		utils.Error(c, http.StatusNotFound, "Order tidak ditemukan", nil)
		return
	}

	switch actor.Role {
	case models.RoleStokis:
		if order.StokisID != actor.ID {
			utils.Error(c, http.StatusForbidden, "Forbidden", nil)
			return
		}
	case models.RoleMitra:
		if order.MitraID != actor.ID {
			utils.Error(c, http.StatusForbidden, "Forbidden", nil)
			return
		}
	}

	utils.Success(c, "Berhasil mengambil order", order)
}

// PATCH /orders/mitra/:id
func PatchMitraOrder(c *gin.Context) {
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
		mitraOrderStatusChange(c, actor, uint(id), in)
	case "adjust":
		mitraOrderAdjust(c, actor, uint(id), in)
	default:
		utils.Error(c, http.StatusBadRequest, "Action tidak dikenal (status/adjust)", nil)
	}
}

func mitraOrderStatusChange(c *gin.Context, actor Actor, id uint, in PatchOrderInput) {
	target := models.OrderStatus(strings.ToUpper(in.Status))

	rule, ok := models.MitraOrderRule(target)
	if !ok {
		utils.Error(c, http.StatusBadRequest, "Status tidak valid: "+string(target), nil)
		return
	}
	if !rule.RoleAllowed(actor.Role) {
		utils.Error(c, http.StatusForbidden, "Role tidak boleh mengubah ke status ini", nil)
		return
	}

	var order models.MitraOrder
	var invoiceCreated bool

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).Preload("Items").First(&order, id).Error; err != nil {
			return err
		}

		switch actor.Role {
		case models.RoleStokis:
			if order.StokisID != actor.ID {
				return errForbidden
			}
		case models.RoleMitra:
			if order.MitraID != actor.ID {
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

		res := tx.Model(&models.MitraOrder{}).
			Where("id = ? AND status = ?", order.ID, order.Status).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return badTransition(order.Status, target)
		}

		// stokis menerima order -> invoice untuk mitra terbit di sini
		if target == models.StatusProcessing {
			_, created, err := ensureInvoice(tx, models.OrderTypeMitra, order.ID, order.MitraID, order.TotalAmount, now)
			if err != nil {
				return err
			}
			invoiceCreated = created
		}

		order.Status = target
		return nil
	})
	if err != nil {
		respondFlowError(c, err)
		return
	}

	notifyMitraStatus(order, target, actor)

	msg := "Status order diubah ke " + string(target)
	if invoiceCreated {
		msg += ", invoice diterbitkan"
	}
	utils.Success(c, msg, gin.H{"id": order.ID, "status": order.Status})
}

func mitraOrderAdjust(c *gin.Context, actor Actor, id uint, in PatchOrderInput) {
	switch actor.Role {
	case models.RoleStokis, models.RoleMitra:
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

	var order models.MitraOrder
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).Preload("Items").First(&order, id).Error; err != nil {
			return err
		}
		switch actor.Role {
		case models.RoleStokis:
			if order.StokisID != actor.ID {
				return errForbidden
			}
		case models.RoleMitra:
			if order.MitraID != actor.ID {
				return errForbidden
			}
		}
		if !models.AdjustableMitra(order.Status) {
			return errNotAdjustable
		}

		byID := make(map[uint]models.MitraOrderItem, len(order.Items))
		for _, it := range order.Items {
			byID[it.ID] = it
		}

		for _, adj := range in.Items {
			it, ok := byID[adj.ItemID]
			if !ok {
				return fmt.Errorf("item %d bukan bagian order ini", adj.ItemID)
			}
			if adj.Quantity == 0 {
				if err := tx.Delete(&models.MitraOrderItem{}, it.ID).Error; err != nil {
					return err
				}
				continue
			}
			if err := tx.Model(&models.MitraOrderItem{}).
				Where("id = ?", it.ID).
				Updates(map[string]any{
					"quantity": adj.Quantity,
					"subtotal": adj.Quantity * it.Price,
				}).Error; err != nil {
				return err
			}
		}

		var remaining []models.MitraOrderItem
		if err := tx.Where("mitra_order_id = ?", order.ID).Find(&remaining).Error; err != nil {
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
		return tx.Model(&models.MitraOrder{}).
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

	notify.ToUser(order.MitraID, notify.Payload{
		Title: "Order disesuaikan",
		Body:  fmt.Sprintf("%s diubah oleh %s", order.OrderNo, actor.Nama),
		URL:   "/orders/mitra/" + strconv.Itoa(int(order.ID)),
	})

	utils.Success(c, "Item order disesuaikan", gin.H{"id": order.ID})
}

func notifyMitraStatus(order models.MitraOrder, target models.OrderStatus, actor Actor) {
	url := "/orders/mitra/" + strconv.Itoa(int(order.ID))

	switch target {
	case models.StatusProcessing:
		notify.ToUser(order.MitraID, notify.Payload{
			Title: "Order dikonfirmasi",
			Body:  order.OrderNo + " diproses stokis, invoice diterbitkan",
			URL:   url,
		})
	case models.StatusShipped:
		notify.ToUser(order.MitraID, notify.Payload{
			Title: "Order dikirim",
			Body:  order.OrderNo + " dalam pengiriman",
			URL:   url,
		})
	case models.StatusReceived:
		notify.ToUser(order.StokisID, notify.Payload{
			Title: "Order diterima",
			Body:  order.OrderNo + " sudah diterima mitra",
			URL:   url,
		})
	case models.StatusCancelled:
		notify.ToUser(order.MitraID, notify.Payload{
			Title: "Order dibatalkan",
			Body:  order.OrderNo + " dibatalkan oleh " + actor.Nama,
			URL:   url,
		})
	}
}
