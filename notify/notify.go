// Package notify mengirim web push best-effort: gagal kirim hanya dicatat di log,
// tidak pernah menggagalkan request yang memicunya.
package notify

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/flotoolx/fresto-sub001/config"
	"github.com/flotoolx/fresto-sub001/models"

	webpush "github.com/SherClockHolmes/webpush-go"
)

type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
}

func VapidPublicKey() string {
	return os.Getenv("VAPID_PUBLIC_KEY")
}

func configured() bool {
	return os.Getenv("VAPID_PUBLIC_KEY") != "" && os.Getenv("VAPID_PRIVATE_KEY") != ""
}

func ToUser(userID uint, p Payload) {
	if !configured() {
		return
	}
	var subs []models.PushSubscription
	if err := config.DB.Where("user_id = ?", userID).Find(&subs).Error; err != nil {
		log.Printf("push: gagal ambil subscription user %d: %v", userID, err)
		return
	}
	fanout(subs, p)
}

func ToRole(role string, p Payload) {
	if !configured() {
		return
	}
	var subs []models.PushSubscription
	err := config.DB.
		Joins("JOIN users ON users.id = push_subscriptions.user_id").
		Where("users.role = ? AND users.is_active = ?", role, true).
		Find(&subs).Error
	if err != nil {
		log.Printf("push: gagal ambil subscription role %s: %v", role, err)
		return
	}
	fanout(subs, p)
}

func fanout(subs []models.PushSubscription, p Payload) {
	body, err := json.Marshal(p)
	if err != nil {
		log.Printf("push: gagal marshal payload: %v", err)
		return
	}
	for _, sub := range subs {
		send(sub, body)
	}
}

func send(sub models.PushSubscription, body []byte) {
	s := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}

	resp, err := webpush.SendNotification(body, s, &webpush.Options{
		Subscriber:      os.Getenv("VAPID_SUBJECT"),
		VAPIDPublicKey:  os.Getenv("VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("VAPID_PRIVATE_KEY"),
		TTL:             60,
	})
	if err != nil {
		log.Printf("push: gagal kirim ke %d: %v", sub.ID, err)
		return
	}
	defer resp.Body.Close()

	// Endpoint mati: bersihkan subscription-nya sekalian.
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		if err := config.DB.Delete(&models.PushSubscription{}, sub.ID).Error; err != nil {
			log.Printf("push: gagal hapus subscription %d: %v", sub.ID, err)
		}
		return
	}
	if resp.StatusCode >= 400 {
		log.Printf("push: endpoint %d balas status %d", sub.ID, resp.StatusCode)
	}
}
