package controllers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Actor: identitas request-scoped dari klaim JWT. Handler menerima ini eksplisit,
// tidak membaca state global.
type Actor struct {
	ID   uint
	Nama string
	Role string
}

func currentActor(c *gin.Context) (Actor, error) {
	rawID, ok := c.Get("user_id")
	if !ok {
		return Actor{}, errors.New("user_id tidak ada di context")
	}

	// klaim JWT bisa keluar sebagai float64 setelah parse
	var userID uint
	switch v := rawID.(type) {
	case uint:
		userID = v
	case int:
		userID = uint(v)
	case int64:
		userID = uint(v)
	case float64:
		userID = uint(v)
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			userID = uint(n)
		}
	}
	if userID == 0 {
		return Actor{}, errors.New("user_id tidak valid")
	}

	nama, _ := c.Get("nama")
	role, _ := c.Get("role")
	ns, _ := nama.(string)
	rs, _ := role.(string)
	if rs == "" {
		return Actor{}, errors.New("role tidak ada di context")
	}

	return Actor{ID: userID, Nama: ns, Role: rs}, nil
}
