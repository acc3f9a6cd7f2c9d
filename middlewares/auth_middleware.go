package middlewares

import (
	"net/http"
	"strings"

	"github.com/flotoolx/fresto-sub001/utils"

	"github.com/gin-gonic/gin"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Token tidak ditemukan"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := utils.VerifyToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Token tidak valid"})
			c.Abort()
			return
		}

		c.Set("user_id", claims["user_id"])
		c.Set("nama", claims["nama"])
		c.Set("role", claims["role"])
		c.Next()
	}
}

// RoleRequired membatasi route untuk role tertentu. Cek per-transisi yang lebih
// halus tetap dilakukan di handler lewat tabel status.
func RoleRequired(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		rs, _ := role.(string)
		for _, r := range roles {
			if rs == r {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"message": "Role tidak diizinkan"})
		c.Abort()
	}
}
