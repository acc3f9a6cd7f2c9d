package main

import (
	"log"
	"os"

	"github.com/flotoolx/fresto-sub001/config"
	"github.com/flotoolx/fresto-sub001/models"
	"github.com/flotoolx/fresto-sub001/routes"
	"github.com/flotoolx/fresto-sub001/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("tidak ada file .env, pakai environment apa adanya")
	}

	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Gudang{},
		&models.Stock{},
		&models.StockMovement{},
		&models.StokisOrder{},
		&models.StokisOrderItem{},
		&models.MitraOrder{},
		&models.MitraOrderItem{},
		&models.Invoice{},
		&models.Payment{},
		&models.PushSubscription{},
	)

	config.SeedData()

	// override secret dari ENV
	if s := os.Getenv("JWT_SECRET"); s != "" {
		utils.Secret = []byte(s)
	}

	r := gin.Default()
	r.Use(config.CORS())
	routes.SetupRoutes(r)

	// service worker & asset push
	r.Static("/public", "./public")

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "🍗 D'Fresto API is running"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	_ = r.Run(":" + port)
}
