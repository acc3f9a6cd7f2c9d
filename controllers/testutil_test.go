package controllers_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/flotoolx/fresto-sub001/config"
	"github.com/flotoolx/fresto-sub001/models"
	"github.com/flotoolx/fresto-sub001/routes"
	"github.com/flotoolx/fresto-sub001/utils"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine

	gudang models.Gudang

	pusat      models.User
	finance    models.User
	gudangUser models.User
	stokis     models.User
	mitra      models.User

	productA models.Product // 5000
	productB models.Product // 3000
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("buka sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("ambil sql.DB: %v", err)
	}
	// in-memory sqlite: satu koneksi, supaya semua query lihat database yang sama
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
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
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	config.DB = db

	env := &testEnv{db: db}

	env.gudang = models.Gudang{Nama: "Gudang Pusat", Kode: "GP-01", Lokasi: "Jakarta"}
	if err := db.Create(&env.gudang).Error; err != nil {
		t.Fatalf("seed gudang: %v", err)
	}

	cat := models.Category{Nama: "Fried Chicken", Kode: "FC"}
	if err := db.Create(&cat).Error; err != nil {
		t.Fatalf("seed kategori: %v", err)
	}

	env.productA = models.Product{Nama: "Paha Atas", SKU: "FC-001", CategoryID: cat.ID, Satuan: "pcs", Price: 5000, IsActive: true}
	env.productB = models.Product{Nama: "Dada", SKU: "FC-002", CategoryID: cat.ID, Satuan: "pcs", Price: 3000, IsActive: true}
	if err := db.Create(&env.productA).Error; err != nil {
		t.Fatalf("seed produk: %v", err)
	}
	if err := db.Create(&env.productB).Error; err != nil {
		t.Fatalf("seed produk: %v", err)
	}

	env.pusat = env.createUser(t, "pusat", models.RolePusat, nil, nil)
	env.finance = env.createUser(t, "finance", models.RoleFinance, nil, nil)
	env.gudangUser = env.createUser(t, "gudang", models.RoleGudang, nil, &env.gudang.ID)
	env.stokis = env.createUser(t, "stokis", models.RoleStokis, nil, nil)
	env.mitra = env.createUser(t, "mitra", models.RoleMitra, &env.stokis.ID, nil)

	r := gin.New()
	routes.SetupRoutes(r)
	env.router = r

	return env
}

func (e *testEnv) createUser(t *testing.T, username, role string, stokisID, gudangID *uint) models.User {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte("rahasia1"), 4)
	u := models.User{
		Username:     username,
		FullName:     "Akun " + username,
		Role:         role,
		PasswordHash: string(hash),
		IsActive:     true,
		StokisID:     stokisID,
		GudangID:     gudangID,
	}
	if err := e.db.Create(&u).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

func (e *testEnv) token(t *testing.T, u models.User) string {
	t.Helper()
	tok, err := utils.GenerateToken(u.ID, u.FullName, u.Role)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return tok
}

func (e *testEnv) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}
