package config

import (
	"log"

	"github.com/flotoolx/fresto-sub001/models"

	"golang.org/x/crypto/bcrypt"
)

// SeedData: akun pusat/finance default + katalog awal, hanya kalau tabel masih kosong.
func SeedData() {
	seedUsers()
	seedCatalog()
}

func seedUsers() {
	var cnt int64
	DB.Model(&models.User{}).Where("role = ?", models.RolePusat).Count(&cnt)
	if cnt > 0 {
		return
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte("dfresto123"), 10)
	defaults := []models.User{
		{Username: "pusat", FullName: "Admin Pusat", Role: models.RolePusat, PasswordHash: string(hash)},
		{Username: "finance", FullName: "Admin Finance", Role: models.RoleFinance, PasswordHash: string(hash)},
	}
	for _, u := range defaults {
		if err := DB.Create(&u).Error; err != nil {
			log.Printf("⚠️  Gagal seed user %s: %v", u.Username, err)
		}
	}
}

func seedCatalog() {
	var cnt int64
	DB.Model(&models.Category{}).Count(&cnt)
	if cnt > 0 {
		return
	}

	cat := models.Category{Nama: "Fried Chicken", Kode: "FC"}
	if err := DB.Create(&cat).Error; err != nil {
		log.Printf("⚠️  Gagal seed kategori: %v", err)
		return
	}

	products := []models.Product{
		{Nama: "Paha Atas Marinasi", SKU: "FC-001", CategoryID: cat.ID, Satuan: "pcs", Price: 5000},
		{Nama: "Dada Marinasi", SKU: "FC-002", CategoryID: cat.ID, Satuan: "pcs", Price: 5500},
		{Nama: "Tepung Bumbu 1kg", SKU: "FC-101", CategoryID: cat.ID, Satuan: "pak", Price: 15000},
	}
	for _, p := range products {
		if err := DB.Create(&p).Error; err != nil {
			log.Printf("⚠️  Gagal seed produk %s: %v", p.SKU, err)
		}
	}
}
