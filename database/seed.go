package database

import (
	"bus_portal/config"
	"bus_portal/constants"
	"bus_portal/model"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedData creates the bootstrap admin account if it does not exist yet.
func SeedData(db *gorm.DB) {
	email := strings.ToLower(strings.TrimSpace(config.ConfigDefault("ADMIN_EMAIL", "admin@busportal.local")))
	password := config.ConfigDefault("ADMIN_PASSWORD", "admin123")

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		log.Println("failed to hash seed admin password:", err)
		return
	}

	admin := model.User{
		Name:     "Administrator",
		Email:    email,
		Password: string(bytes),
		Role:     constants.ROLE_ADMIN,
		IsActive: true,
	}
	if err := db.Where(model.User{Email: admin.Email}).FirstOrCreate(&admin).Error; err != nil {
		log.Println("failed to seed admin:", admin.Email, "error:", err)
	}
}
