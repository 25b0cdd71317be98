package configs

import (
	"log"

	"backend/entity"

	"golang.org/x/crypto/bcrypt"
)

// first-run officer account
func SeedOfficer() error {
	db := DB()
	email := getEnv("OFFICER_EMAIL", "")
	pass := getEnv("OFFICER_PASSWORD", "")
	if email == "" || pass == "" {
		log.Println("⚠️ skip seeding officer: missing OFFICER_EMAIL/OFFICER_PASSWORD")
		return nil
	}

	var count int64
	db.Model(&entity.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		log.Println("ℹ️ officer already exists:", email)
		return nil
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	officer := entity.User{
		Email:      email,
		Password:   string(hash),
		FullName:   "Municipal Officer",
		Role:       "officer",
		Department: getEnv("OFFICER_DEPARTMENT", "public works"),
	}
	return db.Create(&officer).Error
}
