package seeders

import (
	"errors"
	"log"
	"os"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vidgate-io/vidgate_api/model"
	"github.com/vidgate-io/vidgate_api/shared"
)

// AdminSeeder creates the initial admin account when none exists.
type AdminSeeder struct {
	db *gorm.DB
}

func NewAdminSeeder(db *gorm.DB) *AdminSeeder {
	return &AdminSeeder{db: db}
}

func (s *AdminSeeder) SeedAdmin() error {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@vidgate.io"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "ChangeMe123"
	}

	var existing model.User
	err := s.db.Where("role = ?", shared.RoleAdmin).First(&existing).Error
	if err == nil {
		log.Println("Admin account already exists, skipping")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	id, _ := uuid.NewV7()
	admin := model.User{
		ID:       id.String(),
		Email:    email,
		Username: "admin",
		Password: string(hashed),
		Role:     shared.RoleAdmin,
		IsActive: true,
	}
	if err := s.db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Seeded admin account: %s", email)
	return nil
}
