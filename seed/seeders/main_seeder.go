package seeders

import (
	"log"

	"gorm.io/gorm"
)

// MainSeeder coordinates all seeding operations
type MainSeeder struct {
	db *gorm.DB
}

func NewMainSeeder(db *gorm.DB) *MainSeeder {
	return &MainSeeder{db: db}
}

// SeedAll runs all seeders in the correct order
func (s *MainSeeder) SeedAll() error {
	log.Println("Starting database seeding...")

	// 1. Interaction types first (demo interactions reference them)
	typeSeeder := NewTypeSeeder(s.db)
	if err := typeSeeder.SeedTypes(); err != nil {
		log.Printf("Type seeding failed: %v", err)
		return err
	}

	// 2. Admin account
	adminSeeder := NewAdminSeeder(s.db)
	if err := adminSeeder.SeedAdmin(); err != nil {
		log.Printf("Admin seeding failed: %v", err)
		return err
	}

	// 3. Demo video with interactions
	demoSeeder := NewDemoSeeder(s.db)
	if err := demoSeeder.SeedDemoVideo(); err != nil {
		log.Printf("Demo seeding failed: %v", err)
		return err
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

func (s *MainSeeder) SeedTypesOnly() error {
	return NewTypeSeeder(s.db).SeedTypes()
}

func (s *MainSeeder) SeedAdminOnly() error {
	return NewAdminSeeder(s.db).SeedAdmin()
}

func (s *MainSeeder) SeedDemoOnly() error {
	return NewDemoSeeder(s.db).SeedDemoVideo()
}
