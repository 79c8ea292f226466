package database

import (
	"fmt"
	"log"
	"os"

	"github.com/sahilchouksey/campus-shelf/model"
	"github.com/sahilchouksey/campus-shelf/utils/auth"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("Starting database seeding...")

	if err := s.SeedSuperAdmin(); err != nil {
		return fmt.Errorf("failed to seed super admin: %w", err)
	}

	if err := s.SeedYears(); err != nil {
		return fmt.Errorf("failed to seed years: %w", err)
	}

	if err := s.SeedSemesters(); err != nil {
		return fmt.Errorf("failed to seed semesters: %w", err)
	}

	if err := s.SeedCredits(); err != nil {
		return fmt.Errorf("failed to seed credits: %w", err)
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

// SeedSuperAdmin creates the bootstrap super admin from environment
// credentials. Skipped when one already exists or credentials are unset.
func (s *Seeder) SeedSuperAdmin() error {
	var count int64
	if err := s.db.Model(&model.User{}).Where("role = ?", model.RoleSuperAdmin).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Super admin already exists, skipping...")
		return nil
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" || adminPassword == "" {
		log.Println("ADMIN_EMAIL and ADMIN_PASSWORD not set, skipping super admin creation")
		return nil
	}

	passwordHash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &model.User{
		Email:        adminEmail,
		PasswordHash: passwordHash,
		Name:         "System Administrator",
		Role:         model.RoleSuperAdmin,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("Created super admin user: %s\n", admin.Email)
	return nil
}

// SeedYears creates the four years of study
func (s *Seeder) SeedYears() error {
	var count int64
	if err := s.db.Model(&model.Year{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Years already exist, skipping...")
		return nil
	}

	years := []model.Year{
		{Value: 1, Label: "First Year"},
		{Value: 2, Label: "Second Year"},
		{Value: 3, Label: "Third Year"},
		{Value: 4, Label: "Fourth Year"},
	}

	if err := s.db.Create(&years).Error; err != nil {
		return err
	}

	log.Printf("Created %d years\n", len(years))
	return nil
}

// SeedSemesters creates the eight semesters
func (s *Seeder) SeedSemesters() error {
	var count int64
	if err := s.db.Model(&model.Semester{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Semesters already exist, skipping...")
		return nil
	}

	semesters := make([]model.Semester, 0, 8)
	for v := 1; v <= 8; v++ {
		semesters = append(semesters, model.Semester{
			Value: v,
			Label: fmt.Sprintf("Semester %d", v),
		})
	}

	if err := s.db.Create(&semesters).Error; err != nil {
		return err
	}

	log.Printf("Created %d semesters\n", len(semesters))
	return nil
}

// SeedCredits creates the common credit weightings
func (s *Seeder) SeedCredits() error {
	var count int64
	if err := s.db.Model(&model.Credit{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Credits already exist, skipping...")
		return nil
	}

	credits := []model.Credit{
		{Value: 1, Label: "1 Credit"},
		{Value: 2, Label: "2 Credits"},
		{Value: 3, Label: "3 Credits"},
		{Value: 4, Label: "4 Credits"},
		{Value: 1.5, Label: "1.5 Credits"},
	}

	if err := s.db.Create(&credits).Error; err != nil {
		return err
	}

	log.Printf("Created %d credits\n", len(credits))
	return nil
}
