package config

import (
	"errors"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	model "item-service.com/item-service/internal/models"
)

func New(dsn string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	if err := db.AutoMigrate(&model.Category{}, &model.Item{}, &model.Job{}); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if err := SeedCategories(db); err != nil {
		log.Fatalf("category seed failed: %v", err)
	}

	return db
}

// SeedCategories inserts the starter category set. Items can only link to
// categories that already exist, so an empty table would make every
// category_ids payload a silent no-op.
func SeedCategories(db *gorm.DB) error {
	defaults := []model.Category{
		{Name: "FURNITURE", Description: strPtr("Items for your home")},
		{Name: "ELECTRONICS", Description: strPtr("Phones, laptops and gadgets")},
		{Name: "CLOTHING", Description: strPtr("Apparel and accessories")},
		{Name: "BOOKS", Description: strPtr("Books and textbooks")},
		{Name: "SPORTS", Description: strPtr("Sports and outdoor gear")},
		{Name: "OTHER", Description: nil},
	}

	for _, c := range defaults {
		var existing model.Category
		err := db.Where("name = ?", c.Name).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&c).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func strPtr(s string) *string {
	return &s
}
