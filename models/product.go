package models

import "gorm.io/gorm"

// A cached product record from Open Food Facts (or a user contribution).
type Product struct {
    gorm.Model
    Barcode     string `gorm:"type:varchar(64);uniqueIndex;not null"`
    Name        string `gorm:"not null"`
    Ingredients string `gorm:"type:text"`
    ImageURL    string
    // Allergens is the comma-joined OFF allergens_tags list, e.g. "en:milk,en:nuts".
    Allergens   string `gorm:"type:text"`
    Source      string `gorm:"size:32"` // "openfoodfacts" | "user"
}
