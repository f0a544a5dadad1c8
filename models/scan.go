package models

import "gorm.io/gorm"

// One analyzed scan. Stores the verdict snapshot so history renders
// without re-running the analysis.
type ScanRecord struct {
    gorm.Model
    UserID        uint   `gorm:"index"`
    Barcode       string `gorm:"type:varchar(64)"`
    ProductName   string
    Score         string `gorm:"size:8"` // "green" | "yellow" | "red"
    Warnings      string `gorm:"type:text"` // comma-sep warnings
    SafetyDetails string `gorm:"type:text"`
}
