package models

import (
    "time"

    "gorm.io/gorm"
)

type User struct {
    gorm.Model
    Email         string `gorm:"uniqueIndex;not null"`
    Password      string `gorm:"not null"`
    FullName      string
    // Allergies and Conditions are comma-separated, order preserved as entered
    // (e.g. "peanut,lactose intolerance").
    Allergies     string `gorm:"type:text"`
    Conditions    string `gorm:"type:text"`
    MFAEnabled    bool
    MFACode       string
    ResetToken    string
    ResetTokenExp time.Time
    Disabled      bool `gorm:"default:false"`
}
