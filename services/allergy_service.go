package services

import (
	"errors"
	"strings"

	"github.com/Musasteel/ProductScannerApp/config"
	"github.com/Musasteel/ProductScannerApp/models"
)

// The allergy profile is the read-only input to every analysis: an ordered
// list of free-text allergy/condition strings. Stored comma-joined on the
// user row, teacher-style.

func GetAllergies(userID uint) ([]string, error) {
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		return nil, errors.New("user not found")
	}
	return splitList(user.Allergies), nil
}

func SetAllergies(userID uint, allergies []string) error {
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		return errors.New("user not found")
	}
	user.Allergies = joinList(allergies)
	return config.DB.Save(&user).Error
}

func GetConditions(userID uint) ([]string, error) {
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		return nil, errors.New("user not found")
	}
	return splitList(user.Conditions), nil
}

func SetConditions(userID uint, conditions []string) error {
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		return errors.New("user not found")
	}
	user.Conditions = joinList(conditions)
	return config.DB.Save(&user).Error
}

// splitList preserves entry order and drops blanks. Duplicates are allowed —
// the analyzer tolerates them and the user typed them.
func splitList(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func joinList(items []string) string {
	cleaned := make([]string, 0, len(items))
	for _, it := range items {
		if t := strings.TrimSpace(it); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	return strings.Join(cleaned, ",")
}
