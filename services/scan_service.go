package services

import (
	"context"
	"log"
	"strings"

	"github.com/Musasteel/ProductScannerApp/config"
	"github.com/Musasteel/ProductScannerApp/models"
	"github.com/Musasteel/ProductScannerApp/utils"
)

// ScanService ties a product lookup to a safety analysis and records the
// outcome. Lookup failures propagate to the caller; analysis never fails.
type ScanService struct {
	products *ProductService
	analysis *AnalysisService
}

func NewScanService(products *ProductService, analysis *AnalysisService) *ScanService {
	return &ScanService{products: products, analysis: analysis}
}

// ScanAndAnalyze looks up a barcode and analyzes its ingredients against the
// user's stored allergy profile.
func (s *ScanService) ScanAndAnalyze(ctx context.Context, userID uint, barcode string) (*models.Product, utils.Verdict, error) {
	product, err := s.products.Lookup(barcode)
	if err != nil {
		return nil, utils.Verdict{}, err
	}

	// Profile read failure degrades to an empty list rather than blocking
	// the scan; the analyzer handles that case.
	allergies, err := GetAllergies(userID)
	if err != nil {
		log.Printf("failed to load allergy profile for user %d: %v", userID, err)
		allergies = []string{}
	}

	verdict := s.analysis.Analyze(ctx, product.Ingredients, allergies)
	s.record(userID, product, verdict)
	return product, verdict, nil
}

// AnalyzeText analyzes raw ingredient text with an explicit allergy list,
// bypassing lookup and the stored profile. Used by the manual-entry screen.
func (s *ScanService) AnalyzeText(ctx context.Context, userID uint, ingredients string, allergies []string) utils.Verdict {
	verdict := s.analysis.Analyze(ctx, ingredients, allergies)
	s.record(userID, &models.Product{Name: "Manual entry"}, verdict)
	return verdict
}

func (s *ScanService) record(userID uint, product *models.Product, verdict utils.Verdict) {
	rec := models.ScanRecord{
		UserID:        userID,
		Barcode:       product.Barcode,
		ProductName:   product.Name,
		Score:         string(verdict.Score),
		Warnings:      strings.Join(verdict.Warnings, ","),
		SafetyDetails: verdict.SafetyDetails,
	}
	if err := config.DB.Create(&rec).Error; err != nil {
		log.Printf("failed to record scan for user %d: %v", userID, err)
	}

	if verdict.Score == utils.ScoreRed {
		EmitAlert(userID, "warning", "Allergen detected in "+product.Name+": "+strings.Join(verdict.Warnings, "; "))

		var user models.User
		if err := config.DB.First(&user, userID).Error; err == nil {
			if err := utils.SendAllergenAlertEmail(user.Email, product.Name, verdict.Warnings); err != nil {
				log.Printf("allergen alert email failed for user %d: %v", userID, err)
			}
		}
	}
}

func ListScans(userID uint, limit int) ([]models.ScanRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var recs []models.ScanRecord
	err := config.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&recs).Error
	return recs, err
}
