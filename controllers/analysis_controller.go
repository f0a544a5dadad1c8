package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Musasteel/ProductScannerApp/services"

	"github.com/gin-gonic/gin"
)

type AnalysisController struct {
	scans *services.ScanService
}

func NewAnalysisController(scans *services.ScanService) *AnalysisController {
	return &AnalysisController{scans: scans}
}

type AnalyzeInput struct {
	Barcode     string   `json:"barcode"`
	Ingredients string   `json:"ingredients"`
	Allergies   []string `json:"allergies"`
}

// POST /analysis
// Either a barcode (lookup + stored allergy profile) or raw ingredients with
// an explicit allergy list. Lookup failures are user-visible; analysis
// failures never are — the verdict degrades to the rule-based result.
func (ac *AnalysisController) Analyze(c *gin.Context) {
	uid := c.GetUint("userID")

	var input AnalyzeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Barcode != "" {
		product, verdict, err := ac.scans.ScanAndAnalyze(c.Request.Context(), uid, input.Barcode)
		if err != nil {
			if errors.Is(err, services.ErrProductNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Unable to find product information"})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"product": product, "verdict": verdict})
		return
	}

	if input.Ingredients == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "barcode or ingredients required"})
		return
	}

	allergies := input.Allergies
	if allergies == nil {
		stored, err := services.GetAllergies(uid)
		if err == nil {
			allergies = stored
		} else {
			allergies = []string{}
		}
	}

	verdict := ac.scans.AnalyzeText(c.Request.Context(), uid, input.Ingredients, allergies)
	c.JSON(http.StatusOK, gin.H{"verdict": verdict})
}

// GET /scans?limit=20
func (ac *AnalysisController) ListScans(c *gin.Context) {
	uid := c.GetUint("userID")
	limit, _ := strconv.Atoi(c.Query("limit"))
	recs, err := services.ListScans(uid, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, recs)
}
