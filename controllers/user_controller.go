package controllers

import (
	"net/http"

	"github.com/Musasteel/ProductScannerApp/services"

	"github.com/gin-gonic/gin"
)

type ProfileInput struct {
	FullName   string   `json:"full_name"`
	Allergies  []string `json:"allergies"`
	Conditions []string `json:"conditions"`
}

func GetProfile(c *gin.Context) {
	email := c.GetString("email")
	profile, err := services.GetUserProfile(email)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func UpdateProfile(c *gin.Context) {
	email := c.GetString("email")
	var input ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := services.UpdateUserProfile(email, input.FullName, input.Allergies, input.Conditions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "profile updated successfully"})
}

// GET /user/allergies
func GetAllergies(c *gin.Context) {
	uid := c.GetUint("userID")
	allergies, err := services.GetAllergies(uid)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"allergies": allergies})
}

// PUT /user/allergies  { "allergies": ["peanut", "lactose intolerance"] }
func SetAllergies(c *gin.Context) {
	uid := c.GetUint("userID")
	var input struct {
		Allergies []string `json:"allergies"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if err := services.SetAllergies(uid, input.Allergies); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "allergies updated"})
}
