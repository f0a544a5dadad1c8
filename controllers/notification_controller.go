package controllers

import (
	"net/http"
	"strconv"

	"github.com/Musasteel/ProductScannerApp/services"

	"github.com/gin-gonic/gin"
)

// GET /alerts
func ListAlerts(c *gin.Context) {
	uid := c.GetUint("userID")
	alerts, err := services.ListAlerts(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, alerts)
}

// POST /alerts/:id/read
func MarkAlertRead(c *gin.Context) {
	uid := c.GetUint("userID")
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert id"})
		return
	}
	if err := services.MarkAlertRead(uid, uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "alert marked read"})
}
