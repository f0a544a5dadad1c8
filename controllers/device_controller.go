package controllers

import (
	"net/http"

	"github.com/Musasteel/ProductScannerApp/services"

	"github.com/gin-gonic/gin"
)

type DeviceController struct {
	push *services.PushService
}

func NewDeviceController(push *services.PushService) *DeviceController {
	return &DeviceController{push: push}
}

// POST /devices  { "platform": "android", "token": "…" }
func (dc *DeviceController) RegisterDevice(c *gin.Context) {
	uid := c.GetUint("userID")

	var input struct {
		Platform string `json:"platform" binding:"required"`
		Token    string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if dc.push == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "push notifications not configured"})
		return
	}

	dev, err := dc.push.RegisterDevice(uid, input.Platform, input.Token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dev)
}
