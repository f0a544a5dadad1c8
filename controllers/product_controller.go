package controllers

import (
	"errors"
	"net/http"

	"github.com/Musasteel/ProductScannerApp/models"
	"github.com/Musasteel/ProductScannerApp/services"
	"github.com/Musasteel/ProductScannerApp/utils"

	"github.com/gin-gonic/gin"
)

type ProductController struct {
	products *services.ProductService
	rek      *services.RekognitionService
}

func NewProductController(products *services.ProductService, rek *services.RekognitionService) *ProductController {
	return &ProductController{products: products, rek: rek}
}

// GET /products/:barcode
func (pc *ProductController) GetProduct(c *gin.Context) {
	product, err := pc.products.Lookup(c.Param("barcode"))
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unable to find product information"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, product)
}

// GET /products/search?q=granola
func (pc *ProductController) SearchProducts(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}
	out, err := pc.products.Search(q)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /products/recognize  { "image_base64": "data:…" }
func (pc *ProductController) RecognizeProduct(c *gin.Context) {
	var req struct {
		ImageBase64 string `json:"image_base64" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if pc.rek == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image recognition not configured"})
		return
	}
	out, err := pc.rek.RecognizeProduct(pc.products, req.ImageBase64)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

type ContributeInput struct {
	Barcode     string `json:"barcode" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Ingredients string `json:"ingredients"`
	ImageBase64 string `json:"image_base64"`
	Allergens   string `json:"allergens"`
}

// POST /products — contribute a product OFF doesn't know about.
func (pc *ProductController) ContributeProduct(c *gin.Context) {
	var input ContributeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	imageURL := ""
	if input.ImageBase64 != "" {
		url, err := utils.UploadProductImage(input.ImageBase64, input.Barcode)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload image: " + err.Error()})
			return
		}
		imageURL = url
	}

	ingredients := input.Ingredients
	if ingredients == "" {
		ingredients = utils.NoIngredientsSentinel
	}

	product := &models.Product{
		Barcode:     input.Barcode,
		Name:        input.Name,
		Ingredients: ingredients,
		ImageURL:    imageURL,
		Allergens:   input.Allergens,
	}
	if err := pc.products.Contribute(product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, product)
}
