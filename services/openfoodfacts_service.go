package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Musasteel/ProductScannerApp/models"
	"github.com/Musasteel/ProductScannerApp/utils"
)

type OpenFoodFactsService struct {
	baseURL string
	client  *http.Client
}

// NewOpenFoodFactsService initializes the lookup client. The short timeout is
// deliberate: a slow upstream should push callers onto the local cache.
func NewOpenFoodFactsService() *OpenFoodFactsService {
	return &OpenFoodFactsService{
		baseURL: "https://world.openfoodfacts.org",
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

type offProductResponse struct {
	Status  int `json:"status"`
	Product struct {
		ProductName     string   `json:"product_name"`
		IngredientsText string   `json:"ingredients_text"`
		ImageURL        string   `json:"image_url"`
		AllergensTags   []string `json:"allergens_tags"`
	} `json:"product"`
}

// FetchProduct calls the Open Food Facts product-by-barcode endpoint.
// Returns ErrProductNotFound when OFF reports no match (status != 1).
func (s *OpenFoodFactsService) FetchProduct(barcode string) (*models.Product, error) {
	u := fmt.Sprintf("%s/api/v0/product/%s.json", s.baseURL, url.PathEscape(barcode))

	resp, err := s.client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("failed to call Open Food Facts: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Open Food Facts response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("open food facts API error %d: %s", resp.StatusCode, string(body))
	}

	var pr offProductResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("failed to parse Open Food Facts JSON: %w", err)
	}
	if pr.Status != 1 {
		return nil, ErrProductNotFound
	}

	return &models.Product{
		Barcode:     barcode,
		Name:        orDefault(pr.Product.ProductName, "Unknown Product"),
		Ingredients: orDefault(pr.Product.IngredientsText, utils.NoIngredientsSentinel),
		ImageURL:    pr.Product.ImageURL,
		Allergens:   strings.Join(pr.Product.AllergensTags, ","),
		Source:      "openfoodfacts",
	}, nil
}

type offSearchResponse struct {
	Products []struct {
		Code            string   `json:"code"`
		ProductName     string   `json:"product_name"`
		IngredientsText string   `json:"ingredients_text"`
		ImageURL        string   `json:"image_url"`
		AllergensTags   []string `json:"allergens_tags"`
	} `json:"products"`
}

// SearchProducts runs a free-text name search against OFF.
func (s *OpenFoodFactsService) SearchProducts(query string) ([]models.Product, error) {
	u := fmt.Sprintf(
		"%s/cgi/search.pl?search_terms=%s&search_simple=1&action=process&json=1&page_size=10",
		s.baseURL, url.QueryEscape(query),
	)

	resp, err := s.client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("failed to call Open Food Facts search: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("open food facts search error %d: %s", resp.StatusCode, string(body))
	}

	var sr offSearchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("failed to parse search JSON: %w", err)
	}

	results := make([]models.Product, 0, len(sr.Products))
	for _, p := range sr.Products {
		results = append(results, models.Product{
			Barcode:     p.Code,
			Name:        orDefault(p.ProductName, "Unknown Product"),
			Ingredients: orDefault(p.IngredientsText, utils.NoIngredientsSentinel),
			ImageURL:    p.ImageURL,
			Allergens:   strings.Join(p.AllergensTags, ","),
			Source:      "openfoodfacts",
		})
	}
	return results, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
