package services

import (
	"errors"
	"fmt"

	"github.com/Musasteel/ProductScannerApp/models"

	"gorm.io/gorm"
)

// productCache is the document cache consulted when the upstream lookup fails
// and fed (asynchronously) when it succeeds.
type productCache interface {
	Get(barcode string) (*models.Product, error)
	Put(p *models.Product) error
}

type GormProductCache struct {
	db *gorm.DB
}

func NewGormProductCache(db *gorm.DB) *GormProductCache {
	return &GormProductCache{db: db}
}

func (c *GormProductCache) Get(barcode string) (*models.Product, error) {
	var p models.Product
	err := c.db.Where("barcode = ?", barcode).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Put inserts only when the barcode is not already cached.
func (c *GormProductCache) Put(p *models.Product) error {
	var existing models.Product
	err := c.db.Where("barcode = ?", p.Barcode).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return c.db.Create(p).Error
}

type ProductService struct {
	off    *OpenFoodFactsService
	cache  productCache
	writer *CacheWriter
}

func NewProductService(off *OpenFoodFactsService, cache productCache, writer *CacheWriter) *ProductService {
	return &ProductService{off: off, cache: cache, writer: writer}
}

// Lookup fetches a product by barcode, preferring Open Food Facts and falling
// back to the local cache when the upstream is unreachable. A successful
// upstream hit is queued for caching off the request path.
func (s *ProductService) Lookup(barcode string) (*models.Product, error) {
	p, err := s.off.FetchProduct(barcode)
	if err == nil {
		if s.writer != nil {
			s.writer.Enqueue(p)
		}
		return p, nil
	}

	if cached, cerr := s.cache.Get(barcode); cerr == nil {
		return cached, nil
	}

	if errors.Is(err, ErrProductNotFound) {
		return nil, ErrProductNotFound
	}
	return nil, fmt.Errorf("product lookup failed: %w", err)
}

func (s *ProductService) Search(query string) ([]models.Product, error) {
	return s.off.SearchProducts(query)
}

// Contribute stores a user-submitted product record directly in the cache.
func (s *ProductService) Contribute(p *models.Product) error {
	p.Source = "user"
	return s.cache.Put(p)
}
