package services

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Musasteel/ProductScannerApp/models"
	"github.com/Musasteel/ProductScannerApp/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	mu       sync.Mutex
	products map[string]*models.Product
	putErr   error
	puts     int
}

func newFakeCache() *fakeCache {
	return &fakeCache{products: make(map[string]*models.Product)}
}

func (c *fakeCache) Get(barcode string) (*models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.products[barcode]; ok {
		return p, nil
	}
	return nil, ErrProductNotFound
}

func (c *fakeCache) Put(p *models.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.puts++
	if c.putErr != nil {
		return c.putErr
	}
	c.products[p.Barcode] = p
	return nil
}

func newTestOFF(baseURL string) *OpenFoodFactsService {
	return &OpenFoodFactsService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 2 * time.Second},
	}
}

func TestFetchProductMapsFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v0/product/737628064502.json", r.URL.Path)
		fmt.Fprint(w, `{
			"status": 1,
			"product": {
				"product_name": "Rice Noodles",
				"ingredients_text": "Rice, water, salt",
				"image_url": "https://images.example/rice.jpg",
				"allergens_tags": ["en:gluten", "en:soy"]
			}
		}`)
	}))
	defer srv.Close()

	off := newTestOFF(srv.URL)
	p, err := off.FetchProduct("737628064502")

	require.NoError(t, err)
	assert.Equal(t, "737628064502", p.Barcode)
	assert.Equal(t, "Rice Noodles", p.Name)
	assert.Equal(t, "Rice, water, salt", p.Ingredients)
	assert.Equal(t, "https://images.example/rice.jpg", p.ImageURL)
	assert.Equal(t, "en:gluten,en:soy", p.Allergens)
	assert.Equal(t, "openfoodfacts", p.Source)
}

func TestFetchProductMissingFieldsGetDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": 1, "product": {}}`)
	}))
	defer srv.Close()

	off := newTestOFF(srv.URL)
	p, err := off.FetchProduct("000")

	require.NoError(t, err)
	assert.Equal(t, "Unknown Product", p.Name)
	assert.Equal(t, utils.NoIngredientsSentinel, p.Ingredients)
}

func TestFetchProductNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": 0, "status_verbose": "product not found"}`)
	}))
	defer srv.Close()

	off := newTestOFF(srv.URL)
	_, err := off.FetchProduct("404404404")
	assert.True(t, errors.Is(err, ErrProductNotFound))
}

func TestLookupQueuesCacheWrite(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": 1, "product": {"product_name": "Granola"}}`)
	}))
	defer srv.Close()

	cache := newFakeCache()
	writer := NewCacheWriter(cache, 8)
	svc := NewProductService(newTestOFF(srv.URL), cache, writer)

	p, err := svc.Lookup("12345")
	require.NoError(t, err)
	assert.Equal(t, "Granola", p.Name)

	writer.Close()
	cached, err := cache.Get("12345")
	require.NoError(t, err)
	assert.Equal(t, "Granola", cached.Name)
}

func TestLookupFallsBackToCacheWhenUpstreamDown(t *testing.T) {
	srv := httptest.NewServer(nil)
	srv.Close() // refuse all connections

	cache := newFakeCache()
	cache.products["999"] = &models.Product{Barcode: "999", Name: "Cached Crackers"}

	svc := NewProductService(newTestOFF(srv.URL), cache, nil)

	p, err := svc.Lookup("999")
	require.NoError(t, err)
	assert.Equal(t, "Cached Crackers", p.Name)
}

func TestLookupPropagatesTransportErrorWhenNotCached(t *testing.T) {
	srv := httptest.NewServer(nil)
	srv.Close()

	svc := NewProductService(newTestOFF(srv.URL), newFakeCache(), nil)

	_, err := svc.Lookup("999")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrProductNotFound))
}

func TestLookupNotFoundWhenUpstreamAndCacheMiss(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": 0}`)
	}))
	defer srv.Close()

	svc := NewProductService(newTestOFF(srv.URL), newFakeCache(), nil)

	_, err := svc.Lookup("404")
	assert.True(t, errors.Is(err, ErrProductNotFound))
}

func TestCacheWriterFailureIsInvisibleToCaller(t *testing.T) {
	cache := newFakeCache()
	cache.putErr = errors.New("disk on fire")
	writer := NewCacheWriter(cache, 8)

	writer.Enqueue(&models.Product{Barcode: "1"})
	writer.Close()

	assert.Equal(t, 1, cache.puts)
}

func TestCacheWriterDropsWhenFull(t *testing.T) {
	cache := newFakeCache()
	writer := &CacheWriter{cache: cache, queue: make(chan *models.Product)} // no worker, zero buffer

	// must not block
	done := make(chan struct{})
	go func() {
		writer.Enqueue(&models.Product{Barcode: "1"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
}

func TestSearchProductsMapsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "granola", r.URL.Query().Get("search_terms"))
		fmt.Fprint(w, `{"products": [
			{"code": "111", "product_name": "Granola Crunch", "ingredients_text": "oats, honey"},
			{"code": "222", "product_name": ""}
		]}`)
	}))
	defer srv.Close()

	off := newTestOFF(srv.URL)
	results, err := off.SearchProducts("granola")

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Granola Crunch", results[0].Name)
	assert.Equal(t, "oats, honey", results[0].Ingredients)
	assert.Equal(t, "Unknown Product", results[1].Name)
	assert.Equal(t, utils.NoIngredientsSentinel, results[1].Ingredients)
}
