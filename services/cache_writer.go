package services

import (
	"log"
	"sync"

	"github.com/Musasteel/ProductScannerApp/models"
)

// CacheWriter persists looked-up products in the background so the lookup
// response never waits on, or fails because of, a cache write.
type CacheWriter struct {
	cache productCache
	queue chan *models.Product
	wg    sync.WaitGroup

	closeOnce sync.Once
}

func NewCacheWriter(cache productCache, buffer int) *CacheWriter {
	if buffer <= 0 {
		buffer = 64
	}
	w := &CacheWriter{
		cache: cache,
		queue: make(chan *models.Product, buffer),
	}
	w.wg.Add(1)
	go w.run()
	return w
}

// Enqueue hands a product to the writer without blocking. When the buffer is
// full the write is dropped; the next lookup of that barcode will re-enqueue it.
func (w *CacheWriter) Enqueue(p *models.Product) {
	select {
	case w.queue <- p:
	default:
		log.Printf("cache writer queue full, dropping write for barcode %s", p.Barcode)
	}
}

func (w *CacheWriter) run() {
	defer w.wg.Done()
	for p := range w.queue {
		if err := w.cache.Put(p); err != nil {
			log.Printf("failed to cache product %s: %v", p.Barcode, err)
		}
	}
}

// Close drains pending writes and stops the worker.
func (w *CacheWriter) Close() {
	w.closeOnce.Do(func() {
		close(w.queue)
	})
	w.wg.Wait()
}
