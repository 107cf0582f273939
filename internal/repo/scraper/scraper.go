package scraper

import (
	"context"
	"slices"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/quentin418/clear-fashion/internal/models"
	"golang.org/x/time/rate"
)

const (
	BrandDedicated    = "dedicated"
	BrandMontlimart   = "montlimart"
	BrandAdresseParis = "adresseparis"
)

// Scraper collects the products listed at one partner e-shop url.
type Scraper interface {
	Brand() string
	Scrape(ctx context.Context, url string) ([]models.Product, error)
}

type Registry interface {
	Register(scraper Scraper)
	Get(brand string) (Scraper, bool)
	Brands() []string
}

type registry struct {
	scrapers map[string]Scraper
	mu       sync.RWMutex
}

func NewRegistry(scrapers ...Scraper) Registry {
	r := &registry{
		scrapers: make(map[string]Scraper, len(scrapers)),
	}
	for _, s := range scrapers {
		r.Register(s)
	}
	return r
}

// NewDefaultRegistry registers a scraper for every supported partner shop.
func NewDefaultRegistry(client *resty.Client, limiter *rate.Limiter) Registry {
	return NewRegistry(
		NewDedicated(BrandDedicated, client),
		NewMontlimart(BrandMontlimart, client, limiter),
		NewAdresseParis(BrandAdresseParis, client),
	)
}

func (r *registry) Register(scraper Scraper) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scrapers[scraper.Brand()] = scraper
}

func (r *registry) Get(brand string) (Scraper, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	scraper, exists := r.scrapers[brand]
	return scraper, exists
}

func (r *registry) Brands() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	brands := make([]string, 0, len(r.scrapers))
	for brand := range r.scrapers {
		brands = append(brands, brand)
	}
	slices.Sort(brands)
	return brands
}
