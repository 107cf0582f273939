package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/quentin418/clear-fashion/internal/models"
	"github.com/quentin418/clear-fashion/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newTestClient() *resty.Client {
	return util.NewRestyClient(util.RestyOptions{Timeout: 2 * time.Second})
}

func names(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func TestDedicated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"products":[
			{"name":"Tee-shirt Stockholm","canonicalUri":"men/t-shirt-stockholm","price":{"price":29.99},"image":["https://cdn.example.com/a.jpg"]},
			{"canonicalUri":"men/no-name","price":{"price":10}},
			{"name":"Sweatshirt  Sundsvall","canonicalUri":"/men/sweat","price":{"price":"79.5"},"image":[]}
		]}`))
	}))
	defer srv.Close()

	products, err := NewDedicated(BrandDedicated, newTestClient()).Scrape(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, products, 2)

	first := products[0]
	assert.Equal(t, "Tee-shirt Stockholm", first.Name)
	assert.Equal(t, "dedicated", first.Brand)
	assert.Equal(t, "https://www.dedicatedbrand.com/en/men/t-shirt-stockholm", first.Link)
	assert.Equal(t, models.ProductID(first.Link), first.ID)
	assert.Equal(t, 29.99, first.Price)
	require.NotNil(t, first.Photo)
	assert.Equal(t, "https://cdn.example.com/a.jpg", *first.Photo)

	second := products[1]
	assert.Equal(t, "Sweatshirt Sundsvall", second.Name)
	assert.Equal(t, "https://www.dedicatedbrand.com/en/men/sweat", second.Link)
	assert.Equal(t, 79.5, second.Price)
	assert.Nil(t, second.Photo)
}

func TestDedicatedInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer srv.Close()

	_, err := NewDedicated(BrandDedicated, newTestClient()).Scrape(context.Background(), srv.URL)
	assert.Error(t, err)
}

const montlimartPage = `<html><body><ul>
<li><div class="product-image"><img src="/media/%[1]d.jpg"></div>
<div class="product-info"><h2 class="product-name"><a href="/product-%[1]d.html" title="Veste   n°%[1]d">Veste</a></h2><span class="price">%[1]d5,00 €</span></div></li>
</ul>%[2]s</body></html>`

func fmtPage(w http.ResponseWriter, n int, pager string) (int, error) {
	return fmt.Fprintf(w, montlimartPage, n, pager)
}

func TestMontlimartFollowsPages(t *testing.T) {
	var (
		mu    sync.Mutex
		pages []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("p")
		mu.Lock()
		pages = append(pages, page)
		mu.Unlock()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		switch page {
		case "1":
			_, _ = fmtPage(w, 1, `<div class="pages"><a class="next" href="?p=2">next</a></div>`)
		case "2":
			_, _ = fmtPage(w, 2, "")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	scraper := NewMontlimart(BrandMontlimart, newTestClient(), rate.NewLimiter(rate.Inf, 1))
	products, err := scraper.Scrape(context.Background(), srv.URL+"/toute-la-collection.html")
	require.NoError(t, err)

	mu.Lock()
	assert.Equal(t, []string{"1", "2"}, pages)
	mu.Unlock()
	assert.Equal(t, []string{"Veste n°1", "Veste n°2"}, names(products))
	assert.Equal(t, srv.URL+"/product-1.html", products[0].Link)
	assert.Equal(t, 15.0, products[0].Price)
	assert.Equal(t, 25.0, products[1].Price)
	require.NotNil(t, products[1].Photo)
	assert.Equal(t, srv.URL+"/media/2.jpg", *products[1].Photo)
}

func TestMontlimartStopsAtMaxPages(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		_, _ = fmtPage(w, int(n), `<div class="pages"><a class="next">next</a></div>`)
	}))
	defer srv.Close()

	products, err := NewMontlimart(BrandMontlimart, newTestClient(), nil).Scrape(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, int32(montlimartMaxPages), calls.Load())
	assert.Len(t, products, montlimartMaxPages)
}

func TestMontlimartPageFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewMontlimart(BrandMontlimart, newTestClient(), nil).Scrape(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestAdresseParisDecodesCharset(t *testing.T) {
	// "Robe brodée" and "Chemise" encoded as ISO-8859-1.
	page := []byte("<html><body>" +
		`<div class="product-container"><div class="left-block"><a class="product_img_link" href="/img/robe.jpg"></a></div>` +
		`<div class="right-block"><a class="product-name" href="/robe.html" title="Robe brod` + "\xe9" + `e">Robe</a><span class="price">120,00 ` + "\xa4" + `</span></div></div>` +
		`<div class="product-container"><div class="right-block"><a class="product-name" href="/chemise.html" title="Chemise"></a><span class="price">65</span></div></div>` +
		`<div class="product-container"><div class="right-block"><a class="product-name" href="/sans-nom.html"></a><span class="price">10</span></div></div>` +
		`<div class="product-container"><div class="right-block"><a class="product-name" href="/sans-prix.html" title="Pull"></a><span class="price">épuisé</span></div></div>` +
		"</body></html>")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		_, _ = w.Write(page)
	}))
	defer srv.Close()

	products, err := NewAdresseParis(BrandAdresseParis, newTestClient()).Scrape(context.Background(), srv.URL+"/630-toute-la-collection")
	require.NoError(t, err)
	require.Equal(t, []string{"Robe brodée", "Chemise"}, names(products))

	robe := products[0]
	assert.Equal(t, "adresseparis", robe.Brand)
	assert.Equal(t, srv.URL+"/robe.html", robe.Link)
	assert.Equal(t, 120.0, robe.Price)
	require.NotNil(t, robe.Photo)
	assert.Equal(t, srv.URL+"/img/robe.jpg", *robe.Photo)
	assert.Nil(t, products[1].Photo)
}

func TestRegistry(t *testing.T) {
	registry := NewDefaultRegistry(newTestClient(), nil)
	assert.Equal(t, []string{"adresseparis", "dedicated", "montlimart"}, registry.Brands())

	s, ok := registry.Get(BrandMontlimart)
	require.True(t, ok)
	assert.Equal(t, BrandMontlimart, s.Brand())

	_, ok = registry.Get("unknown")
	assert.False(t, ok)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"45,00 €", 45, true},
		{" 1 290,50 €", 1290.5, true},
		{"1 290,50 €", 1290.5, true},
		{"1\u202f290,50\u00a0€", 1290.5, true},
		{"12\t500 €", 12500, true},
		{"79.9", 79.9, true},
		{"€", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := parsePrice(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
