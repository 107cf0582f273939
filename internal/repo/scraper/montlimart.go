package scraper

import (
	"context"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/quentin418/clear-fashion/internal/models"
	"golang.org/x/time/rate"
)

const montlimartMaxPages = 9

// montlimart walks the paginated collection (?p=1, ?p=2, ...) until a page
// has no next link.
type montlimart struct {
	fetcher
	brand   string
	limiter *rate.Limiter
}

func NewMontlimart(brand string, client *resty.Client, limiter *rate.Limiter) Scraper {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &montlimart{fetcher: fetcher{client: client}, brand: brand, limiter: limiter}
}

func (s *montlimart) Brand() string {
	return s.brand
}

func (s *montlimart) Scrape(ctx context.Context, url string) ([]models.Product, error) {
	var all []models.Product
	for page := 1; page <= montlimartMaxPages; page++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		pageURL, err := withQuery(url, "p", strconv.Itoa(page))
		if err != nil {
			return nil, err
		}
		doc, err := s.fetchDocument(ctx, pageURL)
		if err != nil {
			return nil, err
		}
		products, hasNext := s.parse(pageURL, doc)
		all = append(all, products...)
		if !hasNext {
			break
		}
	}
	return all, nil
}

func (s *montlimart) parse(pageURL string, doc *goquery.Document) ([]models.Product, bool) {
	var products []models.Product
	doc.Find(".product-info").Each(func(_ int, sel *goquery.Selection) {
		anchor := sel.Find(".product-name a").First()
		href, _ := anchor.Attr("href")
		title, _ := anchor.Attr("title")
		price, ok := parsePrice(sel.Find(".price").First().Text())
		link, name := resolveLink(pageURL, href), cleanText(title)
		if link == "" || name == "" || !ok {
			return
		}
		product := models.NewProduct(s.brand, name, link, price)
		if src, exists := sel.Parent().Find("img").First().Attr("src"); exists {
			product.Photo = optional(resolveLink(pageURL, src))
		}
		products = append(products, product)
	})
	return products, doc.Find(".pages .next").Length() > 0
}
