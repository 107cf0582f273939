package scraper

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/quentin418/clear-fashion/internal/models"
)

type adresseParis struct {
	fetcher
	brand string
}

func NewAdresseParis(brand string, client *resty.Client) Scraper {
	return &adresseParis{fetcher: fetcher{client: client}, brand: brand}
}

func (s *adresseParis) Brand() string {
	return s.brand
}

func (s *adresseParis) Scrape(ctx context.Context, url string) ([]models.Product, error) {
	doc, err := s.fetchDocument(ctx, url)
	if err != nil {
		return nil, err
	}
	return s.parse(url, doc), nil
}

func (s *adresseParis) parse(pageURL string, doc *goquery.Document) []models.Product {
	var products []models.Product
	doc.Find(".right-block").Each(func(_ int, sel *goquery.Selection) {
		anchor := sel.Find(".product-name").First()
		href, _ := anchor.Attr("href")
		title, _ := anchor.Attr("title")
		if title == "" {
			title = anchor.Text()
		}
		price, ok := parsePrice(sel.Find(".price").First().Text())
		link, name := resolveLink(pageURL, href), cleanText(title)
		if link == "" || name == "" || !ok {
			return
		}
		product := models.NewProduct(s.brand, name, link, price)
		if photo, exists := sel.Parent().Find(".product_img_link").First().Attr("href"); exists {
			product.Photo = optional(resolveLink(pageURL, photo))
		}
		products = append(products, product)
	})
	return products
}
