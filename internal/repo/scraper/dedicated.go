package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/quentin418/clear-fashion/internal/models"
	"github.com/tidwall/gjson"
)

const dedicatedLinkPrefix = "https://www.dedicatedbrand.com/en/"

// dedicated reads the product listing api of the shop instead of its html.
type dedicated struct {
	fetcher
	brand string
}

func NewDedicated(brand string, client *resty.Client) Scraper {
	return &dedicated{fetcher: fetcher{client: client}, brand: brand}
}

func (s *dedicated) Brand() string {
	return s.brand
}

func (s *dedicated) Scrape(ctx context.Context, url string) ([]models.Product, error) {
	body, err := s.fetchBody(ctx, url)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("dedicated: invalid json from %s", url)
	}
	return s.parse(body), nil
}

func (s *dedicated) parse(body []byte) []models.Product {
	var products []models.Product
	gjson.GetBytes(body, "products").ForEach(func(_, item gjson.Result) bool {
		name := cleanText(item.Get("name").String())
		uri := strings.TrimPrefix(item.Get("canonicalUri").String(), "/")
		if name == "" || uri == "" {
			return true
		}
		product := models.NewProduct(s.brand, name, dedicatedLinkPrefix+uri, item.Get("price.price").Float())
		product.Photo = optional(item.Get("image.0").String())
		products = append(products, product)
		return true
	})
	return products
}
