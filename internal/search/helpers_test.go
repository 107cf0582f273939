package search

import (
	"fmt"

	"github.com/quentin418/clear-fashion/internal/models"
)

func released(date string) *string {
	return &date
}

// catalog returns products priced like the front-end sample set.
func catalog() []models.Product {
	prices := []float64{45, 45, 85, 85, 85, 110, 110, 45}
	dates := []string{"2021-01-10", "2021-03-02", "", "2021-02-14", "2021-03-02", "2020-12-24", "2021-01-30", ""}
	brands := []string{"dedicated", "montlimart", "adresseparis", "dedicated", "montlimart", "adresseparis", "dedicated", "montlimart"}
	products := make([]models.Product, len(prices))
	for i := range prices {
		link := fmt.Sprintf("https://shop.example.com/p/%d", i)
		products[i] = models.NewProduct(brands[i], fmt.Sprintf("product %d", i), link, prices[i])
		if dates[i] != "" {
			products[i].Released = released(dates[i])
		}
	}
	return products
}

func numbered(n int) []models.Product {
	products := make([]models.Product, n)
	for i := range products {
		products[i] = models.NewProduct("dedicated", fmt.Sprintf("item %d", i), fmt.Sprintf("https://shop.example.com/%d", i), float64(i))
	}
	return products
}

func prices(products []models.Product) []float64 {
	out := make([]float64, len(products))
	for i, p := range products {
		out[i] = p.Price
	}
	return out
}

func names(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}
