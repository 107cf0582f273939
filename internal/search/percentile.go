package search

import (
	"math"

	"github.com/quentin418/clear-fashion/internal/models"
)

var byPriceDesc = SortSpec{Field: FieldPrice, Direction: Descending}

// Percentile returns the price at rank floor(len*p/100) of the products
// ordered from the most to the least expensive, the rank being clamped to
// the collection bounds. This is a nearest-rank value counted from the
// expensive end, not an interpolated statistical percentile; clients rely on
// this exact definition.
//
// It returns false for an empty collection.
func Percentile(p float64, products []models.Product) (float64, bool) {
	if len(products) == 0 {
		return 0, false
	}
	sorted := byPriceDesc.Sort(products)
	n := int(math.Floor(float64(len(sorted)) * p / 100))
	n = max(0, min(n, len(sorted)-1))
	return sorted[n].Price, true
}
