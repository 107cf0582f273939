package usecase

import (
	"github.com/go-playground/validator/v10"
	"github.com/quentin418/clear-fashion/internal/models"
	"github.com/quentin418/clear-fashion/pkg/util"
)

var validate = validator.New()

// keepValid drops the products the catalog would not accept and returns the
// number dropped.
func keepValid(products []models.Product) ([]models.Product, int) {
	out := util.FilterList(products, func(p models.Product) bool {
		return validate.Struct(p) == nil
	})
	return out, len(products) - len(out)
}
