package usecase

import (
	"context"

	"github.com/quentin418/clear-fashion/internal/models"
)

// ProductPublisher announces freshly scraped products to other services.
type ProductPublisher interface {
	PublishProducts(ctx context.Context, products []models.Product) error
}
