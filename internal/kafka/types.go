package kafka

import (
	"fmt"
	"time"

	"github.com/quentin418/clear-fashion/internal/models"
)

const PatternProductScraped = "product.scraped"

// ProductEvent is the payload published for every scraped product.
type ProductEvent struct {
	Pattern   string         `json:"pattern"`
	Data      models.Product `json:"data"`
	ScrapedAt time.Time      `json:"scraped_at"`
}

// ErrRetry represents a retryable error with a delay
type ErrRetry struct {
	Err   error
	Delay time.Duration
}

func (e *ErrRetry) Error() string {
	return fmt.Sprintf("retry after %v: %v", e.Delay, e.Err)
}

func (e *ErrRetry) Unwrap() error {
	return e.Err
}

func NewRetryError(err error, delay time.Duration) *ErrRetry {
	return &ErrRetry{
		Err:   err,
		Delay: delay,
	}
}
