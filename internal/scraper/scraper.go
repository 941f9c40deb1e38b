package scraper

import (
	"context"
	"fmt"

	"github.com/fashiondata/musinsa-scraper/internal/models"
)

// Navigator discovers product identifiers for a brand or for the
// site-wide recommendation listing. The returned sequence is finite,
// bounded by max, in discovery order; restarting means a fresh call.
type Navigator interface {
	BrandProducts(ctx context.Context, brand string, max int) ([]string, error)
	RecommendProducts(ctx context.Context, gender string, max int) ([]string, error)
}

// Collector assembles one complete product record from its identifier.
type Collector interface {
	Collect(ctx context.Context, productID string, downloadImages bool) (*models.Product, error)
}

// NavigationError reports an unreachable search page or an unrecognized
// page layout. It aborts only the brand job that raised it.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigate %s: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}
