package parser

import (
	"github.com/fashiondata/musinsa-scraper/internal/models"
)

// Parser turns a loaded product or listing document into structured data.
// Implementations are pure functions of the HTML: no network, no
// filesystem access.
type Parser interface {
	ParseProductPage(html string, productID string) (*models.Product, error)
	ExtractProductIDs(html string, max int) []string
}
