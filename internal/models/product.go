package models

import (
	"time"
)

// Product is one collected product listing. Created once per successfully
// extracted product; only DownloadedImages is appended to after creation,
// as image downloads complete.
type Product struct {
	ProductID        string    `json:"product_id"`
	Name             string    `json:"product_name"`
	Brand            string    `json:"brand"`
	TargetBrand      string    `json:"target_brand,omitempty"`
	Price            float64   `json:"price"`
	DiscountRate     float64   `json:"discount_rate"`
	Description      string    `json:"description"`
	Categories       []string  `json:"categories"`
	URL              string    `json:"url"`
	ImageURLs        []string  `json:"image_urls"`
	ImageCount       int       `json:"image_count"`
	DownloadedImages []string  `json:"downloaded_images"`
	ScrapedAt        time.Time `json:"scraped_at"`
}

// BrandJob scopes one brand's collection run. Read-only during the run.
type BrandJob struct {
	Brand          string
	MaxProducts    int
	DownloadImages bool
}

// RunSummary aggregates the outcome of a pipeline run.
type RunSummary struct {
	TotalProducts      int            `json:"total_products"`
	ProductsWithImages int            `json:"products_with_images"`
	TotalImages        int            `json:"total_images"`
	Brands             map[string]int `json:"brands,omitempty"`
}

func NewProduct(productID string) *Product {
	return &Product{
		ProductID:        productID,
		Categories:       make([]string, 0),
		ImageURLs:        make([]string, 0),
		DownloadedImages: make([]string, 0),
		ScrapedAt:        time.Now(),
	}
}

// Validate reports the invariants a record must satisfy before it may
// enter the result table.
func (p *Product) Validate() []string {
	var problems []string

	if p.ProductID == "" {
		problems = append(problems, "product ID is required")
	}

	if p.Name == "" {
		problems = append(problems, "product name is required")
	}

	if p.DiscountRate < 0 || p.DiscountRate > 100 {
		problems = append(problems, "discount rate must be between 0 and 100")
	}

	if len(p.DownloadedImages) > len(p.ImageURLs) {
		problems = append(problems, "more downloaded images than image URLs")
	}

	return problems
}

func (p *Product) HasImages() bool {
	return len(p.DownloadedImages) > 0
}
