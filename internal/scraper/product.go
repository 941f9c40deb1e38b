package scraper

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fashiondata/musinsa-scraper/internal/browser"
	"github.com/fashiondata/musinsa-scraper/internal/images"
	"github.com/fashiondata/musinsa-scraper/internal/models"
	"github.com/fashiondata/musinsa-scraper/internal/parser"
)

const detailScrollSteps = 3

// ProductScraper collects one product at a time: open the product page,
// extract its fields, optionally download its images.
type ProductScraper struct {
	browser    *browser.Browser
	parser     parser.Parser
	downloader *images.Downloader
	logger     *slog.Logger
	baseURL    string
	maxRetries int
	maxImages  int
}

func NewProductScraper(b *browser.Browser, p parser.Parser, d *images.Downloader, baseURL string, maxRetries, maxImages int) *ProductScraper {
	if maxRetries < 1 {
		maxRetries = 3
	}

	return &ProductScraper{
		browser:    b,
		parser:     p,
		downloader: d,
		logger:     slog.Default().With("component", "product_scraper"),
		baseURL:    baseURL,
		maxRetries: maxRetries,
		maxImages:  maxImages,
	}
}

// Collect navigates to the product page, extracts the record and, when
// requested, downloads its images. Errors carry the offending product id
// for the caller to log; the caller decides whether to continue.
func (ps *ProductScraper) Collect(ctx context.Context, productID string, downloadImages bool) (*models.Product, error) {
	productURL := fmt.Sprintf("%s/products/%s", ps.baseURL, productID)
	ps.logger.Info("collecting product", "product_id", productID, "url", productURL)

	page, err := ps.browser.NewPage()
	if err != nil {
		return nil, &NavigationError{URL: productURL, Err: err}
	}
	defer page.Close()

	if err := ps.browser.NavigateWithRetry(page, productURL, ps.maxRetries); err != nil {
		return nil, &NavigationError{URL: productURL, Err: err}
	}

	// Detail images load as the page scrolls.
	ps.browser.ScrollToBottom(page, detailScrollSteps)

	html, err := page.Content()
	if err != nil {
		return nil, &NavigationError{URL: productURL, Err: err}
	}

	product, err := ps.parser.ParseProductPage(html, productID)
	if err != nil {
		return nil, err
	}
	product.URL = productURL

	if downloadImages && len(product.ImageURLs) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		product.DownloadedImages = ps.downloader.DownloadAll(ctx, product.ImageURLs, productID, ps.maxImages)
	}

	ps.logger.Info("product collected",
		"product_id", productID,
		"name", product.Name,
		"images", product.ImageCount,
		"downloaded", len(product.DownloadedImages))

	return product, nil
}
