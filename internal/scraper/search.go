package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/playwright-community/playwright-go"

	"github.com/fashiondata/musinsa-scraper/internal/browser"
	"github.com/fashiondata/musinsa-scraper/internal/parser"
)

const (
	productLinkSelector = `a[href*="/products/"]`
	listingScrollSteps  = 5
)

// BrandCrawler drives a browser session to brand search results and the
// recommendation listing and extracts product identifiers.
type BrandCrawler struct {
	browser    *browser.Browser
	parser     parser.Parser
	logger     *slog.Logger
	baseURL    string
	maxRetries int
}

func NewBrandCrawler(b *browser.Browser, p parser.Parser, baseURL string, maxRetries int) *BrandCrawler {
	if maxRetries < 1 {
		maxRetries = 3
	}

	return &BrandCrawler{
		browser:    b,
		parser:     p,
		logger:     slog.Default().With("component", "brand_crawler"),
		baseURL:    baseURL,
		maxRetries: maxRetries,
	}
}

// BrandProducts searches for brand and returns up to max product ids in
// discovery order. A brand with no matching listings yields an empty
// result, not an error.
func (c *BrandCrawler) BrandProducts(ctx context.Context, brand string, max int) ([]string, error) {
	if max <= 0 {
		return nil, nil
	}

	searchURL := fmt.Sprintf("%s/search/goods?keyword=%s", c.baseURL, url.QueryEscape(brand))
	c.logger.Info("searching brand", "brand", brand, "url", searchURL)

	ids, err := c.collectListingIDs(ctx, searchURL, max)
	if err != nil {
		return nil, err
	}

	c.logger.Info("brand search complete", "brand", brand, "products", len(ids))
	return ids, nil
}

// RecommendProducts returns up to max product ids from the site-wide
// recommendation listing. gender is A (all), M or W.
func (c *BrandCrawler) RecommendProducts(ctx context.Context, gender string, max int) ([]string, error) {
	if max <= 0 {
		return nil, nil
	}
	if gender == "" {
		gender = "A"
	}

	recommendURL := fmt.Sprintf("%s/main/musinsa/recommend?gf=%s", c.baseURL, url.QueryEscape(gender))
	c.logger.Info("loading recommendation listing", "url", recommendURL)

	ids, err := c.collectListingIDs(ctx, recommendURL, max)
	if err != nil {
		return nil, err
	}

	c.logger.Info("recommendation listing complete", "products", len(ids))
	return ids, nil
}

func (c *BrandCrawler) collectListingIDs(ctx context.Context, listingURL string, max int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := c.browser.NewPage()
	if err != nil {
		return nil, &NavigationError{URL: listingURL, Err: err}
	}
	defer page.Close()

	if err := c.browser.NavigateWithRetry(page, listingURL, c.maxRetries); err != nil {
		return nil, &NavigationError{URL: listingURL, Err: err}
	}

	// The listing is lazily rendered; a missing product-link selector
	// after load means the layout is not the one we know.
	if _, err := page.WaitForSelector(productLinkSelector, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		return nil, &NavigationError{URL: listingURL, Err: fmt.Errorf("unrecognized listing layout: %w", err)}
	}

	c.browser.ScrollToBottom(page, listingScrollSteps)

	html, err := page.Content()
	if err != nil {
		return nil, &NavigationError{URL: listingURL, Err: err}
	}

	return c.parser.ExtractProductIDs(html, max), nil
}
