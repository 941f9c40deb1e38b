package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/fashiondata/musinsa-scraper/internal/models"
)

var productIDPattern = regexp.MustCompile(`/products/(\d+)`)

// MusinsaParser extracts product fields from Musinsa pages.
type MusinsaParser struct {
	numberPattern *regexp.Regexp
}

func NewMusinsaParser() *MusinsaParser {
	return &MusinsaParser{
		numberPattern: regexp.MustCompile(`[\d,]+(?:\.\d+)?`),
	}
}

// ParseProductPage builds a product record from a product detail page.
// ProductID and name are required; the remaining fields default to
// zero/empty when absent. The returned record has no downloaded images.
func (p *MusinsaParser) ParseProductPage(html string, productID string) (*models.Product, error) {
	if productID == "" {
		return nil, &ParseError{ProductID: productID, Field: "product_id"}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ParseError{ProductID: productID, Field: "document", Err: err}
	}

	product := models.NewProduct(productID)

	product.Name = strings.TrimSpace(doc.Find("span.product_title").First().Text())
	if product.Name == "" {
		return nil, &ParseError{ProductID: productID, Field: "product_name"}
	}

	product.Brand = strings.TrimSpace(doc.Find("p.product_article a").First().Text())
	product.Description = strings.TrimSpace(doc.Find("p.product_summary").First().Text())

	if priceText := doc.Find("span.product_price span").First().Text(); priceText != "" {
		product.Price = p.parseNumber(priceText)
	}

	if discountText := doc.Find("span.product_article_price span.product_discount").First().Text(); discountText != "" {
		product.DiscountRate = p.parseNumber(discountText)
	}

	doc.Find("p.product_article span").Each(func(_ int, s *goquery.Selection) {
		if category := strings.TrimSpace(s.Text()); category != "" {
			product.Categories = append(product.Categories, category)
		}
	})

	product.ImageURLs = p.extractImageURLs(doc)
	product.ImageCount = len(product.ImageURLs)

	return product, nil
}

// ExtractProductIDs pulls product identifiers from /products/<id> anchors,
// deduplicated in discovery order. A max of zero or less means unbounded.
func (p *MusinsaParser) ExtractProductIDs(html string, max int) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	ids := make([]string, 0)
	seen := make(map[string]bool)

	doc.Find(`a[href*="/products/"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		matches := productIDPattern.FindStringSubmatch(href)
		if len(matches) < 2 {
			return true
		}

		id := matches[1]
		if seen[id] {
			return true
		}
		seen[id] = true
		ids = append(ids, id)

		return max <= 0 || len(ids) < max
	})

	return ids
}

// extractImageURLs collects image URLs in display order: main product
// images, gallery thumbnails upscaled to their originals, then detail
// images further down the page.
func (p *MusinsaParser) extractImageURLs(doc *goquery.Document) []string {
	urls := make([]string, 0)
	seen := make(map[string]bool)

	add := func(src string) {
		if src == "" || !strings.HasPrefix(src, "http") || seen[src] {
			return
		}
		seen[src] = true
		urls = append(urls, src)
	}

	doc.Find("div.product-img img").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		add(src)
	})

	doc.Find("ul.product_thumb img").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		// Thumbnail URLs carry a _125. size suffix; the original asset
		// lives at _500.
		add(strings.Replace(src, "_125.", "_500.", 1))
	})

	doc.Find("div.detail_info img").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		add(src)
	})

	return urls
}

// parseNumber extracts the first numeric token from text like "39,900원"
// or "15%", tolerating thousands separators.
func (p *MusinsaParser) parseNumber(text string) float64 {
	match := p.numberPattern.FindString(text)
	if match == "" {
		return 0
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return 0
	}

	return value
}
