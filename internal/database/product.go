package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fashiondata/musinsa-scraper/internal/models"
)

// Schema expected by the sink:
//
//	CREATE TABLE IF NOT EXISTS products (
//	    product_id        TEXT PRIMARY KEY,
//	    product_name      TEXT NOT NULL,
//	    brand             TEXT,
//	    target_brand      TEXT,
//	    price             DOUBLE PRECISION,
//	    discount_rate     DOUBLE PRECISION,
//	    description       TEXT,
//	    categories        JSONB,
//	    url               TEXT,
//	    image_urls        JSONB,
//	    image_count       INT,
//	    downloaded_images JSONB,
//	    scraped_at        TIMESTAMPTZ,
//	    created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
//	    updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
//	);

// SaveProduct upserts one completed record keyed by product id. The
// in-memory result table stays the source of truth for file exports;
// this is an additional sink.
func (db *DB) SaveProduct(ctx context.Context, p *models.Product) error {
	categories, err := json.Marshal(p.Categories)
	if err != nil {
		return fmt.Errorf("failed to marshal categories: %w", err)
	}

	imageURLs, err := json.Marshal(p.ImageURLs)
	if err != nil {
		return fmt.Errorf("failed to marshal image urls: %w", err)
	}

	downloaded, err := json.Marshal(p.DownloadedImages)
	if err != nil {
		return fmt.Errorf("failed to marshal downloaded images: %w", err)
	}

	query := `
		INSERT INTO products (
			product_id, product_name, brand, target_brand, price, discount_rate,
			description, categories, url, image_urls, image_count, downloaded_images, scraped_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (product_id) DO UPDATE SET
			product_name = EXCLUDED.product_name,
			brand = EXCLUDED.brand,
			target_brand = EXCLUDED.target_brand,
			price = EXCLUDED.price,
			discount_rate = EXCLUDED.discount_rate,
			description = EXCLUDED.description,
			categories = EXCLUDED.categories,
			url = EXCLUDED.url,
			image_urls = EXCLUDED.image_urls,
			image_count = EXCLUDED.image_count,
			downloaded_images = EXCLUDED.downloaded_images,
			scraped_at = EXCLUDED.scraped_at,
			updated_at = CURRENT_TIMESTAMP`

	if _, err := db.pool.Exec(ctx, query,
		p.ProductID, p.Name, p.Brand, p.TargetBrand, p.Price, p.DiscountRate,
		p.Description, categories, p.URL, imageURLs, p.ImageCount, downloaded, p.ScrapedAt,
	); err != nil {
		return fmt.Errorf("failed to save product %s: %w", p.ProductID, err)
	}

	return nil
}
