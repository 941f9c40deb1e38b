package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fashiondata/musinsa-scraper/internal/models"
	"github.com/fashiondata/musinsa-scraper/internal/queue"
	"github.com/fashiondata/musinsa-scraper/internal/ratelimit"
	"github.com/fashiondata/musinsa-scraper/internal/scraper"
)

// ProductStore is an optional additional sink for completed records.
type ProductStore interface {
	SaveProduct(ctx context.Context, product *models.Product) error
}

// Pipeline orchestrates product collection across brand jobs and owns
// the result table for the run.
type Pipeline struct {
	navigator scraper.Navigator
	collector scraper.Collector
	queue     queue.Queue
	limiter   ratelimit.RateLimiter
	store     ProductStore
	logger    *slog.Logger
	results   []models.Product
}

func New(nav scraper.Navigator, col scraper.Collector, q queue.Queue, limiter ratelimit.RateLimiter) *Pipeline {
	return &Pipeline{
		navigator: nav,
		collector: col,
		queue:     q,
		limiter:   limiter,
		logger:    slog.Default().With("component", "pipeline"),
		results:   make([]models.Product, 0),
	}
}

// WithStore attaches an additional sink that receives every completed
// record. Sink failures are logged, never fatal to the run.
func (p *Pipeline) WithStore(store ProductStore) *Pipeline {
	p.store = store
	return p
}

// RunBrandPipeline discovers products for each brand in the caller-given
// order, then collects details for every discovered id. Per-brand
// navigation failures and per-product collection failures are logged and
// skipped. maxPerBrand of zero or less performs no navigation.
func (p *Pipeline) RunBrandPipeline(ctx context.Context, brands []string, maxPerBrand int, downloadImages bool) error {
	runID := uuid.NewString()
	p.logger.Info("brand pipeline started", "run_id", runID, "brands", brands, "max_per_brand", maxPerBrand)

	if maxPerBrand <= 0 {
		p.logger.Warn("max products per brand is zero, nothing to collect", "run_id", runID)
		return nil
	}

	for _, brand := range brands {
		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}

		ids, err := p.navigator.BrandProducts(ctx, brand, maxPerBrand)
		if err != nil {
			p.logger.Error("brand search failed, skipping brand", "run_id", runID, "brand", brand, "error", err)
			continue
		}

		p.logger.Info("brand products discovered", "run_id", runID, "brand", brand, "count", len(ids))

		for _, id := range ids {
			if err := p.queue.Push(ctx, queue.NewTask(id, brand)); err != nil {
				return fmt.Errorf("failed to enqueue product %s: %w", id, err)
			}
		}
	}

	if err := p.collectQueued(ctx, runID, downloadImages); err != nil {
		return err
	}

	p.logger.Info("brand pipeline finished", "run_id", runID, "records", len(p.results))
	return nil
}

// RunRecommendPipeline collects products from the site-wide
// recommendation listing. gender is A (all), M or W.
func (p *Pipeline) RunRecommendPipeline(ctx context.Context, gender string, maxProducts int, downloadImages bool) error {
	runID := uuid.NewString()
	p.logger.Info("recommend pipeline started", "run_id", runID, "gender", gender, "max_products", maxProducts)

	if maxProducts <= 0 {
		p.logger.Warn("max products is zero, nothing to collect", "run_id", runID)
		return nil
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}

	ids, err := p.navigator.RecommendProducts(ctx, gender, maxProducts)
	if err != nil {
		return fmt.Errorf("failed to load recommendation listing: %w", err)
	}

	p.logger.Info("recommended products discovered", "run_id", runID, "count", len(ids))

	for _, id := range ids {
		if err := p.queue.Push(ctx, queue.NewTask(id, "")); err != nil {
			return fmt.Errorf("failed to enqueue product %s: %w", id, err)
		}
	}

	if err := p.collectQueued(ctx, runID, downloadImages); err != nil {
		return err
	}

	p.logger.Info("recommend pipeline finished", "run_id", runID, "records", len(p.results))
	return nil
}

// collectQueued drains the task queue sequentially, collecting one
// product to completion before the next begins. A failed product is
// logged with its id and brand and skipped; a partially collected record
// never enters the result table.
func (p *Pipeline) collectQueued(ctx context.Context, runID string, downloadImages bool) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		task, err := p.queue.Pop(ctx)
		if err != nil {
			if errors.Is(err, queue.ErrQueueEmpty) || errors.Is(err, queue.ErrQueueClosed) {
				return nil
			}
			return fmt.Errorf("failed to pop task: %w", err)
		}

		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}

		product, err := p.collector.Collect(ctx, task.ProductID, downloadImages)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.logger.Error("product collection failed, skipping",
				"run_id", runID,
				"product_id", task.ProductID,
				"brand", task.Brand,
				"error", err)
			continue
		}

		product.TargetBrand = task.Brand

		if problems := product.Validate(); len(problems) > 0 {
			p.logger.Error("discarding invalid record",
				"run_id", runID,
				"product_id", task.ProductID,
				"problems", problems)
			continue
		}

		p.results = append(p.results, *product)

		if p.store != nil {
			if err := p.store.SaveProduct(ctx, product); err != nil {
				p.logger.Error("product store save failed",
					"run_id", runID,
					"product_id", task.ProductID,
					"error", err)
			}
		}
	}
}

// Results returns a copy of the result table in discovery order.
func (p *Pipeline) Results() []models.Product {
	out := make([]models.Product, len(p.results))
	copy(out, p.results)
	return out
}

// Summary aggregates the run outcome, counting records per target brand.
func (p *Pipeline) Summary() models.RunSummary {
	summary := models.RunSummary{
		TotalProducts: len(p.results),
	}

	brands := make(map[string]int)
	for _, r := range p.results {
		if r.HasImages() {
			summary.ProductsWithImages++
		}
		summary.TotalImages += r.ImageCount

		if r.TargetBrand != "" {
			brands[r.TargetBrand]++
		}
	}

	if len(brands) > 0 {
		summary.Brands = brands
	}

	return summary
}
