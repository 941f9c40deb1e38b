package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fashiondata/musinsa-scraper/internal/browser"
	"github.com/fashiondata/musinsa-scraper/internal/config"
	"github.com/fashiondata/musinsa-scraper/internal/database"
	"github.com/fashiondata/musinsa-scraper/internal/images"
	"github.com/fashiondata/musinsa-scraper/internal/parser"
	"github.com/fashiondata/musinsa-scraper/internal/pipeline"
	"github.com/fashiondata/musinsa-scraper/internal/queue"
	"github.com/fashiondata/musinsa-scraper/internal/ratelimit"
	"github.com/fashiondata/musinsa-scraper/internal/scraper"
	"github.com/fashiondata/musinsa-scraper/pkg/logger"
)

func main() {
	var (
		mode     = flag.String("mode", "brand", "Collection mode: brand or recommend")
		brands   = flag.String("brands", "", "Comma-separated brand names (default: TARGET_BRANDS)")
		max      = flag.Int("max", -1, "Max products per brand / listing (default: MAX_PRODUCTS_PER_BRAND)")
		gender   = flag.String("gender", "A", "Gender filter for recommend mode: A, M or W")
		download = flag.Bool("images", true, "Download product images")
		headless = flag.Bool("headless", true, "Run browser in headless mode")
		csvPath  = flag.String("csv", "", "CSV output path (default: OUTPUT_PATH/musinsa_products_<ts>.csv)")
		jsonPath = flag.String("json", "", "JSON output path (default: OUTPUT_PATH/musinsa_products_<ts>.json)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logg := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	logg.Info("starting musinsa scraper", "mode", *mode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logg.Info("shutdown signal received")
		cancel()
	}()

	browserOpts := browser.DefaultOptions()
	browserOpts.Headless = *headless && cfg.Browser.Headless
	browserOpts.Timeout = cfg.Browser.PageLoadTimeout
	browserOpts.ViewportWidth = cfg.Browser.ViewportWidth
	browserOpts.ViewportHeight = cfg.Browser.ViewportHeight
	browserOpts.AcceptLanguage = cfg.Browser.AcceptLanguage
	browserOpts.TimezoneID = cfg.Browser.TimezoneID
	browserOpts.Locale = cfg.Browser.Locale

	b, err := browser.New(browserOpts)
	if err != nil {
		logg.Error("failed to initialize browser", "error", err)
		os.Exit(1)
	}
	defer b.Close()

	p := parser.NewMusinsaParser()
	downloader := images.NewDownloader(cfg.Images.DownloadPath, cfg.Images.DownloadTimeout)
	crawler := scraper.NewBrandCrawler(b, p, cfg.Site.BaseURL, cfg.Scraper.MaxRetries)
	collector := scraper.NewProductScraper(b, p, downloader, cfg.Site.BaseURL, cfg.Scraper.MaxRetries, cfg.Images.MaxPerProduct)

	taskQueue, err := buildQueue(ctx, cfg)
	if err != nil {
		logg.Error("failed to initialize task queue", "error", err)
		os.Exit(1)
	}
	defer taskQueue.Close()

	limiter := ratelimit.NewSimpleRateLimiter(cfg.Scraper.RequestDelay)

	pipe := pipeline.New(crawler, collector, taskQueue, limiter)

	if cfg.Database.Enabled {
		db, err := database.New(ctx, database.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			Database: cfg.Database.DBName,
		})
		if err != nil {
			logg.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		pipe.WithStore(db)
	}

	maxProducts := *max
	if maxProducts < 0 {
		maxProducts = cfg.Scraper.MaxProductsPerBrand
	}

	switch *mode {
	case "brand":
		brandList := cfg.Scraper.TargetBrands
		if *brands != "" {
			brandList = splitBrands(*brands)
		}
		if len(brandList) == 0 {
			logg.Error("no brands configured, set -brands or TARGET_BRANDS")
			os.Exit(1)
		}
		err = pipe.RunBrandPipeline(ctx, brandList, maxProducts, *download)
	case "recommend":
		err = pipe.RunRecommendPipeline(ctx, *gender, maxProducts, *download)
	default:
		logg.Error("unknown mode", "mode", *mode)
		os.Exit(1)
	}

	if err != nil {
		logg.Error("pipeline run failed", "error", err)
		os.Exit(1)
	}

	timestamp := time.Now().Format("20060102_150405")
	csvOut := *csvPath
	if csvOut == "" {
		csvOut = filepath.Join(cfg.Output.Path, fmt.Sprintf("musinsa_products_%s.csv", timestamp))
	}
	jsonOut := *jsonPath
	if jsonOut == "" {
		jsonOut = filepath.Join(cfg.Output.Path, fmt.Sprintf("musinsa_products_%s.json", timestamp))
	}

	if err := pipe.SaveCSV(csvOut); err != nil {
		logg.Error("CSV export failed", "error", err)
		os.Exit(1)
	}
	if err := pipe.SaveJSON(jsonOut); err != nil {
		logg.Error("JSON export failed", "error", err)
		os.Exit(1)
	}

	summary := pipe.Summary()
	fmt.Printf("\nCollection summary:\n")
	fmt.Printf("  products:             %d\n", summary.TotalProducts)
	fmt.Printf("  products with images: %d\n", summary.ProductsWithImages)
	fmt.Printf("  total images:         %d\n", summary.TotalImages)
	for brand, count := range summary.Brands {
		fmt.Printf("  %s: %d\n", brand, count)
	}
	fmt.Printf("\nExports:\n  CSV:  %s\n  JSON: %s\n", csvOut, jsonOut)
}

func buildQueue(ctx context.Context, cfg *config.Config) (queue.Queue, error) {
	if cfg.Queue.Type != "redis" {
		return queue.NewInMemoryQueue(), nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.Queue.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Queue.RedisAddr, err)
	}

	return queue.NewRedisQueue(client, cfg.Queue.RedisKey), nil
}

func splitBrands(s string) []string {
	parts := strings.Split(s, ",")
	brands := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			brands = append(brands, trimmed)
		}
	}
	return brands
}
