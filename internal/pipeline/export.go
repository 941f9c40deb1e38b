package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ListDelimiter joins list-valued fields in the CSV export. Consumers
// split on it to reconstruct the original ordered sequences.
const ListDelimiter = "|"

var csvHeader = []string{
	"product_id",
	"product_name",
	"brand",
	"price",
	"discount_rate",
	"description",
	"categories",
	"url",
	"image_urls",
	"image_count",
	"downloaded_images",
}

// SaveCSV writes the result table to path, one row per record in
// discovery order. Export failures are fatal and surfaced to the caller.
func (p *Pipeline) SaveCSV(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range p.results {
		row := []string{
			r.ProductID,
			r.Name,
			r.Brand,
			formatFloat(r.Price),
			formatFloat(r.DiscountRate),
			r.Description,
			strings.Join(r.Categories, ListDelimiter),
			r.URL,
			strings.Join(r.ImageURLs, ListDelimiter),
			strconv.Itoa(r.ImageCount),
			strings.Join(r.DownloadedImages, ListDelimiter),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", r.ProductID, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	p.logger.Info("CSV export complete", "path", path, "records", len(p.results))
	return nil
}

// SaveJSON writes the result table to path as an array of objects with
// list fields as native arrays. Repeated calls on an unmodified table
// produce byte-identical output.
func (p *Pipeline) SaveJSON(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	data, err := json.MarshalIndent(p.results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	p.logger.Info("JSON export complete", "path", path, "records", len(p.results))
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
