package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewProduct(t *testing.T) {
	p := NewProduct("3782941")

	assert.Equal(t, "3782941", p.ProductID)
	assert.NotNil(t, p.Categories)
	assert.NotNil(t, p.ImageURLs)
	assert.NotNil(t, p.DownloadedImages)
	assert.False(t, p.ScrapedAt.IsZero())
}

func TestValidate(t *testing.T) {
	valid := func() *Product {
		p := NewProduct("100")
		p.Name = "오버사이즈 스웨트셔츠"
		p.Brand = "커버낫"
		p.ImageURLs = []string{"https://image.example.com/a.jpg"}
		p.DownloadedImages = []string{"data/images/100/100_0.jpg"}
		return p
	}

	tests := []struct {
		name     string
		mutate   func(*Product)
		problems int
	}{
		{
			name:     "valid record",
			mutate:   func(p *Product) {},
			problems: 0,
		},
		{
			name:     "missing product id",
			mutate:   func(p *Product) { p.ProductID = "" },
			problems: 1,
		},
		{
			name:     "missing name",
			mutate:   func(p *Product) { p.Name = "" },
			problems: 1,
		},
		{
			name:     "discount rate out of range",
			mutate:   func(p *Product) { p.DiscountRate = 120 },
			problems: 1,
		},
		{
			name: "more downloads than urls",
			mutate: func(p *Product) {
				p.DownloadedImages = []string{"a", "b"}
				p.ImageURLs = []string{"x"}
			},
			problems: 1,
		},
		{
			name: "multiple problems",
			mutate: func(p *Product) {
				p.ProductID = ""
				p.Name = ""
			},
			problems: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(p)
			assert.Len(t, p.Validate(), tt.problems)
		})
	}
}

func TestHasImages(t *testing.T) {
	p := NewProduct("1")
	assert.False(t, p.HasImages())

	p.DownloadedImages = append(p.DownloadedImages, "data/images/1/1_0.jpg")
	assert.True(t, p.HasImages())
}
