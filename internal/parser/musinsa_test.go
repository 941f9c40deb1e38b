package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productPageHTML = `<!DOCTYPE html>
<html>
<body>
	<span class="product_title">오버사이즈 크루넥 스웨트셔츠</span>
	<p class="product_article">
		<a href="/brands/covernat">커버낫</a>
		<span>상의</span>
		<span>스웨트셔츠</span>
	</p>
	<span class="product_price"><span>39,900원</span></span>
	<span class="product_article_price">
		<span class="product_discount">15%</span>
	</span>
	<p class="product_summary">기본에 충실한 오버사이즈 실루엣의 스웨트셔츠입니다.</p>
	<div class="product-img">
		<img src="https://image.example.com/sweat_main.jpg"/>
	</div>
	<ul class="product_thumb">
		<li><img src="https://image.example.com/sweat_01_125.jpg"/></li>
		<li><img src="https://image.example.com/sweat_02_125.jpg"/></li>
	</ul>
	<div class="detail_info">
		<img src="https://image.example.com/sweat_detail.jpg"/>
		<img src="/relative/ignored.jpg"/>
	</div>
</body>
</html>`

func TestParseProductPage(t *testing.T) {
	p := NewMusinsaParser()

	product, err := p.ParseProductPage(productPageHTML, "3782941")
	require.NoError(t, err)

	assert.Equal(t, "3782941", product.ProductID)
	assert.Equal(t, "오버사이즈 크루넥 스웨트셔츠", product.Name)
	assert.Equal(t, "커버낫", product.Brand)
	assert.Equal(t, 39900.0, product.Price)
	assert.Equal(t, 15.0, product.DiscountRate)
	assert.Equal(t, "기본에 충실한 오버사이즈 실루엣의 스웨트셔츠입니다.", product.Description)
	assert.Equal(t, []string{"상의", "스웨트셔츠"}, product.Categories)

	assert.Equal(t, []string{
		"https://image.example.com/sweat_main.jpg",
		"https://image.example.com/sweat_01_500.jpg",
		"https://image.example.com/sweat_02_500.jpg",
		"https://image.example.com/sweat_detail.jpg",
	}, product.ImageURLs)
	assert.Equal(t, 4, product.ImageCount)
	assert.Empty(t, product.DownloadedImages)
}

func TestParseProductPageRequiredFields(t *testing.T) {
	p := NewMusinsaParser()

	tests := []struct {
		name      string
		html      string
		productID string
		wantField string
	}{
		{
			name:      "missing product id",
			html:      productPageHTML,
			productID: "",
			wantField: "product_id",
		},
		{
			name:      "missing product name",
			html:      `<html><body><p class="product_summary">설명만 있는 페이지</p></body></html>`,
			productID: "123",
			wantField: "product_name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.ParseProductPage(tt.html, tt.productID)
			require.Error(t, err)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tt.wantField, parseErr.Field)
		})
	}
}

func TestParseProductPageOptionalFieldsDefault(t *testing.T) {
	p := NewMusinsaParser()

	html := `<html><body><span class="product_title">미니멀 반팔 티셔츠</span></body></html>`

	product, err := p.ParseProductPage(html, "555")
	require.NoError(t, err)

	assert.Equal(t, "미니멀 반팔 티셔츠", product.Name)
	assert.Empty(t, product.Brand)
	assert.Zero(t, product.Price)
	assert.Zero(t, product.DiscountRate)
	assert.Empty(t, product.Description)
	assert.Empty(t, product.Categories)
	assert.Empty(t, product.ImageURLs)
	assert.Zero(t, product.ImageCount)
}

func TestExtractProductIDs(t *testing.T) {
	p := NewMusinsaParser()

	html := `<html><body>
		<a href="/products/100">first</a>
		<a href="/products/200?ref=list">second</a>
		<a href="https://www.musinsa.com/products/300">third</a>
		<a href="/products/100">duplicate</a>
		<a href="/brands/covernat">not a product</a>
		<a href="/products/400">fourth</a>
	</body></html>`

	tests := []struct {
		name     string
		max      int
		expected []string
	}{
		{
			name:     "all ids in discovery order, deduplicated",
			max:      0,
			expected: []string{"100", "200", "300", "400"},
		},
		{
			name:     "bounded by max",
			max:      2,
			expected: []string{"100", "200"},
		},
		{
			name:     "max larger than available",
			max:      10,
			expected: []string{"100", "200", "300", "400"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.ExtractProductIDs(html, tt.max))
		})
	}
}

func TestExtractProductIDsNoMatches(t *testing.T) {
	p := NewMusinsaParser()

	html := `<html><body><a href="/brands/covernat">brand page</a></body></html>`
	assert.Empty(t, p.ExtractProductIDs(html, 10))
}

func TestParseNumber(t *testing.T) {
	p := NewMusinsaParser()

	tests := []struct {
		text     string
		expected float64
	}{
		{"39,900원", 39900},
		{"15%", 15},
		{"1,234,567", 1234567},
		{"12.5%", 12.5},
		{"가격 미정", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.parseNumber(tt.text))
		})
	}
}
