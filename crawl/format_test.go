package crawl_test

import (
	"testing"

	"github.com/fwojciec/amzscrape"
	"github.com/fwojciec/amzscrape/crawl"
	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		price  *int64
		symbol string
		want   string
	}{
		{"thousands and cents", amzscrape.Ptr(int64(1234560)), "R$", "R$ 1.234,56"},
		{"below one thousand", amzscrape.Ptr(int64(99900)), "R$", "R$ 99,90"},
		{"millions", amzscrape.Ptr(int64(1000000000)), "R$", "R$ 1.000.000,00"},
		{"zero", amzscrape.Ptr(int64(0)), "R$", "R$ 0,00"},
		{"without symbol", amzscrape.Ptr(int64(12500)), "", "12,50"},
		{"absent", nil, "R$", "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, crawl.FormatPrice(tt.price, tt.symbol))
		})
	}
}

func TestTruncateURL(t *testing.T) {
	t.Parallel()

	t.Run("returns URL unchanged when it fits", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "https://amzn.to/x", crawl.TruncateURL("https://amzn.to/x", 50))
	})

	t.Run("keeps the informative tail", func(t *testing.T) {
		t.Parallel()
		result := crawl.TruncateURL("https://www.amazon.com.br/Pedometro-Digital/dp/B0CBBZ69H5/", 20)
		assert.Equal(t, "...al/dp/B0CBBZ69H5/", result)
		assert.Len(t, result, 20)
	})

	t.Run("handles tiny and invalid limits", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, crawl.TruncateURL("https://www.amazon.com.br", 0))
		assert.Empty(t, crawl.TruncateURL("https://www.amazon.com.br", -1))
		assert.Equal(t, "htt", crawl.TruncateURL("https://www.amazon.com.br", 3))
		assert.Equal(t, "ab", crawl.TruncateURL("ab", 3))
	})
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "512 B", crawl.FormatBytes(512))
	assert.Equal(t, "1.5 KB", crawl.FormatBytes(1536))
	assert.Equal(t, "2.0 MB", crawl.FormatBytes(2*1024*1024))
}

func TestComputeHash(t *testing.T) {
	t.Parallel()

	t.Run("is stable for the same page", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, crawl.ComputeHash("<html>a</html>"), crawl.ComputeHash("<html>a</html>"))
	})

	t.Run("differs for different pages", func(t *testing.T) {
		t.Parallel()
		assert.NotEqual(t, crawl.ComputeHash("<html>a</html>"), crawl.ComputeHash("<html>b</html>"))
	})

	t.Run("returns hex string", func(t *testing.T) {
		t.Parallel()
		assert.Regexp(t, `^[0-9a-f]+$`, crawl.ComputeHash("test"))
	})
}
