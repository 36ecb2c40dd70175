package crawl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/amzscrape"
)

// ComputeHash returns the hex xxhash of content. Snapshots store it to
// tell whether a page changed between fetches.
func ComputeHash(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}

// FormatPrice renders a scaled price in the display format it was parsed
// from, e.g. 1234560 with symbol "R$" becomes "R$ 1.234,56". Absent
// prices render as "-".
func FormatPrice(price *int64, currencySymbol string) string {
	if price == nil {
		return "-"
	}
	v := *price
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	units := v / amzscrape.PriceScale
	cents := (v % amzscrape.PriceScale) / 10

	digits := strconv.FormatInt(units, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	s := fmt.Sprintf("%s%s,%02d", sign, b.String(), cents)
	if currencySymbol == "" {
		return s
	}
	return currencySymbol + " " + s
}

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
