package goquery

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/amzscrape"
)

// Description section ids with a dedicated layout. Any other section
// yields an empty description.
const (
	bookDescriptionID = "bookDescription_feature_div"
	featureBulletsID  = "feature-bullets"
)

var (
	errNotFinite       = errors.New("not a finite number")
	errPriceRange      = errors.New("price out of range")
	errRatingRange     = errors.New("rating outside 0-5")
	errMissingSpecSpan = errors.New("specification row needs a key and a value span")
)

// hiResImage matches full-size image URLs embedded in inline script payloads.
var hiResImage = regexp.MustCompile(`"hiRes":"(.+?)"`)

// ExtractTitle returns the trimmed first text node of sel.
// Returns nil when sel has no text node.
func ExtractTitle(sel *goquery.Selection) *string {
	text, ok := firstText(sel)
	if !ok {
		return nil
	}
	title := strings.TrimSpace(text)
	return &title
}

// ExtractPrice parses the first text node of sel as a locale-formatted
// price. Returns nil when sel is empty or has no text node, and a
// FieldError when the text is not a number.
func ExtractPrice(sel *goquery.Selection, currencySymbol string) (*int64, error) {
	if sel.Length() == 0 {
		return nil, nil
	}
	text, ok := firstText(sel)
	if !ok {
		return nil, nil
	}
	price, err := ParsePrice(text, currencySymbol)
	if err != nil {
		return nil, &amzscrape.FieldError{Field: "price", Text: text, Err: err}
	}
	return &price, nil
}

// ParsePrice converts price text such as "R$ 1.234,56" into an integer
// scaled by amzscrape.PriceScale: the currency symbol is removed, "." is
// treated as a thousands separator and "," as the decimal separator. The
// scaled value is truncated, not rounded.
func ParsePrice(text, currencySymbol string) (int64, error) {
	s := text
	if currencySymbol != "" {
		s = strings.ReplaceAll(s, currencySymbol, "")
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFinite
	}
	scaled := f * amzscrape.PriceScale
	if scaled >= math.MaxInt64 || scaled <= math.MinInt64 {
		return 0, errPriceRange
	}
	return int64(scaled), nil
}

// ExtractDescription builds the product description from a description
// section. The layout is chosen by the section's id: book descriptions
// join their paragraphs with newlines, feature bullets join their list
// items with "\n- ", and any other section yields "". Returns nil when
// sel is empty.
func ExtractDescription(sel *goquery.Selection) *string {
	if sel.Length() == 0 {
		return nil
	}

	var description string
	switch firstAttr(sel, "id") {
	case bookDescriptionID:
		description = strings.Join(directTexts(sel.Find("p")), "\n")
	case featureBulletsID:
		description = strings.Join(directTexts(sel.Find("li")), "\n- ")
	default:
		description = ""
	}
	return &description
}

// ExtractRating parses the first text node of sel as a decimal-comma
// rating. Returns nil when sel has no text node, and a FieldError when the
// text is not a number between 0 and 5.
func ExtractRating(sel *goquery.Selection) (*float64, error) {
	text, ok := firstText(sel)
	if !ok {
		return nil, nil
	}
	rating, err := ParseRating(text)
	if err != nil {
		return nil, &amzscrape.FieldError{Field: "rating", Text: text, Err: err}
	}
	return &rating, nil
}

// ParseRating converts rating text such as "4,5" into a float.
func ParseRating(text string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(text, ",", ".")), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || f < 0 || f > 5 {
		return 0, errRatingRange
	}
	return f, nil
}

// ExtractSpecifications reads one key/value pair from the first row in
// sel: the first span's text, lower-cased, is the key and the second
// span's text is the value. Rows after the first are not consulted.
// Returns an empty map when sel is empty.
func ExtractSpecifications(sel *goquery.Selection) (map[string]string, error) {
	specs := make(map[string]string)
	if sel.Length() == 0 {
		return specs, nil
	}

	row := sel.First()
	spans := row.Find("span")
	if spans.Length() < 2 {
		return specs, &amzscrape.FieldError{
			Field: "specifications",
			Text:  strings.TrimSpace(row.Text()),
			Err:   errMissingSpecSpan,
		}
	}

	key := strings.ToLower(spans.Eq(0).Text())
	specs[key] = spans.Eq(1).Text()
	return specs, nil
}

// ExtractImageSources scans raw page text for embedded "hiRes" image URLs.
// The URLs live in inline script payloads, not in tag attributes, so the
// scan runs over the unparsed HTML. The result is never nil.
func ExtractImageSources(html string) []string {
	matches := hiResImage.FindAllStringSubmatch(html, -1)
	sources := make([]string, 0, len(matches))
	for _, m := range matches {
		sources = append(sources, m[1])
	}
	return sources
}
