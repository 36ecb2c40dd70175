package goquery

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/amzscrape"
)

// Ensure ProductParser implements amzscrape.ProductParser at compile time.
var _ amzscrape.ProductParser = (*ProductParser)(nil)

// ProductSelectors holds the selector chain used to locate each product field.
type ProductSelectors struct {
	Title               SelectorChain
	CurrentPrice        SelectorChain
	PriceBeforeDiscount SelectorChain
	Description         SelectorChain
	Rating              SelectorChain
	Specifications      SelectorChain
}

// DefaultProductSelectors returns the selectors for the current product
// page template family.
func DefaultProductSelectors() ProductSelectors {
	return ProductSelectors{
		Title:               SelectorChain{"#productTitle"},
		CurrentPrice:        SelectorChain{"#price", "#corePrice_feature_div .a-offscreen"},
		PriceBeforeDiscount: SelectorChain{"#listPrice", ".a-price"},
		Description: SelectorChain{
			"#bookDescription_feature_div",
			"#feature-bullets",
			"#drengr_desktopTabbedDescriptionOverviewContent_feature_div",
		},
		Rating:         SelectorChain{"#averageCustomerReviews_feature_div .a-color-base"},
		Specifications: SelectorChain{"tr.a-spacing-small"},
	}
}

// ProductParser assembles product records from product page HTML.
// It holds no mutable state and is safe for concurrent use.
type ProductParser struct {
	selectors      ProductSelectors
	currencySymbol string
}

// ProductOption configures a ProductParser.
type ProductOption func(*ProductParser)

// WithCurrencySymbol sets the symbol stripped from price text.
// Defaults to amzscrape.DefaultCurrencySymbol.
func WithCurrencySymbol(symbol string) ProductOption {
	return func(p *ProductParser) {
		p.currencySymbol = symbol
	}
}

// WithProductSelectors replaces the default selector chains.
func WithProductSelectors(s ProductSelectors) ProductOption {
	return func(p *ProductParser) {
		p.selectors = s
	}
}

// NewProductParser creates a new ProductParser.
func NewProductParser(opts ...ProductOption) *ProductParser {
	p := &ProductParser{
		selectors:      DefaultProductSelectors(),
		currencySymbol: amzscrape.DefaultCurrencySymbol,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseProduct parses html and returns the assembled record. Fields whose
// markup is missing are absent. Fields whose markup is present but
// unparseable are also absent and reported together in the returned error.
func (p *ProductParser) ParseProduct(html string, target *amzscrape.ProductURL) (*amzscrape.ProductRecord, error) {
	if target == nil || target.ID == "" {
		return nil, amzscrape.Errorf(amzscrape.EINVALID, "product id required")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, amzscrape.Errorf(amzscrape.EINVALID, "failed to parse HTML: %v", err)
	}
	root := doc.Selection

	rec := &amzscrape.ProductRecord{ID: target.ID}
	if target.Slug != "" {
		rec.Slug = amzscrape.Ptr(target.Slug)
	}

	var errs []error
	collect := func(field string, err error) {
		if err == nil {
			return
		}
		var fe *amzscrape.FieldError
		if errors.As(err, &fe) {
			fe.Field = field
		}
		errs = append(errs, err)
	}

	rec.Title = ExtractTitle(p.selectors.Title.Select(root))

	rec.CurrentPrice, err = ExtractPrice(p.selectors.CurrentPrice.Select(root), p.currencySymbol)
	collect("current_price", err)

	rec.PriceBeforeDiscount, err = ExtractPrice(p.selectors.PriceBeforeDiscount.Select(root), p.currencySymbol)
	collect("price_before_discount", err)

	rec.Description = ExtractDescription(p.selectors.Description.Select(root))

	rec.Extra.ImageSources = ExtractImageSources(html)

	rec.Extra.Rating, err = ExtractRating(p.selectors.Rating.Select(root))
	collect("rating", err)

	rec.Extra.Specifications, err = ExtractSpecifications(p.selectors.Specifications.Select(root))
	collect("specifications", err)

	return rec, errors.Join(errs...)
}
