package amzscrape

import "context"

// DefaultCurrencySymbol is the currency symbol stripped from price text.
const DefaultCurrencySymbol = "R$"

// PriceScale is the factor applied to a decimal display price to obtain
// its integer representation: "99,90" is stored as 99900. Downstream
// consumers depend on this scale, which is not the usual 100.
const PriceScale = 1000

// ProductRecord is the structured data extracted from one product page.
// Nil pointer fields mean the page did not carry the field.
type ProductRecord struct {
	ID                  string       `json:"id"`
	Slug                *string      `json:"slug"`
	Title               *string      `json:"title"`
	CurrentPrice        *int64       `json:"current_price"`
	PriceBeforeDiscount *int64       `json:"price_before_discount"`
	Description         *string      `json:"description"`
	Extra               ProductExtra `json:"extra"`
}

// ProductExtra holds secondary product attributes.
type ProductExtra struct {
	ImageSources   []string          `json:"image_sources"`
	Rating         *float64          `json:"rating"`
	Specifications map[string]string `json:"specifications"`
}

// Validate returns an error if the record contains invalid fields.
func (r *ProductRecord) Validate() error {
	if r.ID == "" {
		return Errorf(EINVALID, "product id required")
	}
	return nil
}

// ProductParser assembles a ProductRecord from a product page.
type ProductParser interface {
	// ParseProduct parses html fetched for target. The record is non-nil
	// unless the document itself cannot be read. An error with code
	// EMALFORMED lists fields that were present but unparseable; those
	// fields are absent in the returned record.
	ParseProduct(html string, target *ProductURL) (*ProductRecord, error)
}

// ProductWriter writes a single product record to a sink.
type ProductWriter interface {
	WriteProduct(ctx context.Context, rec *ProductRecord) error
}

// ProductStore persists batches of product records with atomic semantics.
// Save writes to a temporary location; Commit makes changes permanent;
// Abort discards pending changes.
type ProductStore interface {
	Save(ctx context.Context, rec *ProductRecord) error
	Commit() error
	Abort() error
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// ProductService scrapes product pages by URL.
type ProductService interface {
	// ScrapeProduct resolves rawURL, fetches the canonical product page and
	// parses it. A non-nil record may be returned together with an
	// EMALFORMED error.
	ScrapeProduct(ctx context.Context, rawURL string) (*ProductRecord, error)
}
