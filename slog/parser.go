package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/amzscrape"
)

// Ensure LoggingProductParser implements amzscrape.ProductParser.
var _ amzscrape.ProductParser = (*LoggingProductParser)(nil)

// LoggingProductParser wraps a ProductParser and reports every field that
// was present but could not be parsed.
type LoggingProductParser struct {
	next   amzscrape.ProductParser
	logger *slog.Logger
}

// NewLoggingProductParser creates a new LoggingProductParser.
func NewLoggingProductParser(next amzscrape.ProductParser, logger *slog.Logger) *LoggingProductParser {
	return &LoggingProductParser{next: next, logger: logger}
}

// ParseProduct delegates to the wrapped parser. Each malformed field is
// logged at WARN; the parse itself is logged at DEBUG.
func (p *LoggingProductParser) ParseProduct(html string, target *amzscrape.ProductURL) (rec *amzscrape.ProductRecord, err error) {
	defer func(begin time.Time) {
		id := ""
		if target != nil {
			id = target.ID
		}
		ctx := context.Background()
		for _, fe := range amzscrape.FieldErrors(err) {
			p.logger.LogAttrs(ctx, slog.LevelWarn, "malformed field",
				slog.String("id", id),
				slog.String("field", fe.Field),
				slog.String("text", fe.Text),
				slog.Any("err", fe.Err),
			)
		}
		p.logger.LogAttrs(ctx, slog.LevelDebug, "parse product",
			slog.String("id", id),
			slog.Int("bytes", len(html)),
			slog.Bool("title", rec != nil && rec.Title != nil),
			slog.Duration("duration", time.Since(begin)),
		)
	}(time.Now())
	return p.next.ParseProduct(html, target)
}
