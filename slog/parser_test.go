package slog_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"testing"

	"github.com/fwojciec/amzscrape"
	"github.com/fwojciec/amzscrape/mock"
	amzslog "github.com/fwojciec/amzscrape/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingProductParser_ParseProduct(t *testing.T) {
	t.Parallel()

	t.Run("logs each malformed field", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.ProductParser{
			ParseProductFn: func(_ string, target *amzscrape.ProductURL) (*amzscrape.ProductRecord, error) {
				return &amzscrape.ProductRecord{ID: target.ID}, errors.Join(
					&amzscrape.FieldError{Field: "current_price", Text: "Indisponível", Err: strconv.ErrSyntax},
					&amzscrape.FieldError{Field: "rating", Text: "ótimo", Err: strconv.ErrSyntax},
				)
			},
		}

		parser := amzslog.NewLoggingProductParser(inner, logger)
		rec, err := parser.ParseProduct("<html></html>", &amzscrape.ProductURL{ID: "B0ABC"})

		require.Error(t, err)
		require.NotNil(t, rec)
		output := buf.String()
		assert.Equal(t, 2, strings.Count(output, "msg=\"malformed field\""))
		assert.Contains(t, output, "field=current_price")
		assert.Contains(t, output, "field=rating")
		assert.Contains(t, output, "id=B0ABC")
	})

	t.Run("logs parse at debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.ProductParser{
			ParseProductFn: func(_ string, target *amzscrape.ProductURL) (*amzscrape.ProductRecord, error) {
				return &amzscrape.ProductRecord{ID: target.ID, Title: amzscrape.Ptr("Livro")}, nil
			},
		}

		parser := amzslog.NewLoggingProductParser(inner, logger)
		_, err := parser.ParseProduct("<html></html>", &amzscrape.ProductURL{ID: "B0ABC"})

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "level=DEBUG")
		assert.Contains(t, output, "msg=\"parse product\"")
		assert.Contains(t, output, "title=true")
		assert.NotContains(t, output, "malformed field")
	})
}
