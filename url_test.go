package amzscrape_test

import (
	"testing"

	"github.com/fwojciec/amzscrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProductURL(t *testing.T) {
	t.Parallel()

	t.Run("resolves slug form and drops trailing path and query", func(t *testing.T) {
		t.Parallel()

		u, err := amzscrape.ParseProductURL(
			"https://www.amazon.com.br/Some-Title/dp/B0CBBZ69H5/ref=xyz?a=1",
			"https://www.amazon.com.br",
		)

		require.NoError(t, err)
		assert.Equal(t, "B0CBBZ69H5", u.ID)
		assert.Equal(t, "Some-Title", u.Slug)
	})

	t.Run("resolves bare form against a scheme-less origin", func(t *testing.T) {
		t.Parallel()

		u, err := amzscrape.ParseProductURL("https://www.amazon.com.br/dp/B0CBBZ69H5/", "amazon.com.br")

		require.NoError(t, err)
		assert.Equal(t, "B0CBBZ69H5", u.ID)
		assert.Empty(t, u.Slug)
	})

	t.Run("resolves bare form without trailing slash", func(t *testing.T) {
		t.Parallel()

		u, err := amzscrape.ParseProductURL("https://www.amazon.com.br/dp/B0CBBZ69H5", "http://amazon.com.br/")

		require.NoError(t, err)
		assert.Equal(t, "B0CBBZ69H5", u.ID)
		assert.Empty(t, u.Slug)
	})

	t.Run("accepts root-relative paths", func(t *testing.T) {
		t.Parallel()

		u, err := amzscrape.ParseProductURL("/Livro/dp/6584956199", amzscrape.DefaultOrigin)

		require.NoError(t, err)
		assert.Equal(t, "6584956199", u.ID)
		assert.Equal(t, "Livro", u.Slug)
	})

	t.Run("preserves percent-encoded slug", func(t *testing.T) {
		t.Parallel()

		u, err := amzscrape.ParseProductURL(
			"https://www.amazon.com.br/Ped%C3%B4metro-estudantes/dp/B0CBBZ69H5/ref=sr_1_1_sspa?__mk_pt_BR=%C3%85M",
			amzscrape.DefaultOrigin,
		)

		require.NoError(t, err)
		assert.Equal(t, "Ped%C3%B4metro-estudantes", u.Slug)
		assert.Equal(t, "B0CBBZ69H5", u.ID)
	})

	t.Run("resolves slugs spanning several segments", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			raw  string
			slug string
		}{
			{"https://www.amazon.com.br/-/es/Some-Title/dp/B0CBBZ69H5/ref=x", "-/es/Some-Title"},
			{"https://www.amazon.com.br/a/b/dp/B0CBBZ69H5", "a/b"},
			{"/a/b/dp/B0CBBZ69H5/ref=x/dp/OTHER", "a/b"},
		}

		for _, tt := range tests {
			u, err := amzscrape.ParseProductURL(tt.raw, "amazon.com.br")
			require.NoError(t, err, tt.raw)
			assert.Equal(t, "B0CBBZ69H5", u.ID, tt.raw)
			assert.Equal(t, tt.slug, u.Slug, tt.raw)
		}
	})

	t.Run("drops the fragment", func(t *testing.T) {
		t.Parallel()

		bare, err := amzscrape.ParseProductURL("https://www.amazon.com.br/dp/B0CBBZ69H5#customerReviews", amzscrape.DefaultOrigin)
		require.NoError(t, err)
		assert.Equal(t, "B0CBBZ69H5", bare.ID)
		assert.Empty(t, bare.Slug)

		slugged, err := amzscrape.ParseProductURL("https://www.amazon.com.br/Some-Title/dp/B0CBBZ69H5#reviews", amzscrape.DefaultOrigin)
		require.NoError(t, err)
		assert.Equal(t, "B0CBBZ69H5", slugged.ID)
		assert.Equal(t, "Some-Title", slugged.Slug)
	})

	t.Run("returns resolution error when no shape matches", func(t *testing.T) {
		t.Parallel()

		for _, raw := range []string{
			"https://www.amazon.com.br/s?k=livros",
			"https://www.amazon.com.br/",
			"https://www.amazon.com.br/gp/product",
			"https://www.amazon.com.br/dp/",
			"https://www.amazon.com.br/Some-Title/dp/",
			"",
		} {
			u, err := amzscrape.ParseProductURL(raw, amzscrape.DefaultOrigin)
			assert.Nil(t, u, raw)
			assert.Equal(t, amzscrape.ERESOLUTION, amzscrape.ErrorCode(err), raw)
		}
	})

	t.Run("does not strip a foreign origin", func(t *testing.T) {
		t.Parallel()

		_, err := amzscrape.ParseProductURL("https://www.example.com/dp/B0CBBZ69H5", amzscrape.DefaultOrigin)

		assert.Equal(t, amzscrape.ERESOLUTION, amzscrape.ErrorCode(err))
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		raw := "https://www.amazon.com.br/Some-Title/dp/B0CBBZ69H5/ref=xyz?a=1"
		first, err1 := amzscrape.ParseProductURL(raw, "amazon.com.br")
		second, err2 := amzscrape.ParseProductURL(raw, "amazon.com.br")

		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Equal(t, first, second)
	})
}

func TestNormalizeOrigin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"https://www.amazon.com.br", "https://www.amazon.com.br"},
		{"https://www.amazon.com.br/", "https://www.amazon.com.br"},
		{"http://www.amazon.com.br", "https://www.amazon.com.br"},
		{"http://amazon.com.br/", "https://www.amazon.com.br"},
		{"amazon.com.br", "https://www.amazon.com.br"},
		{"www.amazon.com.br", "https://www.amazon.com.br"},
		{"https://amazon.com.br", "https://www.amazon.com.br"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, amzscrape.NormalizeOrigin(tt.in))
		})
	}
}

func TestProductURL_Canonical(t *testing.T) {
	t.Parallel()

	t.Run("bare form", func(t *testing.T) {
		t.Parallel()

		u := &amzscrape.ProductURL{ID: "B0CBBZ69H5"}
		assert.Equal(t, "https://www.amazon.com.br/dp/B0CBBZ69H5/", u.Canonical("amazon.com.br"))
	})

	t.Run("slug form keeps escapes", func(t *testing.T) {
		t.Parallel()

		u := &amzscrape.ProductURL{ID: "B0CBBZ69H5", Slug: "Ped%C3%B4metro"}
		assert.Equal(t, "https://www.amazon.com.br/Ped%C3%B4metro/dp/B0CBBZ69H5/", u.Canonical("https://www.amazon.com.br/"))
	})

	t.Run("round-trips through ParseProductURL", func(t *testing.T) {
		t.Parallel()

		in := &amzscrape.ProductURL{ID: "B09T4YK6QK", Slug: "Apple-iPhone-13"}
		out, err := amzscrape.ParseProductURL(in.Canonical(amzscrape.DefaultOrigin), amzscrape.DefaultOrigin)

		require.NoError(t, err)
		assert.Equal(t, in, out)
	})
}
