package amzscrape

import (
	"regexp"
	"strings"
)

// DefaultOrigin is the marketplace origin used when none is configured.
const DefaultOrigin = "https://www.amazon.com.br"

// Product path shapes. Both are prefix matches: anything after the
// identifier segment (e.g. "/ref=sr_1_1") is ignored. A slug may span
// several segments ("/-/es/Title") and ends at the first "/dp/".
var (
	bareProductPath = regexp.MustCompile(`^/dp/([^/]+)`)
	slugProductPath = regexp.MustCompile(`^/(.+?)/dp/([^/]+)`)
)

// ProductURL identifies a product page. Slug is empty for the bare
// "/dp/<ID>" shape and set for the "/<SLUG>/dp/<ID>" shape.
type ProductURL struct {
	ID   string `json:"id"`
	Slug string `json:"slug,omitempty"`
}

// Canonical returns the URL the product page is fetched from.
// The slug is embedded verbatim, percent-escapes included.
func (u *ProductURL) Canonical(origin string) string {
	origin = NormalizeOrigin(origin)
	if u.Slug == "" {
		return origin + "/dp/" + u.ID + "/"
	}
	return origin + "/" + u.Slug + "/dp/" + u.ID + "/"
}

// ParseProductURL extracts the product identifier and optional slug from
// rawURL. The query string and fragment are discarded and, when rawURL starts with the
// normalized origin, the origin is stripped before matching. Root-relative
// paths are accepted as-is.
//
// Returns ERESOLUTION when the path matches neither product shape.
func ParseProductURL(rawURL, origin string) (*ProductURL, error) {
	path := productPath(rawURL, origin)

	if id, ok := matchBarePath(path); ok {
		return &ProductURL{ID: id}, nil
	}
	if slug, id, ok := matchSlugPath(path); ok {
		return &ProductURL{ID: id, Slug: slug}, nil
	}
	return nil, Errorf(ERESOLUTION, "no product id found in %q", rawURL)
}

// NormalizeOrigin rewrites origin to "https://www.<host>" form: http is
// upgraded to https, a missing scheme becomes https, a missing "www."
// prefix is inserted after the scheme and one trailing slash is removed.
func NormalizeOrigin(origin string) string {
	scheme, rest, found := strings.Cut(origin, "://")
	switch {
	case !found:
		scheme, rest = "https", origin
	case scheme == "http":
		scheme = "https"
	}
	if !strings.HasPrefix(rest, "www.") {
		rest = "www." + rest
	}
	rest = strings.TrimSuffix(rest, "/")
	return scheme + "://" + rest
}

// productPath strips the query, the fragment and the origin from rawURL.
func productPath(rawURL, origin string) string {
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		rawURL = rawURL[:i]
	}
	origin = NormalizeOrigin(origin)
	if strings.HasPrefix(rawURL, origin) {
		return rawURL[len(origin):]
	}
	return rawURL
}

func matchBarePath(path string) (id string, ok bool) {
	m := bareProductPath.FindStringSubmatch(path)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// matchSlugPath rejects bare-form paths so that no path matches both shapes.
func matchSlugPath(path string) (slug, id string, ok bool) {
	if strings.HasPrefix(path, "/dp/") {
		return "", "", false
	}
	m := slugProductPath.FindStringSubmatch(path)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
