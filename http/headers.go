package http

import (
	"net"
	"net/http"
	"net/url"
	"strconv"

	"github.com/fwojciec/amzscrape"
)

// Browser identity sent by default. The values mirror a desktop Chrome
// navigation so product pages are served in their regular layout.
const (
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"
	DefaultAcceptLanguage = "pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7"
)

// HeaderConfig holds the request headers that callers usually vary.
// Empty fields fall back to the defaults; an empty Referer is omitted.
type HeaderConfig struct {
	UserAgent      string
	AcceptLanguage string
	Referer        string
}

// DefaultHeaders returns the full browser header set for cfg.
func DefaultHeaders(cfg HeaderConfig) http.Header {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.AcceptLanguage == "" {
		cfg.AcceptLanguage = DefaultAcceptLanguage
	}

	h := http.Header{}
	h.Set("User-Agent", cfg.UserAgent)
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7")
	h.Set("Accept-Language", cfg.AcceptLanguage)
	h.Set("Cache-Control", "no-cache")
	h.Set("Device-Memory", "8")
	h.Set("Downlink", "10")
	h.Set("Dpr", "1")
	h.Set("Ect", "4g")
	h.Set("Pragma", "no-cache")
	h.Set("Rtt", "50")
	h.Set("Sec-Ch-Device-Memory", "8")
	h.Set("Sec-Ch-Dpr", "1")
	h.Set("Sec-Ch-Ua", `"Not A(Brand";v="99", "Google Chrome";v="121", "Chromium";v="121"`)
	h.Set("Sec-Ch-Ua-Mobile", "?0")
	h.Set("Sec-Ch-Ua-Platform", `"Windows"`)
	h.Set("Sec-Ch-Ua-Platform-Version", `"10.0.0"`)
	h.Set("Sec-Ch-Viewport-Width", "996")
	h.Set("Sec-Fetch-Dest", "document")
	h.Set("Sec-Fetch-Mode", "navigate")
	h.Set("Sec-Fetch-Site", "same-origin")
	h.Set("Sec-Fetch-User", "?1")
	h.Set("Upgrade-Insecure-Requests", "1")
	h.Set("Viewport-Width", "996")
	if cfg.Referer != "" {
		h.Set("Referer", cfg.Referer)
	}
	return h
}

var proxySchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"socks5": true,
}

// ParseProxy builds a proxy URL from its scheme, host and port.
func ParseProxy(scheme, host string, port int) (*url.URL, error) {
	if !proxySchemes[scheme] {
		return nil, amzscrape.Errorf(amzscrape.EINVALID, "unsupported proxy scheme %q", scheme)
	}
	if host == "" {
		return nil, amzscrape.Errorf(amzscrape.EINVALID, "proxy host required")
	}
	if port < 1 || port > 65535 {
		return nil, amzscrape.Errorf(amzscrape.EINVALID, "invalid proxy port %d", port)
	}
	return &url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
	}, nil
}

// ParseProxyURL parses a proxy given as "scheme://host:port".
func ParseProxyURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, amzscrape.Errorf(amzscrape.EINVALID, "invalid proxy %q: %v", raw, err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		return nil, amzscrape.Errorf(amzscrape.EINVALID, "invalid proxy port in %q", raw)
	}
	proxy, err := ParseProxy(u.Scheme, u.Hostname(), port)
	if err != nil {
		return nil, err
	}
	proxy.User = u.User
	return proxy, nil
}
