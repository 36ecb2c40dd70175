package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/amzscrape"
	"github.com/fwojciec/amzscrape/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Origin   string
	Currency string

	Products  amzscrape.ProductService
	Search    amzscrape.SearchService[string]
	Snapshots amzscrape.SnapshotService
	Sitemaps  amzscrape.SitemapService
	Scraper   *crawl.Scraper
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Origin    string        `env:"AMZSCRAPE_ORIGIN" help:"Store origin (default: https://www.amazon.com.br)"`
	Currency  string        `env:"AMZSCRAPE_CURRENCY" help:"Currency symbol stripped from prices"`
	Proxy     string        `env:"AMZSCRAPE_PROXY" help:"Proxy URL (http, https or socks5)"`
	DB        string        `name:"db" env:"AMZSCRAPE_DB" help:"Snapshot database path (default: ~/.amzscrape/history.db)"`
	Timeout   time.Duration `default:"10s" env:"AMZSCRAPE_TIMEOUT" help:"Fetch timeout per page"`
	UserAgent string        `name:"user-agent" env:"AMZSCRAPE_USER_AGENT" help:"User-Agent header sent with every request"`
	Browser   bool          `help:"Fetch pages with a headless browser"`
	Verbose   bool          `short:"v" help:"Log debug output"`

	Product ProductCmd `cmd:"" help:"Scrape one product page"`
	Search  SearchCmd  `cmd:"" help:"Fetch one page of search results"`
	Batch   BatchCmd   `cmd:"" help:"Scrape many product pages into a directory"`
	History HistoryCmd `cmd:"" help:"List recorded snapshots for a product"`
	Resolve ResolveCmd `cmd:"" help:"Print the product id and slug of a URL"`
	Serve   ServeCmd   `cmd:"" help:"Serve the JSON API"`
}

// ProductCmd is the "product" subcommand.
type ProductCmd struct {
	URL    string `arg:"" help:"Product URL"`
	Output string `short:"o" help:"Write the record to this file instead of stdout"`
	Record bool   `help:"Save a snapshot to the history database"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query string `arg:"" help:"Search keywords"`
	Page  int    `default:"1" help:"Results page, starting at 1"`
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	URLs        []string `arg:"" optional:"" name:"url" help:"Product URLs"`
	Sitemap     string   `help:"Discover product URLs from this site's sitemap"`
	Out         string   `required:"" help:"Output directory"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent fetch limit"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	URL   string `arg:"" help:"Product URL"`
	Limit int    `default:"20" help:"Maximum snapshots to list"`
}

// ResolveCmd is the "resolve" subcommand.
type ResolveCmd struct {
	URL string `arg:"" help:"Product URL"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `default:":8080" help:"Listen address"`
}
