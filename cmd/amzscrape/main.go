package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/amzscrape"
	"github.com/fwojciec/amzscrape/crawl"
	"github.com/fwojciec/amzscrape/goquery"
	amzhttp "github.com/fwojciec/amzscrape/http"
	"github.com/fwojciec/amzscrape/rod"
	amzslog "github.com/fwojciec/amzscrape/slog"
	"github.com/fwojciec/amzscrape/sqlite"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env file is fine; flags and the environment still apply.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	m := NewMain()

	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database holding snapshot history. Opened only by commands
	// that read or write history.
	DB *sqlite.DB

	// Fetcher overrides the HTTP or browser fetcher. Used by end-to-end tests.
	Fetcher amzscrape.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("amzscrape"),
		kong.Description("Scrape product and search pages into structured JSON"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'amzscrape --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	deps.Logger = logger
	deps.Origin = cli.Origin
	if deps.Origin == "" {
		deps.Origin = amzscrape.DefaultOrigin
	}
	deps.Currency = cli.Currency
	if deps.Currency == "" {
		deps.Currency = amzscrape.DefaultCurrencySymbol
	}

	// resolve is pure and needs nothing else.
	if cmd == "resolve" {
		return kongCtx.Run(deps)
	}

	// Snapshot history
	if cmd == "history" || cmd == "serve" || (cmd == "product" && cli.Product.Record) {
		dbPath := cli.DB
		if dbPath == "" {
			dbPath = defaultDBPath()
		}
		m.DB = sqlite.NewDB(dbPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set AMZSCRAPE_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
		}
		defer m.Close()

		deps.Snapshots = amzslog.NewLoggingSnapshotService(sqlite.NewSnapshotService(m.DB), logger)
	}

	if cmd == "history" {
		return kongCtx.Run(deps)
	}

	fetcher, err := m.newFetcher(cli, stderr)
	if err != nil {
		return err
	}
	defer fetcher.Close()

	products := goquery.NewProductParser(goquery.WithCurrencySymbol(deps.Currency))

	scraper := &crawl.Scraper{
		Fetcher:     amzslog.NewLoggingFetcher(fetcher, logger),
		Products:    amzslog.NewLoggingProductParser(products, logger),
		RateLimiter: crawl.NewDomainLimiter(1.0),
		Origin:      deps.Origin,
		Headers:     amzhttp.DefaultHeaders(amzhttp.HeaderConfig{UserAgent: cli.UserAgent}),
		Logf: func(format string, args ...any) {
			logger.Info(strings.TrimSpace(fmt.Sprintf(format, args...)))
		},
	}
	if cmd == "serve" || cmd == "product" {
		scraper.Snapshots = deps.Snapshots
	}

	deps.Scraper = scraper
	deps.Products = scraper
	deps.Search = &crawl.Searcher[string]{
		Scraper: scraper,
		Parser:  goquery.NewSearchParser[string](goquery.RowHTML{}),
	}
	deps.Sitemaps = amzslog.NewLoggingSitemapService(amzhttp.NewSitemapService(nil), logger)

	return kongCtx.Run(deps)
}

// newFetcher builds the page fetcher selected by the global flags.
func (m *Main) newFetcher(cli *CLI, stderr io.Writer) (amzscrape.Fetcher, error) {
	if m.Fetcher != nil {
		return m.Fetcher, nil
	}

	var proxy *url.URL
	if cli.Proxy != "" {
		var err error
		if proxy, err = amzhttp.ParseProxyURL(cli.Proxy); err != nil {
			return nil, err
		}
	}

	if cli.Browser {
		f, err := rod.NewFetcher(
			rod.WithFetchTimeout(cli.Timeout),
			rod.WithProxy(proxy),
			rod.WithHeaders(amzhttp.DefaultHeaders(amzhttp.HeaderConfig{UserAgent: cli.UserAgent})),
		)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		return f, nil
	}

	return amzhttp.NewFetcher(
		amzhttp.WithTimeout(cli.Timeout),
		amzhttp.WithProxy(proxy),
	), nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "amzscrape.db"
	}
	dir := filepath.Join(home, ".amzscrape")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "history.db")
}
