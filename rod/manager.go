package rod

import (
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
)

// DefaultMaxPages is how many product pages one browser serves before it
// is replaced.
const DefaultMaxPages = 75

// BrowserManager owns the headless browser behind a Fetcher. Long product
// crawls grow Chrome's resident memory, so after maxPages pages the browser
// is swapped for a fresh one.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	served   atomic.Int64
	closed   atomic.Bool

	maxPages int64
	launch   launchConfig
}

// launchConfig describes how Chrome is started.
type launchConfig struct {
	proxy    *url.URL
	language string
}

// launchFlag is one Chrome command line switch. An empty value is a bare
// switch.
type launchFlag struct {
	name  flags.Flag
	value string
}

// switches returns the command line for c. The automation marker is hidden
// because marketplace pages serve a challenge to browsers that expose it.
func (c launchConfig) switches() []launchFlag {
	out := []launchFlag{
		{name: "disable-background-timer-throttling"},
		{name: "disable-renderer-backgrounding"},
		{name: "disable-dev-shm-usage"},
		{name: "disable-blink-features", value: "AutomationControlled"},
	}
	if c.language != "" {
		out = append(out, launchFlag{name: "lang", value: c.language})
	}
	if c.proxy != nil {
		// Chrome takes no credentials on the command line.
		out = append(out, launchFlag{name: flags.ProxyServer, value: c.proxy.Scheme + "://" + c.proxy.Host})
	}
	return out
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets how many pages a browser serves before it is replaced.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// WithBrowserProxy routes browser traffic through proxy. Credentials in
// proxy are ignored.
func WithBrowserProxy(proxy *url.URL) ManagerOption {
	return func(bm *BrowserManager) {
		bm.launch.proxy = proxy
	}
}

// WithBrowserLanguage sets the browser UI language, which pages read
// through navigator.language.
func WithBrowserLanguage(lang string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.launch.language = lang
	}
}

// NewBrowserManager starts a headless browser. Close must be called to
// stop it.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(bm)
	}

	browser, l, err := bm.start()
	if err != nil {
		return nil, err
	}
	bm.browser, bm.launcher = browser, l
	return bm, nil
}

// Browser returns the browser to open the next page in, replacing it
// first when it has served maxPages pages. Call IncrementPageCount once
// the page has been read.
func (bm *BrowserManager) Browser() *rod.Browser {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.served.Load() >= bm.maxPages {
		bm.replace()
	}
	return bm.browser
}

// IncrementPageCount records one page served by the current browser.
func (bm *BrowserManager) IncrementPageCount() {
	bm.served.Add(1)
}

// Close stops the browser. Later calls return nil.
func (bm *BrowserManager) Close() error {
	if !bm.closed.CompareAndSwap(false, true) {
		return nil
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()

	err := stop(bm.browser, bm.launcher)
	bm.browser, bm.launcher = nil, nil
	return err
}

// LauncherPID returns the browser process id, or 0 once closed.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}

// start launches Chrome with the configured switches and connects to it.
func (bm *BrowserManager) start() (*rod.Browser, *launcher.Launcher, error) {
	l := launcher.New().Leakless(true).Headless(true)
	for _, f := range bm.launch.switches() {
		if f.value == "" {
			l = l.Set(f.name)
		} else {
			l = l.Set(f.name, f.value)
		}
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return browser, l, nil
}

// replace swaps in a new browser. The current one is kept if the new one
// fails to start. Must be called with mu held.
func (bm *BrowserManager) replace() {
	browser, l, err := bm.start()
	if err != nil {
		return
	}
	_ = stop(bm.browser, bm.launcher)
	bm.browser, bm.launcher = browser, l
	bm.served.Store(0)
}

func stop(browser *rod.Browser, l *launcher.Launcher) error {
	var err error
	if browser != nil {
		err = browser.Close()
	}
	if l != nil {
		l.Kill()
	}
	return err
}
