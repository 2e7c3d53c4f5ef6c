package browser

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Options configures the browser launch
type Options struct {
	Width      int
	Height     int
	Headless   bool
	Timeout    time.Duration // Page load timeout
	ProfileDir string        // Chrome/Chromium profile directory for authenticated sessions
}

// RodSession is a Session backed by a Rod page
type RodSession struct {
	browser *rod.Browser
	page    *rod.Page
	timeout time.Duration
}

// Launch starts a browser with a blank page
func Launch(opts Options) (*RodSession, error) {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}

	path, _ := launcher.LookPath()
	l := launcher.New().Bin(path).Headless(opts.Headless)

	if opts.ProfileDir != "" {
		l = l.UserDataDir(opts.ProfileDir)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	if opts.Width > 0 && opts.Height > 0 {
		err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             opts.Width,
			Height:            opts.Height,
			DeviceScaleFactor: 1,
		})
		if err != nil {
			browser.Close()
			return nil, fmt.Errorf("failed to set viewport: %w", err)
		}
	}

	return NewRodSession(browser, page, opts.Timeout), nil
}

// NewRodSession wraps an already connected browser and page
func NewRodSession(browser *rod.Browser, page *rod.Page, timeout time.Duration) *RodSession {
	return &RodSession{browser: browser, page: page, timeout: timeout}
}

// Close cleans up browser resources
func (s *RodSession) Close() {
	if s.page != nil {
		s.page.Close()
	}
	if s.browser != nil {
		s.browser.Close()
	}
}

// Page returns the underlying Rod page
func (s *RodSession) Page() *rod.Page {
	return s.page
}

// Navigate loads url and waits for the load event and a short network idle
func (s *RodSession) Navigate(url string) error {
	page := s.page.Timeout(s.timeout)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("failed to load %s: %w", url, err)
	}

	// Don't hang on persistent connections (WebSockets, polling, etc.)
	s.page.Timeout(5*time.Second).WaitRequestIdle(500*time.Millisecond, nil, nil, nil)()

	return nil
}

// Find returns the first element matching selector without waiting for it
func (s *RodSession) Find(selector string) (Element, error) {
	has, el, err := s.page.Has(selector)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", selector, err)
	}
	if !has {
		return nil, fmt.Errorf("%w: %s", ErrElementNotFound, selector)
	}
	return &rodElement{el: el, selector: selector}, nil
}

// Has reports whether selector matches anything right now
func (s *RodSession) Has(selector string) bool {
	has, _, err := s.page.Has(selector)
	return err == nil && has
}

// ClickLink clicks the first visible link with the given text
func (s *RodSession) ClickLink(text string) error {
	links, err := s.page.Elements("a")
	if err != nil {
		return fmt.Errorf("query links: %w", err)
	}

	for _, link := range links {
		t, err := link.Text()
		if err != nil || strings.TrimSpace(t) != text {
			continue
		}
		return (&rodElement{el: link, selector: "a"}).Click()
	}

	return fmt.Errorf("%w: link %q", ErrElementNotFound, text)
}

// SupportsJavaScript is always true for a real browser
func (s *RodSession) SupportsJavaScript() bool {
	return true
}

// Screenshot captures the current viewport as PNG
func (s *RodSession) Screenshot() ([]byte, error) {
	return s.page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
}

// notFound converts Rod's lookup failures to ErrElementNotFound
func notFound(err error, what string) error {
	var nf *rod.ElementNotFoundError
	if errors.As(err, &nf) {
		return fmt.Errorf("%w: %s", ErrElementNotFound, what)
	}
	return err
}
