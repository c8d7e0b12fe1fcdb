package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"forum-mirror/internal/config"
)

// BrowserTransport loads pages in headless Chromium. Used when the forum
// sits behind a JavaScript challenge that plain HTTP cannot pass.
type BrowserTransport struct {
	browser         *rod.Browser
	pageTimeout     time.Duration
	waitLoadTimeout time.Duration
}

// NewBrowserTransport connects to rod.control_url, or launches a local
// browser (rod.chrome_path, or the one rod downloads) when it is empty.
func NewBrowserTransport(cfg *config.Config) (*BrowserTransport, error) {
	controlURL := cfg.Rod.ControlURL
	if controlURL == "" {
		l := launcher.New().Headless(true)
		if cfg.Rod.ChromePath != "" {
			l = l.Bin(cfg.Rod.ChromePath)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("failed to launch browser: %w", err)
		}
		controlURL = u
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &BrowserTransport{
		browser:         browser,
		pageTimeout:     cfg.GetRodPageTimeout(),
		waitLoadTimeout: cfg.GetRodWaitLoadTimeout(),
	}, nil
}

func (t *BrowserTransport) Get(ctx context.Context, urlStr string, header http.Header) (*FetchResponse, error) {
	pageCtx, cancel := context.WithTimeout(ctx, t.pageTimeout)
	defer cancel()

	base, err := t.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer func() { _ = base.Close() }()
	page := base.Context(pageCtx)

	if ua := header.Get("User-Agent"); ua != "" {
		err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent:      ua,
			AcceptLanguage: header.Get("Accept-Language"),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to set user agent: %w", err)
		}
	}

	status := 0
	waitDocument := page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument {
			return false
		}
		status = e.Response.Status
		return true
	})

	if err := page.Navigate(urlStr); err != nil {
		return nil, fmt.Errorf("failed to navigate: %w", err)
	}
	waitDocument()
	if pageCtx.Err() != nil {
		return nil, fmt.Errorf("no document response: %w", pageCtx.Err())
	}

	loadCtx, cancelLoad := context.WithTimeout(pageCtx, t.waitLoadTimeout)
	defer cancelLoad()
	if err := page.Context(loadCtx).WaitLoad(); err != nil {
		return nil, fmt.Errorf("failed to wait for load: %w", err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to read page HTML: %w", err)
	}

	finalURL := urlStr
	if info, err := page.Info(); err == nil {
		finalURL = info.URL
	}

	return &FetchResponse{
		StatusCode: status,
		Body:       []byte(html),
		URL:        finalURL,
		Headers:    http.Header{},
	}, nil
}

func (t *BrowserTransport) Close() error {
	return t.browser.Close()
}
