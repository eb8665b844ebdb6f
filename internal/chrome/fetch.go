package chrome

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/svengraziani/stealthbridge/internal/bridge"
	"github.com/svengraziani/stealthbridge/internal/chrome/launcher"
)

const (
	connectTimeout      = 10 * time.Second
	loadTimeout         = 30 * time.Second
	idleSettle          = 500 * time.Millisecond
	idleMax             = 10 * time.Second
	waitSelectorTimeout = 10 * time.Second
)

// Fetcher provisions a disposable headless browser for every call: launch,
// navigate, interact, snapshot, tear down. It implements bridge.Fetcher.
type Fetcher struct {
	// ChromePath overrides browser discovery. Auto-detected when empty.
	ChromePath string
}

// NewFetcher returns a Fetcher with browser auto-detection.
func NewFetcher() *Fetcher {
	return &Fetcher{}
}

var _ bridge.Fetcher = (*Fetcher)(nil)

// Fetch performs one navigation plus the optional interaction step described
// by opts, then returns a Page whose snapshot outlives the browser.
func (f *Fetcher) Fetch(ctx context.Context, url string, opts bridge.FetchOptions) (bridge.Page, error) {
	port, err := launcher.FreePort()
	if err != nil {
		return nil, fmt.Errorf("picking debug port: %w", err)
	}

	inst, err := launcher.Launch(launcher.Options{
		ChromePath: f.ChromePath,
		Port:       port,
		Headless:   opts.Headless,
	})
	if err != nil {
		return nil, err
	}
	defer inst.Stop()

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	client, err := Connect(connectCtx, "localhost", port)
	cancel()
	if err != nil {
		return nil, err
	}
	defer client.Close()

	targetID, err := client.FirstPageTarget(ctx)
	if err != nil {
		return nil, err
	}
	sessionID, err := client.AttachToTarget(ctx, targetID)
	if err != nil {
		return nil, err
	}

	page := &Page{client: client, sessionID: sessionID}

	// Network tracking must start before navigation so the document
	// response is not missed.
	tracker, err := trackNetwork(ctx, client, sessionID)
	if err != nil {
		return nil, err
	}
	defer tracker.stop()

	if _, err := client.CallSession(ctx, sessionID, "Page.enable", nil); err != nil {
		return nil, fmt.Errorf("enabling Page domain: %w", err)
	}

	loadCh := client.subscribeEvent(sessionID, "Page.loadEventFired")
	defer client.unsubscribeEvent(sessionID, "Page.loadEventFired", loadCh)

	navResult, err := client.CallSession(ctx, sessionID, "Page.navigate", map[string]string{
		"url": url,
	})
	if err != nil {
		return nil, fmt.Errorf("navigating: %w", err)
	}

	var navResp struct {
		ErrorText string `json:"errorText"`
	}
	if err := json.Unmarshal(navResult, &navResp); err != nil {
		return nil, fmt.Errorf("parsing navigate response: %w", err)
	}
	if navResp.ErrorText != "" {
		return nil, fmt.Errorf("navigation failed: %s", navResp.ErrorText)
	}

	select {
	case <-loadCh:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(loadTimeout):
		return nil, fmt.Errorf("timeout waiting for page load")
	}

	if opts.NetworkIdle {
		if err := tracker.waitIdle(ctx, idleSettle, idleMax); err != nil {
			return nil, err
		}
	}

	if opts.WaitSelector != "" {
		if err := page.WaitForSelector(ctx, opts.WaitSelector, waitSelectorTimeout); err != nil {
			return nil, err
		}
	}

	if opts.PageAction != nil {
		if err := opts.PageAction(ctx, page); err != nil {
			return nil, err
		}
	}

	page.status = tracker.documentStatus()
	if err := page.captureSnapshot(ctx); err != nil {
		return nil, err
	}

	return page, nil
}
