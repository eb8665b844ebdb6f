package bridge

import (
	"context"
	"time"
)

// Fetcher is the browser engine capability the dispatcher drives. One Fetch
// call provisions a browser, performs one navigation (plus an optional
// interaction step), and tears the browser down before returning.
type Fetcher interface {
	Fetch(ctx context.Context, url string, opts FetchOptions) (Page, error)
}

// FetchOptions is the declarative configuration for a single fetch.
type FetchOptions struct {
	// Headless hides the browser window.
	Headless bool

	// NetworkIdle delays fetch completion until network activity settles
	// after the load event.
	NetworkIdle bool

	// WaitSelector, when non-empty, is awaited before the fetch is
	// considered complete.
	WaitSelector string

	// PageAction, when non-nil, runs against the live page after navigation
	// and before the page snapshot is captured. An error aborts the fetch.
	PageAction func(ctx context.Context, p Page) error
}

// Page exposes the loaded page. Status, Title and Text read a snapshot
// captured when the fetch completed, so they remain valid after the browser
// is gone; the remaining methods operate on the live page and are only
// meaningful inside a PageAction.
type Page interface {
	// Status returns the HTTP status of the main document, or 0 if unknown.
	Status() int

	// Title returns the page title, or "" when the page has no title element.
	Title() string

	// Text returns the page's visible text as trimmed blocks joined by
	// separator.
	Text(separator string) string

	Click(ctx context.Context, selector string) error
	Fill(ctx context.Context, selector, value string) error
	Evaluate(ctx context.Context, js string) (interface{}, error)
	WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error
	WaitForDuration(ctx context.Context, d time.Duration) error
}
