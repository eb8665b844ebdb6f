package chrome_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/svengraziani/stealthbridge/internal/bridge"
	"github.com/svengraziani/stealthbridge/internal/chrome"
	"github.com/svengraziani/stealthbridge/internal/testutil"
)

// These tests drive a real headless Chrome and skip when none is installed.

func TestFetch_CapturesSnapshot(t *testing.T) {
	testutil.RequireChrome(t)

	srv := testutil.ServeHTML(t, `<html><head><title>Hello World</title></head>
<body><h1>Welcome</h1><p>Some page text.</p></body></html>`)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	page, err := chrome.NewFetcher().Fetch(ctx, srv.URL, bridge.FetchOptions{
		Headless:    true,
		NetworkIdle: true,
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if page.Title() != "Hello World" {
		t.Errorf("Title = %q", page.Title())
	}
	if page.Status() != 200 {
		t.Errorf("Status = %d", page.Status())
	}
	text := page.Text("\n")
	if text == "" {
		t.Fatal("expected visible text")
	}
	for _, want := range []string{"Welcome", "Some page text."} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing %q:\n%s", want, text)
		}
	}
}

func TestFetch_WaitSelector(t *testing.T) {
	testutil.RequireChrome(t)

	srv := testutil.ServeHTML(t, `<html><head><title>Deferred</title></head>
<body><div id="slot"></div>
<script>setTimeout(function() {
	var el = document.createElement('p');
	el.id = 'late';
	el.textContent = 'arrived';
	document.getElementById('slot').appendChild(el);
}, 300);</script></body></html>`)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	page, err := chrome.NewFetcher().Fetch(ctx, srv.URL, bridge.FetchOptions{
		Headless:     true,
		WaitSelector: "#late",
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !strings.Contains(page.Text("\n"), "arrived") {
		t.Errorf("expected deferred content, got %q", page.Text("\n"))
	}
}

func TestFetch_PageActionEvaluate(t *testing.T) {
	testutil.RequireChrome(t)

	srv := testutil.ServeHTML(t, `<html><head><title>Eval</title></head>
<body><a href="#">one</a><a href="#">two</a></body></html>`)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var result interface{}
	_, err := chrome.NewFetcher().Fetch(ctx, srv.URL, bridge.FetchOptions{
		Headless: true,
		PageAction: func(ctx context.Context, p bridge.Page) error {
			var evalErr error
			result, evalErr = p.Evaluate(ctx, "document.querySelectorAll('a').length")
			return evalErr
		},
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	n, ok := result.(float64)
	if !ok || n != 2 {
		t.Errorf("result = %v (%T), want 2", result, result)
	}
}

func TestFetch_PageActionFillAndClick(t *testing.T) {
	testutil.RequireChrome(t)

	srv := testutil.ServeHTML(t, `<html><head><title>Form</title></head>
<body>
<input id="name" type="text">
<button id="go" onclick="document.getElementById('out').textContent = document.getElementById('name').value">Go</button>
<div id="out"></div>
</body></html>`)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	page, err := chrome.NewFetcher().Fetch(ctx, srv.URL, bridge.FetchOptions{
		Headless: true,
		PageAction: func(ctx context.Context, p bridge.Page) error {
			if err := p.Fill(ctx, "#name", "gopher"); err != nil {
				return err
			}
			if err := p.Click(ctx, "#go"); err != nil {
				return err
			}
			return p.WaitForDuration(ctx, 200*time.Millisecond)
		},
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !strings.Contains(page.Text("\n"), "gopher") {
		t.Errorf("expected filled value in output, got %q", page.Text("\n"))
	}
}

func TestFetch_JSExceptionBecomesError(t *testing.T) {
	testutil.RequireChrome(t)

	srv := testutil.ServeHTML(t, `<html><head><title>Boom</title></head><body>x</body></html>`)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	_, err := chrome.NewFetcher().Fetch(ctx, srv.URL, bridge.FetchOptions{
		Headless: true,
		PageAction: func(ctx context.Context, p bridge.Page) error {
			_, evalErr := p.Evaluate(ctx, "definitelyNotAFunction()")
			return evalErr
		},
	})
	if err == nil {
		t.Fatal("expected JS exception to surface as an error")
	}
	if !strings.Contains(err.Error(), "JS exception") {
		t.Errorf("error = %v", err)
	}
}

func TestFetch_NavigationFailure(t *testing.T) {
	testutil.RequireChrome(t)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	_, err := chrome.NewFetcher().Fetch(ctx, "http://localhost:1/unreachable", bridge.FetchOptions{
		Headless: true,
	})
	if err == nil {
		t.Fatal("expected an error for an unreachable host")
	}
}
