// Package testutil provides helpers for integration tests that drive a real
// browser.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/svengraziani/stealthbridge/internal/chrome/launcher"
)

// RequireChrome skips the test when no Chrome binary is installed.
func RequireChrome(t *testing.T) {
	t.Helper()
	if launcher.FindChrome("") == "" {
		t.Skip("skipping: no Chrome binary found")
	}
}

// ServeHTML starts a test HTTP server that answers every request with the
// given HTML document. The server is shut down when the test ends.
func ServeHTML(t *testing.T, html string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(html))
	}))
	t.Cleanup(srv.Close)
	return srv
}
