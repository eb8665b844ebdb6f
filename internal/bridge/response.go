package bridge

import (
	"fmt"
	"io"
)

// Response is the uniform output envelope. Content is always human-readable
// text; IsError is omitted on success paths and present-and-true on every
// failure path.
type Response struct {
	Content string `json:"content"`
	IsError bool   `json:"isError,omitempty"`
}

// Errorf builds a failure Response.
func Errorf(format string, args ...interface{}) Response {
	return Response{Content: fmt.Sprintf(format, args...), IsError: true}
}

// Write serializes the response as exactly one JSON line on w. Page text may
// contain markup, so HTML escaping is disabled.
func (r Response) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(r)
}

// Text limits applied when composing response content.
const (
	maxContentChars = 15000
	maxResultChars  = 10000
)

// truncate keeps the first limit characters of text and appends a marker when
// anything was cut. Limits count characters, not bytes.
func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "\n...(truncated)"
}
