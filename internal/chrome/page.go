package chrome

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Page is a loaded browser page. The interaction methods talk to the live
// session; Status, Title and Text read the snapshot captured when the fetch
// completed, so they stay valid after the browser is gone.
type Page struct {
	client    *Client
	sessionID string

	status     int
	title      string
	textBlocks []string
}

// Status returns the HTTP status of the main document, or 0 if unknown.
func (p *Page) Status() int {
	return p.status
}

// Title returns the page title, or "" when the page has no title element.
func (p *Page) Title() string {
	return p.title
}

// Text returns the page's visible text blocks joined by separator.
func (p *Page) Text(separator string) string {
	return strings.Join(p.textBlocks, separator)
}

// querySelector returns the node ID of the first match, or 0 if none.
func (p *Page) querySelector(ctx context.Context, selector string) (int, error) {
	docResult, err := p.client.CallSession(ctx, p.sessionID, "DOM.getDocument", nil)
	if err != nil {
		return 0, fmt.Errorf("getting document: %w", err)
	}

	var docResp struct {
		Root struct {
			NodeID int `json:"nodeId"`
		} `json:"root"`
	}
	if err := json.Unmarshal(docResult, &docResp); err != nil {
		return 0, fmt.Errorf("parsing document response: %w", err)
	}

	queryResult, err := p.client.CallSession(ctx, p.sessionID, "DOM.querySelector", map[string]interface{}{
		"nodeId":   docResp.Root.NodeID,
		"selector": selector,
	})
	if err != nil {
		return 0, fmt.Errorf("querying selector: %w", err)
	}

	var queryResp struct {
		NodeID int `json:"nodeId"`
	}
	if err := json.Unmarshal(queryResult, &queryResp); err != nil {
		return 0, fmt.Errorf("parsing query response: %w", err)
	}
	return queryResp.NodeID, nil
}

// Click clicks the center of the first element matching the selector by
// dispatching real mouse events.
func (p *Page) Click(ctx context.Context, selector string) error {
	nodeID, err := p.querySelector(ctx, selector)
	if err != nil {
		return err
	}
	if nodeID == 0 {
		return fmt.Errorf("element not found: %s", selector)
	}

	boxResult, err := p.client.CallSession(ctx, p.sessionID, "DOM.getBoxModel", map[string]interface{}{
		"nodeId": nodeID,
	})
	if err != nil {
		return fmt.Errorf("getting box model: %w", err)
	}

	var boxResp struct {
		Model struct {
			Content []float64 `json:"content"` // [x1,y1, x2,y2, x3,y3, x4,y4]
		} `json:"model"`
	}
	if err := json.Unmarshal(boxResult, &boxResp); err != nil {
		return fmt.Errorf("parsing box model response: %w", err)
	}

	content := boxResp.Model.Content
	if len(content) < 8 {
		return fmt.Errorf("invalid box model")
	}
	x := (content[0] + content[2] + content[4] + content[6]) / 4
	y := (content[1] + content[3] + content[5] + content[7]) / 4

	for _, event := range []map[string]interface{}{
		{"type": "mouseMoved", "x": x, "y": y},
		{"type": "mousePressed", "x": x, "y": y, "button": "left", "clickCount": 1},
		{"type": "mouseReleased", "x": x, "y": y, "button": "left", "clickCount": 1},
	} {
		if _, err := p.client.CallSession(ctx, p.sessionID, "Input.dispatchMouseEvent", event); err != nil {
			return fmt.Errorf("dispatching %s: %w", event["type"], err)
		}
	}
	return nil
}

// Fill focuses the first element matching the selector, clears it, and
// inserts the value as text input.
func (p *Page) Fill(ctx context.Context, selector, value string) error {
	nodeID, err := p.querySelector(ctx, selector)
	if err != nil {
		return err
	}
	if nodeID == 0 {
		return fmt.Errorf("element not found: %s", selector)
	}

	if _, err := p.client.CallSession(ctx, p.sessionID, "DOM.focus", map[string]interface{}{
		"nodeId": nodeID,
	}); err != nil {
		return fmt.Errorf("focusing element: %w", err)
	}

	if _, err := p.client.CallSession(ctx, p.sessionID, "Runtime.evaluate", map[string]interface{}{
		"expression": fmt.Sprintf(`document.querySelector(%q).value = ''`, selector),
	}); err != nil {
		return fmt.Errorf("clearing input value: %w", err)
	}

	if _, err := p.client.CallSession(ctx, p.sessionID, "Input.insertText", map[string]interface{}{
		"text": value,
	}); err != nil {
		return fmt.Errorf("inserting text: %w", err)
	}
	return nil
}

// Evaluate runs a JavaScript expression in the page context and returns its
// value. A thrown exception becomes an error.
func (p *Page) Evaluate(ctx context.Context, js string) (interface{}, error) {
	result, err := p.client.CallSession(ctx, p.sessionID, "Runtime.evaluate", map[string]interface{}{
		"expression":    js,
		"returnByValue": true,
	})
	if err != nil {
		return nil, fmt.Errorf("evaluating expression: %w", err)
	}

	var evalResp struct {
		Result struct {
			Type  string      `json:"type"`
			Value interface{} `json:"value"`
		} `json:"result"`
		ExceptionDetails *struct {
			Text      string `json:"text"`
			Exception *struct {
				Description string `json:"description"`
			} `json:"exception"`
		} `json:"exceptionDetails"`
	}
	if err := json.Unmarshal(result, &evalResp); err != nil {
		return nil, fmt.Errorf("parsing eval response: %w", err)
	}

	if evalResp.ExceptionDetails != nil {
		detail := evalResp.ExceptionDetails.Text
		if evalResp.ExceptionDetails.Exception != nil && evalResp.ExceptionDetails.Exception.Description != "" {
			detail = evalResp.ExceptionDetails.Exception.Description
		}
		return nil, fmt.Errorf("JS exception: %s", detail)
	}
	return evalResp.Result.Value, nil
}

// WaitForSelector polls until an element matching the selector appears.
func (p *Page) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	pollInterval := 100 * time.Millisecond

	for {
		if time.Now().After(deadline) {
			return fmt.Errorf("timeout waiting for selector: %s", selector)
		}

		nodeID, err := p.querySelector(ctx, selector)
		if err != nil {
			return err
		}
		if nodeID != 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// WaitForDuration pauses for a fixed period.
func (p *Page) WaitForDuration(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// captureSnapshot records the title and visible text so the read accessors
// keep working after teardown.
func (p *Page) captureSnapshot(ctx context.Context) error {
	title, err := p.Evaluate(ctx, `(function() {
		var t = document.querySelector('title');
		return t ? t.textContent : '';
	})()`)
	if err != nil {
		return fmt.Errorf("capturing title: %w", err)
	}
	if s, ok := title.(string); ok {
		p.title = s
	}

	text, err := p.Evaluate(ctx, `document.body ? document.body.innerText : ''`)
	if err != nil {
		return fmt.Errorf("capturing text: %w", err)
	}
	if s, ok := text.(string); ok {
		p.textBlocks = splitBlocks(s)
	}
	return nil
}

// splitBlocks splits raw page text into trimmed, non-empty lines.
func splitBlocks(text string) []string {
	var blocks []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			blocks = append(blocks, line)
		}
	}
	return blocks
}
