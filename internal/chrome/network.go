package chrome

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// networkTracker watches a session's network events to capture the main
// document's HTTP status and to detect when network activity has settled.
type networkTracker struct {
	client    *Client
	sessionID string

	requestCh  chan json.RawMessage
	finishedCh chan json.RawMessage
	failedCh   chan json.RawMessage
	responseCh chan json.RawMessage

	mu     sync.Mutex
	status int

	stopOnce sync.Once
}

// trackNetwork enables the Network domain on the session and starts
// observing events. Call stop when done.
func trackNetwork(ctx context.Context, client *Client, sessionID string) (*networkTracker, error) {
	if _, err := client.CallSession(ctx, sessionID, "Network.enable", nil); err != nil {
		return nil, fmt.Errorf("enabling network: %w", err)
	}

	t := &networkTracker{
		client:     client,
		sessionID:  sessionID,
		requestCh:  client.subscribeEvent(sessionID, "Network.requestWillBeSent"),
		finishedCh: client.subscribeEvent(sessionID, "Network.loadingFinished"),
		failedCh:   client.subscribeEvent(sessionID, "Network.loadingFailed"),
		responseCh: client.subscribeEvent(sessionID, "Network.responseReceived"),
	}

	// The first Document response carries the navigation's status code.
	go func() {
		for params := range t.responseCh {
			var event struct {
				Type     string `json:"type"`
				Response struct {
					Status int `json:"status"`
				} `json:"response"`
			}
			if err := json.Unmarshal(params, &event); err != nil {
				continue
			}
			if event.Type == "Document" {
				t.mu.Lock()
				if t.status == 0 {
					t.status = event.Response.Status
				}
				t.mu.Unlock()
			}
		}
	}()

	return t, nil
}

// documentStatus returns the captured main-document status, or 0 if no
// document response was observed.
func (t *networkTracker) documentStatus() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// waitIdle blocks until no request has started or finished for idleTime.
// Idle detection is a heuristic: when max elapses the wait gives up and
// reports success so the fetch can proceed.
func (t *networkTracker) waitIdle(ctx context.Context, idleTime, max time.Duration) error {
	pending := make(map[string]bool)

	idleTimer := time.NewTimer(idleTime)
	defer idleTimer.Stop()
	capTimer := time.NewTimer(max)
	defer capTimer.Stop()

	resetIdle := func() {
		if !idleTimer.Stop() {
			select {
			case <-idleTimer.C:
			default:
			}
		}
		idleTimer.Reset(idleTime)
	}

	requestID := func(params json.RawMessage) (string, bool) {
		var event struct {
			RequestID string `json:"requestId"`
		}
		if err := json.Unmarshal(params, &event); err != nil {
			return "", false
		}
		return event.RequestID, true
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-capTimer.C:
			return nil
		case params := <-t.requestCh:
			if id, ok := requestID(params); ok {
				pending[id] = true
				resetIdle()
			}
		case params := <-t.finishedCh:
			if id, ok := requestID(params); ok {
				delete(pending, id)
				resetIdle()
			}
		case params := <-t.failedCh:
			if id, ok := requestID(params); ok {
				delete(pending, id)
				resetIdle()
			}
		case <-idleTimer.C:
			if len(pending) == 0 {
				return nil
			}
			idleTimer.Reset(idleTime)
		}
	}
}

// stop unsubscribes the tracker's event channels.
func (t *networkTracker) stop() {
	t.stopOnce.Do(func() {
		t.client.unsubscribeEvent(t.sessionID, "Network.requestWillBeSent", t.requestCh)
		t.client.unsubscribeEvent(t.sessionID, "Network.loadingFinished", t.finishedCh)
		t.client.unsubscribeEvent(t.sessionID, "Network.loadingFailed", t.failedCh)
		t.client.unsubscribeEvent(t.sessionID, "Network.responseReceived", t.responseCh)
	})
}
