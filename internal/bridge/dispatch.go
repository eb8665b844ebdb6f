package bridge

import (
	"context"
	"fmt"
	"time"
)

const (
	// waitForTimeout bounds the optional wait_for selector wait inside an
	// interaction step.
	waitForTimeout = 10 * time.Second

	// clickSettle is the fixed pause after a click so triggered
	// navigations or DOM updates can land before content capture.
	clickSettle = 1500 * time.Millisecond
)

// Bridge routes validated commands to their handler and normalizes every
// outcome into the Response envelope.
type Bridge struct {
	fetcher Fetcher
}

// New returns a Bridge backed by the given engine.
func New(fetcher Fetcher) *Bridge {
	return &Bridge{fetcher: fetcher}
}

// Dispatch runs cmd's handler. Validation failures inside handlers are
// ordinary results; any error the engine surfaces is collapsed here into the
// single uniform failure shape, undifferentiated by cause.
func (b *Bridge) Dispatch(ctx context.Context, cmd *Command) Response {
	var (
		resp Response
		err  error
	)

	switch cmd.Action {
	case ActionGetContent:
		resp, err = b.getContent(ctx, cmd)
	case ActionClick:
		resp, err = b.click(ctx, cmd)
	case ActionFill:
		resp, err = b.fill(ctx, cmd)
	case ActionEvaluate:
		resp, err = b.evaluate(ctx, cmd)
	default:
		return Errorf("Unknown action: %s", cmd.Action)
	}

	if err != nil {
		return Errorf("scrapling error: %v", err)
	}
	return resp
}

// getContent fetches the page and returns its title, status and visible text.
func (b *Bridge) getContent(ctx context.Context, cmd *Command) (Response, error) {
	page, err := b.fetcher.Fetch(ctx, cmd.URL, FetchOptions{
		Headless:     true,
		NetworkIdle:  true,
		WaitSelector: cmd.WaitFor,
	})
	if err != nil {
		return Response{}, err
	}

	body := truncate(page.Text("\n"), maxContentChars)
	content := fmt.Sprintf("Page: %s\nURL: %s\nStatus: %d\n\n%s",
		page.Title(), cmd.URL, page.Status(), body)
	return Response{Content: content}, nil
}

// click navigates, clicks the selector, and returns the resulting content.
func (b *Bridge) click(ctx context.Context, cmd *Command) (Response, error) {
	if cmd.Selector == "" {
		return Errorf("Error: selector is required for click action"), nil
	}

	page, err := b.fetcher.Fetch(ctx, cmd.URL, FetchOptions{
		Headless:    true,
		NetworkIdle: true,
		PageAction: func(ctx context.Context, p Page) error {
			if cmd.WaitFor != "" {
				if err := p.WaitForSelector(ctx, cmd.WaitFor, waitForTimeout); err != nil {
					return err
				}
			}
			if err := p.Click(ctx, cmd.Selector); err != nil {
				return err
			}
			return p.WaitForDuration(ctx, clickSettle)
		},
	})
	if err != nil {
		return Response{}, err
	}

	body := truncate(page.Text("\n"), maxResultChars)
	content := fmt.Sprintf("Clicked %q\nPage: %s\nURL: %s\n\n%s",
		cmd.Selector, page.Title(), cmd.URL, body)
	return Response{Content: content}, nil
}

// fill navigates and fills a form field. No content is extracted.
func (b *Bridge) fill(ctx context.Context, cmd *Command) (Response, error) {
	if cmd.Selector == "" {
		return Errorf("Error: selector is required for fill action"), nil
	}
	if cmd.Value == nil {
		return Errorf("Error: value is required for fill action"), nil
	}
	value := *cmd.Value

	_, err := b.fetcher.Fetch(ctx, cmd.URL, FetchOptions{
		Headless:    true,
		NetworkIdle: true,
		PageAction: func(ctx context.Context, p Page) error {
			if cmd.WaitFor != "" {
				if err := p.WaitForSelector(ctx, cmd.WaitFor, waitForTimeout); err != nil {
					return err
				}
			}
			return p.Fill(ctx, cmd.Selector, value)
		},
	})
	if err != nil {
		return Response{}, err
	}

	return Response{Content: fmt.Sprintf("Filled %q with value %q", cmd.Selector, value)}, nil
}

// evaluate navigates and runs JavaScript in the page context, capturing its
// return value.
func (b *Bridge) evaluate(ctx context.Context, cmd *Command) (Response, error) {
	if cmd.JavaScript == "" {
		return Errorf("Error: javascript is required for evaluate action"), nil
	}

	var result interface{}
	_, err := b.fetcher.Fetch(ctx, cmd.URL, FetchOptions{
		Headless:    true,
		NetworkIdle: true,
		PageAction: func(ctx context.Context, p Page) error {
			if cmd.WaitFor != "" {
				if err := p.WaitForSelector(ctx, cmd.WaitFor, waitForTimeout); err != nil {
					return err
				}
			}
			value, err := p.Evaluate(ctx, cmd.JavaScript)
			if err != nil {
				return err
			}
			result = value
			return nil
		},
	})
	if err != nil {
		return Response{}, err
	}

	content := "JavaScript result:\n" + truncate(formatResult(result), maxResultChars)
	return Response{Content: content}, nil
}

// formatResult renders an evaluation result as indented JSON, falling back to
// plain formatting for values that cannot be serialized.
func formatResult(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
