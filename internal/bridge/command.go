// Package bridge implements the one-shot command protocol: decode a single
// JSON command, validate it per action, drive the browser engine, and
// normalize every outcome into the uniform response envelope.
package bridge

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Action identifies one of the supported browser operations.
type Action string

const (
	ActionGetContent Action = "get_content"
	ActionClick      Action = "click"
	ActionFill       Action = "fill"
	ActionEvaluate   Action = "evaluate"
)

// Command is the single decoded input structure describing one requested
// browser action. Commands are never mutated after decoding and each process
// handles exactly one.
//
// Value is a pointer so an explicitly empty string can be told apart from an
// absent field: absent is a validation error for fill, empty is not.
type Command struct {
	URL        string  `json:"url"`
	Action     Action  `json:"action"`
	Selector   string  `json:"selector"`
	Value      *string `json:"value"`
	JavaScript string  `json:"javascript"`
	WaitFor    string  `json:"wait_for"`
}

// ParseCommand consumes the whole input stream as one blocking read and
// decodes it as a single Command. The action defaults to get_content when
// absent. A decode failure here is protocol-fatal for the caller.
func ParseCommand(r io.Reader) (*Command, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	var cmd Command
	if err := json.Unmarshal(raw, &cmd); err != nil {
		return nil, err
	}

	if cmd.Action == "" {
		cmd.Action = ActionGetContent
	}
	return &cmd, nil
}
