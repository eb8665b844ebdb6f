package bridge

import (
	"strings"
	"testing"
)

func TestParseCommand_FullCommand(t *testing.T) {
	input := `{"url":"https://example.com","action":"fill","selector":"#q","value":"go","wait_for":"#form"}`

	cmd, err := ParseCommand(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}
	if cmd.URL != "https://example.com" {
		t.Errorf("URL = %q", cmd.URL)
	}
	if cmd.Action != ActionFill {
		t.Errorf("Action = %q", cmd.Action)
	}
	if cmd.Selector != "#q" {
		t.Errorf("Selector = %q", cmd.Selector)
	}
	if cmd.Value == nil || *cmd.Value != "go" {
		t.Errorf("Value = %v", cmd.Value)
	}
	if cmd.WaitFor != "#form" {
		t.Errorf("WaitFor = %q", cmd.WaitFor)
	}
}

func TestParseCommand_ActionDefaultsToGetContent(t *testing.T) {
	cmd, err := ParseCommand(strings.NewReader(`{"url":"https://example.com"}`))
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}
	if cmd.Action != ActionGetContent {
		t.Errorf("expected default action get_content, got %q", cmd.Action)
	}
}

func TestParseCommand_InvalidJSON(t *testing.T) {
	if _, err := ParseCommand(strings.NewReader("not json")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestParseCommand_EmptyInput(t *testing.T) {
	if _, err := ParseCommand(strings.NewReader("")); err == nil {
		t.Fatal("expected decode error for empty input")
	}
}

func TestParseCommand_NonStringAction(t *testing.T) {
	if _, err := ParseCommand(strings.NewReader(`{"url":"u","action":123}`)); err == nil {
		t.Fatal("expected decode error for non-string action")
	}
}

func TestParseCommand_AbsentValueVsEmptyValue(t *testing.T) {
	absent, err := ParseCommand(strings.NewReader(`{"url":"u","action":"fill","selector":"#q"}`))
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}
	if absent.Value != nil {
		t.Errorf("expected nil Value for absent field, got %q", *absent.Value)
	}

	empty, err := ParseCommand(strings.NewReader(`{"url":"u","action":"fill","selector":"#q","value":""}`))
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}
	if empty.Value == nil || *empty.Value != "" {
		t.Errorf("expected non-nil empty Value, got %v", empty.Value)
	}
}

func TestParseCommand_UnknownFieldsIgnored(t *testing.T) {
	cmd, err := ParseCommand(strings.NewReader(`{"url":"u","timeout":30,"extra":true}`))
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}
	if cmd.URL != "u" {
		t.Errorf("URL = %q", cmd.URL)
	}
}
