package chrome

import (
	"reflect"
	"testing"
)

func TestSplitBlocks(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"whitespace only", "  \n\t\n ", nil},
		{"single line", "hello", []string{"hello"}},
		{"trims and drops blanks", "  one  \n\n  two\n   \nthree", []string{"one", "two", "three"}},
		{"windows newlines", "a\r\nb", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitBlocks(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitBlocks(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPageSnapshotAccessors(t *testing.T) {
	p := &Page{
		status:     200,
		title:      "Example",
		textBlocks: []string{"first", "second"},
	}

	if p.Status() != 200 {
		t.Errorf("Status = %d", p.Status())
	}
	if p.Title() != "Example" {
		t.Errorf("Title = %q", p.Title())
	}
	if got := p.Text("\n"); got != "first\nsecond" {
		t.Errorf("Text = %q", got)
	}
	if got := p.Text(" "); got != "first second" {
		t.Errorf("Text = %q", got)
	}
}
