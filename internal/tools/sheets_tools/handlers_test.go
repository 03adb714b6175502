package sheets_tools

import (
	"strings"
	"testing"
)

func TestParseValuesJSONString(t *testing.T) {
	rows, err := parseValues(`[["a","b"],["c",1]]`)
	if err != nil {
		t.Fatalf("parseValues: %v", err)
	}
	if len(rows) != 2 || len(rows[0]) != 2 {
		t.Fatalf("unexpected shape: %v", rows)
	}
	if rows[0][0] != "a" || rows[1][1] != float64(1) {
		t.Errorf("unexpected values: %v", rows)
	}
}

func TestParseValuesDecodedArray(t *testing.T) {
	rows, err := parseValues([]interface{}{
		[]interface{}{"x", "y"},
	})
	if err != nil {
		t.Fatalf("parseValues: %v", err)
	}
	if len(rows) != 1 || rows[0][1] != "y" {
		t.Errorf("unexpected values: %v", rows)
	}
}

func TestParseValuesRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
	}{
		{"nil", nil},
		{"empty string", ""},
		{"not json", "abc"},
		{"flat array json", `["a","b"]`},
		{"flat decoded array", []interface{}{"a", "b"}},
		{"number", 42.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseValues(tt.raw); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFormatRows(t *testing.T) {
	out := formatRows([][]interface{}{
		{"name", "count"},
		{"widgets", 3},
	})
	want := "name\tcount\nwidgets\t3\n"
	if out != want {
		t.Errorf("formatRows = %q, want %q", out, want)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("rows must be newline terminated")
	}
}
