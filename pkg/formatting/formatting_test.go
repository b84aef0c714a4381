package formatting_test

import (
	"errors"
	"testing"

	"github.com/JaimeStill/landmark/pkg/formatting"
)

type verdict struct {
	IsDiscrepant bool   `json:"is_discrepant"`
	Reason       string `json:"reason"`
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  verdict
	}{
		{"direct", `{"is_discrepant":true,"reason":"street differs"}`, verdict{true, "street differs"}},
		{"padded", "  {\"is_discrepant\":false,\"reason\":\"\"}  ", verdict{false, ""}},
		{"fenced", "```json\n{\"is_discrepant\":true,\"reason\":\"lga\"}\n```", verdict{true, "lga"}},
		{"fenced bare", "```\n{\"is_discrepant\":false}\n```", verdict{false, ""}},
		{"surrounding text", "Result:\n```json\n{\"is_discrepant\":true,\"reason\":\"x\"}\n```\nDone.", verdict{true, "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.Parse[verdict](tt.input)
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Parse = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseFailure(t *testing.T) {
	_, err := formatting.Parse[verdict]("the addresses look the same to me")
	if !errors.Is(err, formatting.ErrParseFailed) {
		t.Errorf("expected ErrParseFailed, got %v", err)
	}
}

func TestParseBytes(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"2048", 2048, false},
		{"1KB", 1024, false},
		{"10 mb", 10 * 1024 * 1024, false},
		{"1.5GB", 1536 * 1024 * 1024, false},
		{"", 0, true},
		{"12XB", 0, true},
		{"MB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseBytes(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBytes(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseBytes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n         int64
		precision int
		want      string
	}{
		{0, 1, "0 B"},
		{512, 2, "512 B"},
		{1024, 0, "1 KB"},
		{1536, 1, "1.5 KB"},
		{10 * 1024 * 1024, -1, "10 MB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatting.FormatBytes(tt.n, tt.precision); got != tt.want {
				t.Errorf("FormatBytes(%d, %d) = %q, want %q", tt.n, tt.precision, got, tt.want)
			}
		})
	}
}
