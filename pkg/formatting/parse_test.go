package formatting_test

import (
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/JaimeStill/hackid/pkg/formatting"
)

type verdict struct {
	Verdict   string `json:"verdict"`
	Reasoning string `json:"reasoning"`
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  verdict
	}{
		{"direct JSON", `{"verdict":"VERIFIED","reasoning":"ok"}`, verdict{"VERIFIED", "ok"}},
		{"padded", "  {\"verdict\":\"UNVERIFIED\"}  ", verdict{Verdict: "UNVERIFIED"}},
		{"fenced with tag", "```json\n{\"verdict\":\"VERIFIED\"}\n```", verdict{Verdict: "VERIFIED"}},
		{"fenced without tag", "```\n{\"verdict\":\"CONTRADICTED\"}\n```", verdict{Verdict: "CONTRADICTED"}},
		{
			"fenced inside prose",
			"Here is my answer:\n```json\n{\"verdict\":\"VERIFIED\",\"reasoning\":\"minimax\"}\n```\nThanks.",
			verdict{"VERIFIED", "minimax"},
		},
		{
			"object embedded in prose",
			`After reading the file: {"verdict":"UNVERIFIED","reasoning":"stub only"} hope that helps`,
			verdict{"UNVERIFIED", "stub only"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.Parse[verdict](tt.input)
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseFailures(t *testing.T) {
	inputs := map[string]string{
		"prose":        "not json at all",
		"empty":        "",
		"broken fence": "```json\n{broken\n```",
		"unbalanced":   "} nothing {",
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := formatting.Parse[verdict](input)
			if !errors.Is(err, formatting.ErrParseFailed) {
				t.Errorf("error = %v, want ErrParseFailed", err)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		n     int
		want  string
	}{
		{"shorter than limit", "abc", 10, "abc"},
		{"exact", "abcdef", 6, "abcdef"},
		{"cut", "abcdef", 4, "abcd"},
		{"non-positive limit keeps all", "abc", 0, "abc"},
		{"multibyte boundary", "héllo", 2, "h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatting.Truncate(tt.input, tt.n)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("Truncate produced invalid UTF-8: %q", got)
			}
		})
	}
}
