package classify

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/nearbite/internal/domain"
)

func TestParseCategories(t *testing.T) {
	tests := []struct {
		name  string
		input string
		label string
		want  []string
	}{
		{"plain", `{"炒飯 🍚": ["A", "B"]}`, "炒飯 🍚", []string{"A", "B"}},
		{"json fence", "```json\n{\"壽司 🍣\": [\"S\"]}\n```", "壽司 🍣", []string{"S"}},
		{"bare fence", "```\n{\"火鍋 🍲\": [\"H\"]}\n```", "火鍋 🍲", []string{"H"}},
		{"surrounding prose", "Here you go:\n{\"拉麵 🍜\": [\"R\"]}\nEnjoy!", "拉麵 🍜", []string{"R"}},
		{"object entries", `{"咖啡廳 ☕️": [{"name": "C"}, 5, null]}`, "咖啡廳 ☕️", []string{"C"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cats, err := ParseCategories(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := cats.Names(tt.label)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("entry %d: expected %q, got %q", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestParseCategories_Malformed(t *testing.T) {
	for _, input := range []string{
		"",
		"   ",
		"抱歉，我無法分類",
		`["A", "B"]`,
		`{"炒飯": "A"}`,
		"null",
		"```json\n{\"a\": [\n```",
	} {
		if _, err := ParseCategories(input); !errors.Is(err, domain.ErrMalformedOutput) {
			t.Errorf("%q: expected ErrMalformedOutput, got %v", input, err)
		}
	}
}

func TestCleanMarkdownFences(t *testing.T) {
	if got := cleanMarkdownFences("  ```JSON\n{}\n```  "); got != "{}" {
		t.Errorf("expected {}, got %q", got)
	}
	if got := cleanMarkdownFences(`{"a":[]}`); got != `{"a":[]}` {
		t.Errorf("unfenced input should pass through, got %q", got)
	}
}
