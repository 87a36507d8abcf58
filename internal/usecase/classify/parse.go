package classify

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/kailas-cloud/nearbite/internal/domain"
)

var errNullObject = errors.New("null object")

var fencePattern = regexp.MustCompile(`(?s)^\s*` + "```" + `(?:json|JSON)?\s*\n?(.*?)\n?\s*` + "```" + `\s*$`)

// cleanMarkdownFences removes a surrounding ```json ... ``` block if present.
func cleanMarkdownFences(s string) string {
	s = strings.TrimSpace(s)
	if m := fencePattern.FindStringSubmatch(s); len(m) > 1 {
		s = m[1]
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParseCategories decodes model output into a category map.
// Output that is not a JSON object of label → list is domain.ErrMalformedOutput.
func ParseCategories(text string) (domain.CategoryMap, error) {
	cleaned := cleanMarkdownFences(text)
	if cleaned == "" {
		return nil, fmt.Errorf("empty output: %w", domain.ErrMalformedOutput)
	}

	cats, err := decodeCategories(cleaned)
	if err == nil {
		return cats, nil
	}

	// Models sometimes wrap the object in prose; retry on the outermost braces.
	start, end := strings.Index(cleaned, "{"), strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start && (start > 0 || end < len(cleaned)-1) {
		if cats, err2 := decodeCategories(cleaned[start : end+1]); err2 == nil {
			return cats, nil
		}
	}
	return nil, fmt.Errorf("decode categories: %w: %w", domain.ErrMalformedOutput, err)
}

func decodeCategories(s string) (domain.CategoryMap, error) {
	var cats domain.CategoryMap
	if err := json.Unmarshal([]byte(s), &cats); err != nil {
		return nil, err
	}
	if cats == nil {
		return nil, errNullObject
	}
	return cats, nil
}
