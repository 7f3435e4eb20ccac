package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed is returned when content cannot be parsed as JSON
// after code fence markers have been removed.
var ErrParseFailed = errors.New("failed to parse response")

var fencePattern = regexp.MustCompile("(?i)```(?:json)?")

// StripFences removes markdown code fence markers (``` and ```json) from
// model output and trims surrounding whitespace. Content without fences is
// returned trimmed but otherwise unchanged, so applying StripFences twice
// yields the same result as applying it once.
func StripFences(content string) string {
	return strings.TrimSpace(fencePattern.ReplaceAllString(content, ""))
}

// Parse strips code fences from content and unmarshals the remainder into T.
// Returns ErrParseFailed when the cleaned content is not valid JSON for T.
func Parse[T any](content string) (T, error) {
	var result T
	cleaned := StripFences(content)

	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return result, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}

	return result, nil
}
