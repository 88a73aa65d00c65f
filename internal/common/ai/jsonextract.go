// internal/common/ai/jsonextract.go
package ai

import (
	"encoding/json"
	"errors"
	"strings"
)

var ErrNoJSONObject = errors.New("no JSON object found in text")

// ExtractFirstJSONObject returns the first balanced {...} span in text.
// Reasoning capabilities often wrap their JSON payload in prose or markdown
// fences; every orchestrator shares this one extraction path.
func ExtractFirstJSONObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", ErrNoJSONObject
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		ch := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", ErrNoJSONObject
}

// DecodeFirstJSONObject extracts and unmarshals the first JSON object in text.
func DecodeFirstJSONObject(text string, v interface{}) error {
	span, err := ExtractFirstJSONObject(text)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(span), v)
}
