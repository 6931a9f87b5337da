package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

func stripFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// UnmarshalResponse decodes a JSON payload out of a raw model response.
// Models often wrap JSON in markdown fences or surround it with prose, so
// after a direct parse fails the outermost braces are sliced and retried.
func UnmarshalResponse(raw string, out interface{}) error {
	cleaned := stripFences(raw)

	if err := json.Unmarshal([]byte(cleaned), out); err == nil {
		return nil
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), out); err == nil {
			return nil
		}
	}

	start = strings.Index(cleaned, "[")
	end = strings.LastIndex(cleaned, "]")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), out); err == nil {
			return nil
		}
	}

	return fmt.Errorf("invalid JSON response from AI")
}

// ParseItemsEnvelope decodes the {"items": [...]} envelope that generation
// prompts instruct the model to return. A response that is a bare top-level
// array is accepted as a fallback for models that drop the wrapper. An
// empty items array is a valid result (the model produced nothing), not a
// parse error.
func ParseItemsEnvelope(raw string) ([]map[string]interface{}, error) {
	var envelope struct {
		Items *[]map[string]interface{} `json:"items"`
	}
	if err := UnmarshalResponse(raw, &envelope); err == nil && envelope.Items != nil {
		return *envelope.Items, nil
	}

	if cleaned := stripFences(raw); strings.HasPrefix(cleaned, "[") {
		var bare []map[string]interface{}
		if err := json.Unmarshal([]byte(cleaned), &bare); err == nil {
			return bare, nil
		}
	}

	return nil, fmt.Errorf("AI response did not contain an items array")
}
