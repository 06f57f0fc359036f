package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ExtractJSONObject locates the JSON object embedded in a model response.
// Models routinely wrap payloads in ```json fences or add commentary around
// them, so the response is never trusted as JSON directly: fences are
// stripped, then the substring between the first '{' and the last '}' is
// taken.
func ExtractJSONObject(text string) (string, error) {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in response")
	}

	payload := text[start : end+1]
	if !gjson.Valid(payload) {
		return "", fmt.Errorf("response contains malformed JSON")
	}

	return payload, nil
}

// DecodeJSONResponse extracts the JSON object from a model response and
// unmarshals it into target.
func DecodeJSONResponse(response string, target any) error {
	payload, err := ExtractJSONObject(response)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(payload), target); err != nil {
		return fmt.Errorf("failed to unmarshal JSON payload: %w", err)
	}

	return nil
}
