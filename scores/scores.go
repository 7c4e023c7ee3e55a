package scores

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Payload is the provider score mapping, concern name to either a bare number or a
// structure carrying ui_score, raw_score or whole.ui_score.
type Payload map[string]any

// Parse decodes a score_info.json document
func Parse(data []byte) (Payload, error) {
	result := Payload{}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("cannot parse scores: %w", err)
	}
	return result, nil
}

// Aliases returns the keys tried for a concern, in order
func Aliases(concern string) []string {
	return []string{concern, concern + "_v2", "hd_" + concern}
}

// Extract returns the 0-100 score of a concern, nil when the payload has none.
// An unusable value falls through to the next alias.
func (p Payload) Extract(concern string) *float64 {
	for _, key := range Aliases(concern) {
		value, ok := p[key]
		if !ok || value == nil {
			continue
		}
		if score := fromValue(value); score != nil {
			return score
		}
	}
	return nil
}

func fromValue(value any) *float64 {
	if f, ok := toFloat(value); ok {
		return &f
	}
	m, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	for _, key := range []string{"ui_score", "raw_score"} {
		if v, present := m[key]; present && v != nil {
			if f, ok := toFloat(v); ok {
				return &f
			}
		}
	}
	if whole, ok := m["whole"].(map[string]any); ok {
		if f, ok := toFloat(whole["ui_score"]); ok {
			return &f
		}
	}
	return nil
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint8:
		return float64(v), true
	case jsoniter.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}
