package extract

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/mfelder/voxfill/internal/form"
)

// parseResponse turns the model's reply into extracted values. Scalars map to
// text values, arrays to choice sets; anything else is rejected.
func parseResponse(content string) (form.Values, error) {
	payload := stripCodeFence(content)
	if strings.TrimSpace(payload) == "" {
		return nil, errors.New("empty model response")
	}

	var raw map[string]any
	if err := sonic.UnmarshalString(payload, &raw); err != nil {
		return nil, fmt.Errorf("decode model response: %w", err)
	}

	values := make(form.Values, len(raw))
	for key, entry := range raw {
		switch v := entry.(type) {
		case string:
			values[key] = form.TextValue(v)
		case float64:
			values[key] = form.TextValue(strconv.FormatFloat(v, 'f', -1, 64))
		case bool:
			values[key] = form.TextValue(fmt.Sprintf("%t", v))
		case nil:
			values[key] = form.Value{}
		case []any:
			choices := make([]string, 0, len(v))
			for _, member := range v {
				text, ok := member.(string)
				if !ok {
					return nil, fmt.Errorf("field %q: non-string array member", key)
				}
				if strings.TrimSpace(text) == "" {
					continue
				}
				choices = append(choices, text)
			}
			values[key] = form.ChoiceValue(choices...)
		default:
			return nil, fmt.Errorf("field %q: unsupported value type %T", key, entry)
		}
	}

	return values, nil
}

// stripCodeFence removes a surrounding markdown fence some models emit.
func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
