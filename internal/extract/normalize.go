package extract

import (
	"strings"
	"time"
	"unicode"

	"github.com/mfelder/voxfill/internal/form"
)

// dateLayouts are accepted input shapes, normalized to YYYY-MM-DD.
var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"01/02/2006",
	"2 January 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2. January 2006",
}

// normalizeValues enforces the instruction's normalization rules on whatever
// the model returned, keyed by the catalog's field kinds.
func normalizeValues(catalog form.Catalog, values form.Values) form.Values {
	normalized := make(form.Values, len(values))
	kinds := kindByKey(catalog)

	for key, value := range values {
		kind, ok := kinds[key]
		if !ok {
			// Keys outside the catalog are dropped; merge would ignore
			// them anyway and they pollute logs.
			continue
		}

		switch kind {
		case form.KindEmail:
			normalized[key] = form.TextValue(normalizeEmail(value.Text))
		case form.KindDate:
			normalized[key] = form.TextValue(normalizeDate(value.Text))
		case form.KindText, form.KindTextarea:
			normalized[key] = form.TextValue(capitalize(strings.TrimSpace(value.Text)))
		case form.KindRadio, form.KindSelect:
			normalized[key] = form.TextValue(strings.TrimSpace(value.Text))
		case form.KindCheckbox:
			normalized[key] = value
		default:
			normalized[key] = form.TextValue(strings.TrimSpace(value.Text))
		}
	}

	return normalized
}

func kindByKey(catalog form.Catalog) map[string]form.Kind {
	kinds := make(map[string]form.Kind, len(catalog))
	for _, field := range catalog {
		if _, ok := kinds[field.Key()]; !ok {
			kinds[field.Key()] = field.Kind
		}
	}
	return kinds
}

func normalizeEmail(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), ""))
}

// normalizeDate reformats recognizable date shapes to YYYY-MM-DD and leaves
// anything else untouched for validation to flag downstream.
func normalizeDate(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.Format("2006-01-02")
		}
	}
	return trimmed
}

func capitalize(text string) string {
	runes := []rune(text)
	for i, r := range runes {
		if unicode.IsLetter(r) {
			runes[i] = unicode.ToUpper(r)
			break
		}
		if !unicode.IsSpace(r) {
			break
		}
	}
	return string(runes)
}
