// Package locale provides spoken dialogue prompts per language code.
package locale

import (
	"fmt"
	"strings"
)

// Message identifies one prompt kind spoken by the dialogue controller.
type Message string

const (
	MessageWelcome Message = "welcome"
	MessageRetry   Message = "retry"
	MessageMissing Message = "missing"
	MessageSuccess Message = "success"
)

const DefaultLanguage = "en"

// ErrUnsupportedLanguage wraps rejection of unknown language codes. Unknown
// codes are a configuration error, never silently defaulted.
type ErrUnsupportedLanguage struct {
	Code string
}

func (e ErrUnsupportedLanguage) Error() string {
	return fmt.Sprintf("unsupported language code %q (supported: en, de)", e.Code)
}

var prompts = map[string]map[Message]string{
	"en": {
		MessageWelcome: "Welcome. Please tell me the information for the form.",
		MessageRetry:   "Sorry, I could not process that. Please try again.",
		MessageMissing: "Some fields are still missing. Please provide the missing information.",
		MessageSuccess: "Thank you. The form is complete.",
	},
	"de": {
		MessageWelcome: "Willkommen. Bitte nennen Sie mir die Angaben für das Formular.",
		MessageRetry:   "Entschuldigung, das konnte ich nicht verarbeiten. Bitte versuchen Sie es erneut.",
		MessageMissing: "Es fehlen noch Angaben. Bitte ergänzen Sie die fehlenden Felder.",
		MessageSuccess: "Vielen Dank. Das Formular ist vollständig.",
	},
}

// speechCodes maps dialogue language codes to BCP-47 codes for ASR/TTS backends.
var speechCodes = map[string]string{
	"en": "en-US",
	"de": "de-DE",
}

// Validate normalizes a language code, defaulting blank input to English.
func Validate(code string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(code))
	if normalized == "" {
		return DefaultLanguage, nil
	}
	if _, ok := prompts[normalized]; !ok {
		return "", ErrUnsupportedLanguage{Code: code}
	}
	return normalized, nil
}

// Prompt returns the spoken text for one message kind in the given language.
// The language must have passed Validate.
func Prompt(code string, message Message) string {
	table, ok := prompts[code]
	if !ok {
		table = prompts[DefaultLanguage]
	}
	return table[message]
}

// SpeechCode returns the BCP-47 code passed to speech backends.
func SpeechCode(code string) string {
	if speech, ok := speechCodes[code]; ok {
		return speech
	}
	return speechCodes[DefaultLanguage]
}

// Supported lists recognized language codes.
func Supported() []string {
	return []string{"en", "de"}
}
