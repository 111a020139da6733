package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

type jsoncConfig struct {
	Model    *jsoncModel    `json:"model"`
	TTS      *jsoncTTS      `json:"tts"`
	ASR      *jsoncASR      `json:"asr"`
	Audio    *jsoncAudio    `json:"audio"`
	Forms    *jsoncForms    `json:"forms"`
	Dialogue *jsoncDialogue `json:"dialogue"`
	Feedback *jsoncFeedback `json:"feedback"`
}

type jsoncModel struct {
	APIKey    *string `json:"api_key"`
	BaseURL   *string `json:"base_url"`
	Model     *string `json:"model"`
	TimeoutMS *int    `json:"timeout_ms"`
}

type jsoncTTS struct {
	Endpoint  *string `json:"endpoint"`
	TimeoutMS *int    `json:"timeout_ms"`
}

type jsoncASR struct {
	Endpoint         *string `json:"endpoint"`
	Model            *string `json:"model"`
	ListenWindowMS   *int    `json:"listen_window_ms"`
	CollectTimeoutMS *int    `json:"collect_timeout_ms"`
}

type jsoncAudio struct {
	Input    *string `json:"input"`
	Fallback *string `json:"fallback"`
}

type jsoncForms struct {
	Document *string `json:"document"`
}

type jsoncDialogue struct {
	Language *string `json:"language"`
	Prompt   *string `json:"prompt"`
}

type jsoncFeedback struct {
	Enable  *bool   `json:"enable"`
	Backend *string `json:"backend"`
}

func parseJSONC(content string, base Config) (Config, []Warning, error) {
	normalized, err := normalizeJSONC(content)
	if err != nil {
		return Config{}, nil, err
	}

	decoder := json.NewDecoder(strings.NewReader(normalized))
	decoder.DisallowUnknownFields()

	var payload jsoncConfig
	if err := decoder.Decode(&payload); err != nil {
		return Config{}, nil, wrapJSONDecodeError(normalized, err)
	}
	if err := ensureSingleJSONValue(decoder); err != nil {
		return Config{}, nil, wrapJSONDecodeError(normalized, err)
	}

	cfg := base
	payload.applyTo(&cfg)

	warnings, err := Validate(cfg)
	if err != nil {
		return Config{}, nil, err
	}
	return cfg, warnings, nil
}

func (payload jsoncConfig) applyTo(cfg *Config) {
	if payload.Model != nil {
		if payload.Model.APIKey != nil {
			cfg.Model.APIKey = strings.TrimSpace(*payload.Model.APIKey)
		}
		if payload.Model.BaseURL != nil {
			cfg.Model.BaseURL = strings.TrimSpace(*payload.Model.BaseURL)
		}
		if payload.Model.Model != nil {
			cfg.Model.Model = strings.TrimSpace(*payload.Model.Model)
		}
		if payload.Model.TimeoutMS != nil {
			cfg.Model.TimeoutMS = *payload.Model.TimeoutMS
		}
	}

	if payload.TTS != nil {
		if payload.TTS.Endpoint != nil {
			cfg.TTS.Endpoint = strings.TrimSpace(*payload.TTS.Endpoint)
		}
		if payload.TTS.TimeoutMS != nil {
			cfg.TTS.TimeoutMS = *payload.TTS.TimeoutMS
		}
	}

	if payload.ASR != nil {
		if payload.ASR.Endpoint != nil {
			cfg.ASR.Endpoint = strings.TrimSpace(*payload.ASR.Endpoint)
		}
		if payload.ASR.Model != nil {
			cfg.ASR.Model = strings.TrimSpace(*payload.ASR.Model)
		}
		if payload.ASR.ListenWindowMS != nil {
			cfg.ASR.ListenWindowMS = *payload.ASR.ListenWindowMS
		}
		if payload.ASR.CollectTimeoutMS != nil {
			cfg.ASR.CollectTimeoutMS = *payload.ASR.CollectTimeoutMS
		}
	}

	if payload.Audio != nil {
		if payload.Audio.Input != nil {
			cfg.Audio.Input = *payload.Audio.Input
		}
		if payload.Audio.Fallback != nil {
			cfg.Audio.Fallback = *payload.Audio.Fallback
		}
	}

	if payload.Forms != nil && payload.Forms.Document != nil {
		cfg.Forms.Document = strings.TrimSpace(*payload.Forms.Document)
	}

	if payload.Dialogue != nil {
		if payload.Dialogue.Language != nil {
			cfg.Dialogue.Language = strings.TrimSpace(*payload.Dialogue.Language)
		}
		if payload.Dialogue.Prompt != nil {
			cfg.Dialogue.Prompt = *payload.Dialogue.Prompt
		}
	}

	if payload.Feedback != nil {
		if payload.Feedback.Enable != nil {
			cfg.Feedback.Enable = *payload.Feedback.Enable
		}
		if payload.Feedback.Backend != nil {
			cfg.Feedback.Backend = strings.TrimSpace(*payload.Feedback.Backend)
		}
	}
}

func normalizeJSONC(content string) (string, error) {
	withoutComments, err := stripJSONCComments(content)
	if err != nil {
		return "", err
	}
	return stripJSONCTrailingCommas(withoutComments), nil
}

func stripJSONCComments(content string) (string, error) {
	var out strings.Builder
	out.Grow(len(content))

	inString := false
	escape := false
	lineComment := false
	blockComment := false

	for i := 0; i < len(content); i++ {
		ch := content[i]

		if lineComment {
			if ch == '\n' || ch == '\r' {
				lineComment = false
				out.WriteByte(ch)
				continue
			}
			out.WriteByte(' ')
			continue
		}

		if blockComment {
			if ch == '*' && i+1 < len(content) && content[i+1] == '/' {
				blockComment = false
				out.WriteString("  ")
				i++
				continue
			}
			if ch == '\n' || ch == '\r' || ch == '\t' {
				out.WriteByte(ch)
			} else {
				out.WriteByte(' ')
			}
			continue
		}

		if inString {
			out.WriteByte(ch)
			if escape {
				escape = false
				continue
			}
			if ch == '\\' {
				escape = true
				continue
			}
			if ch == '"' {
				inString = false
			}
			continue
		}

		if ch == '"' {
			inString = true
			out.WriteByte(ch)
			continue
		}

		if ch == '/' && i+1 < len(content) {
			next := content[i+1]
			if next == '/' {
				lineComment = true
				out.WriteString("  ")
				i++
				continue
			}
			if next == '*' {
				blockComment = true
				out.WriteString("  ")
				i++
				continue
			}
		}

		out.WriteByte(ch)
	}

	if blockComment {
		return "", fmt.Errorf("unterminated block comment in JSONC")
	}

	return out.String(), nil
}

func stripJSONCTrailingCommas(content string) string {
	var out strings.Builder
	out.Grow(len(content))

	inString := false
	escape := false

	for i := 0; i < len(content); i++ {
		ch := content[i]

		if inString {
			out.WriteByte(ch)
			if escape {
				escape = false
				continue
			}
			if ch == '\\' {
				escape = true
				continue
			}
			if ch == '"' {
				inString = false
			}
			continue
		}

		if ch == '"' {
			inString = true
			out.WriteByte(ch)
			continue
		}

		if ch == ',' {
			j := i + 1
			for j < len(content) && isJSONWhitespace(content[j]) {
				j++
			}
			if j < len(content) && (content[j] == '}' || content[j] == ']') {
				continue
			}
		}

		out.WriteByte(ch)
	}

	return out.String()
}

func isJSONWhitespace(ch byte) bool {
	switch ch {
	case ' ', '\n', '\r', '\t':
		return true
	default:
		return false
	}
}

func ensureSingleJSONValue(decoder *json.Decoder) error {
	var extra struct{}
	err := decoder.Decode(&extra)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err == nil {
		return fmt.Errorf("multiple JSON values are not allowed")
	}
	return err
}

func wrapJSONDecodeError(content string, err error) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, col := offsetToLineCol(content, syntaxErr.Offset)
		return fmt.Errorf("line %d column %d: %w", line, col, err)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		line, col := offsetToLineCol(content, typeErr.Offset)
		return fmt.Errorf("line %d column %d: %w", line, col, err)
	}

	return err
}

func offsetToLineCol(content string, offset int64) (int, int) {
	if offset <= 0 {
		return 1, 1
	}

	limit := int(offset)
	if limit > len(content) {
		limit = len(content)
	}

	line := 1
	col := 1
	for i := 0; i < limit-1; i++ {
		if content[i] == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
