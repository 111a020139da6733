package config

import (
	"fmt"
	"strings"

	"github.com/mfelder/voxfill/internal/locale"
)

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if strings.TrimSpace(cfg.Model.BaseURL) == "" {
		return nil, fmt.Errorf("model.base_url must not be empty")
	}
	if strings.TrimSpace(cfg.Model.Model) == "" {
		return nil, fmt.Errorf("model.model must not be empty")
	}
	if cfg.Model.TimeoutMS <= 0 {
		return nil, fmt.Errorf("model.timeout_ms must be > 0")
	}
	if strings.TrimSpace(cfg.TTS.Endpoint) == "" {
		return nil, fmt.Errorf("tts.endpoint must not be empty")
	}
	if cfg.TTS.TimeoutMS <= 0 {
		return nil, fmt.Errorf("tts.timeout_ms must be > 0")
	}
	if strings.TrimSpace(cfg.ASR.Endpoint) == "" {
		return nil, fmt.Errorf("asr.endpoint must not be empty")
	}
	if cfg.ASR.ListenWindowMS <= 0 {
		return nil, fmt.Errorf("asr.listen_window_ms must be > 0")
	}
	if cfg.ASR.CollectTimeoutMS <= 0 {
		return nil, fmt.Errorf("asr.collect_timeout_ms must be > 0")
	}

	if _, err := locale.Validate(cfg.Dialogue.Language); err != nil {
		return nil, fmt.Errorf("dialogue.language: %w", err)
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.Feedback.Backend))
	if backend == "" {
		return nil, fmt.Errorf("feedback.backend must not be empty")
	}
	if backend != "terminal" && backend != "log" {
		return nil, fmt.Errorf("feedback.backend must be one of: terminal, log")
	}

	if strings.TrimSpace(cfg.Model.APIKey) == "" {
		warnings = append(warnings, Warning{Message: "model.api_key is empty; extraction requests will fail until VOXFILL_API_KEY or model.api_key is set"})
	}
	if strings.TrimSpace(cfg.Forms.Document) == "" {
		warnings = append(warnings, Warning{Message: "forms.document is empty; fill commands require --document or forms.document"})
	}

	return warnings, nil
}
