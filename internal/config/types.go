// Package config resolves, parses, validates, and defaults voxfill configuration.
package config

import "time"

// Config is the fully materialized runtime configuration used by voxfill.
type Config struct {
	Model    ModelConfig
	TTS      TTSConfig
	ASR      ASRConfig
	Audio    AudioConfig
	Forms    FormsConfig
	Dialogue DialogueConfig
	Feedback FeedbackConfig
}

// ModelConfig controls the chat-completion backend used for field extraction.
type ModelConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	TimeoutMS int
}

// Timeout returns the per-request extraction deadline.
func (c ModelConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// TTSConfig controls the speech-synthesis backend.
type TTSConfig struct {
	Endpoint  string
	TimeoutMS int
}

// Timeout returns the per-request synthesis deadline.
func (c TTSConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// ASRConfig controls the streaming recognizer backend and utterance bounds.
type ASRConfig struct {
	Endpoint         string
	Model            string
	ListenWindowMS   int
	CollectTimeoutMS int
}

// ListenWindow returns how long one utterance is captured before the
// recognizer stream is finalized.
func (c ASRConfig) ListenWindow() time.Duration {
	return time.Duration(c.ListenWindowMS) * time.Millisecond
}

// CollectTimeout bounds the wait for trailing recognizer results after
// end-of-audio is sent.
func (c ASRConfig) CollectTimeout() time.Duration {
	return time.Duration(c.CollectTimeoutMS) * time.Millisecond
}

// AudioConfig controls preferred and fallback input-source selection.
type AudioConfig struct {
	Input    string
	Fallback string
}

// FormsConfig locates the form document operated on by fill sessions.
type FormsConfig struct {
	Document string
}

// DialogueConfig carries session-level defaults for fill runs.
type DialogueConfig struct {
	Language string
	Prompt   string
}

// FeedbackConfig controls completion and missing-field announcements.
type FeedbackConfig struct {
	Enable  bool
	Backend string
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Line    int
	Message string
}
