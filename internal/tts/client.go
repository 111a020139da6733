// Package tts requests synthesized speech audio from an HTTP backend.
package tts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// Client calls one text-to-speech endpoint. One request per Synthesize call,
// no internal retry.
type Client struct {
	baseURL string
	http    *http.Client
}

type synthesizeRequest struct {
	Text         string `json:"text"`
	LanguageCode string `json:"language_code"`
	SampleRate   int    `json:"sample_rate"`
	Encoding     string `json:"encoding"`
}

// NewClient builds a synthesis client for baseURL ("host:port" or full URL).
func NewClient(baseURL string, timeout time.Duration) *Client {
	base := strings.TrimSpace(baseURL)
	if base != "" && !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Synthesize returns s16le mono PCM audio for one utterance.
func (c *Client) Synthesize(ctx context.Context, text string, languageCode string) ([]byte, error) {
	if c.baseURL == "" {
		return nil, errors.New("synthesis endpoint is empty")
	}
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("no text to synthesize")
	}

	payload, err := sonic.Marshal(synthesizeRequest{
		Text:         text,
		LanguageCode: languageCode,
		SampleRate:   16000,
		Encoding:     "pcm_s16le",
	})
	if err != nil {
		return nil, fmt.Errorf("encode synthesis request: %w", err)
	}

	url := c.baseURL + "/v1/synthesize"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build synthesis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("synthesis request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("HTTP %d from %s: %s", resp.StatusCode, url, strings.TrimSpace(string(detail)))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read synthesized audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, errors.New("synthesis returned no audio")
	}
	return audio, nil
}
