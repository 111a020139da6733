// Package pipeline wires audio capture and playback to the speech backends.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mfelder/voxfill/internal/audio"
	"github.com/mfelder/voxfill/internal/config"
	"github.com/mfelder/voxfill/internal/locale"
	"github.com/mfelder/voxfill/internal/speech"
	"github.com/mfelder/voxfill/internal/tts"
)

// Speaker synthesizes prompt text and plays it on the default output.
type Speaker struct {
	logger *slog.Logger
	synth  *tts.Client
	play   func(ctx context.Context, pcm []byte) error
}

// NewSpeaker constructs a speaker from runtime config.
func NewSpeaker(cfg config.Config, logger *slog.Logger) *Speaker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Speaker{
		logger: logger,
		synth:  tts.NewClient(cfg.TTS.Endpoint, cfg.TTS.Timeout()),
		play:   audio.Play,
	}
}

// Speak synthesizes text in the given language and blocks until playback
// drains. Synthesis and playback failures both surface as playback faults.
func (s *Speaker) Speak(ctx context.Context, text string, languageCode string) error {
	pcm, err := s.synth.Synthesize(ctx, text, locale.SpeechCode(languageCode))
	if err != nil {
		return fmt.Errorf("%w: %v", speech.ErrPlayback, err)
	}

	s.logger.Debug("playing synthesized prompt", "bytes", len(pcm), "language", languageCode)
	if err := s.play(ctx, pcm); err != nil {
		return fmt.Errorf("%w: %v", speech.ErrPlayback, err)
	}
	return nil
}
