package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mfelder/voxfill/internal/asr"
	"github.com/mfelder/voxfill/internal/audio"
	"github.com/mfelder/voxfill/internal/config"
	"github.com/mfelder/voxfill/internal/locale"
)

const dialTimeout = 3 * time.Second

// Listener captures one utterance per call and resolves it to a transcript.
//
// Setup and recognition faults resolve to an empty transcript rather than an
// error: the dialogue treats silence and failed recognition the same way and
// asks again. Only context cancellation is surfaced to the caller.
type Listener struct {
	cfg    config.Config
	logger *slog.Logger

	mu sync.Mutex // one active capture at a time
}

// NewListener constructs a listener from runtime config.
func NewListener(cfg config.Config, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Listener{cfg: cfg, logger: logger}
}

// Listen records from the configured input source for the listen window,
// streams PCM to the recognizer, and assembles the final transcript.
func (l *Listener) Listen(ctx context.Context, languageCode string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}

	selection, err := audio.SelectDevice(ctx, l.cfg.Audio.Input, l.cfg.Audio.Fallback)
	if err != nil {
		l.logger.Warn("input device selection failed", "error", err)
		return "", nil
	}
	if selection.Warning != "" {
		l.logger.Warn(selection.Warning)
	}

	stream, err := asr.DialStream(ctx, asr.StreamConfig{
		Endpoint:     l.cfg.ASR.Endpoint,
		LanguageCode: locale.SpeechCode(languageCode),
		Model:        l.cfg.ASR.Model,
		DialTimeout:  dialTimeout,
	})
	if err != nil {
		l.logger.Warn("recognizer dial failed", "error", err, "endpoint", l.cfg.ASR.Endpoint)
		return "", nil
	}

	capture, err := audio.StartCapture(ctx, selection.Device)
	if err != nil {
		_ = stream.Cancel()
		l.logger.Warn("audio capture failed to start", "error", err)
		return "", nil
	}

	sendErrCh := make(chan error, 1)
	go sendLoop(ctx, capture, stream, sendErrCh)

	window := time.NewTimer(l.cfg.ASR.ListenWindow())
	defer window.Stop()

	select {
	case <-ctx.Done():
		_ = capture.Stop()
		<-sendErrCh
		_ = stream.Cancel()
		return "", ctx.Err()
	case <-window.C:
	}

	_ = capture.Stop()
	if sendErr := <-sendErrCh; sendErr != nil {
		_ = stream.Cancel()
		l.logger.Warn("audio stream send failed", "error", sendErr)
		return "", nil
	}

	closeCtx, cancel := context.WithTimeout(ctx, l.cfg.ASR.CollectTimeout())
	defer cancel()
	segments, err := stream.CloseAndCollect(closeCtx)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		l.logger.Warn("transcript collection failed", "error", err)
		return "", nil
	}

	transcript := asr.Assemble(segments)
	l.logger.Debug("utterance recognized",
		"bytes", capture.BytesCaptured(),
		"segments", len(segments),
		"chars", len(transcript))
	return transcript, nil
}

// sendLoop forwards capture chunks to the recognizer and reports the first
// send failure. It drains remaining chunks after a failure so the capture
// flush never blocks.
func sendLoop(ctx context.Context, capture *audio.Capture, stream *asr.Stream, errCh chan<- error) {
	for chunk := range capture.Chunks() {
		if len(chunk) == 0 {
			continue
		}
		if err := stream.SendPCM(ctx, chunk); err != nil {
			_ = capture.Stop()
			errCh <- err
			for range capture.Chunks() {
			}
			return
		}
	}
	errCh <- nil
}
