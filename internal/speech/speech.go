// Package speech defines the speak/listen contracts the dialogue consumes.
package speech

import (
	"context"
	"errors"
)

var (
	// ErrPlayback indicates audio could not be synthesized or played.
	ErrPlayback = errors.New("speech playback failure")
	// ErrUnavailable indicates runtime speech wiring is missing.
	ErrUnavailable = errors.New("speech capture and playback pipeline not implemented")
)

// Speaker synthesizes one utterance and plays it to completion. One external
// call per invocation, no internal retry.
type Speaker interface {
	Speak(ctx context.Context, text string, languageCode string) error
}

// Listener captures one speech utterance and returns its transcript.
// Recognition failure and silence resolve to an empty transcript rather than
// an error; callers must treat empty transcripts as a normal outcome. Only
// one recognition session is active at a time.
type Listener interface {
	Listen(ctx context.Context, languageCode string) (string, error)
}

// SpeakFunc adapts a function to the Speaker interface.
type SpeakFunc func(ctx context.Context, text string, languageCode string) error

func (f SpeakFunc) Speak(ctx context.Context, text string, languageCode string) error {
	return f(ctx, text, languageCode)
}

// ListenFunc adapts a function to the Listener interface.
type ListenFunc func(ctx context.Context, languageCode string) (string, error)

func (f ListenFunc) Listen(ctx context.Context, languageCode string) (string, error) {
	return f(ctx, languageCode)
}

// PlaceholderSpeaker is a no-op placeholder used in tests/fallback wiring.
type PlaceholderSpeaker struct{}

func (PlaceholderSpeaker) Speak(context.Context, string, string) error {
	return nil
}

// PlaceholderListener resolves every capture to silence.
type PlaceholderListener struct{}

func (PlaceholderListener) Listen(context.Context, string) (string, error) {
	return "", nil
}
