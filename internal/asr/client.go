// Package asr streams captured PCM to a websocket speech recognizer and
// collects transcript segments.
package asr

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/coder/websocket"
)

// StreamConfig controls stream initialization and recognition behavior.
type StreamConfig struct {
	Endpoint     string // host:port or full ws:// URL
	LanguageCode string
	Model        string
	DialTimeout  time.Duration
}

// streamInit is the first message sent on a new recognition stream.
type streamInit struct {
	LanguageCode string `json:"language_code"`
	SampleRate   int    `json:"sample_rate"`
	Model        string `json:"model,omitempty"`
}

// event is one recognizer message: interim or final transcript, or a fault.
type event struct {
	Type       string `json:"type"`
	Transcript string `json:"transcript,omitempty"`
	Message    string `json:"message,omitempty"`
}

// endOfAudio tells the recognizer no more PCM follows on this stream.
var endOfAudio = []byte(`{"type":"end"}`)

// Stream wraps one active recognition websocket lifecycle.
type Stream struct {
	conn *websocket.Conn

	recvDone chan struct{}

	mu         sync.Mutex
	segments   []string // committed final transcript segments
	recvErr    error
	closedSend bool
}

// DialStream connects, sends the stream configuration, and starts the
// receive loop. Only one stream should be active per session; dialing a new
// one supersedes any previous recognition.
func DialStream(ctx context.Context, cfg StreamConfig) (*Stream, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, errors.New("recognizer endpoint is empty")
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 3 * time.Second
	}
	if strings.TrimSpace(cfg.LanguageCode) == "" {
		cfg.LanguageCode = "en-US"
	}

	url := endpoint
	if !strings.HasPrefix(url, "ws://") && !strings.HasPrefix(url, "wss://") {
		url = "ws://" + url + "/v1/recognize"
	}

	dialCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	conn, _, err := websocket.Dial(dialCtx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial recognizer %q: %w", url, err)
	}
	// Transcript segments can outgrow the default read limit on long turns.
	conn.SetReadLimit(1 << 20)

	init, err := sonic.Marshal(streamInit{
		LanguageCode: cfg.LanguageCode,
		SampleRate:   16000,
		Model:        strings.TrimSpace(cfg.Model),
	})
	if err != nil {
		_ = conn.Close(websocket.StatusInternalError, "encode init")
		return nil, fmt.Errorf("encode stream init: %w", err)
	}
	if err := conn.Write(ctx, websocket.MessageText, init); err != nil {
		_ = conn.Close(websocket.StatusInternalError, "send init")
		return nil, fmt.Errorf("send stream init: %w", err)
	}

	s := &Stream{
		conn:     conn,
		recvDone: make(chan struct{}),
	}
	go s.recvLoop(ctx)
	return s, nil
}

// SendPCM forwards one captured audio chunk to the recognizer.
func (s *Stream) SendPCM(ctx context.Context, chunk []byte) error {
	s.mu.Lock()
	if s.closedSend {
		s.mu.Unlock()
		return errors.New("send side already closed")
	}
	s.mu.Unlock()

	if err := s.conn.Write(ctx, websocket.MessageBinary, chunk); err != nil {
		return fmt.Errorf("send audio chunk: %w", err)
	}
	return nil
}

// CloseAndCollect signals end of audio, waits for the recognizer to finish,
// and returns all committed transcript segments.
func (s *Stream) CloseAndCollect(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	alreadyClosed := s.closedSend
	s.closedSend = true
	s.mu.Unlock()

	if !alreadyClosed {
		if err := s.conn.Write(ctx, websocket.MessageText, endOfAudio); err != nil {
			_ = s.conn.Close(websocket.StatusInternalError, "send end")
			return nil, fmt.Errorf("send end of audio: %w", err)
		}
	}

	select {
	case <-s.recvDone:
	case <-ctx.Done():
		_ = s.conn.Close(websocket.StatusGoingAway, "collect timeout")
		return nil, fmt.Errorf("wait for final transcript: %w", ctx.Err())
	}

	_ = s.conn.Close(websocket.StatusNormalClosure, "done")

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recvErr != nil {
		return nil, s.recvErr
	}
	segments := make([]string, len(s.segments))
	copy(segments, s.segments)
	return segments, nil
}

// Cancel abandons the stream and discards whatever was recognized.
func (s *Stream) Cancel() error {
	s.mu.Lock()
	s.closedSend = true
	s.mu.Unlock()
	return s.conn.Close(websocket.StatusGoingAway, "cancelled")
}

// recvLoop consumes recognizer events until the server closes the stream.
func (s *Stream) recvLoop(ctx context.Context) {
	defer close(s.recvDone)

	for {
		kind, payload, err := s.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure {
				return
			}
			s.setRecvErr(fmt.Errorf("read recognizer event: %w", err))
			return
		}
		if kind != websocket.MessageText {
			continue
		}

		var ev event
		if err := sonic.Unmarshal(payload, &ev); err != nil {
			s.setRecvErr(fmt.Errorf("decode recognizer event: %w", err))
			return
		}

		switch ev.Type {
		case "final":
			if strings.TrimSpace(ev.Transcript) != "" {
				s.mu.Lock()
				s.segments = append(s.segments, ev.Transcript)
				s.mu.Unlock()
			}
		case "done":
			return
		case "error":
			s.setRecvErr(fmt.Errorf("recognizer fault: %s", ev.Message))
			return
		default:
			// Interim results are informational only.
		}
	}
}

func (s *Stream) setRecvErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recvErr == nil {
		s.recvErr = err
	}
}
