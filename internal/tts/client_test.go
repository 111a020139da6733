package tts

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"
)

func TestSynthesizeSendsRequestAndReturnsAudio(t *testing.T) {
	var got synthesizeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/synthesize", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, sonic.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "audio/pcm")
		_, _ = w.Write([]byte{0x01, 0x02, 0x03, 0x04})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	audio, err := client.Synthesize(context.Background(), "Welcome.", "en-US")
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, audio)

	require.Equal(t, "Welcome.", got.Text)
	require.Equal(t, "en-US", got.LanguageCode)
	require.Equal(t, 16000, got.SampleRate)
	require.Equal(t, "pcm_s16le", got.Encoding)
}

func TestSynthesizeBareHostGetsHTTPScheme(t *testing.T) {
	client := NewClient("127.0.0.1:9000", time.Second)
	require.True(t, strings.HasPrefix(client.baseURL, "http://"))
}

func TestSynthesizeRejectsEmptyText(t *testing.T) {
	client := NewClient("127.0.0.1:9000", time.Second)
	_, err := client.Synthesize(context.Background(), "  ", "en-US")
	require.Error(t, err)
}

func TestSynthesizeEmptyEndpoint(t *testing.T) {
	client := NewClient("", time.Second)
	_, err := client.Synthesize(context.Background(), "hello", "en-US")
	require.Error(t, err)
	require.Contains(t, err.Error(), "endpoint is empty")
}

func TestSynthesizeNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "voice unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.Synthesize(context.Background(), "hello", "en-US")
	require.Error(t, err)
	require.Contains(t, err.Error(), "HTTP 503")
	require.Contains(t, err.Error(), "voice unavailable")
}

func TestSynthesizeEmptyAudioIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	_, err := client.Synthesize(context.Background(), "hello", "en-US")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no audio")
}

func TestSynthesizeUnreachableBackend(t *testing.T) {
	client := NewClient("127.0.0.1:1", 200*time.Millisecond)
	_, err := client.Synthesize(context.Background(), "hello", "en-US")
	require.Error(t, err)
}
