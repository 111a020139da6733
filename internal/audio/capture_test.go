package audio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriterFuncDelegatesWrite(t *testing.T) {
	called := false
	writer := writerFunc(func(b []byte) (int, error) {
		called = true
		require.Equal(t, []byte{1, 2, 3}, b)
		return len(b), nil
	})

	n, err := writer.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.True(t, called)
}

func TestCaptureOnPCMChunkingAndStopFlushesPending(t *testing.T) {
	capture := &Capture{
		chunks: make(chan []byte, 8),
		stopCh: make(chan struct{}),
	}

	input := make([]byte, chunkSizeBytes+111)
	for i := range input {
		input[i] = byte(i % 255)
	}

	n, err := capture.onPCM(input)
	require.NoError(t, err)
	require.Equal(t, len(input), n)
	require.Equal(t, int64(len(input)), capture.BytesCaptured())

	firstChunk := <-capture.Chunks()
	require.Len(t, firstChunk, chunkSizeBytes)

	require.NoError(t, capture.Stop())

	// Residual bytes below one chunk flush on stop.
	residual := <-capture.Chunks()
	require.Len(t, residual, 111)

	_, open := <-capture.Chunks()
	require.False(t, open)
}

func TestCaptureStopIsIdempotent(t *testing.T) {
	capture := &Capture{
		chunks: make(chan []byte, 1),
		stopCh: make(chan struct{}),
	}

	require.NoError(t, capture.Stop())
	require.NoError(t, capture.Stop())
}

func TestCaptureOnPCMAfterStopReturnsEOF(t *testing.T) {
	capture := &Capture{
		chunks: make(chan []byte, 1),
		stopCh: make(chan struct{}),
	}
	require.NoError(t, capture.Stop())

	_, err := capture.onPCM([]byte{1, 2})
	require.Error(t, err)
}
