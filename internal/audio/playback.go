package audio

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/jfreymuth/pulse"
)

// Play renders s16le mono PCM at SampleRate through the default sink and
// returns when playback has drained. The context aborts the drain wait but
// lets the in-flight buffer finish to avoid clicks.
func Play(ctx context.Context, pcm []byte) error {
	if len(pcm) == 0 {
		return errors.New("no PCM audio to play")
	}

	samples := decodeSamples(pcm)

	client, err := pulse.NewClient(
		pulse.ClientApplicationName("voxfill"),
		pulse.ClientApplicationIconName("audio-speakers"),
	)
	if err != nil {
		return fmt.Errorf("connect pulse server: %w", err)
	}
	defer client.Close()

	cursor := 0
	reader := pulse.Int16Reader(func(buf []int16) (int, error) {
		if err := ctx.Err(); err != nil {
			return 0, pulse.EndOfData
		}
		if cursor >= len(samples) {
			return 0, pulse.EndOfData
		}
		n := copy(buf, samples[cursor:])
		cursor += n
		if cursor >= len(samples) {
			return n, pulse.EndOfData
		}
		return n, nil
	})

	stream, err := client.NewPlayback(
		reader,
		pulse.PlaybackMono,
		pulse.PlaybackSampleRate(SampleRate),
		pulse.PlaybackLatency(0.05),
		pulse.PlaybackMediaName("voxfill prompt"),
	)
	if err != nil {
		return fmt.Errorf("create pulse playback stream: %w", err)
	}
	defer stream.Close()

	stream.Start()
	stream.Drain()
	if err := stream.Error(); err != nil {
		return fmt.Errorf("play prompt stream: %w", err)
	}
	return nil
}

// decodeSamples converts little-endian 16-bit PCM bytes into samples.
func decodeSamples(pcm []byte) []int16 {
	samples := make([]int16, 0, len(pcm)/2)
	for i := 0; i+1 < len(pcm); i += 2 {
		samples = append(samples, int16(binary.LittleEndian.Uint16(pcm[i:i+2])))
	}
	return samples
}
