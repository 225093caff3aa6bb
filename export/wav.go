package export

import (
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/psytec1x/looper"
)

const wavChunkFrames = 4096

// WriteWAV streams a stereo recording to w as a 16-bit wav file. Unlike
// Export, it never holds the whole encoded file in memory.
func WriteWAV(w io.WriteSeeker, rec looper.AudioBuffer, sampleRate int) error {
	if len(rec) == 0 {
		return ErrEmptyRecording
	}
	enc := wav.NewEncoder(w, sampleRate, 16, 2, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: sampleRate},
		Data:           make([]int, 2*wavChunkFrames),
		SourceBitDepth: 16,
	}
	for len(rec) > 0 {
		n := min(len(rec), wavChunkFrames)
		buf.Data = buf.Data[:2*n]
		for i, f := range rec[:n] {
			buf.Data[2*i] = int(looper.ToPCM16(f[0]))
			buf.Data[2*i+1] = int(looper.ToPCM16(f[1]))
		}
		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("writing wav: %w", err)
		}
		rec = rec[n:]
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finishing wav: %w", err)
	}
	return nil
}
