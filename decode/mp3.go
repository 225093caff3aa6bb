package decode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
	"github.com/psytec1x/looper"
)

// MP3 decodes MPEG-1/2 layer III data. The decoder always produces 16-bit
// stereo.
func MP3(data []byte) (*looper.Clip, error) {
	d, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding mp3: %w", err)
	}
	pcm, err := io.ReadAll(d)
	if err != nil {
		return nil, fmt.Errorf("decoding mp3: %w", err)
	}
	frames := len(pcm) / 4
	if frames == 0 {
		return nil, ErrNoData
	}
	left := make([]float32, frames)
	right := make([]float32, frames)
	for i := range frames {
		left[i] = float32(int16(binary.LittleEndian.Uint16(pcm[4*i:]))) / 32768
		right[i] = float32(int16(binary.LittleEndian.Uint16(pcm[4*i+2:]))) / 32768
	}
	return looper.NewClip([][]float32{left, right}, d.SampleRate())
}
