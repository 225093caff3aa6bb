package decode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/wav"
	"github.com/psytec1x/looper"
)

const wavFormatFloat = 3

// WAV decodes integer PCM .wav data of any bit depth and 32 or 64-bit IEEE
// float .wav data.
func WAV(data []byte) (*looper.Clip, error) {
	d := wav.NewDecoder(bytes.NewReader(data))
	if !d.IsValidFile() {
		return nil, fmt.Errorf("%w: invalid wav file", ErrUnsupportedFormat)
	}
	if d.WavAudioFormat == wavFormatFloat {
		return floatWAV(d)
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decoding wav: %w", err)
	}
	numChannels := buf.Format.NumChannels
	if numChannels <= 0 || buf.SourceBitDepth <= 0 {
		return nil, fmt.Errorf("%w: wav with %d channels, %d bits", ErrUnsupportedFormat, numChannels, buf.SourceBitDepth)
	}
	frames := len(buf.Data) / numChannels
	if frames == 0 {
		return nil, ErrNoData
	}
	scale := 1 / float32(int64(1)<<(buf.SourceBitDepth-1))
	offset := 0
	if buf.SourceBitDepth == 8 {
		offset = 128 // 8-bit wav samples are unsigned
	}
	channels := make([][]float32, numChannels)
	for c := range channels {
		channels[c] = make([]float32, frames)
	}
	for i := range frames {
		for c := range channels {
			channels[c][i] = float32(buf.Data[i*numChannels+c]-offset) * scale
		}
	}
	return looper.NewClip(channels, buf.Format.SampleRate)
}

func floatWAV(d *wav.Decoder) (*looper.Clip, error) {
	numChannels := int(d.NumChans)
	size := int(d.BitDepth) / 8
	if size != 4 && size != 8 {
		return nil, fmt.Errorf("%w: %d-bit floating point wav", ErrUnsupportedFormat, d.BitDepth)
	}
	if err := d.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("decoding wav: %w", err)
	}
	if d.PCMChunk == nil {
		return nil, ErrNoData
	}
	data, err := io.ReadAll(d.PCMChunk)
	if err != nil {
		return nil, fmt.Errorf("decoding wav: %w", err)
	}
	frames := len(data) / (size * numChannels)
	if frames == 0 {
		return nil, ErrNoData
	}
	channels := make([][]float32, numChannels)
	for c := range channels {
		channels[c] = make([]float32, frames)
	}
	for i := range frames {
		for c := range channels {
			b := data[(i*numChannels+c)*size:]
			if size == 4 {
				channels[c][i] = math.Float32frombits(binary.LittleEndian.Uint32(b))
			} else {
				channels[c][i] = float32(math.Float64frombits(binary.LittleEndian.Uint64(b)))
			}
		}
	}
	return looper.NewClip(channels, int(d.SampleRate))
}
