// Package decode turns encoded audio files into clips.
package decode

import (
	"bytes"
	"errors"

	"github.com/psytec1x/looper"
)

type (
	// Decoder decodes a complete encoded file. Implementations must be safe
	// to call from several goroutines at once.
	Decoder interface {
		Decode(data []byte) (*looper.Clip, error)
	}

	// DecoderFunc adapts a function to the Decoder interface.
	DecoderFunc func(data []byte) (*looper.Clip, error)

	// Auto detects the format from the data and decodes WAV and MP3 files.
	Auto struct{}

	Format int
)

const (
	FormatUnknown Format = iota
	FormatWAV
	FormatMP3
)

var (
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrNoData            = errors.New("no audio data")
)

func (f DecoderFunc) Decode(data []byte) (*looper.Clip, error) { return f(data) }

func (Auto) Decode(data []byte) (*looper.Clip, error) {
	if len(data) == 0 {
		return nil, ErrNoData
	}
	switch Sniff(data) {
	case FormatWAV:
		return WAV(data)
	case FormatMP3:
		return MP3(data)
	}
	return nil, ErrUnsupportedFormat
}

// Sniff guesses the format of data from its first bytes.
func Sniff(data []byte) Format {
	switch {
	case len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")):
		return FormatWAV
	case bytes.HasPrefix(data, []byte("ID3")):
		return FormatMP3
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return FormatMP3
	}
	return FormatUnknown
}
