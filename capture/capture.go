// Package capture records microphone input as a sequence of 16-bit PCM
// chunks and assembles recorded chunks into a .wav file.
package capture

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/psytec1x/looper"
)

type (
	// Format describes the captured audio.
	Format struct {
		SampleRate int `yaml:"samplerate"`
		Channels   int `yaml:"channels"`
	}

	// Device gives access to a microphone. Open asks for access and may
	// block while the platform prompts the user, so call it off the control
	// goroutine.
	Device interface {
		Open(f Format) (Stream, error)
	}

	// Stream is an open microphone. Start delivers chunks of interleaved
	// little-endian int16 samples to onChunk, from the capture goroutine and
	// in capture order, until Stop is called. Stop is idempotent.
	Stream interface {
		Format() Format
		Start(onChunk func(chunk []byte)) error
		Stop() error
	}
)

// ErrUnavailable means that the microphone could not be opened, either
// because access was denied or because there is no capture support.
var ErrUnavailable = errors.New("audio capture unavailable")

// EncodeChunk appends samples to dst as little-endian int16.
func EncodeChunk(dst []byte, samples []float32) []byte {
	for _, s := range samples {
		dst = binary.LittleEndian.AppendUint16(dst, uint16(looper.ToPCM16(s)))
	}
	return dst
}

// Assemble concatenates the chunks in order and wraps them in a .wav header.
// A trailing partial frame is dropped.
func Assemble(f Format, chunks [][]byte) []byte {
	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	frameSize := 2 * max(f.Channels, 1)
	total -= total % frameSize
	var buf bytes.Buffer
	buf.Grow(total + 44)
	looper.WavHeader(total/2, max(f.Channels, 1), f.SampleRate, true, &buf)
	for _, c := range chunks {
		n := min(len(c), total)
		buf.Write(c[:n])
		total -= n
	}
	return buf.Bytes()
}
