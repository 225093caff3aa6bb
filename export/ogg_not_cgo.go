//go:build !cgo

package export

import (
	"io"

	"github.com/psytec1x/looper"
)

func encodeOgg(w io.Writer, rec looper.AudioBuffer, sampleRate, bitrate int) error {
	return ErrOggUnavailable
}
