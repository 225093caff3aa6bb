//go:build !cgo

package cmd

import (
	"io"

	"github.com/psytec1x/looper/midi"
	"github.com/psytec1x/looper/session"
)

// ListenMIDI always fails: without cgo there is no MIDI driver.
func ListenMIDI(prefix string, mapper *midi.Mapper, s *session.Session) (io.Closer, error) {
	return nil, midi.ErrUnavailable
}
