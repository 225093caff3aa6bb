//go:build cgo

package cmd

import (
	"io"
	"log"
	"strings"

	"github.com/psytec1x/looper/midi"
	"github.com/psytec1x/looper/midi/gomidi"
	"github.com/psytec1x/looper/session"
)

// ListenMIDI connects the first MIDI input whose name starts with prefix to
// the session, mapping messages with mapper.
func ListenMIDI(prefix string, mapper *midi.Mapper, s *session.Session) (io.Closer, error) {
	ctx := gomidi.NewContext()
	name, err := ctx.Listen(prefix, mapper.Handler(s))
	if err != nil {
		if inputs := ctx.Inputs(); len(inputs) > 0 {
			log.Printf("available MIDI inputs: %s", strings.Join(inputs, ", "))
		}
		ctx.Close()
		return nil, err
	}
	log.Printf("listening to MIDI input %q", name)
	return ctx, nil
}
