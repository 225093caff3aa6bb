//go:build cgo

// Package gomidi listens to MIDI input ports through rtmidi.
package gomidi

import (
	"fmt"
	"strings"

	"github.com/psytec1x/looper/midi"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// RTMIDIContext holds the rtmidi driver and the open input port.
type RTMIDIContext struct {
	driver    *rtmididrv.Driver
	currentIn drivers.In
	stop      func()
}

// NewContext opens the driver. If the driver is not available, the context
// has no inputs.
func NewContext() *RTMIDIContext {
	m := RTMIDIContext{}
	m.driver, _ = rtmididrv.New()
	return &m
}

// Inputs lists the names of the input ports.
func (c *RTMIDIContext) Inputs() []string {
	if c.driver == nil {
		return nil
	}
	ins, err := c.driver.Ins()
	if err != nil {
		return nil
	}
	ret := make([]string, len(ins))
	for i, in := range ins {
		ret[i] = in.String()
	}
	return ret
}

// Listen opens the first input whose name starts with namePrefix (any
// input if namePrefix is empty) and calls handle for every message, from
// the driver goroutine.
func (c *RTMIDIContext) Listen(namePrefix string, handle func(msg gomidi.Message)) (name string, err error) {
	if c.driver == nil {
		return "", midi.ErrUnavailable
	}
	ins, err := c.driver.Ins()
	if err != nil {
		return "", fmt.Errorf("listing MIDI inputs: %w", err)
	}
	for _, in := range ins {
		if !strings.HasPrefix(in.String(), namePrefix) {
			continue
		}
		c.closeInput()
		if err := in.Open(); err != nil {
			return "", fmt.Errorf("opening MIDI input failed: %w", err)
		}
		stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) { handle(msg) })
		if err != nil {
			in.Close()
			return "", fmt.Errorf("listening to MIDI input failed: %w", err)
		}
		c.currentIn, c.stop = in, stop
		return in.String(), nil
	}
	return "", fmt.Errorf("%w: no input starting with %q", midi.ErrUnavailable, namePrefix)
}

func (c *RTMIDIContext) closeInput() {
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
	if c.currentIn != nil && c.currentIn.IsOpen() {
		c.currentIn.Close()
	}
	c.currentIn = nil
}

func (c *RTMIDIContext) Close() error {
	if c.driver == nil {
		return nil
	}
	c.closeInput()
	return c.driver.Close()
}
