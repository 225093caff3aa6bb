// Package midi maps MIDI notes and control changes to session commands.
package midi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/psytec1x/looper"
	"github.com/psytec1x/looper/session"
	"gitlab.com/gomidi/midi/v2"
)

type (
	// Binding binds a note or a controller to a command. Channel is 1-16,
	// or 0 for any channel. Track is the 1-based position of the track for
	// the track commands.
	Binding struct {
		Message string `yaml:"message"`
		Channel int    `yaml:"channel,omitempty"`
		Number  int    `yaml:"number"`
		Command string `yaml:"command"`
		Track   int    `yaml:"track,omitempty"`
		Effect  string `yaml:"effect,omitempty"`
	}

	CommandKind int

	// Command is a mapped MIDI message. Value is the controller value
	// scaled to [0, 1] for the continuous commands.
	Command struct {
		Kind   CommandKind
		Track  int
		Effect looper.EffectKind
		Value  float64
	}

	// Mapper finds the command bound to a message. It is safe for use from
	// several goroutines.
	Mapper struct {
		bindings []binding
	}

	binding struct {
		cc      bool
		channel int
		number  uint8
		command Command
	}
)

const (
	CommandPlay CommandKind = iota
	CommandRecord
	CommandAddTrack
	CommandTrackPlay
	CommandTrackRecord
	CommandTrackSync
	CommandEffect
	CommandTempo
)

var commandNames = [...]string{"play", "record", "addtrack", "trackplay", "trackrecord", "tracksync", "effect", "tempo"}

var (
	ErrBadBinding  = errors.New("invalid MIDI binding")
	ErrUnavailable = errors.New("MIDI input unavailable")
)

func (k CommandKind) String() string {
	if k < 0 || int(k) >= len(commandNames) {
		return fmt.Sprintf("CommandKind(%d)", int(k))
	}
	return commandNames[k]
}

// continuous commands take their value from a controller; the others fire
// on note on or when a controller crosses the middle.
func (k CommandKind) continuous() bool { return k == CommandEffect || k == CommandTempo }
func (k CommandKind) perTrack() bool   { return k >= CommandTrackPlay && k <= CommandEffect }

func NewMapper(bindings []Binding) (*Mapper, error) {
	m := &Mapper{}
	for i, b := range bindings {
		pb, err := parseBinding(b)
		if err != nil {
			return nil, fmt.Errorf("binding %d: %w", i+1, err)
		}
		m.bindings = append(m.bindings, pb)
	}
	return m, nil
}

func parseBinding(b Binding) (binding, error) {
	var ret binding
	switch strings.ToLower(b.Message) {
	case "note":
	case "cc":
		ret.cc = true
	default:
		return ret, fmt.Errorf("%w: message %q, want note or cc", ErrBadBinding, b.Message)
	}
	if b.Channel < 0 || b.Channel > 16 {
		return ret, fmt.Errorf("%w: channel %d", ErrBadBinding, b.Channel)
	}
	if b.Number < 0 || b.Number > 127 {
		return ret, fmt.Errorf("%w: number %d", ErrBadBinding, b.Number)
	}
	ret.channel = b.Channel
	ret.number = uint8(b.Number)
	kind := -1
	for i, name := range commandNames {
		if strings.EqualFold(b.Command, name) {
			kind = i
		}
	}
	if kind < 0 {
		return ret, fmt.Errorf("%w: unknown command %q", ErrBadBinding, b.Command)
	}
	ret.command.Kind = CommandKind(kind)
	if ret.command.Kind.continuous() && !ret.cc {
		return ret, fmt.Errorf("%w: %v needs a controller", ErrBadBinding, ret.command.Kind)
	}
	if ret.command.Kind.perTrack() {
		if b.Track < 1 {
			return ret, fmt.Errorf("%w: %v needs a track", ErrBadBinding, ret.command.Kind)
		}
		ret.command.Track = b.Track - 1
	}
	if ret.command.Kind == CommandEffect {
		e, err := looper.ParseEffectKind(b.Effect)
		if err != nil {
			return ret, fmt.Errorf("%w: %w", ErrBadBinding, err)
		}
		ret.command.Effect = e
	}
	return ret, nil
}

// Map returns the command bound to msg, if any.
func (m *Mapper) Map(msg midi.Message) (Command, bool) {
	var channel, key, value uint8
	var cc bool
	switch {
	case msg.GetNoteOn(&channel, &key, &value):
		if value == 0 {
			return Command{}, false
		}
	case msg.GetControlChange(&channel, &key, &value):
		cc = true
	default:
		return Command{}, false
	}
	for _, b := range m.bindings {
		if b.cc != cc || b.number != key || (b.channel != 0 && b.channel != int(channel)+1) {
			continue
		}
		cmd := b.command
		if cmd.Kind.continuous() {
			cmd.Value = float64(value) / 127
		} else if cc && value < 64 {
			return Command{}, false
		}
		return cmd, true
	}
	return Command{}, false
}

// Handler returns a function that maps messages and posts the commands to
// the session. It is meant to be called from the MIDI driver goroutine;
// commands are dropped if the session is not keeping up.
func (m *Mapper) Handler(s *session.Session) func(msg midi.Message) {
	return func(msg midi.Message) {
		if cmd, ok := m.Map(msg); ok {
			session.TrySend(s.Broker().ToSession, any(func() { cmd.Apply(s) }))
		}
	}
}

// Apply performs the command. It must be called from the control
// goroutine. Commands for tracks that do not exist are ignored.
func (c Command) Apply(s *session.Session) {
	var t *session.Track
	if c.Kind.perTrack() {
		tracks := s.Tracks()
		if c.Track < 0 || c.Track >= len(tracks) {
			return
		}
		t = tracks[c.Track]
	}
	switch c.Kind {
	case CommandPlay:
		s.Playing().Toggle()
	case CommandRecord:
		s.Recording().Toggle()
	case CommandAddTrack:
		s.AddTrackAction().Do()
	case CommandTrackPlay:
		t.Playing().Toggle()
	case CommandTrackRecord:
		t.Recording().Toggle()
	case CommandTrackSync:
		t.FollowMaster().Toggle()
	case CommandEffect:
		r := c.Effect.Range()
		if err := t.SetEffectParam(c.Effect, r.Min+c.Value*(r.Max-r.Min)); err != nil {
			s.Alerts().AddNamed("MIDI", err.Error(), session.Warning)
		}
	case CommandTempo:
		s.Master().SetTempo(looper.MinBPM + c.Value*(looper.MaxBPM-looper.MinBPM))
	}
}
