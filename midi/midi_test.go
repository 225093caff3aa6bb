package midi_test

import (
	"errors"
	"testing"

	"github.com/psytec1x/looper"
	"github.com/psytec1x/looper/midi"
	"github.com/psytec1x/looper/session"
	gomidi "gitlab.com/gomidi/midi/v2"
)

var testBindings = []midi.Binding{
	{Message: "note", Number: 36, Command: "play"},
	{Message: "note", Channel: 2, Number: 37, Command: "record"},
	{Message: "cc", Number: 20, Command: "addtrack"},
	{Message: "note", Number: 40, Command: "trackplay", Track: 1},
	{Message: "cc", Number: 21, Command: "effect", Track: 1, Effect: "delay"},
	{Message: "cc", Number: 22, Command: "tempo"},
}

func TestMap(t *testing.T) {
	m, err := midi.NewMapper(testBindings)
	if err != nil {
		t.Fatalf("NewMapper failed: %v", err)
	}
	tests := []struct {
		name string
		msg  gomidi.Message
		want midi.Command
		ok   bool
	}{
		{"play", gomidi.NoteOn(0, 36, 100), midi.Command{Kind: midi.CommandPlay}, true},
		{"note off", gomidi.NoteOn(0, 36, 0), midi.Command{}, false},
		{"wrong channel", gomidi.NoteOn(0, 37, 100), midi.Command{}, false},
		{"right channel", gomidi.NoteOn(1, 37, 100), midi.Command{Kind: midi.CommandRecord}, true},
		{"cc button pressed", gomidi.ControlChange(0, 20, 127), midi.Command{Kind: midi.CommandAddTrack}, true},
		{"cc button released", gomidi.ControlChange(0, 20, 0), midi.Command{}, false},
		{"track play", gomidi.NoteOn(5, 40, 1), midi.Command{Kind: midi.CommandTrackPlay}, true},
		{"effect", gomidi.ControlChange(0, 21, 127), midi.Command{Kind: midi.CommandEffect, Effect: looper.DelayMix, Value: 1}, true},
		{"unbound", gomidi.ControlChange(0, 99, 127), midi.Command{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Map(tt.msg)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Map = %+v, %v; want %+v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestBadBindings(t *testing.T) {
	bad := []midi.Binding{
		{Message: "sysex", Number: 1, Command: "play"},
		{Message: "note", Number: 128, Command: "play"},
		{Message: "note", Number: 1, Command: "dance"},
		{Message: "note", Number: 1, Command: "tempo"},
		{Message: "note", Number: 1, Command: "trackplay"},
		{Message: "cc", Number: 1, Command: "effect", Track: 1, Effect: "chorus"},
	}
	for _, b := range bad {
		if _, err := midi.NewMapper([]midi.Binding{b}); !errors.Is(err, midi.ErrBadBinding) {
			t.Errorf("binding %+v gave %v, want ErrBadBinding", b, err)
		}
	}
}

func TestApply(t *testing.T) {
	s := session.New(session.NewBroker(), session.Options{SampleRate: 8000})
	defer s.Close()
	midi.Command{Kind: midi.CommandAddTrack}.Apply(s)
	if len(s.Tracks()) != 1 {
		t.Fatalf("got %d tracks, want 1", len(s.Tracks()))
	}
	midi.Command{Kind: midi.CommandEffect, Effect: looper.ReverbMix, Value: 0.5}.Apply(s)
	if got := s.Tracks()[0].Params().ReverbMix; got != 0.5 {
		t.Errorf("reverb mix is %v, want 0.5", got)
	}
	midi.Command{Kind: midi.CommandTrackPlay, Track: 3}.Apply(s)
	midi.Command{Kind: midi.CommandTempo, Value: 1}.Apply(s)
	if got := s.Master().Tempo(); got != looper.MaxBPM {
		t.Errorf("tempo is %v, want %v", got, looper.MaxBPM)
	}
}

func TestHandlerPostsToSession(t *testing.T) {
	m, err := midi.NewMapper(testBindings)
	if err != nil {
		t.Fatalf("NewMapper failed: %v", err)
	}
	s := session.New(session.NewBroker(), session.Options{SampleRate: 8000})
	defer s.Close()
	m.Handler(s)(gomidi.ControlChange(0, 20, 100))
	if len(s.Tracks()) != 0 {
		t.Fatal("the handler changed the session outside the control goroutine")
	}
	s.Drain()
	if len(s.Tracks()) != 1 {
		t.Errorf("got %d tracks after draining, want 1", len(s.Tracks()))
	}
}
