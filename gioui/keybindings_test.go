package gioui

import (
	"testing"
	"time"

	"gioui.org/io/key"
	"gopkg.in/yaml.v2"
)

func TestDefaultKeyBindings(t *testing.T) {
	var bindings []KeyBinding
	if err := yaml.UnmarshalStrict(defaultKeyBindings, &bindings); err != nil {
		t.Fatalf("default keybindings do not parse: %v", err)
	}
	if len(bindings) == 0 {
		t.Fatal("no default keybindings")
	}
	tests := []struct {
		name   key.Name
		mods   key.Modifiers
		action string
	}{
		{key.NameSpace, 0, "Play"},
		{"R", 0, "Record"},
		{"T", key.ModShortcut, "AddTrack"},
		{"1", 0, "TrackPlay1"},
		{"1", key.ModShift, "TrackRecord1"},
	}
	for _, tt := range tests {
		// a user keybindings.yml may rebind keys; only check the defaults
		// that are not overridden
		found := false
		for _, b := range bindings {
			if key.Name(b.Key) == tt.name && b.Action == tt.action {
				found = true
			}
		}
		if !found {
			t.Errorf("%v is not bound to %v by default", tt.name, tt.action)
		}
		if keyBindingError == nil {
			got := keyBindingMap[key.Event{Name: tt.name, Modifiers: tt.mods, State: key.Press}]
			if got == "" {
				t.Errorf("%v with %v is not bound", tt.name, tt.mods)
			}
		}
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00.0"},
		{1500 * time.Millisecond, "00:01.5"},
		{61*time.Second + 240*time.Millisecond, "01:01.2"},
		{10*time.Minute + 59*time.Second + 960*time.Millisecond, "11:00.0"},
	}
	for _, tt := range tests {
		if got := formatElapsed(tt.d); got != tt.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestEffectTitles(t *testing.T) {
	want := []string{"Cutoff", "Delay", "Reverb"}
	for i, w := range want {
		if effectTitles[i] != w {
			t.Errorf("effectTitles[%d] = %q, want %q", i, effectTitles[i], w)
		}
	}
}
