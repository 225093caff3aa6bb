package gioui

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gioui.org/io/key"
	"github.com/psytec1x/looper/session"
	"gopkg.in/yaml.v2"
)

type KeyBinding struct {
	Key                                        string `yaml:"key"`
	Shortcut, Ctrl, Command, Shift, Alt, Super bool
	Action                                     string `yaml:"action"`
}

var keyBindingMap = map[key.Event]string{}

// keyBindingError is the error reading the user's keybindings.yml, if it
// exists but could not be used.
var keyBindingError error

//go:embed keybindings.yml
var defaultKeyBindings []byte

func init() {
	var keyBindings, userKeyBindings []KeyBinding
	if err := yaml.UnmarshalStrict(defaultKeyBindings, &keyBindings); err != nil {
		panic(fmt.Errorf("failed to unmarshal default keybindings: %w", err))
	}
	if exists, err := readCustomConfigYml("keybindings.yml", &userKeyBindings); exists {
		if err != nil {
			keyBindingError = fmt.Errorf("keybindings.yml: %w", err)
		} else {
			keyBindings = append(keyBindings, userKeyBindings...)
		}
	}
	for _, kb := range keyBindings {
		var mods key.Modifiers
		if kb.Shortcut {
			mods |= key.ModShortcut
		}
		if kb.Ctrl {
			mods |= key.ModCtrl
		}
		if kb.Command {
			mods |= key.ModCommand
		}
		if kb.Shift {
			mods |= key.ModShift
		}
		if kb.Alt {
			mods |= key.ModAlt
		}
		if kb.Super {
			mods |= key.ModSuper
		}
		keyEvent := key.Event{Name: key.Name(kb.Key), Modifiers: mods, State: key.Press}
		if kb.Action == "" { // unbind
			delete(keyBindingMap, keyEvent)
		} else {
			keyBindingMap[keyEvent] = kb.Action
		}
	}
}

// readCustomConfigYml modifies the target argument, i.e. needs a pointer
func readCustomConfigYml(filename string, target any) (exists bool, err error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return false, err
	}
	bytes, err := os.ReadFile(filepath.Join(configDir, "looper", filename))
	if err != nil {
		return false, err
	}
	return true, yaml.UnmarshalStrict(bytes, target)
}

func (l *Looper) KeyEvent(e key.Event) {
	if e.State != key.Press {
		return
	}
	action, ok := keyBindingMap[e]
	if !ok {
		return
	}
	s := l.Session
	switch action {
	case "Play":
		s.Playing().Toggle()
	case "Record":
		s.Recording().Toggle()
	case "AddTrack":
		s.AddTrackAction().Do()
	case "Export":
		l.ExportRecording().Do()
	case "Quit":
		l.quitted = true
	case "TempoUp":
		s.Master().SetTempo(s.Master().Tempo() + 1)
	case "TempoDown":
		s.Master().SetTempo(s.Master().Tempo() - 1)
	case "LoadLast":
		if tracks := s.Tracks(); len(tracks) > 0 {
			l.LoadClip(tracks[len(tracks)-1]).Do()
		}
	default:
		if n, ok := strings.CutPrefix(action, "TrackPlay"); ok {
			if t := trackByNumber(s, n); t != nil {
				t.Playing().Toggle()
			}
		} else if n, ok := strings.CutPrefix(action, "TrackRecord"); ok {
			if t := trackByNumber(s, n); t != nil {
				t.Recording().Toggle()
			}
		}
	}
}

// trackByNumber returns the n:th track on screen, counting from 1.
func trackByNumber(s *session.Session, n string) *session.Track {
	i, err := strconv.Atoi(n)
	tracks := s.Tracks()
	if err != nil || i < 1 || i > len(tracks) {
		return nil
	}
	return tracks[i-1]
}
