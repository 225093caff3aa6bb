package looper_test

import (
	"errors"
	"testing"

	"github.com/psytec1x/looper"
)

func TestNewClipValidation(t *testing.T) {
	tests := []struct {
		name       string
		channels   [][]float32
		sampleRate int
		want       error
	}{
		{"no channels", nil, 44100, looper.ErrNoChannels},
		{"zero sample rate", [][]float32{{0}}, 0, looper.ErrSampleRate},
		{"ragged", [][]float32{{0, 0}, {0}}, 44100, looper.ErrChannelLength},
		{"no frames", [][]float32{{}}, 44100, looper.ErrEmptyClip},
		{"ok", [][]float32{{0, 0}, {0, 0}}, 44100, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := looper.NewClip(tt.channels, tt.sampleRate)
			if !errors.Is(err, tt.want) {
				t.Errorf("got error %v, want %v", err, tt.want)
			}
		})
	}
}

func TestClipFrames(t *testing.T) {
	mono, _ := looper.NewClip([][]float32{{0.5, -0.25}}, 2)
	if f := mono.Frame(1); f != [2]float32{-0.25, -0.25} {
		t.Errorf("mono frame should be duplicated, got %v", f)
	}
	if d := mono.Duration(); d != 1 {
		t.Errorf("duration = %v, want 1", d)
	}
	multi, _ := looper.NewClip([][]float32{{1}, {2}, {3}}, 1)
	if f := multi.Frame(0); f != [2]float32{1, 2} {
		t.Errorf("extra channels should be ignored, got %v", f)
	}
	buf := looper.AudioBuffer{{0.1, 0.2}, {0.3, 0.4}}
	stereo, err := looper.ClipFromBuffer(buf, 8000)
	if err != nil {
		t.Fatalf("ClipFromBuffer failed: %v", err)
	}
	got := stereo.Buffer()
	for i := range buf {
		if got[i] != buf[i] {
			t.Errorf("frame %d: got %v, want %v", i, got[i], buf[i])
		}
	}
}
