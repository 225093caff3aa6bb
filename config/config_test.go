package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/psytec1x/looper/config"
	"github.com/psytec1x/looper/export"
	"github.com/psytec1x/looper/midi"
)

func TestDefault(t *testing.T) {
	c := config.Default()
	if c.Audio.SampleRate != 48000 || c.Tracks.Max != 16 || c.Effects.DelayTime != 0.3 || c.Effects.Reverb.Decay != 0.5 {
		t.Errorf("unexpected defaults: %+v", c)
	}
	if _, err := midi.NewMapper(c.MIDI.Bindings); err != nil {
		t.Errorf("default MIDI bindings are invalid: %v", err)
	}
	opts, err := c.SessionOptions()
	if err != nil {
		t.Fatalf("SessionOptions failed: %v", err)
	}
	if opts.Export.Format != export.FormatOgg || opts.TrackDefaults.FilterCutoffHz != 20000 {
		t.Errorf("unexpected session options: %+v", opts)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		wantErr bool
		wantBPM float64
	}{
		{"override", "tracks:\n  bpm: 90\n", false, 90},
		{"unknown field", "tracks:\n  tempo: 90\n", true, 120},
		{"malformed", "tracks: [\n", true, 120},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			c := config.Load(path)
			if (c.YmlError != nil) != tt.wantErr {
				t.Errorf("YmlError = %v, want error %v", c.YmlError, tt.wantErr)
			}
			if c.Tracks.BPM != tt.wantBPM {
				t.Errorf("BPM = %v, want %v", c.Tracks.BPM, tt.wantBPM)
			}
			if c.Tracks.Max != 16 {
				t.Errorf("override lost the default track limit: %d", c.Tracks.Max)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	c := config.Load(filepath.Join(t.TempDir(), "nope.yml"))
	if c.YmlError != nil {
		t.Errorf("missing file gave %v", c.YmlError)
	}
}
