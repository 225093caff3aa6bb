// Package config loads the looper configuration: built-in defaults
// overridden by the user's config.yml.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/psytec1x/looper"
	"github.com/psytec1x/looper/capture"
	"github.com/psytec1x/looper/export"
	"github.com/psytec1x/looper/graph"
	"github.com/psytec1x/looper/midi"
	"github.com/psytec1x/looper/session"
)

type (
	Config struct {
		Audio    Audio    `yaml:"audio"`
		Tracks   Tracks   `yaml:"tracks"`
		Effects  Effects  `yaml:"effects"`
		Controls Controls `yaml:"controls"`
		Capture  Capture  `yaml:"capture"`
		Export   Export   `yaml:"export"`
		MIDI     MIDI     `yaml:"midi"`
		Window   Window   `yaml:"window"`

		// YmlError is the error reading the user's file, if it exists but
		// could not be used.
		YmlError error `yaml:"-"`
	}

	Audio struct {
		SampleRate int `yaml:"samplerate"`
		BufferMs   int `yaml:"bufferms"`
	}

	Tracks struct {
		Max    int     `yaml:"max"`
		Cutoff float64 `yaml:"cutoff"`
		BPM    float64 `yaml:"bpm"`
	}

	Effects struct {
		graph.Settings `yaml:",inline"`
		Reverb         session.ReverbSettings `yaml:"reverb"`
	}

	Controls struct {
		KnobSensitivity float64 `yaml:"knobsensitivity"`
		CommitThreshold float64 `yaml:"committhreshold"`
	}

	Capture struct {
		capture.Format  `yaml:",inline"`
		FramesPerBuffer int `yaml:"framesperbuffer"`
	}

	Export struct {
		Format    string `yaml:"format"`
		Bitrate   int    `yaml:"bitrate"`
		Name      string `yaml:"name"`
		Directory string `yaml:"directory"`
	}

	MIDI struct {
		Input    string         `yaml:"input"`
		Bindings []midi.Binding `yaml:"bindings"`
	}

	Window struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	}
)

const FileName = "config.yml"

//go:embed config.yml
var defaultConfigYaml []byte

func Default() Config {
	var c Config
	if err := decodeStrict(defaultConfigYaml, &c); err != nil {
		panic(fmt.Errorf("failed to unmarshal default config: %w", err))
	}
	return c
}

// Path is where the user's config file lives.
func Path() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "looper", FileName), nil
}

// Load returns the defaults overridden by the file at path, or by the
// user's config file if path is empty. A missing file is not an error; a
// file that fails to parse is reported in YmlError and ignored.
func Load(path string) Config {
	c := Default()
	if path == "" {
		var err error
		if path, err = Path(); err != nil {
			return c
		}
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c
	}
	if err != nil {
		c.YmlError = err
		return c
	}
	custom := c
	if err := decodeStrict(data, &custom); err != nil {
		c.YmlError = fmt.Errorf("%s: %w", path, err)
		return c
	}
	return custom
}

func decodeStrict(data []byte, target any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c Config) BufferSize() time.Duration {
	return time.Duration(c.Audio.BufferMs) * time.Millisecond
}

// Encoder returns the export encoder described by the export section.
func (c Config) Encoder() (export.Encoder, error) {
	format, err := export.ParseFormat(c.Export.Format)
	if err != nil {
		return export.Encoder{}, err
	}
	namer, err := export.NewNamer(c.Export.Name)
	if err != nil {
		return export.Encoder{}, err
	}
	return export.Encoder{Format: format, Bitrate: c.Export.Bitrate, Namer: namer}, nil
}

// SessionOptions returns the session options described by the config. The
// output and the capture device are left for the caller.
func (c Config) SessionOptions() (session.Options, error) {
	enc, err := c.Encoder()
	if err != nil {
		return session.Options{}, err
	}
	params := looper.DefaultEffectParams()
	if params, err = params.With(looper.FilterCutoff, c.Tracks.Cutoff); err != nil {
		return session.Options{}, err
	}
	return session.Options{
		SampleRate:    c.Audio.SampleRate,
		MaxTracks:     c.Tracks.Max,
		CaptureFormat: c.Capture.Format,
		Graph:         c.Effects.Settings,
		Reverb:        c.Effects.Reverb,
		TrackDefaults: params,
		BPM:           c.Tracks.BPM,
		Export:        enc,
	}, nil
}
