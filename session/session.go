// Package session coordinates the tracks of a looper with the shared master
// transport, recording and audio context.
//
// A Session is owned by one control goroutine: the GUI event loop or
// Session.Run. Work that blocks (decoding, opening the microphone) runs on
// other goroutines and posts its result back through the Broker.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/psytec1x/looper"
	"github.com/psytec1x/looper/capture"
	"github.com/psytec1x/looper/decode"
	"github.com/psytec1x/looper/export"
	"github.com/psytec1x/looper/graph"
)

type (
	// Options configure a Session. Zero values fall back to the defaults.
	Options struct {
		SampleRate    int
		MaxTracks     int
		Output        OutputFunc // nil renders without speakers
		Decoder       decode.Decoder
		Capture       capture.Device // nil disables recording
		CaptureFormat capture.Format
		Graph         graph.Settings
		Reverb        ReverbSettings
		TrackDefaults looper.EffectParams
		BPM           float64
		Export        export.Encoder
		Now           func() time.Time
	}

	ReverbSettings struct {
		Duration float64 `yaml:"duration"`
		Decay    float64 `yaml:"decay"`
	}

	Session struct {
		broker *Broker
		alerts Alerts
		master *Master
		tracks []*Track
		nextID TrackID

		maxTracks     int
		decoder       decode.Decoder
		capture       capture.Device
		captureFormat capture.Format
		captureErr    error
		reverb        ReverbSettings
		trackDefaults looper.EffectParams
		now           func() time.Time
		closed        bool
	}
)

const (
	DefaultMaxTracks  = 16
	DefaultSampleRate = 48000
)

var ErrTooManyTracks = errors.New("too many tracks")

func DefaultReverbSettings() ReverbSettings {
	return ReverbSettings{Duration: 2, Decay: 0.5}
}

func New(broker *Broker, opts Options) *Session {
	s := &Session{
		broker:        broker,
		maxTracks:     opts.MaxTracks,
		decoder:       opts.Decoder,
		capture:       opts.Capture,
		captureFormat: opts.CaptureFormat,
		reverb:        opts.Reverb,
		trackDefaults: opts.TrackDefaults,
		now:           opts.Now,
	}
	if s.maxTracks <= 0 {
		s.maxTracks = DefaultMaxTracks
	}
	if s.decoder == nil {
		s.decoder = decode.Auto{}
	}
	if s.capture == nil {
		s.captureErr = capture.ErrUnavailable
	}
	if s.captureFormat.Channels <= 0 {
		s.captureFormat.Channels = 1
	}
	if s.reverb == (ReverbSettings{}) {
		s.reverb = DefaultReverbSettings()
	}
	if s.trackDefaults == (looper.EffectParams{}) {
		s.trackDefaults = looper.DefaultEffectParams()
	}
	if s.now == nil {
		s.now = time.Now
	}
	sampleRate := opts.SampleRate
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if s.captureFormat.SampleRate <= 0 {
		s.captureFormat.SampleRate = sampleRate
	}
	settings := opts.Graph
	if settings == (graph.Settings{}) {
		settings = graph.DefaultSettings()
	}
	bpm := opts.BPM
	if bpm == 0 {
		bpm = looper.DefaultBPM
	}
	s.master = &Master{
		s:          s,
		sampleRate: sampleRate,
		openOutput: opts.Output,
		settings:   settings,
		encoder:    opts.Export,
		tempo:      looper.ClampBPM(bpm),
	}
	return s
}

func (s *Session) Broker() *Broker  { return s.broker }
func (s *Session) Alerts() *Alerts  { return &s.alerts }
func (s *Session) Master() *Master  { return s.master }
func (s *Session) Tracks() []*Track { return s.tracks }
func (s *Session) MaxTracks() int   { return s.maxTracks }

// CaptureError is the reason recording is disabled, or nil.
func (s *Session) CaptureError() error { return s.captureErr }

// AddTrack appends an empty track following the master tempo.
func (s *Session) AddTrack() (*Track, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	if len(s.tracks) >= s.maxTracks {
		return nil, fmt.Errorf("%w: at most %d tracks", ErrTooManyTracks, s.maxTracks)
	}
	t := &Track{
		id:     s.nextID,
		s:      s,
		params: s.trackDefaults,
		tempo:  looper.Tempo{FollowMaster: true, BPM: s.master.Tempo()},
	}
	s.nextID++
	s.tracks = append(s.tracks, t)
	return t, nil
}

// Track returns the track with the given id, or nil.
func (s *Session) Track(id TrackID) *Track {
	for _, t := range s.tracks {
		if t.id == id {
			return t
		}
	}
	return nil
}

// ProcessMsg handles a message received from the broker.
func (s *Session) ProcessMsg(msg any) {
	switch m := msg.(type) {
	case func():
		m()
	case Alert:
		s.alerts.AddAlert(m)
	}
}

// Drain processes all messages that are waiting in the broker without
// blocking.
func (s *Session) Drain() {
	for {
		select {
		case msg := <-s.broker.ToSession:
			s.ProcessMsg(msg)
		default:
			return
		}
	}
}

// Run processes broker messages until ctx is done, then closes the session.
func (s *Session) Run(ctx context.Context) error {
	defer s.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-s.broker.ToSession:
			s.ProcessMsg(msg)
		}
	}
}

// Close stops every track and recording and releases the audio context.
// Closing twice is a no-op.
func (s *Session) Close() {
	if s.closed {
		return
	}
	for _, t := range s.tracks {
		t.discardRecording()
		t.Stop()
	}
	s.master.close()
	s.closed = true
	s.broker.Close()
}
