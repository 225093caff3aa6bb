package session

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/psytec1x/looper"
	"github.com/psytec1x/looper/engine"
	"github.com/psytec1x/looper/export"
	"github.com/psytec1x/looper/graph"
)

type (
	// OutputFunc opens the speaker output. It is called once, on the first
	// gesture that needs audio.
	OutputFunc func(sampleRate int) (looper.AudioOutput, error)

	// Master owns the audio context shared by all tracks, the recording bus,
	// the transport and the master recording.
	Master struct {
		s          *Session
		sampleRate int
		openOutput OutputFunc
		output     looper.AudioOutput
		player     io.Closer
		ctx        *engine.Context
		bus        *engine.StreamDestination
		builder    graph.Builder
		settings   graph.Settings
		encoder    export.Encoder

		playing   bool
		tempo     float64
		recording bool
		recStart  time.Time
		recorded  looper.AudioBuffer

		tapMu     sync.Mutex
		capturing bool
		captured  looper.AudioBuffer
		meter     Meter
	}
)

var ErrNoRecording = errors.New("nothing has been recorded")

func (m *Master) SampleRate() int { return m.sampleRate }
func (m *Master) Playing() bool   { return m.playing }
func (m *Master) Recording() bool { return m.recording }
func (m *Master) Tempo() float64  { return m.tempo }

// Context returns the shared context, or nil before the first gesture.
func (m *Master) Context() *engine.Context { return m.ctx }

// SetTempo sets the master tempo shared with the following tracks.
func (m *Master) SetTempo(bpm float64) { m.tempo = looper.ClampBPM(bpm) }

// EnsureContext creates the shared context, the recording bus and the
// speaker output if they do not exist yet.
func (m *Master) EnsureContext() (*engine.Context, error) {
	if m.s.closed {
		return nil, ErrSessionClosed
	}
	if m.ctx != nil {
		return m.ctx, nil
	}
	if m.openOutput != nil {
		out, err := m.openOutput(m.sampleRate)
		if err != nil {
			err = fmt.Errorf("opening audio output: %w", err)
			m.s.alerts.AddNamed("AudioOutput", err.Error(), Error)
			return nil, err
		}
		m.output = out
		m.sampleRate = out.SampleRate()
	}
	ctx := engine.NewContext(m.sampleRate)
	m.bus = ctx.NewStreamDestination()
	m.bus.SetSink(m.tap)
	m.meter = DefaultMeter(m.sampleRate)
	m.builder = graph.Builder{
		Context:  ctx,
		Outputs:  graph.Outputs{Speakers: ctx.Destination(), Bus: m.bus},
		Settings: m.settings,
	}
	m.ctx = ctx
	if m.output != nil {
		m.player = m.output.Play(ctx.Render)
	}
	return ctx, nil
}

// Resume makes sure the context exists and is running.
func (m *Master) Resume() error {
	ctx, err := m.EnsureContext()
	if err != nil {
		return err
	}
	if err := ctx.Resume(); err != nil {
		return fmt.Errorf("resuming audio context: %w", err)
	}
	return nil
}

// Play starts the transport and every loaded track.
func (m *Master) Play() error {
	if err := m.Resume(); err != nil {
		return err
	}
	m.setPlaying(true)
	return nil
}

// Stop stops the transport and every track. It is idempotent.
func (m *Master) Stop() { m.setPlaying(false) }

func (m *Master) setPlaying(playing bool) {
	if playing && m.Resume() != nil {
		return
	}
	if playing && m.playing {
		return
	}
	m.playing = playing
	for _, t := range m.s.tracks {
		if !playing {
			t.Stop()
			continue
		}
		if t.clip == nil {
			continue
		}
		if err := t.Play(); err != nil {
			m.s.alerts.AddNamed(fmt.Sprintf("Play%d", t.id), err.Error(), Error)
		}
	}
}

// StartRecording starts capturing the recording bus, starting the
// transport if needed. Starting an ongoing recording does nothing.
func (m *Master) StartRecording() error {
	if m.recording {
		return nil
	}
	if err := m.Play(); err != nil {
		return err
	}
	m.tapMu.Lock()
	m.captured = nil
	m.capturing = true
	m.tapMu.Unlock()
	m.recording = true
	m.recStart = m.s.now()
	return nil
}

// StopRecording stops capturing and keeps what was captured for export. An
// empty capture is dropped with a warning and the previous recording stays.
func (m *Master) StopRecording() {
	if !m.recording {
		return
	}
	m.recording = false
	m.tapMu.Lock()
	captured := m.captured
	m.captured = nil
	m.capturing = false
	m.tapMu.Unlock()
	if len(captured) == 0 {
		log.Printf("master: stopped recording with nothing captured")
		m.s.alerts.AddNamed("MasterRecording", "Nothing was recorded", Warning)
		return
	}
	m.recorded = captured
}

// tap receives every quantum of the recording bus on the rendering
// goroutine.
func (m *Master) tap(buf looper.AudioBuffer) {
	m.tapMu.Lock()
	defer m.tapMu.Unlock()
	if err := m.meter.Update(buf); err != nil {
		m.meter = DefaultMeter(m.sampleRate)
	}
	if m.capturing {
		m.captured = append(m.captured, buf...)
	}
}

// Elapsed is the length of the ongoing recording, or of the finished one.
func (m *Master) Elapsed() time.Duration {
	if m.sampleRate <= 0 {
		return 0
	}
	frames := len(m.recorded)
	if m.recording {
		m.tapMu.Lock()
		frames = len(m.captured)
		m.tapMu.Unlock()
	}
	return time.Duration(frames) * time.Second / time.Duration(m.sampleRate)
}

// WallElapsed is the wall clock time since the recording started, for
// display while the output is still filling its buffers.
func (m *Master) WallElapsed(now time.Time) time.Duration {
	if !m.recording {
		return m.Elapsed()
	}
	return now.Sub(m.recStart)
}

// Level returns the smoothed and peak levels of the master mix in dB.
func (m *Master) Level() (level, peak Volume) {
	m.tapMu.Lock()
	defer m.tapMu.Unlock()
	return m.meter.Level, m.meter.Peak
}

func (m *Master) HasRecording() bool { return len(m.recorded) > 0 }

// Recorded returns the last finished master recording, nil if there is
// none. The buffer must not be modified.
func (m *Master) Recorded() looper.AudioBuffer { return m.recorded }

// Export encodes the last finished recording.
func (m *Master) Export(now time.Time) (export.Artifact, error) {
	if len(m.recorded) == 0 {
		return export.Artifact{}, ErrNoRecording
	}
	art, err := m.encoder.Export(m.recorded, m.sampleRate, now)
	if err != nil {
		return export.Artifact{}, fmt.Errorf("exporting recording: %w", err)
	}
	return art, nil
}

func (m *Master) close() {
	m.StopRecording()
	m.Stop()
	if m.player != nil {
		if err := m.player.Close(); err != nil {
			log.Printf("master: closing player: %v", err)
		}
		m.player = nil
	}
	if m.ctx != nil {
		m.ctx.Close()
	}
	if m.output != nil {
		if err := m.output.Close(); err != nil {
			log.Printf("master: closing audio output: %v", err)
		}
	}
}
