package session

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"

	"github.com/psytec1x/looper"
	"github.com/psytec1x/looper/capture"
	"github.com/psytec1x/looper/engine"
	"github.com/psytec1x/looper/graph"
)

type (
	TrackID int

	// Track owns one clip, its loop region, effect parameters and tempo,
	// and the signal graph playing it. All methods must be called from the
	// control goroutine.
	Track struct {
		id     TrackID
		s      *Session
		clip   *looper.Clip
		region looper.LoopRegion
		params looper.EffectParams
		tempo  looper.Tempo
		graph  *graph.Graph

		impulse *looper.Clip
		loading bool
		loadSeq uint64

		opening    bool
		cancelOpen bool
		recording  bool
		stream     capture.Stream
		chunksMu   sync.Mutex
		chunks     [][]byte
	}

	TrackState int
)

const (
	TrackEmpty TrackState = iota
	TrackLoaded
	TrackPlaying
)

var (
	ErrNoClip        = errors.New("track has no clip")
	ErrEmptyCapture  = errors.New("no audio was captured")
	ErrSessionClosed = errors.New("session is closed")
)

func (s TrackState) String() string {
	switch s {
	case TrackEmpty:
		return "empty"
	case TrackLoaded:
		return "loaded"
	case TrackPlaying:
		return "playing"
	}
	return fmt.Sprintf("TrackState(%d)", int(s))
}

func (t *Track) ID() TrackID                 { return t.id }
func (t *Track) Clip() *looper.Clip          { return t.clip }
func (t *Track) Region() looper.LoopRegion   { return t.region }
func (t *Track) Params() looper.EffectParams { return t.params }
func (t *Track) Tempo() looper.Tempo         { return t.tempo }
func (t *Track) Loading() bool               { return t.loading }
func (t *Track) IsRecording() bool           { return t.recording }

func (t *Track) State() TrackState {
	switch {
	case t.clip == nil:
		return TrackEmpty
	case t.graph != nil:
		return TrackPlaying
	}
	return TrackLoaded
}

// Nodes lists the node kinds of the running graph, or nil when the track is
// not playing.
func (t *Track) Nodes() []engine.Kind {
	if t.graph == nil {
		return nil
	}
	return t.graph.Nodes()
}

// LoadClip stops the track and decodes data in the background. When the
// decode finishes, the clip replaces the current one and the loop region
// resets to the whole clip, unless another load was started in the
// meantime. Decode failures keep the current clip and raise an alert.
func (t *Track) LoadClip(data []byte) {
	t.Stop()
	t.loadSeq++
	seq := t.loadSeq
	t.loading = true
	decoder := t.s.decoder
	go func() {
		clip, err := decoder.Decode(data)
		t.s.broker.Post(func() { t.clipDecoded(seq, clip, err) })
	}()
}

func (t *Track) clipDecoded(seq uint64, clip *looper.Clip, err error) {
	if seq != t.loadSeq || t.s.closed {
		log.Printf("track %d: discarding stale decode", t.id)
		return
	}
	t.loading = false
	if err != nil {
		t.s.alerts.AddNamed(fmt.Sprintf("Decode%d", t.id), fmt.Sprintf("Track %d: could not decode audio: %v", t.id+1, err), Error)
		return
	}
	t.clip = clip
	t.region = looper.FullRegion(clip)
	if t.s.master.Playing() {
		if err := t.Play(); err != nil {
			t.s.alerts.AddNamed(fmt.Sprintf("Play%d", t.id), err.Error(), Error)
		}
	}
}

// SetLoopRegion clamps [start, end] into the clip and stores it. A playing
// track is rebuilt to adopt the new bounds.
func (t *Track) SetLoopRegion(start, end float64) error {
	if t.clip == nil {
		return ErrNoClip
	}
	r, err := looper.ClampRegion(start, end, t.clip.Duration())
	if err != nil {
		return err
	}
	t.region = r
	if t.graph != nil {
		return t.Play()
	}
	return nil
}

// SetEffectParam stores a clamped parameter value. It is heard the next
// time the graph is built.
func (t *Track) SetEffectParam(kind looper.EffectKind, value float64) error {
	p, err := t.params.With(kind, value)
	if err != nil {
		return err
	}
	t.params = p
	return nil
}

// Play builds a fresh graph and starts it at the beginning of the loop
// region, replacing the running graph if there is one.
func (t *Track) Play() error {
	if t.clip == nil {
		return ErrNoClip
	}
	if err := t.s.master.Resume(); err != nil {
		return err
	}
	t.Stop()
	g, err := t.s.master.builder.Build(t.clip, t.region, t.params, t.impulseResponse)
	if err != nil {
		return err
	}
	if err := g.Start(); err != nil {
		g.Teardown()
		return fmt.Errorf("starting track %d: %w", t.id, err)
	}
	t.graph = g
	return nil
}

// Stop tears the graph down. Stopping a track that is not playing does
// nothing.
func (t *Track) Stop() {
	if t.graph == nil {
		return
	}
	t.graph.Teardown()
	t.graph = nil
}

func (t *Track) impulseResponse() (*looper.Clip, error) {
	if t.impulse == nil {
		rs := t.s.reverb
		rng := rand.New(rand.NewSource(int64(t.id) + 1))
		ir, err := graph.ImpulseResponse(t.s.master.SampleRate(), rs.Duration, rs.Decay, rng)
		if err != nil {
			return nil, err
		}
		t.impulse = ir
	}
	return t.impulse, nil
}

// SetTempo sets the own tempo of the track; it is ignored while the track
// follows the master tempo.
func (t *Track) SetTempo(bpm float64) {
	if t.tempo.FollowMaster {
		return
	}
	t.tempo.BPM = looper.ClampBPM(bpm)
}

// SetFollowMaster switches the tempo mode. Turning following on copies the
// master tempo into the track.
func (t *Track) SetFollowMaster(follow bool) {
	if follow {
		t.tempo.BPM = t.s.master.Tempo()
	}
	t.tempo.FollowMaster = follow
}

// DisplayTempo is the tempo shown for the track.
func (t *Track) DisplayTempo() float64 {
	return t.tempo.Display(t.s.master.Tempo())
}

// Record asks the capture device for the microphone in the background and
// starts collecting chunks once it is open.
func (t *Track) Record() {
	if t.recording || t.opening {
		return
	}
	if t.s.captureErr != nil {
		t.s.alerts.AddNamed("Capture", fmt.Sprintf("Recording is disabled: %v", t.s.captureErr), Warning)
		return
	}
	t.opening = true
	t.cancelOpen = false
	dev, format := t.s.capture, t.s.captureFormat
	go func() {
		stream, err := dev.Open(format)
		t.s.broker.Post(func() { t.captureOpened(stream, err) })
	}()
}

func (t *Track) captureOpened(stream capture.Stream, err error) {
	t.opening = false
	if err != nil {
		log.Printf("track %d: opening capture device: %v", t.id, err)
		t.s.captureErr = err
		t.s.alerts.AddNamed("Capture", fmt.Sprintf("Microphone unavailable, recording disabled: %v", err), Error)
		return
	}
	if t.cancelOpen || t.s.closed {
		stopStream(stream)
		return
	}
	t.chunksMu.Lock()
	t.chunks = nil
	t.chunksMu.Unlock()
	if err := stream.Start(t.addChunk); err != nil {
		stopStream(stream)
		t.s.alerts.AddNamed("Capture", fmt.Sprintf("Could not start recording: %v", err), Error)
		return
	}
	t.stream = stream
	t.recording = true
}

// addChunk is called from the capture goroutine.
func (t *Track) addChunk(chunk []byte) {
	t.chunksMu.Lock()
	t.chunks = append(t.chunks, chunk)
	t.chunksMu.Unlock()
}

// StopRecord stops the microphone and loads the captured audio as the new
// clip. Stopping with nothing captured only warns.
func (t *Track) StopRecord() {
	if t.opening {
		t.cancelOpen = true
		t.opening = false
		return
	}
	if !t.recording {
		return
	}
	t.recording = false
	stopStream(t.stream)
	format := t.stream.Format()
	t.stream = nil
	t.chunksMu.Lock()
	chunks := t.chunks
	t.chunks = nil
	t.chunksMu.Unlock()
	if len(chunks) == 0 {
		log.Printf("track %d: %v", t.id, ErrEmptyCapture)
		t.s.alerts.AddNamed(fmt.Sprintf("Capture%d", t.id), fmt.Sprintf("Track %d: nothing was recorded", t.id+1), Warning)
		return
	}
	t.LoadClip(capture.Assemble(format, chunks))
}

// discardRecording stops the microphone without loading what was captured.
func (t *Track) discardRecording() {
	t.cancelOpen = t.opening
	t.opening = false
	if t.recording {
		t.recording = false
		stopStream(t.stream)
		t.stream = nil
	}
}

func stopStream(s capture.Stream) {
	if err := s.Stop(); err != nil {
		log.Printf("stopping capture stream: %v", err)
	}
}
