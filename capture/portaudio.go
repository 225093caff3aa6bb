//go:build cgo

package capture

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

type (
	// PortAudio captures from the default input device.
	PortAudio struct {
		FramesPerBuffer int
	}

	portAudioStream struct {
		format  Format
		stream  *portaudio.Stream
		mu      sync.Mutex
		onChunk func([]byte)
		stopped bool
	}
)

// Default returns the capture device of the platform.
func Default(framesPerBuffer int) Device {
	return PortAudio{FramesPerBuffer: framesPerBuffer}
}

func (p PortAudio) Open(f Format) (Stream, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	s := &portAudioStream{format: f}
	stream, err := portaudio.OpenDefaultStream(f.Channels, 0, float64(f.SampleRate), p.FramesPerBuffer, s.process)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	s.stream = stream
	return s, nil
}

func (s *portAudioStream) Format() Format { return s.format }

func (s *portAudioStream) Start(onChunk func([]byte)) error {
	s.mu.Lock()
	s.onChunk = onChunk
	s.mu.Unlock()
	if err := s.stream.Start(); err != nil {
		return fmt.Errorf("starting capture stream: %w", err)
	}
	return nil
}

func (s *portAudioStream) process(in []float32) {
	s.mu.Lock()
	onChunk := s.onChunk
	s.mu.Unlock()
	if onChunk != nil {
		onChunk(EncodeChunk(make([]byte, 0, 2*len(in)), in))
	}
}

func (s *portAudioStream) Stop() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	s.onChunk = nil
	s.mu.Unlock()
	err := s.stream.Stop()
	if cerr := s.stream.Close(); err == nil {
		err = cerr
	}
	portaudio.Terminate()
	if err != nil {
		return fmt.Errorf("stopping capture stream: %w", err)
	}
	return nil
}
