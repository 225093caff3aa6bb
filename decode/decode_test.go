package decode_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/psytec1x/looper"
	"github.com/psytec1x/looper/decode"
)

func TestDecodeStereoWav(t *testing.T) {
	buf := make(looper.AudioBuffer, 8000*2)
	for i := range buf {
		v := float32(math.Sin(float64(i) * 0.01))
		buf[i] = [2]float32{v, -v / 2}
	}
	data, err := buf.Wav(8000, true)
	if err != nil {
		t.Fatalf("Wav failed: %v", err)
	}
	clip, err := decode.Auto{}.Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if clip.SampleRate() != 8000 || clip.NumChannels() != 2 || clip.Duration() != 2 {
		t.Fatalf("got %d Hz, %d channels, %v s", clip.SampleRate(), clip.NumChannels(), clip.Duration())
	}
	for i := 0; i < len(buf); i += 97 {
		f := clip.Frame(i)
		if math.Abs(float64(f[0]-buf[i][0])) > 1e-4 || math.Abs(float64(f[1]-buf[i][1])) > 1e-4 {
			t.Fatalf("frame %d: got %v, want %v", i, f, buf[i])
		}
	}
}

func TestDecodeMonoWav(t *testing.T) {
	samples := []int16{0, 16384, -16384, 32767}
	var b bytes.Buffer
	looper.WavHeader(len(samples), 1, 22050, true, &b)
	binary.Write(&b, binary.LittleEndian, samples)
	clip, err := decode.WAV(b.Bytes())
	if err != nil {
		t.Fatalf("WAV failed: %v", err)
	}
	if clip.NumChannels() != 1 || clip.NumFrames() != 4 || clip.SampleRate() != 22050 {
		t.Fatalf("got %d channels, %d frames, %d Hz", clip.NumChannels(), clip.NumFrames(), clip.SampleRate())
	}
	if got := clip.Channel(0)[1]; got != 0.5 {
		t.Errorf("sample 1 = %v, want 0.5", got)
	}
	if got := clip.Frame(2); got != [2]float32{-0.5, -0.5} {
		t.Errorf("frame 2 = %v", got)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, decode.ErrNoData},
		{"text", []byte("definitely not audio"), decode.ErrUnsupportedFormat},
		{"truncated wav", []byte("RIFF\x00\x00\x00\x00WAVE"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clip, err := decode.Auto{}.Decode(tt.data)
			if err == nil {
				t.Fatalf("expected an error, got clip %v", clip)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecodeFloatWav(t *testing.T) {
	buf := make(looper.AudioBuffer, 300)
	for i := range buf {
		buf[i] = [2]float32{float32(i) / 300, -float32(i) / 600}
	}
	data, err := buf.Wav(44100, false)
	if err != nil {
		t.Fatalf("Wav failed: %v", err)
	}
	clip, err := decode.WAV(data)
	if err != nil {
		t.Fatalf("WAV failed: %v", err)
	}
	if clip.NumFrames() != len(buf) || clip.NumChannels() != 2 || clip.SampleRate() != 44100 {
		t.Fatalf("got %d frames x %d channels at %d Hz, want %d x 2 at 44100", clip.NumFrames(), clip.NumChannels(), clip.SampleRate(), len(buf))
	}
	got := clip.Buffer()
	for i := range buf {
		if got[i] != buf[i] {
			t.Fatalf("frame %d = %v, want %v", i, got[i], buf[i])
		}
	}
}

func TestSniff(t *testing.T) {
	tests := []struct {
		data []byte
		want decode.Format
	}{
		{[]byte("RIFF\x24\x00\x00\x00WAVEfmt "), decode.FormatWAV},
		{[]byte("ID3\x04\x00"), decode.FormatMP3},
		{[]byte{0xFF, 0xFB, 0x90, 0x64}, decode.FormatMP3},
		{[]byte("OggS"), decode.FormatUnknown},
		{[]byte{0xFF}, decode.FormatUnknown},
	}
	for _, tt := range tests {
		if got := decode.Sniff(tt.data); got != tt.want {
			t.Errorf("Sniff(%q) = %v, want %v", tt.data, got, tt.want)
		}
	}
}
