package looper_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/psytec1x/looper"
)

func TestWavHeader(t *testing.T) {
	buf := looper.AudioBuffer{{0.5, -0.5}, {1, -1}, {2, -2}}
	for _, pcm16 := range []bool{true, false} {
		data, err := buf.Wav(48000, pcm16)
		if err != nil {
			t.Fatalf("Wav failed: %v", err)
		}
		if !bytes.HasPrefix(data, []byte("RIFF")) || string(data[8:12]) != "WAVE" {
			t.Fatalf("missing RIFF/WAVE header")
		}
		if sr := binary.LittleEndian.Uint32(data[24:28]); sr != 48000 {
			t.Errorf("sample rate in header = %d, want 48000", sr)
		}
		if riffSize := binary.LittleEndian.Uint32(data[4:8]); int(riffSize) != len(data)-8 {
			t.Errorf("pcm16=%v: RIFF chunk size %d does not match file size %d", pcm16, riffSize, len(data))
		}
	}
}

func TestRawPCM16Clips(t *testing.T) {
	buf := looper.AudioBuffer{{2, -2}}
	data, err := buf.Raw(true)
	if err != nil {
		t.Fatalf("Raw failed: %v", err)
	}
	l := int16(binary.LittleEndian.Uint16(data[0:2]))
	r := int16(binary.LittleEndian.Uint16(data[2:4]))
	if l != 32767 || r != -32768 {
		t.Errorf("got %d, %d; want clipped 32767, -32768", l, r)
	}
}
