package oto_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/psytec1x/looper"
	"github.com/psytec1x/looper/oto"
)

func TestFloatBufferTo32BitLE(t *testing.T) {
	buf := looper.AudioBuffer{{0.5, -0.5}, {2, -3}}
	got := oto.FloatBufferTo32BitLE(buf, nil)
	want := []float32{0.5, -0.5, 1, -1}
	if len(got) != 4*len(want) {
		t.Fatalf("got %d bytes, want %d", len(got), 4*len(want))
	}
	for i, w := range want {
		v := math.Float32frombits(binary.LittleEndian.Uint32(got[4*i:]))
		if v != w {
			t.Errorf("sample %d: got %v, want %v", i, v, w)
		}
	}
}
