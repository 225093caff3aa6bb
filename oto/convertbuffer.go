package oto

import (
	"encoding/binary"
	"math"

	"github.com/psytec1x/looper"
)

const bytesPerFrame = 8

// FloatBufferTo32BitLE appends the frames of buff to dst as interleaved
// little-endian float32 samples, clipped to [-1, 1].
func FloatBufferTo32BitLE(buff looper.AudioBuffer, dst []byte) []byte {
	for _, f := range buff {
		for _, v := range f {
			v = min(max(v, -1), 1)
			dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
		}
	}
	return dst
}
