//go:build cgo

package export

import (
	"fmt"
	"io"

	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4/pkg/media/oggwriter"
	"github.com/psytec1x/looper"
	"gopkg.in/hraban/opus.v2"
)

const (
	opusGranuleRate = 48000
	opusPayloadType = 111
	opusMaxPacket   = 4000
)

func encodeOgg(w io.Writer, rec looper.AudioBuffer, sampleRate, bitrate int) error {
	switch sampleRate {
	case 8000, 12000, 16000, 24000, 48000:
	default:
		return fmt.Errorf("%w: opus does not support %d Hz", ErrOggUnavailable, sampleRate)
	}
	enc, err := opus.NewEncoder(sampleRate, 2, opus.AppAudio)
	if err != nil {
		return fmt.Errorf("creating opus encoder: %w", err)
	}
	if bitrate > 0 {
		if err := enc.SetBitrate(bitrate); err != nil {
			return fmt.Errorf("setting opus bitrate: %w", err)
		}
	}
	ogg, err := oggwriter.NewWith(w, uint32(sampleRate), 2)
	if err != nil {
		return fmt.Errorf("creating ogg writer: %w", err)
	}
	frameSize := sampleRate / 50 // 20 ms
	pcm := make([]int16, 2*frameSize)
	packet := make([]byte, opusMaxPacket)
	var seq uint16
	var timestamp uint32
	for pos := 0; pos < len(rec); pos += frameSize {
		clear(pcm)
		for i, f := range rec[pos:min(pos+frameSize, len(rec))] {
			pcm[2*i] = looper.ToPCM16(f[0])
			pcm[2*i+1] = looper.ToPCM16(f[1])
		}
		n, err := enc.Encode(pcm, packet)
		if err != nil {
			return fmt.Errorf("opus encode: %w", err)
		}
		timestamp += uint32(frameSize * opusGranuleRate / sampleRate)
		err = ogg.WriteRTP(&rtp.Packet{
			Header: rtp.Header{
				Version:        2,
				PayloadType:    opusPayloadType,
				SequenceNumber: seq,
				Timestamp:      timestamp,
			},
			Payload: packet[:n],
		})
		if err != nil {
			return fmt.Errorf("writing ogg page: %w", err)
		}
		seq++
	}
	return ogg.Close()
}
