// Package export turns a recorded master mix into a downloadable file.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig"
	"github.com/psytec1x/looper"
)

type (
	// Format is the container of an exported recording, also used as the
	// file extension. FormatRaw is headerless interleaved little-endian
	// float32 stereo.
	Format string

	// Artifact is an encoded recording ready to be saved.
	Artifact struct {
		Name string
		MIME string
		Data []byte
	}

	// Namer renders file names from a text/template with the sprig
	// functions available. The template sees .Time and .Ext.
	Namer struct {
		tmpl *template.Template
	}

	// Encoder exports recordings. If Format is FormatOgg but Ogg/Opus
	// encoding is not possible, the recording is exported as WAV instead.
	Encoder struct {
		Format  Format
		Bitrate int // bits per second, 0 = encoder default
		Namer   *Namer
	}
)

const (
	FormatWAV Format = "wav"
	FormatOgg Format = "ogg"
	FormatRaw Format = "raw"
)

const DefaultNameTemplate = `audio-looper-recording-{{ dateInZone "2006-01-02T15:04:05.000Z" .Time "UTC" | replace ":" "-" }}.{{ .Ext }}`

var (
	ErrUnknownFormat  = errors.New("unknown export format")
	ErrOggUnavailable = errors.New("ogg/opus encoding unavailable")
	ErrEmptyRecording = errors.New("recording is empty")
)

// ParseFormat parses a format name; the empty string means WAV.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case "":
		return FormatWAV, nil
	case FormatWAV, FormatOgg, FormatRaw:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func (f Format) MIME() string {
	switch f {
	case FormatOgg:
		return "audio/ogg"
	case FormatRaw:
		return "application/octet-stream"
	default:
		return "audio/wav"
	}
}

func NewNamer(text string) (*Namer, error) {
	if text == "" {
		text = DefaultNameTemplate
	}
	tmpl, err := template.New("name").Funcs(sprig.TxtFuncMap()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing file name template: %w", err)
	}
	return &Namer{tmpl: tmpl}, nil
}

func (n *Namer) Name(t time.Time, ext Format) (string, error) {
	var b strings.Builder
	data := struct {
		Time time.Time
		Ext  string
	}{t, string(ext)}
	if err := n.tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("rendering file name: %w", err)
	}
	return b.String(), nil
}

// Export encodes a stereo recording and names it after now.
func (e *Encoder) Export(rec looper.AudioBuffer, sampleRate int, now time.Time) (Artifact, error) {
	if len(rec) == 0 {
		return Artifact{}, ErrEmptyRecording
	}
	namer := e.Namer
	if namer == nil {
		var err error
		if namer, err = NewNamer(""); err != nil {
			return Artifact{}, err
		}
	}
	format := e.Format
	var data []byte
	var err error
	switch format {
	case FormatOgg:
		var b bytes.Buffer
		if err = encodeOgg(&b, rec, sampleRate, e.Bitrate); err == nil {
			data = b.Bytes()
			break
		}
		log.Printf("ogg export failed, falling back to wav: %v", err)
		format = FormatWAV
		fallthrough
	case FormatWAV, "":
		format = FormatWAV
		if data, err = rec.Wav(sampleRate, true); err != nil {
			return Artifact{}, fmt.Errorf("encoding wav: %w", err)
		}
	case FormatRaw:
		if data, err = rec.Raw(false); err != nil {
			return Artifact{}, fmt.Errorf("encoding raw samples: %w", err)
		}
	default:
		return Artifact{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	name, err := namer.Name(now, format)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Name: name, MIME: format.MIME(), Data: data}, nil
}
