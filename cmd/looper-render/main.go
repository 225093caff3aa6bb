package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/psytec1x/looper"
	"github.com/psytec1x/looper/config"
	"github.com/psytec1x/looper/export"
	"github.com/psytec1x/looper/session"
	"github.com/psytec1x/looper/version"
)

var configFile = flag.String("config", "", "read configuration from `file` instead of the user config directory")
var seconds = flag.Float64("seconds", 10, "length of the rendered recording in seconds")
var output = flag.String("o", "", "write the recording to `file`; default is a timestamped name in the export directory")
var format = flag.String("format", "", "export format, wav, ogg or raw; default from the configuration")
var cutoff = flag.Float64("cutoff", looper.MaxCutoffHz, "lowpass cutoff of every track in Hz")
var delay = flag.Float64("delay", 0, "delay mix of every track, 0 to 1")
var reverb = flag.Float64("reverb", 0, "reverb mix of every track, 0 to 1")
var region = flag.String("region", "", "loop region of every track as `start:end` in seconds")
var loadTimeout = flag.Duration("timeout", 30*time.Second, "how long to wait for the clips to decode")
var versionFlag = flag.Bool("v", false, "print version and exit")

const renderChunk = 4096

func main() {
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if flag.NArg() == 0 {
		printUsage()
		os.Exit(1)
	}
	cfg := config.Load(*configFile)
	if cfg.YmlError != nil {
		log.Printf("ignoring configuration: %v", cfg.YmlError)
	}
	if *format != "" {
		cfg.Export.Format = *format
	}
	opts, err := cfg.SessionOptions()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	s := session.New(session.NewBroker(), opts)
	defer s.Close()

	for _, path := range flag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("could not read %v: %v", path, err)
		}
		t, err := s.AddTrack()
		if err != nil {
			log.Fatalf("could not add track for %v: %v", path, err)
		}
		t.LoadClip(data)
	}
	if err := waitForClips(s, *loadTimeout); err != nil {
		log.Fatal(err)
	}
	for i, t := range s.Tracks() {
		if t.Clip() == nil {
			log.Fatalf("could not decode %v", flag.Arg(i))
		}
		if err := configureTrack(t); err != nil {
			log.Fatalf("%v: %v", flag.Arg(i), err)
		}
	}

	m := s.Master()
	if err := m.StartRecording(); err != nil {
		log.Fatalf("could not start recording: %v", err)
	}
	if err := render(m.Context(), int(*seconds*float64(m.SampleRate()))); err != nil {
		log.Fatalf("rendering failed: %v", err)
	}
	m.StopRecording()
	if !m.HasRecording() {
		log.Fatal("nothing was recorded")
	}
	path, err := writeRecording(m, opts.Export, cfg.Export.Directory)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("wrote %v\n", path)
}

// writeRecording writes wav recordings straight to the file and encodes
// other formats in memory first.
func writeRecording(m *session.Master, enc export.Encoder, dir string) (string, error) {
	now := time.Now()
	path := *output
	if enc.Format == export.FormatWAV {
		if path == "" {
			name, err := enc.Namer.Name(now, export.FormatWAV)
			if err != nil {
				return "", err
			}
			path = filepath.Join(dir, name)
		}
		f, err := os.Create(path)
		if err != nil {
			return "", err
		}
		if err := export.WriteWAV(f, m.Recorded(), m.SampleRate()); err != nil {
			f.Close()
			return "", err
		}
		return path, f.Close()
	}
	art, err := m.Export(now)
	if err != nil {
		return "", fmt.Errorf("could not export recording: %w", err)
	}
	if path == "" {
		path = filepath.Join(dir, art.Name)
	}
	if err := os.WriteFile(path, art.Data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// waitForClips processes session messages until no track is loading.
func waitForClips(s *session.Session, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for loading(s) {
		msg, ok := session.TimeoutReceive(s.Broker().ToSession, time.Until(deadline))
		if !ok {
			return fmt.Errorf("clips did not decode within %v", timeout)
		}
		s.ProcessMsg(msg)
	}
	for _, a := range s.Alerts().Iterate {
		if a.Priority >= session.Warning {
			log.Print(a.Message)
		}
	}
	return nil
}

func loading(s *session.Session) bool {
	for _, t := range s.Tracks() {
		if t.Loading() {
			return true
		}
	}
	return false
}

func configureTrack(t *session.Track) error {
	for kind, v := range map[looper.EffectKind]float64{
		looper.FilterCutoff: *cutoff,
		looper.DelayMix:     *delay,
		looper.ReverbMix:    *reverb,
	} {
		if err := t.SetEffectParam(kind, v); err != nil {
			return err
		}
	}
	if *region == "" {
		return nil
	}
	start, end, ok := strings.Cut(*region, ":")
	if !ok {
		return fmt.Errorf("region %q is not start:end", *region)
	}
	s, err := strconv.ParseFloat(start, 64)
	if err != nil {
		return fmt.Errorf("region start: %w", err)
	}
	e, err := strconv.ParseFloat(end, 64)
	if err != nil {
		return fmt.Errorf("region end: %w", err)
	}
	return t.SetLoopRegion(s, e)
}

type renderer interface {
	Render(buf looper.AudioBuffer) error
}

func render(r renderer, frames int) error {
	buf := make(looper.AudioBuffer, renderChunk)
	for frames > 0 {
		n := min(frames, renderChunk)
		if err := r.Render(buf[:n]); err != nil {
			return err
		}
		frames -= n
	}
	return nil
}

func printUsage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] clip1.wav [clip2.mp3 ...]\n\nMixes the clips as looping tracks and writes the master recording.\n\n", os.Args[0])
	flag.PrintDefaults()
	fmt.Fprintf(flag.CommandLine.Output(), "\nExport formats: %v, %v, %v\n", export.FormatWAV, export.FormatOgg, export.FormatRaw)
}
