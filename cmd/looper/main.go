package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"gioui.org/app"
	"github.com/psytec1x/looper"
	"github.com/psytec1x/looper/capture"
	"github.com/psytec1x/looper/cmd"
	"github.com/psytec1x/looper/config"
	"github.com/psytec1x/looper/gioui"
	"github.com/psytec1x/looper/midi"
	"github.com/psytec1x/looper/oto"
	"github.com/psytec1x/looper/session"
	"github.com/psytec1x/looper/version"
)

var configFile = flag.String("config", "", "read configuration from `file` instead of the user config directory")
var midiInput = flag.String("midi-input", "", "connect MIDI input to matching device name prefix")
var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
var versionFlag = flag.Bool("v", false, "print version and exit")

func main() {
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	var f *os.File
	if *cpuprofile != "" {
		var err error
		f, err = os.Create(*cpuprofile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
	}
	cfg := config.Load(*configFile)
	opts, err := cfg.SessionOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	opts.Output = func(sampleRate int) (looper.AudioOutput, error) {
		return oto.NewOutput(sampleRate, cfg.BufferSize())
	}
	opts.Capture = capture.Default(cfg.Capture.FramesPerBuffer)

	broker := session.NewBroker()
	s := session.New(broker, opts)
	if cfg.YmlError != nil {
		s.Alerts().AddAlert(session.Alert{
			Priority: session.Warning,
			Message:  cfg.YmlError.Error(),
			Duration: 10 * time.Second,
		})
	}
	if _, err := s.AddTrack(); err != nil {
		log.Fatal(err)
	}

	var midiCloser io.Closer
	mapper, err := midi.NewMapper(cfg.MIDI.Bindings)
	if err != nil {
		log.Printf("MIDI bindings: %v", err)
	} else {
		prefix := cfg.MIDI.Input
		if isFlagPassed("midi-input") {
			prefix = *midiInput
		}
		if prefix != "" || isFlagPassed("midi-input") {
			if midiCloser, err = cmd.ListenMIDI(prefix, mapper, s); err != nil {
				log.Printf("failed to open MIDI input '%s': %v", prefix, err)
			}
		}
	}

	ui := gioui.NewLooper(s, gioui.Options{
		Width:           cfg.Window.Width,
		Height:          cfg.Window.Height,
		KnobSensitivity: cfg.Controls.KnobSensitivity,
		CommitThreshold: cfg.Controls.CommitThreshold,
		ExportDir:       cfg.Export.Directory,
	})
	go func() {
		ui.Main()
		if midiCloser != nil {
			midiCloser.Close()
		}
		s.Close()
		if *cpuprofile != "" {
			pprof.StopCPUProfile()
			f.Close()
		}
		os.Exit(0)
	}()
	app.Main()
}

func isFlagPassed(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
