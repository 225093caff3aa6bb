package gioui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"
	"github.com/psytec1x/looper"
	"github.com/psytec1x/looper/knob"
	"github.com/psytec1x/looper/session"
	"golang.org/x/exp/shiny/materialdesign/icons"
)

// MasterPanel is the transport bar: master play, record, export, tempo and
// level.
type MasterPanel struct {
	play     ToggleButton
	record   ToggleButton
	export   ActionButton
	addTrack ActionButton
	tempo    KnobState
}

func NewMasterPanel() *MasterPanel {
	return &MasterPanel{
		play: ToggleButton{
			OffIcon: icons.AVPlayArrow, OnIcon: icons.AVStop,
			OffHint: "Play all", OnHint: "Stop all",
			OnColor: secondaryColor,
		},
		record: ToggleButton{
			OffIcon: icons.AVFiberManualRecord, OnIcon: icons.AVFiberManualRecord,
			OffHint: "Record master", OnHint: "Stop master recording",
			OnColor: recordColor,
		},
	}
}

func (mp *MasterPanel) Layout(gtx C, l *Looper) D {
	th := l.Theme
	s := l.Session
	m := s.Master()
	if m.Playing() || m.Recording() {
		gtx.Execute(op.InvalidateCmd{At: gtx.Now.Add(50 * time.Millisecond)})
	}
	inset := layout.UniformInset(unit.Dp(4))
	level, peak := m.Level()
	return inset.Layout(gtx, func(gtx C) D {
		return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(func(gtx C) D { return mp.play.Layout(gtx, th, s.Playing()) }),
			layout.Rigid(func(gtx C) D { return mp.record.Layout(gtx, th, s.Recording()) }),
			layout.Rigid(func(gtx C) D {
				return mp.export.Layout(gtx, th, l.ExportRecording(), icons.FileFileDownload, "Export recording")
			}),
			layout.Rigid(func(gtx C) D {
				return mp.addTrack.Layout(gtx, th, s.AddTrackAction(), icons.ContentAdd, "Add track")
			}),
			layout.Rigid(func(gtx C) D {
				w := Knob(th, &mp.tempo, knob.Knob{Min: looper.MinBPM, Max: looper.MaxBPM, Step: 1}, m.Tempo(), "Master BPM", m.SetTempo)
				w.Knob.Sensitivity = l.KnobSensitivity
				return inset.Layout(gtx, w.Layout)
			}),
			layout.Rigid(func(gtx C) D {
				return inset.Layout(gtx, TextLabel(th, formatElapsed(m.Elapsed()), highEmphasisTextColor).Layout)
			}),
			layout.Flexed(1, func(gtx C) D {
				return inset.Layout(gtx, VuMeter{Level: level, Peak: peak, Min: -60, Max: 6}.Layout)
			}),
		)
	})
}

func formatElapsed(d time.Duration) string {
	d = d.Round(100 * time.Millisecond)
	m := d / time.Minute
	d -= m * time.Minute
	return fmt.Sprintf("%02d:%04.1f", int(m), d.Seconds())
}

// ExportRecording returns an action that exports the master recording,
// either into the export directory or to a file chosen by the user.
func (l *Looper) ExportRecording() session.Action {
	return session.MakeAction((*exportRecording)(l))
}

type exportRecording Looper

func (e *exportRecording) Enabled() bool {
	return !e.Exploring && e.Session.Master().HasRecording()
}

func (e *exportRecording) Do() {
	l := (*Looper)(e)
	if l.ExportDir != "" {
		l.Session.ExportAction(func(name string, data []byte) error {
			if err := os.MkdirAll(l.ExportDir, 0755); err != nil {
				return err
			}
			return os.WriteFile(filepath.Join(l.ExportDir, name), data, 0644)
		}).Do()
		return
	}
	art, err := l.Session.Master().Export(time.Now())
	if err != nil {
		l.Session.Alerts().AddNamed("Export", err.Error(), session.Error)
		return
	}
	l.explorerCreateFile(func(wc io.WriteCloser) {
		_, err := wc.Write(art.Data)
		if cerr := wc.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			l.Session.Alerts().AddNamed("Export", err.Error(), session.Error)
			return
		}
		l.Session.Alerts().AddNamed("Export", "Exported "+art.Name, session.Info)
	}, art.Name)
}
