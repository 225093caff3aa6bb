package gioui

import (
	"image"
	"io"
	"time"

	"gioui.org/app"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
	"github.com/psytec1x/looper/session"
)

type (
	// Options are the user preferences the window needs.
	Options struct {
		Width, Height   int
		KnobSensitivity float64 // dp for a full sweep
		CommitThreshold float64 // seconds
		ExportDir       string
	}

	// Looper is the main window. It drains the session broker on the window
	// goroutine, so every session call happens on one goroutine.
	Looper struct {
		Options
		Theme      *Theme
		Session    *session.Session
		Explorer   *explorer.Explorer
		Exploring  bool
		PopupAlert *PopupAlert
		Master     *MasterPanel

		tracks    map[session.TrackID]*TrackEditor
		trackList widget.List
		quitted   bool
	}

	C = layout.Context
	D = layout.Dimensions
)

func NewLooper(s *session.Session, opts Options) *Looper {
	l := &Looper{
		Options:    opts,
		Theme:      NewTheme(),
		Session:    s,
		PopupAlert: NewPopupAlert(s.Alerts()),
		Master:     NewMasterPanel(),
		tracks:     map[session.TrackID]*TrackEditor{},
	}
	l.trackList.Axis = layout.Vertical
	if keyBindingError != nil {
		s.Alerts().AddAlert(session.Alert{
			Priority: session.Warning,
			Message:  keyBindingError.Error(),
			Duration: 10 * time.Second,
		})
	}
	return l
}

// Main runs the window until it is closed or a quit is requested. It must
// be called from a goroutine other than the one running app.Main.
func (l *Looper) Main() {
	var ops op.Ops
	w := new(app.Window)
	w.Option(app.Title("Looper"))
	if l.Width > 0 && l.Height > 0 {
		w.Option(app.Size(unit.Dp(l.Width), unit.Dp(l.Height)))
	}
	l.Explorer = explorer.NewExplorer(w)
	acks := make(chan struct{})
	events := make(chan event.Event)
	go func() {
		for {
			ev := w.Event()
			events <- ev
			<-acks
			if _, ok := ev.(app.DestroyEvent); ok {
				return
			}
		}
	}()
	for {
		select {
		case msg := <-l.Session.Broker().ToSession:
			l.Session.ProcessMsg(msg)
			w.Invalidate()
		case e := <-events:
			switch e := e.(type) {
			case app.DestroyEvent:
				acks <- struct{}{}
				return
			case app.FrameEvent:
				gtx := app.NewContext(&ops, e)
				l.Layout(gtx)
				e.Frame(gtx.Ops)
				if l.quitted {
					w.Perform(system.ActionClose)
				}
			}
			acks <- struct{}{}
		}
	}
}

func (l *Looper) Layout(gtx C) {
	defer clip.Rect(image.Rectangle{Max: gtx.Constraints.Max}).Push(gtx.Ops).Pop()
	paint.Fill(gtx.Ops, l.Theme.Material.Bg)
	event.Op(gtx.Ops, l)

	layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx C) D { return l.Master.Layout(gtx, l) }),
		layout.Flexed(1, l.layoutTracks),
	)
	l.PopupAlert.Layout(gtx, l.Theme)

	for {
		ev, ok := gtx.Event(
			key.Filter{Name: "", Optional: key.ModAlt | key.ModCommand | key.ModShift | key.ModShortcut | key.ModSuper},
		)
		if !ok {
			break
		}
		if e, ok := ev.(key.Event); ok {
			l.KeyEvent(e)
		}
	}
}

func (l *Looper) layoutTracks(gtx C) D {
	tracks := l.Session.Tracks()
	return material.List(&l.Theme.Material, &l.trackList).Layout(gtx, len(tracks), func(gtx C, i int) D {
		t := tracks[i]
		te, ok := l.tracks[t.ID()]
		if !ok {
			te = NewTrackEditor(t)
			l.tracks[t.ID()] = te
		}
		return layout.Inset{Bottom: unit.Dp(2)}.Layout(gtx, func(gtx C) D {
			return te.Layout(gtx, l)
		})
	})
}

func (l *Looper) explorerChooseFile(success func(io.ReadCloser), extensions ...string) {
	l.Exploring = true
	go func() {
		file, err := l.Explorer.ChooseFile(extensions...)
		l.Session.Broker().Post(func() {
			l.Exploring = false
			if err == nil {
				success(file)
			} else if err != explorer.ErrUserDecline {
				l.Session.Alerts().Add(err.Error(), session.Error)
			}
		})
	}()
}

func (l *Looper) explorerCreateFile(success func(io.WriteCloser), filename string) {
	l.Exploring = true
	go func() {
		file, err := l.Explorer.CreateFile(filename)
		l.Session.Broker().Post(func() {
			l.Exploring = false
			if err == nil {
				success(file)
			} else if err != explorer.ErrUserDecline {
				l.Session.Alerts().Add(err.Error(), session.Error)
			}
		})
	}()
}
