package gioui

import (
	"fmt"
	"image"
	"io"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"github.com/psytec1x/looper"
	"github.com/psytec1x/looper/knob"
	"github.com/psytec1x/looper/session"
	"golang.org/x/exp/shiny/materialdesign/icons"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TrackEditor is one row of the looper: buttons, waveform and knobs of a
// track.
type TrackEditor struct {
	track *session.Track

	load     ActionButton
	play     ToggleButton
	record   ToggleButton
	follow   ToggleButton
	waveform WaveformState
	effects  [looper.NumEffectKinds]KnobState
	tempo    KnobState
}

var effectTitles [looper.NumEffectKinds]string

func init() {
	title := cases.Title(language.English)
	for k := range looper.NumEffectKinds {
		effectTitles[k] = title.String(k.String())
	}
}

func NewTrackEditor(track *session.Track) *TrackEditor {
	return &TrackEditor{
		track: track,
		play: ToggleButton{
			OffIcon: icons.AVPlayArrow, OnIcon: icons.AVStop,
			OffHint: "Play track", OnHint: "Stop track",
			OnColor: secondaryColor,
		},
		record: ToggleButton{
			OffIcon: icons.AVMicNone, OnIcon: icons.AVMic,
			OffHint: "Record track", OnHint: "Stop recording",
			OnColor: recordColor,
		},
		follow: ToggleButton{
			OffIcon: icons.NotificationSyncDisabled, OnIcon: icons.NotificationSync,
			OffHint: "Follow master tempo", OnHint: "Use own tempo",
		},
	}
}

func effectKnob(k looper.EffectKind) knob.Knob {
	r := k.Range()
	step := 0.01
	if k == looper.FilterCutoff {
		step = 1
	}
	return knob.Knob{Min: r.Min, Max: r.Max, Step: step}
}

func (te *TrackEditor) Layout(gtx C, l *Looper) D {
	t := te.track
	th := l.Theme
	inset := layout.UniformInset(unit.Dp(4))

	buttons := func(gtx C) D {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(func(gtx C) D {
				return te.load.Layout(gtx, th, l.LoadClip(t), icons.FileFolderOpen, "Load clip")
			}),
			layout.Rigid(func(gtx C) D { return te.play.Layout(gtx, th, t.Playing()) }),
			layout.Rigid(func(gtx C) D { return te.record.Layout(gtx, th, t.Recording()) }),
		)
	}

	wave := func(gtx C) D {
		w := Waveform(th, &te.waveform, t.Clip(), t.Region(), l.CommitThreshold, func(r looper.LoopRegion) {
			if err := t.SetLoopRegion(r.Start, r.End); err != nil {
				l.Session.Alerts().AddNamed("LoopRegion", err.Error(), session.Warning)
			}
		})
		return layout.Stack{}.Layout(gtx,
			layout.Stacked(w.Layout),
			layout.Expanded(func(gtx C) D {
				return layout.NW.Layout(gtx, func(gtx C) D {
					return inset.Layout(gtx, TextLabel(th, te.status(), mediumEmphasisTextColor).Layout)
				})
			}),
		)
	}

	knobs := func(gtx C) D {
		children := make([]layout.FlexChild, 0, looper.NumEffectKinds+2)
		params := t.Params()
		for k := range looper.NumEffectKinds {
			children = append(children, layout.Rigid(func(gtx C) D {
				w := Knob(th, &te.effects[k], effectKnob(k), params.Get(k), effectTitles[k], func(v float64) {
					if err := t.SetEffectParam(k, v); err != nil {
						l.Session.Alerts().AddNamed("Effect", err.Error(), session.Error)
					}
				})
				w.Knob.Sensitivity = l.KnobSensitivity
				return inset.Layout(gtx, w.Layout)
			}))
		}
		children = append(children,
			layout.Rigid(func(gtx C) D {
				w := Knob(th, &te.tempo, knob.Knob{Min: looper.MinBPM, Max: looper.MaxBPM, Step: 1}, t.DisplayTempo(), "BPM", t.SetTempo)
				w.Knob.Sensitivity = l.KnobSensitivity
				w.Disabled = t.Tempo().FollowMaster
				return inset.Layout(gtx, w.Layout)
			}),
			layout.Rigid(func(gtx C) D { return te.follow.Layout(gtx, th, t.FollowMaster()) }),
		)
		return layout.Flex{Alignment: layout.Middle}.Layout(gtx, children...)
	}

	r := op.Record(gtx.Ops)
	dims := inset.Layout(gtx, func(gtx C) D {
		return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(buttons),
			layout.Flexed(1, func(gtx C) D { return inset.Layout(gtx, wave) }),
			layout.Rigid(knobs),
		)
	})
	call := r.Stop()
	paint.FillShape(gtx.Ops, trackSurfaceColor, clip.Rect(image.Rectangle{Max: dims.Size}).Op())
	call.Add(gtx.Ops)
	return dims
}

func (te *TrackEditor) status() string {
	t := te.track
	switch {
	case t.IsRecording():
		return fmt.Sprintf("%d: recording", t.ID())
	case t.Loading():
		return fmt.Sprintf("%d: loading", t.ID())
	case t.Clip() == nil:
		return fmt.Sprintf("%d: empty", t.ID())
	}
	r := t.Region()
	return fmt.Sprintf("%d: %.2fs - %.2fs", t.ID(), r.Start, r.End)
}

// LoadClip returns an action that asks for an audio file and loads it into
// the track.
func (l *Looper) LoadClip(t *session.Track) session.Action {
	return session.MakeAction(&loadClip{l: l, t: t})
}

type loadClip struct {
	l *Looper
	t *session.Track
}

func (a *loadClip) Enabled() bool { return !a.l.Exploring && !a.t.IsRecording() }
func (a *loadClip) Do() {
	a.l.explorerChooseFile(func(r io.ReadCloser) {
		defer r.Close()
		data, err := io.ReadAll(r)
		if err != nil {
			a.l.Session.Alerts().AddNamed("LoadClip", err.Error(), session.Error)
			return
		}
		a.t.LoadClip(data)
	}, ".wav", ".mp3")
}
