package session

type (
	// Action describes a user action that can be performed on the session,
	// usually initiated by a button, a key binding or a MIDI message. Action
	// advertises whether it is enabled, so the UI can gray out buttons when
	// the underlying action is not allowed. The underlying Doer can
	// optionally implement the Enabler interface; if it does not, the action
	// is always allowed.
	Action struct {
		doer Doer
	}

	Doer interface {
		Do()
	}

	Enabler interface {
		Enabled() bool
	}

	// Bool is a toggle backed by session state.
	Bool struct {
		BoolData
	}

	BoolData interface {
		Value() bool
		Enabled() bool
		setValue(bool)
	}
)

func MakeAction(doer Doer) Action {
	return Action{doer: doer}
}

func (a Action) Do() {
	e, ok := a.doer.(Enabler)
	if ok && !e.Enabled() {
		return
	}
	if a.doer != nil {
		a.doer.Do()
	}
}

func (a Action) Enabled() bool {
	if a.doer == nil {
		return false
	}
	e, ok := a.doer.(Enabler)
	if !ok {
		return true
	}
	return e.Enabled()
}

func (v Bool) Toggle() {
	v.Set(!v.Value())
}

func (v Bool) Set(value bool) {
	if v.Enabled() && v.Value() != value {
		v.setValue(value)
	}
}

// Session actions

type (
	addTrack     Session
	exportAction struct {
		s    *Session
		save func(name string, data []byte) error
	}
	masterPlaying   Session
	masterRecording Session
	trackPlaying    Track
	trackRecording  Track
	trackFollow     Track
)

func (s *Session) AddTrackAction() Action { return MakeAction((*addTrack)(s)) }
func (m *addTrack) Enabled() bool         { return len(m.tracks) < m.maxTracks && !m.closed }
func (m *addTrack) Do() {
	if _, err := (*Session)(m).AddTrack(); err != nil {
		m.alerts.AddNamed("AddTrack", err.Error(), Warning)
	}
}

// ExportAction exports the master recording and hands the artifact to save.
func (s *Session) ExportAction(save func(name string, data []byte) error) Action {
	return MakeAction(&exportAction{s: s, save: save})
}

func (e *exportAction) Enabled() bool { return e.s.master.HasRecording() }
func (e *exportAction) Do() {
	art, err := e.s.master.Export(e.s.now())
	if err != nil {
		e.s.alerts.AddNamed("Export", err.Error(), Error)
		return
	}
	if err := e.save(art.Name, art.Data); err != nil {
		e.s.alerts.AddNamed("Export", err.Error(), Error)
		return
	}
	e.s.alerts.AddNamed("Export", "Exported "+art.Name, Info)
}

func (s *Session) Playing() Bool         { return Bool{(*masterPlaying)(s)} }
func (m *masterPlaying) Value() bool     { return m.master.Playing() }
func (m *masterPlaying) Enabled() bool   { return !m.closed }
func (m *masterPlaying) setValue(v bool) { m.master.setPlaying(v) }

func (s *Session) Recording() Bool       { return Bool{(*masterRecording)(s)} }
func (m *masterRecording) Value() bool   { return m.master.Recording() }
func (m *masterRecording) Enabled() bool { return !m.closed }
func (m *masterRecording) setValue(v bool) {
	if !v {
		m.master.StopRecording()
		return
	}
	if err := m.master.StartRecording(); err != nil {
		m.alerts.AddNamed("MasterRecording", err.Error(), Error)
	}
}

// Track actions

func (t *Track) Playing() Bool        { return Bool{(*trackPlaying)(t)} }
func (t *trackPlaying) Value() bool   { return (*Track)(t).State() == TrackPlaying }
func (t *trackPlaying) Enabled() bool { return t.clip != nil && !t.recording }
func (t *trackPlaying) setValue(v bool) {
	if !v {
		(*Track)(t).Stop()
		return
	}
	if err := (*Track)(t).Play(); err != nil {
		t.s.alerts.AddNamed("TrackPlay", err.Error(), Error)
	}
}

func (t *Track) Recording() Bool        { return Bool{(*trackRecording)(t)} }
func (t *trackRecording) Value() bool   { return t.recording || t.opening }
func (t *trackRecording) Enabled() bool { return t.s.captureErr == nil }
func (t *trackRecording) setValue(v bool) {
	if v {
		(*Track)(t).Record()
	} else {
		(*Track)(t).StopRecord()
	}
}

func (t *Track) FollowMaster() Bool    { return Bool{(*trackFollow)(t)} }
func (t *trackFollow) Value() bool     { return t.tempo.FollowMaster }
func (t *trackFollow) Enabled() bool   { return true }
func (t *trackFollow) setValue(v bool) { (*Track)(t).SetFollowMaster(v) }
