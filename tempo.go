package looper

const (
	MinBPM     = 60
	MaxBPM     = 200
	DefaultBPM = 120
)

// Tempo is the tempo setting of a track. When FollowMaster is set, the track
// shows the master tempo; otherwise BPM is the track's own tempo. Tempo is
// informational only and does not change the playback rate.
type Tempo struct {
	FollowMaster bool
	BPM          float64
}

func ClampBPM(bpm float64) float64 {
	if bpm != bpm {
		return DefaultBPM
	}
	return min(max(bpm, MinBPM), MaxBPM)
}

// Display returns the tempo to show for the track, given the current master
// tempo.
func (t Tempo) Display(master float64) float64 {
	if t.FollowMaster {
		return master
	}
	return t.BPM
}
