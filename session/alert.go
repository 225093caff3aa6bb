package session

import "time"

type (
	// Alert is a user visible diagnostic. Alerts with the same non-empty Name
	// replace each other, so a repeating failure shows only once.
	Alert struct {
		Name      string
		Priority  AlertPriority
		Message   string
		Duration  time.Duration
		FadeLevel float64
	}

	AlertPriority int

	// Alerts is the list of currently shown alerts, newest last.
	Alerts struct {
		alerts []Alert
	}
)

const (
	None AlertPriority = iota
	Info
	Warning
	Error
)

const (
	defaultAlertDuration = 3 * time.Second
	alertFadeTime        = 150 * time.Millisecond
)

func (p AlertPriority) String() string {
	switch p {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return "none"
}

func (a *Alerts) Add(message string, priority AlertPriority) {
	a.AddAlert(Alert{Priority: priority, Message: message, Duration: defaultAlertDuration})
}

func (a *Alerts) AddNamed(name, message string, priority AlertPriority) {
	a.AddAlert(Alert{Name: name, Priority: priority, Message: message, Duration: defaultAlertDuration})
}

func (a *Alerts) AddAlert(alert Alert) {
	if alert.Duration <= 0 {
		alert.Duration = defaultAlertDuration
	}
	if alert.Name != "" {
		for i := range a.alerts {
			if a.alerts[i].Name == alert.Name {
				alert.FadeLevel = a.alerts[i].FadeLevel
				a.alerts[i] = alert
				return
			}
		}
	}
	a.alerts = append(a.alerts, alert)
}

// Update advances the alert timers by d. Alerts fade in while their
// duration lasts and are removed once they have faded out. It returns true
// if any alert is still visible, i.e. the caller should keep animating.
func (a *Alerts) Update(d time.Duration) (animating bool) {
	step := float64(d) / float64(alertFadeTime)
	n := 0
	for _, alert := range a.alerts {
		alert.Duration -= d
		if alert.Duration > 0 {
			alert.FadeLevel = min(alert.FadeLevel+step, 1)
		} else {
			alert.FadeLevel -= step
			if alert.FadeLevel <= 0 {
				continue
			}
		}
		a.alerts[n] = alert
		n++
	}
	clear(a.alerts[n:])
	a.alerts = a.alerts[:n]
	return n > 0
}

func (a *Alerts) Iterate(yield func(index int, alert Alert) bool) {
	for i, alert := range a.alerts {
		if !yield(i, alert) {
			return
		}
	}
}

func (a *Alerts) Len() int { return len(a.alerts) }
