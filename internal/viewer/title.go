package viewer

import (
	"strings"
	"time"
)

// updateTitle polls the loading flag once per progressInterval and pulses
// the title while the newest load runs. Outcomes that arrive between polls
// mark the title dirty so they show without waiting.
func (v *Viewer) updateTitle(now time.Time) {
	due := now.Sub(v.lastPoll) >= progressInterval
	if !due && !v.titleDirty {
		return
	}
	v.titleDirty = false
	if due {
		v.lastPoll = now
	}

	if v.coord.Slot().Loading() {
		if due {
			v.pulse++
		}
		v.setTitle(loadingTitle(v.title, v.pulse))
		return
	}

	v.pulse = 0
	v.setTitle(v.idleTitle())
}

func (v *Viewer) setTitle(title string) {
	if v.surface.Title() == title {
		return
	}
	v.surface.SetTitle(title)
}

// idleTitle names the active model and the most recent failure, if any.
func (v *Viewer) idleTitle() string {
	var b strings.Builder
	b.WriteString(v.title)
	if v.modelName != "" {
		b.WriteString(" - ")
		b.WriteString(v.modelName)
	}
	if err := v.coord.Slot().LastError(); err != nil {
		b.WriteString(" [load failed: ")
		b.WriteString(err.Error())
		b.WriteString("]")
	} else if v.textureErr != nil {
		b.WriteString(" [texture failed: ")
		b.WriteString(v.textureErr.Error())
		b.WriteString("]")
	}
	return b.String()
}

// loadingTitle cycles one to three dots after the loading label.
func loadingTitle(base string, pulse int) string {
	dots := 1
	if pulse > 0 {
		dots += (pulse - 1) % 3
	}
	return base + " - MODEL LOADING" + strings.Repeat(".", dots)
}
