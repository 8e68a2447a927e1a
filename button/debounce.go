package button

import "time"

// debouncer commits a raw level once it has held for longer than window.
// Every raw transition restarts the settle timer.
type debouncer struct {
	window    time.Duration
	lastRaw   bool
	changedAt time.Time
	level     bool
}

func (d *debouncer) sample(raw bool, now time.Time) bool {
	if raw != d.lastRaw {
		d.changedAt = now
	}
	d.lastRaw = raw

	if now.Sub(d.changedAt) > d.window {
		d.level = raw
	}
	return d.level
}
