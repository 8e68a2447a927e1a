// Package button turns a raw, bouncy switch signal into a debounced level and
// one-tick gesture events (single, double and long press).
//
// A Button is updated once per loop iteration. After Update the accessors
// describe that tick only; gesture events are cleared at the start of the next
// Update, so a caller that polls once per tick sees each event exactly once.
package button

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// gesture timing, fixed at build time
const (
	Debounce       = 50 * time.Millisecond
	DoublePressGap = 250 * time.Millisecond
	LongPress      = 200 * time.Millisecond
)

// Event is the gesture reported for one tick.
type Event uint8

const (
	None   Event = iota // nothing happened this tick
	Single              // click, reported once the double-press gap expires
	Double              // second press inside the gap
	Long                // held past LongPress
)

func (e Event) String() string {
	switch e {
	case Single:
		return "single"
	case Double:
		return "double"
	case Long:
		return "long"
	default:
		return "none"
	}
}

// click classification phases
type phase uint8

const (
	phaseIdle phase = iota
	phaseDown
	phaseWaitDouble
	phaseLongNotify
)

// Button owns the debounce filter and gesture state for one input.
type Button struct {
	src   Source
	clock clockwork.Clock

	filter debouncer

	state    bool // debounced level
	preState bool // debounced level on the previous tick
	toggle   bool
	rising   bool
	falling  bool
	event    Event

	phase   phase
	phaseAt time.Time // last timer reset
}

// New binds a button to its source. Time is read from clock on every Update.
func New(src Source, clock clockwork.Clock) *Button {
	now := clock.Now()
	return &Button{
		src:     src,
		clock:   clock,
		filter:  debouncer{window: Debounce, changedAt: now},
		phaseAt: now,
	}
}

// Update samples the source and advances the button by one tick. Call it
// once per tick; more calls in the same tick corrupt the debounce timer.
func (b *Button) Update() {
	b.Feed(b.src.ReadRaw())
}

// Feed advances the button by one tick using raw as the sample. Update calls
// it with the source reading; aggregators that already hold the sample can
// call it directly.
func (b *Button) Feed(raw bool) {
	now := b.clock.Now()
	elapsed := now.Sub(b.phaseAt)

	b.event = None

	prev := b.state
	b.state = b.filter.sample(raw, now)
	b.preState = prev
	b.rising = b.state && !prev
	b.falling = !b.state && prev
	if b.rising {
		b.toggle = !b.toggle
	}

	// gestures follow the raw sample, not the filtered level
	switch b.phase {
	case phaseIdle:
		if raw {
			b.enter(phaseDown, now)
		}

	case phaseDown:
		if raw && elapsed > LongPress {
			b.event = Long
			b.phase = phaseLongNotify
		} else if !raw && elapsed > Debounce {
			b.enter(phaseWaitDouble, now)
		}

	case phaseWaitDouble:
		// a second press wins over the timeout on the same tick
		if raw {
			if elapsed > Debounce {
				b.event = Double
				b.phase = phaseLongNotify
			}
		} else if elapsed > DoublePressGap {
			b.event = Single
			b.phase = phaseIdle
		}

	case phaseLongNotify:
		if !raw && elapsed > Debounce {
			b.phase = phaseIdle
		}
	}
}

// enter switches phase and restarts the gesture timer
func (b *Button) enter(p phase, now time.Time) {
	b.phase = p
	b.phaseAt = now
}

// State is the debounced level, true while the switch is closed.
func (b *Button) State() bool { return b.state }

// PreState is the debounced level from the tick before.
func (b *Button) PreState() bool { return b.preState }

// ToggleState flips on every confirmed press.
func (b *Button) ToggleState() bool { return b.toggle }

// RisingEdge is true on the tick the debounced level goes high.
func (b *Button) RisingEdge() bool { return b.rising }

// FallingEdge is true on the tick the debounced level goes low.
func (b *Button) FallingEdge() bool { return b.falling }

// Event returns the gesture for this tick, None if there was none.
func (b *Button) Event() Event { return b.event }

// Pressed is true for the one tick a single click is recognized.
func (b *Button) Pressed() bool { return b.event == Single }

// DoublePressed is true for the one tick a double click is recognized.
func (b *Button) DoublePressed() bool { return b.event == Double }

// LongPressed is true for the one tick a long hold is recognized.
func (b *Button) LongPressed() bool { return b.event == Long }
