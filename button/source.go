package button

import (
	"github.com/jonboulle/clockwork"
	"github.com/stianeikeland/go-rpio"
)

// Source yields one raw sample per call: true when the circuit is closed.
type Source interface {
	ReadRaw() bool
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func() bool

// ReadRaw calls f.
func (f SourceFunc) ReadRaw() bool { return f() }

// Pin is the part of rpio.Pin a PinSource needs.
type Pin interface {
	Read() rpio.State
}

// PinSource reads a GPIO pin. With pullup wiring the switch pulls the pin to
// ground, so rpio.Low means pressed; otherwise rpio.High means pressed.
type PinSource struct {
	pin    Pin
	pullup bool
}

// NewPinSource wraps an already configured pin.
func NewPinSource(pin Pin, pullup bool) *PinSource {
	return &PinSource{pin: pin, pullup: pullup}
}

// ReadRaw reports whether the switch is closed.
func (ps *PinSource) ReadRaw() bool {
	if ps.pullup {
		return ps.pin.Read() == rpio.Low
	}
	return ps.pin.Read() == rpio.High
}

// NewPin pairs a button with a direct pin source.
func NewPin(pin Pin, pullup bool, clock clockwork.Clock) *Button {
	return New(NewPinSource(pin, pullup), clock)
}

// OpenPin configures GPIO pinNum as an input with the pull resistor that
// matches the wiring and returns its button. rpio.Open must have been called.
func OpenPin(pinNum int, pullup bool, clock clockwork.Clock) *Button {
	pin := rpio.Pin(pinNum)
	pin.Input()
	if pullup {
		pin.PullUp() // GND => button press
	} else {
		pin.PullDown() // +V => button press
	}
	return NewPin(pin, pullup, clock)
}
