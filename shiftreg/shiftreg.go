// Package shiftreg reads buttons wired to a chain of 74HC165
// parallel-in/serial-out shift registers.
//
// Wiring (74HC165):
//   - pin 1 (PL, load)  -> load GPIO
//   - pin 2 (CP, clock) -> clock GPIO
//   - pin 9 (Q7, data)  -> data GPIO
//
// Further chips are chained by connecting Q7 of the next chip to DS (pin 10)
// of the previous one. Chip 0 is the chip wired to the data GPIO and owns
// button indexes 0-7, chip 1 owns 8-15 and so on.
package shiftreg

import (
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"github.com/stianeikeland/go-rpio"

	"dscheirer.com/buttons/button"
)

const bitsPerChip = 8

var (
	ErrChipCount  = errors.New("shiftreg: chip count must be positive")
	ErrNoPin      = errors.New("shiftreg: data, load and clock pins are required")
	ErrIndexRange = errors.New("shiftreg: button index out of range")
)

// Pin is the part of rpio.Pin the bus drives.
type Pin interface {
	Read() rpio.State
	High()
	Low()
}

// Config describes one chain.
type Config struct {
	Data  Pin
	Load  Pin
	Clock Pin
	Chips int
	// Pullup means a closed switch reads rpio.Low.
	Pullup bool
}

// Bus owns the capture buffer and one button per bit.
type Bus struct {
	data, load, clk Pin
	chips           int
	pullup          bool

	bits    []bool
	buttons []*button.Button
	clock   clockwork.Clock
}

// bitSource feeds a button from its slot in the capture buffer
type bitSource struct {
	bus   *Bus
	index int
}

func (bs bitSource) ReadRaw() bool { return bs.bus.bits[bs.index] }

// New builds a bus for cfg.Chips chips. The pins must already be configured.
func New(cfg Config, clock clockwork.Clock) (*Bus, error) {
	if cfg.Chips <= 0 {
		return nil, errors.Wrapf(ErrChipCount, "got %d", cfg.Chips)
	}
	if cfg.Data == nil || cfg.Load == nil || cfg.Clock == nil {
		return nil, ErrNoPin
	}

	n := cfg.Chips * bitsPerChip
	bus := &Bus{
		data:    cfg.Data,
		load:    cfg.Load,
		clk:     cfg.Clock,
		chips:   cfg.Chips,
		pullup:  cfg.Pullup,
		bits:    make([]bool, n),
		buttons: make([]*button.Button, n),
		clock:   clock,
	}
	for i := range bus.buttons {
		bus.buttons[i] = button.New(bitSource{bus: bus, index: i}, clock)
	}

	// idle levels: load high (shift mode), clock low
	bus.load.High()
	bus.clk.Low()
	return bus, nil
}

// Open configures GPIO pins for a chain and builds its bus. rpio.Open must
// have been called.
func Open(dataPin, loadPin, clockPin, chips int, pullup bool, clock clockwork.Clock) (*Bus, error) {
	data := rpio.Pin(dataPin)
	load := rpio.Pin(loadPin)
	clk := rpio.Pin(clockPin)

	data.Input()
	load.Output()
	clk.Output()

	return New(Config{Data: data, Load: load, Clock: clk, Chips: chips, Pullup: pullup}, clock)
}

// Update latches every input, shifts the whole chain into the capture buffer
// and then advances each button in index order.
func (b *Bus) Update() {
	b.capture()
	for _, btn := range b.buttons {
		btn.Update()
	}
}

// capture runs one latch-and-shift round. Q7 presents pin 7 first, so each
// chip arrives most significant bit first.
func (b *Bus) capture() {
	b.load.Low()
	b.load.High()

	for k := range b.bits {
		chip := k / bitsPerChip
		pin := bitsPerChip - 1 - k%bitsPerChip
		b.bits[chip*bitsPerChip+pin] = b.closed(b.data.Read())

		b.clk.High()
		b.clk.Low()
	}
}

func (b *Bus) closed(s rpio.State) bool {
	if b.pullup {
		return s == rpio.Low
	}
	return s == rpio.High
}

// released never reads closed
var released = button.SourceFunc(func() bool { return false })

// Get returns the button at index i. An index outside the chain returns a new
// idle button that belongs to no bit; feeding it changes only that copy.
func (b *Bus) Get(i int) *button.Button {
	if i < 0 || i >= len(b.buttons) {
		return button.New(released, b.clock)
	}
	return b.buttons[i]
}

// Lookup is Get with an error for indexes outside the chain.
func (b *Bus) Lookup(i int) (*button.Button, error) {
	if i < 0 || i >= len(b.buttons) {
		return nil, errors.Wrapf(ErrIndexRange, "index %d, %d buttons", i, len(b.buttons))
	}
	return b.buttons[i], nil
}

// ButtonCount is 8 per chip.
func (b *Bus) ButtonCount() int { return len(b.buttons) }

// Chips returns the chain length.
func (b *Bus) Chips() int { return b.chips }
