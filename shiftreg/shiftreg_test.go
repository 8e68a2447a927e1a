package shiftreg

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"github.com/stianeikeland/go-rpio"
	"gotest.tools/assert"
)

const tick = 10 * time.Millisecond

// fakeChain behaves like cascaded 74HC165s: a load pulse copies the parallel
// inputs into the register, each clock pulse moves the next bit onto Q7.
type fakeChain struct {
	inputs  []rpio.State // by button index
	reg     []rpio.State // serial order
	pos     int
	loadLow bool
	latches int
	clocks  int
}

func newFakeChain(chips int) *fakeChain {
	fc := &fakeChain{inputs: make([]rpio.State, chips*8)}
	for i := range fc.inputs {
		fc.inputs[i] = rpio.High
	}
	return fc
}

func (fc *fakeChain) latch() {
	fc.latches++
	fc.reg = make([]rpio.State, len(fc.inputs))
	for k := range fc.reg {
		chip, pin := k/8, 7-k%8
		fc.reg[k] = fc.inputs[chip*8+pin]
	}
	fc.pos = 0
}

type chainPin struct {
	fc   *fakeChain
	role string
}

func (cp *chainPin) Read() rpio.State {
	if cp.role != "data" || cp.fc.pos >= len(cp.fc.reg) {
		return rpio.High
	}
	return cp.fc.reg[cp.fc.pos]
}

func (cp *chainPin) High() {
	switch cp.role {
	case "load":
		if cp.fc.loadLow {
			cp.fc.latch()
		}
		cp.fc.loadLow = false
	case "clock":
		cp.fc.clocks++
		cp.fc.pos++
	}
}

func (cp *chainPin) Low() {
	if cp.role == "load" {
		cp.fc.loadLow = true
	}
}

func newTestBus(t *testing.T, chips int) (*Bus, *fakeChain, clockwork.FakeClock) {
	fc := newFakeChain(chips)
	clock := clockwork.NewFakeClock()
	bus, err := New(Config{
		Data:   &chainPin{fc: fc, role: "data"},
		Load:   &chainPin{fc: fc, role: "load"},
		Clock:  &chainPin{fc: fc, role: "clock"},
		Chips:  chips,
		Pullup: true,
	}, clock)
	assert.NilError(t, err)
	return bus, fc, clock
}

func tickBus(bus *Bus, clock clockwork.FakeClock, n int) {
	for i := 0; i < n; i++ {
		clock.Advance(tick)
		bus.Update()
	}
}

func TestNewRejectsBadChipCount(t *testing.T) {
	fc := newFakeChain(1)
	pin := &chainPin{fc: fc}
	for _, chips := range []int{0, -1} {
		_, err := New(Config{Data: pin, Load: pin, Clock: pin, Chips: chips}, clockwork.NewFakeClock())
		assert.Equal(t, errors.Cause(err), ErrChipCount)
	}

	_, err := New(Config{Chips: 1}, clockwork.NewFakeClock())
	assert.Equal(t, err, ErrNoPin)
}

func TestButtonCount(t *testing.T) {
	bus, _, _ := newTestBus(t, 3)
	assert.Equal(t, bus.ButtonCount(), 24)
	assert.Equal(t, bus.Chips(), 3)
}

func TestOneLatchPerUpdate(t *testing.T) {
	bus, fc, clock := newTestBus(t, 2)
	tickBus(bus, clock, 5)
	assert.Equal(t, fc.latches, 5)
	assert.Equal(t, fc.clocks, 5*16)
}

func TestBitMapping(t *testing.T) {
	bus, fc, clock := newTestBus(t, 2)
	fc.inputs[3] = rpio.Low
	fc.inputs[12] = rpio.Low

	tickBus(bus, clock, 10)
	for i := 0; i < bus.ButtonCount(); i++ {
		want := i == 3 || i == 12
		assert.Equal(t, bus.Get(i).State(), want, "button %d", i)
	}
}

func TestSimultaneousRisingEdges(t *testing.T) {
	bus, fc, clock := newTestBus(t, 2)
	tickBus(bus, clock, 10)

	fc.inputs[0] = rpio.Low
	fc.inputs[15] = rpio.Low
	for i := 0; i < 20; i++ {
		tickBus(bus, clock, 1)
		first, last := bus.Get(0).RisingEdge(), bus.Get(15).RisingEdge()
		assert.Equal(t, first, last, "tick %d", i)
		if first {
			for j := 1; j < 15; j++ {
				assert.Equal(t, bus.Get(j).RisingEdge(), false)
			}
			return
		}
	}
	assert.Assert(t, false, "no rising edge seen")
}

func TestIndependentGestures(t *testing.T) {
	bus, fc, clock := newTestBus(t, 2)

	// long hold on 15, click on 0
	fc.inputs[15] = rpio.Low
	fc.inputs[0] = rpio.Low
	tickBus(bus, clock, 10)
	fc.inputs[0] = rpio.High

	var clicks, holds int
	for i := 0; i < 60; i++ {
		tickBus(bus, clock, 1)
		if bus.Get(0).Pressed() {
			clicks++
		}
		if bus.Get(15).LongPressed() {
			holds++
		}
		assert.Equal(t, bus.Get(0).LongPressed(), false)
		assert.Equal(t, bus.Get(15).Pressed(), false)
	}
	assert.Equal(t, clicks, 1)
	assert.Equal(t, holds, 1)
}

func TestOutOfRangeIsIdle(t *testing.T) {
	bus, fc, clock := newTestBus(t, 2)
	for i := range fc.inputs {
		fc.inputs[i] = rpio.Low
	}
	tickBus(bus, clock, 50)

	for _, i := range []int{-1, 16, 100} {
		btn := bus.Get(i)
		assert.Assert(t, btn != nil)
		assert.Equal(t, btn.State(), false)
		assert.Equal(t, btn.Event().String(), "none")

		_, err := bus.Lookup(i)
		assert.Equal(t, errors.Cause(err), ErrIndexRange)
	}

	btn, err := bus.Lookup(15)
	assert.NilError(t, err)
	assert.Equal(t, btn.State(), true)
}

func TestOutOfRangeFeedDoesNotLeak(t *testing.T) {
	bus, _, clock := newTestBus(t, 1)

	stray := bus.Get(99)
	for i := 0; i < 20; i++ {
		clock.Advance(10 * time.Millisecond)
		stray.Feed(true)
	}
	assert.Equal(t, stray.State(), true)

	for _, i := range []int{99, -1, 8} {
		btn := bus.Get(i)
		assert.Assert(t, btn != stray)
		assert.Equal(t, btn.State(), false)
		assert.Equal(t, btn.ToggleState(), false)
	}
	assert.Equal(t, bus.Get(0).State(), false)
}
