package button

import (
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stianeikeland/go-rpio"
	"gotest.tools/assert"
)

type fakePin struct {
	state rpio.State
}

func (fp *fakePin) Read() rpio.State { return fp.state }

func TestPinSourcePullup(t *testing.T) {
	pin := &fakePin{state: rpio.High}
	src := NewPinSource(pin, true)
	assert.Equal(t, src.ReadRaw(), false)

	pin.state = rpio.Low
	assert.Equal(t, src.ReadRaw(), true)
}

func TestPinSourcePulldown(t *testing.T) {
	pin := &fakePin{state: rpio.Low}
	src := NewPinSource(pin, false)
	assert.Equal(t, src.ReadRaw(), false)

	pin.state = rpio.High
	assert.Equal(t, src.ReadRaw(), true)
}

func TestNewPinFollowsWiring(t *testing.T) {
	clock := clockwork.NewFakeClock()
	pin := &fakePin{state: rpio.Low}
	btn := NewPin(pin, true, clock)

	for i := 0; i < 10; i++ {
		clock.Advance(tick)
		btn.Update()
	}
	assert.Equal(t, btn.State(), true)

	pin.state = rpio.High
	for i := 0; i < 10; i++ {
		clock.Advance(tick)
		btn.Update()
	}
	assert.Equal(t, btn.State(), false)
	assert.Equal(t, btn.ToggleState(), true)
}

func TestDebouncersAreIndependent(t *testing.T) {
	clock := clockwork.NewFakeClock()
	quiet := New(SourceFunc(func() bool { return true }), clock)
	noisy := false
	bouncy := New(SourceFunc(func() bool { noisy = !noisy; return noisy }), clock)

	for i := 0; i < 20; i++ {
		clock.Advance(tick)
		quiet.Update()
		bouncy.Update()
	}
	assert.Equal(t, quiet.State(), true)
	assert.Equal(t, bouncy.State(), false)
}
