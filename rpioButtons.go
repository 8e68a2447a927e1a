package main

import (
	"github.com/pkg/errors"
	// gpio lib
	"github.com/stianeikeland/go-rpio"

	"dscheirer.com/buttons/button"
	"dscheirer.com/buttons/shiftreg"
)

type rpioButtons struct {
	set *buttonSet
}

func (rb *rpioButtons) getButtons() *buttonSet {
	return rb.set
}

func (rb *rpioButtons) initInputs(settings configSettings) error {
	// map gpio memory
	if err := rpio.Open(); err != nil {
		return errors.Wrap(err, "opening gpio")
	}
	return nil
}

func (rb *rpioButtons) setupInputs(settings configSettings, rt runtimeConfig) error {
	rb.set = newButtonSet()

	for _, name := range settings.GetAllButtonNames() {
		bm := settings.GetButtonMap(name)
		if bm.pinNum < 0 {
			rt.logger.Printf("button %s has no pin, skipping", name)
			continue
		}
		// picking GPIO 4 results in collisions with I2C operations
		rb.set.add(name, button.OpenPin(bm.pinNum, bm.pullup, rt.clock))
		rt.logger.Printf("button %s on GPIO %d (pullup %v)", name, bm.pinNum, bm.pullup)
	}

	bm := settings.GetBusMap(sShiftRegister)
	if bm.chips > 0 {
		bus, err := shiftreg.Open(bm.data, bm.load, bm.clock, bm.chips, bm.pullup, rt.clock)
		if err != nil {
			return errors.Wrap(err, "shift register")
		}
		rb.set.addBus(bus, bm.prefix)
		rt.logger.Printf("shift register: %d chips, data %d, load %d, clock %d", bm.chips, bm.data, bm.load, bm.clock)
	}

	return nil
}

func (rb *rpioButtons) updateInputs() error {
	rb.set.update()
	return nil
}

func (rb *rpioButtons) closeInputs() {
	// unmap gpio memory, nothing useful to do with an error here
	_ = rpio.Close()
}
