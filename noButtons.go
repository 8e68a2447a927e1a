package main

import (
	"github.com/stianeikeland/go-rpio"

	"dscheirer.com/buttons/button"
	"dscheirer.com/buttons/shiftreg"
)

// noButtons is hardware-free: pin levels are set by hand
type noButtons struct {
	set   *buttonSet
	pins  map[string]*noPin
	chain *noChain
}

type noPin struct {
	state  rpio.State
	pullup bool
}

func (np *noPin) Read() rpio.State { return np.state }

func (np *noPin) release() {
	if np.pullup {
		np.state = rpio.High
	} else {
		np.state = rpio.Low
	}
}

// noChain stands in for a 74HC165 chain
type noChain struct {
	closed  []bool // by button index
	reg     []bool // serial order
	pos     int
	pullup  bool
	loadLow bool
}

type noChainPin struct {
	chain *noChain
	data  bool
	load  bool
}

func (p *noChainPin) Read() rpio.State {
	c := p.chain
	if !p.data || c.pos >= len(c.reg) || c.reg[c.pos] != c.pullup {
		return rpio.High
	}
	return rpio.Low
}

func (p *noChainPin) High() {
	c := p.chain
	switch {
	case p.load && c.loadLow:
		c.loadLow = false
		c.reg = make([]bool, len(c.closed))
		for k := range c.reg {
			c.reg[k] = c.closed[(k/8)*8+7-k%8]
		}
		c.pos = 0
	case !p.load && !p.data:
		c.pos++
	}
}

func (p *noChainPin) Low() {
	if p.load {
		p.chain.loadLow = true
	}
}

func (nb *noButtons) getButtons() *buttonSet {
	return nb.set
}

func (nb *noButtons) initInputs(settings configSettings) error {
	return nil
}

func (nb *noButtons) setupInputs(settings configSettings, rt runtimeConfig) error {
	nb.set = newButtonSet()
	nb.pins = make(map[string]*noPin)

	for _, name := range settings.GetAllButtonNames() {
		bm := settings.GetButtonMap(name)
		pin := &noPin{pullup: bm.pullup}
		pin.release()
		nb.pins[name] = pin
		nb.set.add(name, button.NewPin(pin, bm.pullup, rt.clock))
	}

	bm := settings.GetBusMap(sShiftRegister)
	if bm.chips > 0 {
		nb.chain = &noChain{closed: make([]bool, bm.chips*8), pullup: bm.pullup}
		bus, err := shiftreg.New(shiftreg.Config{
			Data:   &noChainPin{chain: nb.chain, data: true},
			Load:   &noChainPin{chain: nb.chain, load: true},
			Clock:  &noChainPin{chain: nb.chain},
			Chips:  bm.chips,
			Pullup: bm.pullup,
		}, rt.clock)
		if err != nil {
			return err
		}
		nb.set.addBus(bus, bm.prefix)
	}
	return nil
}

func (nb *noButtons) updateInputs() error {
	nb.set.update()
	return nil
}

func (nb *noButtons) closeInputs() {
}

func (nb *noButtons) readStates() map[string]rpio.State {
	ret := make(map[string]rpio.State)
	for k, v := range nb.pins {
		ret[k] = v.state
	}
	return ret
}

func (nb *noButtons) setStates(btns map[string]rpio.State) {
	for k, v := range btns {
		if pin, ok := nb.pins[k]; ok {
			pin.state = v
		}
	}
}

// press or release a chain input
func (nb *noButtons) setChain(index int, closed bool) {
	if nb.chain != nil && index >= 0 && index < len(nb.chain.closed) {
		nb.chain.closed[index] = closed
	}
}

func (nb *noButtons) clear() {
	for _, pin := range nb.pins {
		pin.release()
	}
	if nb.chain != nil {
		for i := range nb.chain.closed {
			nb.chain.closed[i] = false
		}
	}
}
