package main

import (
	"fmt"

	"dscheirer.com/buttons/button"
	"dscheirer.com/buttons/shiftreg"
)

// buttonSet is every button one inputs implementation owns, in event order:
// direct buttons first, then the shift register chain by index
type buttonSet struct {
	names   []string
	buttons map[string]*button.Button
	direct  []*button.Button
	bus     *shiftreg.Bus
}

func newButtonSet() *buttonSet {
	return &buttonSet{buttons: make(map[string]*button.Button)}
}

func (bs *buttonSet) add(name string, btn *button.Button) {
	bs.names = append(bs.names, name)
	bs.buttons[name] = btn
	bs.direct = append(bs.direct, btn)
}

// chain buttons are named prefix0, prefix1, ...
func (bs *buttonSet) addBus(bus *shiftreg.Bus, prefix string) {
	bs.bus = bus
	for i := 0; i < bus.ButtonCount(); i++ {
		name := fmt.Sprintf("%s%d", prefix, i)
		bs.names = append(bs.names, name)
		bs.buttons[name] = bus.Get(i)
	}
}

func (bs *buttonSet) update() {
	for _, btn := range bs.direct {
		btn.Update()
	}
	if bs.bus != nil {
		bs.bus.Update()
	}
}

func (bs *buttonSet) get(name string) (*button.Button, bool) {
	btn, ok := bs.buttons[name]
	return btn, ok
}
