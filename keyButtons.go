package main

import (
	"sync"

	// keyboard for sim mode
	"github.com/nsf/termbox-go"
	"github.com/pkg/errors"

	"dscheirer.com/buttons/button"
)

var errKeyboardExit = errors.New("exit requested from keyboard")

// keyButtons simulates buttons with the keyboard: each key press flips its
// button between down and up
type keyButtons struct {
	set *buttonSet

	mu   sync.Mutex
	down map[rune]bool
	exit bool
}

func (kb *keyButtons) getButtons() *buttonSet {
	return kb.set
}

func (kb *keyButtons) initInputs(settings configSettings) error {
	if err := termbox.Init(); err != nil {
		return errors.Wrap(err, "termbox")
	}

	termbox.SetInputMode(termbox.InputEsc)
	termbox.Flush()

	// closed in closeInputs
	return nil
}

func (kb *keyButtons) setupInputs(settings configSettings, rt runtimeConfig) error {
	kb.set = newButtonSet()
	kb.down = make(map[rune]bool)

	for _, name := range settings.GetAllButtonNames() {
		bm := settings.GetButtonMap(name)
		if bm.key == "" {
			rt.logger.Printf("button %s has no key, skipping", name)
			continue
		}
		k := keyRune(bm.key)
		kb.down[k] = false
		kb.set.add(name, button.New(kb.keySource(k), rt.clock))
		rt.logger.Printf("button %s on key '%c'", name, k)
	}

	if settings.GetBusMap(sShiftRegister).chips > 0 {
		rt.logger.Println("shift register is not simulated on the keyboard")
	}

	go kb.pollKeys()
	return nil
}

func (kb *keyButtons) keySource(k rune) button.Source {
	return button.SourceFunc(func() bool {
		kb.mu.Lock()
		defer kb.mu.Unlock()
		return kb.down[k]
	})
}

func (kb *keyButtons) pollKeys() {
	for {
		ev := termbox.PollEvent()
		switch ev.Type {
		case termbox.EventKey:
			// add an exit key
			if ev.Key == termbox.KeyCtrlC {
				kb.mu.Lock()
				kb.exit = true
				kb.mu.Unlock()
				return
			}
			kb.press(ev.Ch)
		case termbox.EventInterrupt, termbox.EventError:
			return
		}
	}
}

// first character of a configured key
func keyRune(key string) rune {
	for _, r := range key {
		return r
	}
	return 0
}

// unknown keys are ignored
func (kb *keyButtons) press(k rune) {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	if cur, ok := kb.down[k]; ok {
		kb.down[k] = !cur
	}
}

func (kb *keyButtons) updateInputs() error {
	kb.mu.Lock()
	exit := kb.exit
	kb.mu.Unlock()
	if exit {
		return errKeyboardExit
	}

	kb.set.update()
	return nil
}

func (kb *keyButtons) closeInputs() {
	termbox.Interrupt()
	termbox.Close()
}
