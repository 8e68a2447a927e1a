package main

import (
	"time"

	"dscheirer.com/buttons/button"
)

type eventKind int

const (
	evRising eventKind = iota
	evFalling
	evPressed
	evDoublePressed
	evLongPressed
)

var eventKindNames = map[eventKind]string{
	evRising:        "rising",
	evFalling:       "falling",
	evPressed:       "pressed",
	evDoublePressed: "doublePressed",
	evLongPressed:   "longPressed",
}

func (k eventKind) String() string {
	if s, ok := eventKindNames[k]; ok {
		return s
	}
	return "unknown"
}

func (k eventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// what happened to one button on one tick
type buttonEvent struct {
	Name   string    `json:"name"`
	Kind   eventKind `json:"kind"`
	State  bool      `json:"state"`
	Toggle bool      `json:"toggle"`
	Flags  string    `json:"flags"`
	At     time.Time `json:"at"`
}

var gestureKinds = map[button.Event]eventKind{
	button.Single: evPressed,
	button.Double: evDoublePressed,
	button.Long:   evLongPressed,
}

// checkButtons ticks every button once and appends this tick's events to
// evs[:0]
func checkButtons(rt runtimeConfig, evs []buttonEvent) ([]buttonEvent, error) {
	evs = evs[:0]
	if err := rt.inputs.updateInputs(); err != nil {
		return evs, err
	}

	now := rt.clock.Now()
	set := rt.inputs.getButtons()
	for _, name := range set.names {
		btn := set.buttons[name]
		mk := func(k eventKind) buttonEvent {
			return buttonEvent{
				Name:   name,
				Kind:   k,
				State:  btn.State(),
				Toggle: btn.ToggleState(),
				Flags:  btn.FlagString(7),
				At:     now,
			}
		}

		if btn.RisingEdge() {
			evs = append(evs, mk(evRising))
		}
		if btn.FallingEdge() {
			evs = append(evs, mk(evFalling))
		}
		if k, ok := gestureKinds[btn.Event()]; ok {
			evs = append(evs, mk(k))
		}
	}
	return evs, nil
}

func startWatchButtons(rt runtimeConfig) {
	rt.logger = &ThreadLogger{name: "Buttons"}
	wg.Add(1)
	go runWatchButtons(rt)
}

func runWatchButtons(rt runtimeConfig) {
	defer wg.Done()
	defer func() {
		rt.logger.Println("exiting runWatchButtons")
	}()

	settings := rt.settings
	comms := rt.comms
	err := rt.inputs.initInputs(settings)
	if err != nil {
		rt.logger.Println(err.Error())
		comms.stop()
		return
	}

	// we now should defer the closeInputs call to when this function exits
	defer rt.inputs.closeInputs()

	err = rt.inputs.setupInputs(settings, rt)
	if err != nil {
		rt.logger.Println(err.Error())
		comms.stop()
		return
	}

	tick := settings.GetDuration(sTickTime)
	debug := settings.GetBool(sDebug)
	rt.logger.Printf("watching %d buttons every %v", len(rt.inputs.getButtons().names), tick)

	var evs []buttonEvent
	for {
		select {
		case <-comms.quit:
			rt.logger.Println("quit from runWatchButtons")
			return
		default:
		}

		evs, err = checkButtons(rt, evs)
		if err != nil {
			// we're done
			rt.logger.Printf("quit from runWatchButtons: %s", err)
			comms.stop()
			return
		}

		for _, ev := range evs {
			if debug {
				rt.logger.Printf("%s %s flags %s", ev.Name, ev.Kind, ev.Flags)
			}
			select {
			case comms.events <- ev:
			default:
				rt.logger.Printf("event queue full, dropped %s %s", ev.Name, ev.Kind)
			}
		}

		rt.clock.Sleep(tick)
	}
}
