// utility functions
package main

import (
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const eventQueueLen = 64

type commChannels struct {
	quit     chan struct{}
	quitOnce *sync.Once
	events   chan buttonEvent
}

type runtimeConfig struct {
	comms    commChannels
	clock    clockwork.Clock
	settings configSettings
	logger   flogger
	inputs   inputs
	status   statusService
	session  string // changes every run, reported by the status api
}

func initCommChannels() commChannels {
	return commChannels{
		quit:     make(chan struct{}),
		quitOnce: &sync.Once{},
		events:   make(chan buttonEvent, eventQueueLen),
	}
}

// stop closes quit; safe to call from any worker, any number of times
func (c commChannels) stop() {
	c.quitOnce.Do(func() { close(c.quit) })
}

func newInputs(kind string) inputs {
	switch kind {
	case inputsKeyboard:
		return &keyButtons{}
	case inputsNone:
		return &noButtons{}
	default:
		return &rpioButtons{}
	}
}

func initRuntime(settings configSettings) runtimeConfig {
	return runtimeConfig{
		comms:    initCommChannels(),
		clock:    clockwork.NewRealClock(),
		settings: settings,
		logger:   &ThreadLogger{name: "Main"},
		inputs:   newInputs(settings.GetString(sInputs)),
		status:   &httpStatusService{},
		session:  uuid.New().String(),
	}
}
