package main

// a source of buttons that gets ticked by runWatchButtons
type inputs interface {
	initInputs(settings configSettings) error
	setupInputs(settings configSettings, rt runtimeConfig) error
	// one tick for every button; an error ends the watcher
	updateInputs() error
	getButtons() *buttonSet
	closeInputs()
}

type statusService interface {
	launch(handler *apiHandler, addr string)
	stop()
}
