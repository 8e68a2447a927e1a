package main

import (
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

var wg sync.WaitGroup

// buttons -config={config file}

func watchSignals(rt runtimeConfig) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(c)

	select {
	case s := <-c:
		rt.logger.Printf("got %v, shutting down", s)
		rt.comms.stop()
	case <-rt.comms.quit:
	}
}

func main() {
	// read config information
	settings := initSettings(parseFlags())

	// the keyboard simulator owns the terminal
	console := settings.GetString(sInputs) != inputsKeyboard
	logf, err := setupLogging(settings, console)
	if err != nil {
		log.Fatalf("could not open log file: %s", err)
	}
	defer logf.Close()

	// dump them (debugging)
	log.Println(">>> Settings <<<")
	settings.Dump()
	log.Println(">>> Settings <<<")

	rt := initRuntime(settings)
	go watchSignals(rt)

	// workers: button watcher, status api
	startWatchButtons(rt)
	startStatusService(rt)

	wg.Wait()
}
