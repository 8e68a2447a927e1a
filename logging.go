package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// flogger is what the workers log through
type flogger interface {
	Printf(format string, v ...interface{})
	Println(v ...interface{})
}

// ThreadLogger tags every line with the worker's name
type ThreadLogger struct {
	name string
}

func (tl *ThreadLogger) Printf(format string, v ...interface{}) {
	log.Printf("[%s] %s", tl.name, fmt.Sprintf(format, v...))
}

func (tl *ThreadLogger) Println(v ...interface{}) {
	log.Printf("[%s] %s", tl.name, fmt.Sprint(v...))
}

// send the standard logger to a rotating file, and stderr too if console is set
func setupLogging(settings configSettings, console bool) (io.WriteCloser, error) {
	lj := &lumberjack.Logger{
		Filename:   settings.GetString(sLogFile),
		MaxSize:    settings.GetInt(sLogMaxSize),
		MaxBackups: settings.GetInt(sLogMaxBackups),
	}

	// lumberjack opens lazily, make sure we can write before switching over
	if _, err := lj.Write([]byte("--- log opened ---\n")); err != nil {
		return nil, err
	}

	if console {
		log.SetOutput(io.MultiWriter(os.Stderr, lj))
	} else {
		log.SetOutput(lj)
	}
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	return lj, nil
}
