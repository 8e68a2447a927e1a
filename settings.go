package main

import (
	"flag"
	"io/ioutil"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"
)

// setting keys
const (
	sLogFile       = "logFile"
	sLogMaxSize    = "logMaxSize"
	sLogMaxBackups = "logMaxBackups"
	sTickTime      = "tickTime"
	sStatusAddr    = "statusAddr"
	sStatusUser    = "statusUser"
	sInputs        = "inputs"
	sDebug         = "debug_dump"
	sButtons       = "buttons"
	sShiftRegister = "shiftRegister"
)

// values for sInputs
const (
	inputsRpio     = "rpio"
	inputsKeyboard = "keyboard"
	inputsNone     = "none"
)

// a directly wired button
type buttonMap struct {
	pinNum int
	pullup bool
	key    string // keyboard simulation
}

// a 74HC165 chain, chips == 0 means no chain
type busMap struct {
	data   int
	load   int
	clock  int
	chips  int
	pullup bool
	prefix string
}

// keep settings generic, type-convert on the fly
type configSettings struct {
	settings map[string]interface{}
}

func defaultSettings() configSettings {
	s := make(map[string]interface{})

	// setting the type here makes the conversion "automatic" later
	s[sLogFile] = "/var/log/buttons.log"
	s[sLogMaxSize] = 10 // MB
	s[sLogMaxBackups] = 3
	s[sTickTime], _ = time.ParseDuration("5ms")
	s[sStatusAddr] = ":8080"
	s[sStatusUser] = "buttons"
	s[sInputs] = inputsRpio
	s[sDebug] = false
	s[sShiftRegister] = busMap{data: 4, load: 7, clock: 6, chips: 0, pullup: true, prefix: "sr"}

	s["main"] = buttonMap{pinNum: 25, pullup: true, key: "m"}

	return configSettings{settings: s}
}

func (s *configSettings) settingsFromJSON(data []byte) error {
	tmp := defaultSettings()
	for k, initVal := range tmp.settings {
		// ignore missing fields
		if _, _, _, err := jsonparser.Get(data, k); err != nil {
			continue
		}

		var err error
		switch initVal.(type) {
		case int:
			var v int64
			v, err = jsonparser.GetInt(data, k)
			if err == nil {
				s.settings[k] = int(v)
			}
		case bool:
			var bVal bool
			bVal, err = jsonparser.GetBoolean(data, k)
			if err != nil {
				// try "true" and "false"
				str, _ := jsonparser.GetString(data, k)
				switch strings.ToLower(str) {
				case "true":
					bVal, err = true, nil
				case "false":
					bVal, err = false, nil
				}
			}
			if err == nil {
				s.settings[k] = bVal
			}
		case time.Duration:
			var dur string
			dur, err = jsonparser.GetString(data, k)
			if err == nil {
				var d time.Duration
				d, err = time.ParseDuration(dur)
				if err == nil {
					s.settings[k] = d
				}
			}
		case string:
			s.settings[k], err = jsonparser.GetString(data, k)
		case busMap:
			var bm busMap
			bm, err = busMapFromJSON(data, initVal.(busMap), k)
			if err == nil {
				s.settings[k] = bm
			}
		case buttonMap:
			// replaced wholesale by the buttons object below
			continue
		default:
			err = errors.Errorf("bad type: %T", initVal)
		}
		if err != nil {
			return errors.Wrapf(err, "setting %s", k)
		}
	}

	if _, _, _, err := jsonparser.Get(data, sButtons); err == nil {
		return s.buttonsFromJSON(data)
	}
	return nil
}

func getIntField(data []byte, def int, keys ...string) (int, error) {
	v, err := jsonparser.GetInt(data, keys...)
	if err == jsonparser.KeyPathNotFoundError {
		return def, nil
	}
	if err != nil {
		// "0x19" style strings are fine too
		str, err2 := jsonparser.GetString(data, keys...)
		if err2 != nil {
			return def, err
		}
		v, err = strconv.ParseInt(str, 0, 64)
		if err != nil {
			return def, err
		}
	}
	return int(v), nil
}

func getBoolField(data []byte, def bool, keys ...string) (bool, error) {
	v, err := jsonparser.GetBoolean(data, keys...)
	if err == jsonparser.KeyPathNotFoundError {
		return def, nil
	}
	return v, err
}

func getStringField(data []byte, def string, keys ...string) (string, error) {
	v, err := jsonparser.GetString(data, keys...)
	if err == jsonparser.KeyPathNotFoundError {
		return def, nil
	}
	return v, err
}

func busMapFromJSON(data []byte, bm busMap, k string) (busMap, error) {
	var err error
	if bm.data, err = getIntField(data, bm.data, k, "data"); err != nil {
		return bm, err
	}
	if bm.load, err = getIntField(data, bm.load, k, "load"); err != nil {
		return bm, err
	}
	if bm.clock, err = getIntField(data, bm.clock, k, "clock"); err != nil {
		return bm, err
	}
	if bm.chips, err = getIntField(data, bm.chips, k, "chips"); err != nil {
		return bm, err
	}
	if bm.chips < 0 {
		return bm, errors.Errorf("chips must not be negative, got %d", bm.chips)
	}
	if bm.pullup, err = getBoolField(data, bm.pullup, k, "pullup"); err != nil {
		return bm, err
	}
	bm.prefix, err = getStringField(data, bm.prefix, k, "prefix")
	return bm, err
}

func (s *configSettings) buttonsFromJSON(data []byte) error {
	// the file's buttons replace the defaults
	for _, name := range s.GetAllButtonNames() {
		delete(s.settings, name)
	}

	return jsonparser.ObjectEach(data, func(key []byte, value []byte, dataType jsonparser.ValueType, offset int) error {
		name := string(key)
		if dataType != jsonparser.Object {
			return errors.Errorf("button %s: expected an object", name)
		}
		if _, ok := s.settings[name]; ok {
			return errors.Errorf("button %s: name collides with a setting", name)
		}

		bm := buttonMap{pinNum: -1, pullup: true}
		var err error
		if bm.pinNum, err = getIntField(value, bm.pinNum, "pin"); err != nil {
			return errors.Wrapf(err, "button %s", name)
		}
		if bm.pullup, err = getBoolField(value, bm.pullup, "pullup"); err != nil {
			return errors.Wrapf(err, "button %s", name)
		}
		if bm.key, err = getStringField(value, "", "key"); err != nil {
			return errors.Wrapf(err, "button %s", name)
		}
		if bm.pinNum < 0 && bm.key == "" {
			return errors.Errorf("button %s: needs a pin or a key", name)
		}
		s.settings[name] = bm
		return nil
	}, sButtons)
}

func initSettings(configFile string) configSettings {
	log.Println("initSettings")

	s := defaultSettings()

	data, err := ioutil.ReadFile(configFile)
	if err != nil {
		log.Fatalf("Could not load conf file '%s', terminating", configFile)
	}

	log.Printf("Reading configuration from '%s'", configFile)

	if err := s.settingsFromJSON(data); err != nil {
		log.Fatal(err.Error())
	}

	return s
}

func parseFlags() string {
	configFile := flag.String("config", "/etc/default/buttons/buttons.conf", "config file path")
	flag.Parse()
	return *configFile
}

func (s *configSettings) GetString(key string) string {
	switch v := s.settings[key].(type) {
	case string:
		return v
	default:
		return ""
	}
}

func (s *configSettings) GetBool(key string) bool {
	switch v := s.settings[key].(type) {
	case bool:
		return v
	default:
		return false
	}
}

func (s *configSettings) GetDuration(key string) time.Duration {
	switch v := s.settings[key].(type) {
	case time.Duration:
		return v
	default:
		return -1
	}
}

func (s *configSettings) GetInt(key string) int {
	switch v := s.settings[key].(type) {
	case int:
		return v
	default:
		return 0
	}
}

func (s *configSettings) GetButtonMap(key string) buttonMap {
	switch v := s.settings[key].(type) {
	case buttonMap:
		return v
	default:
		return buttonMap{pinNum: -1}
	}
}

func (s *configSettings) GetBusMap(key string) busMap {
	switch v := s.settings[key].(type) {
	case busMap:
		return v
	default:
		return busMap{}
	}
}

// GetAllButtonNames lists the directly wired buttons, sorted
func (s *configSettings) GetAllButtonNames() []string {
	var names []string
	for k, v := range s.settings {
		if _, ok := v.(buttonMap); ok {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}

func (s *configSettings) Dump() {
	keys := make([]string, 0, len(s.settings))
	for k := range s.settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		log.Printf("%s : %T: %+v\n", k, s.settings[k], s.settings[k])
	}
}
