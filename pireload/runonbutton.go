package main

import (
	"log"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/stianeikeland/go-rpio"

	"dscheirer.com/buttons/button"
)

// pireload watches one button and runs a program when it sees a gesture.
//
// Flags default from the environment:
//   BUTTON  -> --pin
//   RUNPROG -> --run
//   PULLUP  -> --pullup (set to anything)
//   GESTURE -> --on

const pollTime = 5 * time.Millisecond

type options struct {
	pin      int
	pullup   bool
	program  string
	gesture  string
	coolDown time.Duration
}

var gestures = map[string]button.Event{
	"press":  button.Single,
	"double": button.Double,
	"long":   button.Long,
}

func envDefaults() options {
	opts := options{pin: -1, gesture: "press", coolDown: 5 * time.Second}
	if s, ok := os.LookupEnv("BUTTON"); ok {
		if pin, err := strconv.ParseInt(s, 0, 64); err == nil {
			opts.pin = int(pin)
		} else {
			log.Printf("%s is not a number", s)
		}
	}
	opts.program = os.Getenv("RUNPROG")
	_, opts.pullup = os.LookupEnv("PULLUP")
	if g, ok := os.LookupEnv("GESTURE"); ok {
		opts.gesture = g
	}
	return opts
}

func newCommand() *cobra.Command {
	opts := envDefaults()

	cmd := &cobra.Command{
		Use:   "pireload",
		Short: "Run a program when a GPIO button is clicked, double clicked or held",
		RunE: func(cmd *cobra.Command, args []string) error {
			want, err := validate(opts)
			if err != nil {
				return err
			}
			return watch(opts, want, clockwork.NewRealClock())
		},
		SilenceUsage: true,
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.pin, "pin", opts.pin, "GPIO pin the button is wired to (BUTTON)")
	flags.BoolVar(&opts.pullup, "pullup", opts.pullup, "button pulls the pin to ground (PULLUP)")
	flags.StringVar(&opts.program, "run", opts.program, "program to run (RUNPROG)")
	flags.StringVar(&opts.gesture, "on", opts.gesture, "gesture that runs it: press, double or long (GESTURE)")
	flags.DurationVar(&opts.coolDown, "cooldown", opts.coolDown, "ignore the button this long after a run")

	return cmd
}

func validate(opts options) (button.Event, error) {
	if opts.pin < 0 || opts.program == "" {
		return button.None, errors.Errorf("must provide a pin and a program: %d : %q", opts.pin, opts.program)
	}
	want, ok := gestures[opts.gesture]
	if !ok {
		return button.None, errors.Errorf("unknown gesture %q", opts.gesture)
	}
	return want, nil
}

func watch(opts options, want button.Event, clock clockwork.Clock) error {
	// open the button for read
	if err := rpio.Open(); err != nil {
		return errors.Wrap(err, "opening gpio")
	}
	defer rpio.Close()

	btn := button.OpenPin(opts.pin, opts.pullup, clock)
	log.Printf("Watching %v (pullup %v) for %s", opts.pin, opts.pullup, want)

	var quietUntil time.Time
	for {
		btn.Update()
		if btn.Event() == want && !clock.Now().Before(quietUntil) {
			run(opts.program)
			// take a nap after running the command
			quietUntil = clock.Now().Add(opts.coolDown)
		}
		clock.Sleep(pollTime)
	}
}

func run(program string) {
	log.Printf("Running %s\n", program)
	// wait for it to exit
	out, err := exec.Command(program).Output()
	if err != nil {
		log.Println(err.Error())
	}
	log.Printf("%s", out)
}

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
