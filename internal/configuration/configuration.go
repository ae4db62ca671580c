package configuration

import (
	"errors"
	"fmt"
	"io"

	"github.com/clambin/rpi-backlight/internal/reconciler"
	"github.com/clambin/rpi-backlight/pkg/backlight"
	"gopkg.in/alecthomas/kingpin.v2"
)

type Configuration struct {
	Debug      bool
	DevicePath string
	Command    reconciler.Command
}

const help = `Control the backlight of the official Raspberry Pi touchscreen.

commands:

    up        increases brightness by one step
    down      decreases brightness by one step
    max       sets brightness to the maximum
    min       sets brightness to the minimum
    sync      restores the last brightness set
    default   sets brightness to the default
    on        turns the screen on
    off       turns the screen off
`

// ErrTerminated is returned when --help or --version was requested. The requested output has already been written.
var ErrTerminated = errors.New("no command given")

// GetConfigFromArgs parses the command line arguments. On failure, the error and the usage are written to w.
func GetConfigFromArgs(name, version string, args []string, w io.Writer) (Configuration, error) {
	var cfg Configuration
	var command string
	var terminated bool

	commands := make([]string, len(reconciler.Commands))
	for i, c := range reconciler.Commands {
		commands[i] = string(c)
	}

	a := kingpin.New(name, help)
	a.UsageWriter(w)
	a.ErrorWriter(w)
	a.Terminate(func(int) { terminated = true })
	a.Version(version)
	a.HelpFlag.Short('h')
	a.VersionFlag.Short('v')
	a.Flag("debug", "Log debug messages").Short('d').Default("false").BoolVar(&cfg.Debug)
	a.Flag("device-path", "path name to the sysfs directory of the backlight").Default(backlight.DefaultPath).StringVar(&cfg.DevicePath)
	a.Arg("command", "backlight command").Required().EnumVar(&command, commands...)

	_, err := a.Parse(args)
	if terminated {
		return cfg, ErrTerminated
	}
	if err != nil {
		a.Errorf("%s", err)
		a.Usage(nil)
		return cfg, fmt.Errorf("invalid command line arguments: %w", err)
	}

	cfg.Command, err = reconciler.ParseCommand(command)
	return cfg, err
}
