package reconciler

import (
	"errors"
	"fmt"

	"github.com/clambin/rpi-backlight/pkg/backlight"
	"github.com/sirupsen/logrus"
)

// Command is a backlight command, as given on the command line.
type Command string

const (
	Up      Command = "up"
	Down    Command = "down"
	Max     Command = "max"
	Min     Command = "min"
	Sync    Command = "sync"
	Default Command = "default"
	On      Command = "on"
	Off     Command = "off"
)

// Commands lists all valid commands.
var Commands = []Command{Up, Down, Max, Min, Sync, Default, On, Off}

var ErrUnknownCommand = errors.New("unknown command")

// ParseCommand converts a string to a Command. Matching is exact and case-sensitive.
func ParseCommand(s string) (Command, error) {
	for _, c := range Commands {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCommand, s)
}

// Device is the backlight device being controlled. Implemented by backlight.Backlight.
type Device interface {
	GetBrightness() (int, error)
	SetBrightness(int) error
	GetPower() (int, error)
	SetPower(int) error
}

// Store persists the last brightness set. Implemented by store.Store.
type Store interface {
	Read() (int, error)
	Write(int) error
}

// State of the backlight device
type State struct {
	Brightness int
	Power      int
}

// Result of applying a command
type Result struct {
	Previous          State
	Current           State
	BrightnessChanged bool
}

// Reconciler applies commands to a Device, persisting brightness changes in a Store.
type Reconciler struct {
	Device Device
	Store  Store
	Logger *logrus.Entry
}

// Apply reads the device state, computes the new state for the command and writes it back.
//
// Brightness is only written if it changed. When it is, the Store is updated before the Device,
// so the Store remains the reference for a later Sync. Power is always written.
func (r Reconciler) Apply(cmd Command) (Result, error) {
	current, err := r.read()
	if err != nil {
		return Result{}, err
	}

	target, err := r.next(cmd, current)
	if err != nil {
		return Result{}, err
	}
	target.Brightness = ClampBrightness(target.Brightness)
	target.Power = ClampPower(target.Power)

	result := Result{
		Previous:          current,
		Current:           target,
		BrightnessChanged: target.Brightness != current.Brightness,
	}

	if result.BrightnessChanged {
		if err = r.Store.Write(target.Brightness); err != nil {
			return result, fmt.Errorf("store brightness: %w", err)
		}
		if err = r.Device.SetBrightness(target.Brightness); err != nil {
			return result, fmt.Errorf("set brightness: %w", err)
		}
	}
	if err = r.Device.SetPower(target.Power); err != nil {
		return result, fmt.Errorf("set power: %w", err)
	}

	r.Logger.WithFields(logrus.Fields{
		"command":    cmd,
		"brightness": target.Brightness,
		"power":      target.Power,
		"changed":    result.BrightnessChanged,
	}).Debug("command applied")
	return result, nil
}

// read returns the current device state. Values that can't be parsed fall back to the default brightness and PowerOn.
func (r Reconciler) read() (State, error) {
	brightness, err := r.Device.GetBrightness()
	if err != nil {
		var parseErr *backlight.ParseError
		if !errors.As(err, &parseErr) {
			return State{}, fmt.Errorf("get brightness: %w", err)
		}
		r.Logger.WithError(err).Warning("invalid brightness. using default")
		brightness = backlight.DefaultBrightness
	}

	power, err := r.Device.GetPower()
	if err != nil {
		var parseErr *backlight.ParseError
		if !errors.As(err, &parseErr) {
			return State{}, fmt.Errorf("get power: %w", err)
		}
		r.Logger.WithError(err).Warning("invalid power state. using on")
		power = backlight.PowerOn
	}

	r.Logger.WithFields(logrus.Fields{"brightness": brightness, "power": power}).Debug("current state")
	return State{Brightness: brightness, Power: power}, nil
}

func (r Reconciler) next(cmd Command, current State) (State, error) {
	next := current
	switch cmd {
	case Up:
		next.Brightness += backlight.BrightnessStep
	case Down:
		next.Brightness -= backlight.BrightnessStep
	case Max:
		next.Brightness = backlight.MaxBrightness
	case Min:
		next.Brightness = backlight.MinBrightness
	case Sync:
		stored, err := r.Store.Read()
		if err != nil {
			return current, fmt.Errorf("read stored brightness: %w", err)
		}
		next.Brightness = stored
	case Default:
		next.Brightness = backlight.DefaultBrightness
	case On:
		next.Power = backlight.PowerOn
	case Off:
		next.Power = backlight.PowerOff
	default:
		return current, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}
	return next, nil
}

// ClampBrightness limits brightness to [MinBrightness, MaxBrightness].
func ClampBrightness(brightness int) int {
	return min(max(brightness, backlight.MinBrightness), backlight.MaxBrightness)
}

// ClampPower normalises an out-of-range power value: anything above PowerOff means on, anything below PowerOn means off.
func ClampPower(power int) int {
	if power > backlight.PowerOff {
		power = backlight.PowerOn
	}
	if power < backlight.PowerOn {
		power = backlight.PowerOff
	}
	return power
}
