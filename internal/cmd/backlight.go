package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/clambin/rpi-backlight/internal/configuration"
	"github.com/clambin/rpi-backlight/internal/reconciler"
	"github.com/clambin/rpi-backlight/internal/store"
	"github.com/clambin/rpi-backlight/pkg/backlight"
	"github.com/sirupsen/logrus"
)

// Main runs rpi-backlight with the process' arguments and environment and returns the exit code.
func Main(version string) int {
	return run(os.Args, os.Stdout, os.Stderr, os.LookupEnv, version)
}

func run(args []string, stdout, stderr io.Writer, lookupEnv func(string) (string, bool), version string) int {
	cfg, err := configuration.GetConfigFromArgs(filepath.Base(args[0]), version, args[1:], stdout)
	if err != nil {
		return 1
	}

	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if cfg.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	logger.WithField("version", version).Debug("starting")

	device := backlight.New(cfg.DevicePath)
	if err = device.Check(); err != nil {
		var unavailable *backlight.UnavailableError
		if errors.As(err, &unavailable) {
			_, _ = fmt.Fprintf(stdout, "ERROR: '%s' does not exist/insufficient permissions.\n", unavailable.Path)
			logger.WithError(unavailable.Err).Debug("device check failed")
		}
		return 1
	}

	configPath, err := store.ConfigPath(lookupEnv)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "Could not find HOME environment variable.")
		return 1
	}

	r := reconciler.Reconciler{
		Device: device,
		Store:  store.Store{Path: configPath, Logger: logger.WithField("component", "store")},
		Logger: logger.WithField("component", "reconciler"),
	}

	if _, err = r.Apply(cfg.Command); err != nil {
		logger.WithError(err).WithField("command", cfg.Command).Error("failed to apply command")
		return 1
	}
	return 0
}
