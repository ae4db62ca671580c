package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/clambin/rpi-backlight/pkg/backlight"
	"github.com/sirupsen/logrus"
)

// Name of the configuration file under ~/.config
const Name = "rpi-backlight"

// ErrNoHome is returned when the HOME environment variable isn't set.
var ErrNoHome = errors.New("HOME environment variable not set")

// ConfigPath returns the location of the configuration file in the user's home directory.
func ConfigPath(lookupEnv func(string) (string, bool)) (string, error) {
	home, ok := lookupEnv("HOME")
	if !ok || home == "" {
		return "", ErrNoHome
	}
	return filepath.Join(home, ".config", Name), nil
}

// Store persists the last brightness value set by the tool.
type Store struct {
	Path   string
	Logger *logrus.Entry
}

// Read returns the stored brightness. If the file doesn't hold a valid integer, it is reset to the default
// brightness, which is returned instead.
func (s Store) Read() (int, error) {
	if err := s.ensureExists(); err != nil {
		return 0, err
	}
	content, err := os.ReadFile(s.Path)
	if err != nil {
		return 0, fmt.Errorf("read config: %w", err)
	}
	value, err := backlight.ParseValue(content)
	if err == nil {
		return value, nil
	}
	s.Logger.WithError(err).WithField("path", s.Path).Warning("invalid config content. resetting to default")
	if err = s.reset(); err != nil {
		return 0, err
	}
	return backlight.DefaultBrightness, nil
}

// Write stores the brightness, replacing the previous content.
func (s Store) Write(value int) error {
	if err := s.ensureExists(); err != nil {
		return err
	}
	if err := os.WriteFile(s.Path, []byte(strconv.Itoa(value)), 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	s.Logger.WithField("brightness", value).Debug("config stored")
	return nil
}

func (s Store) ensureExists() error {
	if _, err := os.Stat(s.Path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := s.reset(); err != nil {
		return err
	}
	s.Logger.Infof("Created file with default content: %s", s.Path)
	return nil
}

func (s Store) reset() error {
	if err := os.WriteFile(s.Path, []byte(strconv.Itoa(backlight.DefaultBrightness)), 0644); err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	return nil
}
