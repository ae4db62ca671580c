package testutils

import (
	"os"
	"path/filepath"
)

// InitBacklight creates the sysfs attributes of a backlight device in path.
func InitBacklight(path string, brightness, power string) error {
	if err := os.WriteFile(filepath.Join(path, "brightness"), []byte(brightness), 0644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(path, "bl_power"), []byte(power), 0644); err != nil {
		return err
	}
	return nil
}
