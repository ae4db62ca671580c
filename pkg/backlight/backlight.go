package backlight

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
)

// DefaultPath is the sysfs directory of the official Raspberry Pi touchscreen backlight.
const DefaultPath = "/sys/class/backlight/backlight@0"

const (
	MinBrightness     = 1
	MaxBrightness     = 9
	BrightnessStep    = 1
	DefaultBrightness = 3
)

const (
	PowerOn  = 0
	PowerOff = 1
)

// Backlight reads and writes the brightness and power attributes of a sysfs backlight device.
type Backlight struct {
	brightnessPath string
	powerPath      string
}

func New(path string) Backlight {
	return Backlight{
		brightnessPath: filepath.Join(path, "brightness"),
		powerPath:      filepath.Join(path, "bl_power"),
	}
}

func (b Backlight) GetBrightness() (int, error) {
	return readValue(b.brightnessPath)
}

func (b Backlight) SetBrightness(value int) error {
	return writeValue(b.brightnessPath, value)
}

func (b Backlight) GetPower() (int, error) {
	return readValue(b.powerPath)
}

func (b Backlight) SetPower(value int) error {
	return writeValue(b.powerPath, value)
}

// Check verifies that both attributes can be opened for reading and writing.
// The first attribute that can't be opened is reported as an UnavailableError.
func (b Backlight) Check() error {
	for _, path := range []string{b.powerPath, b.brightnessPath} {
		f, err := os.OpenFile(path, os.O_RDWR, 0)
		if err != nil {
			return &UnavailableError{Path: path, Err: err}
		}
		_ = f.Close()
	}
	return nil
}

func readValue(path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	value, err := ParseValue(content)
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		parseErr.Path = path
	}
	return value, err
}

func writeValue(path string, value int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(value)), 0644)
}

var valueRegExp = regexp.MustCompile(`^\s*([+-]?\d+)`)

// ParseValue returns the first integer in content. Leading whitespace is skipped and anything after the
// integer (e.g. the trailing newline sysfs adds) is ignored.
func ParseValue(content []byte) (int, error) {
	matches := valueRegExp.FindSubmatch(content)
	if matches == nil {
		return 0, &ParseError{Content: string(content)}
	}
	value, err := strconv.Atoi(string(matches[1]))
	if err != nil {
		// out of range for int
		return 0, &ParseError{Content: string(content)}
	}
	return value, nil
}

// ParseError indicates that a file didn't contain an integer value.
type ParseError struct {
	Path    string
	Content string
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid value %q", e.Content)
	}
	return fmt.Sprintf("%s: invalid value %q", e.Path, e.Content)
}

// UnavailableError indicates that a device attribute doesn't exist or can't be opened for writing.
type UnavailableError struct {
	Path string
	Err  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}
