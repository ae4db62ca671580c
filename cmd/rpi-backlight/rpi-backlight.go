package main

import (
	"os"

	"github.com/clambin/rpi-backlight/internal/cmd"
)

var version = "change-me"

func main() {
	os.Exit(cmd.Main(version))
}
