package clog

import (
	"io"
	"os"

	"github.com/apex/log"
)

var handler = NewHandler(os.Stdout)

// Setup installs the clog handler as the apex/log handler for the process.
// Daemons call this once from their root command.
func Setup() {
	log.SetHandler(handler)
}

func SetOutput(w io.WriteCloser) {
	handler.SetOutput(w)
}

func SetLevelFromString(s string) error {
	level, err := log.ParseLevel(s)
	if err != nil {
		return err
	}

	log.SetLevel(level)

	return nil
}
