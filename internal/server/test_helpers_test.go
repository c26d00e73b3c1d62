package server

import (
	"io"

	"github.com/charmbracelet/log"
)

// testLogger creates a logger that discards output for tests
func testLogger() *log.Logger {
	return log.New(io.Discard)
}
