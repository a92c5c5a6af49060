package logging

import (
	"io"

	hclog "github.com/hashicorp/go-hclog"
)

// New builds the engine-wide logger. Network and authority failures are
// absorbed at service boundaries and reported here, never raised to callers.
func New(name string, out io.Writer) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Output: out,
		Level:  hclog.Info,
	})
}

// Nop returns a logger that discards everything, for tests.
func Nop() hclog.Logger {
	return hclog.NewNullLogger()
}
