// Package logging builds the hclog loggers used by beadgrid.
package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// Name is the root logger name.
const Name = "beadgrid"

// New returns the application logger. Verbose logs at debug level and quiet
// discards all output; otherwise warnings and above are written. quiet wins
// over verbose. A nil w writes to stderr.
func New(verbose, quiet bool, w io.Writer) hclog.Logger {
	if w == nil {
		w = os.Stderr
	}

	switch {
	case quiet:
		return hclog.New(&hclog.LoggerOptions{
			Name:   Name,
			Output: io.Discard,
			Level:  hclog.Off,
		})
	case verbose:
		return hclog.New(&hclog.LoggerOptions{
			Name:   Name,
			Output: w,
			Level:  hclog.Debug,
		})
	default:
		return hclog.New(&hclog.LoggerOptions{
			Name:   Name,
			Output: w,
			Level:  hclog.Warn,
		})
	}
}
