package commands

import (
	"os"

	"github.com/btcsuite/btclog/v2"
	"github.com/roasbeef/chanx"
	"github.com/roasbeef/chanx/internal/build"
)

// setupLogging wires chanx's subsystem logger to the console and,
// optionally, to a rotating log file. It returns a cleanup func that must
// be called before the process exits.
func setupLogging() (cleanup func(), err error) {
	var handlers []btclog.Handler
	handlers = append(handlers, btclog.NewDefaultHandler(os.Stderr))

	cleanup = func() {}

	if logDir != "" {
		rotator := build.NewRotatingLogWriter()
		if initErr := rotator.InitLogRotator(&build.LogRotatorConfig{
			LogDir:         logDir,
			MaxLogFiles:    build.DefaultMaxLogFiles,
			MaxLogFileSize: build.DefaultMaxLogFileSize,
		}); initErr != nil {
			return cleanup, initErr
		}

		handlers = append(handlers, btclog.NewDefaultHandler(rotator))
		cleanup = func() { _ = rotator.Close() }
	}

	combined := build.NewHandlerSet(handlers...)
	chanx.UseLogger(btclog.NewSLogger(combined))

	return cleanup, nil
}
