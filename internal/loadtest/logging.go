package loadtest

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/wodboard/pkg/logger"
)

const logFilePermission = 0o600

// SetupLogging sends log output to stdout and to logFile. An empty
// logFile gets a timestamped name; "-" disables the file. The returned
// func closes the file.
func SetupLogging(logFile string, verbose bool) (func(), error) {
	if logFile == "" {
		logFile = "loadtest_" + time.Now().Format("20060102_150405") + ".log"
	}
	var w io.Writer = os.Stdout
	closeFile := func() {}
	if logFile != "-" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return nil, fmt.Errorf("failed to create log file: %w", err)
		}
		w = io.MultiWriter(os.Stdout, f)
		closeFile = func() { _ = f.Close() }
	}
	if err := logger.Init(logger.WithWriter(w)); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return closeFile, nil
}
