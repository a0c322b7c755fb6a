package logger

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var Log = newLogger()

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:      isTerminal(os.Stderr),
		DisableTimestamp: true,
	})
	log.SetLevel(logrus.InfoLevel)
	if os.Getenv("DEBUG") == "1" {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// Configure applies the configured level. DEBUG=1 always wins.
func Configure(level string) error {
	if os.Getenv("DEBUG") == "1" {
		Log.SetLevel(logrus.DebugLevel)
		return nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	Log.SetLevel(lvl)
	return nil
}

// Redirect sends log output to w, e.g. a file while the TUI owns the terminal.
// Colors are disabled for anything that is not a terminal.
func Redirect(w io.Writer) {
	Log.SetOutput(w)
	f, ok := w.(*os.File)
	Log.SetFormatter(&logrus.TextFormatter{
		ForceColors:      ok && isTerminal(f),
		DisableColors:    !ok || !isTerminal(f),
		DisableTimestamp: ok && isTerminal(f),
	})
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
