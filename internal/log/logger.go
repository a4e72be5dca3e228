// Package log gives every blobmarch package a module-tagged logger that
// shares one sink and one verbosity.
package log

import (
	"io"
	"os"

	"github.com/op/go-logging"
)

type Level logging.Level

// Verbosity, most to least chatty. Notice is the default.
const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var levels = map[Level]logging.Level{
	Debug:   logging.DEBUG,
	Info:    logging.INFO,
	Notice:  logging.NOTICE,
	Warning: logging.WARNING,
	Error:   logging.ERROR,
}

var lineFormat = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

var (
	backend logging.LeveledBackend
	level   = Notice
)

// Logger is the subset of go-logging the renderer and CLI call.
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New tags lines with module, e.g. "render" or "viz".
func New(module string) Logger {
	return logging.MustGetLogger(module)
}

// SetSink sends every logger's output to w. The live preview points this at
// a file while it owns the terminal.
func SetSink(w io.Writer) {
	formatted := logging.NewBackendFormatter(logging.NewLogBackend(w, "", 0), lineFormat)
	backend = logging.AddModuleLevel(formatted)
	logging.SetBackend(backend)
	SetLevel(level)
}

// SetLevel applies to all modules and survives later SetSink calls.
// Unknown levels fall back to Error.
func SetLevel(l Level) {
	lv, ok := levels[l]
	if !ok {
		lv = logging.ERROR
	}
	level = l
	backend.SetLevel(lv, "")
}

func init() {
	SetSink(os.Stderr)
}
