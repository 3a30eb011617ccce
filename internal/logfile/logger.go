package logfile

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const lineTimeLayout = "2006-01-02 15:04:05"

// Logger appends "[YYYY-MM-DD HH:MM:SS] <message>" lines to the log file.
// Warnings and errors carry a WARNING: or ERROR: prefix.
type Logger struct {
	zerolog.Logger
	file *os.File
}

// Open opens path for appending, creating it if needed. When mirror is not
// nil every event is also written there through a regular console writer.
func Open(path string, clock func() time.Time, mirror io.Writer) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	var out io.Writer = newLineWriter(f)
	if mirror != nil {
		out = zerolog.MultiLevelWriter(out, zerolog.ConsoleWriter{Out: mirror})
	}
	if clock == nil {
		clock = time.Now
	}

	return &Logger{
		Logger: zerolog.New(out).Hook(clockHook(clock)),
		file:   f,
	}, nil
}

// Close closes the underlying file.
func (l *Logger) Close() error {
	return l.file.Close()
}

// clockHook stamps each event with the time in log line layout.
type clockHook func() time.Time

func (h clockHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	e.Str(zerolog.TimestampFieldName, h().Format(lineTimeLayout))
}

func newLineWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    true,
		PartsOrder: []string{zerolog.TimestampFieldName, zerolog.LevelFieldName, zerolog.MessageFieldName},
		FormatTimestamp: func(i interface{}) string {
			return fmt.Sprintf("[%v]", i)
		},
		FormatLevel: func(i interface{}) string {
			switch i {
			case zerolog.LevelWarnValue:
				return "WARNING:"
			case zerolog.LevelErrorValue, zerolog.LevelFatalValue, zerolog.LevelPanicValue:
				return "ERROR:"
			}
			return ""
		},
		FormatMessage: func(i interface{}) string {
			if i == nil {
				return ""
			}
			return fmt.Sprint(i)
		},
	}
}
