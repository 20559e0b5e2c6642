package logger

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

type logEntry struct {
	log   []byte
	level Level
}

// Logger is a subsystem logger for a Backend. Entries below the logger's level
// are dropped before they are formatted.
type Logger struct {
	lvl uint32 // atomic Level
	tag string
	b   *Backend
}

// Tracef formats message according to format specifier, prepends the prefix as
// necessary, and writes to log with LevelTrace.
func (l *Logger) Tracef(format string, args ...interface{}) {
	l.Writef(LevelTrace, format, args...)
}

// Debugf formats message according to format specifier, prepends the prefix as
// necessary, and writes to log with LevelDebug.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.Writef(LevelDebug, format, args...)
}

// Infof formats message according to format specifier, prepends the prefix as
// necessary, and writes to log with LevelInfo.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Writef(LevelInfo, format, args...)
}

// Warnf formats message according to format specifier, prepends the prefix as
// necessary, and writes to log with LevelWarn.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.Writef(LevelWarn, format, args...)
}

// Errorf formats message according to format specifier, prepends the prefix as
// necessary, and writes to log with LevelError.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Writef(LevelError, format, args...)
}

// Criticalf formats message according to format specifier, prepends the prefix as
// necessary, and writes to log with LevelCritical.
func (l *Logger) Criticalf(format string, args ...interface{}) {
	l.Writef(LevelCritical, format, args...)
}

// Writef formats the message and sends it to the backend if the level is enabled.
// Nothing is written while the backend is not running.
func (l *Logger) Writef(logLevel Level, format string, args ...interface{}) {
	if logLevel < l.Level() || !l.b.IsRunning() {
		return
	}
	l.write(logLevel, fmt.Sprintf(format, args...))
}

// Level returns the current logging level.
func (l *Logger) Level() Level {
	return Level(atomic.LoadUint32(&l.lvl))
}

// SetLevel changes the logging level to the passed level.
func (l *Logger) SetLevel(level Level) {
	atomic.StoreUint32(&l.lvl, uint32(level))
}

// Backend returns the log backend
func (l *Logger) Backend() *Backend {
	return l.b
}

func (l *Logger) write(logLevel Level, message string) {
	buf := bytes.NewBuffer(make([]byte, 0, normalLogSize))
	buf.WriteString(time.Now().Format("2006-01-02 15:04:05.000"))
	buf.WriteString(" [")
	buf.WriteString(logLevel.String())
	buf.WriteString("] ")
	buf.WriteString(l.tag)
	if l.b.callsite != CallsiteNone {
		buf.WriteByte(' ')
		buf.WriteString(callsite(l.b.callsite))
	}
	buf.WriteString(": ")
	buf.WriteString(message)
	if !strings.HasSuffix(message, "\n") {
		buf.WriteByte('\n')
	}

	defer func() {
		// The backend may be closed concurrently with this write.
		if recover() != nil {
			_, _ = os.Stderr.Write(buf.Bytes())
		}
	}()
	l.b.entries <- logEntry{log: buf.Bytes(), level: logLevel}
}

const normalLogSize = 512

// callsiteDepth is the number of frames between the logging call and callsite.
const callsiteDepth = 4

func callsite(mode Callsite) string {
	_, file, line, ok := runtime.Caller(callsiteDepth)
	if !ok {
		return "???:0"
	}
	if mode == CallsiteShort {
		file = filepath.Base(file)
	}
	return fmt.Sprintf("%s:%d", file, line)
}

// LogClosure defers building an expensive message until it is printed
// with %s.
type LogClosure func() string

func (c LogClosure) String() string {
	return c()
}

// NewLogClosure casts c to a LogClosure.
func NewLogClosure(c func() string) LogClosure {
	return c
}
