package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/jrick/logrotate/rotator"
	"github.com/pkg/errors"
)

// Callsite selects whether entries carry the file and line of the log call.
type Callsite uint8

// Callsite modes.
const (
	CallsiteNone Callsite = iota
	CallsiteShort
	CallsiteLong
)

// callsiteFromEnv reads LOGFLAGS. "shortfile" wins over "longfile".
func callsiteFromEnv() Callsite {
	mode := CallsiteNone
	for _, flag := range strings.Split(os.Getenv("LOGFLAGS"), ",") {
		switch flag {
		case "shortfile":
			return CallsiteShort
		case "longfile":
			mode = CallsiteLong
		}
	}
	return mode
}

// Rotation holds the log rotation settings of a log file.
type Rotation struct {
	ThresholdKB int64
	MaxRolls    int
}

// DefaultRotation rolls files at 10 MB and keeps the last 3.
var DefaultRotation = Rotation{ThresholdKB: 10 * 1000, MaxRolls: 3}

const entriesBuffer = 64

var errBackendRunning = errors.New("the log backend is already running")

// levelWriter receives every entry at level or above.
type levelWriter struct {
	io.WriteCloser
	level Level
}

type stderrWriter struct{}

func (stderrWriter) Write(p []byte) (int, error) { return os.Stderr.Write(p) }
func (stderrWriter) Close() error                { return nil }

// Backend serializes the entries of all its subsystem loggers onto its
// writers from a single goroutine.
type Backend struct {
	callsite Callsite
	running  uint32
	writers  []levelWriter
	entries  chan logEntry
	done     sync.WaitGroup
}

// NewBackend creates a backend whose callsite mode comes from LOGFLAGS.
func NewBackend() *Backend {
	return NewBackendWithCallsite(callsiteFromEnv())
}

// NewBackendWithCallsite creates a backend with an explicit callsite mode.
func NewBackendWithCallsite(callsite Callsite) *Backend {
	return &Backend{callsite: callsite, entries: make(chan logEntry, entriesBuffer)}
}

// AddLogWriter adds writer for entries at level or above. Writers can only be
// added before Run.
func (b *Backend) AddLogWriter(writer io.WriteCloser, level Level) error {
	if b.IsRunning() {
		return errBackendRunning
	}
	b.writers = append(b.writers, levelWriter{WriteCloser: writer, level: level})
	return nil
}

// AddStderr writes entries at level or above to os.Stderr, which is never
// closed by the backend.
func (b *Backend) AddStderr(level Level) error {
	return b.AddLogWriter(stderrWriter{}, level)
}

// AddLogFile writes entries at level or above to logFile using DefaultRotation.
func (b *Backend) AddLogFile(logFile string, level Level) error {
	return b.AddRotatedLogFile(logFile, level, DefaultRotation)
}

// AddRotatedLogFile writes entries at level or above to logFile, creating its
// directory when needed.
func (b *Backend) AddRotatedLogFile(logFile string, level Level, rotation Rotation) error {
	if b.IsRunning() {
		return errBackendRunning
	}
	if logDir := filepath.Dir(logFile); logDir != "." {
		err := os.MkdirAll(logDir, 0700)
		if err != nil {
			return errors.Wrapf(err, "failed to create log directory %s", logDir)
		}
	}
	fileRotator, err := rotator.New(logFile, rotation.ThresholdKB, false, rotation.MaxRolls)
	if err != nil {
		return errors.Wrapf(err, "failed to create a rotator for %s", logFile)
	}
	return b.AddLogWriter(fileRotator, level)
}

// Run starts the writer goroutine. It fails if the backend already runs.
func (b *Backend) Run() error {
	if !atomic.CompareAndSwapUint32(&b.running, 0, 1) {
		return errBackendRunning
	}
	b.done.Add(1)
	go func() {
		defer b.done.Done()
		defer func() {
			if err := recover(); err != nil {
				fmt.Fprintf(os.Stderr, "Fatal error in the log backend: %+v\n%s\n", err, debug.Stack())
			}
		}()
		for entry := range b.entries {
			b.dispatch(entry)
		}
	}()
	return nil
}

func (b *Backend) dispatch(entry logEntry) {
	for _, writer := range b.writers {
		if entry.level >= writer.level {
			_, _ = writer.Write(entry.log)
		}
	}
}

// IsRunning reports whether Run was called.
func (b *Backend) IsRunning() bool {
	return atomic.LoadUint32(&b.running) != 0
}

// Close flushes the pending entries and closes every writer.
func (b *Backend) Close() {
	close(b.entries)
	b.done.Wait()
	atomic.StoreUint32(&b.running, 0)
	for _, writer := range b.writers {
		_ = writer.Close()
	}
}

// Logger returns a logger for subsystemTag. It is off until a level is set.
func (b *Backend) Logger(subsystemTag string) *Logger {
	return &Logger{lvl: uint32(LevelOff), tag: subsystemTag, b: b}
}
