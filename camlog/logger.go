// Package camlog is the leveled, concurrency-safe logger shared by the
// pixel-format registry and the V4L2 backend. It exists because no
// component should open its own log file or race on os.Stderr.
package camlog

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

// Level enumerates severity tiers, ordered so numeric comparison works.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if int(l) >= 0 && int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "UNKNOWN"
}

// Logger is a minimal leveled logger safe for concurrent use by the
// bridge goroutine, backend callbacks, and the caller's own goroutines.
type Logger struct {
	mu    sync.Mutex
	level Level
	inner *log.Logger
	file  *os.File
}

var (
	global     *Logger
	globalOnce sync.Once
)

// Init creates the process-wide logger. Calling it more than once is a
// no-op after the first call, matching the single-anchor semantics the
// rest of the core relies on (clocksync's process anchor, the MF/COM
// refcount) — logging configuration is decided once, at startup.
func Init(minLevel Level, logFilePath string) *Logger {
	globalOnce.Do(func() {
		writers := []io.Writer{os.Stderr}

		var f *os.File
		if logFilePath != "" {
			var err error
			f, err = os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err == nil {
				writers = append(writers, f)
			} else {
				log.Printf("camlog: could not open log file %s: %v", logFilePath, err)
			}
		}

		global = &Logger{
			level: minLevel,
			inner: log.New(io.MultiWriter(writers...), "", 0),
			file:  f,
		}
	})
	return global
}

// L returns the process-wide logger, lazily initializing it at Info level
// if the caller never called Init explicitly.
func L() *Logger {
	if global == nil {
		return Init(Info, "")
	}
	return global
}

// Close flushes and closes the log file, if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func (l *Logger) log(lvl Level, format string, args ...any) {
	if lvl < l.level {
		return
	}
	ts := time.Now().Format("2006-01-02T15:04:05.000Z07:00")
	msg := fmt.Sprintf(format, args...)
	l.mu.Lock()
	l.inner.Printf("%s [%s] %s", ts, lvl, msg)
	l.mu.Unlock()
}

func (l *Logger) Debug(format string, args ...any) { l.log(Debug, format, args...) }
func (l *Logger) Info(format string, args ...any)  { l.log(Info, format, args...) }
func (l *Logger) Warn(format string, args ...any)  { l.log(Warn, format, args...) }
func (l *Logger) Error(format string, args ...any) { l.log(Error, format, args...) }
