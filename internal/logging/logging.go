package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	once      sync.Once
	singleton *log.Logger

	mu       sync.Mutex
	children = map[string]*log.Logger{}
)

// Default returns the process-wide logger. It writes to stderr with
// timestamps and starts at info level.
func Default() *log.Logger {
	once.Do(func() {
		singleton = New(os.Stderr, "dodesc")
	})
	return singleton
}

// New builds a logger in the house style writing to w.
func New(w io.Writer, prefix string) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          prefix,
	})
	l.SetLevel(log.InfoLevel)
	return l
}

// Named returns a child of the default logger for one component.
// Children follow later SetLevel calls.
func Named(component string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	if l, ok := children[component]; ok {
		return l
	}
	l := Default().WithPrefix("dodesc/" + component)
	children[component] = l
	return l
}

// Discard returns a logger that drops everything, for tests and benchmarks.
func Discard() *log.Logger {
	l := log.New(io.Discard)
	l.SetLevel(log.FatalLevel)
	return l
}

// SetLevel changes the level of the default logger and of every Named
// child. Accepted values: debug, info, warn, error, fatal.
func SetLevel(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	Default().SetLevel(lvl)

	mu.Lock()
	defer mu.Unlock()
	for _, l := range children {
		l.SetLevel(lvl)
	}
	return nil
}
