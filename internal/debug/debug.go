// Package debug provides opt-in stderr tracing, enabled by the --debug flag.
package debug

import (
	"fmt"
	"os"
	"sync"
	"time"
)

var (
	mu      sync.RWMutex
	enabled bool
	noColor bool
)

const (
	colorReset = "\033[0m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
)

// SetDebug enables or disables debug tracing.
func SetDebug(enable bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = enable
}

// SetNoColor disables colored trace output.
func SetNoColor(disable bool) {
	mu.Lock()
	defer mu.Unlock()
	noColor = disable
}

// IsEnabled returns whether debug tracing is enabled.
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// Debug prints a timestamped trace line to stderr.
func Debug(format string, args ...interface{}) {
	emit(fmt.Sprintf(format, args...))
}

// DebugValue prints a key = value trace line.
func DebugValue(key string, value interface{}) {
	emit(fmt.Sprintf("%s = %v", key, value))
}

// DebugSection prints a section header to group trace output.
func DebugSection(section string) {
	emit(fmt.Sprintf("=== %s ===", section))
}

func emit(msg string) {
	mu.RLock()
	on, plain := enabled, noColor
	mu.RUnlock()
	if !on {
		return
	}

	timestamp := time.Now().Format("15:04:05.000")
	if plain {
		fmt.Fprintf(os.Stderr, "[DEBUG] %s %s\n", timestamp, msg)
		return
	}
	fmt.Fprintf(os.Stderr, "%s[DEBUG]%s %s%s%s %s\n",
		colorCyan, colorReset, colorGray, timestamp, colorReset, msg)
}
