// Package envconfig reads runtime configuration from FE_* environment
// variables.
package envconfig

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Var returns an environment variable stripped of whitespace and quotes.
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}

// LogLevel returns the log level.
// Configurable via FE_DEBUG: unset/false = INFO, 1/true = DEBUG,
// larger integers lower the level further.
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("FE_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}
	return level
}

// Bool returns a getter for a boolean variable that defaults to false.
// Unparseable non-empty values count as true.
func Bool(k string) func() bool {
	return func() bool {
		if s := Var(k); s != "" {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return true
			}
			return b
		}
		return false
	}
}

// String returns a getter for a string variable with a default.
func String(k, defaultValue string) func() string {
	return func() string {
		if s := Var(k); s != "" {
			return s
		}
		return defaultValue
	}
}

// Uint returns a getter for an unsigned variable with a default.
func Uint(key string, defaultValue uint) func() uint {
	return func() uint {
		if s := Var(key); s != "" {
			if n, err := strconv.ParseUint(s, 10, 64); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return uint(n)
			}
		}
		return defaultValue
	}
}

var (
	// NumWorkers bounds concurrent record processing (FE_NUM_WORKERS).
	NumWorkers = Uint("FE_NUM_WORKERS", uint(runtime.NumCPU()))
	// Device names the compute device handed to Op.Build (FE_DEVICE).
	Device = String("FE_DEVICE", "cpu")
	// NoParallelKernels disables parallel tensor kernels (FE_NO_PARALLEL_KERNELS).
	NoParallelKernels = Bool("FE_NO_PARALLEL_KERNELS")
)

// EnvVar describes a configuration variable.
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap returns every configuration variable with its current value.
func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"FE_DEBUG":               {"FE_DEBUG", LogLevel(), "Show additional debug information (e.g. FE_DEBUG=1)"},
		"FE_NUM_WORKERS":         {"FE_NUM_WORKERS", NumWorkers(), "Maximum number of records processed concurrently"},
		"FE_DEVICE":              {"FE_DEVICE", Device(), "Device passed to ops when they are built (default: cpu)"},
		"FE_NO_PARALLEL_KERNELS": {"FE_NO_PARALLEL_KERNELS", NoParallelKernels(), "Run tensor kernels on a single goroutine"},
	}
}

// Values returns every configuration value formatted as a string.
func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}
