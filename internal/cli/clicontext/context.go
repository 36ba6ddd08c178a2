// Package clicontext provides global CLI context and state management.
package clicontext

import "sync"

// Global holds the global CLI context, including flags that affect all commands.
type Global struct {
	// Debug forces debug-level logging regardless of the configured level.
	Debug bool

	// ConfigPath overrides the default config file location.
	ConfigPath string

	// HumanLogs selects the human log format, set when stderr is a terminal.
	HumanLogs bool
}

var (
	globalContext = &Global{}
	mu            sync.RWMutex
)

// Set updates the global CLI context.
func Set(ctx *Global) {
	mu.Lock()
	defer mu.Unlock()
	globalContext = ctx
}

// Get returns a copy of the current global CLI context.
func Get() Global {
	mu.RLock()
	defer mu.RUnlock()
	return *globalContext
}

// Debug returns whether debug logging was requested.
func Debug() bool {
	mu.RLock()
	defer mu.RUnlock()
	return globalContext.Debug
}

// SetDebug sets the debug flag.
func SetDebug(value bool) {
	mu.Lock()
	defer mu.Unlock()
	globalContext.Debug = value
}

// ConfigPath returns the config file path given on the command line, if any.
func ConfigPath() string {
	mu.RLock()
	defer mu.RUnlock()
	return globalContext.ConfigPath
}

// SetConfigPath sets the config file path.
func SetConfigPath(path string) {
	mu.Lock()
	defer mu.Unlock()
	globalContext.ConfigPath = path
}

// HumanLogs returns whether logs use the human format.
func HumanLogs() bool {
	mu.RLock()
	defer mu.RUnlock()
	return globalContext.HumanLogs
}

// SetHumanLogs sets the human log format flag.
func SetHumanLogs(value bool) {
	mu.Lock()
	defer mu.Unlock()
	globalContext.HumanLogs = value
}
