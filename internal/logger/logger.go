// Package logger provides a simple verbose logging utility for the CLI.
package logger

import (
	"fmt"
	"os"
	"time"
)

// Level represents the logging level
type Level int

const (
	// LevelOff disables all logging
	LevelOff Level = iota
	// LevelInfo shows basic progress information
	LevelInfo
	// LevelDebug shows detailed debugging information
	LevelDebug
)

var (
	currentLevel = LevelOff
	startTime    = time.Now()
)

// SetLevel sets the global logging level and resets the elapsed-time clock.
func SetLevel(level Level) {
	currentLevel = level
	startTime = time.Now()
}

// GetLevel returns the current logging level
func GetLevel() Level {
	return currentLevel
}

// IsVerbose returns true if verbose logging is enabled
func IsVerbose() bool {
	return currentLevel >= LevelInfo
}

// IsDebug returns true if debug logging is enabled
func IsDebug() bool {
	return currentLevel >= LevelDebug
}

// Info logs an informational message (shown with --verbose)
func Info(format string, args ...any) {
	if currentLevel >= LevelInfo {
		emit("", format, args...)
	}
}

// Debug logs a debug message (shown with --debug)
func Debug(format string, args ...any) {
	if currentLevel >= LevelDebug {
		emit("[DEBUG] ", format, args...)
	}
}

// Error logs an error message (always shown when verbose is on)
func Error(format string, args ...any) {
	if currentLevel >= LevelInfo {
		emit("[ERROR] ", format, args...)
	}
}

func emit(tag, format string, args ...any) {
	elapsed := time.Since(startTime).Round(time.Millisecond)
	prefix := fmt.Sprintf("[%s] %s", elapsed, tag)
	fmt.Fprintf(os.Stderr, prefix+format+"\n", args...)
}
