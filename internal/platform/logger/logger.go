// Package logger provides structured logging for the pet services.
// Every action taken on the pet should be traceable through this.
package logger

import (
	"io"
	"log"
	"os"
)

// Logger provides structured logging with context.
type Logger struct {
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
}

// NewLogger creates a new logger instance writing info to stdout and errors to stderr.
func NewLogger() *Logger {
	return &Logger{
		infoLogger:  log.New(os.Stdout, "[PET-INFO] ", log.Ldate|log.Ltime|log.Lshortfile),
		warnLogger:  log.New(os.Stdout, "[PET-WARN] ", log.Ldate|log.Ltime|log.Lshortfile),
		errorLogger: log.New(os.Stderr, "[PET-ERROR] ", log.Ldate|log.Ltime|log.Lshortfile),
	}
}

// NewLoggerTo sends every level to w.
func NewLoggerTo(w io.Writer) *Logger {
	return &Logger{
		infoLogger:  log.New(w, "[PET-INFO] ", log.Ltime),
		warnLogger:  log.New(w, "[PET-WARN] ", log.Ltime),
		errorLogger: log.New(w, "[PET-ERROR] ", log.Ltime),
	}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return NewLoggerTo(io.Discard)
}

// Info logs informational messages.
func (l *Logger) Info(msg string) {
	l.infoLogger.Output(2, msg)
}

// Warn logs warning messages.
func (l *Logger) Warn(msg string) {
	l.warnLogger.Output(2, msg)
}

// Error logs error messages.
func (l *Logger) Error(msg string) {
	l.errorLogger.Output(2, msg)
}

// Event logs a specific pet event.
func (l *Logger) Event(eventType string, actorID string, details string) {
	l.infoLogger.Printf("[EVENT:%s] Actor:%s | %s", eventType, actorID, details)
}
