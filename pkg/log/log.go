/*
Copyright The Shipshift Contributors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package log contains the logging subsystem of deploy-cli. Diagnostics go
// through here; the human-facing output of each subcommand is written to the
// command writer instead.
package log

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log level names accepted by the --log-level flag
const (
	// ErrorLevelString is the string representation of the error level
	ErrorLevelString = "error"

	// WarningLevelString is the string representation of the warning level
	WarningLevelString = "warning"

	// InfoLevelString is the string representation of the info level
	InfoLevelString = "info"

	// DebugLevelString is the string representation of the debug level
	DebugLevelString = "debug"

	// TraceLevelString is the string representation of the trace level
	TraceLevelString = "trace"

	// DefaultLevelString is the level used when nothing is configured
	DefaultLevelString = InfoLevelString
)

// The zapcore levels backing each verbosity name. Trace sits below zap's
// debug level.
const (
	// ErrorLevel is the error level priority
	ErrorLevel = zapcore.ErrorLevel

	// WarningLevel is the warning level priority
	WarningLevel = zapcore.WarnLevel

	// InfoLevel is the info level priority
	InfoLevel = zapcore.InfoLevel

	// DebugLevel is the debug level priority
	DebugLevel = zapcore.DebugLevel

	// TraceLevel is the trace level priority
	TraceLevel = zapcore.Level(-2)

	// DefaultLevel is the level used when nothing is configured
	DefaultLevel = InfoLevel
)

// Logger is the reduced interface used by deploy-cli to log messages with
// attached key/value pairs
type Logger interface {
	Error(err error, msg string, keysAndValues ...interface{})
	Warning(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Trace(msg string, keysAndValues ...interface{})
	WithValues(keysAndValues ...interface{}) Logger
	WithName(name string) Logger

	// GetLogger returns the backing zap logger, needed to bridge
	// the client-go and controller-runtime logging
	GetLogger() *zap.Logger
}

type logger struct {
	z *zap.Logger
}

// Log is the logger of the process, a null logger until SetupLogger
// or SetLogger configure it
var Log Logger = NewLogger(zap.NewNop())

// NewLogger wraps a zap logger in the Logger interface
func NewLogger(z *zap.Logger) Logger {
	return &logger{z: z}
}

// SetLogger replaces the process logger
func SetLogger(l Logger) {
	Log = l
}

func (l *logger) Error(err error, msg string, keysAndValues ...interface{}) {
	kv := keysAndValues
	if err != nil {
		kv = append([]interface{}{"error", err.Error()}, keysAndValues...)
	}
	l.z.Sugar().Errorw(msg, kv...)
}

func (l *logger) Warning(msg string, keysAndValues ...interface{}) {
	l.z.Sugar().Warnw(msg, keysAndValues...)
}

func (l *logger) Info(msg string, keysAndValues ...interface{}) {
	l.z.Sugar().Infow(msg, keysAndValues...)
}

func (l *logger) Debug(msg string, keysAndValues ...interface{}) {
	l.z.Sugar().Debugw(msg, keysAndValues...)
}

func (l *logger) Trace(msg string, keysAndValues ...interface{}) {
	l.z.Sugar().Logw(TraceLevel, msg, keysAndValues...)
}

func (l *logger) WithValues(keysAndValues ...interface{}) Logger {
	return &logger{z: l.z.Sugar().With(keysAndValues...).Desugar()}
}

func (l *logger) WithName(name string) Logger {
	return &logger{z: l.z.Named(name)}
}

func (l *logger) GetLogger() *zap.Logger {
	return l.z
}

type contextKey struct{}

// IntoContext injects a logger in a context for later retrieval with
// FromContext
func IntoContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext retrieves the logger injected by IntoContext, falling back
// to the process logger
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(contextKey{}).(Logger); ok {
		return l
	}
	return Log
}

// Error logs an error using the process logger
func Error(err error, msg string, keysAndValues ...interface{}) {
	Log.Error(err, msg, keysAndValues...)
}

// Warning logs a warning using the process logger
func Warning(msg string, keysAndValues ...interface{}) {
	Log.Warning(msg, keysAndValues...)
}

// Info logs a message using the process logger
func Info(msg string, keysAndValues ...interface{}) {
	Log.Info(msg, keysAndValues...)
}

// Debug logs a debug message using the process logger
func Debug(msg string, keysAndValues ...interface{}) {
	Log.Debug(msg, keysAndValues...)
}

// Trace logs a trace message using the process logger
func Trace(msg string, keysAndValues ...interface{}) {
	Log.Trace(msg, keysAndValues...)
}
