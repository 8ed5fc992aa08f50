package logging

import (
	"strings"

	"go.uber.org/zap"
)

// ApplicationLogger is the logger used by library packages. Messages containing
// format verbs are treated as printf templates; otherwise args are key/value pairs.
type ApplicationLogger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// zapLogger wraps zap.Logger to implement the ApplicationLogger interface
type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger creates a new application logger adapter
func NewZapLogger(logger *zap.Logger) ApplicationLogger {
	return &zapLogger{sugar: logger.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func (l *zapLogger) Debug(msg string, args ...interface{}) {
	if isTemplate(msg, args) {
		l.sugar.Debugf(msg, args...)
		return
	}
	l.sugar.Debugw(msg, args...)
}

func (l *zapLogger) Info(msg string, args ...interface{}) {
	if isTemplate(msg, args) {
		l.sugar.Infof(msg, args...)
		return
	}
	l.sugar.Infow(msg, args...)
}

func (l *zapLogger) Warn(msg string, args ...interface{}) {
	if isTemplate(msg, args) {
		l.sugar.Warnf(msg, args...)
		return
	}
	l.sugar.Warnw(msg, args...)
}

func (l *zapLogger) Error(msg string, args ...interface{}) {
	if isTemplate(msg, args) {
		l.sugar.Errorf(msg, args...)
		return
	}
	l.sugar.Errorw(msg, args...)
}

func isTemplate(msg string, args []interface{}) bool {
	return len(args) > 0 && strings.Contains(msg, "%")
}

type noOpLogger struct{}

// NewNoOpLogger returns a logger that discards everything
func NewNoOpLogger() ApplicationLogger {
	return noOpLogger{}
}

func (noOpLogger) Debug(string, ...interface{}) {}
func (noOpLogger) Info(string, ...interface{})  {}
func (noOpLogger) Warn(string, ...interface{})  {}
func (noOpLogger) Error(string, ...interface{}) {}
