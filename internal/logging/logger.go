// Package logging adapts logrus to the runtime.Logger interface so the
// same controller code runs inside the game server and in standalone
// binaries.
package logging

import (
	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/sirupsen/logrus"
)

type logrusLogger struct {
	entry *logrus.Entry
}

// New returns a runtime.Logger backed by a fresh logrus logger at the
// given level.
func New(level logrus.Level) runtime.Logger {
	l := logrus.New()
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

// Wrap adapts an existing logrus logger.
func Wrap(l *logrus.Logger) runtime.Logger {
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

func (l *logrusLogger) Debug(format string, v ...interface{}) {
	l.entry.Debugf(format, v...)
}

func (l *logrusLogger) Info(format string, v ...interface{}) {
	l.entry.Infof(format, v...)
}

func (l *logrusLogger) Warn(format string, v ...interface{}) {
	l.entry.Warnf(format, v...)
}

func (l *logrusLogger) Error(format string, v ...interface{}) {
	l.entry.Errorf(format, v...)
}

func (l *logrusLogger) WithField(key string, v interface{}) runtime.Logger {
	return &logrusLogger{entry: l.entry.WithField(key, v)}
}

func (l *logrusLogger) WithFields(fields map[string]interface{}) runtime.Logger {
	return &logrusLogger{entry: l.entry.WithFields(fields)}
}

func (l *logrusLogger) Fields() map[string]interface{} {
	out := make(map[string]interface{}, len(l.entry.Data))
	for k, v := range l.entry.Data {
		out[k] = v
	}
	return out
}
