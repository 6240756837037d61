package rlog

import "github.com/sirupsen/logrus"

// NewLogrus returns a Logger backed by entry. debug controls whether V(n)
// for n > 0 is emitted; this is the rosDebug config switch from spec.md §6.
func NewLogrus(entry *logrus.Entry, debug bool) Logger {
	return &logrusLogger{entry: entry, debug: debug}
}

type logrusLogger struct {
	entry *logrus.Entry
	debug bool
	level int
}

func (l *logrusLogger) Infof(format string, args ...interface{}) {
	if l.level > 0 && !l.debug {
		return
	}
	l.entry.Infof(format, args...)
}

func (l *logrusLogger) Error(args ...interface{}) {
	l.entry.Error(args...)
}

func (l *logrusLogger) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

func (l *logrusLogger) V(level int) InfoLogger {
	return &logrusLogger{entry: l.entry, debug: l.debug, level: level}
}

func (l *logrusLogger) WithPrefix(prefix string) Logger {
	return &logrusLogger{entry: l.entry.WithField("component", prefix), debug: l.debug, level: l.level}
}

func (l *logrusLogger) WithField(key string, value interface{}) Logger {
	return &logrusLogger{entry: l.entry.WithField(key, value), debug: l.debug, level: l.level}
}
