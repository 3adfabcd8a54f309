// Package log provides the thin logging interface every core
// component logs through. New returns a logrus-backed implementation
// configured the same way across the core (plain text, no
// timestamps, insertion order preserved) so log output reads as
// "component message" regardless of which component is talking.
package log

import "github.com/sirupsen/logrus"

// Logger is the logging surface components depend on. Depending on an
// interface instead of *logrus.Logger directly keeps tests able to
// swap in NewNullLogger without dragging logrus into every test file.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// New returns a logrus.Logger formatted for the core: no colors, no
// timestamps, fields kept in the order they were added.
func New() Logger {
	l := logrus.New()
	l.SetLevel(logrus.DebugLevel)
	l.Formatter = &logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
		DisableSorting:   true,
		DisableQuote:     true,
	}
	return l
}
