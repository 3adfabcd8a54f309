package log

// nullLogger discards everything; used by tests.
type nullLogger struct{}

func (nullLogger) Infof(string, ...interface{})  {}
func (nullLogger) Errorf(string, ...interface{}) {}
func (nullLogger) Warnf(string, ...interface{})  {}
func (nullLogger) Debugf(string, ...interface{}) {}

// NewNullLogger returns a Logger that discards everything written to it.
func NewNullLogger() Logger { return nullLogger{} }
