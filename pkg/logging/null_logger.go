package logging

// NullLogger drops every entry. Engine pools, stores and sessions
// start with it until an option supplies a real logger.
type NullLogger struct{}

func (NullLogger) Info(string, ...Field)  {}
func (NullLogger) Warn(string, ...Field)  {}
func (NullLogger) Error(string, ...Field) {}
func (NullLogger) Debug(string, ...Field) {}

// WithFields returns the receiver; there is nothing to scope.
func (n NullLogger) WithFields(...Field) Logger { return n }

func (NullLogger) Close() error { return nil }
