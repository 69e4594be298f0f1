package logging

import "errors"

// MultiLogger writes every entry to each of its loggers in order.
// Setup uses it to pair stderr output with the JSON game log file.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger returns a logger writing to each of loggers.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	return &MultiLogger{loggers: loggers}
}

func (m *MultiLogger) each(fn func(Logger)) {
	for _, l := range m.loggers {
		fn(l)
	}
}

func (m *MultiLogger) Info(msg string, fields ...Field) {
	m.each(func(l Logger) { l.Info(msg, fields...) })
}

func (m *MultiLogger) Warn(msg string, fields ...Field) {
	m.each(func(l Logger) { l.Warn(msg, fields...) })
}

func (m *MultiLogger) Error(msg string, fields ...Field) {
	m.each(func(l Logger) { l.Error(msg, fields...) })
}

func (m *MultiLogger) Debug(msg string, fields ...Field) {
	m.each(func(l Logger) { l.Debug(msg, fields...) })
}

// WithFields scopes every destination at once, so a session's
// game_id and player reach both the console and the game log.
func (m *MultiLogger) WithFields(fields ...Field) Logger {
	scoped := make([]Logger, 0, len(m.loggers))
	m.each(func(l Logger) { scoped = append(scoped, l.WithFields(fields...)) })
	return &MultiLogger{loggers: scoped}
}

// Close closes every logger and joins their errors.
func (m *MultiLogger) Close() error {
	var errs []error
	m.each(func(l Logger) {
		if err := l.Close(); err != nil {
			errs = append(errs, err)
		}
	})
	return errors.Join(errs...)
}
