package logging

import "time"

// LogField creates a Field from a key-value pair. This is a
// convenience function for constructing structured log fields.
func LogField(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// StringField creates a Field with a string value.
func StringField(key, value string) Field {
	return Field{Key: key, Value: value}
}

// IntField creates a Field with an integer value.
func IntField(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Float64Field creates a Field with a float64 value.
func Float64Field(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

// BoolField creates a Field with a boolean value.
func BoolField(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// DurationField records a duration in milliseconds.
func DurationField(key string, d time.Duration) Field {
	return Field{Key: key + "_ms", Value: d.Milliseconds()}
}

// ErrorField creates a Field for an error value. If err is nil,
// the value is set to the string "<nil>".
func ErrorField(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: "<nil>"}
	}
	return Field{Key: "error", Value: err.Error()}
}

// MoveField tags an entry with a move in UCI notation.
func MoveField(move string) Field {
	return Field{Key: "move", Value: move}
}

// FENField tags an entry with a position.
func FENField(fen string) Field {
	return Field{Key: "fen", Value: fen}
}

// GameField tags an entry with a game identifier.
func GameField(id string) Field {
	return Field{Key: "game_id", Value: id}
}

// ChallengeField tags an entry with a challenge identifier.
func ChallengeField(id string) Field {
	return Field{Key: "challenge_id", Value: id}
}
