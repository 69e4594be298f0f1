package bank

import (
	"fmt"

	"github.com/bezalel6/computer-chess/pkg/challenge"
)

// ValidationError represents a validation issue found in a bank file.
type ValidationError struct {
	Field   string
	Message string
	Index   int // -1 if not applicable
}

func (e ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("challenges[%d].%s: %s", e.Index, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateFile validates a bank file structure and returns all errors found.
func ValidateFile(path string) []ValidationError {
	var errors []ValidationError

	file, err := readFile(path)
	if err != nil {
		return []ValidationError{{Field: "file", Message: err.Error(), Index: -1}}
	}

	if file.Version == "" {
		errors = append(errors, ValidationError{
			Field: "version", Message: "version is required", Index: -1,
		})
	}

	seen := make(map[challenge.Type]bool)
	for i, def := range file.Challenges {
		switch {
		case def.Type == "":
			errors = append(errors, ValidationError{
				Field: "type", Message: "challenge type is required", Index: i,
			})
		case !def.Type.Known():
			errors = append(errors, ValidationError{
				Field: "type", Message: fmt.Sprintf("unknown type: %s", def.Type), Index: i,
			})
		case seen[def.Type]:
			errors = append(errors, ValidationError{
				Field: "type", Message: fmt.Sprintf("duplicate type: %s", def.Type), Index: i,
			})
		default:
			seen[def.Type] = true
		}

		if !validWindow(def.Window) {
			errors = append(errors, ValidationError{
				Field: "time_window", Message: fmt.Sprintf("invalid time window: %s", def.Window), Index: i,
			})
		}
	}

	return errors
}
