package predict

import (
	"errors"
	"strings"
)

const (
	MinAge = 18
	MaxAge = 60

	// Nobody is assumed to have worked before this age.
	workStartAge = 16
)

// ErrInvalidInput marks inputs rejected before reaching the model.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError carries the messages of every failed check.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.Messages, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// ValidateAge accepts ages in [MinAge, MaxAge]. The message is returned
// whether or not the check passes.
//
// NOTE: the message says 100 while 60 is enforced, and the form lets users
// pick up to 100. Both are kept as shipped; change them together or not at all.
func ValidateAge(age int) (bool, string) {
	return age >= MinAge && age <= MaxAge, "Age must be between 18 and 100"
}

// ValidateExperience requires 0 <= experience <= age-16.
func ValidateExperience(experience, age int) (bool, string) {
	if experience < 0 {
		return false, "Experience cannot be negative"
	}
	if experience > age-workStartAge {
		return false, "Experience cannot exceed (Age - 16) years"
	}
	return true, ""
}

// Check runs both checks and returns the messages of the failing ones, age
// first. An empty result means the input may be submitted.
func Check(age, experience int) []string {
	var msgs []string
	if ok, msg := ValidateAge(age); !ok {
		msgs = append(msgs, msg)
	}
	if ok, msg := ValidateExperience(experience, age); !ok {
		msgs = append(msgs, msg)
	}
	return msgs
}

// BlockedMessage is shown when a prediction is requested with failing checks.
const BlockedMessage = "Please fix the validation errors above before predicting."
