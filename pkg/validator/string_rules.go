package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Required fails for empty or whitespace-only values.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: ValidationError{
			Field:   field,
			Key:     "validation.required",
			Message: "This value should not be blank.",
		},
	}
}

// MaxLen limits value to max characters.
func MaxLen(field, value string, max int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) <= max },
		Error: ValidationError{
			Field:   field,
			Key:     "validation.max_length",
			Message: fmt.Sprintf("This value is too long. It should have %d characters or less.", max),
		},
	}
}

// Valid reports a failure when ok is false. Use it for checks done elsewhere,
// such as a parse step.
func Valid(field string, ok bool) Rule {
	return Rule{
		Check: func() bool { return ok },
		Error: ValidationError{
			Field:   field,
			Key:     "validation.invalid",
			Message: "This value is not valid.",
		},
	}
}
