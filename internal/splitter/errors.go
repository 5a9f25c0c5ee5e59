package splitter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// ErrValidation is matched by every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// FieldTotalIncome is the pseudo-field reported when both incomes are zero.
const FieldTotalIncome = "totalIncome"

// FieldError describes why a single input was rejected.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every rejected input of one request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := lo.Map(e.Fields, func(f FieldError, _ int) string {
		return f.Field + " " + f.Message
	})
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ByField returns the messages keyed by field name. When a field fails
// more than one rule only the first message is kept.
func (e *ValidationError) ByField() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		if _, ok := out[f.Field]; !ok {
			out[f.Field] = f.Message
		}
	}
	return out
}

// Add appends a field error, used by callers that reject input before it
// reaches Compute (e.g. unparsable text).
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func fromValidator(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("splitter: validate: %w", err)
	}
	return &ValidationError{Fields: lo.Map(verrs, func(fe validator.FieldError, _ int) FieldError {
		return FieldError{Field: fe.Field(), Message: messageFor(fe)}
	})}
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "finite":
		return "must be a finite number"
	case "gte":
		return "must not be negative"
	case "lte":
		return "must not exceed " + humanize.Comma(MaxAmount)
	default:
		return "is invalid"
	}
}
