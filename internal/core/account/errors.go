package account

import (
	"errors"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Field error codes.
const (
	CodeBlank        = "blank"
	CodeTooLong      = "too_long"
	CodeLength       = "length"
	CodeInvalid      = "invalid"
	CodeTaken        = "taken"
	CodeConfirmation = "confirmation"
)

type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Add(field, code, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Code: code, Message: message})
	sort.SliceStable(e.Fields, func(i, j int) bool { return e.Fields[i].Field < e.Fields[j].Field })
}

// Has reports whether field failed with the given code.
func (e *ValidationError) Has(field, code string) bool {
	for _, f := range e.Fields {
		if f.Field == field && f.Code == code {
			return true
		}
	}
	return false
}

func (e *ValidationError) HasField(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// OrNil returns nil when no field failed.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// NewValidationError converts the result of an ozzo-validation run.
// Internal validation errors are returned unchanged.
func NewValidationError(err error) (*ValidationError, error) {
	verr := &ValidationError{}
	if err == nil {
		return verr, nil
	}

	var errs validation.Errors
	if !errors.As(err, &errs) {
		return nil, err
	}

	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, field := range keys {
		fe := errs[field]
		code := CodeInvalid
		var ve validation.Error
		if errors.As(fe, &ve) {
			code = ve.Code()
		}
		verr.Fields = append(verr.Fields, FieldError{Field: field, Code: code, Message: fe.Error()})
	}
	return verr, nil
}
