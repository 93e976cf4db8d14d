// Package validation checks request payloads and catalog candidates before they reach storage.
package validation

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"movieflix-backend/internal/apperror"
	"movieflix-backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// Result holds the outcome of a validation pass. Message is the first
// violation; Errors lists all of them in field order.
type Result struct {
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Err converts a failed result into an apperror validation error, nil when valid.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return apperror.Validation(r.Errors...)
}

func (r *Result) add(msg string) {
	if r.Message == "" {
		r.Message = msg
	}
	r.Errors = append(r.Errors, msg)
}

var (
	once     sync.Once
	instance *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("genre", func(fl validator.FieldLevel) bool {
			return models.IsKnownGenre(fl.Field().String())
		})
		instance = v
	})
	return instance
}

// overrides carries hand-written messages keyed by namespace (json names).
var overrides = map[string]string{
	"MovieInput.title":       "Title must be 1-200 characters",
	"MovieInput.description": "Description must be 1-2000 characters",
	"MovieInput.year":        "Year must be between 1900-2030",
	"MovieInput.rating":      "Rating must be between 0-10",
	"MovieInput.director":    "Director name must be 1-100 characters",
	"MovieInput.image":       "Image must be a valid URL",
	"MovieInput.genre":       "At least one genre is required",
	"MovieInput.category":    "Invalid category",
	"SignupInput.name":       "Name must be at least 2 characters long",
	"SignupInput.password":   "Password must be at least 6 characters long",
	"ProfileInput.name":      "Name must be at least 2 characters long",
	"ProfileInput.password":  "Password must be at least 6 characters long",
}

// Struct runs the tag rules of v and returns every violation.
func Struct(v interface{}) Result {
	var res Result
	err := engine().Struct(v)
	if err == nil {
		return res
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		res.add(err.Error())
		return res
	}
	for _, fe := range verrs {
		res.add(messageFor(fe))
	}
	return res
}

func messageFor(fe validator.FieldError) string {
	if fe.Tag() == "genre" {
		return fmt.Sprintf("Unknown genre: %v", fe.Value())
	}
	if msg, ok := overrides[fe.Namespace()]; ok {
		return msg
	}
	field := displayName(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "Please enter a valid email"
	case "url":
		return field + " must be a valid URL"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s cannot exceed %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s cannot exceed %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

func displayName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToUpper(field[:1]) + field[1:]
}
