package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// validate reports fields by their koanf keys, so messages name what the
// user sets in YAML or APP_* variables.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "" {
			return f.Name
		}

		return name
	})

	return v
}

// fieldHints explain card settings whose valid values are not obvious.
var fieldHints = map[string]string{
	"card.background_mode":   "remote looks up photos on Unsplash, curated rotates built-in images",
	"card.refresh_timeout":   "a refresh waits for the image preload",
	"card.preload_max_bytes": "larger background images fail to preload",
}

// Validate validates the configuration and returns an error if invalid.
// The service refuses to start with an invalid config.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

// formatValidationErrors converts validator errors to a readable format.
func formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	errs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		errs = append(errs, formatFieldError(e))
	}

	return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
}

// formatFieldError formats one failure as
// "<key> <problem>[; <hint>] (<env var>)".
func formatFieldError(e validator.FieldError) string {
	key := formatFieldPath(e.Namespace())

	msg := key + " " + describeFailure(e, key)
	if hint, ok := fieldHints[key]; ok {
		msg += "; " + hint
	}

	return fmt.Sprintf("%s (%s)", msg, envVarName(key))
}

func describeFailure(e validator.FieldError, key string) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "required_if":
		return "is required when " + formatSiblingCondition(key, e.Param())
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "oneof":
		return fmt.Sprintf("must be one of: %s, got %q", e.Param(), fmt.Sprint(e.Value()))
	case "url":
		return "must be a valid URL"
	case "gtefield":
		return "must be at least " + siblingKey(key, e.Param())
	default:
		return "failed validation: " + e.Tag()
	}
}

// formatFieldPath converts "Config.card.background_mode" to
// "card.background_mode".
func formatFieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}

	for i, part := range parts {
		parts[i] = toSnake(part)
	}

	return strings.Join(parts, ".")
}

// siblingKey returns the key of Go field name next to key.
func siblingKey(key, field string) string {
	if i := strings.LastIndex(key, "."); i >= 0 {
		return key[:i+1] + toSnake(field)
	}

	return toSnake(field)
}

// formatSiblingCondition turns "Enabled true" into "telemetry.enabled is true".
func formatSiblingCondition(key, param string) string {
	field, value, ok := strings.Cut(param, " ")
	if !ok {
		return siblingKey(key, param)
	}

	return siblingKey(key, field) + " is " + value
}

// envVarName is the APP_* variable that sets key.
func envVarName(key string) string {
	return "APP_" + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}

// toSnake converts a Go identifier to snake case; snake case input is
// returned unchanged.
func toSnake(name string) string {
	var b strings.Builder

	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 && !unicode.IsUpper(rune(name[i-1])) {
				b.WriteByte('_')
			}

			r = unicode.ToLower(r)
		}

		b.WriteRune(r)
	}

	return b.String()
}
