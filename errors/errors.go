// Package errors defines custom error types for wallhaven_wallpaper
package errors

import (
	"errors"
	"fmt"
)

// Application error types
var (
	ErrNoWallpapersFound = errors.New("no wallpapers found")
	ErrMissingURL        = errors.New("wallpaper URL not found")
	ErrDownloadFailed    = errors.New("failed to download wallpaper")
	ErrScriptExecution   = errors.New("failed to execute script")
	ErrAPIRequest        = errors.New("API request failed")
	ErrInvalidResponse   = errors.New("invalid API response")
	ErrCatalogOperation  = errors.New("catalog operation failed")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrConfigNotFound    = errors.New("config not found")
	ErrMissingAPIKey     = errors.New("WALLHAVEN_API_KEY not defined")
	ErrStateOperation    = errors.New("state operation failed")
	ErrValidation        = errors.New("validation failed")
)

// ValidationError represents a validation error with details
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s' with value '%s': %s", e.Field, e.Value, e.Message)
}

// Unwrap lets errors.Is match ErrValidation.
func (e ValidationError) Unwrap() error {
	return ErrValidation
}

// APIError represents an API-related error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e APIError) Error() string {
	return fmt.Sprintf("API error at %s: status %d - %s", e.Endpoint, e.StatusCode, e.Message)
}

// Unwrap lets errors.Is match ErrAPIRequest.
func (e APIError) Unwrap() error {
	return ErrAPIRequest
}

// CycleError is a recoverable failure of one poll cycle, tagged with the
// phase it happened in.
type CycleError struct {
	Phase string
	Err   error
}

func (e CycleError) Error() string {
	return fmt.Sprintf("%s: %v", e.Phase, e.Err)
}

func (e CycleError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new validation error
func NewValidationError(field, value, message string) error {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// NewAPIError creates a new API error
func NewAPIError(endpoint string, statusCode int, message string) error {
	return &APIError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    message,
	}
}

// NewCycleError wraps err with the cycle phase it came from
func NewCycleError(phase string, err error) error {
	return &CycleError{Phase: phase, Err: err}
}
