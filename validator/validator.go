// Package validator provides input validation functions
package validator

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/constants"
	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/errors"
)

var dimensionPattern = regexp.MustCompile(`^[1-9][0-9]*x[1-9][0-9]*$`)

// Validator provides validation methods
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidatePurity validates purity parameter. Empty means "not filtered".
func (v *Validator) ValidatePurity(value string) error {
	return validateBitmask("purity", value)
}

// ValidateCategories validates categories parameter. Empty means "not filtered".
func (v *Validator) ValidateCategories(value string) error {
	return validateBitmask("categories", value)
}

// ValidateSort validates sort parameter
func (v *Validator) ValidateSort(value string) error {
	if value == "" || slices.Contains(constants.ValidSorts, value) {
		return nil
	}
	return errors.NewValidationError("sorting", value, "must be one of: "+strings.Join(constants.ValidSorts, ", "))
}

// ValidateAtLeast validates the minimum resolution filter (e.g. 1920x1080)
func (v *Validator) ValidateAtLeast(value string) error {
	if value == "" || dimensionPattern.MatchString(value) {
		return nil
	}
	return errors.NewValidationError("atleast", value, "must look like WIDTHxHEIGHT")
}

// ValidateRatios validates each aspect ratio entry
func (v *Validator) ValidateRatios(values []string) error {
	for _, value := range values {
		if dimensionPattern.MatchString(value) || slices.Contains(constants.RatioKeywords, value) {
			continue
		}
		return errors.NewValidationError("ratios", value, "must look like WxH, landscape or portrait")
	}
	return nil
}

// ValidateInterval validates the poll interval in seconds
func (v *Validator) ValidateInterval(value int) error {
	if value <= 0 {
		return errors.NewValidationError("interval", strconv.Itoa(value), "must be a positive number of seconds")
	}
	return nil
}

// ValidateHistorySize validates the recent history cap
func (v *Validator) ValidateHistorySize(value int) error {
	if value <= 0 {
		return errors.NewValidationError("history_size", strconv.Itoa(value), "must be positive")
	}
	return nil
}

// ValidateMaxFiles validates the retention cap, 0 disables it
func (v *Validator) ValidateMaxFiles(value int) error {
	if value < 0 {
		return errors.NewValidationError("max_files", strconv.Itoa(value), "must be zero or positive")
	}
	return nil
}

// ValidateLogLevel validates the log level
func (v *Validator) ValidateLogLevel(value string) error {
	if slices.Contains(constants.ValidLogLevels, value) {
		return nil
	}
	return errors.NewValidationError("log_level", value, "must be one of: "+strings.Join(constants.ValidLogLevels, ", "))
}

func validateBitmask(field, value string) error {
	if value == "" {
		return nil
	}
	if len(value) != 3 {
		return errors.NewValidationError(field, value, "must be 3 characters long")
	}
	for _, char := range value {
		if char != '0' && char != '1' {
			return errors.NewValidationError(field, value, "must contain only '0' and '1'")
		}
	}
	return nil
}
