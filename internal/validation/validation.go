// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"oacmarket/internal/models"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return models.NewValidationError("invalid email format")
	}

	if len(email) > 254 {
		return models.NewValidationError("email must not exceed 254 characters")
	}

	return nil
}

// ValidatePassword checks if a password meets minimum requirements
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return models.NewValidationError("password must be at least 8 characters long")
	}

	if len(password) > 128 {
		return models.NewValidationError("password must not exceed 128 characters")
	}

	return nil
}

// ValidateName checks a user or store display name
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return models.NewValidationError("name is required")
	}
	if len(trimmed) > 120 {
		return models.NewValidationError("name must not exceed 120 characters")
	}
	return nil
}

// ValidateRole checks that a registration role is one of the known roles
func ValidateRole(role models.Role) error {
	switch role {
	case models.RoleSeller, models.RoleBuyer:
		return nil
	}
	return models.NewValidationError(
		fmt.Sprintf("role must be %q or %q", models.RoleSeller, models.RoleBuyer))
}
