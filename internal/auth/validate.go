package auth

import (
	"strings"

	"github.com/threadmind/threadmind/internal/faults"
)

// validateRegister enforces the registration input policy before any
// persistence attempt. The first violation short-circuits.
func validateRegister(username, email, password string) *faults.Fault {
	if len(username) < 2 {
		return faults.Validation("username", "Username must be at least 2 characters")
	}
	if strings.Contains(username, "@") {
		return faults.Validation("username", "Username cannot include an @")
	}
	if !strings.Contains(email, "@") {
		return faults.Validation("email", "Invalid email")
	}
	return validatePassword("password", password)
}

// validatePassword enforces the password policy, tagging the error with
// the given field name so register and change-password report correctly.
func validatePassword(field, password string) *faults.Fault {
	if len(password) < 5 {
		return faults.Validation(field, "Password must be at least 5 characters")
	}
	return nil
}
