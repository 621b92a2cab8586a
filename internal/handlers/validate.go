package handlers

import (
	"fmt"
	"net/mail"
	"unicode"
)

// Credential and form limits shared with the admin frontend forms.
const (
	UsernameMinLen = 5
	UsernameMaxLen = 32
	PasswordMinLen = 10
	PasswordMaxLen = 32

	ContactNameMinLen    = 2
	ContactNameMaxLen    = 100
	ContactMessageMinLen = 10
	ContactMessageMaxLen = 1000
)

func validateUsername(username string) error {
	if len(username) < UsernameMinLen {
		return fmt.Errorf("username must be at least %d characters", UsernameMinLen)
	}
	if len(username) > UsernameMaxLen {
		return fmt.Errorf("username must be at most %d characters", UsernameMaxLen)
	}
	return nil
}

func validatePasswordLength(password string) error {
	if len(password) < PasswordMinLen {
		return fmt.Errorf("password must be at least %d characters", PasswordMinLen)
	}
	if len(password) > PasswordMaxLen {
		return fmt.Errorf("password must be at most %d characters", PasswordMaxLen)
	}
	return nil
}

// validatePasswordComplexity applies the setup rules: at least one
// uppercase letter, one lowercase letter, one digit, and one special
// character.
func validatePasswordComplexity(password string) error {
	if err := validatePasswordLength(password); err != nil {
		return err
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	switch {
	case !upper:
		return fmt.Errorf("password must contain at least one uppercase letter")
	case !lower:
		return fmt.Errorf("password must contain at least one lowercase letter")
	case !digit:
		return fmt.Errorf("password must contain at least one number")
	case !special:
		return fmt.Errorf("password must contain at least one special character")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("please enter a valid email address")
	}
	return nil
}

func validateContactForm(name, email, message string) error {
	if len(name) < ContactNameMinLen || len(name) > ContactNameMaxLen {
		return fmt.Errorf("name must be between %d and %d characters",
			ContactNameMinLen, ContactNameMaxLen)
	}
	if err := validateEmail(email); err != nil {
		return err
	}
	if len(message) < ContactMessageMinLen || len(message) > ContactMessageMaxLen {
		return fmt.Errorf("message must be between %d and %d characters",
			ContactMessageMinLen, ContactMessageMaxLen)
	}
	return nil
}
