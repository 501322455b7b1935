package services

import (
	"fmt"
	"unicode"
)

// Password requirements
const (
	MinPasswordLength = 8
)

// ValidatePassword checks if the password meets the complexity requirements
// - At least 8 characters
// - At least one letter
// - At least one number
func ValidatePassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return fmt.Errorf("la contraseña debe tener al menos %d caracteres", MinPasswordLength)
	}

	var hasLetter, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	if !hasLetter {
		return fmt.Errorf("la contraseña debe contener al menos una letra")
	}
	if !hasNumber {
		return fmt.Errorf("la contraseña debe contener al menos un número")
	}
	return nil
}
