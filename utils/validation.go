// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	// 17 characters from the VIN alphabet (no I, O or Q)
	vinRegex   = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)
	phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
)

// ValidateEmail checks a basic email shape
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidateVIN checks a 17-character vehicle identification number
func ValidateVIN(vin string) bool {
	return vinRegex.MatchString(strings.ToUpper(vin))
}

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	// Clean the phone number
	cleaned := strings.ReplaceAll(phone, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	cleaned = strings.ReplaceAll(cleaned, "(", "")
	cleaned = strings.ReplaceAll(cleaned, ")", "")

	return phoneRegex.MatchString(cleaned)
}
