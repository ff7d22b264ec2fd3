package utils

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPasswordHash(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

const passwordSpecials = `!@#$%^&*(),.?":{}|<>`

// StrongPassword requires at least 8 characters with an upper-case letter,
// a digit and one of the special characters in passwordSpecials.
func StrongPassword(p string) bool {
	if len(p) < 8 {
		return false
	}
	var upper, digit, special bool
	for _, r := range p {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
		for _, s := range passwordSpecials {
			if r == s {
				special = true
			}
		}
	}
	return upper && digit && special
}
