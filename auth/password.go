package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

const (
	generatedPasswordLen = 12
	passwordSymbols      = "!@#$%&*"
	passwordUpper        = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	passwordLower        = "abcdefghijkmnpqrstuvwxyz"
	passwordDigits       = "23456789"
)

// GeneratePassword returns a random staff password with at least one
// uppercase letter, lowercase letter, digit and symbol. Never log it.
func GeneratePassword() (string, error) {
	classes := []string{passwordUpper, passwordLower, passwordDigits, passwordSymbols}
	all := passwordUpper + passwordLower + passwordDigits + passwordSymbols

	result := make([]byte, generatedPasswordLen)
	for i := range result {
		set := all
		if i < len(classes) {
			set = classes[i]
		}
		n, err := randInt(len(set))
		if err != nil {
			return "", err
		}
		result[i] = set[n]
	}
	// Fisher-Yates so the guaranteed classes are not always up front.
	for i := len(result) - 1; i > 0; i-- {
		j, err := randInt(i + 1)
		if err != nil {
			return "", fmt.Errorf("shuffle: %w", err)
		}
		result[i], result[j] = result[j], result[i]
	}
	return string(result), nil
}

func randInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, plain string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
