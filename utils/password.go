package utils

import (
	"errors"
	"fmt"

	"github.com/matthewhartstonge/argon2"
)

var ErrEmptyPassword = errors.New("password must not be empty")

// passwordConfig is argon2id with the library defaults. Encoded hashes carry
// their own parameters, so changing it only affects new hashes.
var passwordConfig = argon2.DefaultConfig()

// HashPassword returns the PHC-encoded argon2id hash stored in users.password_hash.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	encoded, err := passwordConfig.HashEncoded([]byte(password))
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(encoded), nil
}

func VerifyPassword(encodedHash, password string) (bool, error) {
	if encodedHash == "" || password == "" {
		return false, nil
	}

	ok, err := argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
	if err != nil {
		return false, fmt.Errorf("verify password: %w", err)
	}
	return ok, nil
}
