package utils

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// HashKey hashes a shared key using bcrypt (used to generate ADMIN_API_KEY_HASH).
func HashKey(key string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckKeyHash compares a plain key with a bcrypt hash.
func CheckKeyHash(plain, hashed string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	return err == nil
}

// CheckKey compares two plain keys in constant time.
func CheckKey(plain, expected string) bool {
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(plain), []byte(expected)) == 1
}
