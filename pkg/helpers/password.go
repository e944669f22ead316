package helpers

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a plaintext credential (login password or OTP code) using
// bcrypt. The embedded salt makes the output non-deterministic; verification
// goes through CompareHashAndPassword, never string equality.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword reports whether plain hashes to hash under the salt
// and cost embedded in hash. Malformed hashes simply report false.
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
