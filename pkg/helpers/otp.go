package helpers

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// otpModulus bounds the code space: codes are decimal 000000-999999.
const otpModulus = 1_000_000

// GenOTPCode generates a uniformly random 6-digit OTP code as a zero-padded
// string. crypto/rand.Int uses rejection sampling, so every code in
// 000000-999999 is equally likely.
func GenOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpModulus))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
