package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// OTPLength is the fixed number of decimal digits in a one-time password.
const OTPLength = 6

// GenerateOTP returns a fixed-length numeric one-time code drawn from
// crypto/rand. Leading zeros are preserved, so "012345" is a valid code.
func GenerateOTP() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < OTPLength; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("error generating OTP code: %w", err)
	}

	return fmt.Sprintf("%0*d", OTPLength, n), nil
}
