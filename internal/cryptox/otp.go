package cryptox

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateOTP returns a uniformly random numeric code of the given number of
// digits, left-padded with zeros ("004217").
func GenerateOTP(digits int) (string, error) {
	if digits <= 0 || digits > 18 {
		return "", fmt.Errorf("otp length out of range: %d", digits)
	}

	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%0*d", digits, n.Int64()), nil
}
