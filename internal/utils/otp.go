package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateOTP возвращает шестизначный числовой код.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
