package service

import (
	"crypto/rand"
	"math/big"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// CodeLength is the fixed length of a share code.
const CodeLength = 8

// CodeGenerator mints share codes for saved batches.
type CodeGenerator interface {
	Generate() (string, error)
}

type randomCodeGenerator struct{}

// NewCodeGenerator returns a generator producing 8-character codes drawn
// uniformly from upper and lower case letters and digits.
func NewCodeGenerator() CodeGenerator {
	return randomCodeGenerator{}
}

func (randomCodeGenerator) Generate() (string, error) {
	alphabetSize := big.NewInt(int64(len(codeAlphabet)))
	buf := make([]byte, CodeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
