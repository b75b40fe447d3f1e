package onetime

import (
	"crypto/rand"
	"errors"
	"math/big"
)

// codeAlphabet intentionally omits 0/O and 1/I/L: the code is typed back by
// a human reading it from an email or SMS.
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

var alphabetLen = big.NewInt(int64(len(codeAlphabet)))

// generateCode returns a fixed-length random code drawn from codeAlphabet
// using a cryptographic random source.
func generateCode(length int) (string, error) {
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", errors.Join(ErrFailedToGenerateCode, err)
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
