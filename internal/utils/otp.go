package utils

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"
)

const (
	VerifyCodeLength   = 6
	verifyCodeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

var verifyCodePattern = regexp.MustCompile(`^[0-9a-z]{6}$`)

// GenerateVerifyCode draws VerifyCodeLength symbols uniformly from [0-9a-z].
func GenerateVerifyCode() (string, error) {
	max := big.NewInt(int64(len(verifyCodeAlphabet)))
	var b strings.Builder
	b.Grow(VerifyCodeLength)
	for i := 0; i < VerifyCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(verifyCodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// NormalizeVerifyCode trims a submitted code and reports whether the result is
// well formed. Case is significant: codes are issued in lower case only.
func NormalizeVerifyCode(code string) (string, bool) {
	code = strings.TrimSpace(code)
	return code, verifyCodePattern.MatchString(code)
}
