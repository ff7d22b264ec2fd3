package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateVerifyCode_Format(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateVerifyCode()
		require.NoError(t, err)
		assert.Regexp(t, `^[0-9a-z]{6}$`, code)
	}
}

func TestGenerateVerifyCode_UsesWholeAlphabet(t *testing.T) {
	seen := map[rune]bool{}
	for i := 0; i < 2000; i++ {
		code, err := GenerateVerifyCode()
		require.NoError(t, err)
		for _, r := range code {
			seen[r] = true
		}
	}
	// 12000 draws over 36 symbols; missing one is vanishingly unlikely.
	assert.Len(t, seen, len(verifyCodeAlphabet))
}

func TestNormalizeVerifyCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"a1b2c3", "a1b2c3", true},
		{"  a1b2c3 ", "a1b2c3", true},
		{"A1B2C3", "A1B2C3", false},
		{"a1b2c", "a1b2c", false},
		{"a1b2c3d", "a1b2c3d", false},
		{"a1-2c3", "a1-2c3", false},
		{"", "", false},
	}
	for _, tc := range tests {
		got, ok := NormalizeVerifyCode(tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
	}
}
