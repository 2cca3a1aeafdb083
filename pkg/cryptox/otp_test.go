package cryptox

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateOTP(t *testing.T) {
	t.Run("always six digits", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			code, err := GenerateOTP()
			require.NoError(t, err)
			require.Len(t, code, OTPDigits)

			n, err := strconv.Atoi(code)
			require.NoError(t, err)
			require.GreaterOrEqual(t, n, 100000)
			require.LessOrEqual(t, n, 999999)
		}
	})
}

func TestGenerateBackupCode(t *testing.T) {
	t.Run("eight chars from safe charset", func(t *testing.T) {
		code, err := GenerateBackupCode()
		require.NoError(t, err)
		require.Len(t, code, BackupCodeLength)
		for _, c := range code {
			require.Contains(t, backupCodeCharset, string(c))
		}
	})

	t.Run("codes are unique", func(t *testing.T) {
		seen := make(map[string]struct{})
		for i := 0; i < 50; i++ {
			code, err := GenerateBackupCode()
			require.NoError(t, err)
			_, dup := seen[code]
			require.False(t, dup, "duplicate backup code generated")
			seen[code] = struct{}{}
		}
	})
}
