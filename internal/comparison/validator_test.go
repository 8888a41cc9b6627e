package comparison

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestValidator_ValidatePair(t *testing.T) {
	v := NewRequestValidator()

	cases := []struct {
		name    string
		from    string
		to      string
		wantErr error
	}{
		{"valid pair", "GBP", "EUR", nil},
		{"missing from", "", "EUR", ErrFromRequired},
		{"missing to", "GBP", "", ErrToRequired},
		{"same currency", "GBP", "GBP", ErrSameCurrency},
		{"too short", "GB", "EUR", ErrBadCurrency},
		{"too long", "GBPX", "EUR", ErrBadCurrency},
		{"digits", "G1P", "EUR", ErrBadCurrency},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.ValidatePair(tc.from, tc.to)
			if tc.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestRequestValidator_ValidateAmount(t *testing.T) {
	v := NewRequestValidator()

	t.Run("valid amount", func(t *testing.T) {
		amount, err := v.ValidateAmount("1000")
		require.NoError(t, err)
		require.True(t, amount.Equal(d("1000")))
	})

	t.Run("decimal amount", func(t *testing.T) {
		amount, err := v.ValidateAmount("999.99")
		require.NoError(t, err)
		require.True(t, amount.Equal(d("999.99")))
	})

	t.Run("missing", func(t *testing.T) {
		_, err := v.ValidateAmount("")
		require.ErrorIs(t, err, ErrAmountMissing)
	})

	t.Run("not a number", func(t *testing.T) {
		_, err := v.ValidateAmount("lots")
		require.ErrorIs(t, err, ErrBadAmount)
	})

	t.Run("zero", func(t *testing.T) {
		_, err := v.ValidateAmount("0")
		require.ErrorIs(t, err, ErrBadAmount)
	})

	t.Run("negative", func(t *testing.T) {
		_, err := v.ValidateAmount("-100")
		require.ErrorIs(t, err, ErrBadAmount)
	})

	t.Run("above ceiling", func(t *testing.T) {
		_, err := v.ValidateAmount("1000001")
		require.ErrorIs(t, err, ErrBadAmount)
	})
}
