package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	n := New("91")

	cases := []struct {
		name string
		in   string
		want string
		err  error
	}{
		{"bare 10 digits", "9876543210", "919876543210", nil},
		{"already canonical", "919876543210", "919876543210", nil},
		{"plus and spaces", "+91 98765 43210", "919876543210", nil},
		{"dashes and parens", "(987) 654-3210", "919876543210", nil},
		{"too short", "12345", "", ErrInvalidLength},
		{"too long", "9198765432101", "", ErrInvalidLength},
		{"12 digits wrong prefix", "129876543210", "", ErrInvalidLength},
		{"empty", "", "", ErrEmpty},
		{"whitespace only", "   ", "", ErrEmpty},
		{"no digits at all", "abc-def", "", ErrInvalidLength},
		{"single word", "bad", "", ErrInvalidLength},
		{"letters mixed in", "call 12345 now", "", ErrInvalidLength},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := n.Normalize(tc.in)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := New("91")

	for _, raw := range []string{"9876543210", "+91 98765 43210", "919123456780"} {
		once, err := n.Normalize(raw)
		require.NoError(t, err)
		twice, err := n.Normalize(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	}
}

func TestNormalizeCustomCountryCode(t *testing.T) {
	n := New("7")

	got, err := n.Normalize("7012345678")
	require.NoError(t, err)
	assert.Equal(t, "77012345678", got)

	got, err = n.Normalize("+7 701 234 5678")
	require.NoError(t, err)
	assert.Equal(t, "77012345678", got)
}

func TestNewDefaultsCountryCode(t *testing.T) {
	assert.Equal(t, DefaultCountryCode, New("").CountryCode())
}
