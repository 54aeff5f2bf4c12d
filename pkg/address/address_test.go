package address_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sendgrid-mailer/pkg/address"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  address.Address
	}{
		{
			name:  "bare address",
			input: "jane@example.com",
			want:  address.Address{Email: "jane@example.com"},
		},
		{
			name:  "display name",
			input: "Jane Doe <jane@example.com>",
			want:  address.Address{Email: "jane@example.com", Name: "Jane Doe"},
		},
		{
			name:  "quoted display name with comma",
			input: `"Doe, Jane" <jane@example.com>`,
			want:  address.Address{Email: "jane@example.com", Name: "Doe, Jane"},
		},
		{
			name:  "angle brackets only",
			input: "<jane@example.com>",
			want:  address.Address{Email: "jane@example.com"},
		},
		{
			name:  "empty quoted name is absent",
			input: `"" <jane@example.com>`,
			want:  address.Address{Email: "jane@example.com"},
		},
		{
			name:  "surrounding whitespace",
			input: "  jane@example.com \n",
			want:  address.Address{Email: "jane@example.com"},
		},
		{
			name:  "unparseable input kept as address",
			input: "not an address",
			want:  address.Address{Email: "not an address"},
		},
		{
			name:  "empty input",
			input: "",
			want:  address.Address{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, address.Parse(tt.input))
		})
	}
}

func TestParse_NameAbsentRatherThanEmpty(t *testing.T) {
	t.Parallel()

	a := address.Parse("jane@example.com")

	require.Empty(t, a.Name)
}

func TestParseList(t *testing.T) {
	t.Parallel()

	t.Run("preserves order", func(t *testing.T) {
		t.Parallel()

		list := address.ParseList([]string{"b@example.com", "Alice <a@example.com>"})

		require.Len(t, list, 2)
		assert.Equal(t, "b@example.com", list[0].Email)
		assert.Equal(t, "a@example.com", list[1].Email)
		assert.Equal(t, "Alice", list[1].Name)
	})

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()

		require.Nil(t, address.ParseList(nil))
	})
}

func TestAddress_Equal(t *testing.T) {
	t.Parallel()

	a := address.Parse("Jane <jane@example.com>")

	assert.True(t, a.Equal(address.Parse("Jane <jane@example.com>")))
	assert.False(t, a.Equal(address.Parse("jane@example.com")))
	assert.False(t, a.Equal(address.Parse("Jane <other@example.com>")))
}

func TestAddress_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "jane@example.com", address.Address{Email: "jane@example.com"}.String())
	assert.Equal(t, `"Jane Doe" <jane@example.com>`, address.Address{Email: "jane@example.com", Name: "Jane Doe"}.String())
}

func TestFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Jane Doe <jane@example.com>", address.Format("Jane Doe", "jane@example.com"))
	assert.Equal(t, "jane@example.com", address.Format("", "jane@example.com"))
}
