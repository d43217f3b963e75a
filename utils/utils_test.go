package utils

import (
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGenUuidFromStrings(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
	}{
		{
			name:  "single",
			parts: []string{"account-1"},
		},
		{
			name:  "pair",
			parts: []string{"account-1", "token-1"},
		},
		{
			name:  "empty",
			parts: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GenUuidFromStrings(tt.parts...)
			_, err := uuid.FromString(result)
			assert.NoError(t, err)
			assert.Equal(t, result, GenUuidFromStrings(tt.parts...))
		})
	}
}

func TestGenUuidFromStringsOrderIndependent(t *testing.T) {
	a := GenUuidFromStrings("account-1", "token-1")
	b := GenUuidFromStrings("token-1", "account-1")
	assert.Equal(t, a, b)

	c := GenUuidFromStrings("account-2", "token-1")
	assert.NotEqual(t, a, c)
}
