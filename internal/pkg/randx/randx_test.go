package randx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifiersAreDistinct(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		for _, id := range []string{UserID(), SessionToken(), MessageID()} {
			require.NotEmpty(t, id)
			_, dup := seen[id]
			require.False(t, dup, "duplicate identifier generated: %s", id)
			seen[id] = struct{}{}
		}
	}
}

func TestDisplayName(t *testing.T) {
	name, err := DisplayName()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(name, "User_"))
	assert.Len(t, name, len("User_")+6)

	for _, char := range name[len("User_"):] {
		assert.True(t, strings.ContainsRune(Base62Chars, char),
			"unexpected character %q in display name", char)
	}
}
