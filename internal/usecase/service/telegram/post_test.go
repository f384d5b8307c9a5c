package telegram

import (
	"errors"
	"testing"

	"crosspost-backend/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefRoundTrip(t *testing.T) {
	ref := formatRef(-1001234567890, 42)
	assert.Equal(t, "-1001234567890:42", ref)

	chatID, messageID, err := parseRef(ref)
	require.NoError(t, err)
	assert.Equal(t, int64(-1001234567890), chatID)
	assert.Equal(t, 42, messageID)
}

func TestParseRefInvalid(t *testing.T) {
	for _, ref := range []string{"", "42", "abc:42", "42:abc"} {
		_, _, err := parseRef(ref)
		require.Error(t, err, ref)

		var canonical *entity.CanonicalError
		require.True(t, errors.As(err, &canonical), ref)
		assert.Equal(t, entity.ErrCodeValidation, canonical.Code, ref)
		assert.Equal(t, "ref", canonical.Details["field"], ref)
	}
}
