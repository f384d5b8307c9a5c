package vkontakte

import (
	"errors"
	"testing"

	"crosspost-backend/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// владелец группы записывается отрицательным owner_id
func TestRefRoundTrip(t *testing.T) {
	ref := formatRef(-123456, 789)
	assert.Equal(t, "-123456_789", ref)

	ownerID, postID, err := parseRef(ref)
	require.NoError(t, err)
	assert.Equal(t, -123456, ownerID)
	assert.Equal(t, 789, postID)
}

func TestParseRefInvalid(t *testing.T) {
	for _, ref := range []string{"", "789", "abc_789", "123_abc"} {
		_, _, err := parseRef(ref)
		require.Error(t, err, ref)

		var canonical *entity.CanonicalError
		require.True(t, errors.As(err, &canonical), ref)
		assert.Equal(t, entity.ErrCodeValidation, canonical.Code, ref)
	}
}
