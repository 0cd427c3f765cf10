package weibo

import (
	"testing"

	apperrors "wbprivacy/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVisibility(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Visibility
		wantErr  bool
	}{
		{name: "public", input: "public", expected: VisibilityPublic},
		{name: "friends", input: "friends", expected: VisibilityFriends},
		{name: "private", input: "private", expected: VisibilityPrivate},
		{name: "fans", input: "fans", expected: VisibilityFans},
		{name: "mixed case", input: "Friends", expected: VisibilityFriends},
		{name: "surrounding whitespace", input: "  private ", expected: VisibilityPrivate},
		{name: "unknown word", input: "everyone", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseVisibility(tt.input)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsConfig(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestVisibilityCodes(t *testing.T) {
	// The numeric codes are part of the wire contract with modifyVisible
	assert.Equal(t, 0, VisibilityPublic.Code())
	assert.Equal(t, 1, VisibilityPrivate.Code())
	assert.Equal(t, 2, VisibilityFriends.Code())
	assert.Equal(t, 10, VisibilityFans.Code())
}

func TestVisibilityFromCode(t *testing.T) {
	assert.Equal(t, VisibilityPublic, VisibilityFromCode(0))
	assert.Equal(t, VisibilityPrivate, VisibilityFromCode(1))
	assert.Equal(t, VisibilityFriends, VisibilityFromCode(2))
	assert.Equal(t, VisibilityFans, VisibilityFromCode(10))
	assert.Equal(t, VisibilityUnknown, VisibilityFromCode(6))
	assert.Equal(t, VisibilityUnknown, VisibilityFromCode(-7))
}

func TestVisibilityValid(t *testing.T) {
	assert.True(t, VisibilityPublic.Valid())
	assert.True(t, VisibilityFans.Valid())
	assert.False(t, VisibilityUnknown.Valid())
	assert.False(t, Visibility(3).Valid())
}

func TestVisibilityString(t *testing.T) {
	assert.Equal(t, "public", VisibilityPublic.String())
	assert.Equal(t, "friends", VisibilityFriends.String())
	assert.Equal(t, "private", VisibilityPrivate.String())
	assert.Equal(t, "fans", VisibilityFans.String())
	assert.Equal(t, "unknown", VisibilityUnknown.String())
	assert.Equal(t, "visibility(7)", Visibility(7).String())
}

func TestVisibilityDescription(t *testing.T) {
	for _, v := range []Visibility{VisibilityPublic, VisibilityPrivate, VisibilityFriends, VisibilityFans} {
		assert.NotEmpty(t, v.Description())
		assert.NotEqual(t, "unrecognized visibility", v.Description())
	}
	assert.Equal(t, "unrecognized visibility", VisibilityUnknown.Description())
}
