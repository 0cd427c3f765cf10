package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wbprivacy/pkg/weibo"
)

func listedPosts() []weibo.Post {
	original := testPost("5190000000000001", "keeping this one short")
	original.Visible.Type = 0

	repost := testPost("5190000000000002", "someone else said it better")
	repost.Visible.Type = 2
	repost.Retweeted = json.RawMessage(`{"id": 123}`)

	return []weibo.Post{original, repost}
}

func TestRenderPosts(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPosts(&buf, listedPosts()))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	assert.Contains(t, string(lines[0]), "5190000000000001")
	assert.Contains(t, string(lines[0]), "public")
	assert.NotContains(t, string(lines[0]), "R")

	assert.Contains(t, string(lines[1]), "5190000000000002")
	assert.Contains(t, string(lines[1]), "friends")
	assert.Contains(t, string(lines[1]), "R")
}

func TestEncodePostsJSON(t *testing.T) {
	data, err := EncodePosts(listedPosts(), FormatJSON)
	require.NoError(t, err)

	var decoded []PostListing
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)

	assert.Equal(t, "5190000000000001", decoded[0].PostID)
	assert.False(t, decoded[0].Repost)
	assert.Equal(t, "friends", decoded[1].Visibility)
	assert.True(t, decoded[1].Repost)
}

func TestEncodePostsRejectsUnknownFormat(t *testing.T) {
	_, err := EncodePosts(listedPosts(), "csv")
	require.Error(t, err)
}

func TestWritePosts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listings", "posts.json")

	require.NoError(t, WritePosts(path, FormatJSON, listedPosts()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []PostListing
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded, 2)

	// the atomic write must not leave its scratch file behind
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
