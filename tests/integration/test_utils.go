package integration

import (
	"encoding/json"
	"fmt"

	"wbprivacy/pkg/auth"
	"wbprivacy/pkg/logger"
	"wbprivacy/pkg/weibo"
)

const (
	testUserID = "1234567890"
	testCookie = "SUB=abc123; SUBP=def456; XSRF-TOKEN=tok-xyz; WBPSESS=ghi789"
	testToken  = "tok-xyz"
)

// makePosts builds n sequential feed posts, newest first, all public
func makePosts(n int) []feedPost {
	posts := make([]feedPost, 0, n)
	for i := 0; i < n; i++ {
		posts = append(posts, feedPost{
			ID:        5190000000000001 + int64(i),
			MBlogID:   fmt.Sprintf("Nb%04d", i),
			TextRaw:   fmt.Sprintf("post number %d", i),
			CreatedAt: "Tue Aug 19 09:23:11 +0800 2025",
			Visible:   map[string]int{"type": 0},
		})
	}
	return posts
}

// markRepost turns one post into a repost of another status
func markRepost(post feedPost) feedPost {
	post.Retweeted = json.RawMessage(`{"id": 99, "text_raw": "original"}`)
	return post
}

// newTestClient builds an API client wired to the mock server
func newTestClient(m *mockWeibo) *weibo.Client {
	session, err := auth.DeriveSession(testCookie)
	if err != nil {
		panic(err)
	}

	client := weibo.NewClient(session, logger.NewNopLogger())
	client.SetBaseURL(m.URL())
	return client
}
