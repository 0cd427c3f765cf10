package weibo

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"wbprivacy/pkg/auth"
	"wbprivacy/pkg/config"
	apperrors "wbprivacy/pkg/errors"
	"wbprivacy/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRoundTripper allows us to intercept HTTP requests
type mockRoundTripper struct {
	handler func(req *http.Request) (*http.Response, error)
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.handler(req)
}

// Helper function to create a mock HTTP client
func newMockHTTPClient(handler func(req *http.Request) (*http.Response, error)) *http.Client {
	return &http.Client{
		Transport: &mockRoundTripper{handler: handler},
		Timeout:   30 * time.Second,
	}
}

// Helper function to create a response
func newResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func testSession() *auth.Session {
	return &auth.Session{
		RawCookie: "SUB=_2AkMtest; XSRF-TOKEN=tok_abcdef; WBPSESS=sess_xyz",
		XSRFToken: "tok_abcdef",
	}
}

// Helper function to create a client whose transport answers from a
// URL-keyed table. Unmatched URLs get a 404.
func newTestClient(log logger.Logger, responses map[string]interface{}) *Client {
	mockHTTPClient := newMockHTTPClient(func(req *http.Request) (*http.Response, error) {
		if response, exists := responses[req.URL.String()]; exists {
			switch v := response.(type) {
			case error:
				return nil, v
			case int:
				return newResponse(v, ""), nil
			case string:
				return newResponse(http.StatusOK, v), nil
			default:
				return newResponse(http.StatusNotFound, ""), nil
			}
		}
		return newResponse(http.StatusNotFound, ""), nil
	})

	client := NewClient(testSession(), log)
	client.httpClient = mockHTTPClient
	return client
}

const feedPageBody = `{
	"ok": 1,
	"data": {
		"list": [
			{
				"id": 5190000000000001,
				"mblogid": "PqXyZab12",
				"text_raw": "第一条\n测试微博",
				"created_at": "Tue Aug 19 09:23:11 +0800 2025",
				"visible": {"type": 0, "list_id": 0}
			},
			{
				"id": "5190000000000002",
				"mblogid": "PqXyZab34",
				"text_raw": "second post",
				"created_at": "Mon Aug 18 20:02:45 +0800 2025",
				"visible": {"type": 10, "list_id": 0},
				"retweeted_status": {"id": 4999000000000001}
			}
		],
		"total": 42
	}
}`

func TestNewClient(t *testing.T) {
	log := logger.NewTestLogger()
	client := NewClient(testSession(), log)

	assert.NotNil(t, client)
	assert.NotNil(t, client.httpClient)
	assert.Equal(t, BaseURL, client.baseURL)
	assert.Equal(t, log, client.logger)
	assert.Equal(t, "tok_abcdef", client.headers["X-Xsrf-Token"])
	assert.Contains(t, client.headers["Cookie"], "XSRF-TOKEN=tok_abcdef")
	assert.Contains(t, client.headers["User-Agent"], "Mozilla")
	assert.Equal(t, "XMLHttpRequest", client.headers["X-Requested-With"])
}

func TestNewClientWithConfig(t *testing.T) {
	log := logger.NewTestLogger()

	t.Run("custom timeout and user agent", func(t *testing.T) {
		cfg := &config.WeiboConfig{
			Timeout:   5 * time.Second,
			UserAgent: "custom-agent/1.0",
		}
		client := NewClientWithConfig(testSession(), cfg, log)

		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
		assert.Equal(t, "custom-agent/1.0", client.headers["User-Agent"])
	})

	t.Run("nil config uses defaults", func(t *testing.T) {
		client := NewClientWithConfig(testSession(), nil, log)

		assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
		assert.Equal(t, DefaultUserAgent, client.headers["User-Agent"])
	})

	t.Run("nil session yields empty credentials", func(t *testing.T) {
		client := NewClientWithConfig(nil, nil, log)

		assert.Equal(t, "", client.headers["Cookie"])
		assert.Equal(t, "", client.headers["X-Xsrf-Token"])
	})
}

func TestSetHeaders(t *testing.T) {
	client := NewClient(testSession(), logger.NewTestLogger())

	t.Run("SetHeader", func(t *testing.T) {
		client.SetHeader("X-Custom-Header", "test-value")
		assert.Equal(t, "test-value", client.headers["X-Custom-Header"])
	})

	t.Run("SetHeaders", func(t *testing.T) {
		headers := map[string]string{
			"X-Header-1": "value1",
			"X-Header-2": "value2",
		}
		client.SetHeaders(headers)
		assert.Equal(t, "value1", client.headers["X-Header-1"])
		assert.Equal(t, "value2", client.headers["X-Header-2"])
	})
}

func TestFetchFeedPage(t *testing.T) {
	log := logger.NewTestLogger()

	t.Run("successful page", func(t *testing.T) {
		client := newTestClient(log, map[string]interface{}{
			FeedPageURL(BaseURL, "1234567890", 1): feedPageBody,
		})

		page, err := client.FetchFeedPage(context.Background(), "1234567890", 1)
		require.NoError(t, err)

		assert.Equal(t, 1, page.Number)
		assert.Equal(t, 42, page.Total)
		require.Len(t, page.Posts, 2)

		// Number and string forms of the ID both decode
		assert.Equal(t, PostID("5190000000000001"), page.Posts[0].ID)
		assert.Equal(t, PostID("5190000000000002"), page.Posts[1].ID)

		assert.Equal(t, "第一条\n测试微博", page.Posts[0].Text)
		assert.Equal(t, VisibilityPublic, page.Posts[0].Visibility())
		assert.Equal(t, VisibilityFans, page.Posts[1].Visibility())
		assert.False(t, page.Posts[0].IsRepost())
		assert.True(t, page.Posts[1].IsRepost())
	})

	t.Run("empty page means exhausted feed", func(t *testing.T) {
		client := newTestClient(log, map[string]interface{}{
			FeedPageURL(BaseURL, "1234567890", 7): `{"ok": 1, "data": {"list": [], "total": 42}}`,
		})

		page, err := client.FetchFeedPage(context.Background(), "1234567890", 7)
		require.NoError(t, err)
		assert.Empty(t, page.Posts)
		assert.Equal(t, 7, page.Number)
	})

	t.Run("missing user ID", func(t *testing.T) {
		client := newTestClient(log, nil)

		page, err := client.FetchFeedPage(context.Background(), "", 1)
		assert.Nil(t, page)
		assert.True(t, apperrors.IsConfig(err))
	})

	t.Run("401 maps to auth error with hint", func(t *testing.T) {
		client := newTestClient(log, map[string]interface{}{
			FeedPageURL(BaseURL, "1234567890", 1): http.StatusUnauthorized,
		})

		page, err := client.FetchFeedPage(context.Background(), "1234567890", 1)
		assert.Nil(t, page)
		assert.True(t, apperrors.IsAuth(err))
		assert.Contains(t, apperrors.HintOf(err), "wbprivacy auth login")
	})

	t.Run("login challenge envelope maps to auth error", func(t *testing.T) {
		client := newTestClient(log, map[string]interface{}{
			FeedPageURL(BaseURL, "1234567890", 1): `{"ok": -100, "msg": "login required"}`,
		})

		page, err := client.FetchFeedPage(context.Background(), "1234567890", 1)
		assert.Nil(t, page)
		assert.True(t, apperrors.IsAuth(err))
		assert.Contains(t, apperrors.HintOf(err), "wbprivacy auth login")
	})

	t.Run("other envelope rejection is not an auth error", func(t *testing.T) {
		client := newTestClient(log, map[string]interface{}{
			FeedPageURL(BaseURL, "1234567890", 1): `{"ok": 0, "msg": "系统繁忙"}`,
		})

		page, err := client.FetchFeedPage(context.Background(), "1234567890", 1)
		assert.Nil(t, page)
		assert.False(t, apperrors.IsAuth(err))
		assert.Equal(t, apperrors.ErrorTypeServer, apperrors.TypeOf(err))
		assert.Contains(t, err.Error(), "系统繁忙")
	})

	t.Run("unparseable body is a decode error", func(t *testing.T) {
		client := newTestClient(log, map[string]interface{}{
			FeedPageURL(BaseURL, "1234567890", 3): `<html>登录</html>`,
		})

		page, err := client.FetchFeedPage(context.Background(), "1234567890", 3)
		assert.Nil(t, page)
		assert.True(t, apperrors.IsDecode(err))
		assert.Contains(t, err.Error(), "page 3")
	})

	t.Run("transport failure is a network error", func(t *testing.T) {
		client := newTestClient(log, map[string]interface{}{
			FeedPageURL(BaseURL, "1234567890", 1): io.ErrUnexpectedEOF,
		})

		page, err := client.FetchFeedPage(context.Background(), "1234567890", 1)
		assert.Nil(t, page)
		assert.Equal(t, apperrors.ErrorTypeNetwork, apperrors.TypeOf(err))
	})

	t.Run("cancelled context aborts the fetch", func(t *testing.T) {
		client := NewClient(testSession(), log)
		client.httpClient = newMockHTTPClient(func(req *http.Request) (*http.Response, error) {
			if err := req.Context().Err(); err != nil {
				return nil, err
			}
			return newResponse(http.StatusOK, feedPageBody), nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		page, err := client.FetchFeedPage(ctx, "1234567890", 1)
		assert.Nil(t, page)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("sends session headers and expected query", func(t *testing.T) {
		var captured *http.Request
		client := NewClient(testSession(), log)
		client.httpClient = newMockHTTPClient(func(req *http.Request) (*http.Response, error) {
			captured = req
			return newResponse(http.StatusOK, `{"ok": 1, "data": {"list": []}}`), nil
		})

		_, err := client.FetchFeedPage(context.Background(), "1234567890", 2)
		require.NoError(t, err)
		require.NotNil(t, captured)

		query := captured.URL.Query()
		assert.Equal(t, "1234567890", query.Get("uid"))
		assert.Equal(t, "2", query.Get("page"))
		assert.Equal(t, "0", query.Get("feature"))

		assert.Equal(t, "tok_abcdef", captured.Header.Get("X-Xsrf-Token"))
		assert.Contains(t, captured.Header.Get("Cookie"), "SUB=_2AkMtest")
		assert.Equal(t, "XMLHttpRequest", captured.Header.Get("X-Requested-With"))
		assert.Equal(t, ProfileURL(BaseURL, "1234567890"), captured.Header.Get("Referer"))
	})
}

func TestChangeVisibility(t *testing.T) {
	log := logger.NewTestLogger()
	mutationURL := ModifyVisibleURL(BaseURL)

	t.Run("accepted change", func(t *testing.T) {
		client := newTestClient(log, map[string]interface{}{
			mutationURL: `{"ok": 1}`,
		})

		err := client.ChangeVisibility(context.Background(), "5190000000000001", VisibilityFriends)
		assert.NoError(t, err)
	})

	t.Run("declined change carries the API reason", func(t *testing.T) {
		client := newTestClient(log, map[string]interface{}{
			mutationURL: `{"ok": 0, "msg": "半年前的微博不支持修改"}`,
		})

		err := client.ChangeVisibility(context.Background(), "5190000000000001", VisibilityFriends)
		require.Error(t, err)
		assert.True(t, apperrors.IsItem(err))
		assert.Contains(t, err.Error(), "半年前的微博不支持修改")
	})

	t.Run("declined change without message falls back to the code", func(t *testing.T) {
		client := newTestClient(log, map[string]interface{}{
			mutationURL: `{"ok": 2}`,
		})

		err := client.ChangeVisibility(context.Background(), "5190000000000001", VisibilityFriends)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ok=2")
	})

	t.Run("unrecognizable 2xx body counts as accepted", func(t *testing.T) {
		client := newTestClient(log, map[string]interface{}{
			mutationURL: `<html>ok</html>`,
		})

		err := client.ChangeVisibility(context.Background(), "5190000000000001", VisibilityPrivate)
		assert.NoError(t, err)
	})

	t.Run("login challenge envelope maps to auth error", func(t *testing.T) {
		client := newTestClient(log, map[string]interface{}{
			mutationURL: `{"ok": -100, "msg": "需要登录"}`,
		})

		err := client.ChangeVisibility(context.Background(), "5190000000000001", VisibilityFriends)
		require.Error(t, err)
		assert.True(t, apperrors.IsAuth(err))
	})

	t.Run("server error carries the status code", func(t *testing.T) {
		client := newTestClient(log, map[string]interface{}{
			mutationURL: http.StatusInternalServerError,
		})

		err := client.ChangeVisibility(context.Background(), "5190000000000001", VisibilityFriends)
		require.Error(t, err)

		var appErr *apperrors.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrorTypeServer, appErr.Type)
		assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	})

	t.Run("empty post ID is rejected locally", func(t *testing.T) {
		client := newTestClient(log, nil)

		err := client.ChangeVisibility(context.Background(), "", VisibilityFriends)
		require.Error(t, err)
		assert.True(t, apperrors.IsItem(err))
	})

	t.Run("unknown visibility is rejected locally", func(t *testing.T) {
		client := newTestClient(log, nil)

		err := client.ChangeVisibility(context.Background(), "5190000000000001", Visibility(7))
		require.Error(t, err)
		assert.True(t, apperrors.IsConfig(err))
	})

	t.Run("sends form body and mutation headers", func(t *testing.T) {
		var captured *http.Request
		var capturedBody string
		client := NewClient(testSession(), log)
		client.httpClient = newMockHTTPClient(func(req *http.Request) (*http.Response, error) {
			captured = req
			body, _ := io.ReadAll(req.Body)
			capturedBody = string(body)
			return newResponse(http.StatusOK, `{"ok": 1}`), nil
		})

		err := client.ChangeVisibility(context.Background(), "5190000000000001", VisibilityFans)
		require.NoError(t, err)
		require.NotNil(t, captured)

		assert.Equal(t, http.MethodPost, captured.Method)
		assert.Equal(t, "ids=5190000000000001&visible=10", capturedBody)
		assert.Equal(t, "application/x-www-form-urlencoded", captured.Header.Get("Content-Type"))
		assert.Equal(t, BaseURL, captured.Header.Get("Origin"))
		assert.Equal(t, BaseURL, captured.Header.Get("Referer"))
		assert.Equal(t, "tok_abcdef", captured.Header.Get("X-Xsrf-Token"))
	})
}

func TestCheckResponseStatus(t *testing.T) {
	client := NewClient(testSession(), logger.NewTestLogger())

	tests := []struct {
		name         string
		statusCode   int
		expectedType apperrors.ErrorType
	}{
		{
			name:       "200 OK",
			statusCode: http.StatusOK,
		},
		{
			name:       "204 No Content",
			statusCode: http.StatusNoContent,
		},
		{
			name:         "401 Unauthorized",
			statusCode:   http.StatusUnauthorized,
			expectedType: apperrors.ErrorTypeAuth,
		},
		{
			name:         "403 Forbidden",
			statusCode:   http.StatusForbidden,
			expectedType: apperrors.ErrorTypeAuth,
		},
		{
			name:         "429 Too Many Requests",
			statusCode:   http.StatusTooManyRequests,
			expectedType: apperrors.ErrorTypeRateLimit,
		},
		{
			name:         "500 Internal Server Error",
			statusCode:   http.StatusInternalServerError,
			expectedType: apperrors.ErrorTypeServer,
		},
		{
			name:         "502 Bad Gateway",
			statusCode:   http.StatusBadGateway,
			expectedType: apperrors.ErrorTypeServer,
		},
		{
			name:         "404 Not Found",
			statusCode:   http.StatusNotFound,
			expectedType: apperrors.ErrorTypeNetwork,
		},
		{
			name:         "418 Teapot",
			statusCode:   http.StatusTeapot,
			expectedType: apperrors.ErrorTypeNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := newResponse(tt.statusCode, "")
			err := client.checkResponseStatus(resp)

			if tt.expectedType == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var appErr *apperrors.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.expectedType, appErr.Type)
			assert.Equal(t, tt.statusCode, appErr.Code)
		})
	}
}
