package weibo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"wbprivacy/pkg/auth"
	"wbprivacy/pkg/config"
	apperrors "wbprivacy/pkg/errors"
	"wbprivacy/pkg/logger"
)

const (
	// DefaultUserAgent matches a desktop Chrome build; the AJAX endpoints
	// refuse obviously non-browser agents
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// DefaultTimeout bounds any single request to the API
	DefaultTimeout = 30 * time.Second

	// clientVersion mirrors the header the Weibo web app sends
	clientVersion = "v2.47.139"

	// okLoginRequired is the envelope code Weibo uses when the session
	// cookie is missing, expired, or rejected
	okLoginRequired = -100

	// bodyPreviewLimit caps how much of an unparseable response gets logged
	bodyPreviewLimit = 200
)

// authHint tells the user how to fix an expired session without reading docs
const authHint = "your Weibo session has likely expired, run 'wbprivacy auth login' to store a fresh cookie"

// Client talks to the Weibo web AJAX API using a browser session cookie.
// Requests are single-attempt; callers that want retries layer them on top.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	logger     logger.Logger
}

// NewClient creates a client around the given session with default settings
func NewClient(session *auth.Session, log logger.Logger) *Client {
	return NewClientWithConfig(session, nil, log)
}

// NewClientWithConfig creates a client with the timeout and user agent taken
// from cfg. A nil cfg falls back to the defaults.
func NewClientWithConfig(session *auth.Session, cfg *config.WeiboConfig, log logger.Logger) *Client {
	// Use default logger if none provided
	if log == nil {
		log = logger.GetLogger()
	}

	// A nil session still yields a usable client; the API will answer
	// every request with a login challenge
	if session == nil {
		session = &auth.Session{}
	}

	timeout := DefaultTimeout
	userAgent := DefaultUserAgent
	if cfg != nil {
		if cfg.Timeout > 0 {
			timeout = cfg.Timeout
		}
		if cfg.UserAgent != "" {
			userAgent = cfg.UserAgent
		}
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"User-Agent":       userAgent,
			"Accept":           "application/json, text/plain, */*",
			"Accept-Language":  "zh-CN,zh;q=0.9,en;q=0.8",
			"Cookie":           session.RawCookie,
			"X-Xsrf-Token":     session.XSRFToken,
			"X-Requested-With": "XMLHttpRequest",
			"Client-Version":   clientVersion,
			"Sec-Fetch-Dest":   "empty",
			"Sec-Fetch-Mode":   "cors",
			"Sec-Fetch-Site":   "same-origin",
		},
		baseURL: BaseURL,
		logger:  log,
	}
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// SetHeaders sets multiple headers at once
func (c *Client) SetHeaders(headers map[string]string) {
	for key, value := range headers {
		c.headers[key] = value
	}
}

// SetBaseURL points the client at a different origin.
// Tests use this to target a local server.
func (c *Client) SetBaseURL(base string) {
	c.baseURL = strings.TrimSuffix(base, "/")
}

// do performs an HTTP request with the session headers applied and
// normalizes transport failures into network errors
func (c *Client) do(req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration.String(),
		})
		return nil, apperrors.Wrap(apperrors.ErrorTypeNetwork, "request failed", err)
	}

	logger.LogRequest(c.logger, req.Method, req.URL.String(), resp.StatusCode, float64(duration.Milliseconds()))

	return resp, nil
}

// FetchFeedPage fetches one page of the user's own feed. An empty
// Page.Posts slice means the feed is exhausted.
//
// The call is single-attempt: any failure is returned to the caller as-is,
// with authentication problems carrying a remediation hint.
func (c *Client) FetchFeedPage(ctx context.Context, userID string, page int) (*Page, error) {
	if userID == "" {
		return nil, apperrors.New(apperrors.ErrorTypeConfig, "user ID is required to list posts")
	}
	if page < 1 {
		page = 1
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, FeedPageURL(c.baseURL, userID, page), nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrorTypeNetwork, "building feed request", err)
	}

	// The feed endpoint wants the profile page as Referer
	req.Header.Set("Referer", ProfileURL(c.baseURL, userID))

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrorTypeNetwork, "reading feed response", err)
	}

	var envelope feedResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		c.logger.ErrorWithFields("failed to decode feed page", map[string]interface{}{
			"page":         page,
			"body_preview": bodyPreview(body),
		})
		return nil, apperrors.Wrap(apperrors.ErrorTypeDecode, fmt.Sprintf("decoding feed page %d", page), err)
	}

	if envelope.OK != 1 {
		return nil, c.envelopeError(envelope.OK, envelope.Message)
	}

	logger.LogPageFetch(c.logger, userID, page, len(envelope.Data.List))

	return &Page{
		Number: page,
		Posts:  envelope.Data.List,
		Total:  envelope.Data.Total,
	}, nil
}

// ChangeVisibility asks Weibo to change who can see one post.
//
// A nil return means the API accepted the change. Weibo answers this
// endpoint with several body shapes, some of which are not JSON at all;
// a 2xx status with no recognizable envelope counts as accepted.
func (c *Client) ChangeVisibility(ctx context.Context, id PostID, v Visibility) error {
	if id == "" {
		return apperrors.New(apperrors.ErrorTypeItem, "post ID is empty")
	}
	if !v.Valid() {
		return apperrors.Newf(apperrors.ErrorTypeConfig, "visibility %s cannot be applied", v)
	}

	form := url.Values{}
	form.Set("ids", id.String())
	form.Set("visible", strconv.Itoa(v.Code()))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ModifyVisibleURL(c.baseURL), strings.NewReader(form.Encode()))
	if err != nil {
		return apperrors.Wrap(apperrors.ErrorTypeNetwork, "building visibility request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", c.baseURL)
	req.Header.Set("Origin", c.baseURL)

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrorTypeNetwork, "reading visibility response", err)
	}

	result := gjson.ParseBytes(body)
	okField := result.Get("ok")
	if !okField.Exists() || okField.Int() == 1 {
		return nil
	}

	msg := result.Get("msg").String()
	if msg == "" {
		msg = result.Get("message").String()
	}

	if okField.Int() == okLoginRequired {
		return &apperrors.Error{
			Type:    apperrors.ErrorTypeAuth,
			Message: "Weibo rejected the session while changing visibility",
			Hint:    authHint,
		}
	}

	if msg == "" {
		msg = fmt.Sprintf("ok=%d", okField.Int())
	}
	return apperrors.Newf(apperrors.ErrorTypeItem, "Weibo declined the change: %s", msg)
}

// checkResponseStatus maps HTTP-level failures onto the error taxonomy.
// Envelope-level failures (ok != 1 inside a 200) are handled by callers.
func (c *Client) checkResponseStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &apperrors.Error{
			Type:    apperrors.ErrorTypeAuth,
			Message: "Weibo rejected the session",
			Code:    resp.StatusCode,
			Hint:    authHint,
		}
	case resp.StatusCode == http.StatusTooManyRequests:
		return &apperrors.Error{
			Type:    apperrors.ErrorTypeRateLimit,
			Message: "rate limited by Weibo",
			Code:    resp.StatusCode,
			Hint:    "increase --delay or wait a few minutes before trying again",
		}
	case resp.StatusCode >= 500:
		return &apperrors.Error{
			Type:    apperrors.ErrorTypeServer,
			Message: "Weibo server error",
			Code:    resp.StatusCode,
		}
	default:
		return &apperrors.Error{
			Type:    apperrors.ErrorTypeNetwork,
			Message: fmt.Sprintf("unexpected response status %d", resp.StatusCode),
			Code:    resp.StatusCode,
		}
	}
}

// envelopeError maps a non-1 envelope code onto the error taxonomy
func (c *Client) envelopeError(ok int, msg string) error {
	if ok == okLoginRequired {
		return &apperrors.Error{
			Type:    apperrors.ErrorTypeAuth,
			Message: fmt.Sprintf("Weibo rejected the session (ok=%d)", ok),
			Hint:    authHint,
		}
	}

	if msg == "" {
		msg = fmt.Sprintf("ok=%d", ok)
	}
	return apperrors.Newf(apperrors.ErrorTypeServer, "feed request rejected: %s", msg)
}

func bodyPreview(body []byte) string {
	if len(body) > bodyPreviewLimit {
		return string(body[:bodyPreviewLimit])
	}
	return string(body)
}
