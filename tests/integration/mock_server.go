package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
)

// mutationCall records one modifyVisible request the mock server saw
type mutationCall struct {
	PostID    string
	Visible   int
	XSRFToken string
	Cookie    string
}

// mockWeibo emulates the two AJAX endpoints the tool talks to. Posts are
// served in pages of PageSize; the page after the last one comes back
// empty, which is how the real feed signals exhaustion.
type mockWeibo struct {
	mu sync.Mutex

	Posts    []feedPost
	PageSize int

	// DecliningIDs answer modifyVisible with an ok!=1 envelope
	DecliningIDs map[string]string
	// FailAuth answers everything with the login-required envelope
	FailAuth bool
	// FeedStatus, when non-zero, overrides the feed's HTTP status
	FeedStatus int
	// BrokenFeed serves a non-JSON feed body
	BrokenFeed bool

	feedRequests []int
	mutations    []mutationCall

	server *httptest.Server
}

// feedPost is the wire shape of one post in a mymblog page
type feedPost struct {
	ID        int64           `json:"id"`
	MBlogID   string          `json:"mblogid"`
	TextRaw   string          `json:"text_raw"`
	CreatedAt string          `json:"created_at"`
	Visible   map[string]int  `json:"visible"`
	Retweeted json.RawMessage `json:"retweeted_status,omitempty"`
}

func newMockWeibo(posts []feedPost, pageSize int) *mockWeibo {
	m := &mockWeibo{
		Posts:        posts,
		PageSize:     pageSize,
		DecliningIDs: make(map[string]string),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ajax/statuses/mymblog", m.handleFeed)
	mux.HandleFunc("/ajax/statuses/modifyVisible", m.handleModify)
	m.server = httptest.NewServer(mux)

	return m
}

func (m *mockWeibo) URL() string { return m.server.URL }
func (m *mockWeibo) Close()      { m.server.Close() }

// FeedRequests returns the page numbers requested, in order
func (m *mockWeibo) FeedRequests() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.feedRequests...)
}

// Mutations returns the modifyVisible calls received, in order
func (m *mockWeibo) Mutations() []mutationCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mutationCall(nil), m.mutations...)
}

func (m *mockWeibo) handleFeed(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	m.mu.Lock()
	m.feedRequests = append(m.feedRequests, page)
	failAuth := m.FailAuth
	status := m.FeedStatus
	broken := m.BrokenFeed
	m.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		return
	}
	if broken {
		fmt.Fprint(w, "<html>not json</html>")
		return
	}
	if failAuth {
		fmt.Fprint(w, `{"ok":-100,"msg":"login required"}`)
		return
	}

	start := (page - 1) * m.PageSize
	end := start + m.PageSize
	if start > len(m.Posts) {
		start = len(m.Posts)
	}
	if end > len(m.Posts) {
		end = len(m.Posts)
	}

	list := m.Posts[start:end]
	resp := map[string]interface{}{
		"ok": 1,
		"data": map[string]interface{}{
			"list":  list,
			"total": len(m.Posts),
		},
	}
	json.NewEncoder(w).Encode(resp)
}

func (m *mockWeibo) handleModify(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	visible, _ := strconv.Atoi(r.PostFormValue("visible"))
	call := mutationCall{
		PostID:    r.PostFormValue("ids"),
		Visible:   visible,
		XSRFToken: r.Header.Get("X-Xsrf-Token"),
		Cookie:    r.Header.Get("Cookie"),
	}

	m.mu.Lock()
	m.mutations = append(m.mutations, call)
	failAuth := m.FailAuth
	reason, declines := m.DecliningIDs[call.PostID]
	m.mu.Unlock()

	if failAuth {
		fmt.Fprint(w, `{"ok":-100,"msg":"login required"}`)
		return
	}
	if declines {
		fmt.Fprintf(w, `{"ok":20003,"msg":%q}`, reason)
		return
	}
	fmt.Fprint(w, `{"ok":1,"msg":""}`)
}
