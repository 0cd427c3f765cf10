// Package weibo provides a client for the Weibo web AJAX API.
//
// This package includes:
//   - An HTTP client that authenticates with a browser session cookie and
//     the XSRF token derived from it
//   - Models for feed pages and posts, tolerant of Weibo's habit of mixing
//     number and string forms for the same ID
//   - Helper functions for constructing API endpoints
//   - Visibility codes for the modifyVisible mutation
//
// Example usage:
//
//	session, err := auth.DeriveSession(cookie)
//	if err != nil {
//	    // cookie is missing the XSRF-TOKEN field
//	}
//
//	client := weibo.NewClient(session, log)
//
//	// Fetch one page of the user's own feed
//	page, err := client.FetchFeedPage(ctx, "1234567890", 1)
//	if err != nil {
//	    if errors.IsAuth(err) {
//	        // Session expired; the error carries a remediation hint
//	    }
//	}
//
//	// Restrict each post to mutual followers
//	for _, post := range page.Posts {
//	    err := client.ChangeVisibility(ctx, post.ID, weibo.VisibilityFriends)
//	    // A non-nil error here concerns this post only
//	}
package weibo
