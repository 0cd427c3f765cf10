package weibo

import (
	"fmt"
	"strings"

	apperrors "wbprivacy/pkg/errors"
)

// Visibility is the audience scope of a post, using the numeric codes the
// modifyVisible endpoint expects.
type Visibility int

const (
	// VisibilityPublic makes a post visible to anyone
	VisibilityPublic Visibility = 0

	// VisibilityPrivate hides a post from everyone but its author
	VisibilityPrivate Visibility = 1

	// VisibilityFriends limits a post to mutual followers
	VisibilityFriends Visibility = 2

	// VisibilityFans limits a post to the author's followers
	VisibilityFans Visibility = 10

	// VisibilityUnknown marks codes the tool does not manage
	VisibilityUnknown Visibility = -1
)

// ParseVisibility maps the words accepted on the command line to a
// visibility code.
func ParseVisibility(s string) (Visibility, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "public":
		return VisibilityPublic, nil
	case "friends":
		return VisibilityFriends, nil
	case "private":
		return VisibilityPrivate, nil
	case "fans":
		return VisibilityFans, nil
	default:
		return VisibilityUnknown, apperrors.Newf(apperrors.ErrorTypeConfig,
			"unknown visibility %q (valid values: public, friends, private, fans)", s)
	}
}

// VisibilityFromCode maps a numeric code back to a Visibility.
// Codes the tool does not manage map to VisibilityUnknown.
func VisibilityFromCode(code int) Visibility {
	v := Visibility(code)
	if v.Valid() {
		return v
	}
	return VisibilityUnknown
}

// Code returns the numeric form sent to the API
func (v Visibility) Code() int {
	return int(v)
}

// Valid checks if v is one of the codes the mutation endpoint accepts
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityPrivate, VisibilityFriends, VisibilityFans:
		return true
	}
	return false
}

func (v Visibility) String() string {
	switch v {
	case VisibilityPublic:
		return "public"
	case VisibilityPrivate:
		return "private"
	case VisibilityFriends:
		return "friends"
	case VisibilityFans:
		return "fans"
	case VisibilityUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("visibility(%d)", int(v))
	}
}

// Description returns a human explanation used in prompts and summaries
func (v Visibility) Description() string {
	switch v {
	case VisibilityPublic:
		return "visible to everyone"
	case VisibilityPrivate:
		return "visible only to you"
	case VisibilityFriends:
		return "visible to mutual followers only"
	case VisibilityFans:
		return "visible to followers only"
	default:
		return "unrecognized visibility"
	}
}
