package auth

import (
	"testing"

	apperrors "wbprivacy/pkg/errors"
)

func TestDeriveSession(t *testing.T) {
	tests := []struct {
		name      string
		cookie    string
		wantToken string
		wantErr   bool
	}{
		{
			name:      "token among other fields",
			cookie:    "SUB=_2AkMabc; SUBP=0033Wr; XSRF-TOKEN=tok123; WBPSESS=xyz",
			wantToken: "tok123",
		},
		{
			name:      "token only",
			cookie:    "XSRF-TOKEN=tok123",
			wantToken: "tok123",
		},
		{
			name:      "value containing equals signs is kept verbatim",
			cookie:    "XSRF-TOKEN=abc=def==; SUB=x",
			wantToken: "abc=def==",
		},
		{
			name:      "comma delimited fields",
			cookie:    "SUB=x, XSRF-TOKEN=tok123, WBPSESS=y",
			wantToken: "tok123",
		},
		{
			name:      "whitespace around fields",
			cookie:    "  SUB=x ;   XSRF-TOKEN=tok123  ; WBPSESS=y ",
			wantToken: "tok123",
		},
		{
			name:    "token missing",
			cookie:  "SUB=_2AkMabc; SUBP=0033Wr; WBPSESS=xyz",
			wantErr: true,
		},
		{
			name:    "token empty",
			cookie:  "SUB=x; XSRF-TOKEN=; WBPSESS=y",
			wantErr: true,
		},
		{
			name:    "name is case sensitive",
			cookie:  "xsrf-token=tok123",
			wantErr: true,
		},
		{
			name:    "empty cookie",
			cookie:  "",
			wantErr: true,
		},
		{
			name:    "whitespace only cookie",
			cookie:  "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := DeriveSession(tt.cookie)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error for cookie %q, got session %+v", tt.cookie, session)
				}
				if !apperrors.IsConfig(err) {
					t.Errorf("Expected config error, got %v (type %s)", err, apperrors.TypeOf(err))
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if session.XSRFToken != tt.wantToken {
				t.Errorf("Token mismatch: got %q, want %q", session.XSRFToken, tt.wantToken)
			}
		})
	}
}

func TestDeriveSessionKeepsRawCookie(t *testing.T) {
	cookie := "SUB=abc; XSRF-TOKEN=tok123"
	session, err := DeriveSession(cookie)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if session.RawCookie != cookie {
		t.Errorf("RawCookie mismatch: got %q, want %q", session.RawCookie, cookie)
	}
}
