package logging

import "testing"

func TestSanitizeURL(t *testing.T) {
	cases := []struct{ in, want string }{
		{"http://u:p@host/path?token=abc#f", "http://host/path"},
		{"http://host/api/v1/images/3/download?sig=x", "http://host/api/v1/images/3/download"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := SanitizeURL(tc.in); got != tc.want {
			t.Errorf("SanitizeURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRedactToken(t *testing.T) {
	if got := RedactToken("abcd1234efgh5678"); got != "abcd…5678" {
		t.Errorf("unexpected redaction: %q", got)
	}
	if got := RedactToken("short"); got != "****" {
		t.Errorf("short tokens must be fully masked, got %q", got)
	}
	if got := RedactToken("  "); got != "" {
		t.Errorf("blank token should redact to empty, got %q", got)
	}
}
