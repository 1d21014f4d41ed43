package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tradmin/internal/config"
	"tradmin/internal/logging"
	"tradmin/internal/session"
	"tradmin/internal/testutil"
)

func newTestClient(baseURL string, sess *session.Store) *Client {
	cfg := &config.Config{Version: 1}
	cfg.Server.BaseURL = baseURL
	cfg.Cache.DataRoot = "/tmp"
	return New(cfg, logging.New("error", false), sess, nil)
}

func TestBearerHeaderFollowsSession(t *testing.T) {
	ms := testutil.NewMockAPI()
	defer ms.Close()
	ms.RespondData(http.MethodGet, "/api/v1/users", []string{})

	sess := session.NewStore(nil)
	c := newTestClient(ms.URL, sess)

	if _, err := c.Get(context.Background(), "/users", true); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got := ms.LastRequest(t).Authorization; got != "" {
		t.Fatalf("logged-out request must omit Authorization, got %q", got)
	}

	_ = sess.Login(session.Session{Token: "tok-1"})
	if _, err := c.Get(context.Background(), "/users", true); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got := ms.LastRequest(t).Authorization; got != "Bearer tok-1" {
		t.Fatalf("unexpected Authorization: %q", got)
	}

	_ = sess.Logout()
	if _, err := c.Get(context.Background(), "/users", true); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got := ms.LastRequest(t).Authorization; got != "" {
		t.Fatalf("post-logout request must omit Authorization, got %q", got)
	}
}

func TestStructuredErrorEnvelope(t *testing.T) {
	ms := testutil.NewMockAPI()
	defer ms.Close()
	ms.Respond(http.MethodPost, "/api/v1/users", testutil.MockResponse{
		StatusCode: 400,
		Body:       `{"success":false,"error":"validation failed","data":{"email":"must be a valid address"}}`,
	})

	c := newTestClient(ms.URL, session.NewStore(nil))
	_, err := c.Post(context.Background(), "/users", map[string]string{}, false)
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *api.Error, got %T", err)
	}
	if apiErr.Status != 400 || apiErr.Message != "validation failed" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
	if !apiErr.IsValidation() || apiErr.Fields["email"] == "" {
		t.Fatalf("field errors lost: %+v", apiErr.Fields)
	}
}

func TestSuccessFalseOn2xxIsAnError(t *testing.T) {
	ms := testutil.NewMockAPI()
	defer ms.Close()
	ms.Respond(http.MethodGet, "/api/v1/artifacts/9", testutil.MockResponse{
		StatusCode: 200,
		Body:       `{"success":false,"message":"artifact not found"}`,
	})
	c := newTestClient(ms.URL, session.NewStore(nil))
	_, err := c.Get(context.Background(), "/artifacts/9", false)
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Message != "artifact not found" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBareStatusGetsFriendlyMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("Unauthorized"))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, session.NewStore(nil))
	_, err := c.Get(context.Background(), "/users", true)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *api.Error, got %v", err)
	}
	if apiErr.Status != 401 {
		t.Fatalf("unexpected status: %d", apiErr.Status)
	}
	if apiErr.Message == "" || apiErr.Message == "Unauthorized" {
		t.Fatalf("expected friendly message, got %q", apiErr.Message)
	}
}

func TestMultipartCarriesFieldsAndFiles(t *testing.T) {
	var gotDesc, gotFile, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotDesc = r.FormValue("description")
		if f, hdr, err := r.FormFile("file"); err == nil {
			gotFile = hdr.Filename
			_ = f.Close()
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"imageId":1}}`))
	}))
	defer srv.Close()

	sess := session.NewStore(nil)
	_ = sess.Login(session.Session{Token: "tok-2"})
	c := newTestClient(srv.URL, sess)

	env, err := c.PostMultipart(context.Background(), "/images/upload",
		map[string]string{"description": "flag photo"},
		[]FilePart{{Field: "file", Filename: "flag.png", Reader: strings.NewReader("png-bytes")}}, true)
	if err != nil {
		t.Fatalf("PostMultipart: %v", err)
	}
	if !env.Success {
		t.Fatal("expected success envelope")
	}
	if gotDesc != "flag photo" || gotFile != "flag.png" {
		t.Fatalf("multipart payload wrong: desc=%q file=%q", gotDesc, gotFile)
	}
	if gotAuth != "Bearer tok-2" {
		t.Fatalf("multipart request missing bearer: %q", gotAuth)
	}
}

func TestGetBinary(t *testing.T) {
	ms := testutil.NewMockAPI()
	defer ms.Close()
	ms.RespondBinary("/api/v1/images/3/download", "image/png", []byte{0x89, 'P', 'N', 'G'})

	sess := session.NewStore(nil)
	_ = sess.Login(session.Session{Token: "tok-3"})
	c := newTestClient(ms.URL, sess)

	b, ct, err := c.GetBinary(context.Background(), c.URL("/images/3/download"), true)
	if err != nil {
		t.Fatalf("GetBinary: %v", err)
	}
	if ct != "image/png" || len(b) != 4 {
		t.Fatalf("unexpected binary response: ct=%q len=%d", ct, len(b))
	}
	if got := ms.LastRequest(t).Authorization; got != "Bearer tok-3" {
		t.Fatalf("binary fetch must carry bearer, got %q", got)
	}
}

func TestAbsoluteURL(t *testing.T) {
	c := newTestClient("http://backend:8080", session.NewStore(nil))
	cases := []struct{ in, want string }{
		{"/uploads/a.png", "http://backend:8080/uploads/a.png"},
		{"uploads/a.png", "http://backend:8080/uploads/a.png"},
		{"https://cdn.example.org/a.png", "https://cdn.example.org/a.png"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := c.AbsoluteURL(tc.in); got != tc.want {
			t.Errorf("AbsoluteURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
