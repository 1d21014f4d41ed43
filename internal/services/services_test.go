package services

import (
	"context"
	"net/http"
	"testing"

	"tradmin/internal/api"
	"tradmin/internal/config"
	"tradmin/internal/listctl"
	"tradmin/internal/logging"
	"tradmin/internal/session"
	"tradmin/internal/testutil"
)

func newTestAPI(t *testing.T) (*testutil.MockAPI, *api.Client, *session.Store) {
	t.Helper()
	ms := testutil.NewMockAPI()
	t.Cleanup(ms.Close)

	cfg := &config.Config{Version: 1}
	cfg.Server.BaseURL = ms.URL
	cfg.Cache.DataRoot = t.TempDir()
	sess := session.NewStore(nil)
	return ms, api.New(cfg, logging.New("error", false), sess, nil), sess
}

func TestPageQueryEncoding(t *testing.T) {
	ms, c, _ := newTestAPI(t)
	ms.RespondData(http.MethodGet, "/api/v1/golden-book", map[string]any{
		"content": []GoldenBook{}, "page": 0, "size": 10, "totalElements": 0, "totalPages": 0,
	})

	gb := NewGoldenBooks(c)
	_, err := gb.ListPage(context.Background(), listctl.Query{
		Page: 2, Size: 20, SortBy: "year", SortDir: listctl.SortAsc, Search: "  bronze  ",
	})
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}

	q := ms.LastRequest(t).Query
	want := map[string]string{"page": "2", "size": "20", "sortBy": "year", "sortDir": "ASC", "search": "bronze"}
	for k, v := range want {
		if q[k] != v {
			t.Errorf("param %s = %q, want %q", k, q[k], v)
		}
	}
}

func TestPageQueryOmitsBlankSearch(t *testing.T) {
	ms, c, _ := newTestAPI(t)
	ms.RespondData(http.MethodGet, "/api/v1/artifacts", map[string]any{
		"content": []Artifact{}, "page": 0, "size": 10, "totalElements": 0, "totalPages": 0,
	})

	_, err := NewArtifacts(c).ListPage(context.Background(), listctl.Query{Size: 10, Search: "   "})
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if _, ok := ms.LastRequest(t).Query["search"]; ok {
		t.Fatal("blank search must not be sent")
	}
}

func TestListPageDecodesContent(t *testing.T) {
	ms, c, _ := newTestAPI(t)
	ms.RespondData(http.MethodGet, "/api/v1/histories", map[string]any{
		"content": []History{
			{HistoryID: 1, Year: "1965", Title: "Founding"},
			{HistoryID: 2, Year: "1975", Title: "Reunification"},
		},
		"page": 0, "size": 10, "totalElements": 2, "totalPages": 1, "hasNext": false, "hasPrevious": false,
	})

	page, err := NewHistories(c).ListPage(context.Background(), listctl.Query{Size: 10})
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if len(page.Content) != 2 || page.Content[1].Title != "Reunification" {
		t.Fatalf("unexpected page: %+v", page)
	}
	if page.TotalPages != 1 || page.HasNext {
		t.Fatalf("pagination metadata wrong: %+v", page)
	}
}

func TestLoginInstallsSessionAndLogoutRemovesIt(t *testing.T) {
	ms, c, sess := newTestAPI(t)
	ms.RespondData(http.MethodPost, "/api/v1/auth/login", loginResponse{
		UserID: 7, Username: "curator", TypeToken: "Bearer", AccessToken: "jwt-abc",
	})
	ms.RespondData(http.MethodGet, "/api/v1/users", []User{})

	auth := NewAuth(c, sess)
	got, err := auth.Login(context.Background(), "curator", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.Token != "jwt-abc" || got.UserID != 7 || got.Username != "curator" {
		t.Fatalf("unexpected session: %+v", got)
	}
	if loginReq := ms.RequestsTo(http.MethodPost, "/api/v1/auth/login"); len(loginReq) != 1 || loginReq[0].Authorization != "" {
		t.Fatalf("login must be anonymous: %+v", loginReq)
	}

	if _, err := NewUsers(c).List(context.Background()); err != nil {
		t.Fatalf("List: %v", err)
	}
	if got := ms.LastRequest(t).Authorization; got != "Bearer jwt-abc" {
		t.Fatalf("authenticated call carried %q", got)
	}

	if err := auth.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := NewUsers(c).List(context.Background()); err != nil {
		t.Fatalf("List: %v", err)
	}
	if got := ms.LastRequest(t).Authorization; got != "" {
		t.Fatalf("post-logout call still carried %q", got)
	}
}

func TestLoginFailureLeavesSessionEmpty(t *testing.T) {
	ms, c, sess := newTestAPI(t)
	ms.RespondError(http.MethodPost, "/api/v1/auth/login", 401, "bad credentials")

	_, err := NewAuth(c, sess).Login(context.Background(), "curator", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	if sess.Authenticated() {
		t.Fatal("failed login must not install a session")
	}
}

func TestUserLockUnlock(t *testing.T) {
	ms, c, sess := newTestAPI(t)
	_ = sess.Login(session.Session{Token: "tok"})
	ms.RespondData(http.MethodPut, "/api/v1/users/5/lock", User{ID: 5, IsLocked: true})
	ms.RespondData(http.MethodPut, "/api/v1/users/5/unlock", User{ID: 5, IsLocked: false})

	users := NewUsers(c)
	u, err := users.Lock(context.Background(), 5)
	if err != nil || !u.IsLocked {
		t.Fatalf("Lock: user=%+v err=%v", u, err)
	}
	u, err = users.Unlock(context.Background(), 5)
	if err != nil || u.IsLocked {
		t.Fatalf("Unlock: user=%+v err=%v", u, err)
	}
	for _, r := range ms.Requests() {
		if r.Authorization != "Bearer tok" {
			t.Fatalf("%s %s sent without bearer", r.Method, r.Path)
		}
	}
}

func TestGoldenBookCRUDPaths(t *testing.T) {
	ms, c, sess := newTestAPI(t)
	_ = sess.Login(session.Session{Token: "tok"})
	ms.RespondData(http.MethodPost, "/api/v1/golden-book", GoldenBook{GoldenBookID: 11, GoldenBookName: "Hero unit"})
	ms.RespondData(http.MethodPut, "/api/v1/golden-book/11", GoldenBook{GoldenBookID: 11, GoldenBookName: "Hero unit 1975"})
	ms.Respond(http.MethodDelete, "/api/v1/golden-book/11", testutil.MockResponse{StatusCode: 200, Body: `{"success":true}`})

	gb := NewGoldenBooks(c)
	created, err := gb.Create(context.Background(), GoldenBookRequest{GoldenBookName: "Hero unit", Level: "national", Year: 1975})
	if err != nil || created.GoldenBookID != 11 {
		t.Fatalf("Create: %+v err=%v", created, err)
	}
	updated, err := gb.Update(context.Background(), 11, GoldenBookRequest{GoldenBookName: "Hero unit 1975"})
	if err != nil || updated.GoldenBookName != "Hero unit 1975" {
		t.Fatalf("Update: %+v err=%v", updated, err)
	}
	if err := gb.Delete(context.Background(), 11); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if n := len(ms.RequestsTo(http.MethodDelete, "/api/v1/golden-book/11")); n != 1 {
		t.Fatalf("expected one DELETE, saw %d", n)
	}
}

func TestImageDownloadURL(t *testing.T) {
	_, c, _ := newTestAPI(t)
	want := c.URL("/images/42/download")
	if got := NewImages(c).DownloadURL(42); got != want {
		t.Fatalf("DownloadURL = %q, want %q", got, want)
	}
}
