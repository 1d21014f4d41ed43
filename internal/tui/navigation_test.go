package tui

import (
	"context"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tradmin/internal/api"
	"tradmin/internal/config"
	"tradmin/internal/listctl"
	"tradmin/internal/logging"
	"tradmin/internal/preview"
	"tradmin/internal/services"
	"tradmin/internal/session"
	"tradmin/internal/testutil"
)

func pageBody(content any, total int64, totalPages int) map[string]any {
	return map[string]any{
		"content": content, "page": 0, "size": 10,
		"totalElements": total, "totalPages": totalPages,
		"hasNext": totalPages > 1, "hasPrevious": false,
	}
}

// setupTestModel builds an authenticated model against a mock backend with a
// few rows in each section.
func setupTestModel(t *testing.T) (*Model, *testutil.MockAPI) {
	t.Helper()
	ms := testutil.NewMockAPI()
	t.Cleanup(ms.Close)

	ms.RespondData(http.MethodGet, "/api/v1/golden-book", pageBody([]services.GoldenBook{
		{GoldenBookID: 1, GoldenBookName: "Hero unit", Level: "national", Year: 1975},
		{GoldenBookID: 2, GoldenBookName: "Labor medal", Level: "province", Year: 1986},
		{GoldenBookID: 3, GoldenBookName: "Resistance order", Level: "national", Year: 1954},
	}, 3, 1))
	ms.RespondData(http.MethodGet, "/api/v1/artifacts", pageBody([]services.Artifact{
		{ArtifactID: 1, ArtifactName: "Bronze drum"},
	}, 1, 1))
	ms.RespondData(http.MethodGet, "/api/v1/histories", pageBody([]services.History{
		{HistoryID: 1, Year: "1965", Title: "Founding"},
	}, 1, 1))
	ms.RespondData(http.MethodGet, "/api/v1/users", pageBody([]services.User{
		{ID: 1, Username: "curator"},
	}, 1, 1))
	ms.RespondData(http.MethodGet, "/api/v1/introductions", []services.Introduction{
		{IntroductionID: 1, Section: "welcome", Content: "About the room"},
	})
	ms.RespondData(http.MethodGet, "/api/v1/images", []services.Image{
		{ImageID: 1, OriginalFilename: "drum.png", FileSize: 2048},
	})

	cfg := &config.Config{Version: 1}
	cfg.Server.BaseURL = ms.URL
	cfg.Cache.DataRoot = t.TempDir()

	log := logging.New("error", false)
	sess := session.NewStore(nil)
	_ = sess.Login(session.Session{Token: "tok", Username: "curator"})
	client := api.New(cfg, log, sess, nil)

	cache, err := preview.OpenCache(cfg)
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })

	images := services.NewImages(client)
	loader := preview.NewLoader(client, cache, images.DownloadURL, log, nil)

	svc := Services{
		Auth:          services.NewAuth(client, sess),
		GoldenBooks:   services.NewGoldenBooks(client),
		Artifacts:     services.NewArtifacts(client),
		Histories:     services.NewHistories(client),
		Introductions: services.NewIntroductions(client),
		Users:         services.NewUsers(client),
		Images:        images,
	}
	m := New(context.Background(), cfg, log, sess, svc, loader, "test")
	m.w, m.h = 120, 40
	t.Cleanup(m.closePanes)
	return m, ms
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func goldenPane(t *testing.T, m *Model) *listPane[services.GoldenBook] {
	t.Helper()
	p, ok := m.panes[0].(*listPane[services.GoldenBook])
	if !ok {
		t.Fatalf("pane 0 is %T", m.panes[0])
	}
	return p
}

func TestTabSwitching(t *testing.T) {
	m, _ := setupTestModel(t)

	tests := []struct {
		key  string
		want int
	}{
		{"2", 1}, {"3", 2}, {"6", 5}, {"1", 0},
	}
	for _, tt := range tests {
		updated, _ := m.Update(key(tt.key))
		m = updated.(*Model)
		if m.activeTab != tt.want {
			t.Errorf("key %s: activeTab=%d, want %d", tt.key, m.activeTab, tt.want)
		}
	}
}

func TestListNavigationBounds(t *testing.T) {
	m, _ := setupTestModel(t)
	p := goldenPane(t, m)
	waitFor(t, func() bool { return len(p.ctl.Snapshot().Items) == 3 })

	for i := 0; i < 10; i++ {
		m.Update(key("j"))
	}
	if p.cursor != 2 {
		t.Fatalf("cursor=%d, want 2 (clamped to last row)", p.cursor)
	}
	for i := 0; i < 10; i++ {
		m.Update(key("k"))
	}
	if p.cursor != 0 {
		t.Fatalf("cursor=%d, want 0", p.cursor)
	}
}

func TestSearchCaptureAndDebounce(t *testing.T) {
	m, _ := setupTestModel(t)
	p := goldenPane(t, m)
	waitFor(t, func() bool { return len(p.ctl.Snapshot().Items) == 3 })

	m.Update(key("/"))
	if !p.capturing() {
		t.Fatal("expected search mode to capture keys")
	}

	// While searching, digits go to the input, not tab switching.
	m.Update(key("1"))
	if m.activeTab != 0 {
		t.Fatalf("digit leaked to tab switching: activeTab=%d", m.activeTab)
	}
	if got := p.ctl.Snapshot().RawSearch; got != "1" {
		t.Fatalf("raw search %q, want %q", got, "1")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if p.capturing() {
		t.Fatal("esc must leave search mode")
	}
	if got := p.ctl.Snapshot().RawSearch; got != "" {
		t.Fatalf("esc must clear the search, got %q", got)
	}
}

func TestDeleteConfirmFlow(t *testing.T) {
	m, ms := setupTestModel(t)
	p := goldenPane(t, m)
	waitFor(t, func() bool { return len(p.ctl.Snapshot().Items) == 3 })
	ms.Respond(http.MethodDelete, "/api/v1/golden-book/1", testutil.MockResponse{
		StatusCode: 200, Body: `{"success":true}`,
	})

	// Anything but y cancels.
	m.Update(key("x"))
	if !p.confirming {
		t.Fatal("x must open the confirm modal")
	}
	m.Update(key("n"))
	if p.confirming {
		t.Fatal("n must cancel")
	}
	if n := len(ms.RequestsTo(http.MethodDelete, "/api/v1/golden-book/1")); n != 0 {
		t.Fatalf("cancelled delete still sent %d requests", n)
	}

	m.Update(key("x"))
	_, cmd := m.Update(key("y"))
	if cmd == nil {
		t.Fatal("y must produce a delete command")
	}
	msg := cmd()
	st, ok := msg.(statusMsg)
	if !ok || st.isErr {
		t.Fatalf("unexpected delete result: %#v", msg)
	}
	if n := len(ms.RequestsTo(http.MethodDelete, "/api/v1/golden-book/1")); n != 1 {
		t.Fatalf("expected one DELETE, saw %d", n)
	}
}

func TestQuitKeys(t *testing.T) {
	for _, msg := range []tea.Msg{key("q"), tea.KeyMsg{Type: tea.KeyCtrlC}} {
		m, _ := setupTestModel(t)
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Errorf("%v: expected quit command", msg)
		}
	}
}

func TestHelpToggle(t *testing.T) {
	m, _ := setupTestModel(t)
	m.Update(key("?"))
	if !m.showHelp {
		t.Fatal("expected help on")
	}
	m.Update(key("?"))
	if m.showHelp {
		t.Fatal("expected help off")
	}
}

func TestWindowResize(t *testing.T) {
	m, _ := setupTestModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 200, Height: 50})
	m = updated.(*Model)
	if m.w != 200 || m.h != 50 {
		t.Fatalf("size=%dx%d, want 200x50", m.w, m.h)
	}
}

func TestLoginGate(t *testing.T) {
	m, ms := setupTestModel(t)
	ms.RespondData(http.MethodPost, "/api/v1/auth/login", map[string]any{
		"userId": 1, "username": "curator", "typeToken": "Bearer", "accessToken": "jwt",
	})

	// Sign out: panes torn down, login form shown.
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	if m.panes != nil {
		t.Fatal("logout must tear down panes")
	}
	if m.sess.Authenticated() {
		t.Fatal("logout must clear the session")
	}
	view := m.View()
	if view == "" {
		t.Fatal("empty view")
	}

	// Completing the login rebuilds panes.
	updated, _ := m.Update(loginDoneMsg{sess: session.Session{Token: "jwt", Username: "curator"}})
	m = updated.(*Model)
	if len(m.panes) != 6 {
		t.Fatalf("expected 6 panes after login, got %d", len(m.panes))
	}
}

func TestImagesPreviewLifecycle(t *testing.T) {
	m, ms := setupTestModel(t)
	ms.RespondBinary("/api/v1/images/1/download", "image/png", []byte("png-bytes"))

	// Visit the images tab; first visit loads the collection.
	updated, cmd := m.Update(key("5"))
	m = updated.(*Model)
	if cmd == nil {
		t.Fatal("first visit must issue a load command")
	}
	cmd() // blocking load
	ip := m.panes[4].(*imagesPane)
	if len(ip.visible()) != 1 {
		t.Fatalf("expected 1 image, got %d", len(ip.visible()))
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter must issue a preview fetch")
	}
	msg := cmd()
	pm, ok := msg.(previewMsg)
	if !ok || pm.err != nil {
		t.Fatalf("unexpected preview result: %#v", msg)
	}
	m.Update(msg)
	if ip.open == nil {
		t.Fatal("preview handle not installed")
	}
	path := ip.open.Path

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if ip.open != nil {
		t.Fatal("esc must close the preview")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("closing the preview must release the temp file")
	}
}

func TestPagerRendering(t *testing.T) {
	st := newStyles()
	out := renderPager(st, 5, listctl.PageNumbers(5, 10))
	for _, want := range []string{"1", "…", "5", "[6]", "7", "10"} {
		if !strings.Contains(out, want) {
			t.Errorf("pager missing %q: %s", want, out)
		}
	}
}

func TestNextPageSize(t *testing.T) {
	cases := []struct{ in, want int }{{5, 10}, {10, 20}, {20, 50}, {50, 5}, {7, 5}}
	for _, c := range cases {
		if got := nextPageSize(c.in); got != c.want {
			t.Errorf("nextPageSize(%d)=%d, want %d", c.in, got, c.want)
		}
	}
}
