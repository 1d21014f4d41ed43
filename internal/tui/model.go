package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tradmin/internal/config"
	"tradmin/internal/listctl"
	"tradmin/internal/logging"
	"tradmin/internal/preview"
	"tradmin/internal/services"
	"tradmin/internal/session"
)

// Services bundles the backend services the TUI operates on.
type Services struct {
	Auth          *services.Auth
	GoldenBooks   *services.GoldenBooks
	Artifacts     *services.Artifacts
	Histories     *services.Histories
	Introductions *services.Introductions
	Users         *services.Users
	Images        *services.Images
}

type Model struct {
	cfg    *config.Config
	log    *logging.Logger
	sess   *session.Store
	svc    Services
	loader *preview.Loader
	saver  preview.FileSaver

	ctx     context.Context
	styles  uiStyles
	changes chan struct{}

	w, h      int
	activeTab int
	showHelp  bool
	status    string
	statusErr bool
	version   string

	login *loginPane
	panes []pane
}

type (
	tickMsg    time.Time
	changedMsg struct{}
	// statusMsg updates the status line; an empty text just forces a redraw.
	statusMsg struct {
		pane  string
		text  string
		isErr bool
	}
)

// New builds the root model. The list panes are created lazily after login
// so their initial fetches carry the bearer token.
func New(ctx context.Context, cfg *config.Config, log *logging.Logger, sess *session.Store, svc Services, loader *preview.Loader, version string) *Model {
	m := &Model{
		cfg:     cfg,
		log:     log,
		sess:    sess,
		svc:     svc,
		loader:  loader,
		saver:   preview.DirSaver{Dir: cfg.DownloadDir()},
		ctx:     ctx,
		styles:  newStyles(),
		changes: make(chan struct{}, 1),
		version: version,
		login:   newLoginPane(ctx, svc.Auth),
	}
	if sess.Authenticated() {
		m.buildPanes()
	}
	return m
}

// notifyChange is handed to the paginated controllers; it nudges the UI
// without blocking the controller goroutine.
func (m *Model) notifyChange() {
	select {
	case m.changes <- struct{}{}:
	default:
	}
}

func (m *Model) waitChangeCmd() tea.Cmd {
	return func() tea.Msg {
		<-m.changes
		return changedMsg{}
	}
}

func (m *Model) tickCmd() tea.Cmd {
	hz := m.cfg.UI.RefreshHz
	if hz <= 0 {
		hz = 4
	}
	if hz > 10 {
		hz = 10
	}
	return tea.Tick(time.Second/time.Duration(hz), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) listOptions() listctl.Options {
	return listctl.Options{
		InitialSize: m.cfg.UI.PageSize,
		Debounce:    time.Duration(m.cfg.UI.DebounceMS) * time.Millisecond,
		OnChange:    m.notifyChange,
	}
}

func (m *Model) buildPanes() {
	goldenBooks := newListPane(m.ctx, "Golden Book",
		listctl.NewPaginated(m.ctx, m.svc.GoldenBooks.ListPage, m.listOptions()),
		[]column{
			{key: "goldenBookName", title: "Name", width: 30},
			{key: "level", title: "Level", width: 12},
			{key: "year", title: "Year", width: 6},
			{key: "", title: "Department", width: 20},
		},
		func(g services.GoldenBook) []string {
			return []string{g.GoldenBookName, g.Level, fmt.Sprint(g.Year), g.Department}
		},
		func(g services.GoldenBook) int64 { return g.GoldenBookID },
		func(g services.GoldenBook) string { return g.GoldenBookName },
		m.svc.GoldenBooks.Delete,
	)

	artifacts := newListPane(m.ctx, "Artifacts",
		listctl.NewPaginated(m.ctx, m.svc.Artifacts.ListPage, m.listOptions()),
		[]column{
			{key: "artifactName", title: "Name", width: 30},
			{key: "period", title: "Period", width: 16},
			{key: "type", title: "Type", width: 14},
			{key: "", title: "Space", width: 14},
		},
		func(a services.Artifact) []string {
			return []string{a.ArtifactName, a.Period, a.Type, a.Space}
		},
		func(a services.Artifact) int64 { return a.ArtifactID },
		func(a services.Artifact) string { return a.ArtifactName },
		m.svc.Artifacts.Delete,
	)

	histories := newListPane(m.ctx, "Histories",
		listctl.NewPaginated(m.ctx, m.svc.Histories.ListPage, m.listOptions()),
		[]column{
			{key: "year", title: "Year", width: 8},
			{key: "title", title: "Title", width: 34},
			{key: "period", title: "Period", width: 16},
		},
		func(h services.History) []string {
			return []string{h.Year, h.Title, h.Period}
		},
		func(h services.History) int64 { return h.HistoryID },
		func(h services.History) string { return h.Title },
		m.svc.Histories.Delete,
	)

	introductions := newSimplePane(m.ctx, "Introductions",
		listctl.NewSimple(
			m.svc.Introductions.List,
			m.svc.Introductions.Delete,
			func(i services.Introduction) int64 { return i.IntroductionID },
			func(i services.Introduction) string { return i.Section + " " + i.Content },
		),
		[]column{
			{title: "Section", width: 24},
			{title: "Content", width: 50},
		},
		func(i services.Introduction) []string {
			return []string{i.Section, i.Content}
		},
		func(i services.Introduction) int64 { return i.IntroductionID },
		func(i services.Introduction) string { return i.Section },
	)

	images := newImagesPane(m.ctx, m.svc.Images, m.loader, m.saver)

	users := newListPane(m.ctx, "Users",
		listctl.NewPaginated(m.ctx, m.svc.Users.ListPage, m.listOptions()),
		[]column{
			{key: "username", title: "Username", width: 18},
			{key: "fullname", title: "Full name", width: 26},
			{key: "email", title: "Email", width: 26},
			{key: "", title: "Locked", width: 6},
		},
		func(u services.User) []string {
			locked := ""
			if u.IsLocked {
				locked = "yes"
			}
			return []string{u.Username, u.Fullname, u.Email, locked}
		},
		func(u services.User) int64 { return u.ID },
		func(u services.User) string { return u.Username },
		m.svc.Users.Delete,
	)
	users.onKey = func(key string, u services.User) tea.Cmd {
		if key != "L" {
			return nil
		}
		return func() tea.Msg {
			var err error
			if u.IsLocked {
				_, err = m.svc.Users.Unlock(m.ctx, u.ID)
			} else {
				_, err = m.svc.Users.Lock(m.ctx, u.ID)
			}
			if err != nil {
				return statusMsg{pane: "Users", text: err.Error(), isErr: true}
			}
			users.ctl.Refetch()
			verb := "locked"
			if u.IsLocked {
				verb = "unlocked"
			}
			return statusMsg{pane: "Users", text: fmt.Sprintf("%s %s", verb, u.Username)}
		}
	}

	m.panes = []pane{goldenBooks, artifacts, histories, introductions, images, users}
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.tickCmd(), m.waitChangeCmd()}
	if !m.sess.Authenticated() {
		cmds = append(cmds, m.login.initCmd())
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.w, m.h = msg.Width, msg.Height
		return m, nil

	case tickMsg:
		return m, m.tickCmd()

	case changedMsg:
		return m, m.waitChangeCmd()

	case statusMsg:
		if msg.text != "" {
			m.status = msg.text
			m.statusErr = msg.isErr
		}
		return m, nil

	case loginDoneMsg:
		cmd := m.login.handleDone(msg)
		if msg.err == nil {
			m.log.Infof("signed in as %s", msg.sess.Username)
			m.buildPanes()
			m.status = "signed in as " + msg.sess.Username
			m.statusErr = false
		}
		return m, cmd

	case previewMsg:
		for _, p := range m.panes {
			if ip, ok := p.(*imagesPane); ok {
				return m, ip.handlePreview(msg)
			}
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if !m.sess.Authenticated() {
		return m, m.login.update(msg)
	}
	return m, nil
}

func (m *Model) activePane() pane {
	if m.panes == nil || m.activeTab >= len(m.panes) {
		return nil
	}
	return m.panes[m.activeTab]
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.closePanes()
		return m, tea.Quit
	}

	if !m.sess.Authenticated() {
		return m, m.login.update(msg)
	}

	p := m.activePane()
	if p != nil && p.capturing() {
		return m, p.handleKey(msg)
	}

	switch msg.String() {
	case "q":
		m.closePanes()
		return m, tea.Quit
	case "?":
		m.showHelp = !m.showHelp
		return m, nil
	case "ctrl+d":
		m.closePanes()
		m.panes = nil
		m.activeTab = 0
		if err := m.svc.Auth.Logout(); err != nil {
			m.status = "logout failed: " + err.Error()
			m.statusErr = true
		} else {
			m.status = "signed out"
			m.statusErr = false
		}
		m.login = newLoginPane(m.ctx, m.svc.Auth)
		return m, m.login.initCmd()
	case "1", "2", "3", "4", "5", "6":
		n := int(msg.Runes[0] - '1')
		if n < len(m.panes) && n != m.activeTab {
			m.activeTab = n
			m.status = ""
			// Simple panes load on first visit.
			switch sp := m.panes[n].(type) {
			case *simplePane[services.Introduction]:
				if !sp.loadedOnce {
					return m, sp.loadCmd()
				}
			case *imagesPane:
				if !sp.loadedOnce {
					return m, sp.loadCmd()
				}
			}
		}
		return m, nil
	}

	if m.showHelp {
		return m, nil
	}
	if p != nil {
		return m, p.handleKey(msg)
	}
	return m, nil
}

func (m *Model) closePanes() {
	for _, p := range m.panes {
		p.close()
	}
}

func (m *Model) View() string {
	if m.w == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.styles.header.Render("Tradition Room Admin") + "\n")

	if !m.sess.Authenticated() {
		b.WriteString("\n" + m.login.view(m.styles))
		return b.String()
	}

	tabs := make([]string, len(m.panes))
	for i, p := range m.panes {
		label := fmt.Sprintf("%d %s", i+1, p.title())
		if i == m.activeTab {
			tabs[i] = m.styles.tabActive.Render(label)
		} else {
			tabs[i] = m.styles.tab.Render(label)
		}
	}
	b.WriteString(strings.Join(tabs, "") + "\n\n")

	if m.showHelp {
		b.WriteString(m.helpView())
		return b.String()
	}

	if p := m.activePane(); p != nil {
		b.WriteString(p.view(m.styles, m.w))
	}

	b.WriteString("\n" + m.statusLine())
	return b.String()
}

func (m *Model) statusLine() string {
	left := m.status
	if m.statusErr {
		left = m.styles.errBanner.Render(left)
	} else {
		left = m.styles.status.Render(left)
	}
	who := m.sess.Current().Username
	right := m.styles.status.Render(fmt.Sprintf("%s  %s  ? help  q quit", who, m.version))
	return left + "  " + right
}

func (m *Model) helpView() string {
	return `Keys:
  1-6        switch section
  j/k ↑/↓    move selection
  h/l ←/→    previous / next page
  g/G        first / last page
  /          search (debounced server-side on list tabs)
  s          choose sort column (then 1-9)
  z          cycle page size (5/10/20/50)
  r          reload
  x          delete selected (asks to confirm)
  enter      preview image (Images tab)
  w          download image (Images tab)
  L          lock/unlock user (Users tab)
  ctrl+d     sign out
  q          quit
`
}
