package tui

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"tradmin/internal/services"
	"tradmin/internal/session"
)

var errRequired = errors.New("required")

// loginPane shows the credential form until a session is established.
type loginPane struct {
	ctx  context.Context
	auth *services.Auth

	form     *huh.Form
	username string
	password string
	busy     bool
	errText  string
}

type loginDoneMsg struct {
	sess session.Session
	err  error
}

func newLoginPane(ctx context.Context, auth *services.Auth) *loginPane {
	p := &loginPane{ctx: ctx, auth: auth}
	p.form = p.newForm()
	return p
}

func (p *loginPane) newForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&p.username).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errRequired
					}
					return nil
				}),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&p.password).
				Validate(func(s string) error {
					if s == "" {
						return errRequired
					}
					return nil
				}),
		),
	).WithShowHelp(false)
}

func (p *loginPane) initCmd() tea.Cmd { return p.form.Init() }

// update drives the form and kicks off the login call when it completes.
func (p *loginPane) update(msg tea.Msg) tea.Cmd {
	if p.busy {
		return nil
	}
	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}
	if p.form.State == huh.StateCompleted {
		p.busy = true
		username, password := p.username, p.password
		return tea.Batch(cmd, func() tea.Msg {
			sess, err := p.auth.Login(p.ctx, username, password)
			return loginDoneMsg{sess: sess, err: err}
		})
	}
	return cmd
}

// handleDone resets the form on failure so credentials can be re-entered.
func (p *loginPane) handleDone(msg loginDoneMsg) tea.Cmd {
	p.busy = false
	if msg.err != nil {
		p.errText = msg.err.Error()
		p.password = ""
		p.form = p.newForm()
		return p.form.Init()
	}
	p.errText = ""
	return nil
}

func (p *loginPane) view(st uiStyles) string {
	var b strings.Builder
	b.WriteString(st.header.Render("Sign in") + "\n\n")
	if p.errText != "" {
		b.WriteString(st.errBanner.Render("! "+p.errText) + "\n\n")
	}
	if p.busy {
		b.WriteString(st.dim.Render("signing in…") + "\n")
		return b.String()
	}
	b.WriteString(p.form.View())
	return b.String()
}
