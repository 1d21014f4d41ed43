package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tradmin/internal/listctl"
)

// simplePane renders a whole-collection list backed by listctl.Simple:
// one load, client-side fuzzy filter, optimistic deletes.
type simplePane[T any] struct {
	name  string
	ctx   context.Context
	ctl   *listctl.Simple[T]
	cols  []column
	cells func(T) []string
	id    func(T) int64
	label func(T) string

	filter     textinput.Model
	filtering  bool
	cursor     int
	confirming bool
	confirmID  int64
	confirmLbl string
	loadedOnce bool
}

func newSimplePane[T any](
	ctx context.Context,
	name string,
	ctl *listctl.Simple[T],
	cols []column,
	cells func(T) []string,
	id func(T) int64,
	label func(T) string,
) *simplePane[T] {
	in := textinput.New()
	in.Placeholder = "filter"
	in.CharLimit = 120
	return &simplePane[T]{
		name: name, ctx: ctx, ctl: ctl,
		cols: cols, cells: cells, id: id, label: label,
		filter: in,
	}
}

func (p *simplePane[T]) title() string   { return p.name }
func (p *simplePane[T]) capturing() bool { return p.filtering || p.confirming }
func (p *simplePane[T]) close()          {}

// loadCmd fetches the collection off the UI goroutine.
func (p *simplePane[T]) loadCmd() tea.Cmd {
	p.loadedOnce = true
	return func() tea.Msg {
		p.ctl.Load(p.ctx)
		return statusMsg{pane: p.name}
	}
}

func (p *simplePane[T]) visible() []T {
	return p.ctl.Filter(strings.TrimSpace(p.filter.Value()))
}

func (p *simplePane[T]) handleKey(msg tea.KeyMsg) tea.Cmd {
	if !p.loadedOnce {
		return p.loadCmd()
	}

	if p.confirming {
		switch msg.String() {
		case "y", "Y":
			p.confirming = false
			return p.deleteCmd(p.confirmID)
		default:
			p.confirming = false
		}
		return nil
	}

	if p.filtering {
		switch msg.Type {
		case tea.KeyEsc:
			p.filtering = false
			p.filter.Blur()
			p.filter.SetValue("")
		case tea.KeyEnter:
			p.filtering = false
			p.filter.Blur()
		default:
			var cmd tea.Cmd
			p.filter, cmd = p.filter.Update(msg)
			p.cursor = 0
			return cmd
		}
		return nil
	}

	items := p.visible()
	switch msg.String() {
	case "/":
		p.filtering = true
		return p.filter.Focus()
	case "j", "down":
		if p.cursor < len(items)-1 {
			p.cursor++
		}
	case "k", "up":
		if p.cursor > 0 {
			p.cursor--
		}
	case "r":
		return p.loadCmd()
	case "x":
		if p.cursor >= len(items) {
			break
		}
		it := items[p.cursor]
		p.confirming = true
		p.confirmID = p.id(it)
		p.confirmLbl = p.label(it)
	}
	return nil
}

func (p *simplePane[T]) deleteCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		// Remove is optimistic: success drops the row locally, no re-fetch.
		if err := p.ctl.Remove(p.ctx, id); err != nil {
			if err == listctl.ErrDeleteInFlight {
				return statusMsg{pane: p.name, text: err.Error(), isErr: true}
			}
			return statusMsg{pane: p.name, text: "delete failed: " + err.Error(), isErr: true}
		}
		return statusMsg{pane: p.name, text: "deleted"}
	}
}

func (p *simplePane[T]) view(st uiStyles, width int) string {
	var b strings.Builder

	if p.filtering {
		b.WriteString("/" + p.filter.View() + "\n")
	} else if p.filter.Value() != "" {
		b.WriteString(st.dim.Render(fmt.Sprintf("filter: %q", p.filter.Value())) + "\n")
	}
	if e := p.ctl.Err(); e != "" {
		b.WriteString(st.errBanner.Render("! "+truncate(e, width-2)) + "\n")
	}

	heads := make([]string, len(p.cols))
	for i, c := range p.cols {
		heads[i] = pad(c.title, c.width)
	}
	b.WriteString(st.colHead.Render(strings.Join(heads, " ")) + "\n")

	items := p.visible()
	if len(items) == 0 {
		if p.ctl.Loading() || !p.loadedOnce {
			b.WriteString(st.dim.Render("loading…") + "\n")
		} else {
			b.WriteString(st.dim.Render("no records") + "\n")
		}
	}
	deletingID, deleting := p.ctl.Deleting()
	for i, it := range items {
		cells := p.cells(it)
		line := make([]string, len(p.cols))
		for c := range p.cols {
			v := ""
			if c < len(cells) {
				v = cells[c]
			}
			line[c] = pad(v, p.cols[c].width)
		}
		style := st.row
		if i == p.cursor {
			style = st.sel
		}
		out := strings.Join(line, " ")
		if deleting && p.id(it) == deletingID {
			out += " (deleting…)"
		}
		b.WriteString(style.Render(out) + "\n")
	}

	b.WriteString("\n" + st.dim.Render(fmt.Sprintf("%d shown", len(items))) + "\n")

	if p.confirming {
		b.WriteString(st.modal.Render(fmt.Sprintf("delete %q? (y/N)", p.confirmLbl)) + "\n")
	}
	return b.String()
}
