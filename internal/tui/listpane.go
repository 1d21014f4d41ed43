package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tradmin/internal/listctl"
)

// pane is one tab's screen. Keys reach the active pane after the global
// bindings; a capturing pane (search or modal open) gets everything first.
type pane interface {
	title() string
	handleKey(msg tea.KeyMsg) tea.Cmd
	view(st uiStyles, width int) string
	capturing() bool
	close()
}

type column struct {
	key   string // backend sort key, "" when not sortable
	title string
	width int
}

// listPane renders a server-paginated table backed by a listctl.Paginated
// controller: debounced search, column sorting, windowed pager, page size
// cycling, and confirm-gated deletes.
type listPane[T any] struct {
	name  string
	ctx   context.Context
	ctl   *listctl.Paginated[T]
	cols  []column
	cells func(T) []string
	id    func(T) int64
	label func(T) string
	del   func(ctx context.Context, id int64) error
	// onKey handles pane-specific keys for the selected row (may be nil).
	onKey func(key string, item T) tea.Cmd

	search     textinput.Model
	searching  bool
	sorting    bool
	cursor     int
	confirming bool
	confirmID  int64
	confirmLbl string
}

func newListPane[T any](
	ctx context.Context,
	name string,
	ctl *listctl.Paginated[T],
	cols []column,
	cells func(T) []string,
	id func(T) int64,
	label func(T) string,
	del func(ctx context.Context, id int64) error,
) *listPane[T] {
	in := textinput.New()
	in.Placeholder = "search"
	in.CharLimit = 120
	return &listPane[T]{
		name: name, ctx: ctx, ctl: ctl,
		cols: cols, cells: cells, id: id, label: label, del: del,
		search: in,
	}
}

func (p *listPane[T]) title() string   { return p.name }
func (p *listPane[T]) capturing() bool { return p.searching || p.confirming || p.sorting }
func (p *listPane[T]) close()          { p.ctl.Close() }

func (p *listPane[T]) handleKey(msg tea.KeyMsg) tea.Cmd {
	if p.confirming {
		switch msg.String() {
		case "y", "Y":
			p.confirming = false
			id := p.confirmID
			return p.deleteCmd(id)
		default:
			p.confirming = false
		}
		return nil
	}

	if p.sorting {
		p.sorting = false
		if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
			if n := int(msg.Runes[0] - '1'); n >= 0 && n < len(p.cols) {
				if key := p.cols[n].key; key != "" {
					p.ctl.SetSort(key)
				}
			}
		}
		return nil
	}

	if p.searching {
		switch msg.Type {
		case tea.KeyEsc:
			p.searching = false
			p.search.Blur()
			p.search.SetValue("")
			p.ctl.SetSearch("")
		case tea.KeyEnter:
			p.searching = false
			p.search.Blur()
		default:
			var cmd tea.Cmd
			p.search, cmd = p.search.Update(msg)
			p.ctl.SetSearch(p.search.Value())
			return cmd
		}
		return nil
	}

	s := p.ctl.Snapshot()
	switch msg.String() {
	case "/":
		p.searching = true
		return p.search.Focus()
	case "s":
		p.sorting = true
	case "j", "down":
		if p.cursor < len(s.Items)-1 {
			p.cursor++
		}
	case "k", "up":
		if p.cursor > 0 {
			p.cursor--
		}
	case "h", "left":
		p.ctl.SetPage(s.Page - 1)
		p.cursor = 0
	case "l", "right":
		p.ctl.SetPage(s.Page + 1)
		p.cursor = 0
	case "g":
		p.ctl.SetPage(0)
		p.cursor = 0
	case "G":
		p.ctl.SetPage(s.TotalPages - 1)
		p.cursor = 0
	case "z":
		p.ctl.SetSize(nextPageSize(s.Size))
		p.cursor = 0
	case "r":
		p.ctl.Refetch()
	case "x":
		if p.del == nil || p.cursor >= len(s.Items) {
			break
		}
		it := s.Items[p.cursor]
		p.confirming = true
		p.confirmID = p.id(it)
		p.confirmLbl = p.label(it)
	default:
		if p.onKey != nil && p.cursor < len(s.Items) {
			return p.onKey(msg.String(), s.Items[p.cursor])
		}
	}
	return nil
}

func (p *listPane[T]) deleteCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		if err := p.del(p.ctx, id); err != nil {
			return statusMsg{pane: p.name, text: "delete failed: " + err.Error(), isErr: true}
		}
		p.ctl.Refetch()
		return statusMsg{pane: p.name, text: "deleted"}
	}
}

func (p *listPane[T]) view(st uiStyles, width int) string {
	s := p.ctl.Snapshot()
	var b strings.Builder

	// Search line. The raw text echoes immediately; the query lags behind it.
	if p.searching {
		b.WriteString("/" + p.search.View() + "\n")
	} else if s.Search != "" || s.RawSearch != "" {
		b.WriteString(st.dim.Render(fmt.Sprintf("filter: %q", s.RawSearch)) + "\n")
	}

	if s.Err != "" {
		b.WriteString(st.errBanner.Render("! "+truncate(s.Err, width-2)) + "\n")
	}

	heads := make([]string, len(p.cols))
	for i, c := range p.cols {
		h := c.title
		if c.key != "" && c.key == s.SortBy {
			h += " " + sortMarker(s.SortDir)
		}
		heads[i] = pad(h, c.width)
	}
	b.WriteString(st.colHead.Render(strings.Join(heads, " ")) + "\n")

	if len(s.Items) == 0 {
		if s.Loading {
			b.WriteString(st.dim.Render("loading…") + "\n")
		} else {
			b.WriteString(st.dim.Render("no records") + "\n")
		}
	}
	for i, it := range s.Items {
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
		b.WriteString(style.Render(strings.Join(line, " ")) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(renderPager(st, s.Page, s.PageNumbers))
	b.WriteString(st.dim.Render(fmt.Sprintf("  %d total, size %d", s.TotalElements, s.Size)))
	if s.Loading {
		b.WriteString(st.dim.Render("  ⋯"))
	}
	b.WriteString("\n")

	if p.sorting {
		var opts []string
		for i, c := range p.cols {
			if c.key != "" {
				opts = append(opts, fmt.Sprintf("%d:%s", i+1, c.title))
			}
		}
		b.WriteString(st.modal.Render("sort by  "+strings.Join(opts, "  ")) + "\n")
	}
	if p.confirming {
		b.WriteString(st.modal.Render(fmt.Sprintf("delete %q? (y/N)", p.confirmLbl)) + "\n")
	}
	return b.String()
}
