package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"tradmin/internal/listctl"
	"tradmin/internal/preview"
	"tradmin/internal/services"
)

// imagesPane is the image library: fuzzy-filtered listing, cursor-driven
// preview preloading, on-demand preview handles, downloads, and deletes.
// Exactly one preview handle is open at a time; closing the preview (or
// opening another) releases it.
type imagesPane struct {
	ctx    context.Context
	ctl    *listctl.Simple[services.Image]
	loader *preview.Loader
	saver  preview.FileSaver

	filter     textinput.Model
	filtering  bool
	cursor     int
	confirming bool
	confirmID  int64
	confirmLbl string
	loadedOnce bool

	open        *preview.Handle
	openName    string
	previewWait bool
}

type previewMsg struct {
	handle *preview.Handle
	name   string
	err    error
}

func newImagesPane(ctx context.Context, svc *services.Images, loader *preview.Loader, saver preview.FileSaver) *imagesPane {
	ctl := listctl.NewSimple(
		svc.List,
		svc.Delete,
		func(i services.Image) int64 { return i.ImageID },
		func(i services.Image) string { return i.OriginalFilename + " " + i.Description },
	)
	in := textinput.New()
	in.Placeholder = "filter"
	in.CharLimit = 120
	return &imagesPane{ctx: ctx, ctl: ctl, loader: loader, saver: saver, filter: in}
}

func (p *imagesPane) title() string   { return "Images" }
func (p *imagesPane) capturing() bool { return p.filtering || p.confirming || p.open != nil }

func (p *imagesPane) close() {
	p.releasePreview()
}

func (p *imagesPane) releasePreview() {
	if p.open != nil {
		p.open.Release()
		p.open = nil
	}
}

func (p *imagesPane) loadCmd() tea.Cmd {
	p.loadedOnce = true
	return func() tea.Msg {
		p.ctl.Load(p.ctx)
		return statusMsg{pane: p.title()}
	}
}

func (p *imagesPane) visible() []services.Image {
	return p.ctl.Filter(strings.TrimSpace(p.filter.Value()))
}

// preloadAround warms the cache for the rows adjacent to the cursor.
func (p *imagesPane) preloadAround() {
	items := p.visible()
	var ids []int64
	for i := p.cursor - 1; i <= p.cursor+1; i++ {
		if i >= 0 && i < len(items) {
			ids = append(ids, items[i].ImageID)
		}
	}
	p.loader.Preload(p.ctx, ids...)
}

func (p *imagesPane) handleKey(msg tea.KeyMsg) tea.Cmd {
	if !p.loadedOnce {
		return p.loadCmd()
	}

	if p.open != nil || p.previewWait {
		if msg.Type == tea.KeyEsc || msg.String() == "q" {
			p.releasePreview()
			p.previewWait = false
		}
		return nil
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
			p.preloadAround()
		}
	case "k", "up":
		if p.cursor > 0 {
			p.cursor--
			p.preloadAround()
		}
	case "r":
		return p.loadCmd()
	case "enter":
		if p.cursor >= len(items) {
			break
		}
		img := items[p.cursor]
		p.previewWait = true
		return func() tea.Msg {
			h, err := p.loader.Fetch(p.ctx, img.ImageID, img.URL)
			return previewMsg{handle: h, name: img.OriginalFilename, err: err}
		}
	case "w":
		if p.cursor >= len(items) {
			break
		}
		img := items[p.cursor]
		return func() tea.Msg {
			dest, err := p.loader.Download(p.ctx, img.ImageID, img.URL, img.OriginalFilename, p.saver)
			if err != nil {
				return statusMsg{pane: p.title(), text: err.Error(), isErr: true}
			}
			return statusMsg{pane: p.title(), text: "saved " + dest}
		}
	case "x":
		if p.cursor >= len(items) {
			break
		}
		img := items[p.cursor]
		p.confirming = true
		p.confirmID = img.ImageID
		p.confirmLbl = img.OriginalFilename
	}
	return nil
}

// handlePreview installs the fetched handle, releasing any previous one.
func (p *imagesPane) handlePreview(msg previewMsg) tea.Cmd {
	p.previewWait = false
	if msg.err != nil {
		return func() tea.Msg {
			return statusMsg{pane: p.title(), text: "preview failed: " + msg.err.Error(), isErr: true}
		}
	}
	p.releasePreview()
	p.open = msg.handle
	p.openName = msg.name
	return nil
}

func (p *imagesPane) deleteCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		if err := p.ctl.Remove(p.ctx, id); err != nil {
			return statusMsg{pane: p.title(), text: "delete failed: " + err.Error(), isErr: true}
		}
		return statusMsg{pane: p.title(), text: "deleted"}
	}
}

func (p *imagesPane) view(st uiStyles, width int) string {
	if p.open != nil {
		var b strings.Builder
		b.WriteString(st.header.Render(p.openName) + "\n\n")
		if p.open.Remote() {
			b.WriteString("remote: " + p.open.URL + "\n")
		} else {
			b.WriteString("file:   " + p.open.Path + "\n")
			b.WriteString(fmt.Sprintf("type:   %s\n", p.open.ContentType))
			b.WriteString(fmt.Sprintf("size:   %s\n", humanize.Bytes(uint64(p.open.Size))))
		}
		b.WriteString("\n" + st.dim.Render("esc to close") + "\n")
		return st.modal.Render(b.String()) + "\n"
	}
	if p.previewWait {
		return st.dim.Render("fetching preview…") + "\n"
	}

	var b strings.Builder
	if p.filtering {
		b.WriteString("/" + p.filter.View() + "\n")
	} else if p.filter.Value() != "" {
		b.WriteString(st.dim.Render(fmt.Sprintf("filter: %q", p.filter.Value())) + "\n")
	}
	if e := p.ctl.Err(); e != "" {
		b.WriteString(st.errBanner.Render("! "+truncate(e, width-2)) + "\n")
	}

	b.WriteString(st.colHead.Render(pad("Filename", 34)+" "+pad("Size", 10)+" "+pad("Description", 30)) + "\n")

	items := p.visible()
	if len(items) == 0 {
		if p.ctl.Loading() || !p.loadedOnce {
			b.WriteString(st.dim.Render("loading…") + "\n")
		} else {
			b.WriteString(st.dim.Render("no images") + "\n")
		}
	}
	deletingID, deleting := p.ctl.Deleting()
	for i, img := range items {
		line := pad(img.OriginalFilename, 34) + " " +
			pad(humanize.Bytes(uint64(img.FileSize)), 10) + " " +
			pad(img.Description, 30)
		style := st.row
		if i == p.cursor {
			style = st.sel
		}
		if deleting && img.ImageID == deletingID {
			line += " (deleting…)"
		}
		b.WriteString(style.Render(line) + "\n")
	}
	b.WriteString("\n" + st.dim.Render(fmt.Sprintf("%d shown   enter preview  w download  x delete", len(items))) + "\n")

	if p.confirming {
		b.WriteString(st.modal.Render(fmt.Sprintf("delete %q? (y/N)", p.confirmLbl)) + "\n")
	}
	return b.String()
}
