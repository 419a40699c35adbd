package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/linkdeck/internal/model"
	"github.com/nikbrunner/linkdeck/internal/tui/layout"
)

// View implements tea.Model.
func (a App) View() string {
	if a.mode != ModeNormal {
		return a.renderModal()
	}

	paneHeight := layout.PaneHeight(a.height, a.layout.Pane)
	paneWidth := layout.PaneWidth(a.width, a.layout.Pane)

	columns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		a.renderParentPane(paneWidth, paneHeight),
		a.renderCurrentPane(paneWidth, paneHeight),
		a.renderPreviewPane(paneWidth, paneHeight),
	)

	content := a.styles.App.Render(
		lipgloss.JoinVertical(lipgloss.Left, a.renderHeader(), columns, a.renderHelpBar()),
	)

	// Use Place to ensure exact terminal dimensions and prevent overflow
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}

// breadcrumb returns the path of the current level.
func (a App) breadcrumb() string {
	parts := []string{"linkdeck"}
	tree := a.store.Tree()
	if cat := tree.CategoryByID(a.categoryID); cat != nil {
		parts = append(parts, cat.Title)
	}
	if sub := tree.SubcategoryByID(a.subcategoryID); sub != nil {
		parts = append(parts, sub.Title)
	}
	return strings.Join(parts, " / ")
}

// renderHeader renders the breadcrumb with the saving indicator on the right.
func (a App) renderHeader() string {
	right := ""
	if a.saving {
		right = a.styles.Saving.Render("saving…")
	}

	// Terminal width minus app padding (left=2, right=2)
	available := a.width - 4 - lipgloss.Width(right) - 1
	path, _ := layout.Truncate(a.breadcrumb(), available, a.layout.Text)
	left := a.styles.Breadcrumb.Render(path)

	gap := a.width - 4 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderPane renders a bordered list with a title, keeping the cursor in view.
// cursor < 0 renders no selection.
func (a App) renderPane(title string, items []Item, cursor int, active bool, width, height int) string {
	var content strings.Builder
	content.WriteString(a.styles.Title.Render(title) + "\n\n")

	if len(items) == 0 {
		content.WriteString(a.styles.Empty.Render("(empty)"))
	} else {
		visible := layout.VisibleRows(height, a.layout.Pane)
		itemWidth := layout.ItemWidth(width, a.layout.Pane)
		offset := layout.ViewportOffset(max(cursor, 0), len(items), visible)

		for i := offset; i < len(items) && i < offset+visible; i++ {
			content.WriteString(a.renderItem(items[i], i == cursor, itemWidth) + "\n")
		}
	}

	style := a.styles.Pane
	if active {
		style = a.styles.PaneActive
	}
	return style.
		Width(width).
		Height(height).
		Render(strings.TrimRight(content.String(), "\n"))
}

// renderParentPane shows the level above, with the open group selected.
func (a App) renderParentPane(width, height int) string {
	tree := a.store.Tree()

	switch {
	case a.subcategoryID != "":
		items := itemsAt(tree, a.categoryID, "")
		title := tree.CategoryByID(a.categoryID).Title
		return a.renderPane(title, items, indexOf(items, a.subcategoryID), false, width, height)
	case a.categoryID != "":
		items := itemsAt(tree, "", "")
		return a.renderPane("linkdeck", items, indexOf(items, a.categoryID), false, width, height)
	}

	stats := fmt.Sprintf("%d categories\n%d links", len(tree), tree.LinkCount())
	return a.styles.Pane.
		Width(width).
		Height(height).
		Render(a.styles.Title.Render("linkdeck") + "\n\n" + a.styles.Empty.Render(stats))
}

func (a App) renderCurrentPane(width, height int) string {
	title := "Categories"
	tree := a.store.Tree()
	if sub := tree.SubcategoryByID(a.subcategoryID); sub != nil {
		title = sub.Title
	} else if cat := tree.CategoryByID(a.categoryID); cat != nil {
		title = cat.Title
	}
	return a.renderPane(title, a.items, a.cursor, true, width, height)
}

// renderPreviewPane shows what is under the cursor: the contents of a group
// or the details of a link.
func (a App) renderPreviewPane(width, height int) string {
	item, ok := a.current()
	if !ok {
		return a.renderPane("", nil, -1, false, width, height)
	}

	switch item.Kind {
	case ItemCategory:
		return a.renderPane(a.groupTitle(item), itemsAt(a.store.Tree(), item.ID(), ""), -1, false, width, height)
	case ItemSubcategory:
		return a.renderPane(a.groupTitle(item), itemsAt(a.store.Tree(), a.categoryID, item.ID()), -1, false, width, height)
	}

	itemWidth := layout.ItemWidth(width, a.layout.Pane)
	url, _ := layout.Truncate(item.Link.URL, itemWidth, a.layout.Text)
	var content strings.Builder
	content.WriteString(a.styles.Title.Render(item.Link.Title) + "\n\n")
	content.WriteString(a.styles.URL.Render(url) + "\n\n")
	content.WriteString(a.styles.Empty.Render(a.breadcrumb()))

	return a.styles.Pane.
		Width(width).
		Height(height).
		Render(content.String())
}

func (a App) groupTitle(item Item) string {
	if icon := item.Icon(); icon != "" {
		return item.Title() + " " + a.styles.Icon.Render("["+icon+"]")
	}
	return item.Title()
}

// renderItem renders one row. Groups carry a trailing "/".
func (a App) renderItem(item Item, selected bool, maxWidth int) string {
	suffix := ""
	if item.IsGroup() {
		suffix = "/"
	}
	line, _ := layout.TruncateAround(item.Title(), maxWidth, "", suffix, a.layout.Text)

	if selected {
		// Pad to fill width for selection highlight
		if pad := maxWidth - lipgloss.Width(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		return a.styles.ItemSelected.Render(line)
	}
	if item.IsGroup() {
		return a.styles.Item.Inherit(a.styles.Group).Render(line)
	}
	return a.styles.Item.Render(line)
}

func (a App) renderHelpBar() string {
	line := a.renderHints(a.normalHints().All())
	if a.message != "" {
		line = a.styles.Message.Render(a.message) + "\n" + line
	} else {
		line = "\n" + line
	}
	return lipgloss.NewStyle().PaddingTop(1).Render(line)
}

// renderModal renders the current modal dialog centered on screen.
func (a App) renderModal() string {
	var title string
	var body strings.Builder

	switch a.mode {
	case ModeAddCategory:
		title = "Add Category"
		body.WriteString("Title:\n" + a.form.TitleInput.View())
	case ModeAddSubcategory:
		title = "Add Subcategory"
		body.WriteString("Title:\n" + a.form.TitleInput.View())
	case ModeAddLink:
		title = "Add Link"
		body.WriteString("Title:\n" + a.form.TitleInput.View() + "\n\n")
		body.WriteString("URL:\n" + a.form.URLInput.View())
	case ModeEditLink:
		title = "Edit Link"
		body.WriteString("Title:\n" + a.form.TitleInput.View() + "\n\n")
		body.WriteString("URL:\n" + a.form.URLInput.View())
	case ModeRename:
		title = "Rename " + a.form.Target.Title()
		body.WriteString("Title:\n" + a.form.TitleInput.View())
	case ModeSetIcon:
		title = "Icon for " + a.form.Target.Title()
		body.WriteString("Icon:\n" + a.form.IconInput.View())
	case ModeConfirmDelete:
		title = "Delete"
		body.WriteString(a.deletePrompt())
	case ModeSearch:
		title = "Search"
		body.WriteString(a.renderSearch())
	case ModeHelp:
		title = "Keys"
		body.WriteString(a.renderHelp())
	}

	if a.message != "" {
		body.WriteString("\n\n" + a.styles.Message.Render(a.message))
	}
	body.WriteString("\n\n" + a.renderHintsInline(a.modalHints()))

	modal := a.styles.Modal.
		Width(layout.ModalWidth(a.width, a.layout.Modal)).
		Render(a.styles.Title.Render(title) + "\n\n" + body.String())

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, modal)
}

func (a App) deletePrompt() string {
	item := a.form.Target
	switch item.Kind {
	case ItemCategory:
		n := model.Tree{*item.Category}.LinkCount()
		return fmt.Sprintf("Delete category %q and its %d links?", item.Title(), n)
	case ItemSubcategory:
		return fmt.Sprintf("Delete subcategory %q and its %d links?", item.Title(), len(item.Subcategory.Links))
	default:
		return fmt.Sprintf("Delete link %q?", item.Title())
	}
}

func (a App) renderSearch() string {
	var b strings.Builder
	b.WriteString(a.search.Input.View() + "\n\n")

	results := a.search.Results
	if len(results) == 0 {
		if a.search.Input.Value() != "" {
			b.WriteString(a.styles.Empty.Render("No matches"))
		}
		return b.String()
	}

	width := layout.ModalWidth(a.width, a.layout.Modal) - 6
	start, end := layout.VisibleWindow(a.layout.Modal.MaxVisible, a.search.Cursor, len(results))
	for i := start; i < end; i++ {
		r := results[i]
		title, _ := layout.Truncate(r.Link.Title, width/2, a.layout.Text)
		line := highlight(title, r.MatchedIndexes, a.styles.Match) + "  " + a.styles.URL.Render(r.Path)
		if i == a.search.Cursor {
			line = "> " + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// highlight styles the runes of s starting at the matched byte offsets.
func highlight(s string, matched []int, style lipgloss.Style) string {
	if len(matched) == 0 {
		return s
	}
	hit := make(map[int]bool, len(matched))
	for _, i := range matched {
		hit[i] = true
	}

	var b strings.Builder
	for i, r := range s {
		if hit[i] {
			b.WriteString(style.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (a App) renderHelp() string {
	bindings := []key.Binding{
		a.keys.Up, a.keys.Down, a.keys.Left, a.keys.Right, a.keys.Top, a.keys.Bottom,
		a.keys.AddLink, a.keys.AddGroup, a.keys.Edit, a.keys.Icon, a.keys.Delete,
		a.keys.MoveDown, a.keys.MoveUp, a.keys.YankURL, a.keys.Open,
		a.keys.Search, a.keys.Theme, a.keys.Help, a.keys.Quit,
	}

	var b strings.Builder
	for _, k := range bindings {
		h := k.Help()
		fmt.Fprintf(&b, "%s %s\n", a.styles.HintKey.Width(10).Render(h.Key), h.Desc)
	}
	fmt.Fprintf(&b, "\nTheme: %s", a.theme)
	return b.String()
}
