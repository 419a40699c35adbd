package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/linkdeck/internal/model"
	"github.com/nikbrunner/linkdeck/internal/mutation"
	"github.com/nikbrunner/linkdeck/internal/search"
)

// openForm switches to a modal form, prefilled from target when editing.
func (a App) openForm(mode Mode, target Item) (tea.Model, tea.Cmd) {
	a.form.Reset()
	a.form.Target = target
	a.mode = mode

	switch mode {
	case ModeRename:
		a.form.TitleInput.SetValue(target.Title())
	case ModeEditLink:
		a.form.TitleInput.SetValue(target.Link.Title)
		a.form.URLInput.SetValue(target.Link.URL)
	case ModeSetIcon:
		a.form.IconInput.SetValue(target.Icon())
		cmd := a.form.IconInput.Focus()
		return a, cmd
	}
	cmd := a.form.TitleInput.Focus()
	return a, cmd
}

func (a App) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.form.Reset()
		a.mode = ModeNormal
		return a, nil

	case key.Matches(msg, a.keys.Confirm):
		a.submitForm()
		return a, nil

	case key.Matches(msg, a.keys.NextField):
		if a.mode == ModeAddLink || a.mode == ModeEditLink {
			a.form.ToggleFocus()
		}
		return a, nil
	}

	var cmd tea.Cmd
	switch {
	case a.mode == ModeSetIcon:
		a.form.IconInput, cmd = a.form.IconInput.Update(msg)
	case a.form.Focus == 1:
		a.form.URLInput, cmd = a.form.URLInput.Update(msg)
	default:
		a.form.TitleInput, cmd = a.form.TitleInput.Update(msg)
	}
	return a, cmd
}

// submitForm applies the form through the store. Invalid input keeps the
// form open with a message; the store would treat it as a no-op anyway.
func (a *App) submitForm() {
	title := a.form.TitleInput.Value()
	url := a.form.URLInput.Value()
	target := a.form.Target

	if a.mode != ModeSetIcon && !model.IsValidTitle(title) {
		a.message = "Title is required"
		return
	}
	if (a.mode == ModeAddLink || a.mode == ModeEditLink) && strings.TrimSpace(url) == "" {
		a.message = "URL is required"
		return
	}

	var selectID string
	switch a.mode {
	case ModeAddCategory:
		selectID, _ = a.store.AddCategory(title)
	case ModeAddSubcategory:
		selectID, _ = a.store.AddSubcategory(a.categoryID, title)
	case ModeAddLink:
		parentID, kind, _ := a.linkParent()
		selectID, _ = a.store.AddLink(parentID, kind, mutation.LinkInput{Title: title, URL: url})
	case ModeEditLink:
		parentID, kind, _ := a.linkParent()
		a.store.UpdateLink(parentID, target.ID(), kind, mutation.LinkInput{Title: title, URL: url})
		selectID = target.ID()
	case ModeRename:
		a.patchGroup(target, mutation.Patch{Title: &title})
		selectID = target.ID()
	case ModeSetIcon:
		icon := strings.TrimSpace(a.form.IconInput.Value())
		a.patchGroup(target, mutation.Patch{Icon: &icon})
		selectID = target.ID()
	}

	a.form.Reset()
	a.mode = ModeNormal
	a.message = ""
	a.refreshItems()
	a.selectID(selectID)
}

func (a *App) patchGroup(item Item, p mutation.Patch) {
	if item.Kind == ItemCategory {
		a.store.UpdateCategory(item.ID(), p)
		return
	}
	a.store.UpdateSubcategory(a.categoryID, item.ID(), p)
}

func (a App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.search.Reset()
		a.mode = ModeNormal
		return a, nil

	case key.Matches(msg, a.keys.Confirm):
		if a.search.Cursor < len(a.search.Results) {
			a.jumpTo(a.search.Results[a.search.Cursor])
		}
		a.search.Reset()
		a.mode = ModeNormal
		return a, nil

	case key.Matches(msg, a.keys.ListDown):
		if a.search.Cursor < len(a.search.Results)-1 {
			a.search.Cursor++
		}
		return a, nil

	case key.Matches(msg, a.keys.ListUp):
		if a.search.Cursor > 0 {
			a.search.Cursor--
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.search.Input, cmd = a.search.Input.Update(msg)
	a.search.Results = search.FuzzySearchLinks(a.store.Tree(), a.search.Input.Value())
	a.search.Cursor = 0
	return a, cmd
}

// jumpTo navigates to the level holding the result and selects it.
func (a *App) jumpTo(r search.SearchResult) {
	tree := a.store.Tree()

	if r.ParentKind == model.KindSubcategory {
		ci, _ := tree.FindSubcategory(r.ParentID)
		if ci < 0 {
			return
		}
		a.categoryID = tree[ci].ID
		a.subcategoryID = r.ParentID
	} else {
		a.categoryID = r.ParentID
		a.subcategoryID = ""
	}

	a.cursor = 0
	a.refreshItems()
	a.selectID(r.Link.ID)
}
