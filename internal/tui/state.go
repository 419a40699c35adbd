package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/nikbrunner/linkdeck/internal/search"
	"github.com/nikbrunner/linkdeck/internal/tui/layout"
)

// Mode is what the App is currently doing with key input.
type Mode int

const (
	ModeNormal Mode = iota
	ModeAddCategory
	ModeAddSubcategory
	ModeAddLink
	ModeEditLink
	ModeRename
	ModeSetIcon
	ModeConfirmDelete
	ModeSearch
	ModeHelp
)

// FormState holds the inputs of the add and edit modals.
type FormState struct {
	TitleInput textinput.Model
	URLInput   textinput.Model
	IconInput  textinput.Model
	Focus      int  // 0 = title, 1 = URL (link forms only)
	Target     Item // item being edited or deleted
}

// NewFormState creates a FormState with initialized inputs.
func NewFormState(cfg layout.InputConfig) FormState {
	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = cfg.TitleCharLimit
	title.Width = cfg.Width

	url := textinput.New()
	url.Placeholder = "https://..."
	url.CharLimit = cfg.URLCharLimit
	url.Width = cfg.Width

	icon := textinput.New()
	icon.Placeholder = "Icon name (empty clears)"
	icon.CharLimit = cfg.IconCharLimit
	icon.Width = cfg.Width

	return FormState{TitleInput: title, URLInput: url, IconInput: icon}
}

// Reset clears the form for a new session.
func (f *FormState) Reset() {
	f.TitleInput.Reset()
	f.URLInput.Reset()
	f.IconInput.Reset()
	f.TitleInput.Blur()
	f.URLInput.Blur()
	f.IconInput.Blur()
	f.Focus = 0
	f.Target = Item{}
}

// ToggleFocus switches between the title and URL inputs.
func (f *FormState) ToggleFocus() {
	if f.Focus == 0 {
		f.Focus = 1
		f.TitleInput.Blur()
		f.URLInput.Focus()
		return
	}
	f.Focus = 0
	f.URLInput.Blur()
	f.TitleInput.Focus()
}

// SearchState holds state for the global link search.
type SearchState struct {
	Input   textinput.Model
	Results []search.SearchResult
	Cursor  int
}

// NewSearchState creates a SearchState with an initialized input.
func NewSearchState(cfg layout.InputConfig) SearchState {
	input := textinput.New()
	input.Placeholder = "Search links..."
	input.CharLimit = cfg.SearchCharLimit
	input.Width = cfg.Width
	return SearchState{Input: input}
}

// Reset clears the search state.
func (s *SearchState) Reset() {
	s.Input.Reset()
	s.Input.Blur()
	s.Results = nil
	s.Cursor = 0
}
