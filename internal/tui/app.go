package tui

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/nikbrunner/linkdeck/internal/model"
	"github.com/nikbrunner/linkdeck/internal/storage"
	"github.com/nikbrunner/linkdeck/internal/store"
	"github.com/nikbrunner/linkdeck/internal/theme"
	"github.com/nikbrunner/linkdeck/internal/tui/layout"
)

// App is the main bubbletea model of linkdeck.
type App struct {
	store  *store.Store
	prefs  storage.Storage
	logger *zap.Logger
	keys   KeyMap
	styles Styles
	layout layout.Config

	theme      theme.Theme
	systemDark bool
	fixedStyle bool // styles were supplied by the caller

	// Navigation state: "" ids mean the level above
	categoryID    string
	subcategoryID string
	cursor        int
	items         []Item

	mode   Mode
	form   FormState
	search SearchState

	saving   bool
	savingCh chan struct{}

	message string

	copyText func(string) error
	openURL  func(string) error

	// For gg command
	lastKeyWasG bool

	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Store      *store.Store
	Prefs      storage.Storage    // optional, theme is not persisted if nil
	Logger     *zap.Logger        // optional, no-op if nil
	Keys       *KeyMap            // optional, uses default if nil
	Styles     *Styles            // optional, derived from the theme if nil
	SystemDark *bool              // optional, detected from the terminal if nil
	Clipboard  func(string) error // optional, system clipboard if nil
	OpenURL    func(string) error // optional, default browser if nil
}

// savingMsg tells the App that the saving signal changed.
type savingMsg struct{}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var systemDark bool
	if params.SystemDark != nil {
		systemDark = *params.SystemDark
	} else {
		systemDark = lipgloss.HasDarkBackground()
	}

	copyText := params.Clipboard
	if copyText == nil {
		copyText = clipboard.WriteAll
	}
	openURL := params.OpenURL
	if openURL == nil {
		openURL = OpenInBrowser
	}

	cfg := layout.DefaultConfig()
	app := App{
		store:      params.Store,
		prefs:      params.Prefs,
		logger:     logger.Named("tui"),
		keys:       keys,
		layout:     cfg,
		theme:      theme.Load(params.Prefs),
		systemDark: systemDark,
		form:       NewFormState(cfg.Input),
		search:     NewSearchState(cfg.Input),
		copyText:   copyText,
		openURL:    openURL,
		width:      80,
		height:     24,
	}

	if params.Styles != nil {
		app.styles = *params.Styles
		app.fixedStyle = true
	} else {
		app.styles = NewStyles(app.dark())
	}

	// Coalescing channel: a pending notification makes the App re-read the
	// current signal, so dropping further sends loses nothing.
	app.savingCh = make(chan struct{}, 1)
	ch := app.savingCh
	app.saving = params.Store.Saving()
	params.Store.SubscribeSaving(func(bool) {
		select {
		case ch <- struct{}{}:
		default:
		}
	})

	app.refreshItems()
	return app
}

func waitForSaving(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return savingMsg{}
	}
}

func (a App) dark() bool {
	return theme.Resolve(a.theme, a.systemDark) == theme.Dark
}

// refreshItems rebuilds the items of the current level, stepping back when
// the current category or subcategory no longer exists.
func (a *App) refreshItems() {
	tree := a.store.Tree()

	if a.subcategoryID != "" && tree.SubcategoryByID(a.subcategoryID) == nil {
		a.subcategoryID = ""
	}
	if a.categoryID != "" && tree.CategoryByID(a.categoryID) == nil {
		a.categoryID = ""
		a.subcategoryID = ""
	}

	a.items = itemsAt(tree, a.categoryID, a.subcategoryID)
	if a.cursor >= len(a.items) {
		a.cursor = len(a.items) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

// selectID moves the cursor to the item with the given id, if present.
func (a *App) selectID(id string) {
	if i := indexOf(a.items, id); i >= 0 {
		a.cursor = i
	}
}

// current returns the item under the cursor.
func (a App) current() (Item, bool) {
	if a.cursor < 0 || a.cursor >= len(a.items) {
		return Item{}, false
	}
	return a.items[a.cursor], true
}

// linkParent returns the parent that links at the current level belong to.
func (a App) linkParent() (string, model.ParentKind, bool) {
	switch {
	case a.subcategoryID != "":
		return a.subcategoryID, model.KindSubcategory, true
	case a.categoryID != "":
		return a.categoryID, model.KindCategory, true
	default:
		return "", 0, false
	}
}

// Cursor returns the current cursor position.
func (a App) Cursor() int {
	return a.cursor
}

// Items returns the current list of items.
func (a App) Items() []Item {
	return a.items
}

// Mode returns the current input mode.
func (a App) Mode() Mode {
	return a.mode
}

// Location returns the open category and subcategory ids.
func (a App) Location() (categoryID, subcategoryID string) {
	return a.categoryID, a.subcategoryID
}

// Saving reports whether the saving indicator is shown.
func (a App) Saving() bool {
	return a.saving
}

// Theme returns the theme preference.
func (a App) Theme() theme.Theme {
	return a.theme
}

// Message returns the status line message.
func (a App) Message() string {
	return a.message
}

// Store returns the store the App operates on.
func (a App) Store() *store.Store {
	return a.store
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return waitForSaving(a.savingCh)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case savingMsg:
		a.saving = a.store.Saving()
		return a, waitForSaving(a.savingCh)

	case tea.KeyMsg:
		// The tree may have changed outside the TUI
		a.refreshItems()

		switch a.mode {
		case ModeNormal:
			return a.updateNormal(msg)
		case ModeConfirmDelete:
			return a.updateConfirmDelete(msg)
		case ModeSearch:
			return a.updateSearch(msg)
		case ModeHelp:
			a.mode = ModeNormal
			return a, nil
		default:
			return a.updateForm(msg)
		}
	}

	return a, nil
}

func (a App) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.message = ""

	// Handle gg sequence
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.cursor = 0
			a.lastKeyWasG = false
			return a, nil
		}
		a.lastKeyWasG = true
		return a, nil
	}
	a.lastKeyWasG = false

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Down):
		if a.cursor < len(a.items)-1 {
			a.cursor++
		}

	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}

	case key.Matches(msg, a.keys.Bottom):
		if len(a.items) > 0 {
			a.cursor = len(a.items) - 1
		}

	case key.Matches(msg, a.keys.Right):
		a.enter()

	case key.Matches(msg, a.keys.Left):
		a.back()

	case key.Matches(msg, a.keys.AddLink):
		if _, _, ok := a.linkParent(); !ok {
			return a.openForm(ModeAddCategory, Item{})
		}
		return a.openForm(ModeAddLink, Item{})

	case key.Matches(msg, a.keys.AddGroup):
		switch {
		case a.categoryID == "":
			return a.openForm(ModeAddCategory, Item{})
		case a.subcategoryID == "":
			return a.openForm(ModeAddSubcategory, Item{})
		default:
			a.message = "Subcategories cannot be nested"
		}

	case key.Matches(msg, a.keys.Edit):
		if item, ok := a.current(); ok {
			if item.IsGroup() {
				return a.openForm(ModeRename, item)
			}
			return a.openForm(ModeEditLink, item)
		}

	case key.Matches(msg, a.keys.Icon):
		if item, ok := a.current(); ok && item.IsGroup() {
			return a.openForm(ModeSetIcon, item)
		}

	case key.Matches(msg, a.keys.Delete):
		if item, ok := a.current(); ok {
			a.form.Target = item
			a.mode = ModeConfirmDelete
		}

	case key.Matches(msg, a.keys.MoveDown):
		a.moveCurrent(1)

	case key.Matches(msg, a.keys.MoveUp):
		a.moveCurrent(-1)

	case key.Matches(msg, a.keys.YankURL):
		a.yankCurrent()

	case key.Matches(msg, a.keys.Open):
		a.openCurrent()

	case key.Matches(msg, a.keys.Search):
		a.search.Reset()
		a.mode = ModeSearch
		cmd := a.search.Input.Focus()
		return a, cmd

	case key.Matches(msg, a.keys.Theme):
		a.cycleTheme()

	case key.Matches(msg, a.keys.Help):
		a.mode = ModeHelp
	}

	return a, nil
}

// enter descends into the group under the cursor or opens the link.
func (a *App) enter() {
	item, ok := a.current()
	if !ok {
		return
	}
	switch item.Kind {
	case ItemCategory:
		a.categoryID = item.ID()
	case ItemSubcategory:
		a.subcategoryID = item.ID()
	default:
		a.openCurrent()
		return
	}
	a.cursor = 0
	a.refreshItems()
}

// back returns to the level above, keeping the cursor on where we were.
func (a *App) back() {
	var prev string
	switch {
	case a.subcategoryID != "":
		prev, a.subcategoryID = a.subcategoryID, ""
	case a.categoryID != "":
		prev, a.categoryID = a.categoryID, ""
	default:
		return
	}
	a.cursor = 0
	a.refreshItems()
	a.selectID(prev)
}

func (a *App) moveCurrent(delta int) {
	item, ok := a.current()
	if !ok {
		return
	}
	from, to := item.Index, item.Index+delta

	switch item.Kind {
	case ItemCategory:
		a.store.MoveCategory(from, to)
	case ItemSubcategory:
		a.store.MoveSubcategory(a.categoryID, from, to)
	default:
		parentID, kind, _ := a.linkParent()
		a.store.MoveLink(parentID, kind, from, to)
	}

	a.refreshItems()
	a.selectID(item.ID())
}

func (a *App) yankCurrent() {
	item, ok := a.current()
	if !ok || item.Kind != ItemLink {
		return
	}
	if err := a.copyText(item.Link.URL); err != nil {
		a.logger.Warn("clipboard write failed", zap.Error(err))
		a.message = "Copy failed: " + err.Error()
		return
	}
	a.message = "Copied " + item.Link.URL
}

func (a *App) openCurrent() {
	item, ok := a.current()
	if !ok || item.Kind != ItemLink {
		return
	}
	if err := a.openURL(item.Link.URL); err != nil {
		a.logger.Warn("open url failed", zap.String("url", item.Link.URL), zap.Error(err))
		a.message = "Open failed: " + err.Error()
		return
	}
	a.message = "Opened " + item.Link.Title
}

func (a *App) cycleTheme() {
	a.theme = theme.Next(a.theme)
	if !a.fixedStyle {
		a.styles = NewStyles(a.dark())
	}
	if err := theme.Save(a.prefs, a.theme); err != nil {
		a.logger.Warn("failed to save theme", zap.Error(err))
		a.message = fmt.Sprintf("Theme %s (not saved)", a.theme)
		return
	}
	a.message = fmt.Sprintf("Theme: %s", a.theme)
}

func (a App) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Yes):
		a.deleteItem(a.form.Target)
		a.form.Reset()
		a.mode = ModeNormal
	case key.Matches(msg, a.keys.No):
		a.form.Reset()
		a.mode = ModeNormal
	}
	return a, nil
}

func (a *App) deleteItem(item Item) {
	switch item.Kind {
	case ItemCategory:
		a.store.DeleteCategory(item.ID())
	case ItemSubcategory:
		a.store.DeleteSubcategory(a.categoryID, item.ID())
	default:
		parentID, kind, _ := a.linkParent()
		a.store.DeleteLink(parentID, item.ID(), kind)
	}
	a.refreshItems()
	a.message = "Deleted " + item.Title()
}
