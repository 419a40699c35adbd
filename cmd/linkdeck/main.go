package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nikbrunner/linkdeck/internal/culler"
	"github.com/nikbrunner/linkdeck/internal/exporter"
	"github.com/nikbrunner/linkdeck/internal/importer"
	"github.com/nikbrunner/linkdeck/internal/logging"
	"github.com/nikbrunner/linkdeck/internal/model"
	"github.com/nikbrunner/linkdeck/internal/persist"
	"github.com/nikbrunner/linkdeck/internal/picker"
	"github.com/nikbrunner/linkdeck/internal/search"
	"github.com/nikbrunner/linkdeck/internal/server"
	"github.com/nikbrunner/linkdeck/internal/storage"
	"github.com/nikbrunner/linkdeck/internal/store"
	"github.com/nikbrunner/linkdeck/internal/theme"
	"github.com/nikbrunner/linkdeck/internal/tui"
)

const (
	cullConcurrency = 10
	cullTimeout     = 10 * time.Second
)

func main() {
	if len(os.Args) >= 2 {
		args := os.Args[2:]
		switch os.Args[1] {
		case "help", "--help", "-h":
			printHelp()
			return
		case "import":
			if len(args) < 1 {
				fmt.Fprintf(os.Stderr, "Usage: linkdeck import <file.html>\n")
				os.Exit(1)
			}
			runImport(args[0])
			return
		case "export":
			runExport(args)
			return
		case "cull":
			runCull(args)
			return
		case "serve":
			runServe(args)
			return
		case "theme":
			runTheme(args)
			return
		default:
			// Treat as search query (join all remaining args)
			runQuickSearch(strings.Join(os.Args[1:], " "))
			return
		}
	}

	// No args - run full TUI
	runTUI()
}

func printHelp() {
	help := `linkdeck - keyboard-driven link launcher

Usage:
  linkdeck                      Open interactive TUI
  linkdeck <query>              Quick search → select → open
  linkdeck import <file>        Merge bookmarks from a browser HTML export
  linkdeck export [--yaml] [path]
                                Export links to HTML (or YAML)
  linkdeck cull [--delete]      Check links and list (or delete) dead ones
  linkdeck serve [addr]         Serve the JSON API (default 127.0.0.1:7777)
  linkdeck theme [light|dark|system]
                                Show or set the theme
  linkdeck help                 Show this help

TUI Keybindings:
  Navigation:
    j/k         Move down/up
    h/l         Navigate back/forward
    gg/G        Jump to top/bottom

  Actions:
    l/Enter     Open link / enter category
    o           Open link in browser
    Y           Copy URL to clipboard
    /           Fuzzy search
    t           Cycle theme

  Editing:
    a           Add link (category at the top level)
    A           Add category/subcategory
    e           Edit link / rename group
    i           Set icon
    d           Delete
    J/K         Move item down/up

  Other:
    ?           Show help overlay
    q           Quit

Data Storage:
  ~/.config/linkdeck/ (config.json, linkdeck.json or linkdeck.db)
`
	fmt.Print(help)
}

// app bundles what every subcommand opens.
type app struct {
	config   *storage.Config
	logger   *zap.Logger
	storage  storage.Storage
	pipeline *persist.Pipeline
	store    *store.Store
}

// openApp loads config, storage and the store. toFile sends logs to the
// log file instead of stderr, keeping command output clean.
func openApp(toFile bool) *app {
	configPath, err := storage.DefaultConfigFilePath()
	if err != nil {
		fatal("Error getting config path", err)
	}
	cfg, err := storage.LoadConfig(configPath)
	if err != nil {
		fatal("Error loading config", err)
	}

	opts := logging.Options{Debug: os.Getenv("LINKDECK_DEBUG") != ""}
	if toFile {
		if opts.Path, err = cfg.ResolvedLogPath(); err != nil {
			fatal("Error getting log path", err)
		}
	}
	logger, err := logging.New(opts)
	if err != nil {
		fatal("Error creating logger", err)
	}

	stor, err := storage.OpenStorage(*cfg)
	if err != nil {
		fatal("Error opening storage", err)
	}

	pipeline := persist.New(persist.Params{
		Storage:     stor,
		Quiet:       time.Duration(cfg.SaveDelay),
		SavingFloor: time.Duration(cfg.SavingFloor),
		Logger:      logger,
	})

	return &app{
		config:   cfg,
		logger:   logger,
		storage:  stor,
		pipeline: pipeline,
		store:    store.New(store.Params{Pipeline: pipeline, Logger: logger}),
	}
}

// close writes pending changes and releases storage.
func (a *app) close() {
	a.store.Close()
	if err := a.storage.Close(); err != nil {
		a.logger.Warn("failed to close storage", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}

// runTUI runs the full interactive TUI.
func runTUI() {
	a := openApp(true)
	defer a.close()

	m := tui.NewApp(tui.AppParams{
		Store:  a.store,
		Prefs:  a.storage,
		Logger: a.logger,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		a.close()
		fatal("Error running app", err)
	}
}

// runQuickSearch performs a fuzzy search and opens the selected link.
func runQuickSearch(query string) {
	a := openApp(true)
	defer a.close()

	results := search.FuzzySearchLinks(a.store.Tree(), query)
	if len(results) == 0 {
		fmt.Printf("No links found for '%s'\n", query)
		return
	}

	var selected *model.Link
	if len(results) == 1 {
		// Single result - select it directly
		selected = results[0].Link
		fmt.Printf("Opening: %s\n", selected.Title)
	} else {
		p := picker.New(results, query)
		finalModel, err := tea.NewProgram(p).Run()
		if err != nil {
			a.close()
			fatal("Error running picker", err)
		}

		finalPicker := finalModel.(picker.Picker)
		if finalPicker.Cancelled() {
			return
		}
		selected = finalPicker.SelectedLink()
	}

	if selected == nil {
		return
	}
	if err := tui.OpenInBrowser(selected.URL); err != nil {
		a.close()
		fatal("Error opening browser", err)
	}
}

// runImport merges a browser bookmark export into the tree.
func runImport(filePath string) {
	file, err := os.Open(filePath)
	if err != nil {
		fatal("Error opening file", err)
	}
	defer file.Close()

	imported, err := importer.ParseHTMLBookmarks(file)
	if err != nil {
		fatal("Error parsing HTML", err)
	}

	a := openApp(true)
	defer a.close()

	res := a.store.ImportMerge(imported)

	fmt.Printf("Imported %d links from %d categories", res.Added, len(imported))
	if res.Skipped > 0 {
		fmt.Printf(" (%d duplicates skipped)", res.Skipped)
	}
	fmt.Println()
}

// runExport writes the tree as HTML, or YAML with --yaml.
func runExport(args []string) {
	asYAML := false
	var outputPath string
	for _, arg := range args {
		if arg == "--yaml" {
			asYAML = true
			continue
		}
		outputPath = arg
	}

	ext := "html"
	if asYAML {
		ext = "yaml"
	}
	if outputPath == "" {
		var err error
		outputPath, err = exporter.DefaultExportPath(ext)
		if err != nil {
			fatal("Error getting default export path", err)
		}
	}

	a := openApp(true)
	defer a.close()
	tree := a.store.Tree()

	var data []byte
	if asYAML {
		var err error
		if data, err = exporter.ExportYAML(tree); err != nil {
			a.close()
			fatal("Error encoding YAML", err)
		}
	} else {
		data = []byte(exporter.ExportHTML(tree))
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		a.close()
		fatal("Error writing file", err)
	}

	fmt.Printf("Exported %d links, %d categories to %s\n", tree.LinkCount(), len(tree), outputPath)
}

// runCull checks every link and reports dead ones; --delete removes them.
func runCull(args []string) {
	deleteDead := len(args) > 0 && args[0] == "--delete"

	a := openApp(true)
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checker := culler.New(culler.Params{
		Concurrency:    cullConcurrency,
		Timeout:        cullTimeout,
		ExcludeDomains: a.config.CullExcludeDomains,
		Logger:         a.logger,
	})
	results := checker.Check(ctx, a.store.Tree().AllLinks(), func(completed, total int) {
		fmt.Fprintf(os.Stderr, "\rChecking %d/%d", completed, total)
	})
	fmt.Fprintln(os.Stderr)

	dead := culler.Filter(results, culler.Dead)
	unreachable := culler.Filter(results, culler.Unreachable)

	for _, r := range dead {
		fmt.Printf("dead  %3d  %s  (%s)\n", r.StatusCode, r.Link.Link.URL, r.Link.Path)
	}
	for _, r := range unreachable {
		fmt.Printf("unreachable  %s  (%s): %s\n", r.Link.Link.URL, r.Link.Path, r.Error)
	}
	fmt.Printf("%d checked, %d dead, %d unreachable\n", len(results), len(dead), len(unreachable))

	if !deleteDead || len(dead) == 0 {
		return
	}
	for _, r := range dead {
		a.store.DeleteLink(r.Link.ParentID, r.Link.Link.ID, r.Link.ParentKind)
	}
	fmt.Printf("Deleted %d dead links\n", len(dead))
}

// runServe serves the JSON API until interrupted. Request logs go to stderr.
func runServe(args []string) {
	a := openApp(false)
	defer a.close()

	addr := a.config.ServeAddr
	if len(args) > 0 {
		addr = args[0]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Params{
		Store:   a.store,
		Metrics: a.pipeline.Metrics(),
		Logger:  a.logger,
	})
	fmt.Printf("Serving on http://%s\n", addr)
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		a.close()
		fatal("Error serving", err)
	}
}

// runTheme prints the stored theme, or sets it.
func runTheme(args []string) {
	a := openApp(true)
	defer a.close()

	if len(args) == 0 {
		fmt.Println(theme.Load(a.storage))
		return
	}

	t, err := theme.Parse(args[0])
	if err != nil {
		a.close()
		fatal("Error", err)
	}
	if err := theme.Save(a.storage, t); err != nil {
		a.close()
		fatal("Error saving theme", err)
	}
	fmt.Printf("Theme set to %s\n", t)
}
