package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/linkdeck/internal/model"
)

// DefaultExportPath returns the default export file path for the given
// extension ("html" or "yaml").
// Format: ~/Downloads/linkdeck-export-YYYY-MM-DD.<ext>
func DefaultExportPath(ext string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("linkdeck-export-%s.%s", time.Now().Format("2006-01-02"), ext)
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportHTML exports the tree to Netscape bookmark HTML format.
// Categories and subcategories become nested folders.
func ExportHTML(tree model.Tree) string {
	var b strings.Builder

	// Header
	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	for _, cat := range tree {
		openFolder(&b, cat.Title, 1)
		for _, sub := range cat.Subcategories {
			openFolder(&b, sub.Title, 2)
			writeLinks(&b, sub.Links, 3)
			closeFolder(&b, 2)
		}
		writeLinks(&b, cat.Links, 2)
		closeFolder(&b, 1)
	}

	// Footer
	b.WriteString("</DL><p>\n")

	return b.String()
}

func openFolder(b *strings.Builder, title string, indent int) {
	prefix := strings.Repeat("    ", indent)
	fmt.Fprintf(b, "%s<DT><H3>%s</H3>\n", prefix, html.EscapeString(title))
	fmt.Fprintf(b, "%s<DL><p>\n", prefix)
}

func closeFolder(b *strings.Builder, indent int) {
	fmt.Fprintf(b, "%s</DL><p>\n", strings.Repeat("    ", indent))
}

func writeLinks(b *strings.Builder, links []model.Link, indent int) {
	prefix := strings.Repeat("    ", indent)
	for _, l := range links {
		fmt.Fprintf(b,
			"%s<DT><A HREF=\"%s\">%s</A>\n",
			prefix,
			html.EscapeString(l.URL),
			html.EscapeString(l.Title),
		)
	}
}
