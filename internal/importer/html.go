package importer

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/nikbrunner/linkdeck/internal/model"
)

// RootCategory is the category that receives links found outside any folder.
const RootCategory = "Imported"

// target is where links inside a folder end up. sub is -1 for the
// category's direct links.
type target struct {
	cat int
	sub int
}

// ParseHTMLBookmarks parses Netscape bookmark HTML into a tree.
// Top-level folders become categories and second-level folders become
// subcategories. Deeper folders are flattened into their second-level
// ancestor. Links outside any folder go into RootCategory.
func ParseHTMLBookmarks(r io.Reader) (model.Tree, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	tree := model.Tree{}
	var rootLinks []model.Link

	var stack []target  // folder targets, empty = root
	var pending *target // folder waiting to be pushed on next DL

	addLink := func(l model.Link) {
		if len(stack) == 0 {
			rootLinks = append(rootLinks, l)
			return
		}
		top := stack[len(stack)-1]
		cat := &tree[top.cat]
		if top.sub < 0 {
			cat.Links = append(cat.Links, l)
			return
		}
		sub := &cat.Subcategories[top.sub]
		sub.Links = append(sub.Links, l)
	}

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				name := getTextContent(n)
				if name == "" {
					return
				}
				switch len(stack) {
				case 0:
					tree = append(tree, model.NewCategory(name))
					pending = &target{cat: len(tree) - 1, sub: -1}
				case 1:
					ci := stack[0].cat
					tree[ci].Subcategories = append(tree[ci].Subcategories, model.NewSubcategory(name))
					pending = &target{cat: ci, sub: len(tree[ci].Subcategories) - 1}
				default:
					// Too deep: keep filling the second-level ancestor
					top := stack[len(stack)-1]
					pending = &top
				}
				return // Don't recurse into H3

			case "a":
				href := strings.TrimSpace(getAttr(n, "href"))
				if !importable(href) {
					return
				}

				title := getTextContent(n)
				if title == "" {
					title = href // fallback to URL as title
				}
				addLink(model.NewLink(title, href))
				return // Don't recurse into A

			case "dl":
				pushed := false
				if pending != nil {
					stack = append(stack, *pending)
					pending = nil
					pushed = true
				}

				for c := n.FirstChild; c != nil; c = c.NextSibling {
					parse(c)
				}

				if pushed {
					stack = stack[:len(stack)-1]
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)

	if len(rootLinks) > 0 {
		cat := model.NewCategory(RootCategory)
		cat.Links = rootLinks
		tree = append(tree, cat)
	}
	return tree, nil
}

// importable reports whether href is a web address. Links without a URL and
// browser-internal schemes (javascript:, place:, chrome:) are skipped.
func importable(href string) bool {
	if href == "" {
		return false
	}
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https":
		return true
	}
	return false
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}
