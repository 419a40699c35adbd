package mutation

import (
	"strings"

	"github.com/nikbrunner/linkdeck/internal/model"
)

// LinkInput holds the user-supplied fields of a link.
type LinkInput struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

func (in LinkInput) valid() bool {
	return model.IsValidTitle(in.Title) && strings.TrimSpace(in.URL) != ""
}

// Patch is a partial update of a category or subcategory.
// A nil field is left untouched. An empty Icon clears the icon, so an
// icon-only patch with "" is a real change rather than a no-op.
type Patch struct {
	Title *string `json:"title,omitempty"`
	Icon  *string `json:"icon,omitempty"`
}

func (p Patch) actionable() bool {
	return (p.Title != nil && model.IsValidTitle(*p.Title)) || p.Icon != nil
}

func (p Patch) apply(title, icon string) (string, string) {
	if p.Title != nil && model.IsValidTitle(*p.Title) {
		title = strings.TrimSpace(*p.Title)
	}
	if p.Icon != nil {
		icon = *p.Icon
	}
	return title, icon
}

// uniqueID returns a fresh id not already used in t.
func uniqueID(t model.Tree) string {
	ids := t.IDs()
	for {
		id := model.GenerateID()
		if _, taken := ids[id]; !taken {
			return id
		}
	}
}

// AddCategory appends a new empty category.
func AddCategory(t model.Tree, title string) model.Tree {
	if !model.IsValidTitle(title) {
		return t
	}

	cat := model.NewCategory(title)
	cat.ID = uniqueID(t)
	return appended(t, cat)
}

// AddSubcategory appends a new empty subcategory to the given category.
func AddSubcategory(t model.Tree, categoryID, title string) model.Tree {
	if !model.IsValidTitle(title) {
		return t
	}
	i := t.FindCategory(categoryID)
	if i < 0 {
		return t
	}

	sub := model.NewSubcategory(title)
	sub.ID = uniqueID(t)

	cat := t[i]
	cat.Subcategories = appended(cat.Subcategories, sub)
	return replaced(t, i, cat)
}

// AddLink appends a new link to the links of the given parent.
// The URL gets an https:// prefix when it has no scheme.
func AddLink(t model.Tree, parentID string, kind model.ParentKind, in LinkInput) model.Tree {
	if !in.valid() {
		return t
	}

	link := model.NewLink(in.Title, in.URL)
	link.ID = uniqueID(t)

	return withLinks(t, parentID, kind, func(links []model.Link) ([]model.Link, bool) {
		return appended(links, link), true
	})
}

// UpdateLink replaces title and URL of a link, keeping its id.
func UpdateLink(t model.Tree, parentID, linkID string, kind model.ParentKind, in LinkInput) model.Tree {
	if !in.valid() {
		return t
	}

	return withLinks(t, parentID, kind, func(links []model.Link) ([]model.Link, bool) {
		k := indexOfLink(links, linkID)
		if k < 0 {
			return links, false
		}
		link := links[k]
		link.Title = strings.TrimSpace(in.Title)
		link.URL = model.NormalizeURL(in.URL)
		if link == links[k] {
			return links, false
		}
		return replaced(links, k, link), true
	})
}

// UpdateCategory applies a partial update to a category.
func UpdateCategory(t model.Tree, categoryID string, p Patch) model.Tree {
	if !p.actionable() {
		return t
	}
	i := t.FindCategory(categoryID)
	if i < 0 {
		return t
	}

	cat := t[i]
	cat.Title, cat.Icon = p.apply(cat.Title, cat.Icon)
	if cat.Title == t[i].Title && cat.Icon == t[i].Icon {
		return t
	}
	return replaced(t, i, cat)
}

// UpdateSubcategory applies a partial update to a subcategory.
func UpdateSubcategory(t model.Tree, categoryID, subcategoryID string, p Patch) model.Tree {
	if !p.actionable() {
		return t
	}

	return withSubcategories(t, categoryID, func(subs []model.Subcategory) ([]model.Subcategory, bool) {
		j := indexOfSubcategory(subs, subcategoryID)
		if j < 0 {
			return subs, false
		}
		sub := subs[j]
		sub.Title, sub.Icon = p.apply(sub.Title, sub.Icon)
		if sub.Title == subs[j].Title && sub.Icon == subs[j].Icon {
			return subs, false
		}
		return replaced(subs, j, sub), true
	})
}

// DeleteLink removes a link from its parent. Unknown ids are ignored.
func DeleteLink(t model.Tree, parentID, linkID string, kind model.ParentKind) model.Tree {
	return withLinks(t, parentID, kind, func(links []model.Link) ([]model.Link, bool) {
		k := indexOfLink(links, linkID)
		if k < 0 {
			return links, false
		}
		return removed(links, k), true
	})
}

// DeleteSubcategory removes a subcategory and all its links.
func DeleteSubcategory(t model.Tree, categoryID, subcategoryID string) model.Tree {
	return withSubcategories(t, categoryID, func(subs []model.Subcategory) ([]model.Subcategory, bool) {
		j := indexOfSubcategory(subs, subcategoryID)
		if j < 0 {
			return subs, false
		}
		return removed(subs, j), true
	})
}

// DeleteCategory removes a category with all its subcategories and links.
func DeleteCategory(t model.Tree, categoryID string) model.Tree {
	i := t.FindCategory(categoryID)
	if i < 0 {
		return t
	}
	return removed(t, i)
}

// MoveCategory moves the category at from to position to.
func MoveCategory(t model.Tree, from, to int) model.Tree {
	out, ok := moved(t, from, to)
	if !ok {
		return t
	}
	return out
}

// MoveSubcategory reorders the subcategories of one category.
func MoveSubcategory(t model.Tree, categoryID string, from, to int) model.Tree {
	return withSubcategories(t, categoryID, func(subs []model.Subcategory) ([]model.Subcategory, bool) {
		return moved(subs, from, to)
	})
}

// MoveLink reorders the links of one category or subcategory.
func MoveLink(t model.Tree, parentID string, kind model.ParentKind, from, to int) model.Tree {
	return withLinks(t, parentID, kind, func(links []model.Link) ([]model.Link, bool) {
		return moved(links, from, to)
	})
}

// withLinks rebuilds the path to the link sequence of a parent when fn
// reports a change.
func withLinks(t model.Tree, parentID string, kind model.ParentKind, fn func([]model.Link) ([]model.Link, bool)) model.Tree {
	switch kind {
	case model.KindCategory:
		i := t.FindCategory(parentID)
		if i < 0 {
			return t
		}
		links, changed := fn(t[i].Links)
		if !changed {
			return t
		}
		cat := t[i]
		cat.Links = links
		return replaced(t, i, cat)

	case model.KindSubcategory:
		i, j := t.FindSubcategory(parentID)
		if i < 0 {
			return t
		}
		links, changed := fn(t[i].Subcategories[j].Links)
		if !changed {
			return t
		}
		sub := t[i].Subcategories[j]
		sub.Links = links
		cat := t[i]
		cat.Subcategories = replaced(cat.Subcategories, j, sub)
		return replaced(t, i, cat)
	}
	return t
}

// withSubcategories rebuilds the path to a category's subcategories when fn
// reports a change.
func withSubcategories(t model.Tree, categoryID string, fn func([]model.Subcategory) ([]model.Subcategory, bool)) model.Tree {
	i := t.FindCategory(categoryID)
	if i < 0 {
		return t
	}
	subs, changed := fn(t[i].Subcategories)
	if !changed {
		return t
	}
	cat := t[i]
	cat.Subcategories = subs
	return replaced(t, i, cat)
}

func indexOfLink(links []model.Link, id string) int {
	for k := range links {
		if links[k].ID == id {
			return k
		}
	}
	return -1
}

func indexOfSubcategory(subs []model.Subcategory, id string) int {
	for j := range subs {
		if subs[j].ID == id {
			return j
		}
	}
	return -1
}
