package tui

import "github.com/nikbrunner/linkdeck/internal/model"

// ItemKind distinguishes the entries of a list.
type ItemKind int

const (
	ItemCategory ItemKind = iota
	ItemSubcategory
	ItemLink
)

// Item is one row of a pane: a category, a subcategory or a link.
type Item struct {
	Kind        ItemKind
	Category    *model.Category
	Subcategory *model.Subcategory
	Link        *model.Link
	Index       int // position within its own sequence
}

// ID returns the item's ID regardless of kind.
func (i Item) ID() string {
	switch i.Kind {
	case ItemCategory:
		return i.Category.ID
	case ItemSubcategory:
		return i.Subcategory.ID
	default:
		return i.Link.ID
	}
}

// Title returns a display title for the item.
func (i Item) Title() string {
	switch i.Kind {
	case ItemCategory:
		return i.Category.Title
	case ItemSubcategory:
		return i.Subcategory.Title
	default:
		return i.Link.Title
	}
}

// Icon returns the icon name of a group, "" for links.
func (i Item) Icon() string {
	switch i.Kind {
	case ItemCategory:
		return i.Category.Icon
	case ItemSubcategory:
		return i.Subcategory.Icon
	default:
		return ""
	}
}

// IsGroup reports whether the item holds other items.
func (i Item) IsGroup() bool {
	return i.Kind != ItemLink
}

// itemsAt lists the entries of a level: categories at the root, a
// category's subcategories followed by its direct links, or a
// subcategory's links.
func itemsAt(tree model.Tree, categoryID, subcategoryID string) []Item {
	var items []Item

	if categoryID == "" {
		for i := range tree {
			items = append(items, Item{Kind: ItemCategory, Category: &tree[i], Index: i})
		}
		return items
	}

	if subcategoryID != "" {
		sub := tree.SubcategoryByID(subcategoryID)
		if sub == nil {
			return nil
		}
		return linkItems(sub.Links)
	}

	cat := tree.CategoryByID(categoryID)
	if cat == nil {
		return nil
	}
	for i := range cat.Subcategories {
		items = append(items, Item{Kind: ItemSubcategory, Subcategory: &cat.Subcategories[i], Index: i})
	}
	return append(items, linkItems(cat.Links)...)
}

func linkItems(links []model.Link) []Item {
	items := make([]Item, len(links))
	for i := range links {
		items[i] = Item{Kind: ItemLink, Link: &links[i], Index: i}
	}
	return items
}

// indexOf returns the position of the item with the given id, or -1.
func indexOf(items []Item, id string) int {
	for i, item := range items {
		if item.ID() == id {
			return i
		}
	}
	return -1
}
