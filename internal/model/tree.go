package model

// Tree is the complete persisted state: an ordered sequence of categories.
type Tree []Category

// SameTree reports whether a and b are the same tree value, i.e. share the
// same top-level backing array and length. Mutations return their input
// unchanged on a no-op, so this is the cheap change check.
func SameTree(a, b Tree) bool {
	return sameSlice(a, b)
}

// SameLinks reports whether two link sequences share storage.
func SameLinks(a, b []Link) bool {
	return sameSlice(a, b)
}

// SameSubcategories reports whether two subcategory sequences share storage.
func SameSubcategories(a, b []Subcategory) bool {
	return sameSlice(a, b)
}

func sameSlice[T any](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return (a == nil) == (b == nil)
	}
	return &a[0] == &b[0]
}

// FindCategory returns the index of the category with the given ID, or -1.
func (t Tree) FindCategory(id string) int {
	for i := range t {
		if t[i].ID == id {
			return i
		}
	}
	return -1
}

// FindSubcategory locates a subcategory anywhere in the tree.
// Returns (-1, -1) if not found.
func (t Tree) FindSubcategory(id string) (catIdx, subIdx int) {
	for i := range t {
		for j := range t[i].Subcategories {
			if t[i].Subcategories[j].ID == id {
				return i, j
			}
		}
	}
	return -1, -1
}

// CategoryByID returns a pointer into t, or nil if not found.
func (t Tree) CategoryByID(id string) *Category {
	if i := t.FindCategory(id); i >= 0 {
		return &t[i]
	}
	return nil
}

// SubcategoryByID returns a pointer into t, or nil if not found.
func (t Tree) SubcategoryByID(id string) *Subcategory {
	if i, j := t.FindSubcategory(id); i >= 0 {
		return &t[i].Subcategories[j]
	}
	return nil
}

// LinksOf returns the link sequence of the given parent.
// ok is false when the parent does not exist.
func (t Tree) LinksOf(parentID string, kind ParentKind) (links []Link, ok bool) {
	switch kind {
	case KindCategory:
		if c := t.CategoryByID(parentID); c != nil {
			return c.Links, true
		}
	case KindSubcategory:
		if s := t.SubcategoryByID(parentID); s != nil {
			return s.Links, true
		}
	}
	return nil, false
}

// FindLink returns the link with linkID under the given parent, or nil.
func (t Tree) FindLink(parentID, linkID string, kind ParentKind) *Link {
	links, ok := t.LinksOf(parentID, kind)
	if !ok {
		return nil
	}
	for i := range links {
		if links[i].ID == linkID {
			return &links[i]
		}
	}
	return nil
}

// LinkRef is a link together with where it lives in the tree.
type LinkRef struct {
	Link       *Link
	ParentID   string
	ParentKind ParentKind
	Path       string // "Category" or "Category / Subcategory"
}

// AllLinks returns every link in display order: for each category, its
// subcategories' links first, then its direct links.
func (t Tree) AllLinks() []LinkRef {
	var refs []LinkRef
	for i := range t {
		cat := &t[i]
		for j := range cat.Subcategories {
			sub := &cat.Subcategories[j]
			for k := range sub.Links {
				refs = append(refs, LinkRef{
					Link:       &sub.Links[k],
					ParentID:   sub.ID,
					ParentKind: KindSubcategory,
					Path:       cat.Title + " / " + sub.Title,
				})
			}
		}
		for k := range cat.Links {
			refs = append(refs, LinkRef{
				Link:       &cat.Links[k],
				ParentID:   cat.ID,
				ParentKind: KindCategory,
				Path:       cat.Title,
			})
		}
	}
	return refs
}

// LinkCount returns the number of links in the tree.
func (t Tree) LinkCount() int {
	n := 0
	for _, c := range t {
		n += len(c.Links)
		for _, s := range c.Subcategories {
			n += len(s.Links)
		}
	}
	return n
}

// IDs returns the set of every id in the tree.
func (t Tree) IDs() map[string]struct{} {
	ids := make(map[string]struct{})
	for _, c := range t {
		ids[c.ID] = struct{}{}
		for _, l := range c.Links {
			ids[l.ID] = struct{}{}
		}
		for _, s := range c.Subcategories {
			ids[s.ID] = struct{}{}
			for _, l := range s.Links {
				ids[l.ID] = struct{}{}
			}
		}
	}
	return ids
}

// HasID reports whether id is used anywhere in the tree.
func (t Tree) HasID(id string) bool {
	_, ok := t.IDs()[id]
	return ok
}

// Normalize replaces nil sequences with empty ones in place and returns t.
// A nil tree becomes an empty tree.
func Normalize(t Tree) Tree {
	if t == nil {
		return Tree{}
	}
	for i := range t {
		if t[i].Subcategories == nil {
			t[i].Subcategories = []Subcategory{}
		}
		if t[i].Links == nil {
			t[i].Links = []Link{}
		}
		for j := range t[i].Subcategories {
			if t[i].Subcategories[j].Links == nil {
				t[i].Subcategories[j].Links = []Link{}
			}
		}
	}
	return t
}
