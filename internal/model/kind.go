package model

import "fmt"

// ParentKind tells whether a link's parent is a category or a subcategory.
type ParentKind int

const (
	KindCategory ParentKind = iota
	KindSubcategory
)

// String returns the wire name of the kind.
func (k ParentKind) String() string {
	switch k {
	case KindCategory:
		return "category"
	case KindSubcategory:
		return "subcategory"
	default:
		return fmt.Sprintf("ParentKind(%d)", int(k))
	}
}

// ParseParentKind parses "category" or "subcategory".
func ParseParentKind(s string) (ParentKind, error) {
	switch s {
	case "category":
		return KindCategory, nil
	case "subcategory":
		return KindSubcategory, nil
	default:
		return 0, fmt.Errorf("unknown parent kind %q", s)
	}
}
