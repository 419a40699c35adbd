package search

import (
	"github.com/sahilm/fuzzy"

	"github.com/nikbrunner/linkdeck/internal/model"
)

// SearchResult represents a fuzzy search match.
type SearchResult struct {
	Link           *model.Link
	Path           string // "Category / Subcategory" or "Category"
	ParentID       string
	ParentKind     model.ParentKind
	MatchedIndexes []int
	Score          int
}

// linkTitles implements fuzzy.Source over every link in a tree.
type linkTitles []model.LinkRef

func (lt linkTitles) String(i int) string {
	return lt[i].Link.Title
}

func (lt linkTitles) Len() int {
	return len(lt)
}

// FuzzySearchLinks searches all links in the tree by title using fuzzy matching.
// Returns results sorted by match score (best first).
func FuzzySearchLinks(tree model.Tree, query string) []SearchResult {
	if query == "" {
		return nil
	}

	links := linkTitles(tree.AllLinks())
	matches := fuzzy.FindFrom(query, links)

	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		ref := links[m.Index]
		results[i] = SearchResult{
			Link:           ref.Link,
			Path:           ref.Path,
			ParentID:       ref.ParentID,
			ParentKind:     ref.ParentKind,
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}
