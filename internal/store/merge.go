package store

import (
	"strings"

	"go.uber.org/zap"

	"github.com/nikbrunner/linkdeck/internal/model"
	"github.com/nikbrunner/linkdeck/internal/mutation"
)

// MergeResult counts the links handled by ImportMerge.
type MergeResult struct {
	Added   int
	Skipped int
}

// ImportMerge folds src into the current tree as a single operation.
// Categories and subcategories are matched by title, ignoring case; missing
// ones are created. A link is skipped when its URL already exists under the
// same parent.
func (s *Store) ImportMerge(src model.Tree) MergeResult {
	var res MergeResult

	s.apply("import_merge", func(t model.Tree) model.Tree {
		for _, cat := range src {
			var catID string
			t, catID = ensureCategory(t, cat.Title)
			if catID == "" {
				continue
			}
			for _, sub := range cat.Subcategories {
				var subID string
				t, subID = ensureSubcategory(t, catID, sub.Title)
				if subID == "" {
					continue
				}
				t = mergeLinks(t, subID, model.KindSubcategory, sub.Links, &res)
			}
			t = mergeLinks(t, catID, model.KindCategory, cat.Links, &res)
		}
		return t
	})

	s.logger.Info("import merged", zap.Int("added", res.Added), zap.Int("skipped", res.Skipped))
	return res
}

func ensureCategory(t model.Tree, title string) (model.Tree, string) {
	for _, c := range t {
		if strings.EqualFold(c.Title, strings.TrimSpace(title)) {
			return t, c.ID
		}
	}
	next := mutation.AddCategory(t, title)
	if model.SameTree(t, next) {
		return t, ""
	}
	return next, next[len(next)-1].ID
}

func ensureSubcategory(t model.Tree, categoryID, title string) (model.Tree, string) {
	cat := t.CategoryByID(categoryID)
	if cat == nil {
		return t, ""
	}
	for _, s := range cat.Subcategories {
		if strings.EqualFold(s.Title, strings.TrimSpace(title)) {
			return t, s.ID
		}
	}
	next := mutation.AddSubcategory(t, categoryID, title)
	if model.SameTree(t, next) {
		return t, ""
	}
	subs := next[next.FindCategory(categoryID)].Subcategories
	return next, subs[len(subs)-1].ID
}

func mergeLinks(t model.Tree, parentID string, kind model.ParentKind, links []model.Link, res *MergeResult) model.Tree {
	for _, l := range links {
		existing, _ := t.LinksOf(parentID, kind)
		if hasURL(existing, model.NormalizeURL(l.URL)) {
			res.Skipped++
			continue
		}
		next := mutation.AddLink(t, parentID, kind, mutation.LinkInput{Title: l.Title, URL: l.URL})
		if model.SameTree(t, next) {
			res.Skipped++
			continue
		}
		t = next
		res.Added++
	}
	return t
}

func hasURL(links []model.Link, url string) bool {
	for _, l := range links {
		if l.URL == url {
			return true
		}
	}
	return false
}
