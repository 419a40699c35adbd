// Package store is the single entry point for reading and changing the link
// tree. Every operation runs the pure mutation engine, adopts the result,
// notifies subscribers and hands the tree to the persistence pipeline.
package store

import (
	"sync"

	"go.uber.org/zap"

	"github.com/nikbrunner/linkdeck/internal/model"
	"github.com/nikbrunner/linkdeck/internal/mutation"
	"github.com/nikbrunner/linkdeck/internal/observe"
	"github.com/nikbrunner/linkdeck/internal/persist"
)

// Params holds parameters for creating a new Store.
type Params struct {
	Initial  model.Tree        // optional, loaded from Pipeline if nil
	Pipeline *persist.Pipeline // optional, headless if nil
	Logger   *zap.Logger       // optional, no-op if nil
}

// Store owns the current tree. Subscribers are called synchronously while
// the operation that caused the change still holds the store, so they must
// not call back into the Store from the callback.
type Store struct {
	mu       sync.Mutex
	tree     *observe.Value[model.Tree]
	pipeline *persist.Pipeline
	logger   *zap.Logger
}

// New creates a Store.
func New(params Params) *Store {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	pipeline := params.Pipeline
	if pipeline == nil {
		pipeline = persist.New(persist.Params{Logger: logger})
	}

	initial := params.Initial
	if initial == nil {
		initial = pipeline.Load()
	}
	initial = model.Normalize(initial)

	// A loaded tree is written back so default ids stay stable across
	// restarts and an evicted entry gets replaced.
	if params.Initial == nil {
		pipeline.Changed(initial)
	}

	return &Store{
		tree:     observe.NewValue(initial),
		pipeline: pipeline,
		logger:   logger.Named("store"),
	}
}

// Tree returns the current tree. Treat it as read-only.
func (s *Store) Tree() model.Tree {
	return s.tree.Get()
}

// Subscribe registers fn to receive every adopted tree, including trees
// left unchanged by a no-op. Returns a function that unsubscribes.
func (s *Store) Subscribe(fn func(model.Tree)) func() {
	return s.tree.Subscribe(fn)
}

// SubscribeSaving registers fn to receive saving signal changes.
func (s *Store) SubscribeSaving(fn func(bool)) func() {
	return s.pipeline.Saving().Subscribe(fn)
}

// Saving reports whether a write is in progress or just finished.
func (s *Store) Saving() bool {
	return s.pipeline.Saving().Get()
}

// Flush writes pending changes immediately.
func (s *Store) Flush() {
	s.pipeline.Flush()
}

// Close flushes pending changes and settles the saving signal.
func (s *Store) Close() {
	s.pipeline.Close()
}

func (s *Store) apply(op string, fn func(model.Tree) model.Tree) (prev, next model.Tree) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev = s.tree.Get()
	next = fn(prev)
	if model.SameTree(prev, next) {
		s.logger.Debug("no-op", zap.String("op", op))
	}

	s.tree.Set(next)
	s.pipeline.Changed(next)
	return prev, next
}

// Replace adopts t as the whole tree and returns it.
func (s *Store) Replace(t model.Tree) model.Tree {
	t = model.Normalize(t)
	_, next := s.apply("replace", func(model.Tree) model.Tree { return t })
	return next
}

// AddCategory appends a category. Returns its id, or "" on a no-op, and
// the tree this operation adopted.
func (s *Store) AddCategory(title string) (string, model.Tree) {
	prev, next := s.apply("add_category", func(t model.Tree) model.Tree {
		return mutation.AddCategory(t, title)
	})
	if model.SameTree(prev, next) {
		return "", next
	}
	return next[len(next)-1].ID, next
}

// AddSubcategory appends a subcategory. Returns its id, or "" on a no-op.
func (s *Store) AddSubcategory(categoryID, title string) (string, model.Tree) {
	prev, next := s.apply("add_subcategory", func(t model.Tree) model.Tree {
		return mutation.AddSubcategory(t, categoryID, title)
	})
	if model.SameTree(prev, next) {
		return "", next
	}
	subs := next[next.FindCategory(categoryID)].Subcategories
	return subs[len(subs)-1].ID, next
}

// AddLink appends a link to a parent. Returns its id, or "" on a no-op.
func (s *Store) AddLink(parentID string, kind model.ParentKind, in mutation.LinkInput) (string, model.Tree) {
	prev, next := s.apply("add_link", func(t model.Tree) model.Tree {
		return mutation.AddLink(t, parentID, kind, in)
	})
	if model.SameTree(prev, next) {
		return "", next
	}
	links, _ := next.LinksOf(parentID, kind)
	return links[len(links)-1].ID, next
}

// The operations below return the tree they adopted, which may differ from
// Tree() once another operation has run.

// UpdateLink replaces a link's title and URL.
func (s *Store) UpdateLink(parentID, linkID string, kind model.ParentKind, in mutation.LinkInput) model.Tree {
	_, next := s.apply("update_link", func(t model.Tree) model.Tree {
		return mutation.UpdateLink(t, parentID, linkID, kind, in)
	})
	return next
}

// UpdateCategory patches a category's title or icon.
func (s *Store) UpdateCategory(categoryID string, p mutation.Patch) model.Tree {
	_, next := s.apply("update_category", func(t model.Tree) model.Tree {
		return mutation.UpdateCategory(t, categoryID, p)
	})
	return next
}

// UpdateSubcategory patches a subcategory's title or icon.
func (s *Store) UpdateSubcategory(categoryID, subcategoryID string, p mutation.Patch) model.Tree {
	_, next := s.apply("update_subcategory", func(t model.Tree) model.Tree {
		return mutation.UpdateSubcategory(t, categoryID, subcategoryID, p)
	})
	return next
}

// DeleteLink removes a link.
func (s *Store) DeleteLink(parentID, linkID string, kind model.ParentKind) model.Tree {
	_, next := s.apply("delete_link", func(t model.Tree) model.Tree {
		return mutation.DeleteLink(t, parentID, linkID, kind)
	})
	return next
}

// DeleteSubcategory removes a subcategory and its links.
func (s *Store) DeleteSubcategory(categoryID, subcategoryID string) model.Tree {
	_, next := s.apply("delete_subcategory", func(t model.Tree) model.Tree {
		return mutation.DeleteSubcategory(t, categoryID, subcategoryID)
	})
	return next
}

// DeleteCategory removes a category with everything in it.
func (s *Store) DeleteCategory(categoryID string) model.Tree {
	_, next := s.apply("delete_category", func(t model.Tree) model.Tree {
		return mutation.DeleteCategory(t, categoryID)
	})
	return next
}

// MoveCategory moves the category at from to position to.
func (s *Store) MoveCategory(from, to int) model.Tree {
	_, next := s.apply("move_category", func(t model.Tree) model.Tree {
		return mutation.MoveCategory(t, from, to)
	})
	return next
}

// MoveSubcategory reorders subcategories within a category.
func (s *Store) MoveSubcategory(categoryID string, from, to int) model.Tree {
	_, next := s.apply("move_subcategory", func(t model.Tree) model.Tree {
		return mutation.MoveSubcategory(t, categoryID, from, to)
	})
	return next
}

// MoveLink reorders links within a parent.
func (s *Store) MoveLink(parentID string, kind model.ParentKind, from, to int) model.Tree {
	_, next := s.apply("move_link", func(t model.Tree) model.Tree {
		return mutation.MoveLink(t, parentID, kind, from, to)
	})
	return next
}
