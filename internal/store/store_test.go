package store_test

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/linkdeck/internal/model"
	"github.com/nikbrunner/linkdeck/internal/mutation"
	"github.com/nikbrunner/linkdeck/internal/persist"
	"github.com/nikbrunner/linkdeck/internal/schedule"
	"github.com/nikbrunner/linkdeck/internal/storage"
	"github.com/nikbrunner/linkdeck/internal/store"
)

func strPtr(s string) *string { return &s }

func newHeadless(t *testing.T) *store.Store {
	t.Helper()
	return store.New(store.Params{Initial: model.Tree{}})
}

func TestNew_HeadlessStartsEmpty(t *testing.T) {
	s := store.New(store.Params{})

	assert.Assert(t, s.Tree() != nil)
	assert.Equal(t, len(s.Tree()), 0)
	assert.Assert(t, !s.Saving())
}

func TestNew_LoadsFromPipeline(t *testing.T) {
	p := persist.New(persist.Params{
		Storage: storage.NewMemoryStorage(),
		Clock:   schedule.NewFakeClock(time.Now()),
	})
	s := store.New(store.Params{Pipeline: p})

	assert.Equal(t, len(s.Tree()), 2)
	assert.Equal(t, s.Tree()[0].Title, "Work")
}

func TestNew_WritesLoadedTree(t *testing.T) {
	clock := schedule.NewFakeClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	mem := storage.NewMemoryStorage()
	s := store.New(store.Params{Pipeline: persist.New(persist.Params{Storage: mem, Clock: clock})})

	clock.Advance(time.Second)
	assert.Equal(t, mem.Sets(), 1)

	raw, ok, err := mem.Get(persist.DefaultKey)
	assert.NilError(t, err)
	assert.Assert(t, ok, "expected the default tree to be stored")
	var stored model.Tree
	assert.NilError(t, json.Unmarshal([]byte(raw), &stored))
	assert.DeepEqual(t, stored.IDs(), s.Tree().IDs())

	reopened := store.New(store.Params{Pipeline: persist.New(persist.Params{Storage: mem, Clock: clock})})
	assert.DeepEqual(t, reopened.Tree().IDs(), s.Tree().IDs())
}

func TestNew_InitialIsNotWritten(t *testing.T) {
	clock := schedule.NewFakeClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	mem := storage.NewMemoryStorage()
	store.New(store.Params{
		Initial:  model.Tree{model.NewCategory("Mine")},
		Pipeline: persist.New(persist.Params{Storage: mem, Clock: clock}),
	})

	clock.Advance(time.Second)
	assert.Equal(t, mem.Sets(), 0)
}

func TestNew_InitialWins(t *testing.T) {
	initial := model.Tree{model.NewCategory("Mine")}
	s := store.New(store.Params{Initial: initial})

	assert.Equal(t, len(s.Tree()), 1)
	assert.Equal(t, s.Tree()[0].Title, "Mine")
}

func TestAddOperations_ReturnIDs(t *testing.T) {
	s := newHeadless(t)

	catID, _ := s.AddCategory("Work")
	assert.Assert(t, catID != "")
	assert.Equal(t, s.Tree()[0].ID, catID)

	subID, _ := s.AddSubcategory(catID, "Design")
	assert.Assert(t, subID != "")
	assert.Equal(t, s.Tree()[0].Subcategories[0].ID, subID)

	linkID, _ := s.AddLink(subID, model.KindSubcategory, mutation.LinkInput{Title: "Figma", URL: "figma.com"})
	assert.Assert(t, linkID != "")
	link := s.Tree().FindLink(subID, linkID, model.KindSubcategory)
	assert.Assert(t, link != nil)
	assert.Equal(t, link.URL, "https://figma.com")

	direct, _ := s.AddLink(catID, model.KindCategory, mutation.LinkInput{Title: "Docs", URL: "https://docs.example.com"})
	assert.Assert(t, direct != "")
	assert.Equal(t, len(s.Tree()[0].Links), 1)
}

func TestAddOperations_NoOpReturnsEmpty(t *testing.T) {
	s := newHeadless(t)
	catID, _ := s.AddCategory("Work")

	before := s.Tree()
	noops := map[string]func() (string, model.Tree){
		"blank category":    func() (string, model.Tree) { return s.AddCategory("   ") },
		"missing category":  func() (string, model.Tree) { return s.AddSubcategory("missing", "Design") },
		"blank subcategory": func() (string, model.Tree) { return s.AddSubcategory(catID, "") },
		"link without url":  func() (string, model.Tree) { return s.AddLink(catID, model.KindCategory, mutation.LinkInput{Title: "x"}) },
		"missing parent": func() (string, model.Tree) {
			return s.AddLink("missing", model.KindCategory, mutation.LinkInput{Title: "x", URL: "x.com"})
		},
	}
	for name, add := range noops {
		id, tree := add()
		assert.Equal(t, id, "", name)
		assert.Assert(t, model.SameTree(tree, before), name)
	}
	assert.Equal(t, len(s.Tree()), 1)
}

func TestOperations_ReturnAdoptedTree(t *testing.T) {
	s := newHeadless(t)

	id, added := s.AddCategory("Work")
	assert.Assert(t, model.SameTree(added, s.Tree()))

	renamed := s.UpdateCategory(id, mutation.Patch{Title: strPtr("Play")})
	assert.Equal(t, renamed[0].Title, "Play")

	s.AddCategory("Later")
	assert.Equal(t, len(renamed), 1, "an adopted tree is not changed by later operations")
	assert.Equal(t, len(s.Tree()), 2)

	moved := s.MoveCategory(0, 1)
	assert.Assert(t, model.SameTree(moved, s.Tree()))
	assert.Equal(t, moved[1].ID, id)

	deleted := s.DeleteCategory(id)
	assert.Equal(t, len(deleted), 1)
}

func TestSubscribe_NotifiedOnEveryOperation(t *testing.T) {
	s := newHeadless(t)

	var got []model.Tree
	unsubscribe := s.Subscribe(func(tree model.Tree) {
		got = append(got, tree)
	})

	id, _ := s.AddCategory("Work")
	s.UpdateCategory(id, mutation.Patch{Title: strPtr("   ")}) // no-op, still adopted
	s.UpdateCategory(id, mutation.Patch{Icon: strPtr("Briefcase")})

	assert.Equal(t, len(got), 3)
	assert.Assert(t, model.SameTree(got[0], got[1]), "no-op must hand back the same tree")
	assert.Equal(t, got[2][0].Icon, "Briefcase")
	assert.Assert(t, model.SameTree(got[2], s.Tree()))

	unsubscribe()
	s.DeleteCategory(id)
	assert.Equal(t, len(got), 3)
	assert.Equal(t, len(s.Tree()), 0)
}

func TestOperations_DelegateToMutations(t *testing.T) {
	s := newHeadless(t)

	a, _ := s.AddCategory("A")
	b, _ := s.AddCategory("B")
	sub1, _ := s.AddSubcategory(a, "S1")
	sub2, _ := s.AddSubcategory(a, "S2")
	l1, _ := s.AddLink(sub1, model.KindSubcategory, mutation.LinkInput{Title: "one", URL: "one.com"})
	l2, _ := s.AddLink(sub1, model.KindSubcategory, mutation.LinkInput{Title: "two", URL: "two.com"})

	s.MoveCategory(0, 1)
	assert.Equal(t, s.Tree()[0].ID, b)

	s.MoveSubcategory(a, 1, 0)
	assert.Equal(t, s.Tree()[1].Subcategories[0].ID, sub2)

	s.MoveLink(sub1, model.KindSubcategory, 0, 1)
	links, _ := s.Tree().LinksOf(sub1, model.KindSubcategory)
	assert.Equal(t, links[0].ID, l2)

	s.UpdateLink(sub1, l1, model.KindSubcategory, mutation.LinkInput{Title: "uno", URL: "uno.com"})
	link := s.Tree().FindLink(sub1, l1, model.KindSubcategory)
	assert.Equal(t, link.Title, "uno")
	assert.Equal(t, link.URL, "https://uno.com")

	s.UpdateSubcategory(a, sub2, mutation.Patch{Title: strPtr("Renamed")})
	assert.Equal(t, s.Tree().SubcategoryByID(sub2).Title, "Renamed")

	s.DeleteLink(sub1, l2, model.KindSubcategory)
	links, _ = s.Tree().LinksOf(sub1, model.KindSubcategory)
	assert.Equal(t, len(links), 1)

	s.DeleteSubcategory(a, sub1)
	assert.Assert(t, s.Tree().SubcategoryByID(sub1) == nil)
	assert.Assert(t, !s.Tree().HasID(l1), "cascade removes the links")
}

func TestReplace(t *testing.T) {
	s := newHeadless(t)
	s.AddCategory("Old")

	s.Replace(model.Tree{{ID: "c1", Title: "New"}})

	assert.Equal(t, len(s.Tree()), 1)
	assert.Equal(t, s.Tree()[0].ID, "c1")
	assert.Assert(t, s.Tree()[0].Links != nil)
}

func TestStore_PersistsThroughPipeline(t *testing.T) {
	clock := schedule.NewFakeClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	mem := storage.NewMemoryStorage()
	p := persist.New(persist.Params{Storage: mem, Clock: clock})
	s := store.New(store.Params{Initial: model.Tree{}, Pipeline: p})

	var saving []bool
	s.SubscribeSaving(func(v bool) { saving = append(saving, v) })

	s.AddCategory("One")
	clock.Advance(200 * time.Millisecond)
	s.AddCategory("Two")

	clock.Advance(749 * time.Millisecond)
	assert.Equal(t, mem.Sets(), 0)
	clock.Advance(time.Millisecond)
	assert.Equal(t, mem.Sets(), 1)
	assert.Assert(t, s.Saving())

	clock.Advance(300 * time.Millisecond)
	assert.Assert(t, !s.Saving())
	assert.DeepEqual(t, saving, []bool{true, false})

	raw, ok, err := mem.Get(persist.DefaultKey)
	assert.NilError(t, err)
	assert.Assert(t, ok)
	var stored model.Tree
	assert.NilError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, len(stored), 2)

	// A fresh store over the same storage picks up where this one left off.
	reopened := store.New(store.Params{Pipeline: persist.New(persist.Params{Storage: mem, Clock: clock})})
	assert.DeepEqual(t, reopened.Tree(), s.Tree())
}

func TestStore_CloseFlushes(t *testing.T) {
	clock := schedule.NewFakeClock(time.Now())
	mem := storage.NewMemoryStorage()
	s := store.New(store.Params{
		Initial:  model.Tree{},
		Pipeline: persist.New(persist.Params{Storage: mem, Clock: clock}),
	})

	s.AddCategory("Pending")
	s.Close()

	assert.Equal(t, mem.Sets(), 1)
	assert.Assert(t, !s.Saving())
}

func TestStore_ConcurrentOperations(t *testing.T) {
	s := newHeadless(t)

	const n = 50
	var wg sync.WaitGroup
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], _ = s.AddCategory("Cat")
		}(i)
	}
	wg.Wait()

	assert.Equal(t, len(s.Tree()), n)
	seen := map[string]bool{}
	for _, id := range ids {
		assert.Assert(t, id != "")
		assert.Assert(t, !seen[id], "duplicate id %s", id)
		seen[id] = true
		assert.Assert(t, is.Contains(s.Tree().IDs(), id))
	}
}
