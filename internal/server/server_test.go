package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/linkdeck/internal/model"
	"github.com/nikbrunner/linkdeck/internal/persist"
	"github.com/nikbrunner/linkdeck/internal/schedule"
	"github.com/nikbrunner/linkdeck/internal/server"
	"github.com/nikbrunner/linkdeck/internal/storage"
	"github.com/nikbrunner/linkdeck/internal/store"
)

func fixture() model.Tree {
	return model.Tree{
		{
			ID:    "c1",
			Title: "Work",
			Subcategories: []model.Subcategory{
				{ID: "s1", Title: "Design", Links: []model.Link{
					{ID: "l1", Title: "Figma", URL: "https://figma.com"},
					{ID: "l2", Title: "Coolors", URL: "https://coolors.co"},
				}},
			},
			Links: []model.Link{
				{ID: "l3", Title: "Drive", URL: "https://drive.google.com"},
			},
		},
		{ID: "c2", Title: "Leisure", Subcategories: []model.Subcategory{}, Links: []model.Link{}},
	}
}

func newServer(t *testing.T) (http.Handler, *store.Store) {
	t.Helper()
	s := store.New(store.Params{Initial: fixture()})
	return server.New(server.Params{Store: s}).Handler(), s
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeTree(t *testing.T, rec *httptest.ResponseRecorder) server.TreeResponse {
	t.Helper()
	assert.Equal(t, rec.Code, http.StatusOK, rec.Body.String())
	var resp server.TreeResponse
	assert.NilError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestGetTree(t *testing.T) {
	h, s := newServer(t)

	rec := do(t, h, http.MethodGet, "/api/tree", "")

	assert.Equal(t, rec.Header().Get("Content-Type"), "application/json")
	resp := decodeTree(t, rec)
	assert.DeepEqual(t, resp.Tree, s.Tree())
	assert.Equal(t, resp.ID, "")
}

func TestGetSaving(t *testing.T) {
	h, _ := newServer(t)

	rec := do(t, h, http.MethodGet, "/api/saving", "")

	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Equal(t, strings.TrimSpace(rec.Body.String()), `{"saving":false}`)
}

func TestCategoryRoutes(t *testing.T) {
	h, s := newServer(t)

	resp := decodeTree(t, do(t, h, http.MethodPost, "/api/categories", `{"title":"News"}`))
	assert.Assert(t, resp.ID != "")
	assert.Equal(t, len(resp.Tree), 3)
	assert.Equal(t, resp.Tree[2].ID, resp.ID)

	decodeTree(t, do(t, h, http.MethodPatch, "/api/categories/c2", `{"title":"Fun","icon":"Gamepad2"}`))
	assert.Equal(t, s.Tree()[1].Title, "Fun")
	assert.Equal(t, s.Tree()[1].Icon, "Gamepad2")

	// Absent title keeps it, empty icon clears it
	decodeTree(t, do(t, h, http.MethodPatch, "/api/categories/c2", `{"icon":""}`))
	assert.Equal(t, s.Tree()[1].Title, "Fun")
	assert.Equal(t, s.Tree()[1].Icon, "")

	decodeTree(t, do(t, h, http.MethodPost, "/api/categories/move", `{"from":0,"to":2}`))
	assert.DeepEqual(t, []string{s.Tree()[0].ID, s.Tree()[2].ID}, []string{"c2", "c1"})

	resp = decodeTree(t, do(t, h, http.MethodDelete, "/api/categories/c1", ""))
	assert.Equal(t, len(resp.Tree), 2)
	assert.Assert(t, s.Tree().CategoryByID("c1") == nil)
}

func TestSubcategoryRoutes(t *testing.T) {
	h, s := newServer(t)

	resp := decodeTree(t, do(t, h, http.MethodPost, "/api/categories/c1/subcategories", `{"title":"Research"}`))
	assert.Assert(t, resp.ID != "")
	assert.Equal(t, len(s.Tree()[0].Subcategories), 2)

	decodeTree(t, do(t, h, http.MethodPatch, "/api/categories/c1/subcategories/s1", `{"title":"UI"}`))
	assert.Equal(t, s.Tree().SubcategoryByID("s1").Title, "UI")

	decodeTree(t, do(t, h, http.MethodPost, "/api/categories/c1/subcategories/move", `{"from":1,"to":0}`))
	assert.Equal(t, s.Tree()[0].Subcategories[0].ID, resp.ID)

	decodeTree(t, do(t, h, http.MethodDelete, "/api/categories/c1/subcategories/s1", ""))
	assert.Assert(t, s.Tree().SubcategoryByID("s1") == nil)
}

func TestLinkRoutes(t *testing.T) {
	h, s := newServer(t)

	resp := decodeTree(t, do(t, h, http.MethodPost, "/api/subcategory/s1/links", `{"title":"Dribbble","url":"dribbble.com"}`))
	link := s.Tree().FindLink("s1", resp.ID, model.KindSubcategory)
	assert.Assert(t, link != nil)
	assert.Equal(t, link.URL, "https://dribbble.com")

	decodeTree(t, do(t, h, http.MethodPut, "/api/category/c1/links/l3", `{"title":"Docs","url":"https://docs.google.com"}`))
	link = s.Tree().FindLink("c1", "l3", model.KindCategory)
	assert.Equal(t, link.Title, "Docs")
	assert.Equal(t, link.URL, "https://docs.google.com")

	decodeTree(t, do(t, h, http.MethodPost, "/api/subcategory/s1/links/move", `{"from":0,"to":2}`))
	links, _ := s.Tree().LinksOf("s1", model.KindSubcategory)
	assert.DeepEqual(t, []string{links[0].ID, links[2].ID}, []string{"l2", "l1"})

	decodeTree(t, do(t, h, http.MethodDelete, "/api/subcategory/s1/links/l1", ""))
	assert.Assert(t, s.Tree().FindLink("s1", "l1", model.KindSubcategory) == nil)
}

func TestNoOpsAnswerWithUnchangedTree(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"blank category title", http.MethodPost, "/api/categories", `{"title":"   "}`},
		{"unknown category", http.MethodPatch, "/api/categories/nope", `{"title":"X"}`},
		{"delete unknown", http.MethodDelete, "/api/categories/nope", ""},
		{"move out of range", http.MethodPost, "/api/categories/move", `{"from":0,"to":9}`},
		{"link without url", http.MethodPost, "/api/category/c1/links", `{"title":"X","url":""}`},
		{"link under wrong kind", http.MethodPost, "/api/category/s1/links", `{"title":"X","url":"x.com"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s := newServer(t)
			before := s.Tree()

			resp := decodeTree(t, do(t, h, tt.method, tt.path, tt.body))

			assert.Equal(t, resp.ID, "")
			assert.Assert(t, model.SameTree(before, s.Tree()))
			assert.DeepEqual(t, resp.Tree, before)
		})
	}
}

func TestBadRequests(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		code   int
	}{
		{"malformed json", http.MethodPost, "/api/categories", `{"title":`, http.StatusBadRequest},
		{"empty body", http.MethodPost, "/api/categories", "", http.StatusBadRequest},
		{"move without to", http.MethodPost, "/api/categories/move", `{"from":0}`, http.StatusBadRequest},
		{"wrong type", http.MethodPost, "/api/categories/c1/subcategories/move", `{"from":"a","to":1}`, http.StatusBadRequest},
		{"unknown kind", http.MethodPost, "/api/folders/c1/links", `{"title":"X","url":"x.com"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s := newServer(t)
			before := s.Tree()

			rec := do(t, h, tt.method, tt.path, tt.body)

			assert.Equal(t, rec.Code, tt.code, rec.Body.String())
			assert.Assert(t, is.Contains(rec.Body.String(), `"error":true`))
			assert.Assert(t, model.SameTree(before, s.Tree()))
		})
	}
}

func TestSearch(t *testing.T) {
	h, _ := newServer(t)

	rec := do(t, h, http.MethodGet, "/api/search?q=figma", "")

	assert.Equal(t, rec.Code, http.StatusOK)
	var body struct {
		Results []server.SearchHit `json:"results"`
	}
	assert.NilError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, len(body.Results), 1)
	hit := body.Results[0]
	assert.Equal(t, hit.ID, "l1")
	assert.Equal(t, hit.Path, "Work / Design")
	assert.Equal(t, hit.ParentKind, "subcategory")
}

func TestSearch_EmptyQuery(t *testing.T) {
	h, _ := newServer(t)

	rec := do(t, h, http.MethodGet, "/api/search", "")

	assert.Equal(t, strings.TrimSpace(rec.Body.String()), `{"results":[]}`)
}

func TestCORS(t *testing.T) {
	h, _ := newServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/tree", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, rec.Header().Get("Access-Control-Allow-Origin"), "http://localhost:3000")

	req = httptest.NewRequest(http.MethodGet, "/api/tree", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, rec.Header().Get("Access-Control-Allow-Origin"), "")
}

func TestAddCategory_ConcurrentResponsesCarryOwnTree(t *testing.T) {
	h, s := newServer(t)

	const n = 20
	responses := make([]*httptest.ResponseRecorder, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			responses[i] = do(t, h, http.MethodPost, "/api/categories", `{"title":"News"}`)
		}(i)
	}
	wg.Wait()

	sizes := map[int]bool{}
	for _, rec := range responses {
		resp := decodeTree(t, rec)
		last := resp.Tree[len(resp.Tree)-1]
		assert.Equal(t, last.ID, resp.ID, "response tree must be the one that added the category")
		assert.Assert(t, !sizes[len(resp.Tree)], "two responses share a tree of size %d", len(resp.Tree))
		sizes[len(resp.Tree)] = true
	}
	assert.Equal(t, len(s.Tree()), len(fixture())+n)
}

func TestMetrics(t *testing.T) {
	clock := schedule.NewFakeClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	p := persist.New(persist.Params{Storage: storage.NewMemoryStorage(), Clock: clock})
	s := store.New(store.Params{Initial: fixture(), Pipeline: p})
	h := server.New(server.Params{Store: s, Metrics: p.Metrics()}).Handler()

	decodeTree(t, do(t, h, http.MethodPost, "/api/categories", `{"title":"News"}`))
	clock.Advance(time.Second)

	rec := do(t, h, http.MethodGet, "/metrics", "")

	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Assert(t, is.Contains(rec.Body.String(), "linkdeck_tree_writes_total 1"))
}

func TestMetrics_NotServedWithoutCollectors(t *testing.T) {
	h, _ := newServer(t)

	rec := do(t, h, http.MethodGet, "/metrics", "")

	assert.Equal(t, rec.Code, http.StatusNotFound)
}

func TestHealth(t *testing.T) {
	h, _ := newServer(t)

	rec := do(t, h, http.MethodGet, "/health", "")

	assert.Equal(t, rec.Code, http.StatusOK)
	assert.Assert(t, is.Contains(rec.Body.String(), "healthy"))
}
