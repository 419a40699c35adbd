package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nikbrunner/linkdeck/internal/model"
	"github.com/nikbrunner/linkdeck/internal/mutation"
	"github.com/nikbrunner/linkdeck/internal/search"
)

const maxBodyBytes = 1 << 20

// TitleRequest is the body for adding a category or subcategory.
type TitleRequest struct {
	Title string `json:"title"`
}

// PatchRequest is the body for updating a category or subcategory. Absent
// fields are left unchanged; an empty icon clears it.
type PatchRequest struct {
	Title *string `json:"title,omitempty"`
	Icon  *string `json:"icon,omitempty"`
}

// LinkRequest is the body for adding or updating a link.
type LinkRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// MoveRequest is the body for the move routes.
type MoveRequest struct {
	From *int `json:"from" validate:"required"`
	To   *int `json:"to" validate:"required"`
}

// TreeResponse is returned by every mutation and by GET /api/tree. ID is
// set when an add created something.
type TreeResponse struct {
	ID   string     `json:"id,omitempty"`
	Tree model.Tree `json:"tree"`
}

// SearchHit is one result of GET /api/search.
type SearchHit struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	Path       string `json:"path"`
	ParentID   string `json:"parentId"`
	ParentKind string `json:"parentKind"`
	Score      int    `json:"score"`
}

func (s *Server) getTree(w http.ResponseWriter, _ *http.Request) {
	s.respondTree(w, "", s.store.Tree())
}

func (s *Server) getSaving(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]bool{"saving": s.store.Saving()})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	results := search.FuzzySearchLinks(s.store.Tree(), r.URL.Query().Get("q"))

	hits := make([]SearchHit, len(results))
	for i, res := range results {
		hits[i] = SearchHit{
			ID:         res.Link.ID,
			Title:      res.Link.Title,
			URL:        res.Link.URL,
			Path:       res.Path,
			ParentID:   res.ParentID,
			ParentKind: res.ParentKind.String(),
			Score:      res.Score,
		}
	}
	s.respondJSON(w, http.StatusOK, map[string][]SearchHit{"results": hits})
}

func (s *Server) addCategory(w http.ResponseWriter, r *http.Request) {
	var req TitleRequest
	if !s.decode(w, r, &req) {
		return
	}
	id, tree := s.store.AddCategory(req.Title)
	s.respondTree(w, id, tree)
}

func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
	var req PatchRequest
	if !s.decode(w, r, &req) {
		return
	}
	tree := s.store.UpdateCategory(chi.URLParam(r, "id"), mutation.Patch{Title: req.Title, Icon: req.Icon})
	s.respondTree(w, "", tree)
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	tree := s.store.DeleteCategory(chi.URLParam(r, "id"))
	s.respondTree(w, "", tree)
}

func (s *Server) moveCategory(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if !s.decode(w, r, &req) {
		return
	}
	tree := s.store.MoveCategory(*req.From, *req.To)
	s.respondTree(w, "", tree)
}

func (s *Server) addSubcategory(w http.ResponseWriter, r *http.Request) {
	var req TitleRequest
	if !s.decode(w, r, &req) {
		return
	}
	id, tree := s.store.AddSubcategory(chi.URLParam(r, "id"), req.Title)
	s.respondTree(w, id, tree)
}

func (s *Server) updateSubcategory(w http.ResponseWriter, r *http.Request) {
	var req PatchRequest
	if !s.decode(w, r, &req) {
		return
	}
	tree := s.store.UpdateSubcategory(chi.URLParam(r, "id"), chi.URLParam(r, "subID"), mutation.Patch{Title: req.Title, Icon: req.Icon})
	s.respondTree(w, "", tree)
}

func (s *Server) deleteSubcategory(w http.ResponseWriter, r *http.Request) {
	tree := s.store.DeleteSubcategory(chi.URLParam(r, "id"), chi.URLParam(r, "subID"))
	s.respondTree(w, "", tree)
}

func (s *Server) moveSubcategory(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if !s.decode(w, r, &req) {
		return
	}
	tree := s.store.MoveSubcategory(chi.URLParam(r, "id"), *req.From, *req.To)
	s.respondTree(w, "", tree)
}

func (s *Server) addLink(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.parentKind(w, r)
	if !ok {
		return
	}
	var req LinkRequest
	if !s.decode(w, r, &req) {
		return
	}
	id, tree := s.store.AddLink(chi.URLParam(r, "parentID"), kind, mutation.LinkInput{Title: req.Title, URL: req.URL})
	s.respondTree(w, id, tree)
}

func (s *Server) updateLink(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.parentKind(w, r)
	if !ok {
		return
	}
	var req LinkRequest
	if !s.decode(w, r, &req) {
		return
	}
	tree := s.store.UpdateLink(chi.URLParam(r, "parentID"), chi.URLParam(r, "linkID"), kind, mutation.LinkInput{Title: req.Title, URL: req.URL})
	s.respondTree(w, "", tree)
}

func (s *Server) deleteLink(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.parentKind(w, r)
	if !ok {
		return
	}
	tree := s.store.DeleteLink(chi.URLParam(r, "parentID"), chi.URLParam(r, "linkID"), kind)
	s.respondTree(w, "", tree)
}

func (s *Server) moveLink(w http.ResponseWriter, r *http.Request) {
	kind, ok := s.parentKind(w, r)
	if !ok {
		return
	}
	var req MoveRequest
	if !s.decode(w, r, &req) {
		return
	}
	tree := s.store.MoveLink(chi.URLParam(r, "parentID"), kind, *req.From, *req.To)
	s.respondTree(w, "", tree)
}

// parentKind reads the {kind} route parameter. Unknown kinds answer 404.
func (s *Server) parentKind(w http.ResponseWriter, r *http.Request) (model.ParentKind, bool) {
	raw := chi.URLParam(r, "kind")
	if err := s.validate.Var(raw, "oneof=category subcategory"); err != nil {
		s.respondError(w, http.StatusNotFound, fmt.Sprintf("unknown parent kind %q", raw))
		return 0, false
	}
	kind, err := model.ParseParentKind(raw)
	if err != nil {
		s.respondError(w, http.StatusNotFound, err.Error())
		return 0, false
	}
	return kind, true
}

// decode reads a JSON body into v and validates it. On failure it answers
// 400 and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			s.respondError(w, http.StatusBadRequest, "Request body is empty")
			return false
		}
		s.respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		s.respondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return false
	}
	return true
}

// respondTree answers with tree, the one the handled operation adopted.
func (s *Server) respondTree(w http.ResponseWriter, id string, tree model.Tree) {
	s.respondJSON(w, http.StatusOK, TreeResponse{ID: id, Tree: tree})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]any{
		"error":   true,
		"message": message,
		"code":    status,
	})
}
